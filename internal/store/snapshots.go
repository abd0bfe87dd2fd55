package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Mattanalytix/fantasy-football-connector/internal/normalize"
)

type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// SnapshotWriter lands processed tables in S3 as NDJSON, one object per
// table under {prefix}/{endpoint}/{runID}/. Run ids embed a fresh timestamp,
// so keys are never reused and objects are effectively immutable.
type SnapshotWriter struct {
	S3     S3API
	Bucket string
	Prefix string
}

// WriteTables writes every table and returns the object keys written.
func (w *SnapshotWriter) WriteTables(ctx context.Context, endpoint, runID string, tables []normalize.Table) ([]string, error) {
	keys := make([]string, 0, len(tables))
	for _, t := range tables {
		body, err := encodeNDJSON(t.Rows)
		if err != nil {
			return keys, fmt.Errorf("encode %s: %w", t.Name, err)
		}
		key := fmt.Sprintf("%s/%s/%s/%s.ndjson", w.Prefix, endpoint, runID, t.Name)
		_, err = w.S3.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(w.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(body),
			ContentType: aws.String("application/x-ndjson"),
		})
		if err != nil {
			return keys, fmt.Errorf("put s3://%s/%s: %w", w.Bucket, key, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func encodeNDJSON(rows []normalize.Row) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
