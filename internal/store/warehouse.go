package store

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	parquet "github.com/parquet-go/parquet-go"

	"github.com/Mattanalytix/fantasy-football-connector/internal/normalize"
)

type statementRunner interface {
	ExecAndWait(ctx context.Context, sql string) (*types.QueryExecution, error)
}

// WarehouseLoader serves each target table through Athena as an external
// table over one run's parquet prefix. A load writes the run's parquet
// object, drops the served table, and recreates it over the new location;
// loading identical records twice leaves the served table in the same state.
type WarehouseLoader struct {
	S3       S3API
	Bucket   string
	Prefix   string
	Database string
	Athena   statementRunner
}

// Load writes one table's rows for one run and swaps the served table over.
// An empty table still swaps, so a legitimately empty result replaces stale
// data rather than hiding behind it.
func (l *WarehouseLoader) Load(ctx context.Context, runID string, t normalize.Table) error {
	prefix := fmt.Sprintf("%s/%s/run=%s", l.Prefix, t.Name, runID)
	if len(t.Rows) > 0 {
		body, err := encodeParquet(t.Rows)
		if err != nil {
			return fmt.Errorf("encode %s parquet: %w", t.Name, err)
		}
		key := prefix + "/part-00000.parquet"
		_, err = l.S3.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(l.Bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(body),
		})
		if err != nil {
			return fmt.Errorf("put s3://%s/%s: %w", l.Bucket, key, err)
		}
	}

	location := fmt.Sprintf("s3://%s/%s/", l.Bucket, prefix)
	create, err := BuildCreateExternal(l.Database, t.Name, location)
	if err != nil {
		return err
	}
	if _, err := l.Athena.ExecAndWait(ctx, BuildDrop(l.Database, t.Name)); err != nil {
		return fmt.Errorf("drop %s: %w", t.Name, err)
	}
	if _, err := l.Athena.ExecAndWait(ctx, create); err != nil {
		return fmt.Errorf("create %s: %w", t.Name, err)
	}
	log.Printf("warehouse: %s now serves %d rows from %s", t.Name, len(t.Rows), location)
	return nil
}

func encodeParquet(rows []normalize.Row) ([]byte, error) {
	var buf bytes.Buffer
	schema := parquet.SchemaOf(rows[0])
	w := parquet.NewWriter(&buf, schema, parquet.Compression(&parquet.Snappy))
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
