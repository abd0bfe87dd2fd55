package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// RunRecord is one run's ledger entry. Report carries the full run report as
// JSON; the other fields exist so the trigger surface and the alerting
// collaborator can query without unpacking it.
type RunRecord struct {
	RunID      string `json:"run_id"`
	Date       string `json:"date"` // YYYY-MM-DD, partition key
	StartedAt  int64  `json:"started_at"`
	DurationMs int64  `json:"duration_ms"`
	OK         bool   `json:"ok"`
	Report     []byte `json:"report"`
}

// RunLedger records run reports in DynamoDB. PK=RunDate (S), SK=RunID (S).
type RunLedger struct {
	DDB   DynamoDBAPI
	Table string
}

func (l *RunLedger) PutRun(ctx context.Context, rec RunRecord) error {
	if rec.RunID == "" || rec.Date == "" {
		return fmt.Errorf("run record needs RunID and Date")
	}
	item := map[string]types.AttributeValue{
		"RunDate":    &types.AttributeValueMemberS{Value: rec.Date},
		"RunID":      &types.AttributeValueMemberS{Value: rec.RunID},
		"StartedAt":  &types.AttributeValueMemberN{Value: strconv.FormatInt(rec.StartedAt, 10)},
		"DurationMs": &types.AttributeValueMemberN{Value: strconv.FormatInt(rec.DurationMs, 10)},
		"OK":         &types.AttributeValueMemberBOOL{Value: rec.OK},
		"Report":     &types.AttributeValueMemberS{Value: string(rec.Report)},
		"UpdatedAt":  &types.AttributeValueMemberN{Value: strconv.FormatInt(time.Now().Unix(), 10)},
	}
	_, err := l.DDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.Table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put run %s: %w", rec.RunID, err)
	}
	return nil
}

// GetRun looks a run up by id. Run ids start with the run's UTC timestamp
// (20060102T150405Z-...), so the partition date is derivable from the id.
func (l *RunLedger) GetRun(ctx context.Context, runID string) (*RunRecord, error) {
	date, err := DateOfRunID(runID)
	if err != nil {
		return nil, err
	}
	out, err := l.DDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(l.Table),
		Key: map[string]types.AttributeValue{
			"RunDate": &types.AttributeValueMemberS{Value: date},
			"RunID":   &types.AttributeValueMemberS{Value: runID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	if out.Item == nil {
		return nil, nil
	}
	rec := recordFromItem(out.Item)
	return &rec, nil
}

// ListRunsByDate returns every run recorded for one YYYY-MM-DD day.
func (l *RunLedger) ListRunsByDate(ctx context.Context, date string) ([]RunRecord, error) {
	var recs []RunRecord
	var lastKey map[string]types.AttributeValue
	for {
		out, err := l.DDB.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(l.Table),
			KeyConditionExpression:    aws.String("#D = :d"),
			ExpressionAttributeNames:  map[string]string{"#D": "RunDate"},
			ExpressionAttributeValues: map[string]types.AttributeValue{":d": &types.AttributeValueMemberS{Value: date}},
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("query runs for %s: %w", date, err)
		}
		for _, it := range out.Items {
			recs = append(recs, recordFromItem(it))
		}
		lastKey = out.LastEvaluatedKey
		if len(lastKey) == 0 {
			return recs, nil
		}
	}
}

// DateOfRunID extracts the YYYY-MM-DD partition date from a run id.
func DateOfRunID(runID string) (string, error) {
	i := strings.IndexByte(runID, '-')
	if i < 0 {
		i = len(runID)
	}
	ts, err := time.Parse("20060102T150405Z", runID[:i])
	if err != nil {
		return "", fmt.Errorf("run id %q has no timestamp prefix: %w", runID, err)
	}
	return ts.Format("2006-01-02"), nil
}

func recordFromItem(item map[string]types.AttributeValue) RunRecord {
	return RunRecord{
		RunID:      itemStr(item, "RunID"),
		Date:       itemStr(item, "RunDate"),
		StartedAt:  itemNum(item, "StartedAt"),
		DurationMs: itemNum(item, "DurationMs"),
		OK:         itemBool(item, "OK"),
		Report:     []byte(itemStr(item, "Report")),
	}
}

func itemStr(item map[string]types.AttributeValue, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func itemNum(item map[string]types.AttributeValue, name string) int64 {
	if v, ok := item[name].(*types.AttributeValueMemberN); ok {
		n, _ := strconv.ParseInt(v.Value, 10, 64)
		return n
	}
	return 0
}

func itemBool(item map[string]types.AttributeValue, name string) bool {
	if v, ok := item[name].(*types.AttributeValueMemberBOOL); ok {
		return v.Value
	}
	return false
}
