package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Mattanalytix/fantasy-football-connector/internal/normalize"
)

// fake S3 client recording puts in order
type fakeS3 struct {
	keys    []string
	bodies  map[string][]byte
	failKey string // fail the put whose key contains this substring
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	key := *in.Key
	if f.failKey != "" && strings.Contains(key, f.failKey) {
		return nil, fmt.Errorf("injected failure for %s", key)
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.bodies == nil {
		f.bodies = map[string][]byte{}
	}
	f.keys = append(f.keys, key)
	f.bodies[key] = body
	return &s3.PutObjectOutput{}, nil
}

// fake statement runner recording SQL in order
type fakeAthena struct {
	sql      []string
	failWith string // fail statements containing this substring
}

func (f *fakeAthena) ExecAndWait(ctx context.Context, sql string) (*types.QueryExecution, error) {
	if f.failWith != "" && strings.Contains(sql, f.failWith) {
		return nil, fmt.Errorf("injected athena failure")
	}
	f.sql = append(f.sql, sql)
	return &types.QueryExecution{}, nil
}

func testTables() []normalize.Table {
	return []normalize.Table{
		{Name: normalize.TableTeams, Rows: []normalize.Row{
			normalize.TeamRow{ID: 1, Name: "Arsenal", ShortName: "ARS"},
			normalize.TeamRow{ID: 2, Name: "Chelsea", ShortName: "CHE"},
		}},
		{Name: normalize.TableEvents, Rows: []normalize.Row{
			normalize.EventRow{ID: 1, Name: "Gameweek 1"},
		}},
	}
}

func testUploader(s3c *fakeS3, ath *fakeAthena) *Uploader {
	return &Uploader{
		Snapshots: &SnapshotWriter{S3: s3c, Bucket: "b", Prefix: "snapshots"},
		Warehouse: &WarehouseLoader{S3: s3c, Bucket: "b", Prefix: "warehouse", Database: "fpl", Athena: ath},
	}
}

func TestUpload_SnapshotsThenWarehouse(t *testing.T) {
	s3c := &fakeS3{}
	ath := &fakeAthena{}
	res, err := testUploader(s3c, ath).Upload(context.Background(), "bootstrap-static", "20250830T060000Z-ab12cd34", testTables())
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	wantKeys := []string{
		"snapshots/bootstrap-static/20250830T060000Z-ab12cd34/teams.ndjson",
		"snapshots/bootstrap-static/20250830T060000Z-ab12cd34/events.ndjson",
		"warehouse/teams/run=20250830T060000Z-ab12cd34/part-00000.parquet",
		"warehouse/events/run=20250830T060000Z-ab12cd34/part-00000.parquet",
	}
	if !reflect.DeepEqual(s3c.keys, wantKeys) {
		t.Fatalf("put order:\n got %v\nwant %v", s3c.keys, wantKeys)
	}
	if res.TableRows["teams"] != 2 || res.TableRows["events"] != 1 {
		t.Fatalf("table rows: %v", res.TableRows)
	}

	// snapshot body is NDJSON, one object per row
	body := string(s3c.bodies[wantKeys[0]])
	if strings.Count(body, "\n") != 2 || !strings.Contains(body, `"short_name":"ARS"`) {
		t.Fatalf("teams snapshot body:\n%s", body)
	}

	// swap = DROP then CREATE EXTERNAL per table
	if len(ath.sql) != 4 {
		t.Fatalf("athena statements = %d, want 4", len(ath.sql))
	}
	if !strings.HasPrefix(ath.sql[0], "DROP TABLE IF EXISTS fpl.teams") {
		t.Fatalf("sql[0]: %s", ath.sql[0])
	}
	if !strings.Contains(ath.sql[1], "CREATE EXTERNAL TABLE fpl.teams") ||
		!strings.Contains(ath.sql[1], "s3://b/warehouse/teams/run=20250830T060000Z-ab12cd34/") {
		t.Fatalf("sql[1]: %s", ath.sql[1])
	}
}

func TestUpload_Idempotent(t *testing.T) {
	runID := "20250830T060000Z-ab12cd34"
	first := &fakeS3{}
	athA := &fakeAthena{}
	if _, err := testUploader(first, athA).Upload(context.Background(), "bootstrap-static", runID, testTables()); err != nil {
		t.Fatal(err)
	}
	second := &fakeS3{}
	athB := &fakeAthena{}
	if _, err := testUploader(second, athB).Upload(context.Background(), "bootstrap-static", runID, testTables()); err != nil {
		t.Fatal(err)
	}
	// identical records against the same destination: same keys, same
	// statements, so the served table lands in the same state
	if !reflect.DeepEqual(first.keys, second.keys) {
		t.Fatalf("keys differ between identical uploads")
	}
	if !reflect.DeepEqual(athA.sql, athB.sql) {
		t.Fatalf("DDL differs between identical uploads")
	}
}

func TestUpload_StorageFailureAbortsBeforeWarehouse(t *testing.T) {
	s3c := &fakeS3{failKey: "snapshots/"}
	ath := &fakeAthena{}
	_, err := testUploader(s3c, ath).Upload(context.Background(), "fixtures", "20250830T060000Z-ab12cd34", testTables())

	var ue *UploadError
	if !errors.As(err, &ue) {
		t.Fatalf("want *UploadError, got %v", err)
	}
	if ue.Stage != StageStorage || ue.Endpoint != "fixtures" {
		t.Fatalf("stage=%s endpoint=%s", ue.Stage, ue.Endpoint)
	}
	if len(ath.sql) != 0 {
		t.Fatalf("warehouse should not be attempted after storage failure")
	}
}

func TestUpload_WarehouseFailureKeepsSnapshot(t *testing.T) {
	s3c := &fakeS3{}
	ath := &fakeAthena{failWith: "CREATE EXTERNAL TABLE fpl.teams"}
	_, err := testUploader(s3c, ath).Upload(context.Background(), "bootstrap-static", "20250830T060000Z-ab12cd34", testTables())

	var ue *UploadError
	if !errors.As(err, &ue) {
		t.Fatalf("want *UploadError, got %v", err)
	}
	if ue.Stage != StageWarehouse {
		t.Fatalf("stage = %s, want warehouse", ue.Stage)
	}
	// both snapshot objects were written before the failure and stay put
	for _, k := range s3c.keys[:2] {
		if !strings.HasPrefix(k, "snapshots/") {
			t.Fatalf("snapshot keys: %v", s3c.keys)
		}
	}
}

func TestWarehouseLoad_EmptyTableStillSwaps(t *testing.T) {
	s3c := &fakeS3{}
	ath := &fakeAthena{}
	l := &WarehouseLoader{S3: s3c, Bucket: "b", Prefix: "warehouse", Database: "fpl", Athena: ath}
	err := l.Load(context.Background(), "20250830T060000Z-ab12cd34", normalize.Table{Name: normalize.TableFixtures})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s3c.keys) != 0 {
		t.Fatalf("no parquet object expected for an empty table, got %v", s3c.keys)
	}
	if len(ath.sql) != 2 {
		t.Fatalf("swap should still run, got %d statements", len(ath.sql))
	}
}

func TestBuildCreateExternal_UnknownTable(t *testing.T) {
	if _, err := BuildCreateExternal("fpl", "nope", "s3://b/x/"); err == nil {
		t.Fatal("want error for unknown table")
	}
}
