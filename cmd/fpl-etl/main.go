package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Mattanalytix/fantasy-football-connector/internal/config"
	"github.com/Mattanalytix/fantasy-football-connector/internal/fpl"
	"github.com/Mattanalytix/fantasy-football-connector/internal/pipeline"
	"github.com/Mattanalytix/fantasy-football-connector/internal/store"
)

// Event mirrors pipeline.RunRequest for scheduled (EventBridge) invocations.
type Event struct {
	Endpoints  []string `json:"endpoints"`
	TeamIDs    []int    `json:"team_ids"`
	ElementIDs []int    `json:"element_ids"`
	MaxWorkers int      `json:"max_workers"`
}

func handler(ctx context.Context, e Event) (*pipeline.RunReport, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	awsCfg, err := cfg.AWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	s3c := s3.NewFromConfig(awsCfg)

	runner := &pipeline.Runner{
		Client: fpl.NewClient(cfg.FPLBaseURL),
		Uploader: &store.Uploader{
			Snapshots: &store.SnapshotWriter{S3: s3c, Bucket: cfg.BucketName, Prefix: cfg.SnapshotPrefix},
			Warehouse: &store.WarehouseLoader{
				S3:       s3c,
				Bucket:   cfg.BucketName,
				Prefix:   cfg.WarehousePrefix,
				Database: cfg.AthenaDB,
				Athena: &store.AthenaRunner{
					Client:    athena.NewFromConfig(awsCfg),
					Workgroup: cfg.AthenaWorkgroup,
					Database:  cfg.AthenaDB,
					OutputS3:  cfg.AthenaOutput,
				},
			},
		},
		Workers: cfg.MaxWorkers,
	}
	if cfg.RunsTableName != "" {
		runner.Ledger = &store.RunLedger{DDB: ddb.NewFromConfig(awsCfg), Table: cfg.RunsTableName}
	}

	report, err := runner.Run(ctx, pipeline.RunRequest{
		Endpoints:  e.Endpoints,
		TeamIDs:    e.TeamIDs,
		ElementIDs: e.ElementIDs,
		MaxWorkers: e.MaxWorkers,
	})
	if err != nil {
		return nil, err
	}
	if !report.OK {
		// surface the failure to the scheduler so the alarm fires; the
		// report still carries the per-endpoint detail
		return report, fmt.Errorf("run %s: endpoints failed: %s", report.RunID, strings.Join(report.Failed(), ", "))
	}
	log.Printf("OK run %s: %d endpoints in %dms", report.RunID, len(report.Endpoints), report.DurationMs)
	return report, nil
}

func main() {
	lambda.Start(handler)
}
