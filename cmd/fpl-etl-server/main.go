package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/athena"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Mattanalytix/fantasy-football-connector/internal/config"
	"github.com/Mattanalytix/fantasy-football-connector/internal/fpl"
	"github.com/Mattanalytix/fantasy-football-connector/internal/pipeline"
	"github.com/Mattanalytix/fantasy-football-connector/internal/server"
	"github.com/Mattanalytix/fantasy-football-connector/internal/store"
)

func main() {
	log.Printf("Starting fantasy-football-connector trigger surface")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.RunsTableName == "" {
		log.Fatalf("config: missing required env: RUNS_TABLE_NAME")
	}

	ctx := context.Background()
	awsCfg, err := cfg.AWSConfig(ctx)
	if err != nil {
		log.Fatalf("aws config: %v", err)
	}
	s3c := s3.NewFromConfig(awsCfg)
	ledger := &store.RunLedger{DDB: ddb.NewFromConfig(awsCfg), Table: cfg.RunsTableName}

	client := fpl.NewClient(cfg.FPLBaseURL)
	runner := &pipeline.Runner{
		Client: client,
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
		Ledger:  ledger,
		Workers: cfg.MaxWorkers,
	}

	srv := server.NewServer(cfg.Port, &server.Handler{
		Runner: runner,
		Client: client,
		Ledger: ledger,
	})

	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
