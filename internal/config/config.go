package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Mattanalytix/fantasy-football-connector/internal/fpl"
)

// Config is everything the connector reads from the environment. Credential
// resolution is the only thing LocalEnv changes; business logic never looks
// at it.
type Config struct {
	// object storage
	BucketName      string
	SnapshotPrefix  string
	WarehousePrefix string

	// warehouse
	AthenaDB        string
	AthenaWorkgroup string
	AthenaOutput    string // s3://bucket/prefix/ for query results

	// run ledger
	RunsTableName string

	// upstream API
	FPLBaseURL string

	MaxWorkers int
	Port       string

	// local development against localstack
	LocalEnv    bool
	EndpointURL string
	Region      string
}

func Load() *Config {
	return &Config{
		BucketName:      getenv("BUCKET_NAME", ""),
		SnapshotPrefix:  strings.Trim(getenv("SNAPSHOT_PREFIX", "snapshots"), "/"),
		WarehousePrefix: strings.Trim(getenv("WAREHOUSE_PREFIX", "warehouse"), "/"),
		AthenaDB:        getenv("ATHENA_DB", ""),
		AthenaWorkgroup: getenv("ATHENA_WORKGROUP", "primary"),
		AthenaOutput:    getenv("ATHENA_OUTPUT", ""),
		RunsTableName:   getenv("RUNS_TABLE_NAME", ""),
		FPLBaseURL:      getenv("FPL_BASE_URL", fpl.DefaultBaseURL),
		MaxWorkers:      getenvInt("MAX_WORKERS", 5),
		Port:            getenv("PORT", "8080"),
		LocalEnv:        getenv("LOCAL_ENV", "false") == "true",
		EndpointURL:     getenv("AWS_ENDPOINT_URL", ""),
		Region:          getenv("AWS_REGION", "eu-west-2"),
	}
}

// Validate reports the identifiers a run cannot proceed without.
func (c *Config) Validate() error {
	missing := []string{}
	if c.BucketName == "" {
		missing = append(missing, "BUCKET_NAME")
	}
	if c.AthenaDB == "" {
		missing = append(missing, "ATHENA_DB")
	}
	if c.AthenaOutput == "" {
		missing = append(missing, "ATHENA_OUTPUT")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env: %s", strings.Join(missing, ", "))
	}
	if c.MaxWorkers < fpl.MinWorkers || c.MaxWorkers > fpl.MaxWorkers {
		return fmt.Errorf("MAX_WORKERS %d out of range [%d,%d]", c.MaxWorkers, fpl.MinWorkers, fpl.MaxWorkers)
	}
	return nil
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
