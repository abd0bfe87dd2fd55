package store

import "fmt"

// Upload stages, for failure attribution.
const (
	StageStorage   = "storage"
	StageWarehouse = "warehouse"
)

// UploadError attributes an upload failure to an endpoint and a stage. A
// storage failure means nothing durable was written for the endpoint; a
// warehouse failure means the S3 snapshot exists and can be replayed.
type UploadError struct {
	Endpoint string
	Stage    string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %s failed: %v", e.Endpoint, e.Stage, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
