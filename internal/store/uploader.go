package store

import (
	"context"
	"log"

	"github.com/Mattanalytix/fantasy-football-connector/internal/normalize"
)

// UploadResult reports what one endpoint's upload landed.
type UploadResult struct {
	SnapshotKeys []string       `json:"snapshot_keys"`
	TableRows    map[string]int `json:"table_rows"`
}

// Uploader runs the two destinations in order: S3 snapshot first, warehouse
// second. The snapshot is the durability source of truth, so a snapshot
// failure aborts the endpoint before any warehouse work; a warehouse failure
// after a successful snapshot is surfaced but the snapshot stays for replay.
type Uploader struct {
	Snapshots *SnapshotWriter
	Warehouse *WarehouseLoader
}

func (u *Uploader) Upload(ctx context.Context, endpoint, runID string, tables []normalize.Table) (*UploadResult, error) {
	res := &UploadResult{TableRows: make(map[string]int, len(tables))}
	for _, t := range tables {
		res.TableRows[t.Name] = len(t.Rows)
	}

	keys, err := u.Snapshots.WriteTables(ctx, endpoint, runID, tables)
	res.SnapshotKeys = keys
	if err != nil {
		return res, &UploadError{Endpoint: endpoint, Stage: StageStorage, Err: err}
	}

	for _, t := range tables {
		if err := u.Warehouse.Load(ctx, runID, t); err != nil {
			log.Printf("upload %s: snapshot intact under %s, warehouse load failed: %v", endpoint, runID, err)
			return res, &UploadError{Endpoint: endpoint, Stage: StageWarehouse, Err: err}
		}
	}
	return res, nil
}
