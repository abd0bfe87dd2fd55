package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Mattanalytix/fantasy-football-connector/internal/fpl"
	"github.com/Mattanalytix/fantasy-football-connector/internal/normalize"
	"github.com/Mattanalytix/fantasy-football-connector/internal/store"
)

// Pipeline stages, for failure attribution in reports.
const (
	stageFetch   = "fetch"
	stageProcess = "process"
	stageUpload  = "upload"
)

// Uploader lands one endpoint's tables in both destinations.
type Uploader interface {
	Upload(ctx context.Context, endpoint, runID string, tables []normalize.Table) (*store.UploadResult, error)
}

// Ledger records run reports. Optional; a nil ledger disables recording.
type Ledger interface {
	PutRun(ctx context.Context, rec store.RunRecord) error
}

// Runner sequences fetch, process, upload per selected endpoint. One
// endpoint's failure never stops the next endpoint; each pipeline fetches
// its own payloads and shares nothing with its siblings.
type Runner struct {
	Client   *fpl.Client
	Uploader Uploader
	Ledger   Ledger
	Workers  int // element-summary fan-out width
}

// Run executes one invocation. The error is non-nil only for a bad request
// (unknown endpoint name, worker count out of range); endpoint failures are
// carried in the report instead.
func (r *Runner) Run(ctx context.Context, req RunRequest) (*RunReport, error) {
	endpoints := req.Endpoints
	if len(endpoints) == 0 {
		endpoints = AllEndpoints
	}
	for _, ep := range endpoints {
		switch ep {
		case EndpointBootstrapStatic, EndpointElementSummary, EndpointFixtures:
		default:
			return nil, fmt.Errorf("unknown endpoint %q", ep)
		}
	}
	if req.MaxWorkers != 0 && (req.MaxWorkers < fpl.MinWorkers || req.MaxWorkers > fpl.MaxWorkers) {
		return nil, fmt.Errorf("max_workers %d out of range [%d,%d]", req.MaxWorkers, fpl.MinWorkers, fpl.MaxWorkers)
	}

	start := time.Now().UTC()
	report := &RunReport{
		RunID:     NewRunID(start),
		StartedAt: start,
		OK:        true,
	}
	log.Printf("[run %s] starting endpoints=%s", report.RunID, strings.Join(endpoints, ","))

	for _, ep := range endpoints {
		epStart := time.Now()
		var epr EndpointReport
		switch ep {
		case EndpointBootstrapStatic:
			epr = r.runBootstrapStatic(ctx, report.RunID)
		case EndpointElementSummary:
			epr = r.runElementSummary(ctx, report.RunID, req, report)
		case EndpointFixtures:
			epr = r.runFixtures(ctx, report.RunID)
		}
		epr.Endpoint = ep
		epr.DurationMs = time.Since(epStart).Milliseconds()
		if !epr.OK {
			report.OK = false
			log.Printf("[run %s] %s FAILED at %s: %s", report.RunID, ep, epr.Stage, epr.Error)
		} else {
			log.Printf("[run %s] %s OK: %v rows (%d retries)", report.RunID, ep, epr.TableRows, epr.Retries)
		}
		report.Endpoints = append(report.Endpoints, epr)
	}

	report.DurationMs = time.Since(start).Milliseconds()
	r.record(ctx, report)
	return report, nil
}

// NewRunID builds a fresh run id: the run's UTC timestamp plus a uuid
// fragment, so concurrent runs in the same second cannot collide.
func NewRunID(t time.Time) string {
	return t.Format("20060102T150405Z") + "-" + uuid.NewString()[:8]
}

func (r *Runner) runBootstrapStatic(ctx context.Context, runID string) EndpointReport {
	payload, retries, err := r.Client.FetchBootstrapStatic(ctx)
	if err != nil {
		return failed(stageFetch, err, retries)
	}
	tables, err := normalize.Bootstrap(payload)
	if err != nil {
		return failed(stageProcess, err, retries)
	}
	return r.upload(ctx, EndpointBootstrapStatic, runID, tables, retries)
}

func (r *Runner) runFixtures(ctx context.Context, runID string) EndpointReport {
	// team names come from a fresh bootstrap fetch; fixtures share no state
	// with the bootstrap-static pipeline
	boot, retries, err := r.Client.FetchBootstrapStatic(ctx)
	if err != nil {
		return failed(stageFetch, err, retries)
	}
	fixtures, fr, err := r.Client.FetchFixtures(ctx)
	retries += fr
	if err != nil {
		return failed(stageFetch, err, retries)
	}
	table, err := normalize.Fixtures(fixtures, boot.Teams)
	if err != nil {
		return failed(stageProcess, err, retries)
	}
	return r.upload(ctx, EndpointFixtures, runID, []normalize.Table{table}, retries)
}

func (r *Runner) runElementSummary(ctx context.Context, runID string, req RunRequest, report *RunReport) EndpointReport {
	boot, retries, err := r.Client.FetchBootstrapStatic(ctx)
	if err != nil {
		return failed(stageFetch, err, retries)
	}
	ids, unknown := fpl.SelectElements(boot, req.TeamIDs, req.ElementIDs)
	if len(unknown) > 0 {
		log.Printf("[run %s] element-summary: %d requested ids not in the selection universe: %v", runID, len(unknown), unknown)
		report.UnknownElements = unknown
	}
	if len(ids) == 0 {
		return failed(stageFetch, fmt.Errorf("no elements matched the request"), retries)
	}

	workers := req.MaxWorkers
	if workers == 0 {
		workers = r.Workers
	}

	var history, past []normalize.Row
	var failures []EntityFailure
	for _, res := range r.Client.FetchElementSummaries(ctx, ids, workers) {
		retries += res.Retries
		if res.Err != nil {
			failures = append(failures, EntityFailure{ElementID: res.ElementID, Stage: stageFetch, Reason: res.Err.Error()})
			continue
		}
		h, p, err := normalize.ElementSummary(res.ElementID, res.Summary)
		if err != nil {
			// one player's malformed summary never blocks the others
			failures = append(failures, EntityFailure{ElementID: res.ElementID, Stage: stageProcess, Reason: err.Error()})
			continue
		}
		history = append(history, h...)
		past = append(past, p...)
	}

	if len(failures) == len(ids) {
		epr := failed(stageFetch, fmt.Errorf("all %d elements failed", len(ids)), retries)
		epr.Entities = failures
		return epr
	}

	tables := []normalize.Table{
		{Name: normalize.TableHistory, Rows: history},
		{Name: normalize.TableHistoryPast, Rows: past},
	}
	epr := r.upload(ctx, EndpointElementSummary, runID, tables, retries)
	epr.Entities = failures
	return epr
}

func (r *Runner) upload(ctx context.Context, endpoint, runID string, tables []normalize.Table, retries int) EndpointReport {
	res, err := r.Uploader.Upload(ctx, endpoint, runID, tables)
	if err != nil {
		epr := failed(stageUpload, err, retries)
		var ue *store.UploadError
		if errors.As(err, &ue) {
			epr.Stage = stageUpload + ":" + ue.Stage
		}
		if res != nil {
			epr.TableRows = res.TableRows
		}
		return epr
	}
	return EndpointReport{OK: true, TableRows: res.TableRows, Retries: retries}
}

func (r *Runner) record(ctx context.Context, report *RunReport) {
	if r.Ledger == nil {
		return
	}
	body, err := json.Marshal(report)
	if err != nil {
		log.Printf("[run %s] marshal report: %v", report.RunID, err)
		return
	}
	rec := store.RunRecord{
		RunID:      report.RunID,
		Date:       report.StartedAt.Format("2006-01-02"),
		StartedAt:  report.StartedAt.Unix(),
		DurationMs: report.DurationMs,
		OK:         report.OK,
		Report:     body,
	}
	// ledger write failure never fails a run that already landed its data
	if err := r.Ledger.PutRun(ctx, rec); err != nil {
		log.Printf("[run %s] record run: %v", report.RunID, err)
	}
}

func failed(stage string, err error, retries int) EndpointReport {
	return EndpointReport{OK: false, Stage: stage, Error: err.Error(), Retries: retries}
}
