package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Mattanalytix/fantasy-football-connector/internal/fpl"
	"github.com/Mattanalytix/fantasy-football-connector/internal/normalize"
	"github.com/Mattanalytix/fantasy-football-connector/internal/pipeline"
	"github.com/Mattanalytix/fantasy-football-connector/internal/store"
)

type fakeLedger struct {
	runs map[string]store.RunRecord
}

func (f *fakeLedger) GetRun(ctx context.Context, runID string) (*store.RunRecord, error) {
	if _, err := store.DateOfRunID(runID); err != nil {
		return nil, err
	}
	if rec, ok := f.runs[runID]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (f *fakeLedger) ListRunsByDate(ctx context.Context, date string) ([]store.RunRecord, error) {
	var out []store.RunRecord
	for _, rec := range f.runs {
		if rec.Date == date {
			out = append(out, rec)
		}
	}
	return out, nil
}

type okUploader struct{}

func (okUploader) Upload(ctx context.Context, endpoint, runID string, tables []normalize.Table) (*store.UploadResult, error) {
	res := &store.UploadResult{TableRows: map[string]int{}}
	for _, t := range tables {
		res.TableRows[t.Name] = len(t.Rows)
	}
	return res, nil
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bootstrap-static/":
			fmt.Fprint(w, `{"events":[],"teams":[{"id":1,"short_name":"ARS"}],"elements":[{"id":101,"team":1},{"id":102,"team":1}],"element_types":[]}`)
		case "/fixtures/":
			fmt.Fprint(w, `[]`)
		default:
			fmt.Fprint(w, `{"history":[{"fixture":9,"minutes":90}],"history_past":[]}`)
		}
	}))
	t.Cleanup(api.Close)

	client := fpl.NewClient(api.URL)
	client.RetryBase = time.Millisecond
	return &Handler{
		Runner: &pipeline.Runner{Client: client, Uploader: okUploader{}, Workers: 2},
		Client: client,
		Ledger: &fakeLedger{runs: map[string]store.RunRecord{
			"20250830T060000Z-ab12cd34": {
				RunID:  "20250830T060000Z-ab12cd34",
				Date:   "2025-08-30",
				OK:     true,
				Report: []byte(`{"run_id":"20250830T060000Z-ab12cd34","ok":true}`),
			},
		}},
	}
}

func do(t *testing.T, h *Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	rr := do(t, newTestHandler(t), "GET", "/healthz", "")
	if rr.Code != 200 {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestRun_FullSuccessIs200(t *testing.T) {
	rr := do(t, newTestHandler(t), "POST", "/run", `{"endpoints":["bootstrap-static"]}`)
	if rr.Code != 200 {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body)
	}
	var report pipeline.RunReport
	if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if !report.OK || len(report.Endpoints) != 1 {
		t.Fatalf("report: %+v", report)
	}
}

func TestRun_EmptyBodyRunsEverything(t *testing.T) {
	rr := do(t, newTestHandler(t), "POST", "/run", "")
	if rr.Code != 200 {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body)
	}
	var report pipeline.RunReport
	if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if len(report.Endpoints) != 3 {
		t.Fatalf("endpoints = %d, want 3", len(report.Endpoints))
	}
}

func TestRun_BadRequests(t *testing.T) {
	h := newTestHandler(t)
	if rr := do(t, h, "POST", "/run", `{"endpoints":["boostrap"]}`); rr.Code != 400 {
		t.Fatalf("unknown endpoint: status = %d", rr.Code)
	}
	if rr := do(t, h, "POST", "/run", `{"max_workers":21}`); rr.Code != 400 {
		t.Fatalf("max_workers: status = %d", rr.Code)
	}
	if rr := do(t, h, "POST", "/run", `{"endpoints":`); rr.Code != 400 {
		t.Fatalf("bad json: status = %d", rr.Code)
	}
}

func TestGetRun(t *testing.T) {
	h := newTestHandler(t)
	rr := do(t, h, "GET", "/runs/20250830T060000Z-ab12cd34", "")
	if rr.Code != 200 {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"run_id":"20250830T060000Z-ab12cd34"`) {
		t.Fatalf("body: %s", rr.Body)
	}

	if rr := do(t, h, "GET", "/runs/20250830T070000Z-ffffffff", ""); rr.Code != 404 {
		t.Fatalf("missing run: status = %d", rr.Code)
	}
	if rr := do(t, h, "GET", "/runs/garbage", ""); rr.Code != 400 {
		t.Fatalf("junk run id: status = %d", rr.Code)
	}
}

func TestListRuns(t *testing.T) {
	h := newTestHandler(t)
	rr := do(t, h, "GET", "/runs?date=2025-08-30", "")
	if rr.Code != 200 {
		t.Fatalf("status = %d", rr.Code)
	}
	var out struct {
		Date string `json:"date"`
		Runs []struct {
			RunID string `json:"run_id"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Date != "2025-08-30" || len(out.Runs) != 1 {
		t.Fatalf("out: %+v", out)
	}

	if rr := do(t, h, "GET", "/runs?date=Aug-30", ""); rr.Code != 400 {
		t.Fatalf("bad date: status = %d", rr.Code)
	}
}

func TestTeamPlayers(t *testing.T) {
	h := newTestHandler(t)
	rr := do(t, h, "GET", "/teams/1/players", "")
	if rr.Code != 200 {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body)
	}
	var out struct {
		TeamID     int   `json:"team_id"`
		ElementIDs []int `json:"element_ids"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.TeamID != 1 || len(out.ElementIDs) != 2 {
		t.Fatalf("out: %+v", out)
	}

	if rr := do(t, h, "GET", "/teams/0/players", ""); rr.Code != 400 {
		t.Fatalf("team 0: status = %d", rr.Code)
	}
	if rr := do(t, h, "GET", "/teams/21/players", ""); rr.Code != 400 {
		t.Fatalf("team 21: status = %d", rr.Code)
	}
	if rr := do(t, h, "GET", "/teams/20/players", ""); rr.Code != 404 {
		t.Fatalf("empty team: status = %d", rr.Code)
	}
}
