package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/Mattanalytix/fantasy-football-connector/internal/fpl"
	"github.com/Mattanalytix/fantasy-football-connector/internal/pipeline"
	"github.com/Mattanalytix/fantasy-football-connector/internal/store"
)

// Ledger is the read side of the run ledger.
type Ledger interface {
	GetRun(ctx context.Context, runID string) (*store.RunRecord, error)
	ListRunsByDate(ctx context.Context, date string) ([]store.RunRecord, error)
}

// Handler holds the dependencies the trigger surface calls into.
type Handler struct {
	Runner *pipeline.Runner
	Client *fpl.Client
	Ledger Ledger
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "fantasy-football-connector",
	})
}

// Run triggers a synchronous ETL run. 200 means every selected endpoint
// landed; 500 carries the report with the failed endpoints in it.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	var req pipeline.RunRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	report, err := h.Runner.Run(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid run request", err)
		return
	}
	status := http.StatusOK
	if !report.OK {
		status = http.StatusInternalServerError
	}
	respondJSON(w, status, report)
}

func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["runID"]
	rec, err := h.Ledger.GetRun(r.Context(), runID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid run id", err)
		return
	}
	if rec == nil {
		respondError(w, http.StatusNotFound, "Run not found", nil)
		return
	}
	// serve the stored report verbatim
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(rec.Report)
}

func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	recs, err := h.Ledger.ListRunsByDate(r.Context(), date)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	type runSummary struct {
		RunID      string `json:"run_id"`
		StartedAt  int64  `json:"started_at"`
		DurationMs int64  `json:"duration_ms"`
		OK         bool   `json:"ok"`
	}
	out := make([]runSummary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, runSummary{RunID: rec.RunID, StartedAt: rec.StartedAt, DurationMs: rec.DurationMs, OK: rec.OK})
	}
	respondJSON(w, http.StatusOK, map[string]any{"date": date, "runs": out})
}

// TeamPlayers serves the element ids of one team from a fresh bootstrap
// fetch.
func (h *Handler) TeamPlayers(w http.ResponseWriter, r *http.Request) {
	teamID, err := strconv.Atoi(mux.Vars(r)["teamID"])
	if err != nil || teamID < 1 || teamID > 20 {
		respondError(w, http.StatusBadRequest, "team id must be in [1,20]", err)
		return
	}

	boot, _, err := h.Client.FetchBootstrapStatic(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to fetch bootstrap-static", err)
		return
	}
	ids := boot.TeamElements(teamID)
	if ids == nil {
		respondError(w, http.StatusNotFound, "No players found for team", nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"team_id": teamID, "element_ids": ids})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]any{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
