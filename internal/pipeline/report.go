package pipeline

import "time"

// Endpoint names accepted in a run request.
const (
	EndpointBootstrapStatic = "bootstrap-static"
	EndpointElementSummary  = "element-summary"
	EndpointFixtures        = "fixtures"
)

// AllEndpoints is the default selection, in execution order.
var AllEndpoints = []string{EndpointBootstrapStatic, EndpointElementSummary, EndpointFixtures}

// RunRequest scopes one run. Zero value means: all endpoints, every element,
// default worker count.
type RunRequest struct {
	Endpoints  []string `json:"endpoints,omitempty"`
	TeamIDs    []int    `json:"team_ids,omitempty"`
	ElementIDs []int    `json:"element_ids,omitempty"`
	MaxWorkers int      `json:"max_workers,omitempty"`
}

// EntityFailure is one player's fetch or process failure inside the
// element-summary fan-out. Siblings are unaffected.
type EntityFailure struct {
	ElementID int    `json:"element_id"`
	Stage     string `json:"stage"` // fetch | process
	Reason    string `json:"reason"`
}

// EndpointReport is one endpoint's outcome within a run.
type EndpointReport struct {
	Endpoint   string          `json:"endpoint"`
	OK         bool            `json:"ok"`
	Stage      string          `json:"stage,omitempty"` // failed stage when !OK
	Error      string          `json:"error,omitempty"`
	TableRows  map[string]int  `json:"table_rows,omitempty"`
	Retries    int             `json:"retries"`
	Entities   []EntityFailure `json:"entity_failures,omitempty"`
	DurationMs int64           `json:"duration_ms"`
}

// RunReport aggregates one run. Every failure in it is attributable to an
// endpoint and a stage.
type RunReport struct {
	RunID           string           `json:"run_id"`
	StartedAt       time.Time        `json:"started_at"`
	DurationMs      int64            `json:"duration_ms"`
	OK              bool             `json:"ok"`
	Endpoints       []EndpointReport `json:"endpoints"`
	UnknownElements []int            `json:"unknown_elements,omitempty"`
}

// Failed lists the endpoints that did not complete.
func (r *RunReport) Failed() []string {
	var out []string
	for _, ep := range r.Endpoints {
		if !ep.OK {
			out = append(out, ep.Endpoint)
		}
	}
	return out
}
