package fpl

import "fmt"

// FetchError is a failed request against the FPL API. Transient errors
// (network, timeout, 429, 5xx) have already been retried in-client before
// they surface; permanent errors (other non-200, malformed body) have not.
type FetchError struct {
	URL       string
	Status    int // 0 when the request never got a response
	Transient bool
	Err       error
}

func (e *FetchError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: %s status %d: %v", e.URL, kind, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
