package fpl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const DefaultBaseURL = "https://fantasy.premierleague.com/api"

// Bounds for the element-summary worker pool.
const (
	MinWorkers = 1
	MaxWorkers = 20
)

var ua = "fantasy-football-connector/1.0"

// Client issues requests against the FPL API. Build one per run and pass it
// down; there is no package-level client state.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	// retry policy for transient failures
	MaxAttempts int
	RetryBase   time.Duration
	RetryMax    time.Duration
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		HTTP:        &http.Client{Timeout: 30 * time.Second},
		MaxAttempts: 4,
		RetryBase:   400 * time.Millisecond,
		RetryMax:    6 * time.Second,
	}
}

// FetchBootstrapStatic returns the game's global reference data. The second
// return is the number of transient retries it took; run reports carry it.
func (c *Client) FetchBootstrapStatic(ctx context.Context) (*BootstrapStatic, int, error) {
	var out BootstrapStatic
	retries, err := c.getJSON(ctx, "/bootstrap-static/", &out)
	if err != nil {
		return nil, retries, err
	}
	return &out, retries, nil
}

// FetchFixtures returns the full match list for the season.
func (c *Client) FetchFixtures(ctx context.Context) ([]Fixture, int, error) {
	var out []Fixture
	retries, err := c.getJSON(ctx, "/fixtures/", &out)
	if err != nil {
		return nil, retries, err
	}
	return out, retries, nil
}

// FetchElementSummary returns one player's history.
func (c *Client) FetchElementSummary(ctx context.Context, elementID int) (*ElementSummary, int, error) {
	var out ElementSummary
	retries, err := c.getJSON(ctx, "/element-summary/"+strconv.Itoa(elementID)+"/", &out)
	if err != nil {
		return nil, retries, err
	}
	return &out, retries, nil
}

// SummaryResult is one player's outcome from a fan-out fetch. Err is a
// *FetchError when the player's request failed; the siblings are unaffected.
type SummaryResult struct {
	ElementID int
	Summary   *ElementSummary
	Retries   int
	Err       error
}

// FetchElementSummaries fans out one request per element id through a bounded
// worker pool. Per-player failures come back in the result slice rather than
// cancelling siblings, and results are sorted by element id afterwards, so
// the arrival order never matters.
func (c *Client) FetchElementSummaries(ctx context.Context, ids []int, workers int) []SummaryResult {
	if workers < MinWorkers {
		workers = MinWorkers
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	if workers > len(ids) {
		workers = len(ids)
	}
	if len(ids) == 0 {
		return nil
	}

	in := make(chan int)
	out := make(chan SummaryResult, len(ids))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range in {
				s, retries, err := c.FetchElementSummary(ctx, id)
				out <- SummaryResult{ElementID: id, Summary: s, Retries: retries, Err: err}
			}
		}()
	}

	for _, id := range ids {
		in <- id
	}
	close(in)
	wg.Wait()
	close(out)

	results := make([]SummaryResult, 0, len(ids))
	for r := range out {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ElementID < results[j].ElementID })
	return results
}

// getJSON fetches one path and decodes the body, retrying transient failures
// with exponential backoff and jitter. Returns how many retries were spent.
func (c *Client) getJSON(ctx context.Context, path string, out any) (int, error) {
	url := c.BaseURL + path

	var lastErr *FetchError
	for attempt := 0; attempt < c.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return attempt - 1, &FetchError{URL: url, Transient: true, Err: ctx.Err()}
			case <-time.After(c.backoff(attempt - 1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return attempt, &FetchError{URL: url, Err: err}
		}
		req.Header.Set("User-Agent", ua)
		req.Header.Set("Accept", "application/json")

		resp, err := c.HTTP.Do(req)
		if err != nil {
			lastErr = &FetchError{URL: url, Transient: true, Err: err}
			continue
		}

		if resp.StatusCode != 200 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			if retryable(resp.StatusCode) {
				if resp.StatusCode == 503 {
					// FPL serves 503 while the game state is updating
					log.Printf("fpl: 503 for %s, the game may be updating", url)
				}
				lastErr = &FetchError{URL: url, Status: resp.StatusCode, Transient: true,
					Err: fmt.Errorf("status %d body=%q", resp.StatusCode, string(body))}
				continue
			}
			return attempt, &FetchError{URL: url, Status: resp.StatusCode,
				Err: fmt.Errorf("status %d body=%q", resp.StatusCode, string(body))}
		}

		b, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = &FetchError{URL: url, Transient: true, Err: err}
			continue
		}
		if err := json.Unmarshal(b, out); err != nil {
			return attempt, &FetchError{URL: url, Status: 200, Err: fmt.Errorf("decode body: %w", err)}
		}
		return attempt, nil
	}
	if lastErr == nil {
		lastErr = &FetchError{URL: url, Transient: true, Err: errors.New("no attempts made")}
	}
	lastErr.Err = fmt.Errorf("exhausted %d attempts: %w", c.MaxAttempts, lastErr.Err)
	return c.MaxAttempts - 1, lastErr
}

func retryable(status int) bool {
	return status == 429 || (status >= 500 && status <= 599)
}

// exponential + jitter, capped
func (c *Client) backoff(attempt int) time.Duration {
	d := c.RetryBase * time.Duration(1<<attempt)
	j := time.Duration(rand.Intn(250)) * time.Millisecond
	if d+j > c.RetryMax {
		return c.RetryMax
	}
	return d + j
}
