// Package collector pulls current audience counters from the external
// sources and normalizes them into store inserts. Each adapter makes at
// most one call to its source per invocation and never retries; retries
// happen naturally at the next scheduled tick.
package collector

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// ErrNotConfigured is reported by an adapter whose credentials or
// identifiers are missing. This is an expected state for sources the
// deployment does not track, not a fault; no network call is made.
var ErrNotConfigured = errors.New("collector: source not configured")

// Collector is one external source adapter. Collect fetches the source's
// current statistics, stores the normalized samples, and returns how many
// were stored. Any transport, auth, or parse fault comes back as an
// error; a well-behaved adapter never panics past this boundary.
type Collector interface {
	Name() string
	Collect(ctx context.Context) (int, error)
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// getJSON performs the request and decodes a 200 response into out.
func getJSON(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}

func i64(v int64) *int64 {
	return &v
}

func f64(v float64) *float64 {
	return &v
}
