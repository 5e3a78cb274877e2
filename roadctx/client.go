// Package roadctx looks up road context (posted limit, school zones) around a
// coordinate. Lookups are best-effort: failures and timeouts resolve to "no
// data" so a transient network error can never cause a false penalty.
package roadctx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/theoremus-urban-solutions/drive-telemetry/config"
)

// Info is one lookup result. MaxSpeedKmh is 0 when the service has no limit
// data for the location.
type Info struct {
	MaxSpeedKmh  float64 `json:"maxSpeedKmh"`
	IsSchoolZone bool    `json:"isSchoolZone"`
}

// Client is a simple HTTP client for the road-context service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a road-context client. An empty base URL produces a
// client whose lookups always return no data.
func NewClient(cfg config.RoadContextConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// Lookup fetches road context for a coordinate. Any failure returns a zero
// Info along with the error; callers treat that as "no limit data".
func (c *Client) Lookup(ctx context.Context, lat, lng float64) (Info, error) {
	if c.baseURL == "" {
		return Info{}, nil
	}

	u := fmt.Sprintf("%s/context?lat=%s&lng=%s",
		c.baseURL,
		url.QueryEscape(fmt.Sprintf("%f", lat)),
		url.QueryEscape(fmt.Sprintf("%f", lng)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Info{}, fmt.Errorf("road context request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Info{}, fmt.Errorf("road context fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Info{}, fmt.Errorf("road context: HTTP %d", resp.StatusCode)
	}

	var info Info
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Info{}, fmt.Errorf("road context decode: %w", err)
	}
	return info, nil
}
