// Package directions fetches drivable routes from the routing service.
// Route failures surface to the caller; trip start never depends on a route
// being available (free-drive stays possible).
package directions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/theoremus-urban-solutions/drive-telemetry/config"
	"github.com/theoremus-urban-solutions/drive-telemetry/geo"
	"github.com/theoremus-urban-solutions/drive-telemetry/route"
)

// Client is a simple HTTP client for the directions service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a directions client.
func NewClient(cfg config.DirectionsConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

type routeRequest struct {
	Origin      geo.Point `json:"origin"`
	Destination geo.Point `json:"destination"`
}

type routeResponse struct {
	Polyline     []geo.Point `json:"polyline"`
	Instructions []struct {
		Text        string `json:"text"`
		AnchorIndex int    `json:"anchorIndex"`
	} `json:"instructions"`
	TotalDistanceM float64 `json:"totalDistanceM"`
	TotalTimeS     float64 `json:"totalTimeS"`
}

// Route requests a route between two points and returns its geometry.
func (c *Client) Route(ctx context.Context, origin, dest geo.Point) (route.Geometry, error) {
	if c.baseURL == "" {
		return route.Geometry{}, fmt.Errorf("directions: no service configured")
	}

	body, err := json.Marshal(routeRequest{Origin: origin, Destination: dest})
	if err != nil {
		return route.Geometry{}, fmt.Errorf("directions encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/route",
		bytes.NewReader(body))
	if err != nil {
		return route.Geometry{}, fmt.Errorf("directions request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return route.Geometry{}, fmt.Errorf("directions fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return route.Geometry{}, fmt.Errorf("directions: HTTP %d", resp.StatusCode)
	}

	var rr routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return route.Geometry{}, fmt.Errorf("directions decode: %w", err)
	}
	if len(rr.Polyline) < 2 {
		return route.Geometry{}, fmt.Errorf("directions: degenerate polyline")
	}

	geom := route.Geometry{
		Points:         rr.Polyline,
		TotalDistanceM: rr.TotalDistanceM,
		TotalTimeS:     rr.TotalTimeS,
	}
	for _, in := range rr.Instructions {
		geom.Instructions = append(geom.Instructions, route.Instruction{
			Text:        in.Text,
			AnchorIndex: in.AnchorIndex,
		})
	}
	return geom, nil
}
