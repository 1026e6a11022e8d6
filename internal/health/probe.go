// Package health checks that the user backend is reachable.
package health

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Status is the backend's /health payload.
type Status struct {
	Status string         `json:"status"`
	App    string         `json:"app,omitempty"`
	DB     map[string]any `json:"db,omitempty"`
	Reason string         `json:"reason,omitempty"`
}

// Probe calls GET /health on the backend.
type Probe struct {
	client *resty.Client
}

// NewProbe creates a Probe for baseURL with a short timeout.
func NewProbe(baseURL string, timeout time.Duration) *Probe {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	c := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	return &Probe{client: c}
}

// Check returns the backend status. Anything but a 200 is an error; a 503
// body is still decoded so the reason can be surfaced.
func (p *Probe) Check(ctx context.Context) (*Status, error) {
	var st Status
	resp, err := p.client.R().
		SetContext(ctx).
		SetResult(&st).
		SetError(&st).
		Get("/health")
	if err != nil {
		return nil, fmt.Errorf("health request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		if st.Reason != "" {
			return &st, fmt.Errorf("backend unhealthy: status %d: %s", resp.StatusCode(), st.Reason)
		}
		return &st, fmt.Errorf("backend unhealthy: status %d", resp.StatusCode())
	}
	return &st, nil
}
