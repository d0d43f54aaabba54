package apiclient

import "context"

// HealthStatus is the liveness payload reported by GET /health.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// OK reports whether the backend considers itself healthy.
func (h HealthStatus) OK() bool {
	return h.Status == "ok" || h.Status == "healthy"
}

// Health probes the backend liveness endpoint. It is an authenticated call
// like everything else; callers surface failures inline.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var status HealthStatus
	if err := c.GetJSON(ctx, "/health", &status); err != nil {
		return HealthStatus{}, err
	}
	return status, nil
}
