package rest

import "github.com/aretw0/introspection"

// ClientState exposes transport counters for observability.
type ClientState struct {
	BaseURL       string `json:"base_url"`
	Requests      int64  `json:"requests"`
	Failures      int64  `json:"failures"`
	LastStatus    int    `json:"last_status,omitempty"`
	LastRequestID string `json:"last_request_id,omitempty"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ClientState{
		BaseURL:       c.base.String(),
		Requests:      c.requests,
		Failures:      c.failures,
		LastStatus:    c.lastStatus,
		LastRequestID: c.lastRequestID,
	}
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "transport"
}

var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
