package flint

import (
	"context"
	"net/http"
)

// Version describes the server build
type Version struct {
	Version   string `json:"version"`
	CommitSHA string `json:"commitSha,omitempty"`
}

// Health reports whether the server is up and answering requests
func (c *Client) Health(ctx context.Context) error {
	var status struct {
		Status string `json:"status"`
	}
	return c.send(ctx, http.MethodGet, "/health", nil, http.StatusOK, &status)
}

// Version returns the server version information
func (c *Client) Version(ctx context.Context) (Version, error) {
	var v Version
	err := c.send(ctx, http.MethodGet, "/version", nil, http.StatusOK, &v)
	return v, err
}
