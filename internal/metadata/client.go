// Package metadata implements the client for the external host
// metadata service that resolves owners and tags by hostname.
package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/starford/herald/internal/apperr"
)

// Operations accepted by the metadata service query endpoint.
const (
	opOwners = "owners"
	opTags   = "tags"
)

// Client talks to the metadata service. Both resolutions go through a
// single operation-tagged query endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a metadata client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type queryRequest struct {
	Operation string   `json:"operation"`
	Hostnames []string `json:"hostnames"`
}

// ResolveOwners returns the owner for each of the given hostnames. The
// returned map may omit hostnames the service does not know; callers
// must check presence rather than assume coverage.
func (c *Client) ResolveOwners(ctx context.Context, hostnames []string) (map[string]string, error) {
	var resp struct {
		Results map[string]string `json:"results"`
	}
	if err := c.query(ctx, opOwners, hostnames, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// ResolveTags returns the tags attached to each of the given hostnames.
func (c *Client) ResolveTags(ctx context.Context, hostnames []string) (map[string][]string, error) {
	var resp struct {
		Results map[string][]string `json:"results"`
	}
	if err := c.query(ctx, opTags, hostnames, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// query posts an operation-tagged request and decodes the response
// into out. Every failure is classified as a FetchError so the run can
// abort before any digest is assembled from an unbound map.
func (c *Client) query(ctx context.Context, operation string, hostnames []string, out any) error {
	body, err := json.Marshal(queryRequest{Operation: operation, Hostnames: hostnames})
	if err != nil {
		return &apperr.FetchError{Operation: operation, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/query", bytes.NewReader(body))
	if err != nil {
		return &apperr.FetchError{Operation: operation, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &apperr.FetchError{Operation: operation, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &apperr.FetchError{Operation: operation, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &apperr.FetchError{Operation: operation, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
