package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to a battle-odds API server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Probs computes the outcome distribution for one engagement.
func (c *Client) Probs(ctx context.Context, req ProbsRequest) (*ProbsResponse, error) {
	var out ProbsResponse
	if err := c.post(ctx, "/api/probs", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MinTroops finds the smallest attacking force for a target win probability.
func (c *Client) MinTroops(ctx context.Context, req MinTroopsRequest) (*MinTroopsResponse, error) {
	var out MinTroopsResponse
	if err := c.post(ctx, "/api/mintroops", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Fortify runs a greedy defensive allocation across scenarios.
func (c *Client) Fortify(ctx context.Context, req FortifyRequest) (*FortifyResponse, error) {
	var out FortifyResponse
	if err := c.post(ctx, "/api/fortify", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Healthz reports whether the server answers its health endpoint.
func (c *Client) Healthz(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthz status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%s: %s (status %d)", path, apiErr.Message, resp.StatusCode)
		}
		return fmt.Errorf("%s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
