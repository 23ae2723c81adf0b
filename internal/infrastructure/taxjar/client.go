package taxjar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseSize is the maximum allowed response size from the TaxJar API (1MB)
const maxResponseSize = 1 * 1024 * 1024

// ErrUnavailable indicates the TaxJar API could not be reached.
var ErrUnavailable = errors.New("taxjar: service unavailable")

// ErrRequestFailed indicates TaxJar rejected the request.
var ErrRequestFailed = errors.New("taxjar: request failed")

// ErrInvalidResponse indicates TaxJar returned a body we could not parse.
var ErrInvalidResponse = errors.New("taxjar: invalid response")

// client wraps HTTP access to the TaxJar API.
type client struct {
	httpClient *http.Client
}

func newClient(httpClient *http.Client) *client {
	return &client{httpClient: httpClient}
}

// get performs a GET against the configured environment and decodes the JSON
// response into out.
func (c *client) get(ctx context.Context, cfg *Config, path string, out any) error {
	ctx, cancel := withTimeout(ctx, cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.BaseURL()+path, nil)
	if err != nil {
		return fmt.Errorf("taxjar: failed to create request: %w", err)
	}
	return c.do(req, cfg, out)
}

// post performs a POST with a JSON body against the configured environment.
func (c *client) post(ctx context.Context, cfg *Config, path string, body, out any) error {
	ctx, cancel := withTimeout(ctx, cfg.Timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("taxjar: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL()+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("taxjar: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, cfg, out)
}

// withTimeout bounds the request with the configured timeout. A zero timeout
// leaves the caller's context untouched.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

func (c *client) do(req *http.Request, cfg *Config, out any) error {
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	endpoint := req.URL.Path

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("taxjar: failed to read response from %s: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%w: %s: HTTP %d: %s - %s", ErrRequestFailed, endpoint, resp.StatusCode, apiErr.Error, apiErr.Detail)
		}
		return fmt.Errorf("%w: %s: HTTP %d", ErrRequestFailed, endpoint, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidResponse, endpoint, err)
	}
	return nil
}
