// Package postgrest reads registrations from a Supabase/PostgREST REST endpoint.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"regadmin/internal/registrations/models"
	"regadmin/internal/registrations/store"
)

// Name identifies this source in logs, metrics and traces.
const Name = "postgrest"

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string
	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout    time.Duration
	HTTPClient HTTPDoer
}

// Client queries the registrations table over PostgREST.
type Client struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
}

func New(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  selectHTTPClient(cfg),
	}
}

func selectHTTPClient(cfg Config) HTTPDoer {
	if cfg.HTTPClient != nil {
		return cfg.HTTPClient
	}
	return &http.Client{Timeout: cfg.Timeout}
}

func (c *Client) Name() string {
	return Name
}

// listURL builds {base}/rest/v1/registrations?select=*&order=created_at.desc.
func (c *Client) listURL() string {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")
	return fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, models.Collection, q.Encode())
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// errorResponse is PostgREST's error envelope.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// ListRegistrations fetches every row, newest first. A null body is an empty list.
func (c *Client) ListRegistrations(ctx context.Context) ([]*models.Registration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.listURL(), nil)
	if err != nil {
		return nil, store.NewFetchError(store.ErrorInternal, Name, "failed to create request", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, store.NewFetchError(store.ErrorTimeout, Name, "request timeout", err)
		}
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, store.NewFetchError(store.ErrorTimeout, Name, "request timeout", err)
		}
		return nil, store.NewFetchError(store.ErrorOutage, Name, "failed to execute request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, store.NewFetchError(store.ErrorBadData, Name, "failed to read response", err)
	}

	if err := classifyStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return decodeRows(body)
}

func classifyStatus(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	msg := fmt.Sprintf("unexpected status: %d", status)
	var apiErr errorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
		msg = fmt.Sprintf("%s (status %d, code %s)", apiErr.Message, status, apiErr.Code)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return store.NewFetchError(store.ErrorAuthentication, Name, msg, nil)
	case status == http.StatusNotFound:
		return store.NewFetchError(store.ErrorNotFound, Name, msg, nil)
	case status == http.StatusTooManyRequests:
		return store.NewFetchError(store.ErrorRateLimited, Name, msg, nil)
	case status == http.StatusGatewayTimeout:
		return store.NewFetchError(store.ErrorTimeout, Name, msg, nil)
	case status >= 500:
		return store.NewFetchError(store.ErrorOutage, Name, msg, nil)
	default:
		return store.NewFetchError(store.ErrorBadData, Name, msg, nil)
	}
}

func decodeRows(body []byte) ([]*models.Registration, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []*models.Registration{}, nil
	}

	var rows []*models.Registration
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, store.NewFetchError(store.ErrorBadData, Name, "failed to parse response", err)
	}

	out := make([]*models.Registration, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

// Health checks the PostgREST root responds with the configured key.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/v1/", nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return store.NewFetchError(store.ErrorOutage, Name, "health check failed", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return store.NewFetchError(store.ErrorOutage, Name, fmt.Sprintf("unhealthy status: %d", resp.StatusCode), nil)
	}
	return nil
}
