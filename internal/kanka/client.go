// Package kanka implements the HTTP client for the Kanka campaign API.
package kanka

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Papin-Network/MCP-Papin-Network-Server/internal/common"
	"github.com/Papin-Network/MCP-Papin-Network-Server/internal/config"
)

// maxResponseSize caps the response body to prevent OOM from unexpectedly large responses.
const maxResponseSize = 50 << 20 // 50MB

// Client issues authenticated requests against the Kanka REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *common.Logger
}

// RequestOptions carries optional per-call settings for Client.Call.
// Zero value means GET with no body and no extra headers.
type RequestOptions struct {
	Method string
	Body   any
	Header http.Header
}

// NewClient creates a client targeting the configured Kanka API.
func NewClient(cfg *config.Config, logger *common.Logger) *Client {
	return &Client{
		baseURL: cfg.Kanka.BaseURL,
		token:   cfg.Kanka.Token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// Get performs a GET request against the given path (including any query string)
// and returns the decoded JSON body.
func (c *Client) Get(ctx context.Context, path string) (any, error) {
	return c.Call(ctx, path, nil)
}

// Call performs an HTTP request against the given path and returns the decoded
// JSON body. A bearer-token Authorization header and a JSON Content-Type are
// always injected; headers in opts override them. A non-2xx response yields an
// *UpstreamError carrying the status code and best-effort body text.
func (c *Client) Call(ctx context.Context, path string, opts *RequestOptions) (any, error) {
	method := http.MethodGet
	var bodyReader io.Reader
	if opts != nil {
		if opts.Method != "" {
			method = opts.Method
		}
		if opts.Body != nil {
			jsonData, err := json.Marshal(opts.Body)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request: %w", err)
			}
			bodyReader = bytes.NewReader(jsonData)
		}
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("kanka request")

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	if opts != nil {
		for key, vals := range opts.Header {
			req.Header.Del(key)
			for _, v := range vals {
				req.Header.Add(key, v)
			}
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Error().Str("method", method).Str("path", path).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("kanka request failed")
		return nil, fmt.Errorf("kanka request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Best effort: a body read failure must not mask the HTTP error.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		c.logger.Warn().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("kanka error response")
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug().Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("kanka response")

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse kanka response: %w", err)
	}
	return parsed, nil
}
