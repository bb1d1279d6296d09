// Package api is the stateless HTTP client for the shop backend. It owns
// the one place where wire shapes, auth headers and failure mapping are
// handled; callers receive normalized models or an *errors.AppError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/kubukshop/storefront/internal/config"
	apperrors "github.com/kubukshop/storefront/internal/errors"
	"github.com/kubukshop/storefront/internal/metrics"
)

// TokenSource yields the current auth token, or "" when logged out. The
// caller is responsible for the "please log in" short-circuit before
// dispatching a mutation; the client only attaches what it is given.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-token source, used in tests.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	tokens     TokenSource
}

func NewClient(cfg config.API, tokens TokenSource) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(newLogTransport(metrics.RoundTripper(transport))),
			Timeout:   timeout,
		},
		baseURL: base,
		tokens:  tokens,
	}, nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	return u.String()
}

// do issues one request and decodes the response into out (skipped when
// out is nil). Not a retry site: a failure surfaces as a retryable UI
// state instead.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {

	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apperrors.InternalError("failed to encode request").WithError(err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path, query), bodyReader)
	if err != nil {
		return apperrors.InternalError("failed to build request").WithError(err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NetworkError("server unreachable").WithError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NetworkError("failed to read response").WithError(err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return responseError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.ServerError("unexpected response body", resp.StatusCode).WithError(err)
	}

	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Ping checks API reachability; used by the ops health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/api/categories/", nil, nil)
}
