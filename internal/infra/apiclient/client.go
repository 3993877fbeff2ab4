// Package apiclient is the shared client of the upstream REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"portal/config"
	deliverycontext "portal/internal/delivery/context"
	"portal/internal/domain/entity"
	"portal/internal/errors"
	"portal/internal/infra/metrics"

	"go.uber.org/fx"
)

const maxErrorBody = 64 << 10

// Recorder observes upstream calls.
type Recorder interface {
	UpstreamRequest(tenant, method string, status int, d time.Duration)
}

// Client sends JSON requests to the upstream API. The Authorization header is
// resolved per request from the context, never stored on the client.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tenant     string
	recorder   Recorder
	logger     *slog.Logger
}

// ClientParams holds dependencies for Client, injected by Fx.
type ClientParams struct {
	fx.In

	Config  *config.Config
	Tenant  entity.Tenant
	Metrics *metrics.Collector
	Logger  *slog.Logger
}

// New creates the process-wide client from configuration.
func New(params ClientParams) (*Client, error) {
	return NewClient(params.Config.API.BaseURL, params.Config.API.Timeout, params.Tenant.String(), params.Metrics, params.Logger)
}

// NewClient creates a client for baseURL. recorder may be nil.
func NewClient(baseURL string, timeout time.Duration, tenant string, recorder Recorder, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parse api base url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("api base url %q must be absolute", baseURL)
	}

	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
		tenant:     tenant,
		recorder:   recorder,
		logger:     logger,
	}, nil
}

// Get fetches path and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends body as JSON.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

// Put sends body as JSON.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, out)
}

// Patch sends body as JSON.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete removes the resource at path.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(err, "build upstream request")
	}

	req.Header.Set("Accept", "application/json")
	if token := bearerFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if requestID := deliverycontext.RequestIDFrom(ctx); requestID != "" {
		req.Header.Set(deliverycontext.HeaderXRequestID, requestID)
	}

	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	logger := deliverycontext.LoggerFrom(req.Context(), c.logger)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(req.Method, 0, start)
		logger.Warn("Upstream request failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Any("error", err),
		)

		return errors.Mark(err, ErrTransport, "%s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	c.observe(req.Method, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Debug("Upstream returned an error",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Int("status", resp.StatusCode),
		)

		return &Error{Status: resp.StatusCode, Message: messageFromBody(raw)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Mark(err, ErrTransport, "read %s %s", req.Method, req.URL.Path)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "decode %s %s", req.Method, req.URL.Path)
	}

	return nil
}

func (c *Client) observe(method string, status int, start time.Time) {
	if c.recorder == nil {
		return
	}
	c.recorder.UpstreamRequest(c.tenant, method, status, time.Since(start))
}
