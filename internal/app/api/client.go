/*
Package api is the REST client for the PixelMinds API.

Every call returns either a decoded, validated record or a *errs.CustomError whose code
names the failure category: transport failure, a rejected request mapped from its HTTP
status, or a success response that could not be decoded. Nothing is retried here;
retry policy belongs to the caller.
*/
package api

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

	"pixelminds/internal/pkg/errs"
	"pixelminds/internal/pkg/logx"
	"pixelminds/internal/pkg/randx"
)

const (
	// DefaultBaseURL is the API root used when none is configured.
	DefaultBaseURL = "http://localhost/pminds-api"

	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "pixelminds-client/1"

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 4 << 20
)

// Authorizer attaches credentials to an outgoing request.
type Authorizer interface {
	Authorize(ctx context.Context, req *http.Request)
}

// Config controls how the client talks to the API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	UserAgent  string
}

// Client issues requests against the API. The zero value is not usable; use NewClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	authorizer Authorizer
}

// NewClient validates cfg and returns a Client without credentials.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}

	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: base URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("api: base URL missing host")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	return &Client{
		baseURL:    strings.TrimSuffix(u.String(), "/"),
		httpClient: httpClient,
		userAgent:  ua,
	}, nil
}

// WithAuthorizer returns a copy of c that passes every resource request through a.
func (c *Client) WithAuthorizer(a Authorizer) *Client {
	clone := *c
	clone.authorizer = a
	return &clone
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// envelope is the success wrapper used by the resource endpoints.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Result is the outcome of a write endpoint.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// errorBody covers the shapes the API uses for error messages.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errs.Wrap(errs.ErrUnknown, err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID(ctx))

	return req, nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errs.Wrap(errs.ErrInvalidParams, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.newRequest(ctx, method, path, body, contentType)
}

// authorize applies the configured Authorizer. A client without one sends the request
// unauthenticated and lets the API reject it.
func (c *Client) authorize(ctx context.Context, req *http.Request) {
	if c.authorizer != nil {
		c.authorizer.Authorize(ctx, req)
	}
}

// do sends req and returns the body of a 2xx response.
func (c *Client) do(req *http.Request) ([]byte, error) {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logx.Warn("api request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", req.Header.Get("X-Request-ID"),
			"error", err.Error(),
		)
		return nil, errs.Wrap(errs.ErrNetwork, err, transportMessage(err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errs.Wrap(errs.ErrNetwork, err, transportMessage(err))
	}

	logx.Debug("api request completed",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", req.Header.Get("X-Request-ID"),
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, errs.FromRemoteStatus(resp.StatusCode, serverMessage(body))
	}

	return body, nil
}

// doEnvelope sends req and unwraps a {status, data} envelope, requiring status "success".
func (c *Client) doEnvelope(req *http.Request) (envelope, error) {
	body, err := c.do(req)
	if err != nil {
		return envelope{}, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, errs.Wrap(errs.ErrInvalidResponse, err, "malformed JSON")
	}
	if env.Status != "success" {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("unexpected status %q", env.Status)
		}
		return envelope{}, errs.NewError(errs.ErrInvalidResponse, msg)
	}
	return env, nil
}

// doResult sends req to a write endpoint. An empty body counts as success.
func (c *Client) doResult(req *http.Request) (Result, error) {
	body, err := c.do(req)
	if err != nil {
		return Result{}, err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return Result{Status: "success"}, nil
	}

	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return Result{}, errs.Wrap(errs.ErrInvalidResponse, err, "malformed JSON")
	}
	if res.Status != "" && res.Status != "success" {
		msg := res.Message
		if msg == "" {
			msg = fmt.Sprintf("unexpected status %q", res.Status)
		}
		return Result{}, errs.NewError(errs.ErrInvalidResponse, msg)
	}
	return res, nil
}

func serverMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if eb.Message != "" {
		return eb.Message
	}
	return eb.Error
}

func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}

type requestIDKey struct{}

// ContextWithRequestID makes outgoing calls made with ctx reuse id as their X-Request-ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && randx.IsValidRequestID(id) {
		return id
	}
	return randx.RequestID()
}
