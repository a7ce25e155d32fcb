// Package client provides a thin HTTP client for the craigslist-search API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

const defaultTimeout = 2 * time.Minute

// Client is a thin HTTP client for the craigslist-search API.
type Client struct {
	baseURL string
	rc      *resty.Client
}

// New creates a new API client targeting the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		rc:      resty.New().SetTimeout(defaultTimeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.rc.SetBaseURL(c.baseURL).SetHeader("Accept", "application/json")
	return c
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.rc = resty.NewWithClient(hc)
	}
}

// WithTimeout bounds each API call. Searches that follow many pages can take
// a while, so keep this above the server's write timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.rc.SetTimeout(d)
		}
	}
}

// Problem is the RFC 9457 error body returned by the API.
type Problem struct {
	Title  string          `json:"title"`
	Status int             `json:"status"`
	Detail string          `json:"detail"`
	Errors []ProblemDetail `json:"errors,omitempty"`
}

// ProblemDetail points at the request field a problem is about.
type ProblemDetail struct {
	Message  string `json:"message"`
	Location string `json:"location"`
	Value    any    `json:"value,omitempty"`
}

// APIError is a non-2xx API response. It unwraps to the domain error the
// status stands for, so callers can use errors.As with the domain types.
type APIError struct {
	StatusCode int
	Problem    Problem
	target     error
}

func (e *APIError) Error() string {
	msg := e.Problem.Detail
	if msg == "" {
		msg = e.Problem.Title
	}
	return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, msg)
}

func (e *APIError) Unwrap() error {
	return e.target
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, dst any) error {
	return c.do(ctx, c.rc.R().SetQueryParams(query), http.MethodGet, path, dst)
}

func (c *Client) post(ctx context.Context, path string, body, dst any) error {
	return c.do(ctx, c.rc.R().SetBody(body), http.MethodPost, path, dst)
}

func (c *Client) do(ctx context.Context, req *resty.Request, method, path string, dst any) error {
	prob := &Problem{}
	resp, err := req.
		SetContext(ctx).
		SetResult(dst).
		SetError(prob).
		Execute(method, path)
	if err != nil {
		if isConnectionRefused(err) {
			return fmt.Errorf("API server not running at %s", c.baseURL)
		}
		return fmt.Errorf("sending request: %w", err)
	}

	if resp.IsError() {
		if prob.Status == 0 && prob.Detail == "" {
			prob.Detail = strings.TrimSpace(resp.String())
		}
		return newAPIError(resp.StatusCode(), *prob, path)
	}
	return nil
}

func newAPIError(status int, p Problem, path string) *APIError {
	e := &APIError{StatusCode: status, Problem: p}

	switch status {
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		verr := &domain.ValidationError{Field: "request", Reason: p.Detail}
		if len(p.Errors) > 0 {
			d := p.Errors[0]
			verr.Field = fieldOf(d.Location)
			verr.Reason = d.Message
			verr.Suggestions = stringsOf(d.Value)
		}
		e.target = verr
	case http.StatusNotFound:
		e.target = &domain.NotFoundError{URL: path, Reason: p.Detail}
	case http.StatusBadGateway, http.StatusGatewayTimeout:
		e.target = &domain.UpstreamError{URL: path, Err: errors.New(p.Detail)}
	}
	return e
}

// fieldOf strips the request part from a problem location, e.g.
// "body.location" becomes "location".
func fieldOf(location string) string {
	if _, field, ok := strings.Cut(location, "."); ok {
		return field
	}
	return location
}

func stringsOf(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func isConnectionRefused(err error) bool {
	return strings.Contains(err.Error(), "connection refused")
}
