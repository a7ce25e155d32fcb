// Package fetch retrieves raw HTML pages from the marketplace. Two backends
// are provided, one on resty and one on colly; both share the same timeout,
// headers, pacing, tracing and metrics.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/craigslist-search/internal/metrics"
	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

// Backend names accepted by New.
const (
	BackendResty = "resty"
	BackendColly = "colly"
)

const (
	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent unless overridden.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/131.0.0.0 Safari/537.36"

	maxRedirects = 10

	// maxErrorBody caps how much of a non-success body is kept on the error.
	maxErrorBody = 256 << 10
)

var defaultHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

var tracer = otel.Tracer("github.com/donaldgifford/craigslist-search/internal/fetch")

// Fetcher retrieves the HTML body of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type options struct {
	timeout   time.Duration
	userAgent string
	pacer     *Pacer
	logger    *slog.Logger
	transport http.RoundTripper
}

// Option configures a Fetcher.
type Option func(*options)

// WithTimeout overrides the per-fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithPacer makes every fetch wait on p before sending.
func WithPacer(p *Pacer) Option {
	return func(o *options) {
		o.pacer = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTransport overrides the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

func newOptions(opts []Option) options {
	o := options{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		logger:    slog.Default(),
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New returns the Fetcher for the named backend. An empty name selects resty.
func New(backend string, opts ...Option) (Fetcher, error) {
	switch backend {
	case "", BackendResty:
		return NewRestyFetcher(opts...), nil
	case BackendColly:
		return NewCollyFetcher(opts...), nil
	default:
		return nil, fmt.Errorf("unknown fetch backend %q", backend)
	}
}

// do wraps a backend round trip with pacing, the timeout, a span, metrics
// and logging.
func (o *options) do(
	ctx context.Context,
	backend string,
	u string,
	roundTrip func(ctx context.Context) (string, error),
) (string, error) {
	ctx, span := tracer.Start(ctx, "fetch.Fetch", trace.WithAttributes(
		attribute.String("fetch.backend", backend),
		attribute.String("url.full", u),
	))
	defer span.End()

	if o.pacer != nil {
		if err := o.pacer.Wait(ctx); err != nil {
			metrics.FetchRequestsTotal.WithLabelValues(backend, "paced").Inc()
			span.SetStatus(codes.Error, err.Error())
			return "", &domain.UpstreamError{URL: u, Err: err}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	body, err := roundTrip(ctx)
	metrics.FetchDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.FetchRequestsTotal.WithLabelValues(backend, outcome(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		var uerr *domain.UpstreamError
		if errors.As(err, &uerr) && uerr.StatusCode != 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", uerr.StatusCode))
		}
		o.logger.Debug("fetch failed", "backend", backend, "url", u, "error", err)
		return "", err
	}

	metrics.FetchRequestsTotal.WithLabelValues(backend, "ok").Inc()
	span.SetAttributes(attribute.Int("fetch.body_bytes", len(body)))
	o.logger.Debug("fetched page", "backend", backend, "url", u, "bytes", len(body), "duration", time.Since(start))
	return body, nil
}

func outcome(err error) string {
	var uerr *domain.UpstreamError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &uerr) && uerr.StatusCode != 0:
		return "status"
	default:
		return "error"
	}
}

func truncateBody(b string) string {
	if len(b) > maxErrorBody {
		return b[:maxErrorBody]
	}
	return b
}

func statusError(u string, status int, body string) error {
	return &domain.UpstreamError{
		URL:        u,
		StatusCode: status,
		Err:        errors.New(http.StatusText(status)),
		Body:       truncateBody(body),
	}
}
