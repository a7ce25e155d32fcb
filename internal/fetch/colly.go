package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

// CollyFetcher fetches pages with a fresh colly collector per call, so no
// cookies or visit history leak between requests.
type CollyFetcher struct {
	opts options
}

// NewCollyFetcher creates a colly-backed Fetcher.
func NewCollyFetcher(opts ...Option) *CollyFetcher {
	return &CollyFetcher{opts: newOptions(opts)}
}

// Fetch implements Fetcher.
func (f *CollyFetcher) Fetch(ctx context.Context, u string) (string, error) {
	return f.opts.do(ctx, BackendColly, u, func(ctx context.Context) (string, error) {
		c := f.collector(ctx)

		var (
			body   string
			status int
		)
		c.OnResponse(func(r *colly.Response) {
			status = r.StatusCode
			body = string(r.Body)
		})
		c.OnError(func(r *colly.Response, _ error) {
			if r != nil {
				status = r.StatusCode
				body = string(r.Body)
			}
		})

		if err := c.Visit(u); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", &domain.UpstreamError{URL: u, Err: ctxErr}
			}
			if status != 0 {
				return "", statusError(u, status, body)
			}
			return "", &domain.UpstreamError{URL: u, Err: err}
		}
		if status < 200 || status > 299 {
			return "", statusError(u, status, body)
		}
		return body, nil
	})
}

func (f *CollyFetcher) collector(ctx context.Context) *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(f.opts.userAgent),
		colly.AllowURLRevisit(),
	)
	// The context deadline governs; the client timeout only backs it up.
	c.SetRequestTimeout(f.opts.timeout + time.Second)
	c.WithTransport(&contextTransport{ctx: ctx, base: f.opts.transport})
	c.SetRedirectHandler(func(_ *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	})
	c.OnRequest(func(r *colly.Request) {
		for k, v := range defaultHeaders {
			r.Headers.Set(k, v)
		}
	})
	return c
}

// contextTransport binds every outgoing request to ctx, which colly's
// Visit does not take.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}
