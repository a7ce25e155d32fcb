package fetch

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"

	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

// RestyFetcher fetches pages with a shared resty client. It is stateless
// apart from the connection pool and safe for concurrent use.
type RestyFetcher struct {
	client *resty.Client
	opts   options
}

// NewRestyFetcher creates a resty-backed Fetcher.
func NewRestyFetcher(opts ...Option) *RestyFetcher {
	o := newOptions(opts)

	client := resty.NewWithClient(&http.Client{Transport: o.transport}).
		SetHeaders(defaultHeaders).
		SetHeader("User-Agent", o.userAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects))

	return &RestyFetcher{client: client, opts: o}
}

// Fetch implements Fetcher.
func (f *RestyFetcher) Fetch(ctx context.Context, u string) (string, error) {
	return f.opts.do(ctx, BackendResty, u, func(ctx context.Context) (string, error) {
		resp, err := f.client.R().SetContext(ctx).Get(u)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", &domain.UpstreamError{URL: u, Err: ctxErr}
			}
			return "", &domain.UpstreamError{URL: u, Err: err}
		}
		if !resp.IsSuccess() {
			return "", statusError(u, resp.StatusCode(), resp.String())
		}
		return resp.String(), nil
	})
}
