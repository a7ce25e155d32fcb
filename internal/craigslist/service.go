// Package craigslist ties the reference tables, query builder, fetcher and
// parsers together into the four caller-facing operations.
package craigslist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/craigslist-search/internal/fetch"
	"github.com/donaldgifford/craigslist-search/internal/metrics"
	"github.com/donaldgifford/craigslist-search/internal/parse"
	"github.com/donaldgifford/craigslist-search/internal/query"
	"github.com/donaldgifford/craigslist-search/internal/reference"
	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

const (
	// DefaultMinPageRows is the smallest first page that can be followed by
	// another. Shorter first pages hold the whole result set.
	DefaultMinPageRows = 20

	// DefaultMaxConcurrency bounds in-flight page fetches for one search.
	DefaultMaxConcurrency = 4
)

var (
	tracer = otel.Tracer("github.com/donaldgifford/craigslist-search/internal/craigslist")

	siteLabel = regexp.MustCompile(`^[a-z0-9]+$`)
)

// Searcher is the caller-facing surface of Service.
type Searcher interface {
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error)
	GetListing(ctx context.Context, rawURL string) (*domain.ListingDetail, error)
	ListLocations(filter string) []domain.LocationEntry
	ListCategories(filter string) []domain.CategoryEntry
}

var _ Searcher = (*Service)(nil)

// Service runs searches and listing lookups.
type Service struct {
	locations  *reference.Locations
	categories *reference.Categories
	builder    *query.Builder
	fetcher    fetch.Fetcher
	parser     *parse.Parser
	log        *slog.Logger

	minPageRows    int
	maxConcurrency int
}

// NewService creates a Service with injected dependencies.
func NewService(
	locs *reference.Locations,
	cats *reference.Categories,
	f fetch.Fetcher,
	opts ...Option,
) *Service {
	s := &Service{
		locations:      locs,
		categories:     cats,
		builder:        query.NewBuilder(),
		fetcher:        f,
		parser:         parse.New(),
		log:            slog.Default(),
		minPageRows:    DefaultMinPageRows,
		maxConcurrency: DefaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// WithBuilder replaces the default query builder.
func WithBuilder(b *query.Builder) Option {
	return func(s *Service) {
		s.builder = b
	}
}

// WithParser replaces the default parser.
func WithParser(p *parse.Parser) Option {
	return func(s *Service) {
		s.parser = p
	}
}

// WithMinPageRows sets the smallest first page that triggers pagination.
func WithMinPageRows(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minPageRows = n
		}
	}
}

// WithMaxConcurrency bounds concurrent page fetches within one search.
func WithMaxConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrency = n
		}
	}
}

// Ready reports whether the reference tables are loaded.
func (s *Service) Ready() bool {
	return s.locations != nil && s.locations.Len() > 0 &&
		s.categories != nil && s.categories.Len() > 0
}

// Search runs req and returns at most the requested number of listings. Any
// page failure fails the whole search.
func (s *Service) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	ctx, span := tracer.Start(ctx, "craigslist.Search", trace.WithAttributes(
		attribute.String("search.query", req.Query),
		attribute.String("search.location", req.Location),
		attribute.String("search.category", req.Category),
	))
	defer span.End()

	start := time.Now()
	res, err := s.search(ctx, req)
	outcome := outcomeOf(err)
	metrics.SearchesTotal.WithLabelValues(outcome).Inc()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Debug("search failed", "query", req.Query, "outcome", outcome, "error", err)
		return nil, err
	}

	metrics.SearchResults.Observe(float64(res.Count))
	metrics.SearchPagesFetched.Observe(float64(res.Pages))
	span.SetAttributes(
		attribute.Int("search.pages", res.Pages),
		attribute.Int("search.results", res.Count),
	)
	s.log.Info("search completed",
		"query", res.Query,
		"location", res.Location.Code,
		"category", res.Category.Code,
		"pages", res.Pages,
		"results", res.Count,
		"duration", time.Since(start),
	)
	return res, nil
}

func (s *Service) search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	if err := s.builder.Validate(req); err != nil {
		return nil, err
	}
	loc, err := s.locations.Resolve(req.Location)
	if err != nil {
		return nil, err
	}
	cat, err := s.categories.Resolve(req.Category)
	if err != nil {
		return nil, err
	}
	limit := s.builder.Limit(req)

	firstURL, err := s.builder.Build(req, loc, cat, 0)
	if err != nil {
		return nil, err
	}

	first, err := s.fetchPage(ctx, firstURL)
	if err != nil {
		return nil, err
	}
	pages := [][]domain.ListingSummary{first}

	// The observed first-page length is the stride between page offsets. A
	// short first page holds the whole result set.
	stride := len(first)
	listings := merge(pages, stride, req.MinPrice, req.MaxPrice)

	if stride >= s.minPageRows {
		// Repeated and out-of-range rows can leave the merged list short of
		// the limit, so allow one extra page per page the limit needs.
		maxPages := 2 * ((limit + stride - 1) / stride)

		for len(listings) < limit && len(pages) < maxPages && !exhausted(pages, stride) {
			n := min((limit-len(listings)+stride-1)/stride, s.maxConcurrency, maxPages-len(pages))
			rest, err := s.fetchPages(ctx, req, loc, cat, stride, len(pages), n)
			if err != nil {
				return nil, err
			}
			pages = append(pages, rest...)
			listings = merge(pages, stride, req.MinPrice, req.MaxPrice)
		}
	}

	if len(listings) > limit {
		listings = listings[:limit]
	}

	return &domain.SearchResult{
		Query:    strings.TrimSpace(req.Query),
		Location: loc,
		Category: cat,
		URL:      firstURL,
		Pages:    len(pages),
		Count:    len(listings),
		Listings: listings,
	}, nil
}

// fetchPages fetches n pages concurrently, starting with page index from.
// Results are returned in page order.
func (s *Service) fetchPages(
	ctx context.Context,
	req domain.SearchRequest,
	loc domain.LocationEntry,
	cat domain.CategoryEntry,
	stride, from, n int,
) ([][]domain.ListingSummary, error) {
	urls := make([]string, n)
	for i := range urls {
		u, err := s.builder.Build(req, loc, cat, stride*(from+i))
		if err != nil {
			return nil, err
		}
		urls[i] = u
	}

	pages := make([][]domain.ListingSummary, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for i, u := range urls {
		g.Go(func() error {
			rows, err := s.fetchPage(gctx, u)
			if err != nil {
				return err
			}
			pages[i] = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return pages, nil
}

func (s *Service) fetchPage(ctx context.Context, u string) ([]domain.ListingSummary, error) {
	body, err := s.fetcher.Fetch(ctx, u)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	rows, err := s.parser.SearchResults(body, u)
	if err != nil {
		metrics.ParseFailuresTotal.WithLabelValues("search").Inc()
		s.log.Warn("unparseable results page", "url", u, "error", err)
		return nil, err
	}

	s.log.Debug("parsed results page", "url", u, "rows", len(rows))
	return rows, nil
}

// merge concatenates pages in order, stopping after the first page shorter
// than stride, then drops repeated URLs and listings priced outside the
// requested bounds. Unpriced listings are kept.
func merge(pages [][]domain.ListingSummary, stride int, minPrice, maxPrice *int) []domain.ListingSummary {
	out := make([]domain.ListingSummary, 0, len(pages)*stride)
	seen := make(map[string]bool)

	for _, page := range pages {
		for _, l := range page {
			if seen[l.URL] {
				continue
			}
			seen[l.URL] = true
			if !inRange(l.Price, minPrice, maxPrice) {
				continue
			}
			out = append(out, l)
		}
		if len(page) < stride {
			break
		}
	}
	return out
}

// exhausted reports whether any page came back shorter than stride, which
// marks the end of the result set.
func exhausted(pages [][]domain.ListingSummary, stride int) bool {
	for _, page := range pages {
		if len(page) < stride {
			return true
		}
	}
	return false
}

func inRange(price *float64, minPrice, maxPrice *int) bool {
	if price == nil {
		return true
	}
	if minPrice != nil && *price < float64(*minPrice) {
		return false
	}
	if maxPrice != nil && *price > float64(*maxPrice) {
		return false
	}
	return true
}

// GetListing fetches and parses a single listing page.
func (s *Service) GetListing(ctx context.Context, rawURL string) (*domain.ListingDetail, error) {
	ctx, span := tracer.Start(ctx, "craigslist.GetListing", trace.WithAttributes(
		attribute.String("url.full", rawURL),
	))
	defer span.End()

	d, err := s.getListing(ctx, rawURL)
	outcome := outcomeOf(err)
	metrics.ListingLookupsTotal.WithLabelValues(outcome).Inc()

	if err != nil {
		if domain.IsNotFound(err) {
			metrics.ListingsRemovedTotal.Inc()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Debug("listing lookup failed", "url", rawURL, "outcome", outcome, "error", err)
		return nil, err
	}

	s.log.Info("listing fetched",
		"url", d.URL,
		"post_id", d.PostID,
		"attributes", len(d.Attributes),
		"images", len(d.Images),
	)
	return d, nil
}

func (s *Service) getListing(ctx context.Context, rawURL string) (*domain.ListingDetail, error) {
	u, err := s.listingURL(rawURL)
	if err != nil {
		return nil, err
	}

	body, err := s.fetcher.Fetch(ctx, u)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var uerr *domain.UpstreamError
		if errors.As(err, &uerr) &&
			(uerr.StatusCode == http.StatusNotFound || uerr.StatusCode == http.StatusGone) {
			if reason, ok := parse.IsRemovedPage(uerr.Body); ok {
				return nil, &domain.NotFoundError{URL: u, Reason: reason}
			}
		}
		return nil, err
	}

	d, err := s.parser.ListingDetail(body, u)
	if err != nil {
		if domain.IsParse(err) {
			metrics.ParseFailuresTotal.WithLabelValues("detail").Inc()
		}
		return nil, err
	}
	return d, nil
}

// listingURL checks that raw points at a listing on the configured domain and
// returns it normalized.
func (s *Service) listingURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &domain.ValidationError{Field: "url", Reason: "must not be empty"}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", &domain.ValidationError{Field: "url", Reason: fmt.Sprintf("malformed URL: %v", err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &domain.ValidationError{Field: "url", Reason: "must be an absolute http(s) URL"}
	}
	if u.User != nil || u.Port() != "" {
		return "", &domain.ValidationError{Field: "url", Reason: "must not carry credentials or a port"}
	}

	host := strings.ToLower(u.Hostname())
	sub, ok := strings.CutSuffix(host, "."+s.builder.Domain())
	if !ok || !siteLabel.MatchString(sub) {
		return "", &domain.ValidationError{
			Field:  "url",
			Reason: fmt.Sprintf("host %q is not a %s site", u.Hostname(), s.builder.Domain()),
		}
	}
	if u.Path == "" || u.Path == "/" {
		return "", &domain.ValidationError{Field: "url", Reason: "must point at a listing page"}
	}

	u.Host = host
	u.Fragment = ""
	return u.String(), nil
}

// ListLocations returns the locations whose code or name contains filter.
func (s *Service) ListLocations(filter string) []domain.LocationEntry {
	return s.locations.List(filter)
}

// ListCategories returns the categories whose code or name contains filter.
func (s *Service) ListCategories(filter string) []domain.CategoryEntry {
	return s.categories.List(filter)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsValidation(err):
		return "invalid"
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsParse(err):
		return "parse_error"
	case domain.IsUpstream(err):
		return "upstream_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
