// Package query validates search requests and turns them into site URLs.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

// DefaultDomain is the site's base domain; locations are subdomains of it.
const DefaultDomain = "craigslist.org"

// siteSort maps sort modes to the site's sort tokens.
var siteSort = map[domain.SortMode]string{
	domain.SortRelevance: "relevant",
	domain.SortNewest:    "date",
	domain.SortPriceAsc:  "priceasc",
	domain.SortPriceDesc: "pricedsc",
}

// Builder validates requests and assembles search URLs.
type Builder struct {
	domain         string
	maxResults     int
	defaultResults int
}

// Option configures the Builder.
type Option func(*Builder)

// WithDomain overrides the base domain.
func WithDomain(d string) Option {
	return func(b *Builder) {
		b.domain = d
	}
}

// WithMaxResults overrides the upper bound on SearchRequest.MaxResults.
func WithMaxResults(n int) Option {
	return func(b *Builder) {
		b.maxResults = n
	}
}

// WithDefaultResults overrides the result count used when MaxResults is 0.
func WithDefaultResults(n int) Option {
	return func(b *Builder) {
		b.defaultResults = n
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		domain:         DefaultDomain,
		maxResults:     domain.MaxResultsLimit,
		defaultResults: domain.DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Domain returns the base domain.
func (b *Builder) Domain() string {
	return b.domain
}

// Limit returns the effective result count for req.
func (b *Builder) Limit(req domain.SearchRequest) int {
	if req.MaxResults == 0 {
		return b.defaultResults
	}
	return req.MaxResults
}

// Validate checks req for malformed or contradictory fields.
func (b *Builder) Validate(req domain.SearchRequest) error {
	if req.MinPrice != nil && *req.MinPrice < 0 {
		return invalid("min_price", "must not be negative")
	}
	if req.MaxPrice != nil && *req.MaxPrice < 0 {
		return invalid("max_price", "must not be negative")
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return invalid("min_price", fmt.Sprintf("min_price %d is greater than max_price %d", *req.MinPrice, *req.MaxPrice))
	}
	if req.MaxResults < 0 || req.MaxResults > b.maxResults {
		return invalid("max_results", fmt.Sprintf("must be between 1 and %d, got %d", b.maxResults, req.MaxResults))
	}
	if _, err := domain.ParseSortMode(string(req.Sort)); err != nil {
		return err
	}
	if req.SearchDistance != nil {
		if *req.SearchDistance <= 0 {
			return invalid("search_distance", "must be a positive number of miles")
		}
		if strings.TrimSpace(req.PostalCode) == "" {
			return invalid("search_distance", "requires postal_code")
		}
	}
	if req.PostalCode != "" && !validPostal(req.PostalCode) {
		return invalid("postal_code", fmt.Sprintf("%q is not a postal code", req.PostalCode))
	}
	return nil
}

// Build validates req and returns the search URL for the page starting at
// offset. loc and cat must already be resolved.
func (b *Builder) Build(
	req domain.SearchRequest,
	loc domain.LocationEntry,
	cat domain.CategoryEntry,
	offset int,
) (string, error) {
	if err := b.Validate(req); err != nil {
		return "", err
	}
	if offset < 0 {
		return "", invalid("offset", "must not be negative")
	}

	params := url.Values{}

	if q := strings.TrimSpace(req.Query); q != "" {
		params.Set("query", q)
	}
	if req.MinPrice != nil {
		params.Set("min_price", strconv.Itoa(*req.MinPrice))
	}
	if req.MaxPrice != nil {
		params.Set("max_price", strconv.Itoa(*req.MaxPrice))
	}

	mode, _ := domain.ParseSortMode(string(req.Sort))
	if token, ok := siteSort[mode]; ok {
		params.Set("sort", token)
	}

	if req.HasImage {
		params.Set("hasPic", "1")
	}
	if req.PostedToday {
		params.Set("postedToday", "1")
	}
	if !req.IncludeDuplicates {
		params.Set("bundleDuplicates", "1")
	}
	if req.SearchDistance != nil {
		params.Set("search_distance", strconv.Itoa(*req.SearchDistance))
	}
	if pc := strings.TrimSpace(req.PostalCode); pc != "" {
		params.Set("postal", pc)
	}
	if offset > 0 {
		params.Set("s", strconv.Itoa(offset))
	}

	u := url.URL{
		Scheme:   "https",
		Host:     loc.Code + "." + b.domain,
		Path:     "/search/" + cat.Code,
		RawQuery: params.Encode(),
	}
	return u.String(), nil
}

func invalid(field, reason string) error {
	return &domain.ValidationError{Field: field, Reason: reason}
}

// validPostal accepts US ZIP / ZIP+4 and Canadian postal codes loosely:
// letters, digits, a space or hyphen, at most ten characters.
func validPostal(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 3 || len(s) > 10 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r == ' ' || r == '-':
		default:
			return false
		}
	}
	return true
}
