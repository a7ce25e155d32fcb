// Package parse extracts listing records from marketplace HTML. All markup
// assumptions live here; every field is extracted independently and a
// missing field becomes nil rather than an error.
package parse

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

// DefaultPhoneRegion is the region assumed for numbers without a country code.
const DefaultPhoneRegion = "US"

// postIDPattern captures the numeric id from a listing URL.
var postIDPattern = regexp.MustCompile(`/(\d{6,})\.html`)

// Parser converts search and listing pages into domain records. It holds no
// per-request state and is safe for concurrent use.
type Parser struct {
	now         func() time.Time
	phoneRegion string
}

// Option configures the Parser.
type Option func(*Parser)

// WithClock sets the clock used to interpret relative dates.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		p.now = now
	}
}

// WithPhoneRegion sets the default region for contact phone parsing.
func WithPhoneRegion(region string) Option {
	return func(p *Parser) {
		p.phoneRegion = region
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		now:         time.Now,
		phoneRegion: DefaultPhoneRegion,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func load(html, pageURL string) (*goquery.Document, *url.URL, error) {
	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		return nil, nil, &domain.ParseError{URL: pageURL, Reason: "page URL is not absolute"}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, &domain.ParseError{URL: pageURL, Reason: fmt.Sprintf("reading html: %v", err)}
	}
	return doc, base, nil
}

func postID(u string) string {
	if m := postIDPattern.FindStringSubmatch(u); m != nil {
		return m[1]
	}
	return ""
}
