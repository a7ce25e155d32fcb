package parse

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

// rowSelectors are tried in order; the first that matches anything wins.
var rowSelectors = []string{
	"li.cl-static-search-result",
	"div.result-row",
	"li.cl-search-result",
	".result-info",
}

const (
	linkSelector  = "a.titlestring, a.result-title, a.posting-title, .title a, a[href*='/d/']"
	titleSelector = "div.title, .result-title, span.title, .titlestring"
	priceSelector = "div.price, .priceinfo, .result-price, span.price, .price"
	hoodSelector  = "div.location, .result-hood, .neighborhood, .surlabel, .meta .area"
	dateSelector  = "time, .result-date, .date, .meta .date"

	// emptySelector marks a results page that legitimately has no rows.
	emptySelector = ".cl-no-results, .noresults, #noresults, .no-results, .cl-empty-results"

	// containerSelector marks a page that is a results page at all.
	containerSelector = "ol.cl-static-search-results, .cl-search-results, .cl-results-page, " +
		"#search-results, #sortable-results, ul.rows, div.content .rows"
)

// listingHref matches listing links such as /see/bik/d/trek-road-bike/7712345678.html.
var listingHref = regexp.MustCompile(`/[a-z]{3}/d/[^/]+/\d+\.html`)

var emptyPhrases = []string{
	"no results",
	"nothing found",
	"zero local results",
}

// SearchResults parses one search-results page. Rows are returned in page
// order, deduplicated by URL, with absolute URLs.
func (p *Parser) SearchResults(html, pageURL string) ([]domain.ListingSummary, error) {
	doc, base, err := load(html, pageURL)
	if err != nil {
		return nil, err
	}

	var rows *goquery.Selection
	for _, sel := range rowSelectors {
		rows = doc.Find(sel)
		if rows.Length() > 0 {
			break
		}
	}

	seen := make(map[string]bool)
	out := make([]domain.ListingSummary, 0, rows.Length())
	rows.Each(func(_ int, row *goquery.Selection) {
		s, ok := p.summaryFromRow(row, base)
		if !ok || seen[s.URL] {
			return
		}
		seen[s.URL] = true
		out = append(out, s)
	})

	if len(out) == 0 {
		out = fallbackResults(doc, base)
	}
	if out == nil {
		out = []domain.ListingSummary{}
	}

	if len(out) == 0 && rows.Length() == 0 && !looksEmpty(doc) {
		return nil, &domain.ParseError{URL: pageURL, Reason: "no listing rows and no results container"}
	}
	return out, nil
}

func (p *Parser) summaryFromRow(row *goquery.Selection, base *url.URL) (domain.ListingSummary, bool) {
	link := row.Find(linkSelector).First()
	if link.Length() == 0 {
		link = row.Find("a").First()
	}
	if link.Length() == 0 && goquery.NodeName(row) == "a" {
		link = row
	}

	u := absURL(base, firstAttr(link, "href"))
	if u == "" {
		return domain.ListingSummary{}, false
	}

	title := selText(row, titleSelector)
	priceText := selText(row, priceSelector)
	hood := strings.Trim(selText(row, hoodSelector), "() ")
	raw := cleanText(link.Text())

	if title == "" {
		title, priceText, hood = splitLinkText(raw, priceText, hood)
	}
	if title == "" {
		title = firstAttr(row, "title")
	}
	if title == "" {
		return domain.ListingSummary{}, false
	}

	s := domain.ListingSummary{
		Title:        title,
		URL:          u,
		PostID:       firstAttr(row, "data-pid"),
		Price:        parsePrice(priceText),
		PriceText:    priceText,
		Neighborhood: strPtr(hood),
	}
	if s.PostID == "" {
		s.PostID = postID(u)
	}

	if d := row.Find(dateSelector).First(); d.Length() > 0 {
		s.PostedText = firstAttr(d, "datetime", "title")
		if s.PostedText == "" {
			s.PostedText = cleanText(d.Text())
		}
		s.Posted = parseDate(s.PostedText, p.now())
	}

	if img := row.Find("img").First(); img.Length() > 0 {
		s.Thumbnail = strPtr(absURL(base, firstAttr(img, "src", "data-src")))
	}

	return s, true
}

// splitLinkText recovers title, price and neighborhood when the row only has
// a link whose text runs them together, e.g. "Trek road bike $450 (Ballard)".
func splitLinkText(raw, priceText, hood string) (string, string, string) {
	if priceText == "" {
		loc := embeddedPrice.FindStringIndex(raw)
		if loc == nil {
			return raw, "", hood
		}
		priceText = raw[loc[0]:loc[1]]
		title := strings.TrimSpace(raw[:loc[0]])
		after := strings.Trim(strings.TrimSpace(raw[loc[1]:]), "() ")
		if title == "" {
			title = raw
		}
		if after != "" && hood == "" {
			hood = after
		}
		return title, priceText, hood
	}

	clean := strings.TrimSpace(strings.Replace(raw, priceText, "", 1))
	if hood != "" {
		clean = strings.TrimSpace(strings.Replace(clean, hood, "", 1))
		clean = strings.TrimSpace(strings.TrimSuffix(clean, "()"))
	}
	if clean == "" {
		clean = raw
	}
	return clean, priceText, hood
}

// fallbackResults collects listing-shaped anchors when no row markup matched.
func fallbackResults(doc *goquery.Document, base *url.URL) []domain.ListingSummary {
	var out []domain.ListingSummary
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !listingHref.MatchString(href) {
			return
		}
		u := absURL(base, href)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true

		raw := cleanText(a.Text())
		if len([]rune(raw)) < 3 {
			return
		}
		title, priceText, hood := splitLinkText(raw, "", "")
		if priceText == "" {
			priceText = embeddedPrice.FindString(trailingText(doc, a))
		}

		out = append(out, domain.ListingSummary{
			Title:        title,
			URL:          u,
			PostID:       postID(u),
			Price:        parsePrice(priceText),
			PriceText:    priceText,
			Neighborhood: strPtr(hood),
		})
	})

	return out
}

// trailingText is the text following a up to the next listing link, so
// sibling anchors sharing a parent each see only their own price.
func trailingText(doc *goquery.Document, a *goquery.Selection) string {
	var b strings.Builder
	for n := a.Nodes[0].NextSibling; n != nil; n = n.NextSibling {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			sib := doc.FindNodes(n)
			if holdsListingLink(sib) {
				return b.String()
			}
			b.WriteString(sib.Text())
		}
		b.WriteByte(' ')
	}
	return b.String()
}

func holdsListingLink(sel *goquery.Selection) bool {
	return sel.Find("a[href]").AddBack().FilterFunction(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		return ok && goquery.NodeName(a) == "a" && listingHref.MatchString(href)
	}).Length() > 0
}

func looksEmpty(doc *goquery.Document) bool {
	if doc.Find(emptySelector).Length() > 0 || doc.Find(containerSelector).Length() > 0 {
		return true
	}
	text := strings.ToLower(cleanText(doc.Find("body").Text()))
	for _, phrase := range emptyPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
