package parse

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/titanous/json5"

	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

const (
	removedSelector    = "#has_been_removed"
	removedBlock       = ".removed"
	titlePriceSelector = ".postingtitletext .price, h1.postingtitle .price"
	locationSelector   = ".mapaddress, div.mapAndAttrs small"
	printOnlySelector  = ".print-information, .print-qrcode-container, .print-qrcode-label"
	imageSelector      = "a.thumb, #thumbs a, .gallery img, .swipe img"
)

var (
	// titleSuffix strips a trailing "-$1,200 (Covington)" from a posting title.
	titleSuffix = regexp.MustCompile(`\s*-?\s*\$[\d,]+(?:\.\d{1,2})?\s*(\([^)]*\))?\s*$`)

	// imgListScript captures the gallery array embedded in a script block.
	imgListScript = regexp.MustCompile(`(?s)var\s+imgList\s*=\s*(\[.*?\])\s*;`)

	postIDText = regexp.MustCompile(`(?i)post\s+id:\s*(\d+)`)
)

var removedPhrases = []string{
	"this posting has been deleted",
	"this posting has expired",
	"this posting has been flagged for removal",
}

type galleryImage struct {
	URL string `json:"url"`
}

// ListingDetail parses a single listing page. A page marked as removed or
// expired gives *domain.NotFoundError; a page with neither a posting title
// nor a posting body gives *domain.ParseError.
func (p *Parser) ListingDetail(html, pageURL string) (*domain.ListingDetail, error) {
	doc, base, err := load(html, pageURL)
	if err != nil {
		return nil, err
	}

	if reason := removedReason(doc); reason != "" {
		return nil, &domain.NotFoundError{URL: pageURL, Reason: reason}
	}

	body := doc.Find("#postingbody").First()
	title := postingTitle(doc)
	if title == "" && body.Length() == 0 {
		return nil, &domain.ParseError{URL: pageURL, Reason: "no posting title or body"}
	}
	if title == "" {
		title = cleanText(doc.Find("title").First().Text())
	}

	d := &domain.ListingDetail{
		ListingSummary: domain.ListingSummary{
			Title:  title,
			URL:    pageURL,
			PostID: postID(pageURL),
		},
		Attributes: attributes(doc),
		Images:     images(doc, base),
	}

	if d.PostID == "" {
		if m := postIDText.FindStringSubmatch(doc.Find(".postinginfos").Text()); m != nil {
			d.PostID = m[1]
		}
	}

	rawTitle := selText(doc.Selection, ".postingtitletext, h1.postingtitle")

	priceText := selText(doc.Selection, titlePriceSelector)
	if priceText == "" {
		priceText = embeddedPrice.FindString(rawTitle)
	}
	d.PriceText = priceText
	d.Price = parsePrice(priceText)

	hood := strings.Trim(selText(doc.Selection, ".postingtitletext small"), "() ")
	if hood == "" {
		if m := titleSuffix.FindStringSubmatch(rawTitle); m != nil {
			hood = strings.Trim(m[1], "() ")
		}
	}
	d.Neighborhood = strPtr(hood)

	if body.Length() > 0 {
		body = body.Clone()
		body.Find(printOnlySelector).Remove()
		if text := blockText(body.Nodes[0]); text != "" {
			d.Description = &text
			d.ContactPhones = extractPhones(text, p.phoneRegion)
		}
	}

	d.Location = strPtr(selText(doc.Selection, locationSelector))
	d.Latitude, d.Longitude = geo(doc)
	p.timestamps(doc, d)

	if len(d.Images) > 0 {
		d.Thumbnail = &d.Images[0]
	}

	return d, nil
}

// removedReason returns why a listing page is gone, or "" if it is live.
// Only the explicit removal marker overrides a posting body; the looser
// ".removed" block and the notice phrases count on pages without one.
func removedReason(doc *goquery.Document) string {
	if reason := markerText(doc.Find(removedSelector)); reason != "" {
		return reason
	}
	if doc.Find("#postingbody").Length() > 0 {
		return ""
	}
	if reason := markerText(doc.Find(removedBlock)); reason != "" {
		return reason
	}
	text := strings.ToLower(cleanText(doc.Find("body").Text()))
	for _, phrase := range removedPhrases {
		if strings.Contains(text, phrase) {
			return phrase
		}
	}
	return ""
}

func markerText(sel *goquery.Selection) string {
	m := sel.First()
	if m.Length() == 0 {
		return ""
	}
	if text := cleanText(m.Text()); text != "" {
		return text
	}
	return "posting has been removed"
}

// IsRemovedPage reports whether html is a removed-listing page.
func IsRemovedPage(html string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}
	reason := removedReason(doc)
	return reason, reason != ""
}

func postingTitle(doc *goquery.Document) string {
	if t := selText(doc.Selection, "#titletextonly"); t != "" {
		return t
	}
	raw := selText(doc.Selection, ".postingtitletext, h1.postingtitle")
	if raw == "" {
		return ""
	}
	if cleaned := strings.TrimSpace(titleSuffix.ReplaceAllString(raw, "")); cleaned != "" {
		return cleaned
	}
	return raw
}

// attrList keeps attributes in first-seen order; a repeated key overwrites
// the value but keeps its position.
type attrList struct {
	items []domain.Attribute
	index map[string]int
}

func (l *attrList) set(key, value string) {
	if key == "" {
		return
	}
	if i, ok := l.index[key]; ok {
		l.items[i].Value = value
		return
	}
	l.index[key] = len(l.items)
	l.items = append(l.items, domain.Attribute{Key: key, Value: value})
}

func attributes(doc *goquery.Document) []domain.Attribute {
	l := &attrList{index: make(map[string]int)}

	doc.Find(".attrgroup").Each(func(_ int, group *goquery.Selection) {
		spans := group.Find("span")
		for i := 0; i < spans.Length(); i++ {
			span := spans.Eq(i)
			switch {
			case span.HasClass("labl"):
				label := strings.ToLower(strings.TrimSpace(strings.TrimRight(cleanText(span.Text()), ":")))
				if i+1 < spans.Length() && spans.Eq(i+1).HasClass("valu") {
					if val := cleanText(spans.Eq(i + 1).Text()); label != "" && val != "" {
						l.set(label, val)
					}
					i++
					continue
				}
				l.set(label, "")
			case span.HasClass("valu"):
				val := cleanText(span.Text())
				switch {
				case val == "":
				case span.HasClass("year"):
					l.set("year", val)
				case span.HasClass("makemodel"):
					l.set("make/model", val)
				default:
					l.set(strings.ToLower(val), "yes")
				}
			default:
				// Spans nested inside a labl/valu pair were handled with it.
				if span.ParentsFiltered("span.labl, span.valu").Length() > 0 {
					continue
				}
				text := cleanText(span.Text())
				if key, val, ok := strings.Cut(text, ":"); ok {
					key = strings.ToLower(strings.TrimSpace(key))
					if val = strings.TrimSpace(val); key != "" && val != "" {
						l.set(key, val)
					}
				} else if text != "" {
					l.set(strings.ToLower(text), "yes")
				}
			}
		}
	})

	if len(l.items) == 0 {
		return nil
	}
	return l.items
}

func geo(doc *goquery.Document) (*float64, *float64) {
	m := doc.Find("#map").First()
	if m.Length() == 0 {
		return nil, nil
	}
	lat, err := strconv.ParseFloat(firstAttr(m, "data-latitude"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, nil
	}
	lon, err := strconv.ParseFloat(firstAttr(m, "data-longitude"), 64)
	if err != nil || lon < -180 || lon > 180 {
		return nil, nil
	}
	return &lat, &lon
}

func (p *Parser) timestamps(doc *goquery.Document, d *domain.ListingDetail) {
	now := p.now()

	doc.Find(".postinginfos .postinginfo").Each(func(_ int, info *goquery.Selection) {
		t := info.Find("time").First()
		if t.Length() == 0 {
			return
		}
		raw := firstAttr(t, "datetime")
		if raw == "" {
			raw = cleanText(t.Text())
		}
		label := strings.ToLower(info.Text())
		switch {
		case strings.Contains(label, "updated"):
			if d.Updated == nil {
				d.Updated = parseDate(raw, now)
			}
		case strings.Contains(label, "posted"):
			if d.PostedText == "" {
				d.PostedText = raw
				d.Posted = parseDate(raw, now)
			}
		}
	})

	if d.PostedText != "" {
		return
	}
	if t := doc.Find("time.date, time.timeago").First(); t.Length() > 0 {
		d.PostedText = firstAttr(t, "datetime")
		if d.PostedText == "" {
			d.PostedText = cleanText(t.Text())
		}
		d.Posted = parseDate(d.PostedText, now)
	}
}

func images(doc *goquery.Document, base *url.URL) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(raw string) {
		u := absURL(base, raw)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		out = append(out, u)
	}

	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		m := imgListScript.FindStringSubmatch(s.Text())
		if m == nil {
			return true
		}
		var gallery []galleryImage
		if err := json5.Unmarshal([]byte(m[1]), &gallery); err != nil {
			return true
		}
		for _, g := range gallery {
			add(g.URL)
		}
		return false
	})

	doc.Find(imageSelector).Each(func(_ int, el *goquery.Selection) {
		add(firstAttr(el, "href", "src", "data-src"))
	})

	return out
}
