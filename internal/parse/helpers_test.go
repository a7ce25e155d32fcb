package parse

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		want  *float64
	}{
		{label: "$1,250", want: ptr(1250)},
		{label: "$0", want: ptr(0)},
		{label: "$ 45", want: ptr(45)},
		{label: "$19.99", want: ptr(19.99)},
		{label: "price: $300 obo", want: ptr(300)},
		{label: "450", want: ptr(450)},
		{label: "free", want: nil},
		{label: "", want: nil},
		{label: "call for price", want: nil},
		{label: "-$50", want: ptr(50)},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			t.Parallel()

			got := parsePrice(tt.label)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 0.001)
			assert.GreaterOrEqual(t, *got, 0.0)
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("PDT", -7*3600)
	now := time.Date(2024, 3, 20, 15, 30, 0, 0, loc)

	tests := []struct {
		raw  string
		want time.Time
		none bool
	}{
		{raw: "2024-03-15T10:22:00-0700", want: time.Date(2024, 3, 15, 10, 22, 0, 0, loc)},
		{raw: "2024-03-15T10:22:00-07:00", want: time.Date(2024, 3, 15, 10, 22, 0, 0, loc)},
		{raw: "2024-03-15 10:22", want: time.Date(2024, 3, 15, 10, 22, 0, 0, loc)},
		{raw: "2024-03-15", want: time.Date(2024, 3, 15, 0, 0, 0, 0, loc)},
		{raw: "Mar 15", want: time.Date(2024, 3, 15, 0, 0, 0, 0, loc)},
		{raw: "Dec 30", want: time.Date(2023, 12, 30, 0, 0, 0, 0, loc)},
		{raw: "3/15", want: time.Date(2024, 3, 15, 0, 0, 0, 0, loc)},
		{raw: "today", want: time.Date(2024, 3, 20, 0, 0, 0, 0, loc)},
		{raw: "Yesterday", want: time.Date(2024, 3, 19, 0, 0, 0, 0, loc)},
		{raw: "5 mins ago", want: now.Add(-5 * time.Minute)},
		{raw: "3h ago", want: now.Add(-3 * time.Hour)},
		{raw: "2 days ago", want: now.Add(-48 * time.Hour)},
		{raw: "", none: true},
		{raw: "sometime last week", none: true},
		{raw: "4 fortnights ago", none: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			got := parseDate(tt.raw, now)
			if tt.none {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "want %s, got %s", tt.want, *got)
		})
	}
}

func TestBlockText(t *testing.T) {
	t.Parallel()

	doc, err := html.Parse(strings.NewReader(
		`<div id="x">  First   line<br>second line<br><br><br><br>after gap<p>para</p><script>var x = 1;</script>tail&nbsp;end</div>`,
	))
	require.NoError(t, err)

	got := blockText(doc)
	assert.Equal(t, "First line\nsecond line\n\nafter gap\npara\ntail end", got)
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", cleanText("  a\n\tb   c  "))
	assert.Empty(t, cleanText(" \n "))
}

func TestAbsURL(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://seattle.craigslist.org/search/sss?query=bike")
	require.NoError(t, err)

	tests := []struct {
		href string
		want string
	}{
		{href: "/see/bik/d/x/123.html", want: "https://seattle.craigslist.org/see/bik/d/x/123.html"},
		{href: "//images.craigslist.org/a.jpg", want: "https://images.craigslist.org/a.jpg"},
		{href: "https://tacoma.craigslist.org/a.html", want: "https://tacoma.craigslist.org/a.html"},
		{href: "#", want: ""},
		{href: "", want: ""},
		{href: "javascript:void(0)", want: ""},
		{href: "mailto:x@example.com", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, absURL(base, tt.href))
		})
	}
}

func TestExtractPhones(t *testing.T) {
	t.Parallel()

	text := "Call (425) 882-8080 or 425.882.8080, fax +1 206 684 4000. Ref 12345."
	assert.Equal(t, []string{"+14258828080", "+12066844000"}, extractPhones(text, "US"))
	assert.Empty(t, extractPhones("no numbers here, only 98,000 miles", "US"))
}

func ptr(f float64) *float64 { return &f }
