package parse_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/craigslist-search/internal/parse"
	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

const searchURL = "https://seattle.craigslist.org/search/bik?bundleDuplicates=1&query=bike"

var fixedNow = time.Date(2024, 3, 20, 15, 30, 0, 0, time.FixedZone("PDT", -7*3600))

func newParser() *parse.Parser {
	return parse.New(parse.WithClock(func() time.Time { return fixedNow }))
}

func fixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(b)
}

func TestSearchResults_StaticLayout(t *testing.T) {
	t.Parallel()

	got, err := newParser().SearchResults(fixture(t, "search_static.html"), searchURL)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Trek Domane road bike", got[0].Title)
	assert.Equal(t, "https://seattle.craigslist.org/see/bik/d/seattle-trek-domane-road-bike/7712345678.html", got[0].URL)
	assert.Equal(t, "7712345678", got[0].PostID)
	require.NotNil(t, got[0].Price)
	assert.InDelta(t, 1250.0, *got[0].Price, 0.001)
	assert.Equal(t, "$1,250", got[0].PriceText)
	require.NotNil(t, got[0].Neighborhood)
	assert.Equal(t, "Capitol Hill", *got[0].Neighborhood)
	assert.Nil(t, got[0].Posted)
	assert.Nil(t, got[0].Thumbnail)

	assert.Equal(t, "Kids bike, free", got[1].Title)
	assert.Equal(t, "https://seattle.craigslist.org/tac/bik/d/tacoma-kids-bike/7712345679.html", got[1].URL)
	assert.Nil(t, got[1].Price)
	assert.Equal(t, "free", got[1].PriceText)
	assert.Nil(t, got[1].Neighborhood)

	assert.Equal(t, "Cannondale CAAD12", got[2].Title)
}

func TestSearchResults_LegacyLayout(t *testing.T) {
	t.Parallel()

	got, err := newParser().SearchResults(fixture(t, "search_legacy.html"), searchURL)
	require.NoError(t, err)
	require.Len(t, got, 1)

	s := got[0]
	assert.Equal(t, "2012 Honda Civic", s.Title)
	assert.Equal(t, "https://seattle.craigslist.org/see/cto/d/ballard-honda-civic/7600000001.html", s.URL)
	assert.Equal(t, "7600000001", s.PostID)
	require.NotNil(t, s.Price)
	assert.InDelta(t, 6500.0, *s.Price, 0.001)
	require.NotNil(t, s.Neighborhood)
	assert.Equal(t, "Ballard", *s.Neighborhood)
	assert.Equal(t, "2024-03-15 10:22", s.PostedText)
	require.NotNil(t, s.Posted)
	assert.Equal(t, 15, s.Posted.Day())
	require.NotNil(t, s.Thumbnail)
	assert.Equal(t, "https://images.craigslist.org/00a0a_abc_300x300.jpg", *s.Thumbnail)
}

func TestSearchResults_LinkTextOnly(t *testing.T) {
	t.Parallel()

	got, err := newParser().SearchResults(fixture(t, "search_linktext.html"), searchURL)
	require.NoError(t, err)
	require.Len(t, got, 2)

	desk := got[0]
	assert.Equal(t, "Walnut desk", desk.Title)
	assert.Equal(t, "$275", desk.PriceText)
	require.NotNil(t, desk.Price)
	assert.InDelta(t, 275.0, *desk.Price, 0.001)
	require.NotNil(t, desk.Neighborhood)
	assert.Equal(t, "Fremont", *desk.Neighborhood)
	assert.Equal(t, "7700000010", desk.PostID)
	require.NotNil(t, desk.Posted)
	assert.True(t, fixedNow.Add(-3*time.Hour).Equal(*desk.Posted))
	require.NotNil(t, desk.Thumbnail)
	assert.Equal(t, "https://images.craigslist.org/00z0z_desk_300x300.jpg", *desk.Thumbnail)

	lamp := got[1]
	assert.Equal(t, "Floor lamp", lamp.Title)
	assert.Nil(t, lamp.Price)
	require.NotNil(t, lamp.Posted)
	assert.Equal(t, 19, lamp.Posted.Day())
}

func TestSearchResults_AnchorFallback(t *testing.T) {
	t.Parallel()

	got, err := newParser().SearchResults(fixture(t, "search_fallback.html"), searchURL)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Vintage Schwinn", got[0].Title)
	assert.Equal(t, "https://seattle.craigslist.org/see/bik/d/seattle-vintage-schwinn/7800000001.html", got[0].URL)
	require.NotNil(t, got[0].Price)
	assert.InDelta(t, 300.0, *got[0].Price, 0.001)

	assert.Equal(t, "BMX", got[1].Title)
	assert.Nil(t, got[1].Price)
}

func TestSearchResults_AnchorFallbackSharedParent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
	}{
		{
			name: "price after anchor",
			html: `<html><body><div>` +
				`<a href="/see/bik/d/road-bike/7800000011.html">Road bike</a> $100 ` +
				`<a href="/see/bik/d/mountain-bike/7800000012.html">Mountain bike</a> <b>$5000</b>` +
				`</div></body></html>`,
		},
		{
			name: "price inside anchor",
			html: `<html><body><div>` +
				`<a href="/see/bik/d/road-bike/7800000011.html">Road bike $100</a> ` +
				`<a href="/see/bik/d/mountain-bike/7800000012.html">Mountain bike $5000</a>` +
				`</div></body></html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := newParser().SearchResults(tt.html, searchURL)
			require.NoError(t, err)
			require.Len(t, got, 2)

			assert.Equal(t, "Road bike", got[0].Title)
			require.NotNil(t, got[0].Price)
			assert.InDelta(t, 100.0, *got[0].Price, 0.001)

			assert.Equal(t, "Mountain bike", got[1].Title)
			require.NotNil(t, got[1].Price)
			assert.InDelta(t, 5000.0, *got[1].Price, 0.001)
		})
	}
}

func TestSearchResults_EmptyPage(t *testing.T) {
	t.Parallel()

	got, err := newParser().SearchResults(fixture(t, "search_empty.html"), searchURL)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearchResults_UnrecognizedPage(t *testing.T) {
	t.Parallel()

	_, err := newParser().SearchResults(fixture(t, "not_results.html"), searchURL)
	require.Error(t, err)

	var perr *domain.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, searchURL, perr.URL)
}

func TestSearchResults_RelativePageURL(t *testing.T) {
	t.Parallel()

	_, err := newParser().SearchResults(fixture(t, "search_static.html"), "/search/bik")
	assert.True(t, domain.IsParse(err))
}

func TestSearchResults_Invariants(t *testing.T) {
	t.Parallel()

	p := newParser()
	for _, name := range []string{
		"search_static.html",
		"search_legacy.html",
		"search_linktext.html",
		"search_fallback.html",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			page := fixture(t, name)
			first, err := p.SearchResults(page, searchURL)
			require.NoError(t, err)

			seen := make(map[string]bool)
			for _, s := range first {
				assert.NotEmpty(t, s.Title)
				assert.Regexp(t, `^https://`, s.URL)
				assert.False(t, seen[s.URL], "duplicate %s", s.URL)
				seen[s.URL] = true
				if s.Price != nil {
					assert.GreaterOrEqual(t, *s.Price, 0.0)
				}
			}

			second, err := p.SearchResults(page, searchURL)
			require.NoError(t, err)
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("parse is not idempotent (-first +second):\n%s", diff)
			}
		})
	}
}

const listingURL = "https://seattle.craigslist.org/see/cto/d/ballard-honda-civic/7600000001.html"

func TestListingDetail_Full(t *testing.T) {
	t.Parallel()

	d, err := newParser().ListingDetail(fixture(t, "detail_full.html"), listingURL)
	require.NoError(t, err)

	assert.Equal(t, "2012 Honda Civic LX", d.Title)
	assert.Equal(t, listingURL, d.URL)
	assert.Equal(t, "7600000001", d.PostID)
	require.NotNil(t, d.Price)
	assert.InDelta(t, 6500.0, *d.Price, 0.001)
	require.NotNil(t, d.Neighborhood)
	assert.Equal(t, "Ballard", *d.Neighborhood)

	require.NotNil(t, d.Description)
	assert.Equal(t,
		"Well maintained, single owner.\nNew tires in 2023.\n\n"+
			"Call or text (425) 882-8080 or 425.882.8080 after 5pm.\nNo trades.",
		*d.Description,
	)
	assert.NotContains(t, *d.Description, "QR Code")
	assert.Equal(t, []string{"+14258828080"}, d.ContactPhones)

	assert.Equal(t, []domain.Attribute{
		{Key: "year", Value: "2012"},
		{Key: "make/model", Value: "honda civic lx"},
		{Key: "condition", Value: "like new"},
		{Key: "odometer", Value: "98,000"},
		{Key: "paint color", Value: "blue"},
		{Key: "transmission", Value: "automatic"},
		{Key: "clean title", Value: "yes"},
	}, d.Attributes)

	require.NotNil(t, d.Location)
	assert.Equal(t, "NW Market St at 22nd Ave NW", *d.Location)
	require.NotNil(t, d.Latitude)
	require.NotNil(t, d.Longitude)
	assert.InDelta(t, 47.6689, *d.Latitude, 0.0001)
	assert.InDelta(t, -122.3847, *d.Longitude, 0.0001)

	assert.Equal(t, []string{
		"https://images.craigslist.org/00a0a_one_600x450.jpg",
		"https://images.craigslist.org/00b0b_two_600x450.jpg",
		"https://images.craigslist.org/00c0c_three_600x450.jpg",
	}, d.Images)
	require.NotNil(t, d.Thumbnail)
	assert.Equal(t, d.Images[0], *d.Thumbnail)

	assert.Equal(t, "2024-03-15T10:22:00-0700", d.PostedText)
	require.NotNil(t, d.Posted)
	assert.Equal(t, time.Date(2024, 3, 15, 17, 22, 0, 0, time.UTC), d.Posted.UTC())
	require.NotNil(t, d.Updated)
	assert.Equal(t, time.Date(2024, 3, 16, 15, 0, 0, 0, time.UTC), d.Updated.UTC())
}

func TestListingDetail_Minimal(t *testing.T) {
	t.Parallel()

	d, err := newParser().ListingDetail(fixture(t, "detail_minimal.html"), listingURL)
	require.NoError(t, err)

	assert.Equal(t, "Moving boxes", d.Title)
	require.NotNil(t, d.Price)
	assert.InDelta(t, 10.0, *d.Price, 0.001)
	require.NotNil(t, d.Neighborhood)
	assert.Equal(t, "Fremont", *d.Neighborhood)

	assert.Nil(t, d.Description)
	assert.Nil(t, d.Attributes)
	assert.Nil(t, d.Location)
	assert.Nil(t, d.Latitude, "out-of-range latitude is dropped")
	assert.Nil(t, d.Longitude)
	assert.Empty(t, d.Images)
	assert.Nil(t, d.Thumbnail)
	assert.Nil(t, d.Posted)
}

func TestListingDetail_Removed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fixture    string
		wantReason string
	}{
		{fixture: "detail_removed.html", wantReason: "This posting has been deleted by its author."},
		{fixture: "detail_expired.html", wantReason: "this posting has expired"},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			t.Parallel()

			page := fixture(t, tt.fixture)
			_, err := newParser().ListingDetail(page, listingURL)

			var nf *domain.NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, tt.wantReason, nf.Reason)
			assert.Equal(t, listingURL, nf.URL)

			reason, removed := parse.IsRemovedPage(page)
			assert.True(t, removed)
			assert.Equal(t, tt.wantReason, reason)
		})
	}

	_, removed := parse.IsRemovedPage(fixture(t, "detail_full.html"))
	assert.False(t, removed)
}

func TestListingDetail_RemovedClassInsideLivePosting(t *testing.T) {
	t.Parallel()

	page := fixture(t, "detail_struck_price.html")

	d, err := newParser().ListingDetail(page, listingURL)
	require.NoError(t, err)
	assert.Equal(t, "Road bike, price dropped", d.Title)
	require.NotNil(t, d.Price)
	assert.InDelta(t, 650.0, *d.Price, 0.001)
	require.NotNil(t, d.Description)
	assert.Contains(t, *d.Description, "old price $900")

	_, removed := parse.IsRemovedPage(page)
	assert.False(t, removed)
}

func TestListingDetail_PriceOnlyFromTitle(t *testing.T) {
	t.Parallel()

	d, err := newParser().ListingDetail(fixture(t, "detail_free_related.html"), listingURL)
	require.NoError(t, err)

	assert.Equal(t, "Free couch", d.Title)
	assert.Nil(t, d.Price, "related listing prices must not leak into the posting")
	assert.Empty(t, d.PriceText)
	require.NotNil(t, d.Neighborhood)
	assert.Equal(t, "Capitol Hill", *d.Neighborhood)
}

func TestListingDetail_Unrecognized(t *testing.T) {
	t.Parallel()

	_, err := newParser().ListingDetail(fixture(t, "not_results.html"), listingURL)
	assert.True(t, domain.IsParse(err))
}

func TestListingDetail_Idempotent(t *testing.T) {
	t.Parallel()

	p := newParser()
	page := fixture(t, "detail_full.html")

	first, err := p.ListingDetail(page, listingURL)
	require.NoError(t, err)
	second, err := p.ListingDetail(page, listingURL)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("parse is not idempotent (-first +second):\n%s", diff)
	}
}
