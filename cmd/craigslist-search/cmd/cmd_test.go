package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/craigslist-search/internal/config"
	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	return &cfg
}

func TestNewService_FromDefaults(t *testing.T) {
	t.Parallel()

	svc, err := newService(testConfig(t), quietLogger())
	require.NoError(t, err)
	assert.True(t, svc.Ready())

	eng := localEngine{svc}
	locs, err := eng.ListLocations(context.Background(), "seattle")
	require.NoError(t, err)
	require.NotEmpty(t, locs)
	assert.Equal(t, "seattle", locs[0].Code)

	cats, err := eng.ListCategories(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, cats)
}

func TestNewService_UnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Craigslist.Backend = "curl"

	_, err := newService(cfg, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating fetcher")
}

func TestNewService_UnknownDefaultLocation(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Craigslist.DefaultLocation = "atlantis"

	_, err := newService(cfg, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading locations")
}

func TestNewServer_Routes(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	svc, err := newService(cfg, quietLogger())
	require.NoError(t, err)

	e := newServer(cfg, svc, quietLogger())

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "liveness",
			method:     http.MethodGet,
			target:     "/healthz",
			wantStatus: http.StatusOK,
			wantBody:   `"status":"ok"`,
		},
		{
			name:       "readiness",
			method:     http.MethodGet,
			target:     "/readyz",
			wantStatus: http.StatusOK,
			wantBody:   `"status":"ready"`,
		},
		{
			name:       "locations",
			method:     http.MethodGet,
			target:     "/api/v1/locations?filter=seattle",
			wantStatus: http.StatusOK,
			wantBody:   `"code":"seattle"`,
		},
		{
			name:       "categories",
			method:     http.MethodGet,
			target:     "/api/v1/categories?filter=bik",
			wantStatus: http.StatusOK,
			wantBody:   `"code":"bik"`,
		},
		{
			name:       "search validation fails before any fetch",
			method:     http.MethodPost,
			target:     "/api/v1/search",
			body:       `{"location":"atlantis"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `body.location`,
		},
		{
			name:       "listing on a foreign host",
			method:     http.MethodGet,
			target:     "/api/v1/listing?url=https://example.com/item/1.html",
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `query.url`,
		},
		{
			name:       "openapi document",
			method:     http.MethodGet,
			target:     "/openapi.json",
			wantStatus: http.StatusOK,
			wantBody:   `search-listings`,
		},
		{
			name:       "metrics",
			method:     http.MethodGet,
			target:     "/metrics",
			wantStatus: http.StatusOK,
			wantBody:   `cls_`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader = http.NoBody
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.target, body)
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

// Not parallel: Execute runs the global cobra initializers.
func TestSearchFlags_Request(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want domain.SearchRequest
	}{
		{
			name: "no flags",
			args: nil,
			want: domain.SearchRequest{Query: "trek bike"},
		},
		{
			name: "zero price is kept when set",
			args: []string{"--min-price", "0", "--max-price", "500", "-l", "seattle", "-c", "bik"},
			want: domain.SearchRequest{
				Query:    "trek bike",
				Location: "seattle",
				Category: "bik",
				MinPrice: ptr(0),
				MaxPrice: ptr(500),
			},
		},
		{
			name: "distance and toggles",
			args: []string{
				"--distance", "5", "--postal", "98101", "--has-image", "--posted-today",
				"--include-duplicates", "--sort", "newest", "-n", "10",
			},
			want: domain.SearchRequest{
				Query:             "trek bike",
				Sort:              domain.SortNewest,
				HasImage:          true,
				PostedToday:       true,
				IncludeDuplicates: true,
				SearchDistance:    ptr(5),
				PostalCode:        "98101",
				MaxResults:        10,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.SearchRequest
			cmd := newSearchCmd(func(_ *cobra.Command, req domain.SearchRequest) error {
				got = req
				return nil
			})
			cmd.SetOut(io.Discard)
			cmd.SetArgs(append([]string{"trek", "bike"}, tt.args...))
			require.NoError(t, cmd.Execute())

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{&domain.ValidationError{Field: "location", Reason: "unknown"}, 2},
		{fmt.Errorf("wrapped: %w", &domain.NotFoundError{URL: "u", Reason: "deleted"}), 3},
		{&domain.UpstreamError{URL: "u", StatusCode: 503}, 4},
		{&domain.ParseError{Reason: "no results"}, 4},
		{errors.New("boom"), 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.err), "%v", tt.err)
	}
}

func TestPrintSearchResult(t *testing.T) {
	t.Parallel()

	posted := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	res := &domain.SearchResult{
		Location: domain.LocationEntry{Code: "seattle", Name: "Seattle"},
		Category: domain.CategoryEntry{Code: "bik", Name: "bicycles"},
		Pages:    1,
		Count:    2,
		Listings: []domain.ListingSummary{
			{
				Title:        "Trek FX3 hybrid",
				URL:          "https://seattle.craigslist.org/see/bik/d/trek/1.html",
				Price:        ptr(650.0),
				Neighborhood: ptr("Ballard"),
				Posted:       &posted,
			},
			{
				Title:      "Free kids bike",
				URL:        "https://seattle.craigslist.org/see/bik/d/kids/2.html",
				PostedText: "3h ago",
			},
		},
	}

	var buf bytes.Buffer
	printSearchResult(&buf, res)
	out := buf.String()

	assert.Contains(t, out, "Seattle / bicycles: 2 listings (1 pages)")
	assert.Contains(t, out, "Trek FX3 hybrid")
	assert.Contains(t, out, "$650")
	assert.Contains(t, out, "Ballard")
	assert.Contains(t, out, "2026-03-01 09:30")
	assert.Contains(t, out, "3h ago")
}

func TestPrintListingDetail(t *testing.T) {
	t.Parallel()

	d := &domain.ListingDetail{
		ListingSummary: domain.ListingSummary{
			Title:  "Trek FX3",
			URL:    "https://seattle.craigslist.org/see/bik/d/trek/1.html",
			PostID: "1",
		},
		Description:   ptr("Lightly used."),
		Attributes:    []domain.Attribute{{Key: "condition", Value: "like new"}},
		Latitude:      ptr(47.6),
		Longitude:     ptr(-122.3),
		ContactPhones: []string{"+12066844000"},
	}

	var buf bytes.Buffer
	printListingDetail(&buf, d)
	out := buf.String()

	assert.Contains(t, out, "Trek FX3")
	assert.Contains(t, out, "like new")
	assert.Contains(t, out, "47.60000, -122.30000")
	assert.Contains(t, out, "+12066844000")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "Lightly used."))
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, []domain.CategoryEntry{{Code: "bik", Name: "bicycles"}}))

	var got []domain.CategoryEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "bik", got[0].Code)
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééééééé...", truncate(strings.Repeat("é", 20), 10))
}

func ptr[T any](v T) *T { return &v }
