package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func printSearchResult(w io.Writer, res *domain.SearchResult) {
	t := newTable(w)
	t.SetTitle(fmt.Sprintf("%s / %s: %d listings (%d pages)",
		res.Location.Name, res.Category.Name, res.Count, res.Pages))
	t.AppendHeader(table.Row{"#", "Title", "Price", "Where", "Posted", "URL"})
	for i := range res.Listings {
		l := &res.Listings[i]
		t.AppendRow(table.Row{
			i + 1,
			truncate(l.Title, 50),
			priceText(l.Price),
			deref(l.Neighborhood),
			postedText(l),
			l.URL,
		})
	}
	t.Render()
}

func printListingDetail(w io.Writer, d *domain.ListingDetail) {
	t := newTable(w)
	t.SetTitle(d.Title)
	t.AppendRow(table.Row{"URL", d.URL})
	t.AppendRow(table.Row{"Post ID", d.PostID})
	t.AppendRow(table.Row{"Price", priceText(d.Price)})
	t.AppendRow(table.Row{"Posted", postedText(&d.ListingSummary)})
	if d.Updated != nil {
		t.AppendRow(table.Row{"Updated", d.Updated.Format("2006-01-02 15:04")})
	}
	t.AppendRow(table.Row{"Location", deref(d.Location)})
	if d.Latitude != nil && d.Longitude != nil {
		t.AppendRow(table.Row{"Coordinates", fmt.Sprintf("%.5f, %.5f", *d.Latitude, *d.Longitude)})
	}
	for _, a := range d.Attributes {
		t.AppendRow(table.Row{a.Key, a.Value})
	}
	if len(d.ContactPhones) > 0 {
		t.AppendRow(table.Row{"Phones", strings.Join(d.ContactPhones, ", ")})
	}
	t.AppendRow(table.Row{"Images", strconv.Itoa(len(d.Images))})
	t.Render()

	if d.Description != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, *d.Description)
	}
}

func printLocations(w io.Writer, locs []domain.LocationEntry) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Code", "Name", "Region", "Country"})
	for _, l := range locs {
		t.AppendRow(table.Row{l.Code, l.Name, l.Region, l.Country})
	}
	t.AppendFooter(table.Row{"", "", "Total", len(locs)})
	t.Render()
}

func printCategories(w io.Writer, cats []domain.CategoryEntry) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Code", "Name", "Section"})
	for _, c := range cats {
		t.AppendRow(table.Row{c.Code, c.Name, c.Section})
	}
	t.AppendFooter(table.Row{"", "Total", len(cats)})
	t.Render()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func priceText(p *float64) string {
	if p == nil {
		return "-"
	}
	return "$" + strconv.FormatFloat(*p, 'f', -1, 64)
}

func postedText(l *domain.ListingSummary) string {
	if l.Posted != nil {
		return l.Posted.Format("2006-01-02 15:04")
	}
	if l.PostedText != "" {
		return l.PostedText
	}
	return "-"
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
