// Package reference holds the closed location and category tables and
// resolves user-supplied tokens against them.
package reference

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/titanous/json5"

	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

//go:embed data/locations.json5
var locationsFile []byte

//go:embed data/categories.json5
var categoriesFile []byte

// Locations is the read-only location table.
type Locations struct {
	entries []domain.LocationEntry
	sorted  []domain.LocationEntry
	idx     *index
	def     domain.LocationEntry
}

// Categories is the read-only category table.
type Categories struct {
	entries []domain.CategoryEntry
	idx     *index
	def     domain.CategoryEntry
}

// LoadLocations parses the embedded location table. An empty defaultCode
// selects domain.DefaultLocation.
func LoadLocations(defaultCode string) (*Locations, error) {
	var entries []domain.LocationEntry
	if err := json5.Unmarshal(locationsFile, &entries); err != nil {
		return nil, fmt.Errorf("decoding location table: %w", err)
	}
	return NewLocations(entries, defaultCode)
}

// NewLocations builds a table from entries. The default code must be present.
func NewLocations(entries []domain.LocationEntry, defaultCode string) (*Locations, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("location table is empty")
	}
	if defaultCode == "" {
		defaultCode = domain.DefaultLocation
	}

	codes := make([]string, len(entries))
	names := make([]string, len(entries))
	for i, e := range entries {
		codes[i] = strings.ToLower(e.Code)
		names[i] = e.Name
	}

	l := &Locations{
		entries: entries,
		idx:     newIndex(codes, names),
	}

	i, ok := l.idx.byCode[strings.ToLower(defaultCode)]
	if !ok {
		return nil, fmt.Errorf("default location %q is not in the table", defaultCode)
	}
	l.def = entries[i]

	l.sorted = make([]domain.LocationEntry, len(entries))
	copy(l.sorted, entries)
	sort.SliceStable(l.sorted, func(a, b int) bool {
		return strings.ToLower(l.sorted[a].Name) < strings.ToLower(l.sorted[b].Name)
	})

	return l, nil
}

// Default returns the entry an empty token resolves to.
func (l *Locations) Default() domain.LocationEntry {
	return l.def
}

// Len returns the number of entries.
func (l *Locations) Len() int {
	return len(l.entries)
}

// Resolve maps a token to a location. Unknown tokens fail with a
// *domain.ValidationError carrying suggestions.
func (l *Locations) Resolve(token string) (domain.LocationEntry, error) {
	if strings.TrimSpace(token) == "" {
		return l.def, nil
	}
	if i, ok := l.idx.lookup(token); ok {
		return l.entries[i], nil
	}
	return domain.LocationEntry{}, &domain.ValidationError{
		Field:       "location",
		Reason:      fmt.Sprintf("unknown location %q", token),
		Suggestions: l.idx.suggest(token),
	}
}

// List returns entries whose code or name contains filter, sorted by name.
func (l *Locations) List(filter string) []domain.LocationEntry {
	out := make([]domain.LocationEntry, 0, len(l.sorted))
	for _, e := range l.sorted {
		if matchesFilter(filter, e.Code, e.Name) {
			out = append(out, e)
		}
	}
	return out
}

// LoadCategories parses the embedded category table. An empty defaultCode
// selects domain.DefaultCategory.
func LoadCategories(defaultCode string) (*Categories, error) {
	var entries []domain.CategoryEntry
	if err := json5.Unmarshal(categoriesFile, &entries); err != nil {
		return nil, fmt.Errorf("decoding category table: %w", err)
	}
	return NewCategories(entries, defaultCode)
}

// NewCategories builds a table from entries, keeping their order.
func NewCategories(entries []domain.CategoryEntry, defaultCode string) (*Categories, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("category table is empty")
	}
	if defaultCode == "" {
		defaultCode = domain.DefaultCategory
	}

	codes := make([]string, len(entries))
	names := make([]string, len(entries))
	for i, e := range entries {
		codes[i] = strings.ToLower(e.Code)
		names[i] = e.Name
	}

	c := &Categories{
		entries: entries,
		idx:     newIndex(codes, names),
	}

	i, ok := c.idx.byCode[strings.ToLower(defaultCode)]
	if !ok {
		return nil, fmt.Errorf("default category %q is not in the table", defaultCode)
	}
	c.def = entries[i]

	return c, nil
}

// Default returns the entry an empty token resolves to.
func (c *Categories) Default() domain.CategoryEntry {
	return c.def
}

// Len returns the number of entries.
func (c *Categories) Len() int {
	return len(c.entries)
}

// Resolve maps a token to a category.
func (c *Categories) Resolve(token string) (domain.CategoryEntry, error) {
	if strings.TrimSpace(token) == "" {
		return c.def, nil
	}
	if i, ok := c.idx.lookup(token); ok {
		return c.entries[i], nil
	}
	return domain.CategoryEntry{}, &domain.ValidationError{
		Field:       "category",
		Reason:      fmt.Sprintf("unknown category %q", token),
		Suggestions: c.idx.suggest(token),
	}
}

// List returns entries whose code or name contains filter, in table order.
func (c *Categories) List(filter string) []domain.CategoryEntry {
	out := make([]domain.CategoryEntry, 0, len(c.entries))
	for _, e := range c.entries {
		if matchesFilter(filter, e.Code, e.Name) {
			out = append(out, e)
		}
	}
	return out
}
