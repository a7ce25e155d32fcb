// Package domain defines the core business types for craigslist-search.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Defaults applied to a SearchRequest when the caller leaves a field empty.
const (
	DefaultLocation   = "newyork"
	DefaultCategory   = "sss"
	DefaultMaxResults = 25
	MaxResultsLimit   = 120
)

// SortMode is the requested result ordering.
type SortMode string

// Sort mode constants. The zero value means "let the site decide".
const (
	SortUnset     SortMode = ""
	SortRelevance SortMode = "relevance"
	SortNewest    SortMode = "newest"
	SortPriceAsc  SortMode = "price_asc"
	SortPriceDesc SortMode = "price_desc"
)

// ParseSortMode accepts friendly names and the site's own sort tokens.
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return SortUnset, nil
	case "relevance", "relevant":
		return SortRelevance, nil
	case "newest", "date":
		return SortNewest, nil
	case "price_asc", "priceasc":
		return SortPriceAsc, nil
	case "price_desc", "pricedsc":
		return SortPriceDesc, nil
	default:
		return SortUnset, &ValidationError{
			Field:  "sort",
			Reason: fmt.Sprintf("unknown sort mode %q (want relevance, newest, price_asc or price_desc)", s),
		}
	}
}

// SearchRequest is a logical search against one location and category.
type SearchRequest struct {
	Query             string   `json:"query"`
	Location          string   `json:"location,omitempty"`
	Category          string   `json:"category,omitempty"`
	MinPrice          *int     `json:"min_price,omitempty"`
	MaxPrice          *int     `json:"max_price,omitempty"`
	Sort              SortMode `json:"sort,omitempty"`
	HasImage          bool     `json:"has_image,omitempty"`
	PostedToday       bool     `json:"posted_today,omitempty"`
	IncludeDuplicates bool     `json:"include_duplicates,omitempty"`
	SearchDistance    *int     `json:"search_distance,omitempty"`
	PostalCode        string   `json:"postal_code,omitempty"`
	MaxResults        int      `json:"max_results,omitempty"`
}

// ListingSummary is one row of a search-results page. URL is the unique key.
type ListingSummary struct {
	Title        string     `json:"title"`
	URL          string     `json:"url"`
	PostID       string     `json:"post_id,omitempty"`
	Price        *float64   `json:"price"`
	PriceText    string     `json:"price_text,omitempty"`
	Neighborhood *string    `json:"neighborhood"`
	Posted       *time.Time `json:"posted"`
	PostedText   string     `json:"posted_text,omitempty"`
	Thumbnail    *string    `json:"thumbnail"`
}

// Attribute is a single key/value pair from a listing's attribute block.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ListingDetail is the full record parsed from a single listing page.
type ListingDetail struct {
	ListingSummary

	Description   *string     `json:"description"`
	Attributes    []Attribute `json:"attributes"`
	Location      *string     `json:"location"`
	Latitude      *float64    `json:"latitude"`
	Longitude     *float64    `json:"longitude"`
	Images        []string    `json:"images"`
	ContactPhones []string    `json:"contact_phones,omitempty"`
	Updated       *time.Time  `json:"updated,omitempty"`
}

// Attribute returns the value stored under key and whether it was present.
func (d *ListingDetail) Attribute(key string) (string, bool) {
	for _, a := range d.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// LocationEntry is a row of the closed location table.
type LocationEntry struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country"`
}

// CategoryEntry is a row of the closed category table.
type CategoryEntry struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Section string `json:"section,omitempty"`
}

// SearchResult is the envelope returned by a search.
type SearchResult struct {
	Query    string           `json:"query"`
	Location LocationEntry    `json:"location"`
	Category CategoryEntry    `json:"category"`
	URL      string           `json:"url"`
	Pages    int              `json:"pages"`
	Count    int              `json:"count"`
	Listings []ListingSummary `json:"listings"`
}
