package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/craigslist-search/internal/craigslist"
	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

// ReferenceHandler serves the location and category tables.
type ReferenceHandler struct {
	svc craigslist.Searcher
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(svc craigslist.Searcher) *ReferenceHandler {
	return &ReferenceHandler{svc: svc}
}

// ListReferenceInput filters a reference table.
type ListReferenceInput struct {
	Filter string `query:"filter" doc:"Case-insensitive substring of code or name" example:"wa"`
}

// ListLocationsOutput is the response for the locations endpoint.
type ListLocationsOutput struct {
	Body struct {
		Total     int                    `json:"total" doc:"Number of matching locations"`
		Locations []domain.LocationEntry `json:"locations"`
	}
}

// ListCategoriesOutput is the response for the categories endpoint.
type ListCategoriesOutput struct {
	Body struct {
		Total      int                    `json:"total" doc:"Number of matching categories"`
		Categories []domain.CategoryEntry `json:"categories"`
	}
}

// ListLocations returns the locations matching the filter.
func (h *ReferenceHandler) ListLocations(
	_ context.Context,
	input *ListReferenceInput,
) (*ListLocationsOutput, error) {
	locs := h.svc.ListLocations(input.Filter)
	if locs == nil {
		locs = []domain.LocationEntry{}
	}

	out := &ListLocationsOutput{}
	out.Body.Total = len(locs)
	out.Body.Locations = locs
	return out, nil
}

// ListCategories returns the categories matching the filter.
func (h *ReferenceHandler) ListCategories(
	_ context.Context,
	input *ListReferenceInput,
) (*ListCategoriesOutput, error) {
	cats := h.svc.ListCategories(input.Filter)
	if cats == nil {
		cats = []domain.CategoryEntry{}
	}

	out := &ListCategoriesOutput{}
	out.Body.Total = len(cats)
	out.Body.Categories = cats
	return out, nil
}

// RegisterReferenceRoutes registers the reference table endpoints with the
// Huma API.
func RegisterReferenceRoutes(api huma.API, h *ReferenceHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-locations",
		Method:      http.MethodGet,
		Path:        "/api/v1/locations",
		Summary:     "List locations",
		Description: "Returns the supported locations, optionally filtered.",
		Tags:        []string{"reference"},
	}, h.ListLocations)

	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns the supported categories, optionally filtered.",
		Tags:        []string{"reference"},
	}, h.ListCategories)
}
