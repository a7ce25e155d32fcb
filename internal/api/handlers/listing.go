package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/craigslist-search/internal/craigslist"
	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

// ListingHandler handles single listing lookups.
type ListingHandler struct {
	svc craigslist.Searcher
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(svc craigslist.Searcher) *ListingHandler {
	return &ListingHandler{svc: svc}
}

// GetListingInput is the request for the listing endpoint.
type GetListingInput struct {
	URL string `query:"url" required:"true" minLength:"1" doc:"Absolute listing URL" example:"https://seattle.craigslist.org/see/bik/d/trek-fx3/7712345678.html"`
}

// GetListingOutput is the response for the listing endpoint.
type GetListingOutput struct {
	Body *domain.ListingDetail
}

// GetListing fetches and parses one listing page.
func (h *ListingHandler) GetListing(ctx context.Context, input *GetListingInput) (*GetListingOutput, error) {
	d, err := h.svc.GetListing(ctx, input.URL)
	if err != nil {
		return nil, toHTTPError(err, "query")
	}
	return &GetListingOutput{Body: d}, nil
}

// RegisterListingRoutes registers listing endpoints with the Huma API.
func RegisterListingRoutes(api huma.API, h *ListingHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-listing",
		Method:      http.MethodGet,
		Path:        "/api/v1/listing",
		Summary:     "Get listing",
		Description: "Fetches a listing page and returns its parsed details.",
		Tags:        []string{"listings"},
		Errors: []int{
			http.StatusNotFound,
			http.StatusUnprocessableEntity,
			http.StatusBadGateway,
			http.StatusGatewayTimeout,
		},
	}, h.GetListing)
}
