package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/craigslist-search/internal/craigslist"
	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

// SearchHandler handles listing searches.
type SearchHandler struct {
	svc craigslist.Searcher
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc craigslist.Searcher) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// SearchBody mirrors domain.SearchRequest. Empty fields take the service
// defaults.
type SearchBody struct {
	Query             string `json:"query,omitempty" doc:"Free-text search query" example:"trek road bike"`
	Location          string `json:"location,omitempty" doc:"Location code or name (default newyork)" example:"seattle"`
	Category          string `json:"category,omitempty" doc:"Category code or name (default sss)" example:"bik"`
	MinPrice          *int   `json:"min_price,omitempty" doc:"Minimum price in whole currency units" example:"100"`
	MaxPrice          *int   `json:"max_price,omitempty" doc:"Maximum price in whole currency units" example:"1500"`
	Sort              string `json:"sort,omitempty" doc:"relevance, newest, price_asc or price_desc" example:"newest"`
	HasImage          bool   `json:"has_image,omitempty" doc:"Only listings with pictures"`
	PostedToday       bool   `json:"posted_today,omitempty" doc:"Only listings posted today"`
	IncludeDuplicates bool   `json:"include_duplicates,omitempty" doc:"Keep reposted duplicates"`
	SearchDistance    *int   `json:"search_distance,omitempty" doc:"Radius in miles around postal_code" example:"10"`
	PostalCode        string `json:"postal_code,omitempty" doc:"Postal code for search_distance" example:"98101"`
	MaxResults        int    `json:"max_results,omitempty" doc:"Maximum listings to return (default 25, max 120)" example:"25"`
}

func (b SearchBody) request() domain.SearchRequest {
	return domain.SearchRequest{
		Query:             b.Query,
		Location:          b.Location,
		Category:          b.Category,
		MinPrice:          b.MinPrice,
		MaxPrice:          b.MaxPrice,
		Sort:              domain.SortMode(b.Sort),
		HasImage:          b.HasImage,
		PostedToday:       b.PostedToday,
		IncludeDuplicates: b.IncludeDuplicates,
		SearchDistance:    b.SearchDistance,
		PostalCode:        b.PostalCode,
		MaxResults:        b.MaxResults,
	}
}

// SearchInput is the request for the search endpoint.
type SearchInput struct {
	Body SearchBody
}

// SearchOutput is the response for the search endpoint.
type SearchOutput struct {
	Body *domain.SearchResult
}

// Search runs a search and returns the merged result pages.
func (h *SearchHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	res, err := h.svc.Search(ctx, input.Body.request())
	if err != nil {
		return nil, toHTTPError(err, "body")
	}
	if res.Listings == nil {
		res.Listings = []domain.ListingSummary{}
	}
	return &SearchOutput{Body: res}, nil
}

// RegisterSearchRoutes registers search endpoints with the Huma API.
func RegisterSearchRoutes(api huma.API, h *SearchHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "search-listings",
		Method:      http.MethodPost,
		Path:        "/api/v1/search",
		Summary:     "Search listings",
		Description: "Searches one location and category, following result pages up to max_results.",
		Tags:        []string{"search"},
		Errors: []int{
			http.StatusUnprocessableEntity,
			http.StatusBadGateway,
			http.StatusGatewayTimeout,
		},
	}, h.Search)
}
