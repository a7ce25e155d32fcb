package client

import (
	"context"

	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

// Search runs a search on the server.
func (c *Client) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	var res domain.SearchResult
	if err := c.post(ctx, "/api/v1/search", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetListing fetches one listing through the server.
func (c *Client) GetListing(ctx context.Context, rawURL string) (*domain.ListingDetail, error) {
	var d domain.ListingDetail
	if err := c.get(ctx, "/api/v1/listing", map[string]string{"url": rawURL}, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// LocationsResponse is the body of the locations endpoint.
type LocationsResponse struct {
	Total     int                    `json:"total"`
	Locations []domain.LocationEntry `json:"locations"`
}

// CategoriesResponse is the body of the categories endpoint.
type CategoriesResponse struct {
	Total      int                    `json:"total"`
	Categories []domain.CategoryEntry `json:"categories"`
}

// ListLocations returns the server's locations matching filter.
func (c *Client) ListLocations(ctx context.Context, filter string) ([]domain.LocationEntry, error) {
	var resp LocationsResponse
	if err := c.get(ctx, "/api/v1/locations", filterParam(filter), &resp); err != nil {
		return nil, err
	}
	return resp.Locations, nil
}

// ListCategories returns the server's categories matching filter.
func (c *Client) ListCategories(ctx context.Context, filter string) ([]domain.CategoryEntry, error) {
	var resp CategoriesResponse
	if err := c.get(ctx, "/api/v1/categories", filterParam(filter), &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

func filterParam(filter string) map[string]string {
	if filter == "" {
		return nil
	}
	return map[string]string{"filter": filter}
}
