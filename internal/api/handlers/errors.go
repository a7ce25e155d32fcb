package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/craigslist-search/pkg/types"
)

// toHTTPError maps a service error onto a huma status error. location is the
// request part validation failures point into, e.g. "body" or "query".
func toHTTPError(err error, location string) error {
	var (
		verr *domain.ValidationError
		nerr *domain.NotFoundError
		uerr *domain.UpstreamError
		perr *domain.ParseError
	)

	switch {
	case errors.As(err, &verr):
		return huma.Error422UnprocessableEntity(verr.Error(), &huma.ErrorDetail{
			Message:  verr.Reason,
			Location: location + "." + verr.Field,
			Value:    verr.Suggestions,
		})
	case errors.As(err, &nerr):
		return huma.Error404NotFound(nerr.Error())
	case errors.As(err, &uerr):
		if errors.Is(err, context.DeadlineExceeded) {
			return huma.Error504GatewayTimeout(uerr.Error())
		}
		return huma.Error502BadGateway(uerr.Error())
	case errors.As(err, &perr):
		return huma.Error502BadGateway(perr.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return huma.Error504GatewayTimeout("request timed out")
	default:
		return huma.Error500InternalServerError("internal error", err)
	}
}
