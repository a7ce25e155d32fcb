package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports a malformed or contradictory request. It is always
// returned before any network activity.
type ValidationError struct {
	Field       string   `json:"field"`
	Reason      string   `json:"reason"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if len(e.Suggestions) > 0 {
		msg += " (did you mean: " + strings.Join(e.Suggestions, ", ") + "?)"
	}
	return msg
}

// UpstreamError reports a failed page fetch: connection failure, timeout or
// a non-success status.
type UpstreamError struct {
	URL        string
	StatusCode int
	Err        error

	// Body holds the response body of a non-success reply, if any.
	Body string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ParseError reports a page whose structure was not recognized.
type ParseError struct {
	URL    string
	Reason string
}

func (e *ParseError) Error() string {
	if e.URL == "" {
		return "parsing page: " + e.Reason
	}
	return fmt.Sprintf("parsing %s: %s", e.URL, e.Reason)
}

// NotFoundError reports a listing page that the site marks as removed or
// expired.
type NotFoundError struct {
	URL    string
	Reason string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("listing %s not found: %s", e.URL, e.Reason)
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsUpstream reports whether err is or wraps an *UpstreamError.
func IsUpstream(err error) bool {
	var target *UpstreamError
	return errors.As(err, &target)
}

// IsParse reports whether err is or wraps a *ParseError.
func IsParse(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
