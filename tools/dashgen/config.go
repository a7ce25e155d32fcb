package main

import "errors"

// KnownMetrics is the set of metric names exported by craigslist-search
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"cls_http_request_duration_seconds_bucket": true,
	"cls_http_requests_total":                  true,

	// Health metrics.
	"cls_healthz_up": true,
	"cls_readyz_up":  true,

	// Fetch metrics.
	"cls_fetch_requests_total":            true,
	"cls_fetch_duration_seconds_bucket":   true,
	"cls_fetch_pacer_wait_seconds_bucket": true,

	// Search and listing metrics.
	"cls_searches_total":             true,
	"cls_search_results_bucket":      true,
	"cls_search_pages_fetched_sum":   true,
	"cls_search_pages_fetched_count": true,
	"cls_listing_lookups_total":      true,
	"cls_listings_removed_total":     true,
	"cls_parse_failures_total":       true,

	// Recording rules.
	"cls:http_requests:rate5m":         true,
	"cls:http_requests_by_path:rate5m": true,
	"cls:http_errors:rate5m":           true,
	"cls:searches:rate5m":              true,
	"cls:fetch_requests:rate5m":        true,
	"cls:listing_lookups:rate5m":       true,
	"cls:parse_failures:rate5m":        true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
