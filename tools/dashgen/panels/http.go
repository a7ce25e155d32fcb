package panels

import "github.com/grafana/grafana-foundation-sdk/go/timeseries"

// RequestRate returns a timeseries panel showing the HTTP request rate by
// route.
func RequestRate() *timeseries.PanelBuilder {
	return lineChart("Request Rate", "HTTP requests per second by route").
		WithTarget(PromQuery(`cls:http_requests_by_path:rate5m`, "{{path}}", "A")).
		Unit("reqps").
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}

// LatencyPercentiles returns a timeseries panel showing p50, p95, and p99
// HTTP request latencies. Searches that follow several pages dominate the
// upper percentiles.
func LatencyPercentiles() *timeseries.PanelBuilder {
	return lineChart("Latency Percentiles", "HTTP request duration percentiles").
		WithTarget(PromQuery(
			Quantile(0.50, "cls_http_request_duration_seconds", "5m"),
			"p50",
			"A",
		)).
		WithTarget(PromQuery(
			Quantile(0.95, "cls_http_request_duration_seconds", "5m"),
			"p95",
			"B",
		)).
		WithTarget(PromQuery(
			Quantile(0.99, "cls_http_request_duration_seconds", "5m"),
			"p99",
			"C",
		)).
		Unit("s").
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}

// ErrorRate returns a timeseries panel showing the HTTP 5xx error rate
// as a percentage.
func ErrorRate() *timeseries.PanelBuilder {
	return lineChart("Error Rate %", "HTTP 5xx error rate as percentage of total requests").
		WithTarget(PromQuery(
			`cls:http_errors:rate5m / cls:http_requests:rate5m * 100`,
			"error %", "A",
		)).
		Unit("percent").
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds())
}
