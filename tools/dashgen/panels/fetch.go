package panels

import "github.com/grafana/grafana-foundation-sdk/go/timeseries"

// FetchRate returns a timeseries panel showing page fetches per second by
// backend and outcome.
func FetchRate() *timeseries.PanelBuilder {
	return lineChart("Fetch Rate", "Upstream page fetches per second by backend and outcome").
		WithTarget(PromQuery(`cls:fetch_requests:rate5m`, "{{backend}} {{outcome}}", "A")).
		Unit("reqps").
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}

// FetchLatency returns a timeseries panel showing p95 fetch duration per
// backend.
func FetchLatency() *timeseries.PanelBuilder {
	return lineChart("Fetch Latency p95", "95th percentile page fetch duration by backend").
		WithTarget(PromQuery(
			Quantile(0.95, "cls_fetch_duration_seconds", "5m", "backend"),
			"{{backend}}",
			"A",
		)).
		Unit("s").
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}

// PacerWait returns a timeseries panel showing how long fetches queue on the
// rate limiter.
func PacerWait() *timeseries.PanelBuilder {
	return lineChart("Pacer Wait p95", "95th percentile time spent waiting for the request pacer").
		WithTarget(PromQuery(
			Quantile(0.95, "cls_fetch_pacer_wait_seconds", "5m"),
			"p95",
			"A",
		)).
		Unit("s").
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds())
}
