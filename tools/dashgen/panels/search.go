package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// SearchRate returns a timeseries panel showing searches per second by
// outcome.
func SearchRate() *timeseries.PanelBuilder {
	return lineChart("Search Rate", "Searches per second by outcome").
		WithTarget(PromQuery(`cls:searches:rate5m`, "{{outcome}}", "A")).
		Unit("reqps").
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}

// ResultsPerSearch returns a timeseries panel showing the median and p95
// number of listings returned per search.
func ResultsPerSearch() *timeseries.PanelBuilder {
	return lineChart("Results per Search", "Listings returned per successful search").
		WithTarget(PromQuery(
			Quantile(0.50, "cls_search_results", "15m"),
			"p50",
			"A",
		)).
		WithTarget(PromQuery(
			Quantile(0.95, "cls_search_results", "15m"),
			"p95",
			"B",
		)).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}

// PagesPerSearch returns a stat panel showing the average number of result
// pages a search follows.
func PagesPerSearch() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Pages per Search").
		Description("Average result pages fetched per search (1h)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(
			`sum(increase(cls_search_pages_fetched_sum[1h])) / sum(increase(cls_search_pages_fetched_count[1h]))`,
			"", "A",
		)).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}
