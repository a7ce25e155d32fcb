package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// LookupRate returns a timeseries panel showing listing lookups per second
// by outcome.
func LookupRate() *timeseries.PanelBuilder {
	return lineChart("Listing Lookups", "Listing detail lookups per second by outcome").
		WithTarget(PromQuery(`cls:listing_lookups:rate5m`, "{{outcome}}", "A")).
		Unit("reqps").
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}

// RemovedListings returns a stat panel showing listings found removed or
// expired in the past 24 hours.
func RemovedListings() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Removed Listings (24h)").
		Description("Lookups that found a deleted, flagged or expired posting").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(ThirdWidth).
		WithTarget(PromQuery(`increase(cls_listings_removed_total{job="`+Job+`"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}

// ParseFailures returns a timeseries panel showing unrecognized pages by
// kind. A sustained rate usually means the site markup changed.
func ParseFailures() *timeseries.PanelBuilder {
	return lineChart("Parse Failures", "Pages whose structure was not recognized, by page kind").
		WithTarget(PromQuery(`cls:parse_failures:rate5m`, "{{kind}}", "A")).
		Unit("reqps").
		Thresholds(ThresholdsGreenYellowRed(0.01, 0.1)).
		ColorScheme(ColorSchemeThresholds())
}
