// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/craigslist-search/tools/dashgen/panels"
)

// UID is the stable dashboard identifier.
const UID = "cls-overview"

// BuildOverview constructs the craigslist-search overview dashboard with all
// metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Craigslist Search Overview").
		Uid(UID).
		Tags([]string{"cls", "craigslist-search"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.SearchSuccessGauge()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	b.WithRow(dashboard.NewRowBuilder("Searches").
		WithPanel(panels.SearchRate()).
		WithPanel(panels.ResultsPerSearch()).
		WithPanel(panels.PagesPerSearch()))

	b.WithRow(dashboard.NewRowBuilder("Upstream").
		WithPanel(panels.FetchRate()).
		WithPanel(panels.FetchLatency()).
		WithPanel(panels.PacerWait()))

	b.WithRow(dashboard.NewRowBuilder("Listings").
		WithPanel(panels.LookupRate()).
		WithPanel(panels.RemovedListings()).
		WithPanel(panels.ParseFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
