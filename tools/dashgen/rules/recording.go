package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return newPrometheusRule("cls-recording-rules", RuleGroup{
		Name: "cls-recording",
		Rules: []Rule{
			{
				Record: "cls:http_requests:rate5m",
				Expr:   `sum(rate(cls_http_requests_total[5m]))`,
			},
			{
				Record: "cls:http_requests_by_path:rate5m",
				Expr:   `sum by (path) (rate(cls_http_requests_total[5m]))`,
			},
			{
				Record: "cls:http_errors:rate5m",
				Expr:   `sum(rate(cls_http_requests_total{status=~"5.."}[5m]))`,
			},
			{
				Record: "cls:searches:rate5m",
				Expr:   `sum by (outcome) (rate(cls_searches_total[5m]))`,
			},
			{
				Record: "cls:fetch_requests:rate5m",
				Expr:   `sum by (backend, outcome) (rate(cls_fetch_requests_total[5m]))`,
			},
			{
				Record: "cls:listing_lookups:rate5m",
				Expr:   `sum by (outcome) (rate(cls_listing_lookups_total[5m]))`,
			},
			{
				Record: "cls:parse_failures:rate5m",
				Expr:   `sum by (kind) (rate(cls_parse_failures_total[5m]))`,
			},
		},
	})
}
