package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// craigslist-search operational monitoring.
func AlertRules() PrometheusRule {
	return newPrometheusRule("cls-alerts", RuleGroup{
		Name: "cls-alerts",
		Rules: []Rule{
			{
				Alert: "ClsDown",
				Expr:  `absent(up{job="craigslist-search"})`,
				For:   "2m",
				Labels: map[string]string{
					"severity": "critical",
				},
				Annotations: map[string]string{
					"summary":     "craigslist-search is down",
					"description": "The craigslist-search job has been absent for more than 2 minutes.",
				},
			},
			{
				Alert: "ClsReadinessDown",
				Expr:  `cls_readyz_up == 0`,
				For:   "2m",
				Labels: map[string]string{
					"severity": "critical",
				},
				Annotations: map[string]string{
					"summary":     "craigslist-search readiness check is failing",
					"description": "The readiness check has been reporting not-ready for more than 2 minutes.",
				},
			},
			{
				Alert: "ClsHighErrorRate",
				Expr:  `cls:http_errors:rate5m / cls:http_requests:rate5m > 0.05`,
				For:   "5m",
				Labels: map[string]string{
					"severity": "warning",
				},
				Annotations: map[string]string{
					"summary":     "High HTTP error rate on craigslist-search",
					"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
				},
			},
			{
				Alert: "ClsUpstreamFailures",
				Expr: `sum(cls:fetch_requests:rate5m{outcome!~"ok|paced|canceled"})` +
					` / sum(cls:fetch_requests:rate5m) > 0.2`,
				For: "10m",
				Labels: map[string]string{
					"severity": "warning",
				},
				Annotations: map[string]string{
					"summary":     "Upstream page fetches are failing",
					"description": "More than 20% of page fetches have failed for 10 minutes; the site may be blocking or throttling requests.",
				},
			},
			{
				Alert: "ClsParseFailures",
				Expr:  `sum(cls:parse_failures:rate5m) > 0.05`,
				For:   "15m",
				Labels: map[string]string{
					"severity": "warning",
				},
				Annotations: map[string]string{
					"summary":     "Pages are not being recognized",
					"description": "Search or listing pages have failed to parse for 15 minutes; the site markup may have changed.",
				},
			},
			{
				Alert: "ClsPacerRejections",
				Expr:  `increase(cls_fetch_requests_total{outcome="paced"}[5m]) > 0`,
				For:   "5m",
				Labels: map[string]string{
					"severity": "warning",
				},
				Annotations: map[string]string{
					"summary":     "Fetches are being refused by the pacer",
					"description": "Page fetches have been refused for 5 minutes, usually because the hourly request budget is used up.",
				},
			},
		},
	})
}
