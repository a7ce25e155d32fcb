// Package validate checks generated dashboards and rules: every PromQL
// expression must parse and reference only known metrics.
package validate

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/craigslist-search/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation; warnings are
// reported but do not.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

// Dashboard validates every target expression in a built dashboard.
func Dashboard(dash any, known map[string]bool) Result {
	var res Result

	raw, err := json.Marshal(dash)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("marshaling dashboard: %v", err))
		return res
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("decoding dashboard: %v", err))
		return res
	}

	exprs := collectExprs(tree, nil)
	if len(exprs) == 0 {
		res.Warnings = append(res.Warnings, "dashboard has no query targets")
	}
	for _, e := range exprs {
		res.check("dashboard", e, known)
	}
	return res
}

// Rules validates every expression in a PrometheusRule.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result
	for _, g := range cr.Spec.Groups {
		for _, r := range g.Rules {
			res.check(g.Name+"/"+r.Name(), r.Expr, known)
		}
	}
	return res
}

// Metrics returns the sorted metric names selected by expr.
func Metrics(expr string) ([]string, error) {
	e, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	parser.Inspect(e, func(n parser.Node, _ []parser.Node) error {
		if vs, ok := n.(*parser.VectorSelector); ok && vs.Name != "" {
			seen[vs.Name] = true
		}
		return nil
	})

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (r *Result) check(where, expr string, known map[string]bool) {
	names, err := Metrics(expr)
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("%s: parsing %q: %v", where, expr, err))
		return
	}
	if len(names) == 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%s: %q selects no metrics", where, expr))
	}
	for _, n := range names {
		if !known[n] {
			r.Errors = append(r.Errors, fmt.Sprintf("%s: unknown metric %q", where, n))
		}
	}
}

// collectExprs walks decoded JSON and returns every "expr" string value.
func collectExprs(v any, out []string) []string {
	switch t := v.(type) {
	case map[string]any:
		if s, ok := t["expr"].(string); ok && s != "" {
			out = append(out, s)
		}
		for _, child := range t {
			out = collectExprs(child, out)
		}
	case []any:
		for _, child := range t {
			out = collectExprs(child, out)
		}
	}
	return out
}
