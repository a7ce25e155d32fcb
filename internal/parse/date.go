package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// absoluteLayouts are tried in order for full timestamps.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// yearlessLayouts lack a year; the most recent past occurrence is used.
var yearlessLayouts = []string{
	"Jan 2",
	"Jan 2 15:04",
	"1/2",
	"1/2 15:04",
}

var relativeAgo = regexp.MustCompile(`^(\d+)\s*([a-z]+)\s+ago$`)

var relativeUnits = map[string]time.Duration{
	"s": time.Second, "sec": time.Second, "secs": time.Second,
	"second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute,
	"minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour,
	"hour": time.Hour, "hours": time.Hour,
	"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
}

// parseDate interprets a posting-date label relative to now. Unrecognized
// labels give nil.
func parseDate(raw string, now time.Time) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return &t
		}
	}

	lower := strings.ToLower(s)
	switch lower {
	case "today", "just now", "now":
		t := startOfDay(now)
		return &t
	case "yesterday":
		t := startOfDay(now).AddDate(0, 0, -1)
		return &t
	}

	if m := relativeAgo.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		unit, ok := relativeUnits[m[2]]
		if err == nil && ok {
			t := now.Add(-time.Duration(n) * unit)
			return &t
		}
	}

	for _, layout := range yearlessLayouts {
		t, err := time.ParseInLocation(layout, s, now.Location())
		if err != nil {
			continue
		}
		t = time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
		if t.After(now.Add(24 * time.Hour)) {
			t = t.AddDate(-1, 0, 0)
		}
		return &t
	}

	return nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
