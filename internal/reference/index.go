package reference

import (
	"sort"
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
)

const (
	maxSuggestions   = 3
	suggestThreshold = 0.75
)

// index is the lookup structure shared by both tables. Positions refer to
// the owning table's entry slice.
type index struct {
	codes  []string
	byCode map[string]int
	byNorm map[string]int
	byName map[string]int
	names  []string
}

func newIndex(codes, names []string) *index {
	idx := &index{
		codes:  codes,
		names:  names,
		byCode: make(map[string]int, len(codes)),
		byNorm: make(map[string]int, len(codes)),
		byName: make(map[string]int, len(names)),
	}
	for i, c := range codes {
		if _, ok := idx.byCode[c]; !ok {
			idx.byCode[c] = i
		}
		if n := normalize(c); n != "" {
			if _, ok := idx.byNorm[n]; !ok {
				idx.byNorm[n] = i
			}
		}
		if n := normalize(names[i]); n != "" {
			if _, ok := idx.byName[n]; !ok {
				idx.byName[n] = i
			}
		}
	}
	return idx
}

// lookup resolves a non-empty token: exact code, then normalized code, then
// normalized display name.
func (x *index) lookup(token string) (int, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	if i, ok := x.byCode[t]; ok {
		return i, true
	}
	n := normalize(t)
	if n == "" {
		return 0, false
	}
	if i, ok := x.byNorm[n]; ok {
		return i, true
	}
	if i, ok := x.byName[n]; ok {
		return i, true
	}
	return 0, false
}

// suggest ranks codes by Jaro-Winkler similarity to token, comparing against
// both the code and the normalized display name.
func (x *index) suggest(token string) []string {
	n := normalize(token)
	if n == "" {
		return nil
	}

	type scored struct {
		code  string
		score float64
	}
	var candidates []scored
	for i, c := range x.codes {
		s := matchr.JaroWinkler(n, normalize(c), false)
		if ns := matchr.JaroWinkler(n, normalize(x.names[i]), false); ns > s {
			s = ns
		}
		if s >= suggestThreshold {
			candidates = append(candidates, scored{code: c, score: s})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	out := make([]string, 0, maxSuggestions)
	for _, c := range candidates {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, c.code)
	}
	return out
}

// normalize lower-cases s and drops everything but letters and digits.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func matchesFilter(filter, code, name string) bool {
	f := strings.ToLower(strings.TrimSpace(filter))
	if f == "" {
		return true
	}
	return strings.Contains(strings.ToLower(code), f) ||
		strings.Contains(strings.ToLower(name), f)
}
