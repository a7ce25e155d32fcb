package parse

import (
	"regexp"

	"github.com/nyaruka/phonenumbers"
)

// phoneCandidate finds spans that look like North American numbers, with
// optional country code and the usual separators.
var phoneCandidate = regexp.MustCompile(`(?:\+?1[\s.\-]?)?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}\b`)

// extractPhones returns the distinct valid phone numbers in text formatted
// as E.164, in order of first appearance.
func extractPhones(text, region string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, raw := range phoneCandidate.FindAllString(text, -1) {
		number, err := phonenumbers.Parse(raw, region)
		if err != nil {
			continue
		}
		if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
			continue
		}
		e164 := phonenumbers.Format(number, phonenumbers.E164)
		if seen[e164] {
			continue
		}
		seen[e164] = true
		out = append(out, e164)
	}
	return out
}
