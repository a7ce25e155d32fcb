package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// embeddedPrice finds a dollar amount inside free text.
	embeddedPrice = regexp.MustCompile(`\$\s?[\d,]+(?:\.\d{1,2})?`)

	// bareAmount matches a label that is only a number.
	bareAmount = regexp.MustCompile(`^[\d,]+(?:\.\d{1,2})?$`)
)

// parsePrice converts a price label such as "$1,200" into a number. Labels
// without an amount ("free", "", "call") give nil.
func parsePrice(label string) *float64 {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil
	}

	amount := embeddedPrice.FindString(label)
	if amount == "" {
		if !bareAmount.MatchString(label) {
			return nil
		}
		amount = label
	}

	digits := strings.NewReplacer("$", "", ",", "", " ", "").Replace(amount)
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}
