package metadata

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	currencyPattern = regexp.MustCompile(`(?i)zł|pln|eur|€|\$|£`)

	// 1 234,56 / 1.234,56 / 1234,5
	europeanPattern = regexp.MustCompile(`(\d{1,3}(?:[ .]\d{3})*|\d+),(\d{1,2})$`)

	// 1,234.56 / 1234.5
	usPattern = regexp.MustCompile(`(\d{1,3}(?:,\d{3})*|\d+)\.(\d{1,2})$`)

	digitRun       = regexp.MustCompile(`\d+`)
	separatorChars = strings.NewReplacer(" ", "", ".", "", ",", "")
)

// NormalizePrice converts a price-bearing text fragment into a number.
//
// The European form (comma decimals) is tried before the US form. Input without
// a decimal marker falls through to the bare-digit rule, so "1.234" reads as 1234.
func NormalizePrice(text string) (float64, bool) {
	cleaned := currencyPattern.ReplaceAllString(text, "")
	cleaned = strings.Join(strings.Fields(cleaned), "")

	if m := europeanPattern.FindStringSubmatch(cleaned); m != nil {
		return parseNumber(separatorChars.Replace(m[1]) + "." + m[2])
	}

	if m := usPattern.FindStringSubmatch(cleaned); m != nil {
		return parseNumber(strings.ReplaceAll(m[1], ",", "") + "." + m[2])
	}

	whole := digitRun.FindString(separatorChars.Replace(cleaned))
	if whole == "" {
		return 0, false
	}
	return parseNumber(whole)
}

// InPriceBounds is the sanity check applied to every extracted price
func InPriceBounds(v, max float64) bool {
	return v > 0 && v < max
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var leadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// parseMachineNumber reads the leading number of a machine-readable value such as
// a JSON-LD offer price ("129.99", "129.99 PLN"). Locale rules do not apply here.
func parseMachineNumber(s string) (float64, bool) {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	return parseNumber(m)
}
