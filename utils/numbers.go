package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// nonNumericRegexp matches everything that cannot be part of a locale number.
var nonNumericRegexp = regexp.MustCompile(`[^\d,.\-]`)

// ParseLocaleFloat parses a number written with '.' as thousands separator and
// ',' as decimal mark ("1.234,56 €" -> 1234.56). Anything else is stripped
// first; strings that still do not parse report ok=false.
func ParseLocaleFloat(raw string) (float64, bool) {
	s := nonNumericRegexp.ReplaceAllString(raw, "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseDecimal parses a plain number with '.' as decimal mark, after trimming.
func ParseDecimal(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseInt parses a base-10 integer after trimming whitespace.
func ParseInt(raw string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
