package utils

import "strings"

// NormalizePhone strips everything but digits, gives bare 10-digit
// numbers the given country prefix, and returns the result in +E.164
// form. Numbers already carrying a country code only gain the plus.
func NormalizePhone(raw, countryCode string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if len(digits) == 10 {
		digits = countryCode + digits
	}
	return "+" + digits
}
