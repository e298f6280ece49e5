// Copyright (C) 2026 the quixsi maintainers
// See root-dir/LICENSE for more information

// Package phone brings free-form phone input close to E.164 before it
// is handed to the message transport. No digit-count or country-code
// validation happens here; malformed numbers pass through untouched.
package phone

import "strings"

// Normalize strips every character except digits and '+', keeps a
// number that already starts with '+' as is, and otherwise prepends
// defaultCountryCode. Empty input yields empty output.
func Normalize(raw, defaultCountryCode string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range raw {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "+") {
		return digits
	}
	return defaultCountryCode + digits
}
