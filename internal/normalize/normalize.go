// Package normalize holds the pure cell-level cleanup functions the build
// pipeline applies to raw spreadsheet values: whitespace/sentinel stripping,
// slug derivation and date/time parsing.
package normalize

import "strings"

// missingSentinels are literal cell values that spreadsheet exports write for
// empty cells. They must never leak into output as real text.
var missingSentinels = map[string]struct{}{
	"nan":  {},
	"null": {},
	"none": {},
	"#n/a": {},
	"n/a":  {},
}

// Clean trims a raw cell value and reports whether anything remains. A cell
// that is empty after trimming, or that equals a missing-value sentinel, is
// absent (ok == false) and the returned string is "".
func Clean(value string) (string, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return "", false
	}
	if _, isSentinel := missingSentinels[strings.ToLower(s)]; isSentinel {
		return "", false
	}
	return s, true
}

// Slugify derives a lowercase, hyphenated identifier safe for file names and
// URLs. The result contains only [a-z0-9-], or is empty when nothing usable
// remains (callers must treat an empty slug as a skip condition).
//
// Slugify is idempotent: Slugify(Slugify(x)) == Slugify(x).
func Slugify(name string) string {
	lower := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lower))
	prevHyphen := false
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		case r == ' ', r == '\t', r == '\n', r == '\r', r == '-':
			// Collapse runs of whitespace/hyphens into a single hyphen.
			if !prevHyphen && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		default:
			// Strip everything else.
		}
	}

	return strings.TrimRight(b.String(), "-")
}
