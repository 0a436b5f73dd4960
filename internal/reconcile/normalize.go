package reconcile

import (
	"strings"
	"time"
	"unicode"
)

// normalizeName lowercases a display name and strips everything that is not
// a letter or digit, so "Board Room A" and "boardroom-a" compare equal.
func normalizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// localPart returns the portion of an address-like id before the first "@".
func localPart(id string) string {
	if i := strings.IndexByte(id, '@'); i >= 0 {
		return id[:i]
	}
	return id
}

// minWordLength filters out articles and connectives in word matching.
const minWordLength = 3

// significantWords splits a display name on whitespace and keeps lowercased
// words of at least minWordLength characters.
func significantWords(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	words := fields[:0]
	for _, w := range fields {
		if len(w) >= minWordLength {
			words = append(words, w)
		}
	}
	return words
}

// idWords splits an identifier-like string on whitespace plus the separator
// characters identifiers are commonly built from.
func idWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return unicode.IsSpace(r) || r == '.' || r == '-' || r == '_'
	})
}

// zoneOf resolves a declared time zone label, falling back to UTC when the
// label is empty or unknown.
func zoneOf(label string) *time.Location {
	if label == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(label)
	if err != nil {
		return time.UTC
	}
	return loc
}

// sameCalendarDay reports whether two instants fall on the same calendar
// day when both are viewed in the given location.
func sameCalendarDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
