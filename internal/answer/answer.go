// Package answer compares player submissions against expected answers.
package answer

import (
	"github.com/homecrimes/caseroom/internal/models"
	"slices"
	"strings"
)

// Normalize trims surrounding whitespace and lower-cases s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Compare reports whether given satisfies expected.
//
// A list expectation is satisfied by a list of the same length containing every expected item. Order is not
// checked, so chronology answers are compared as sets. A scalar expectation is satisfied by a scalar that
// matches after [Normalize]; a list given for a scalar expectation never matches.
func Compare(expected, given models.Answer) bool {
	if expected.IsList {
		if !given.IsList || len(given.Values) != len(expected.Values) {
			return false
		}
		for _, item := range expected.Values {
			if !slices.Contains(given.Values, item) {
				return false
			}
		}
		return true
	}
	if given.IsList {
		return false
	}
	return Normalize(expected.Value) == Normalize(given.Value)
}

// Matches reports whether attempt equals a non-empty secret after normalization.
func Matches(secret, attempt string) bool {
	want := Normalize(secret)
	return want != "" && want == Normalize(attempt)
}
