// Package identity canonicalizes free-text names so that two spellings of
// the same household, person or event compare equal.
package identity

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalize trims surrounding whitespace and case-folds the result.
// Two names denote the same identity iff their normalized keys are equal.
// An empty key never participates in matching.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return cases.Fold().String(name)
}
