package constants

import (
	"strings"
)

// Category is the 50/30/20 bucket an expense lands in.
type Category string

const (
	Needs     Category = "needs"
	Wants     Category = "wants"
	Savings   Category = "savings"
	Undefined Category = "undefined"
)

var allCategories = []Category{
	Needs,
	Wants,
	Savings,
	Undefined,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Canonicalize maps a model-produced category label onto one of the four
// buckets. The prompt asks for the percentage labels, but models also answer
// with bucket names; anything unrecognized becomes Undefined.
func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return Undefined, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// labels the prompt itself uses
	synonyms := map[string]Category{
		"50%":     Needs,
		"30%":     Wants,
		"20%":     Savings,
		"need":    Needs,
		"want":    Wants,
		"saving":  Savings,
		"save":    Savings,
		"unknown": Undefined,
		"unclear": Undefined,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	for _, cat := range allCategories {
		if normalized == string(cat) {
			return cat, true
		}
	}

	return Undefined, false
}
