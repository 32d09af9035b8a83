// Package strings converts between the comma-separated form option values are
// stored in and the string sets participants carry.
package strings

import (
	"slices"
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// CommaListToOrderedSet splits a comma list into unique trimmed elements in
// first-seen order.
//
//	CommaListToOrderedSet(" en, fr ,en,,de") // []string{"en", "fr", "de"}
func CommaListToOrderedSet(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	return DedupeAndTrim(strings.Split(list, ","))
}

// CommaListToSortedSet is CommaListToOrderedSet with the result sorted.
func CommaListToSortedSet(list string) []string {
	set := CommaListToOrderedSet(list)
	slices.Sort(set)
	return set
}

// SetToCommaList joins the unique trimmed elements, preserving order.
func SetToCommaList(values []string) string {
	return strings.Join(DedupeAndTrim(values), ",")
}
