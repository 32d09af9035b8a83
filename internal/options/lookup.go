// Package options stores per-participant options keyed by health code.
// Values are kept as strings; Lookup interprets them.
package options

import (
	"maps"
	"strconv"

	"cohort/pkg/domain"
	pstrings "cohort/pkg/platform/strings"
)

// Lookup is a read-only view of one participant's stored options. Missing keys
// read as the option's default value.
type Lookup struct {
	values map[domain.OptionKey]string
}

// NewLookup copies values into a Lookup.
func NewLookup(values map[domain.OptionKey]string) Lookup {
	return Lookup{values: maps.Clone(values)}
}

func (l Lookup) raw(key domain.OptionKey) string {
	if v, ok := l.values[key]; ok && v != "" {
		return v
	}
	return key.DefaultValue()
}

// String returns the stored value or the default.
func (l Lookup) String(key domain.OptionKey) string {
	return l.raw(key)
}

// Bool parses the stored value, falling back to the default when it does not parse.
func (l Lookup) Bool(key domain.OptionKey) bool {
	if b, err := strconv.ParseBool(l.raw(key)); err == nil {
		return b
	}
	b, _ := strconv.ParseBool(key.DefaultValue())
	return b
}

// SharingScope returns the stored scope, or no_sharing when unset or unknown.
func (l Lookup) SharingScope() domain.SharingScope {
	scope, err := domain.ParseSharingScope(l.raw(domain.OptionSharingScope))
	if err != nil {
		return domain.SharingScopeNone
	}
	return scope
}

// StringSet returns the comma list as a sorted set.
func (l Lookup) StringSet(key domain.OptionKey) []string {
	return pstrings.CommaListToSortedSet(l.raw(key))
}

// OrderedStringSet returns the comma list as a set in stored order.
func (l Lookup) OrderedStringSet(key domain.OptionKey) []string {
	return pstrings.CommaListToOrderedSet(l.raw(key))
}

// Has reports whether a value was explicitly stored for key.
func (l Lookup) Has(key domain.OptionKey) bool {
	_, ok := l.values[key]
	return ok
}
