package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "trims whitespace", input: []string{"  foo  ", "bar  "}, expected: []string{"foo", "bar"}},
		{name: "removes duplicates preserving order", input: []string{"foo", "bar", "foo"}, expected: []string{"foo", "bar"}},
		{name: "removes empty strings", input: []string{"foo", "", "  "}, expected: []string{"foo"}},
		{name: "preserves case", input: []string{"Foo", "foo"}, expected: []string{"Foo", "foo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestCommaLists(t *testing.T) {
	assert.Equal(t, []string{"en", "fr", "de"}, CommaListToOrderedSet(" en, fr ,en,,de"))
	assert.Equal(t, []string{"de", "en", "fr"}, CommaListToSortedSet("fr,en,de,fr"))
	assert.Nil(t, CommaListToOrderedSet("  "))
	assert.Equal(t, "group_a,group_b", SetToCommaList([]string{"group_a", " group_b", "group_a"}))
	assert.Empty(t, SetToCommaList(nil))
}
