package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinList(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected string
	}{
		{"empty", nil, ""},
		{"one", []string{"seo"}, "seo"},
		{"two", []string{"seo", "ga4"}, "seo and ga4"},
		{"three", []string{"seo", "ga4", "crm"}, "seo, ga4 and crm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, JoinList(tt.input))
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Led", Capitalize("led"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "Élan", Capitalize("élan"))
}

func TestCapWords(t *testing.T) {
	assert.Equal(t, "one two three", CapWords("one two three", 3))
	assert.Equal(t, "one two…", CapWords("one two three", 2))
}

func TestLimitWords(t *testing.T) {
	assert.Equal(t, "a b c", LimitWords("a b c", 5))
	assert.Equal(t, "a b.", LimitWords("a b c d", 2))
	assert.Equal(t, "a b,.", LimitWords("a b, c d", 2))
	assert.Equal(t, "a b..", LimitWords("a b. c d", 2))
}

func TestLimitChars(t *testing.T) {
	assert.Equal(t, "abc", LimitChars("abc", 3))
	assert.Equal(t, "ab…", LimitChars("abcd", 3))
	assert.Equal(t, "né…", LimitChars("néon", 3))
	assert.Equal(t, "", LimitChars("abc", 0))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Unique([]string{"a", "", "b", "a"}))
	assert.Empty(t, Unique(nil))
}
