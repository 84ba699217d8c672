package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase passthrough", "banana", "banana"},
		{"uppercase", "BANANA", "banana"},
		{"spaces become hyphens", "whole milk", "whole-milk"},
		{"punctuation stripped", "Whole Milk!", "whole-milk"},
		{"digits kept", "7up", "7up"},
		{"underscore kept", "a_b", "a_b"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestCanonicalKeyOrderAndCaseInsensitive(t *testing.T) {
	a := CanonicalKey(NewSet("Banana", "STRAWBERRY"))
	b := CanonicalKey(NewSet("strawberry", "banana"))

	assert.Equal(t, a, b)
	assert.Equal(t, "banana_strawberry", a)
}

func TestCanonicalKeyStripsPunctuation(t *testing.T) {
	a := CanonicalKey(NewSet("Whole Milk!"))
	b := CanonicalKey(NewSet("whole milk"))

	assert.Equal(t, a, b)
	assert.Equal(t, "whole-milk", a)
}

func TestCanonicalKeyEmptySet(t *testing.T) {
	assert.Equal(t, "", CanonicalKey(Set{}))
	assert.Equal(t, "", CanonicalKey(NewSet()))
}

func TestCanonicalKeyDuplicatesCollapse(t *testing.T) {
	a := CanonicalKey(NewSet("egg", "Egg", "EGG"))
	assert.Equal(t, "egg", a)
}

func TestParseKeyRoundTrip(t *testing.T) {
	original := NewSet("whole milk", "banana", "egg")
	key := CanonicalKey(original)

	restored := ParseKey(key)
	require.Len(t, restored, 3)
	assert.True(t, restored.Contains("whole milk"))
	assert.True(t, restored.Contains("banana"))
	assert.True(t, restored.Contains("egg"))
}

func TestParseKeyEmpty(t *testing.T) {
	assert.Empty(t, ParseKey(""))
}

func TestSetLower(t *testing.T) {
	s := NewSet("Banana", "STRAWBERRY").Lower()
	assert.True(t, s.Contains("banana"))
	assert.True(t, s.Contains("strawberry"))
	assert.Len(t, s, 2)
}

func TestNewSetSkipsBlankNames(t *testing.T) {
	s := NewSet("banana", "", "  ")
	assert.Len(t, s, 1)
}
