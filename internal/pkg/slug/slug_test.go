package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple title",
			input:    "Hello World",
			expected: "hello-world",
		},
		{
			name:     "trailing punctuation",
			input:    "Hello World!!",
			expected: "hello-world",
		},
		{
			name:     "interior punctuation",
			input:    "What's new in Go 1.24?",
			expected: "whats-new-in-go-124",
		},
		{
			name:     "multiple spaces",
			input:    "Hello   World",
			expected: "hello-world",
		},
		{
			name:     "accents stripped",
			input:    "Café résumé",
			expected: "cafe-resume",
		},
		{
			name:     "leading and trailing spaces",
			input:    "  Hello World  ",
			expected: "hello-world",
		},
		{
			name:     "hyphens in title collapse via whitespace",
			input:    "Hello - World",
			expected: "hello-world",
		},
		{
			name:     "only punctuation",
			input:    "!@#$%",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestSlugifyTruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("word ", 30)
	s := Slugify(long)
	assert.LessOrEqual(t, len(s), 50)
	assert.False(t, strings.HasSuffix(s, "-"), "truncation must not leave a trailing hyphen")
}

func TestAllocateSkipsProbingForNonApproved(t *testing.T) {
	calls := 0
	taken := func(slug, excludeID string) (bool, error) {
		calls++
		return true, nil
	}

	got, err := Allocate("Hello World!!", "id-1", false, taken)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", got)
	assert.Zero(t, calls, "non-approved posts must not probe for collisions")
}

func TestAllocateProbesUntilFree(t *testing.T) {
	occupied := map[string]bool{"hello-world": true, "hello-world-1": true}
	taken := func(slug, excludeID string) (bool, error) {
		return occupied[slug], nil
	}

	got, err := Allocate("Hello World!!", "id-2", true, taken)
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", got)
}

func TestAllocateFirstApprovedKeepsBase(t *testing.T) {
	taken := func(slug, excludeID string) (bool, error) { return false, nil }

	got, err := Allocate("Hello World!!", "id-1", true, taken)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", got)
}

func TestAllocateFallbackForUnsluggableTitle(t *testing.T) {
	taken := func(slug, excludeID string) (bool, error) { return false, nil }

	got, err := Allocate("!!!", "id-1", true, taken)
	require.NoError(t, err)
	assert.Equal(t, "untitled", got)
}
