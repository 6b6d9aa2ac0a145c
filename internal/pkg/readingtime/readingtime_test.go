package readingtime

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinutesEmptyContent(t *testing.T) {
	assert.Zero(t, Minutes(""))
}

func TestMinutesShortContentIsOneMinute(t *testing.T) {
	assert.Equal(t, 1, Minutes("Just a few words here."))
}

func TestMinutesRoundsUp(t *testing.T) {
	// 250 words at 200 wpm -> 2 minutes.
	content := strings.Repeat("word ", 250)
	assert.Equal(t, 2, Minutes(content))
}

func TestPlainTextStripsMarkdown(t *testing.T) {
	text := PlainText("# Heading\n\nSome **bold** text and a [link](https://example.com).")
	assert.NotContains(t, text, "**")
	assert.NotContains(t, text, "#")
	assert.NotContains(t, text, "](")
	assert.Contains(t, text, "bold")
}
