// Package readingtime derives the estimated reading time of markdown content.
package readingtime

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// wordsPerMinute is the assumed reading speed.
const wordsPerMinute = 200

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// PlainText renders markdown and strips the markup, leaving readable text.
func PlainText(markdown string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		// Fall back to the raw source; a bad document still has words.
		return markdown
	}
	return strings.TrimSpace(htmlTag.ReplaceAllString(buf.String(), " "))
}

// Minutes returns the reading time for content in whole minutes. Non-empty
// content always takes at least one minute.
func Minutes(markdown string) int {
	text := PlainText(markdown)
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
