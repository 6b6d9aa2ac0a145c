// Package slug derives URL slugs from post titles and resolves collisions.
//
// Uniqueness is scoped: only posts that are (or are about to become) approved
// participate in collision probing. Drafts and other non-approved posts keep
// the base slug unconditionally, so two drafts may share a slug.
package slug

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxBaseLength = 50

// fallbackSlug is used when a title contains no letters or digits at all.
const fallbackSlug = "untitled"

// nonSlugChars matches everything that is not a letter, digit or whitespace.
var nonSlugChars = regexp.MustCompile(`[^a-z0-9\s]+`)

// whitespaceRun matches runs of whitespace.
var whitespaceRun = regexp.MustCompile(`\s+`)

// TakenFunc reports whether another approved post (excluding excludeID)
// already uses the given slug.
type TakenFunc func(slug, excludeID string) (bool, error)

// Slugify converts a title to its base slug: accents decomposed and stripped,
// lowercased, punctuation removed, whitespace runs collapsed to single
// hyphens, truncated to 50 characters.
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, _ := transform.String(t, title)

	s = strings.ToLower(s)
	s = nonSlugChars.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), "-")

	if len(s) > maxBaseLength {
		s = strings.Trim(s[:maxBaseLength], "-")
	}
	return s
}

// Allocate returns the slug to persist for a post with the given title.
//
// When willBeApproved is false the base slug is returned as-is: collisions
// among non-approved posts are permitted. When true, the base is probed
// against other approved posts via taken, appending -1, -2, ... until a free
// candidate is found.
func Allocate(title, excludeID string, willBeApproved bool, taken TakenFunc) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = fallbackSlug
	}
	if !willBeApproved {
		return base, nil
	}

	candidate := base
	for i := 1; ; i++ {
		inUse, err := taken(candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("slug lookup: %w", err)
		}
		if !inUse {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
