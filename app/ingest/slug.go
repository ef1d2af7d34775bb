package ingest

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	maxSlugLength    = 100
	maxExcerptLength = 200
	// Excerpt truncation backs up to a word boundary only when the
	// boundary sits past this position.
	minExcerptBreak = 100
)

var (
	slugInvalidRe = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	hyphenRunRe   = regexp.MustCompile(`-+`)
	markupTagRe   = regexp.MustCompile(`<[^>]+>`)
)

// Slugify converts a title into a URL-safe slug: lower-cased, diacritics
// folded to ASCII, everything outside [a-z0-9\s-] stripped, whitespace and
// hyphen runs collapsed to single hyphens, trimmed, capped at 100 chars.
func Slugify(title string) string {
	s := foldDiacritics(strings.ToLower(title))
	s = slugInvalidRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(strings.TrimSpace(s), "-")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > maxSlugLength {
		s = strings.Trim(s[:maxSlugLength], "-")
	}

	return s
}

// Excerpt derives a plain-text summary of at most maxExcerptLength
// characters from content, stripping markup and collapsing whitespace.
// Truncated excerpts end with an ellipsis marker.
func Excerpt(content string) string {
	clean := StripMarkup(content)
	if len(clean) <= maxExcerptLength {
		return clean
	}

	truncated := truncate(clean, maxExcerptLength)
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > minExcerptBreak {
		truncated = truncated[:lastSpace]
	}

	return truncated + "..."
}

// StripMarkup removes tags and collapses whitespace runs to single spaces.
func StripMarkup(s string) string {
	s = markupTagRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// truncate cuts s to at most n bytes, backing up so the cut never lands
// inside a multi-byte rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// foldDiacritics decomposes the string and drops combining marks, so
// accented input still yields an ASCII slug.
func foldDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}
