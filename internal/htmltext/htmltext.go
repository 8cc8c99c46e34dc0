// Package htmltext converts HTML fragments, such as Meetup group descriptions,
// into plain text suitable for speech output and card bodies.
package htmltext

import (
	"html"
	"regexp"
	"strings"
)

// Pre-compiled regular expressions for HTML stripping.
var (
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	brTags        = regexp.MustCompile(`(?i)<br\s*/?>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{2,}`)
)

// Text strips tags from an HTML fragment and returns plain text. Block element
// boundaries become newlines, entities are unescaped, and runs of whitespace
// collapse to a single space or newline.
func Text(s string) string {
	if s == "" {
		return ""
	}

	s = scriptTag.ReplaceAllString(s, "")
	s = styleTag.ReplaceAllString(s, "")
	s = htmlComments.ReplaceAllString(s, "")
	s = brTags.ReplaceAllString(s, "\n")
	s = blockElements.ReplaceAllString(s, "\n")
	s = allTags.ReplaceAllString(s, "")

	s = html.UnescapeString(s)
	s = multiSpaces.ReplaceAllString(s, " ")
	s = multiNewlines.ReplaceAllString(s, "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Truncate shortens s to at most max runes, cutting on a word boundary where
// one exists and appending an ellipsis when anything was dropped.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	cut := string(runes[:max])
	if i := strings.LastIndexAny(cut, " \n"); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " \n.,;:") + "…"
}

// Summary is Text followed by Truncate, the common path for descriptions that
// end up in cards and chat attachments.
func Summary(htmlFragment string, max int) string {
	return Truncate(Text(htmlFragment), max)
}
