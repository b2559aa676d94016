package reconcile

import (
	"html"
	"regexp"
	"strings"
)

// BlankLabel is shown wherever a narrative has no printable text.
const BlankLabel = "(blank)"

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// cleanText strips markup and collapses every run of whitespace to one space.
func cleanText(text string) string {
	text = tagPattern.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeNarrative returns the comparison key of a narrative. Two narratives
// with the same key are the same narrative regardless of case, markup or
// incidental whitespace. Blank input yields the empty key.
func NormalizeNarrative(text string) string {
	return strings.ToLower(cleanText(text))
}

// DisplayLabel cleans a narrative for display, preserving case.
func DisplayLabel(text string) string {
	label := cleanText(text)
	if label == "" {
		return BlankLabel
	}
	return label
}
