package feed

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var (
	breakPattern = regexp.MustCompile(`(?i)<br\s*/?>|</p>\s*<p[^>]*>`)
	tagPattern   = regexp.MustCompile(`<[^>]+>`)
)

// StripHTML flattens a rendered status body to plain text. Paragraph
// and line breaks become spaces so each post stays on one line.
func StripHTML(content string) string {
	s := breakPattern.ReplaceAllString(content, " ")
	s = tagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// Corpus renders statuses as the corpus the chain builder consumes:
// one cleaned post per line, newest first, deduplicated
// case-insensitively.
func Corpus(statuses []Status) string {
	seen := make(map[string]struct{}, len(statuses))
	lines := make([]string, 0, len(statuses))

	for _, st := range statuses {
		line := StripHTML(st.Content)
		if line == "" {
			continue
		}
		key := strings.ToLower(line)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}
