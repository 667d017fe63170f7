package review

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Characters with markdown meaning, per the snudown renderer reddit uses.
// Ampersand, parentheses, dot, and dash are left alone: escaping them
// breaks entities and renders backslashes in old clients.
var markdownSpecialRE = regexp.MustCompile("[\\\\`*_{}\\[\\]#+!:|<>/^~]")

// IMDb plot text links titles inline as 'Title' (qv) or _Title_ (qv).
var qvRE = regexp.MustCompile(`(?:'(.+?)(?: \([A-Z]+\))?'|_(.+?)_) ?\(qv\)`)

var groupedPrinter = message.NewPrinter(language.English)

// escapeMarkdown backslash-escapes characters with special meaning in
// markdown.
func escapeMarkdown(s string) string {
	return markdownSpecialRE.ReplaceAllStringFunc(s, func(match string) string {
		return "\\" + match
	})
}

// stripQV removes IMDb's qv-linking markup, keeping the linked title.
func stripQV(s string) string {
	return qvRE.ReplaceAllStringFunc(s, func(match string) string {
		groups := qvRE.FindStringSubmatch(match)
		if groups[1] != "" {
			return groups[1]
		}
		return groups[2]
	})
}

// groupedNumber renders an integer with digit grouping ("1,234,567").
func groupedNumber(n int) string {
	return groupedPrinter.Sprintf("%d", n)
}

// mungeName escapes a credited name for markdown. One name gets special
// treatment by subreddit tradition.
func mungeName(name string) string {
	escaped := escapeMarkdown(name)
	if name == "Nicolas Cage" {
		return "[" + escaped + "](/r/OneTrueGod)"
	}
	return escaped
}

// collapseBlank trims a fragment and reports whether anything remains.
func collapseBlank(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}
