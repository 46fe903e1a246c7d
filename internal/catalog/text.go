package catalog

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// maxStripRounds bounds how many layers of escaped markup plainText peels.
const maxStripRounds = 8

// plainText strips markup from an HTML fragment and trims the result. Line
// breaks survive as newlines; script and style bodies are dropped. Escaped
// markup decodes to markup, so stripping repeats until the text is stable and
// normalizing the output again leaves it unchanged.
func plainText(s string) string {
	out := stripOnce(s)
	for i := 1; i < maxStripRounds; i++ {
		next := stripOnce(out)
		if next == out {
			return out
		}
		out = next
	}
	return strings.TrimSpace(tagPattern.ReplaceAllString(out, ""))
}

func stripOnce(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
	}
	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	return strings.TrimSpace(doc.Text())
}

// splitTags splits a comma list, accepting both ASCII and full-width commas.
func splitTags(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '，'
	})
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
