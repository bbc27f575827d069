package extract

import (
	"regexp"
	"strings"

	"github.com/jaytaylor/html2text"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	blankLinesPattern = regexp.MustCompile(`\n{2,}`)
)

// HTMLToText renders the visible text of an HTML email body. Block-level
// boundaries become newlines and every line is trimmed, so labeled fields
// end up one per line for the parser. Malformed input degrades to a plain
// tag strip instead of failing.
func HTMLToText(html string) string {
	text, err := html2text.FromString(html, html2text.Options{TextOnly: true})
	if err != nil {
		text = htmlTagPattern.ReplaceAllString(html, "\n")
		text = strings.NewReplacer(
			"&nbsp;", " ",
			"&amp;", "&",
			"&lt;", "<",
			"&gt;", ">",
			"&quot;", "\"",
		).Replace(text)
	}

	lines := strings.Split(text, "\n")
	trimmed := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			trimmed = append(trimmed, line)
		}
	}

	return blankLinesPattern.ReplaceAllString(strings.Join(trimmed, "\n"), "\n")
}
