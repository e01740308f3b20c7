package document

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	scriptRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	blockRe  = regexp.MustCompile(`(?i)</?(p|div|br|h[1-6]|article|section|blockquote|li)\b[^>]*>`)
	tagRe    = regexp.MustCompile(`<[^>]+>`)
)

// extractHTML strips markup and rebuilds paragraphs: block-level tags become
// line breaks and each run of non-blank lines is joined into one paragraph.
func extractHTML(data []byte) string {
	content := strings.ToValidUTF8(string(data), "")

	content = scriptRe.ReplaceAllString(content, "")
	content = styleRe.ReplaceAllString(content, "")
	content = blockRe.ReplaceAllString(content, "\n")
	content = tagRe.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	return joinLineRuns(content)
}

// joinLineRuns groups consecutive non-blank lines into paragraphs separated
// by blank lines
func joinLineRuns(text string) string {
	var paragraphs []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = current[:0]
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return strings.Join(paragraphs, "\n\n")
}
