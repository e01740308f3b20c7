package tui

import "strings"

// wrapText wraps each paragraph to maxWidth columns, preserving words and
// existing line breaks
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = 60
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = wrapLine(line, maxWidth)
	}
	return strings.Join(lines, "\n")
}

func wrapLine(line string, maxWidth int) string {
	if len([]rune(line)) <= maxWidth {
		return line
	}

	var result strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(line) {
		n := len([]rune(word))
		if i > 0 {
			if lineLen+1+n > maxWidth {
				result.WriteString("\n")
				lineLen = 0
			} else {
				result.WriteString(" ")
				lineLen++
			}
		}
		result.WriteString(word)
		lineLen += n
	}
	return result.String()
}
