package document

import (
	"strings"
	"unicode/utf8"
)

// extractPlain decodes UTF-8 with one U+FFFD per invalid byte and
// normalises line endings so blank-line paragraph splitting works on
// Windows files.
func extractPlain(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		sb.WriteRune(r)
		data = data[size:]
	}
	text := strings.ReplaceAll(sb.String(), "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
