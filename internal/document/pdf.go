package document

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractPDF extracts text page by page. Pages without text are skipped.
func extractPDF(data []byte) (string, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return "", fmt.Errorf("pdfcpu read: %w", err)
	}

	var pages []string
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		if text := extractPageText(ctx, pageNr); text != "" {
			pages = append(pages, text)
		}
	}

	return strings.Join(pages, "\n\n"), nil
}

func extractPageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil || r == nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return cleanPageText(textFromContentStream(data))
}

// textFromContentStream walks the operators of a page content stream and
// collects the operands of the text-showing operators.
func textFromContentStream(data []byte) string {
	var sb strings.Builder
	var operands []string // decoded string operands since the last operator
	var lastNumbers []float64

	newline := func() {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
	}

	s := &pdfScanner{data: data}
	for {
		tok, kind := s.next()
		if kind == tokEOF {
			break
		}

		switch kind {
		case tokString:
			operands = append(operands, tok)
		case tokNumber:
			n, _ := strconv.ParseFloat(tok, 64)
			lastNumbers = append(lastNumbers, n)
		case tokArrayText:
			operands = append(operands, tok)
		case tokOperator:
			switch tok {
			case "BT":
				newline()
			case "T*":
				newline()
			case "Td", "TD":
				if len(lastNumbers) >= 2 && lastNumbers[len(lastNumbers)-1] != 0 {
					newline()
				} else if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
			case "'", "\"":
				newline()
				for _, op := range operands {
					sb.WriteString(op)
				}
			case "Tj", "TJ":
				for _, op := range operands {
					sb.WriteString(op)
				}
			}
			operands = operands[:0]
			lastNumbers = lastNumbers[:0]
		}
	}

	return sb.String()
}

// cleanPageText collapses horizontal whitespace and drops blank lines so a
// page never contains a paragraph separator of its own.
func cleanPageText(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokString
	tokArrayText
	tokNumber
	tokOperator
	tokOther
)

// pdfScanner is a minimal content stream tokenizer. It understands just
// enough syntax to find string operands and operators.
type pdfScanner struct {
	data []byte
	pos  int
}

func (s *pdfScanner) next() (string, tokenKind) {
	s.skipSpace()
	if s.pos >= len(s.data) {
		return "", tokEOF
	}

	c := s.data[s.pos]
	switch {
	case c == '(':
		return s.literalString(), tokString
	case c == '<' && s.pos+1 < len(s.data) && s.data[s.pos+1] == '<':
		s.skipDict()
		return "", tokOther
	case c == '<':
		return s.hexString(), tokString
	case c == '[':
		return s.array(), tokArrayText
	case c == '/':
		s.pos++
		s.readRegular()
		return "", tokOther
	case c == '%':
		for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
			s.pos++
		}
		return "", tokOther
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return s.readRegular(), tokNumber
	case isDelimiter(c):
		s.pos++
		return "", tokOther
	default:
		word := s.readRegular()
		if word == "BI" {
			s.skipInlineImage()
			return "", tokOther
		}
		return word, tokOperator
	}
}

func (s *pdfScanner) skipSpace() {
	for s.pos < len(s.data) && isPDFSpace(s.data[s.pos]) {
		s.pos++
	}
}

func (s *pdfScanner) readRegular() string {
	start := s.pos
	for s.pos < len(s.data) && !isPDFSpace(s.data[s.pos]) && !isDelimiter(s.data[s.pos]) {
		s.pos++
	}
	if s.pos == start && s.pos < len(s.data) {
		// operators such as ' and " are single delimiter-free bytes
		s.pos++
	}
	return string(s.data[start:s.pos])
}

func (s *pdfScanner) literalString() string {
	var sb strings.Builder
	s.pos++ // (
	depth := 1
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch c {
		case '\\':
			s.pos++
			if s.pos >= len(s.data) {
				return sb.String()
			}
			e := s.data[s.pos]
			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b', 'f':
			case '\r', '\n':
				// line continuation
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for i := 0; i < 2 && s.pos+1 < len(s.data) && s.data[s.pos+1] >= '0' && s.data[s.pos+1] <= '7'; i++ {
						s.pos++
						val = val*8 + int(s.data[s.pos]-'0')
					}
					sb.WriteRune(rune(byte(val)))
				} else {
					sb.WriteByte(e)
				}
			}
		case '(':
			depth++
			sb.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				s.pos++
				return sb.String()
			}
			sb.WriteByte(c)
		default:
			sb.WriteRune(rune(c)) // Latin-1 approximation of the font encoding
		}
		s.pos++
	}
	return sb.String()
}

// hexString decodes <48656C6C6F>. Bytes map to Latin-1 as in literal
// strings; control codes, which is what CID glyph IDs mostly decode to, are
// dropped.
func (s *pdfScanner) hexString() string {
	s.pos++ // <
	var digits []byte
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		if c := s.data[s.pos]; !isPDFSpace(c) {
			digits = append(digits, c)
		}
		s.pos++
	}
	s.pos++ // >
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}

	var sb strings.Builder
	for i := 0; i+1 < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			return ""
		}
		if r := rune(v); !unicode.IsControl(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// array flattens a TJ operand. Large negative kerning offsets become spaces.
func (s *pdfScanner) array() string {
	s.pos++ // [
	var sb strings.Builder
	for {
		s.skipSpace()
		if s.pos >= len(s.data) {
			return sb.String()
		}
		c := s.data[s.pos]
		switch {
		case c == ']':
			s.pos++
			return sb.String()
		case c == '(':
			sb.WriteString(s.literalString())
		case c == '<':
			sb.WriteString(s.hexString())
		default:
			tok := s.readRegular()
			if n, err := strconv.ParseFloat(tok, 64); err == nil && n < -200 {
				sb.WriteByte(' ')
			}
		}
	}
}

func (s *pdfScanner) skipDict() {
	depth := 0
	for s.pos+1 < len(s.data) {
		if s.data[s.pos] == '<' && s.data[s.pos+1] == '<' {
			depth++
			s.pos += 2
			continue
		}
		if s.data[s.pos] == '>' && s.data[s.pos+1] == '>' {
			depth--
			s.pos += 2
			if depth == 0 {
				return
			}
			continue
		}
		s.pos++
	}
	s.pos = len(s.data)
}

func (s *pdfScanner) skipInlineImage() {
	idx := bytes.Index(s.data[s.pos:], []byte("EI"))
	if idx < 0 {
		s.pos = len(s.data)
		return
	}
	s.pos += idx + 2
}

func isPDFSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
