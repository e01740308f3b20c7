package pipeline

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize = 500
	DefaultOverlap   = 50
)

// ErrInvalidOverlap is returned when the overlap would stop the chunker advancing
var ErrInvalidOverlap = errors.New("chunk overlap must be smaller than chunk size")

// Chunk is a bounded slice of document text. Start and End are rune offsets
// of the window the chunk was cut from, before trimming.
type Chunk struct {
	Index int
	Text  string
	Start int
	End   int
}

var (
	paragraphBreak = []rune("\n\n")
	sentenceBreaks = [][]rune{[]rune(". "), []rune("! "), []rune("? ")}
)

// ChunkText splits text into overlapping chunks of at most size runes.
// Cuts prefer a paragraph break, then a sentence end, in the second half of
// the window. size <= 0 and overlap < 0 select the defaults.
func ChunkText(text string, size, overlap int) ([]Chunk, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if overlap >= size {
		return nil, ErrInvalidOverlap
	}

	runes := []rune(text)
	n := len(runes)
	if n <= size {
		return []Chunk{{Index: 0, Text: text, Start: 0, End: n}}, nil
	}

	var chunks []Chunk
	start := 0
	for start < n {
		end := min(start+size, n)

		if end < n {
			half := start + size/2
			if i := lastIndex(runes, paragraphBreak, start, end); i > half {
				end = i
			} else if i := lastSentenceEnd(runes, start, end); i > half {
				end = i + 1
			}
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, Chunk{
				Index: len(chunks),
				Text:  chunk,
				Start: start,
				End:   end,
			})
		}

		if end >= n {
			break
		}
		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks, nil
}

// Texts returns the text of each chunk in order
func Texts(chunks []Chunk) []string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return texts
}

// lastSentenceEnd returns the position of the latest sentence-ending
// punctuation in [start, end), or -1
func lastSentenceEnd(runes []rune, start, end int) int {
	best := -1
	for _, sep := range sentenceBreaks {
		if i := lastIndex(runes, sep, start, end); i > best {
			best = i
		}
	}
	return best
}

// lastIndex finds the last occurrence of sep lying entirely inside [start, end)
func lastIndex(runes, sep []rune, start, end int) int {
	for i := end - len(sep); i >= start; i-- {
		match := true
		for j, r := range sep {
			if runes[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// EstimateTokens estimates token count (rough: 4 chars per token)
func EstimateTokens(text string) int {
	return utf8.RuneCountInString(text) / 4
}
