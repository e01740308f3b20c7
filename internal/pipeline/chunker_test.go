package pipeline

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextShort(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"single sentence", "This is a single paragraph of text."},
		{"exactly size", strings.Repeat("a", 500)},
		{"multibyte at size", strings.Repeat("é", 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := ChunkText(tt.text, 500, 50)
			require.NoError(t, err)
			require.Len(t, chunks, 1)
			assert.Equal(t, tt.text, chunks[0].Text)
		})
	}
}

func TestChunkTextInvalidOverlap(t *testing.T) {
	_, err := ChunkText("anything", 100, 100)
	assert.ErrorIs(t, err, ErrInvalidOverlap)

	_, err = ChunkText("anything", 100, 150)
	assert.ErrorIs(t, err, ErrInvalidOverlap)
}

func TestChunkTextDefaults(t *testing.T) {
	text := strings.Repeat("word ", 300)
	chunks, err := ChunkText(text, 0, -1)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, c.End-c.Start, DefaultChunkSize)
	}
}

func TestChunkTextParagraphBoundary(t *testing.T) {
	first := strings.Repeat("a", 70)
	second := strings.Repeat("b", 70)
	text := first + "\n\n" + second

	chunks, err := ChunkText(text, 100, 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)

	assert.Equal(t, first, chunks[0].Text)
	assert.Equal(t, 70, chunks[0].End)
	assert.Equal(t, 60, chunks[1].Start)
}

func TestChunkTextSentenceBoundary(t *testing.T) {
	sentence := strings.Repeat("x", 59) + ". "
	text := sentence + sentence + sentence

	chunks, err := ChunkText(text, 100, 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)

	// first window is [0,100); the only sentence end after rune 50 is at 59
	assert.Equal(t, strings.Repeat("x", 59)+".", chunks[0].Text)
	assert.Equal(t, 60, chunks[0].End)
}

func TestChunkTextEarlyBoundaryIgnored(t *testing.T) {
	text := "Short. " + strings.Repeat("z", 200)

	chunks, err := ChunkText(text, 100, 10)
	require.NoError(t, err)
	assert.Equal(t, 100, chunks[0].End, "a boundary in the first half of the window must not be used")
}

func TestChunkTextProperties(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("The collection glows with colour and light. ")
		if i%5 == 4 {
			sb.WriteString("\n\n")
		}
		if i%7 == 0 {
			sb.WriteString("Ça va! Où? ")
		}
	}
	sb.WriteString("Fin.")
	text := sb.String()
	runes := []rune(text)

	for _, cfg := range []struct{ size, overlap int }{{500, 50}, {120, 30}, {80, 70}, {200, 0}} {
		chunks, err := ChunkText(text, cfg.size, cfg.overlap)
		require.NoError(t, err)
		require.NotEmpty(t, chunks)

		assert.Equal(t, 0, chunks[0].Start)
		assert.Equal(t, len(runes), chunks[len(chunks)-1].End)

		covered := 0
		for i, c := range chunks {
			assert.Equal(t, i, c.Index)
			assert.LessOrEqual(t, utf8.RuneCountInString(c.Text), cfg.size)
			assert.Equal(t, strings.TrimSpace(string(runes[c.Start:c.End])), c.Text)

			// windows leave no gap, so the text is rebuilt from the
			// non-overlapping tail of each window
			require.LessOrEqual(t, c.Start, covered)
			if i > 0 {
				assert.LessOrEqual(t, chunks[i-1].End-c.Start, cfg.overlap)
				assert.Greater(t, c.Start, chunks[i-1].Start)
			}
			covered = c.End
		}
		assert.Equal(t, len(runes), covered)
	}
}

func TestTexts(t *testing.T) {
	chunks := []Chunk{{Text: "a"}, {Text: "b"}}
	assert.Equal(t, []string{"a", "b"}, Texts(chunks))
}

func TestEstimateTokens(t *testing.T) {
	// Rough estimate: 4 chars per token
	text := "This is a test string with some words."
	tokens := EstimateTokens(text)

	// 39 characters / 4 = ~9-10 tokens
	if tokens < 5 || tokens > 15 {
		t.Errorf("EstimateTokens() = %d, want roughly 9-10", tokens)
	}
}
