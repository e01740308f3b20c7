package style

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sant0-9/copywriter/internal/document"
	"github.com/sant0-9/copywriter/internal/llm"
)

// stubProvider returns a canned answer and records the request
type stubProvider struct {
	content string
	err     error
	got     *llm.CompletionRequest
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Ping(ctx context.Context) error { return nil }

func (s *stubProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Content: s.content}, nil
}

func TestCorpusPreservesOrder(t *testing.T) {
	corpus := Corpus([]Source{
		{Filename: "b.txt", Text: "Second doc"},
		{Filename: "a.txt", Text: "First doc"},
		{Filename: "b.txt", Text: "Second doc"},
	})
	assert.Equal(t, "\n\n--- b.txt ---\nSecond doc\n\n--- a.txt ---\nFirst doc\n\n--- b.txt ---\nSecond doc", corpus)
}

func TestSourcesFromDocuments(t *testing.T) {
	docs := []*document.NormalizedDocument{
		document.Normalize("one.txt", "Alpha"),
		document.Normalize("two.txt", "Beta"),
	}
	assert.Equal(t, []Source{{"one.txt", "Alpha"}, {"two.txt", "Beta"}}, SourcesFromDocuments(docs))
}

func TestBuildRequest(t *testing.T) {
	a := NewAnalyzer(&stubProvider{}, "gpt-4o")
	req, err := a.BuildRequest([]Source{{Filename: "Artist Bio.docx", Text: "She paints northern light."}}, "Jane Doe")
	require.NoError(t, err)

	require.Len(t, req.Messages, 2)
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "brand-voice strategist")
	assert.Contains(t, req.Messages[0].Content, "You do NOT summarise documents")

	user := req.Messages[1].Content
	assert.Contains(t, user, "about Jane Doe")
	assert.Contains(t, user, "--- Artist Bio.docx ---\nShe paints northern light.")
	assert.Contains(t, user, "bracket placeholder")
	assert.Contains(t, user, "9) Two mini sample paragraphs")

	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, 6000, req.MaxTokens)
	assert.Equal(t, "gpt-4o", req.Model)
}

func TestBuildRequestDefaultArtist(t *testing.T) {
	a := NewAnalyzer(&stubProvider{}, "")
	req, err := a.BuildRequest([]Source{{Filename: "x.txt", Text: "x"}}, "  ")
	require.NoError(t, err)
	assert.Contains(t, req.Messages[1].Content, "about the artist")
}

func TestAnalyze(t *testing.T) {
	stub := &stubProvider{content: "\n  ## Voice Snapshot\n- Warm  \n"}
	a := NewAnalyzer(stub, "gpt-4o", WithGallery("Harbour Gallery"))

	profile, err := a.Analyze(context.Background(), []Source{{Filename: "x.txt", Text: "x"}}, "Jane")
	require.NoError(t, err)
	assert.Equal(t, "## Voice Snapshot\n- Warm", profile)
	assert.Contains(t, stub.got.Messages[1].Content, "Harbour Gallery will donate [amount]")
}

func TestAnalyzeFailures(t *testing.T) {
	tests := []struct {
		name    string
		stub    *stubProvider
		sources []Source
	}{
		{"provider error", &stubProvider{err: errors.New("timeout")}, []Source{{"a.txt", "a"}}},
		{"empty response", &stubProvider{content: "   \n"}, []Source{{"a.txt", "a"}}},
		{"no documents", &stubProvider{content: "profile"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAnalyzer(tt.stub, "m").Analyze(context.Background(), tt.sources, "Jane")
			assert.ErrorIs(t, err, ErrAnalysisFailed)
		})
	}
}

func TestAnalyzeKeepsCauseText(t *testing.T) {
	_, err := NewAnalyzer(&stubProvider{err: errors.New("rate limited")}, "m").
		Analyze(context.Background(), []Source{{"a.txt", "a"}}, "Jane")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "rate limited"))
}
