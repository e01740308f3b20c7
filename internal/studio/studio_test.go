package studio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sant0-9/copywriter/internal/config"
	"github.com/sant0-9/copywriter/internal/document"
	"github.com/sant0-9/copywriter/internal/llm"
	"github.com/sant0-9/copywriter/internal/logging"
	"github.com/sant0-9/copywriter/internal/pipeline"
	"github.com/sant0-9/copywriter/internal/store"
	"github.com/sant0-9/copywriter/internal/writer"
)

type stubProvider struct {
	responses []string
	err       error
	requests  []*llm.CompletionRequest
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Ping(ctx context.Context) error { return nil }

func (s *stubProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.responses) == 0 {
		return &llm.CompletionResponse{}, nil
	}
	out := s.responses[0]
	s.responses = s.responses[1:]
	return &llm.CompletionResponse{Content: out}, nil
}

func newTestStudio(t *testing.T, cfg *config.Config, provider llm.Provider) (*Studio, *store.Artist) {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	cfg.DataDir = t.TempDir()

	st, err := store.Open(cfg.DataDir)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	st.SetLogger(logging.Discard())

	s, err := New(cfg, provider, st, logging.Discard())
	require.NoError(t, err)

	artist, err := s.CreateArtist(context.Background(), "Anna Lee")
	require.NoError(t, err)
	return s, artist
}

func upload(t *testing.T, s *Studio, artist *store.Artist, files map[string]string) {
	t.Helper()
	var raws []document.RawDocument
	for name, text := range files {
		raws = append(raws, document.RawDocument{Filename: name, Data: []byte(text)})
	}
	res, err := s.Upload(context.Background(), artist.ID, raws, nil)
	require.NoError(t, err)
	require.Empty(t, res.Failed())
}

func TestNewRejectsBadChunking(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Chunking = config.ChunkingConfig{Size: 100, Overlap: 100}

	_, err := New(cfg, &stubProvider{}, nil, logging.Discard())
	assert.ErrorIs(t, err, pipeline.ErrInvalidOverlap)
}

func TestUploadReportsProgress(t *testing.T) {
	s, artist := newTestStudio(t, nil, &stubProvider{})

	var last pipeline.Progress
	res, err := s.Upload(context.Background(), artist.ID, []document.RawDocument{
		{Filename: "Anna Bio.txt", Data: []byte("Anna paints the sea.")},
		{Filename: "budget.xlsx", Data: []byte("x")},
	}, func(p pipeline.Progress) { last = p })
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded())
	assert.Equal(t, pipeline.StageDone, last.Stage)

	docs, err := s.Documents(context.Background(), artist.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	require.NoError(t, s.DeleteDocument(context.Background(), docs[0].ID))
	docs, err = s.Documents(context.Background(), artist.ID)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestReextractAppliesCurrentChunking(t *testing.T) {
	cfg := config.DefaultConfig()
	s, artist := newTestStudio(t, cfg, &stubProvider{})
	ctx := context.Background()
	upload(t, s, artist, map[string]string{"Anna Bio.txt": strings.Repeat("Anna paints the sea at dawn. ", 40)})

	docs, err := s.Documents(ctx, artist.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	before, err := s.store.Chunks(ctx, docs[0].ID)
	require.NoError(t, err)

	cfg.Chunking = config.ChunkingConfig{Size: 100, Overlap: 10}
	var last pipeline.Progress
	res, err := s.Reextract(ctx, artist.ID, func(p pipeline.Progress) { last = p })
	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	assert.Empty(t, res.Failed())
	assert.Equal(t, docs[0].ID, res.Documents[0].DocumentID)
	assert.Equal(t, pipeline.StageDone, last.Stage)

	after, err := s.store.Chunks(ctx, docs[0].ID)
	require.NoError(t, err)
	assert.Len(t, after, res.Documents[0].Chunks)
	assert.Greater(t, len(after), len(before))

	again, err := s.Documents(ctx, artist.ID)
	require.NoError(t, err)
	assert.Equal(t, docs, again)
}

func TestBuildStyleGuide(t *testing.T) {
	provider := &stubProvider{responses: []string{"## Voice Snapshot\nWarm."}}
	s, artist := newTestStudio(t, nil, provider)
	ctx := context.Background()

	_, err := s.BuildStyleGuide(ctx, artist)
	assert.ErrorIs(t, err, ErrNoDocuments)
	assert.Empty(t, provider.requests)

	upload(t, s, artist, map[string]string{"Anna Bio.txt": "Anna paints the sea at dawn."})

	guide, err := s.BuildStyleGuide(ctx, artist)
	require.NoError(t, err)
	assert.Equal(t, "## Voice Snapshot\nWarm.", guide)
	assert.Contains(t, provider.requests[0].Text(), "--- Anna Bio.txt ---\nAnna paints the sea at dawn.")
	assert.Contains(t, provider.requests[0].Text(), "Anna Lee")

	saved, err := s.StyleGuide(ctx, artist.ID)
	require.NoError(t, err)
	assert.Equal(t, guide, saved)
}

func TestBuildStyleGuideFailureKeepsSavedGuide(t *testing.T) {
	provider := &stubProvider{err: errors.New("rate limited")}
	s, artist := newTestStudio(t, nil, provider)
	ctx := context.Background()

	upload(t, s, artist, map[string]string{"notes.txt": "Some notes."})
	require.NoError(t, s.SaveStyleGuide(ctx, artist.ID, "hand written guide"))

	_, err := s.BuildStyleGuide(ctx, artist)
	require.Error(t, err)
	assert.Len(t, provider.requests, 1, "no retry")

	saved, err := s.StyleGuide(ctx, artist.ID)
	require.NoError(t, err)
	assert.Equal(t, "hand written guide", saved)
}

func TestGenerateAndRevise(t *testing.T) {
	provider := &stubProvider{responses: []string{"First draft.", "Second draft."}}
	s, artist := newTestStudio(t, nil, provider)
	ctx := context.Background()

	_, err := s.Generate(ctx, artist, document.DocTypeBio, "brief", nil)
	assert.ErrorIs(t, err, writer.ErrNoStyleProfile)

	require.NoError(t, s.SaveStyleGuide(ctx, artist.ID, "Voice rules."))

	gen, err := s.Generate(ctx, artist, document.DocTypeBio, "Anna was born in Leeds.", nil)
	require.NoError(t, err)
	assert.Equal(t, "First draft.", gen.Copy)
	assert.Contains(t, provider.requests[0].Text(), "Voice rules.")
	assert.Contains(t, provider.requests[0].Text(), "Anna was born in Leeds.")

	revised, err := s.Revise(ctx, gen, "shorter please")
	require.NoError(t, err)
	assert.Equal(t, "Second draft.", revised.Copy)
	assert.Equal(t, 1, revised.Revisions)
	assert.Equal(t, "First draft.", gen.Copy)

	last := provider.requests[1]
	require.Len(t, last.Messages, 3)
	assert.Equal(t, "First draft.", last.Messages[1].Content)
}

func TestGenerateUsesConfiguredHouseStyle(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Gallery = config.GalleryConfig{Name: "Harbour Gallery", AvoidNames: []string{"Harbor Gallery"}}

	provider := &stubProvider{responses: []string{"ok", "ok"}}
	s, artist := newTestStudio(t, cfg, provider)
	ctx := context.Background()
	require.NoError(t, s.SaveStyleGuide(ctx, artist.ID, "Voice rules."))

	_, err := s.Generate(ctx, artist, document.DocTypePressRelease, "brief", nil)
	require.NoError(t, err)
	assert.Contains(t, provider.requests[0].Text(), `"Harbour Gallery" (never "Harbor Gallery")`)

	_, err = s.Converse(ctx, artist, "Write an Instagram caption", nil)
	require.NoError(t, err)
	assert.Contains(t, provider.requests[1].Text(), "Write an Instagram caption")
}

func TestFormatsDirOverridesRules(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bio.md"),
		[]byte("---\nlabel: Catalogue Bio\nmin_words: 80\nmax_words: 120\n---\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.md"), []byte("nothing"), 0o644))

	cfg := config.DefaultConfig()
	cfg.FormatsDir = dir
	s, _ := newTestStudio(t, cfg, &stubProvider{})

	assert.Equal(t, "Catalogue Bio", s.Rule(document.DocTypeBio).Title())
	assert.Equal(t, document.DocTypes, s.DocTypes())
}

func TestExportGeneration(t *testing.T) {
	s, artist := newTestStudio(t, nil, &stubProvider{})
	dir := t.TempDir()

	gen := &Generation{
		Artist:  artist,
		Request: writer.Request{DocType: document.DocTypePressRelease},
		Copy:    "## Night Market\n\nA **new** collection & more.",
	}
	out, err := s.ExportGeneration(dir, gen)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(out.Markdown), "anna-lee-press_release-"))
	md, err := os.ReadFile(out.Markdown)
	require.NoError(t, err)
	assert.Equal(t, gen.Copy+"\n", string(md))

	page, err := os.ReadFile(out.HTML)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>Anna Lee: Press Release</title>")
	assert.Contains(t, string(page), "<h2>Night Market</h2>")
	assert.Contains(t, string(page), "<strong>new</strong>")
	assert.Contains(t, string(page), "collection &amp; more")
}

func TestExportName(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "anna-lee-bio-20240501-0930", ExportName("anna-lee", "bio", at))
}

func TestExportDir(t *testing.T) {
	s, _ := newTestStudio(t, nil, &stubProvider{})
	dir, err := s.ExportDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.cfg.DataDir, "exports"), dir)
}

func TestLoadImages(t *testing.T) {
	dir := t.TempDir()
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "work.png"), png, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("text"), 0o644))

	images, err := LoadImages([]string{filepath.Join(dir, "work.png")})
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "image/png", images[0].MIMEType)

	_, err = LoadImages([]string{filepath.Join(dir, "notes.txt")})
	assert.ErrorIs(t, err, llm.ErrNotImage)
}
