package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sant0-9/copywriter/internal/document"
)

type memUploader struct {
	stored map[string][]Chunk
	err    error
}

func (m *memUploader) UploadDocument(ctx context.Context, artistID string, raw document.RawDocument, doc *document.NormalizedDocument, chunks []Chunk) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.stored == nil {
		m.stored = make(map[string][]Chunk)
	}
	key := artistID + "/" + raw.Filename
	m.stored[key] = chunks
	return fmt.Sprintf("doc-%d", len(m.stored)), nil
}

func TestIngestContinuesPastFailures(t *testing.T) {
	up := &memUploader{}
	p := NewPipeline(document.NewExtractor(), up)

	var stages []Stage
	p.SetProgressCallback(func(pr Progress) { stages = append(stages, pr.Stage) })

	uploads := []document.RawDocument{
		{Filename: "Artist Bio.txt", Data: []byte(strings.Repeat("Painted light. ", 60))},
		{Filename: "sheet.xlsx", Data: []byte("nope")},
		{Filename: "broken.docx", Data: []byte("not a zip")},
		{Filename: "notes.txt", Data: []byte("Short note.")},
	}

	res, err := p.Ingest(context.Background(), "artist-1", uploads)
	require.NoError(t, err)
	require.Len(t, res.Documents, 4)

	assert.Equal(t, 2, res.Succeeded())
	failed := res.Failed()
	require.Len(t, failed, 2)
	assert.ErrorIs(t, failed[0].Err, document.ErrUnsupportedFormat)
	assert.ErrorIs(t, failed[1].Err, document.ErrExtractionFailed)

	assert.Equal(t, "doc-1", res.Documents[0].DocumentID)
	assert.Greater(t, res.Documents[0].Chunks, 1)
	assert.Len(t, up.stored["artist-1/Artist Bio.txt"], res.Documents[0].Chunks)
	assert.Equal(t, 1, res.Documents[3].Chunks)

	assert.Equal(t, StageDone, stages[len(stages)-1])
	assert.Contains(t, stages, StageStoring)
}

func TestIngestStoreError(t *testing.T) {
	up := &memUploader{err: errors.New("disk full")}
	p := NewPipeline(document.NewExtractor(), up)

	res, err := p.Ingest(context.Background(), "a", []document.RawDocument{{Filename: "a.txt", Data: []byte("text")}})
	require.NoError(t, err)
	require.Len(t, res.Failed(), 1)
	assert.ErrorContains(t, res.Documents[0].Err, "disk full")
	assert.NotNil(t, res.Documents[0].Document)
}

func TestIngestCancelled(t *testing.T) {
	p := NewPipeline(document.NewExtractor(), &memUploader{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := p.Ingest(ctx, "a", []document.RawDocument{{Filename: "a.txt", Data: []byte("text")}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Documents)
}

type memArchive struct {
	originals map[string]document.RawDocument
	docs      map[string]*document.NormalizedDocument
	chunks    map[string][]Chunk
}

func (m *memArchive) ReadOriginal(ctx context.Context, id string) (document.RawDocument, error) {
	raw, ok := m.originals[id]
	if !ok {
		return document.RawDocument{}, fmt.Errorf("document %s not found", id)
	}
	return raw, nil
}

func (m *memArchive) UpdateExtraction(ctx context.Context, id string, doc *document.NormalizedDocument, chunks []Chunk) error {
	m.docs[id] = doc
	m.chunks[id] = chunks
	return nil
}

func TestReextract(t *testing.T) {
	archive := &memArchive{
		originals: map[string]document.RawDocument{
			"d1": {Filename: "Artist Bio.txt", Data: []byte(strings.Repeat("Painted light. ", 60))},
			"d2": {Filename: "broken.docx", Data: []byte("not a zip")},
		},
		docs:   make(map[string]*document.NormalizedDocument),
		chunks: make(map[string][]Chunk),
	}
	p := NewPipeline(document.NewExtractor(), &memUploader{})
	require.NoError(t, p.SetChunking(200, 20))

	var last Progress
	p.SetProgressCallback(func(pr Progress) { last = pr })

	res, err := p.Reextract(context.Background(), archive, []string{"d1", "d2", "gone"})
	require.NoError(t, err)
	require.Len(t, res.Documents, 3)
	assert.Equal(t, 1, res.Succeeded())

	assert.Equal(t, "d1", res.Documents[0].DocumentID)
	assert.Equal(t, "Artist Bio.txt", res.Documents[0].Filename)
	assert.Equal(t, document.DocTypeBio, archive.docs["d1"].DocType)
	assert.Len(t, archive.chunks["d1"], res.Documents[0].Chunks)
	assert.Greater(t, res.Documents[0].Chunks, 1)
	for _, c := range archive.chunks["d1"] {
		assert.LessOrEqual(t, len([]rune(c.Text)), 200)
	}

	assert.ErrorIs(t, res.Documents[1].Err, document.ErrExtractionFailed)
	assert.NotContains(t, archive.docs, "d2")
	assert.ErrorContains(t, res.Documents[2].Err, "not found")

	assert.Equal(t, StageDone, last.Stage)
	assert.Equal(t, "Re-extracted 1 of 3 documents", last.Message)
}

func TestSetChunking(t *testing.T) {
	p := NewPipeline(document.NewExtractor(), &memUploader{})
	assert.ErrorIs(t, p.SetChunking(50, 50), ErrInvalidOverlap)
	require.NoError(t, p.SetChunking(100, 10))
	assert.Equal(t, 100, p.chunkSize)
	assert.Equal(t, 10, p.overlap)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "Extracting", StageExtracting.String())
	assert.Equal(t, "Done", StageDone.String())
	assert.Equal(t, "Unknown", Stage(42).String())
}
