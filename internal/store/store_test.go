package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sant0-9/copywriter/internal/document"
	"github.com/sant0-9/copywriter/internal/pipeline"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	// monotonic clock so upload order is deterministic
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Sarah Jane Smith", "sarah-jane-smith"},
		{"  Banksy ", "banksy"},
		{"Mr Brainwash", "mr-brainwash"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.name))
		})
	}
}

func TestArtists(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	zed, err := s.CreateArtist(ctx, "Zed Artist")
	require.NoError(t, err)
	assert.Equal(t, "zed-artist", zed.Slug)
	assert.NotEmpty(t, zed.ID)

	_, err = s.CreateArtist(ctx, "Anna Lee")
	require.NoError(t, err)

	_, err = s.CreateArtist(ctx, "zed artist")
	assert.ErrorIs(t, err, ErrArtistExists)

	_, err = s.CreateArtist(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalidName)

	artists, err := s.ListArtists(ctx)
	require.NoError(t, err)
	require.Len(t, artists, 2)
	assert.Equal(t, "Anna Lee", artists[0].Name)
	assert.Equal(t, "Zed Artist", artists[1].Name)

	got, err := s.ArtistBySlug(ctx, "zed-artist")
	require.NoError(t, err)
	assert.Equal(t, zed.ID, got.ID)
	assert.False(t, got.HasStyleGuide)

	_, err = s.ArtistBySlug(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStyleGuideUpsert(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	a, err := s.CreateArtist(ctx, "Anna Lee")
	require.NoError(t, err)

	guide, err := s.StyleGuide(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, guide)

	require.NoError(t, s.SaveStyleGuide(ctx, a.ID, "first"))
	require.NoError(t, s.SaveStyleGuide(ctx, a.ID, "second"))

	guide, err = s.StyleGuide(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", guide)

	got, err := s.Artist(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.HasStyleGuide)
}

func TestUploadDocument(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	a, err := s.CreateArtist(ctx, "Anna Lee")
	require.NoError(t, err)

	raw := document.RawDocument{Filename: "Anna Bio.txt", Data: []byte("Anna paints the sea.")}
	doc := document.Normalize(raw.Filename, "Anna paints the sea.")
	chunks, err := pipeline.ChunkText(doc.FullText, 500, 50)
	require.NoError(t, err)

	id, err := s.UploadDocument(ctx, a.ID, raw, doc, chunks)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(s.root, "documents", "anna-lee", "Anna Bio.txt"))
	require.NoError(t, err)
	assert.Equal(t, raw.Data, data)

	docs, err := s.ListDocuments(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID)
	assert.Equal(t, "anna-lee/Anna Bio.txt", docs[0].StoragePath)
	assert.Equal(t, document.DocTypeBio, docs[0].DocType)
	assert.Equal(t, int64(len(raw.Data)), docs[0].FileSize)
	assert.Equal(t, 4, docs[0].WordCount)

	original, err := s.ReadOriginal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, raw, original)

	stored, err := s.Chunks(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, chunks, stored)

	_, err = s.UploadDocument(ctx, a.ID, raw, doc, chunks)
	assert.ErrorIs(t, err, ErrDocumentExists)

	_, err = s.UploadDocument(ctx, "missing", raw, doc, chunks)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateExtraction(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	a, err := s.CreateArtist(ctx, "Anna Lee")
	require.NoError(t, err)

	raw := document.RawDocument{Filename: "notes.txt", Data: []byte("old text")}
	oldChunks, err := pipeline.ChunkText("old text", 500, 50)
	require.NoError(t, err)
	id, err := s.UploadDocument(ctx, a.ID, raw, document.Normalize(raw.Filename, "old text"), oldChunks)
	require.NoError(t, err)

	doc := document.Normalize("Anna Press Release.txt", "First paragraph here.\n\nSecond one.")
	chunks := []pipeline.Chunk{
		{Index: 0, Text: "First paragraph here.", Start: 0, End: 21},
		{Index: 1, Text: "Second one.", Start: 23, End: 34},
	}
	require.NoError(t, s.UpdateExtraction(ctx, id, doc, chunks))

	docs, err := s.ListDocuments(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "notes.txt", docs[0].Filename)
	assert.Equal(t, document.DocTypePressRelease, docs[0].DocType)
	assert.Equal(t, doc.WordCount, docs[0].WordCount)

	stored, err := s.Chunks(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, chunks, stored)

	original, err := s.ReadOriginal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, raw, original)

	assert.ErrorIs(t, s.UpdateExtraction(ctx, "missing", doc, nil), ErrNotFound)
	_, err = s.ReadOriginal(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentTextsOrder(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	a, err := s.CreateArtist(ctx, "Anna Lee")
	require.NoError(t, err)

	for _, name := range []string{"b.txt", "a.txt", "c.txt"} {
		raw := document.RawDocument{Filename: name, Data: []byte("text of " + name)}
		_, err := s.UploadDocument(ctx, a.ID, raw, document.Normalize(name, "text of "+name), nil)
		require.NoError(t, err)
	}

	docs, err := s.DocumentTexts(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "b.txt", docs[0].Filename)
	assert.Equal(t, "a.txt", docs[1].Filename)
	assert.Equal(t, "text of c.txt", docs[2].FullText)
}

func TestDeleteDocument(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	a, err := s.CreateArtist(ctx, "Anna Lee")
	require.NoError(t, err)

	raw := document.RawDocument{Filename: "notes.txt", Data: []byte("One. Two.")}
	doc := document.Normalize(raw.Filename, "One. Two.")
	chunks, err := pipeline.ChunkText(doc.FullText, 500, 50)
	require.NoError(t, err)
	id, err := s.UploadDocument(ctx, a.ID, raw, doc, chunks)
	require.NoError(t, err)

	// file already gone is tolerated
	require.NoError(t, os.Remove(filepath.Join(s.root, "documents", "anna-lee", "notes.txt")))
	require.NoError(t, s.DeleteDocument(ctx, id))

	docs, err := s.ListDocuments(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, docs)

	stored, err := s.Chunks(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, stored)

	assert.ErrorIs(t, s.DeleteDocument(ctx, id), ErrNotFound)

	// the name can be reused after deletion
	_, err = s.UploadDocument(ctx, a.ID, raw, doc, chunks)
	require.NoError(t, err)
}

func TestPipelineIntoStore(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	a, err := s.CreateArtist(ctx, "Anna Lee")
	require.NoError(t, err)

	p := pipeline.NewPipeline(document.NewExtractor(), s)
	res, err := p.Ingest(ctx, a.ID, []document.RawDocument{
		{Filename: "Press Release.txt", Data: []byte("Gallery news.\n\nMore news.")},
		{Filename: "bad.xlsx", Data: []byte("x")},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded())

	docs, err := s.ListDocuments(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, document.DocTypePressRelease, docs[0].DocType)
}
