package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b_notes.txt":      "Notes body.",
		"a_Artist Bio.txt": "Bio body.\n\nMore bio.",
		"c_broken.docx":    "not a zip",
		"ignored.xlsx":     "skip me",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0755))

	e := NewExtractor(WithLegacyConverter(&stubConverter{}))
	results, err := e.LoadDirectory(context.Background(), dir, 4)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, filepath.Join(dir, "a_Artist Bio.txt"), results[0].Path)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, DocTypeBio, results[0].Document.DocType)

	assert.NoError(t, results[1].Err)
	assert.Equal(t, "b_notes.txt", results[1].Document.Filename)

	assert.ErrorIs(t, results[2].Err, ErrExtractionFailed)
	assert.Nil(t, results[2].Document)

	docs := Documents(results)
	require.Len(t, docs, 2)
	assert.Equal(t, "a_Artist Bio.txt", docs[0].Filename)
}

func TestLoadDirectoryMissing(t *testing.T) {
	e := NewExtractor(WithLegacyConverter(&stubConverter{}))
	_, err := e.LoadDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"), 1)
	assert.Error(t, err)
}
