package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sant0-9/copywriter/internal/document"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("COPYWRITER_CONFIG_DIR", t.TempDir())
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestIngest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Artist Bio.txt"), []byte("Painted light over the harbour.\n\nSecond paragraph."), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.docx"), []byte("not a zip"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prices.xlsx"), []byte("skip"), 0644))
	out := t.TempDir()

	stdout, err := runCmd(t, "ingest", "-out", out, dir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "OK      Artist Bio.txt")
	assert.Contains(t, stdout, "Type: bio")
	assert.Contains(t, stdout, "Paragraphs: 2")
	assert.Contains(t, stdout, "FAILED  broken.docx")
	assert.NotContains(t, stdout, "prices.xlsx")
	assert.Contains(t, stdout, "Loaded 1 of 2 documents")

	docs, err := document.LoadCache(out)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Artist Bio.txt", docs[0].Filename)
}

func TestChunk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	text := strings.Repeat("The harbour at dusk. ", 40)
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))

	stdout, err := runCmd(t, "chunk", "-size", "200", "-overlap", "20", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "--- chunk 0 [0:")
	assert.Contains(t, stdout, "--- chunk 1 [")
	assert.Contains(t, stdout, "from notes.txt (160 words)")

	_, err = runCmd(t, "chunk", "-size", "50", "-overlap", "50", path)
	assert.Error(t, err)
}

func TestRunUsage(t *testing.T) {
	stdout, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "copywriter "))

	_, err = runCmd(t, "publish")
	assert.ErrorContains(t, err, `unknown command "publish"`)

	_, err = runCmd(t, "ingest")
	assert.Error(t, err)
}
