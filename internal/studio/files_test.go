package studio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPaths(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "/tmp/bio.docx", []string{"/tmp/bio.docx"}},
		{"commas", "/a.txt, /b.pdf", []string{"/a.txt", "/b.pdf"}},
		{"quoted", `'/tmp/Artist Bio.docx'`, []string{"/tmp/Artist Bio.docx"}},
		{"escaped spaces", `/tmp/Artist\ Bio.docx`, []string{"/tmp/Artist Bio.docx"}},
		{"blank", " , \n ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPaths(tt.input))
		})
	}
}

func TestReadUploads(t *testing.T) {
	dir := t.TempDir()
	folder := filepath.Join(dir, "press")
	require.NoError(t, os.Mkdir(folder, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "a.html"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "sheet.xlsx"), []byte("x"), 0o644))
	single := filepath.Join(dir, "notes.csv")
	require.NoError(t, os.WriteFile(single, []byte("c"), 0o644))

	raws, err := ReadUploads([]string{folder, single})
	require.NoError(t, err)
	require.Len(t, raws, 3)
	assert.Equal(t, "a.html", raws[0].Filename)
	assert.Equal(t, "b.txt", raws[1].Filename)
	assert.Equal(t, "notes.csv", raws[2].Filename)
	assert.Equal(t, []byte("c"), raws[2].Data)
}

func TestReadUploadsErrors(t *testing.T) {
	_, err := ReadUploads([]string{filepath.Join(t.TempDir(), "missing.docx")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ReadUploads([]string{t.TempDir()})
	assert.ErrorContains(t, err, "no supported files")
}
