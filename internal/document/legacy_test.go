package document

import (
	"context"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandConverterCleansUpTempFile(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)

	conv := NewCommandConverter(Tool{Name: "cat", Args: func(path string) []string { return []string{path} }})
	text, err := conv.ConvertLegacyDocument(context.Background(), []byte("  legacy body\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "legacy body", text)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary .doc file should be removed")
}

func TestCommandConverterToolFailure(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}
	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)

	conv := NewCommandConverter(Tool{Name: "false", Args: func(path string) []string { return nil }})
	_, err := conv.ConvertLegacyDocument(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, ErrExtractionFailed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCommandConverterNoTool(t *testing.T) {
	conv := NewCommandConverter(Tool{Name: "copywriter-no-such-converter", Args: func(path string) []string { return nil }})

	_, err := conv.ConvertLegacyDocument(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, ErrPlatformUnsupported)

	_, err = conv.ConvertLegacyFile(context.Background(), "old.doc")
	assert.ErrorIs(t, err, ErrPlatformUnsupported)
}
