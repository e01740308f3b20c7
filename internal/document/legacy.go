package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// LegacyConverter converts legacy binary Word (.doc) files to text.
// It is the only platform-bound piece of the extraction pipeline.
type LegacyConverter interface {
	ConvertLegacyDocument(ctx context.Context, data []byte) (string, error)
	ConvertLegacyFile(ctx context.Context, path string) (string, error)
}

// Tool describes an external program that prints a .doc file as plain text
type Tool struct {
	Name string
	Args func(path string) []string
}

// DefaultTools are tried in order: textutil ships with macOS, antiword and
// catdoc are the usual packages on Linux.
var DefaultTools = []Tool{
	{Name: "textutil", Args: func(path string) []string { return []string{"-convert", "txt", "-stdout", path} }},
	{Name: "antiword", Args: func(path string) []string { return []string{path} }},
	{Name: "catdoc", Args: func(path string) []string { return []string{"-w", path} }},
}

// CommandConverter shells out to the first available Tool
type CommandConverter struct {
	tools   []Tool
	timeout time.Duration
}

// NewCommandConverter creates a converter over the given tools, or
// DefaultTools when none are given
func NewCommandConverter(tools ...Tool) *CommandConverter {
	if len(tools) == 0 {
		tools = DefaultTools
	}
	return &CommandConverter{
		tools:   tools,
		timeout: 2 * time.Minute,
	}
}

func (c *CommandConverter) findTool() (string, Tool, error) {
	for _, t := range c.tools {
		path, err := exec.LookPath(t.Name)
		if err == nil {
			return path, t, nil
		}
	}
	names := make([]string, len(c.tools))
	for i, t := range c.tools {
		names[i] = t.Name
	}
	return "", Tool{}, fmt.Errorf("%w: none of %s found in PATH", ErrPlatformUnsupported, strings.Join(names, ", "))
}

// ConvertLegacyDocument writes data to a temporary file, converts it and
// removes the file again whatever the outcome
func (c *CommandConverter) ConvertLegacyDocument(ctx context.Context, data []byte) (string, error) {
	if _, _, err := c.findTool(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "copywriter-*.doc")
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %w", ErrExtractionFailed, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		return "", fmt.Errorf("%w: write temp file: %w", ErrExtractionFailed, err)
	}

	return c.ConvertLegacyFile(ctx, tmpPath)
}

// ConvertLegacyFile runs the conversion tool on a file path
func (c *CommandConverter) ConvertLegacyFile(ctx context.Context, path string) (string, error) {
	toolPath, tool, err := c.findTool()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, toolPath, tool.Args(path)...)
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: %s: %s", ErrExtractionFailed, tool.Name, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("%w: failed to run %s: %w", ErrExtractionFailed, tool.Name, err)
	}

	return strings.TrimSpace(extractPlain(output)), nil
}
