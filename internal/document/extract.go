// Package document extracts plain text from gallery marketing documents.
//
// Supported formats:
//   - .docx       Word (zip archive, word/document.xml)
//   - .pdf        PDF (pdfcpu page content streams)
//   - .html, .htm HTML (tag stripping with paragraph reconstruction)
//   - .doc        legacy Word, via an external conversion tool
//   - .txt        plain UTF-8 text
package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedFormat   = errors.New("unsupported format")
	ErrExtractionFailed    = errors.New("extraction failed")
	ErrPlatformUnsupported = errors.New("legacy document conversion is not available on this platform")
)

// Format identifies a source file format
type Format string

const (
	FormatDocx Format = "docx"
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
	FormatDoc  Format = "doc"
	FormatTXT  Format = "txt"
)

var extensions = map[string]Format{
	".docx": FormatDocx,
	".pdf":  FormatPDF,
	".html": FormatHTML,
	".htm":  FormatHTML,
	".doc":  FormatDoc,
	".txt":  FormatTXT,
}

// DetectFormat returns the format for a filename based on its extension
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	format, ok := extensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return format, nil
}

// Supported reports whether the filename has a supported extension
func Supported(filename string) bool {
	_, err := DetectFormat(filename)
	return err == nil
}

// SupportedExtensions returns the accepted file extensions
func SupportedExtensions() []string {
	return []string{".docx", ".pdf", ".html", ".htm", ".doc", ".txt"}
}

// Extractor turns raw documents into NormalizedDocuments
type Extractor struct {
	legacy LegacyConverter
	logger *slog.Logger
}

// Option configures an Extractor
type Option func(*Extractor)

// WithLegacyConverter overrides the converter used for .doc files
func WithLegacyConverter(c LegacyConverter) Option {
	return func(e *Extractor) { e.legacy = c }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor creates an extractor using the default command-line converter
// for legacy .doc files
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.legacy == nil {
		e.legacy = NewCommandConverter()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Extract parses an in-memory document
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (*NormalizedDocument, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("extracting document", "filename", filename, "format", format, "bytes", len(data))

	var text string
	switch format {
	case FormatDocx:
		text, err = extractDocx(data)
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatHTML:
		text = extractHTML(data)
	case FormatDoc:
		text, err = e.legacy.ConvertLegacyDocument(ctx, data)
	case FormatTXT:
		text = extractPlain(data)
	}
	if err != nil {
		return nil, wrapExtraction(filename, err)
	}

	return Normalize(filepath.Base(filename), text), nil
}

// ExtractFile parses a document on disk. Legacy .doc files are handed to the
// converter by path so no temporary copy is needed.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*NormalizedDocument, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	if format == FormatDoc {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrExtractionFailed, path, err)
		}
		text, err := e.legacy.ConvertLegacyFile(ctx, path)
		if err != nil {
			return nil, wrapExtraction(path, err)
		}
		return Normalize(filepath.Base(path), text), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrExtractionFailed, path, err)
	}
	return e.Extract(ctx, path, data)
}

// wrapExtraction tags parser errors as ExtractionFailed unless they already
// carry one of the package's error kinds
func wrapExtraction(name string, err error) error {
	if errors.Is(err, ErrExtractionFailed) || errors.Is(err, ErrPlatformUnsupported) || errors.Is(err, ErrUnsupportedFormat) {
		return fmt.Errorf("%s: %w", name, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrExtractionFailed, name, err)
}
