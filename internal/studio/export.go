package studio

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/sant0-9/copywriter/internal/store"
)

// Exported holds the paths written by Export
type Exported struct {
	Markdown string
	HTML     string
}

const htmlPage = `<!DOCTYPE html>
<html lang="en-GB">
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

// RenderHTML converts markdown copy into a standalone HTML page
func RenderHTML(title, markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return fmt.Sprintf(htmlPage, html.EscapeString(title), buf.String()), nil
}

// ExportName builds a file stem such as "anna-lee-press_release-20240501-0900"
func ExportName(slug, kind string, at time.Time) string {
	return fmt.Sprintf("%s-%s-%s", slug, kind, at.Format("20060102-1504"))
}

// Export writes content to dir as <name>.md and <name>.html
func Export(dir, name, title, content string) (*Exported, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	page, err := RenderHTML(title, content)
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	out := &Exported{
		Markdown: filepath.Join(dir, name+".md"),
		HTML:     filepath.Join(dir, name+".html"),
	}
	if err := os.WriteFile(out.Markdown, []byte(strings.TrimSpace(content)+"\n"), 0o644); err != nil {
		return nil, err
	}
	if err := os.WriteFile(out.HTML, []byte(page), 0o644); err != nil {
		return nil, err
	}
	return out, nil
}

// ExportGeneration writes a generation under dir, named after the artist
// and document type
func (s *Studio) ExportGeneration(dir string, gen *Generation) (*Exported, error) {
	rule := s.rules.Lookup(gen.Request.DocType)
	name := ExportName(gen.Artist.Slug, string(rule.DocType), time.Now())
	title := fmt.Sprintf("%s: %s", gen.Artist.Name, rule.Title())
	out, err := Export(dir, name, title, gen.Copy)
	if err != nil {
		return nil, err
	}
	s.logger.Info("copy exported", "markdown", out.Markdown, "html", out.HTML)
	return out, nil
}

// ExportStyleGuide writes an artist's saved guide under dir
func (s *Studio) ExportStyleGuide(dir string, artist *store.Artist, guide string) (*Exported, error) {
	name := ExportName(artist.Slug, "style-guide", time.Now())
	return Export(dir, name, artist.Name+": Style Guide", guide)
}

// ExportDir returns the default export directory inside the data dir
func (s *Studio) ExportDir() (string, error) {
	dir, err := s.cfg.ResolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "exports"), nil
}
