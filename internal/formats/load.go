package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sant0-9/copywriter/internal/document"
)

// LoadFile reads a rule file: YAML frontmatter between --- lines followed by
// an optional markdown body of extra notes. The doc_type defaults to the
// file name without extension.
func LoadFile(path string) (*Rule, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	front, body, err := splitFrontmatter(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var rule Rule
	if err := yaml.Unmarshal([]byte(front), &rule); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if rule.DocType == "" {
		rule.DocType = document.DocType(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	rule.Notes = body
	rule.Source = path

	if err := rule.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &rule, nil
}

func splitFrontmatter(content string) (string, string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, "---\n") {
		return "", "", errors.New("missing frontmatter")
	}
	rest := content[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", "", errors.New("unterminated frontmatter")
	}
	front := rest[:end]
	body := strings.TrimPrefix(rest[end+len("\n---"):], "\n")
	return front, strings.TrimSpace(body), nil
}

// LoadDir overlays the *.md rule files in dir on top of base. A missing
// directory yields base unchanged. Files that fail to parse are skipped and
// reported together in the returned error; the table is still usable.
func LoadDir(dir string, base *Table) (*Table, error) {
	t := base.clone()
	if dir == "" {
		return t, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return t, nil
		}
		return t, err
	}

	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			continue
		}
		rule, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		t.rules[rule.DocType] = rule
	}

	return t, errors.Join(errs...)
}
