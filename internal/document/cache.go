package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// CacheFile is the name of the processed-documents cache inside a directory
const CacheFile = "processed_documents.json"

// SaveCache writes documents to dir/processed_documents.json as indented,
// UTF-8 JSON and returns the path written
func SaveCache(dir string, docs []*NormalizedDocument) (string, error) {
	if docs == nil {
		docs = []*NormalizedDocument{}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		return "", fmt.Errorf("encode cache: %w", err)
	}

	path := filepath.Join(dir, CacheFile)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// LoadCache reads a cache written by SaveCache. A missing cache returns nil, nil.
func LoadCache(dir string) ([]*NormalizedDocument, error) {
	data, err := os.ReadFile(filepath.Join(dir, CacheFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var docs []*NormalizedDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode cache: %w", err)
	}
	return docs, nil
}
