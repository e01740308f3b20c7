package studio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sant0-9/copywriter/internal/document"
)

// SplitPaths splits user input into paths. Paths are separated by commas or
// newlines; quotes and backslash-escaped spaces from terminal drag and drop
// are removed.
func SplitPaths(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	var paths []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		f = strings.Trim(f, `"'`)
		f = strings.ReplaceAll(f, `\ `, " ")
		if f != "" {
			paths = append(paths, f)
		}
	}
	return paths
}

// ReadUploads reads files for upload. A directory contributes every
// supported file directly inside it, in name order. Unsupported files named
// explicitly are still read so the batch can report them.
func ReadUploads(paths []string) ([]document.RawDocument, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		var inDir []string
		for _, e := range entries {
			if !e.IsDir() && document.Supported(e.Name()) {
				inDir = append(inDir, filepath.Join(p, e.Name()))
			}
		}
		sort.Strings(inDir)
		files = append(files, inDir...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no supported files (%s)", strings.Join(document.SupportedExtensions(), ", "))
	}

	raws := make([]document.RawDocument, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		raws = append(raws, document.RawDocument{Filename: filepath.Base(f), Data: data})
	}
	return raws, nil
}
