package document

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"
)

// FileResult is the outcome of extracting one file in a batch
type FileResult struct {
	Path     string
	Document *NormalizedDocument
	Err      error
}

// LoadDirectory extracts every supported file directly inside dir. Files are
// returned in name order; a failing file is reported in its result and never
// stops the rest of the batch. workers bounds parallelism (1 = sequential).
func (e *Extractor) LoadDirectory(ctx context.Context, dir string, workers int) ([]FileResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !Supported(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	if workers < 1 {
		workers = 1
	}

	results := make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = FileResult{Path: path, Err: err}
				return nil
			}
			doc, err := e.ExtractFile(gctx, path)
			results[i] = FileResult{Path: path, Document: doc, Err: err}
			if err != nil {
				e.logger.Warn("error parsing document", "file", filepath.Base(path), "error", err)
			} else {
				e.logger.Info("parsed document", "file", doc.Filename, "words", doc.WordCount, "type", doc.DocType)
			}
			return nil
		})
	}

	// per-file errors live in results; Wait only reports cancellation
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// Documents returns the successfully extracted documents of a batch
func Documents(results []FileResult) []*NormalizedDocument {
	var docs []*NormalizedDocument
	for _, r := range results {
		if r.Err == nil && r.Document != nil {
			docs = append(docs, r.Document)
		}
	}
	return docs
}
