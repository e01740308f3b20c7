package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sant0-9/copywriter/internal/document"
	"github.com/sant0-9/copywriter/internal/formats"
	"github.com/sant0-9/copywriter/internal/llm"
	"github.com/sant0-9/copywriter/internal/pipeline"
	"github.com/sant0-9/copywriter/internal/studio"
	"github.com/sant0-9/copywriter/internal/style"
	"github.com/sant0-9/copywriter/internal/writer"
)

type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// runIngest extracts every supported file in a directory and writes the
// JSON document cache
func runIngest(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("out", "", "directory for processed_documents.json (default: the input directory)")
	workers := fs.Int("workers", 0, "parallel extractions (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: copywriter ingest [-out dir] [-workers n] <dir>")
	}
	dir := fs.Arg(0)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if *workers <= 0 {
		*workers = cfg.Ingest.Workers
	}
	if *out == "" {
		*out = dir
	}

	extractor := document.NewExtractor(document.WithLogger(cliLogger(stderr, cfg)))
	results, err := extractor.LoadDirectory(ctx, dir, *workers)
	if err != nil {
		return err
	}

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stdout, "FAILED  %s: %v\n", filepath.Base(r.Path), r.Err)
			continue
		}
		d := r.Document
		fmt.Fprintf(stdout, "%-8s%s\n", "OK", d.Filename)
		fmt.Fprintf(stdout, "  Type: %s\n  Words: %d\n  Paragraphs: %d\n", d.DocType, d.WordCount, len(d.Paragraphs))
	}

	docs := document.Documents(results)
	path, err := document.SaveCache(*out, docs)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\nLoaded %d of %d documents, saved %s\n", len(docs), len(results), path)
	return nil
}

// runChunk prints the retrieval chunks of one file
func runChunk(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("chunk", flag.ContinueOnError)
	fs.SetOutput(stderr)
	size := fs.Int("size", pipeline.DefaultChunkSize, "chunk size in characters")
	overlap := fs.Int("overlap", pipeline.DefaultOverlap, "overlap between chunks in characters")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: copywriter chunk [-size n] [-overlap n] <file>")
	}

	extractor := document.NewExtractor(document.WithLogger(cliLogger(stderr, nil)))
	doc, err := extractor.ExtractFile(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}
	chunks, err := pipeline.ChunkText(doc.FullText, *size, *overlap)
	if err != nil {
		return err
	}

	for _, c := range chunks {
		fmt.Fprintf(stdout, "--- chunk %d [%d:%d] ---\n%s\n\n", c.Index, c.Start, c.End, c.Text)
	}
	fmt.Fprintf(stdout, "%d chunks from %s (%d words)\n", len(chunks), doc.Filename, doc.WordCount)
	return nil
}

// runAnalyze prints a style profile for the documents in a directory. The
// JSON cache written by ingest is used when present.
func runAnalyze(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	artist := fs.String("artist", "", "artist name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: copywriter analyze [-artist name] <dir>")
	}
	dir := fs.Arg(0)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := cliLogger(stderr, cfg)

	docs, err := document.LoadCache(dir)
	if err != nil {
		return err
	}
	if docs == nil {
		results, err := document.NewExtractor(document.WithLogger(logger)).LoadDirectory(ctx, dir, cfg.Ingest.Workers)
		if err != nil {
			return err
		}
		docs = document.Documents(results)
	}

	provider, err := llm.NewProvider(cfg)
	if err != nil {
		return err
	}
	analyzer := style.NewAnalyzer(provider, cfg.Model,
		style.WithGallery(cfg.Gallery.Name),
		style.WithLogger(logger))

	guide, err := analyzer.Analyze(ctx, style.SourcesFromDocuments(docs), *artist)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, guide)
	return nil
}

// runWrite generates one piece of copy from a saved style guide and a brief
func runWrite(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("write", flag.ContinueOnError)
	fs.SetOutput(stderr)
	guidePath := fs.String("guide", "", "style guide file")
	briefPath := fs.String("brief", "", "brief file (- for stdin)")
	docType := fs.String("type", string(document.DocTypeGeneral), "document type: press_release, bio, collection_overview, paid_ads, general")
	var images stringList
	fs.Var(&images, "image", "artwork image (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *guidePath == "" || *briefPath == "" {
		return fmt.Errorf("usage: copywriter write -guide file -brief file [-type doc_type] [-image path]")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := cliLogger(stderr, cfg)

	guide, err := os.ReadFile(*guidePath)
	if err != nil {
		return err
	}
	var brief []byte
	if *briefPath == "-" {
		brief, err = io.ReadAll(os.Stdin)
	} else {
		brief, err = os.ReadFile(*briefPath)
	}
	if err != nil {
		return err
	}

	imgs, err := studio.LoadImages(images)
	if err != nil {
		return err
	}

	rules, err := formats.LoadDir(cfg.FormatsDir, formats.Builtin())
	if err != nil {
		logger.Warn("some format rule files were skipped", "error", err)
	}

	provider, err := llm.NewProvider(cfg)
	if err != nil {
		return err
	}
	w := writer.NewWriter(provider, cfg.Model,
		writer.WithRules(rules),
		writer.WithHouseStyle(writer.HouseStyle{Gallery: cfg.Gallery.Name, AvoidNames: cfg.Gallery.AvoidNames}),
		writer.WithLogger(logger))

	out, err := w.Write(ctx, &writer.Request{
		StyleProfile: string(guide),
		DocType:      document.DocType(*docType),
		Brief:        string(brief),
		Images:       imgs,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, out)
	return nil
}
