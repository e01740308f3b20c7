package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sant0-9/copywriter/internal/document"
)

// Stage represents a pipeline stage
type Stage int

const (
	StageExtracting Stage = iota
	StageChunking
	StageStoring
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageExtracting:
		return "Extracting"
	case StageChunking:
		return "Chunking"
	case StageStoring:
		return "Storing"
	case StageDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Progress represents pipeline progress
type Progress struct {
	Stage      Stage
	ItemIndex  int
	TotalItems int
	Filename   string
	Message    string
}

// Uploader persists an extracted document with its raw bytes and chunks
// and returns the stored document's ID
type Uploader interface {
	UploadDocument(ctx context.Context, artistID string, raw document.RawDocument, doc *document.NormalizedDocument, chunks []Chunk) (string, error)
}

// Archive gives back stored originals and accepts a fresh extraction for them
type Archive interface {
	ReadOriginal(ctx context.Context, documentID string) (document.RawDocument, error)
	UpdateExtraction(ctx context.Context, documentID string, doc *document.NormalizedDocument, chunks []Chunk) error
}

// DocumentResult is the outcome for one uploaded file
type DocumentResult struct {
	Filename   string
	DocumentID string
	Document   *document.NormalizedDocument
	Chunks     int
	Err        error
}

// Result contains pipeline output
type Result struct {
	Documents []DocumentResult
}

// Succeeded returns the number of documents stored without error
func (r *Result) Succeeded() int {
	n := 0
	for _, d := range r.Documents {
		if d.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the results that carry an error
func (r *Result) Failed() []DocumentResult {
	var failed []DocumentResult
	for _, d := range r.Documents {
		if d.Err != nil {
			failed = append(failed, d)
		}
	}
	return failed
}

// Pipeline extracts, chunks and stores uploaded documents
type Pipeline struct {
	extractor  *document.Extractor
	uploader   Uploader
	chunkSize  int
	overlap    int
	logger     *slog.Logger
	onProgress func(Progress)
}

// NewPipeline creates a new pipeline with default chunking
func NewPipeline(extractor *document.Extractor, uploader Uploader) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		uploader:  uploader,
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
		logger:    slog.Default(),
	}
}

// SetChunking sets the chunk size and overlap used for stored chunks
func (p *Pipeline) SetChunking(size, overlap int) error {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if overlap >= size {
		return ErrInvalidOverlap
	}
	p.chunkSize = size
	p.overlap = overlap
	return nil
}

// SetLogger sets the logger
func (p *Pipeline) SetLogger(l *slog.Logger) {
	p.logger = l
}

// SetProgressCallback sets the progress callback
func (p *Pipeline) SetProgressCallback(fn func(Progress)) {
	p.onProgress = fn
}

func (p *Pipeline) progress(pr Progress) {
	if p.onProgress != nil {
		p.onProgress(pr)
	}
}

// Ingest processes uploads one at a time. A document that fails is recorded
// in the result and the rest of the batch carries on; only cancellation
// stops the batch early.
func (p *Pipeline) Ingest(ctx context.Context, artistID string, uploads []document.RawDocument) (*Result, error) {
	result := &Result{Documents: make([]DocumentResult, 0, len(uploads))}

	for i, raw := range uploads {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		res := p.ingestOne(ctx, artistID, raw, i, len(uploads))
		if res.Err != nil {
			p.logger.Warn("document ingestion failed", "artist_id", artistID, "file", raw.Filename, "error", res.Err)
		} else {
			p.logger.Info("document ingested", "artist_id", artistID, "file", raw.Filename,
				"words", res.Document.WordCount, "chunks", res.Chunks)
		}
		result.Documents = append(result.Documents, res)
	}

	p.progress(Progress{
		Stage:      StageDone,
		ItemIndex:  len(uploads),
		TotalItems: len(uploads),
		Message:    fmt.Sprintf("Processed %d of %d documents", result.Succeeded(), len(uploads)),
	})

	return result, nil
}

func (p *Pipeline) ingestOne(ctx context.Context, artistID string, raw document.RawDocument, i, total int) DocumentResult {
	res := DocumentResult{Filename: raw.Filename}
	pr := Progress{ItemIndex: i + 1, TotalItems: total, Filename: raw.Filename}

	doc, chunks, err := p.process(ctx, raw, pr)
	res.Document = doc
	res.Chunks = len(chunks)
	if err != nil {
		res.Err = err
		return res
	}

	pr.Stage = StageStoring
	pr.Message = fmt.Sprintf("Saving %s", raw.Filename)
	p.progress(pr)

	id, err := p.uploader.UploadDocument(ctx, artistID, raw, doc, chunks)
	if err != nil {
		res.Err = fmt.Errorf("store %s: %w", raw.Filename, err)
		return res
	}
	res.DocumentID = id
	return res
}

// Reextract runs stored originals through extraction and chunking again
// and replaces what was saved for them, so documents pick up the current
// chunk settings or a converter installed since upload. Failures are
// per document, as in Ingest.
func (p *Pipeline) Reextract(ctx context.Context, archive Archive, documentIDs []string) (*Result, error) {
	result := &Result{Documents: make([]DocumentResult, 0, len(documentIDs))}

	for i, id := range documentIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		res := p.reextractOne(ctx, archive, id, i, len(documentIDs))
		if res.Err != nil {
			p.logger.Warn("document re-extraction failed", "document_id", id, "file", res.Filename, "error", res.Err)
		} else {
			p.logger.Info("document re-extracted", "document_id", id, "file", res.Filename,
				"words", res.Document.WordCount, "chunks", res.Chunks)
		}
		result.Documents = append(result.Documents, res)
	}

	p.progress(Progress{
		Stage:      StageDone,
		ItemIndex:  len(documentIDs),
		TotalItems: len(documentIDs),
		Message:    fmt.Sprintf("Re-extracted %d of %d documents", result.Succeeded(), len(documentIDs)),
	})

	return result, nil
}

func (p *Pipeline) reextractOne(ctx context.Context, archive Archive, id string, i, total int) DocumentResult {
	res := DocumentResult{DocumentID: id}

	raw, err := archive.ReadOriginal(ctx, id)
	if err != nil {
		res.Err = err
		return res
	}
	res.Filename = raw.Filename
	pr := Progress{ItemIndex: i + 1, TotalItems: total, Filename: raw.Filename}

	doc, chunks, err := p.process(ctx, raw, pr)
	res.Document = doc
	res.Chunks = len(chunks)
	if err != nil {
		res.Err = err
		return res
	}

	pr.Stage = StageStoring
	pr.Message = fmt.Sprintf("Saving %s", raw.Filename)
	p.progress(pr)

	if err := archive.UpdateExtraction(ctx, id, doc, chunks); err != nil {
		res.Err = fmt.Errorf("store %s: %w", raw.Filename, err)
	}
	return res
}

// process extracts and chunks one file, reporting both stages
func (p *Pipeline) process(ctx context.Context, raw document.RawDocument, pr Progress) (*document.NormalizedDocument, []Chunk, error) {
	pr.Stage = StageExtracting
	pr.Message = fmt.Sprintf("Extracting text from %s (%d/%d)", raw.Filename, pr.ItemIndex, pr.TotalItems)
	p.progress(pr)

	doc, err := p.extractor.Extract(ctx, raw.Filename, raw.Data)
	if err != nil {
		return nil, nil, err
	}

	pr.Stage = StageChunking
	pr.Message = fmt.Sprintf("Chunking %s", raw.Filename)
	p.progress(pr)

	chunks, err := ChunkText(doc.FullText, p.chunkSize, p.overlap)
	if err != nil {
		return doc, nil, err
	}
	return doc, chunks, nil
}
