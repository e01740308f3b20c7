// Package studio ties the pieces together for the UI and CLI: artists and
// their documents, style guide builds, copy generation and export.
package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sant0-9/copywriter/internal/config"
	"github.com/sant0-9/copywriter/internal/document"
	"github.com/sant0-9/copywriter/internal/formats"
	"github.com/sant0-9/copywriter/internal/llm"
	"github.com/sant0-9/copywriter/internal/pipeline"
	"github.com/sant0-9/copywriter/internal/store"
	"github.com/sant0-9/copywriter/internal/style"
	"github.com/sant0-9/copywriter/internal/writer"
)

// ErrNoDocuments is returned when a style guide build has nothing to read
var ErrNoDocuments = errors.New("no documents uploaded")

// Studio is the application service behind the UI
type Studio struct {
	cfg       *config.Config
	provider  llm.Provider
	store     *store.Store
	extractor *document.Extractor
	analyzer  *style.Analyzer
	writer    *writer.Writer
	rules     *formats.Table
	logger    *slog.Logger
}

// New wires a studio from config. Format rule files in cfg.FormatsDir that
// fail to load are logged and skipped.
func New(cfg *config.Config, provider llm.Provider, st *store.Store, logger *slog.Logger) (*Studio, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rules, err := formats.LoadDir(cfg.FormatsDir, formats.Builtin())
	if err != nil {
		logger.Warn("some format rule files were skipped", "dir", cfg.FormatsDir, "error", err)
	}

	house := writer.HouseStyle{
		Gallery:    cfg.Gallery.Name,
		AvoidNames: cfg.Gallery.AvoidNames,
	}
	if house.Gallery == "" {
		house = writer.DefaultHouseStyle()
	}

	extractor := document.NewExtractor(document.WithLogger(logger))

	s := &Studio{
		cfg:       cfg,
		provider:  provider,
		store:     st,
		extractor: extractor,
		analyzer: style.NewAnalyzer(provider, cfg.Model,
			style.WithGallery(house.Gallery),
			style.WithLogger(logger)),
		writer: writer.NewWriter(provider, cfg.Model,
			writer.WithRules(rules),
			writer.WithHouseStyle(house),
			writer.WithLogger(logger)),
		rules:  rules,
		logger: logger,
	}
	if _, err := s.newPipeline(); err != nil {
		return nil, fmt.Errorf("chunking config: %w", err)
	}
	return s, nil
}

func (s *Studio) newPipeline() (*pipeline.Pipeline, error) {
	p := pipeline.NewPipeline(s.extractor, s.store)
	p.SetLogger(s.logger)
	if err := p.SetChunking(s.cfg.Chunking.Size, s.cfg.Chunking.Overlap); err != nil {
		return nil, err
	}
	return p, nil
}

// Provider returns the inference provider in use
func (s *Studio) Provider() llm.Provider {
	return s.provider
}

// DocTypes returns the document types offered for generation, in menu order
func (s *Studio) DocTypes() []document.DocType {
	return s.rules.Types()
}

// Rule returns the format rule used for a document type
func (s *Studio) Rule(t document.DocType) *formats.Rule {
	return s.rules.Lookup(t)
}

func (s *Studio) Artists(ctx context.Context) ([]*store.Artist, error) {
	return s.store.ListArtists(ctx)
}

func (s *Studio) CreateArtist(ctx context.Context, name string) (*store.Artist, error) {
	return s.store.CreateArtist(ctx, name)
}

func (s *Studio) Artist(ctx context.Context, id string) (*store.Artist, error) {
	return s.store.Artist(ctx, id)
}

func (s *Studio) Documents(ctx context.Context, artistID string) ([]*store.Document, error) {
	return s.store.ListDocuments(ctx, artistID)
}

func (s *Studio) DeleteDocument(ctx context.Context, documentID string) error {
	return s.store.DeleteDocument(ctx, documentID)
}

// Upload extracts, chunks and stores a batch of files for an artist.
// Progress is reported through onProgress when it is not nil.
func (s *Studio) Upload(ctx context.Context, artistID string, uploads []document.RawDocument, onProgress func(pipeline.Progress)) (*pipeline.Result, error) {
	p, err := s.newPipeline()
	if err != nil {
		return nil, err
	}
	if onProgress != nil {
		p.SetProgressCallback(onProgress)
	}
	return p.Ingest(ctx, artistID, uploads)
}

// Reextract re-runs extraction and chunking over every stored original of
// an artist with the current settings
func (s *Studio) Reextract(ctx context.Context, artistID string, onProgress func(pipeline.Progress)) (*pipeline.Result, error) {
	docs, err := s.store.ListDocuments(ctx, artistID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}

	p, err := s.newPipeline()
	if err != nil {
		return nil, err
	}
	if onProgress != nil {
		p.SetProgressCallback(onProgress)
	}
	return p.Reextract(ctx, s.store, ids)
}

// StyleGuide returns the saved guide, or "" when the artist has none
func (s *Studio) StyleGuide(ctx context.Context, artistID string) (string, error) {
	return s.store.StyleGuide(ctx, artistID)
}

// SaveStyleGuide stores a manually edited guide
func (s *Studio) SaveStyleGuide(ctx context.Context, artistID, content string) error {
	return s.store.SaveStyleGuide(ctx, artistID, content)
}

// BuildStyleGuide analyses every stored document of the artist and saves
// the result. On failure the previously saved guide is left untouched.
func (s *Studio) BuildStyleGuide(ctx context.Context, artist *store.Artist) (string, error) {
	docs, err := s.store.DocumentTexts(ctx, artist.ID)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", fmt.Errorf("%w for %s", ErrNoDocuments, artist.Name)
	}

	guide, err := s.analyzer.Analyze(ctx, style.SourcesFromDocuments(docs), artist.Name)
	if err != nil {
		s.logger.Error("style guide build failed", "artist", artist.Slug, "error", err)
		return "", err
	}

	if err := s.store.SaveStyleGuide(ctx, artist.ID, guide); err != nil {
		return "", err
	}
	return guide, nil
}

// Generation is one piece of generated copy and what produced it
type Generation struct {
	Artist    *store.Artist
	Request   writer.Request
	Copy      string
	Revisions int
}

// Generate writes copy for an artist using their saved style guide
func (s *Studio) Generate(ctx context.Context, artist *store.Artist, docType document.DocType, brief string, images []llm.Image) (*Generation, error) {
	guide, err := s.store.StyleGuide(ctx, artist.ID)
	if err != nil {
		return nil, err
	}

	req := writer.Request{
		StyleProfile: guide,
		DocType:      docType,
		Brief:        brief,
		Images:       images,
	}
	out, err := s.writer.Write(ctx, &req)
	if err != nil {
		return nil, err
	}
	return &Generation{Artist: artist, Request: req, Copy: out}, nil
}

// Revise asks for changes to a generation and returns the revised one
func (s *Studio) Revise(ctx context.Context, gen *Generation, instruction string) (*Generation, error) {
	original, err := s.writer.BuildRequest(&gen.Request)
	if err != nil {
		return nil, err
	}
	out, err := s.writer.Revise(ctx, original, gen.Copy, instruction)
	if err != nil {
		return nil, err
	}
	return &Generation{
		Artist:    gen.Artist,
		Request:   gen.Request,
		Copy:      out,
		Revisions: gen.Revisions + 1,
	}, nil
}

// Converse answers a free-form request in the artist's voice
func (s *Studio) Converse(ctx context.Context, artist *store.Artist, request string, images []llm.Image) (string, error) {
	guide, err := s.store.StyleGuide(ctx, artist.ID)
	if err != nil {
		return "", err
	}
	return s.writer.Converse(ctx, &writer.Conversation{
		StyleProfile: guide,
		Request:      request,
		Images:       images,
	})
}

// LoadImages reads image attachments from disk, rejecting anything that is
// not an image
func LoadImages(paths []string) ([]llm.Image, error) {
	images := make([]llm.Image, 0, len(paths))
	for _, p := range paths {
		img, err := llm.LoadImage(p)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}
