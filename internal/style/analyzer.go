// Package style builds an artist's style profile from their past documents.
package style

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sant0-9/copywriter/internal/document"
	"github.com/sant0-9/copywriter/internal/llm"
	"github.com/sant0-9/copywriter/internal/pipeline"
	"github.com/sant0-9/copywriter/internal/prompts"
)

// ErrAnalysisFailed is returned when no style profile could be produced
var ErrAnalysisFailed = errors.New("style analysis failed")

const (
	Temperature = 0.7
	MaxTokens   = 6000
)

// Source is one document contributing to the corpus
type Source struct {
	Filename string
	Text     string
}

// SourcesFromDocuments converts extracted documents, keeping their order
func SourcesFromDocuments(docs []*document.NormalizedDocument) []Source {
	sources := make([]Source, len(docs))
	for i, d := range docs {
		sources[i] = Source{Filename: d.Filename, Text: d.FullText}
	}
	return sources
}

// Corpus concatenates sources in order, each under a separator line naming
// its file. Nothing is reordered or deduplicated.
func Corpus(sources []Source) string {
	var b strings.Builder
	for _, s := range sources {
		b.WriteString("\n\n--- ")
		b.WriteString(s.Filename)
		b.WriteString(" ---\n")
		b.WriteString(s.Text)
	}
	return b.String()
}

// Analyzer turns a corpus into a style profile with one LLM call
type Analyzer struct {
	provider llm.Provider
	model    string
	prompts  *prompts.Library
	gallery  string
	logger   *slog.Logger
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithGallery sets the gallery name used in the phrase bank examples
func WithGallery(name string) Option {
	return func(a *Analyzer) { a.gallery = name }
}

func WithPrompts(lib *prompts.Library) Option {
	return func(a *Analyzer) { a.prompts = lib }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// NewAnalyzer creates an analyzer
func NewAnalyzer(provider llm.Provider, model string, opts ...Option) *Analyzer {
	a := &Analyzer{
		provider: provider,
		model:    model,
		gallery:  "Castle Fine Art",
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.prompts == nil {
		a.prompts = prompts.MustNew()
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// BuildRequest composes the analysis request without sending it
func (a *Analyzer) BuildRequest(sources []Source, artist string) (*llm.CompletionRequest, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no documents to analyse", ErrAnalysisFailed)
	}
	if strings.TrimSpace(artist) == "" {
		artist = "the artist"
	}

	system, err := a.prompts.Render(prompts.StyleSystem, nil)
	if err != nil {
		return nil, err
	}
	user, err := a.prompts.Render(prompts.StyleUser, prompts.Vars{
		"artist":  artist,
		"corpus":  Corpus(sources),
		"gallery": a.gallery,
	})
	if err != nil {
		return nil, err
	}

	return &llm.CompletionRequest{
		Model: a.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: user},
		},
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}, nil
}

// Analyze returns the trimmed style profile. It never retries; a provider
// error or an empty answer is reported as ErrAnalysisFailed.
func (a *Analyzer) Analyze(ctx context.Context, sources []Source, artist string) (string, error) {
	req, err := a.BuildRequest(sources, artist)
	if err != nil {
		return "", err
	}

	a.logger.Info("analysing style",
		"artist", artist,
		"documents", len(sources),
		"estimated_tokens", pipeline.EstimateTokens(req.Text()),
		"provider", a.provider.Name(),
	)

	resp, err := a.provider.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	profile := strings.TrimSpace(resp.Content)
	if profile == "" {
		return "", fmt.Errorf("%w: empty response from %s", ErrAnalysisFailed, a.provider.Name())
	}

	a.logger.Info("style profile built", "artist", artist, "chars", len(profile), "completion_tokens", resp.Usage.CompletionTokens)
	return profile, nil
}
