package writer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sant0-9/copywriter/internal/document"
	"github.com/sant0-9/copywriter/internal/formats"
	"github.com/sant0-9/copywriter/internal/llm"
	"github.com/sant0-9/copywriter/internal/prompts"
)

var (
	// ErrGenerationFailed is returned when the model call fails or comes back empty
	ErrGenerationFailed = errors.New("generation failed")
	ErrEmptyBrief       = errors.New("brief is empty")
	ErrNoStyleProfile   = errors.New("no style profile")
)

const (
	Temperature = 0.7
	MaxTokens   = 3000
)

// HouseStyle is injected into every request regardless of document type
type HouseStyle struct {
	Gallery    string
	AvoidNames []string
}

func DefaultHouseStyle() HouseStyle {
	return HouseStyle{
		Gallery:    "Castle Fine Art",
		AvoidNames: []string{"Castle Galleries"},
	}
}

// avoidClause renders ` (never "A" or "B")`, or nothing
func (h HouseStyle) avoidClause() string {
	if len(h.AvoidNames) == 0 {
		return ""
	}
	quoted := make([]string, len(h.AvoidNames))
	for i, n := range h.AvoidNames {
		quoted[i] = `"` + n + `"`
	}
	return " (never " + strings.Join(quoted, " or ") + ")"
}

// Request contains everything needed to generate one piece of copy
type Request struct {
	StyleProfile string
	DocType      document.DocType
	Brief        string
	Images       []llm.Image
}

// Conversation is a free-form request against a style profile
type Conversation struct {
	StyleProfile string
	Request      string
	Images       []llm.Image
}

// Writer generates copy in an artist's voice
type Writer struct {
	provider llm.Provider
	model    string
	rules    *formats.Table
	prompts  *prompts.Library
	house    HouseStyle
	logger   *slog.Logger
}

// Option configures a Writer
type Option func(*Writer)

func WithRules(t *formats.Table) Option {
	return func(w *Writer) { w.rules = t }
}

func WithHouseStyle(h HouseStyle) Option {
	return func(w *Writer) { w.house = h }
}

func WithPrompts(lib *prompts.Library) Option {
	return func(w *Writer) { w.prompts = lib }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Writer) { w.logger = l }
}

// NewWriter creates a new writer using the built-in format rules
func NewWriter(provider llm.Provider, model string, opts ...Option) *Writer {
	w := &Writer{
		provider: provider,
		model:    model,
		house:    DefaultHouseStyle(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rules == nil {
		w.rules = formats.Builtin()
	}
	if w.prompts == nil {
		w.prompts = prompts.MustNew()
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w
}

// Rules returns the format rule table in use
func (w *Writer) Rules() *formats.Table {
	return w.rules
}

// BuildRequest composes the generation request without sending it. The
// style profile is framed as voice rules only and the brief as the only
// source of facts.
func (w *Writer) BuildRequest(req *Request) (*llm.CompletionRequest, error) {
	if strings.TrimSpace(req.StyleProfile) == "" {
		return nil, ErrNoStyleProfile
	}
	if strings.TrimSpace(req.Brief) == "" {
		return nil, ErrEmptyBrief
	}

	rule := w.rules.Lookup(req.DocType)
	brief := fmt.Sprintf("Document type: %s\n\n%s", rule.Title(), strings.TrimSpace(req.Brief))

	text, err := w.prompts.Render(prompts.Copy, prompts.Vars{
		"gallery":      w.house.Gallery,
		"avoid_clause": w.house.avoidClause(),
		"style_guide":  strings.TrimSpace(req.StyleProfile),
		"brief":        brief,
		"images_note":  imagesNote(len(req.Images)),
		"format_rules": rule.Block(),
		"doc_label":    docLabel(rule),
	})
	if err != nil {
		return nil, err
	}

	return &llm.CompletionRequest{
		Model: w.model,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: text, Images: req.Images},
		},
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}, nil
}

// Write generates copy for req
func (w *Writer) Write(ctx context.Context, req *Request) (string, error) {
	llmReq, err := w.BuildRequest(req)
	if err != nil {
		return "", err
	}
	w.logger.Info("generating copy", "doc_type", req.DocType, "images", llmReq.ImageCount(), "provider", w.provider.Name())
	return w.complete(ctx, llmReq)
}

// BuildConversation composes a free-form request against a style profile
func (w *Writer) BuildConversation(conv *Conversation) (*llm.CompletionRequest, error) {
	if strings.TrimSpace(conv.StyleProfile) == "" {
		return nil, ErrNoStyleProfile
	}
	if strings.TrimSpace(conv.Request) == "" {
		return nil, ErrEmptyBrief
	}

	text, err := w.prompts.Render(prompts.Converse, prompts.Vars{
		"style_guide": strings.TrimSpace(conv.StyleProfile),
		"request":     strings.TrimSpace(conv.Request),
		"gallery":     w.house.Gallery,
	})
	if err != nil {
		return nil, err
	}

	return &llm.CompletionRequest{
		Model: w.model,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: text, Images: conv.Images},
		},
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}, nil
}

// Converse answers a free-form request in the artist's voice
func (w *Writer) Converse(ctx context.Context, conv *Conversation) (string, error) {
	llmReq, err := w.BuildConversation(conv)
	if err != nil {
		return "", err
	}
	w.logger.Info("free-form generation", "images", llmReq.ImageCount(), "provider", w.provider.Name())
	return w.complete(ctx, llmReq)
}

// Revise asks for changes to a previous result. The original request is
// replayed so the style profile, brief and images stay in context.
func (w *Writer) Revise(ctx context.Context, original *llm.CompletionRequest, previous, instruction string) (string, error) {
	if strings.TrimSpace(instruction) == "" {
		return "", ErrEmptyBrief
	}

	messages := make([]llm.Message, 0, len(original.Messages)+2)
	messages = append(messages, original.Messages...)
	messages = append(messages,
		llm.Message{Role: llm.RoleAssistant, Content: previous},
		llm.Message{Role: llm.RoleUser, Content: fmt.Sprintf(
			"Revise the copy above: %s\n\nKeep to the same facts, format rules and house style. Return the full revised copy only.",
			strings.TrimSpace(instruction))},
	)

	llmReq := *original
	llmReq.Messages = messages
	w.logger.Info("revising copy", "turns", len(messages), "images", llmReq.ImageCount(), "provider", w.provider.Name())
	return w.complete(ctx, &llmReq)
}

func (w *Writer) complete(ctx context.Context, req *llm.CompletionRequest) (string, error) {
	resp, err := w.provider.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty response from %s", ErrGenerationFailed, w.provider.Name())
	}
	return text, nil
}

func docLabel(rule *formats.Rule) string {
	if rule.DocType == document.DocTypeGeneral {
		return "piece of copy"
	}
	return rule.DocType.Label()
}

func imagesNote(n int) string {
	switch n {
	case 0:
		return ""
	case 1:
		return "\nOne image of the artwork is attached. Use it for visual details only.\n"
	default:
		return fmt.Sprintf("\n%d images of the artwork are attached. Use them for visual details only.\n", n)
	}
}
