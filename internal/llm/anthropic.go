package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion = "2023-06-01"

	// the messages API requires max_tokens on every request
	anthropicDefaultMaxTokens = 4096
)

// AnthropicProvider calls the Messages API directly. System messages are
// lifted into the top-level system field.
type AnthropicProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}
	return &AnthropicProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: anthropicBaseURL,
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

// WithBaseURL points the provider at another endpoint, e.g. a proxy
func (a *AnthropicProvider) WithBaseURL(baseURL string) *AnthropicProvider {
	a.baseURL = strings.TrimRight(baseURL, "/")
	return a
}

func (a *AnthropicProvider) Name() string {
	return "anthropic"
}

// Ping lists models, which fails fast on a bad key
func (a *AnthropicProvider) Ping(ctx context.Context) error {
	if err := doJSON(ctx, a.client, "anthropic", http.MethodGet, a.baseURL+"/models", a.header(), nil, nil); err != nil {
		if IsAuth(err) {
			return fmt.Errorf("anthropic rejected the API key: %w", err)
		}
		return err
	}
	return nil
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature,omitempty"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string           `json:"role"`
	Content []anthropicBlock `json:"content"`
}

type anthropicBlock struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (a *AnthropicProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = a.model
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	system, messages := toAnthropicMessages(req.Messages)
	apiReq := anthropicRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		System:      system,
		Messages:    messages,
	}

	var apiResp anthropicResponse
	if err := doJSON(ctx, a.client, "anthropic", http.MethodPost, a.baseURL+"/messages", a.header(), apiReq, &apiResp); err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("anthropic: %w", ErrEmptyResponse)
	}

	return &CompletionResponse{
		Content:      text.String(),
		Model:        apiResp.Model,
		FinishReason: apiResp.StopReason,
		Usage: Usage{
			PromptTokens:     apiResp.Usage.InputTokens,
			CompletionTokens: apiResp.Usage.OutputTokens,
			TotalTokens:      apiResp.Usage.InputTokens + apiResp.Usage.OutputTokens,
		},
	}, nil
}

func (a *AnthropicProvider) header() http.Header {
	h := http.Header{}
	h.Set("x-api-key", a.apiKey)
	h.Set("anthropic-version", anthropicVersion)
	return h
}

// toAnthropicMessages lifts system messages into the top-level system field
// and turns images into base64 image blocks
func toAnthropicMessages(msgs []Message) (string, []anthropicMessage) {
	var system []string
	var messages []anthropicMessage
	for _, m := range msgs {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		blocks := []anthropicBlock{{Type: "text", Text: m.Content}}
		for _, img := range m.Images {
			mime := img.MIMEType
			if mime == "" {
				mime = "image/jpeg"
			}
			blocks = append(blocks, anthropicBlock{
				Type: "image",
				Source: &anthropicSource{
					Type:      "base64",
					MediaType: mime,
					Data:      img.Base64(),
				},
			})
		}
		messages = append(messages, anthropicMessage{Role: m.Role, Content: blocks})
	}
	return strings.Join(system, "\n\n"), messages
}
