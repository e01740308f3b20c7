package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	ollamaDefaultHost  = "http://localhost:11434"
	ollamaDefaultModel = "llama3.2-vision:11b"
)

// OllamaProvider talks to a local Ollama server. Vision models take images
// as bare base64 strings on the message.
type OllamaProvider struct {
	host   string
	model  string
	client *http.Client
}

func NewOllamaProvider(host, model string) *OllamaProvider {
	if host == "" {
		host = ollamaDefaultHost
	}
	if model == "" {
		model = ollamaDefaultModel
	}
	return &OllamaProvider{
		host:  strings.TrimRight(host, "/"),
		model: model,
		// local models on a laptop can take minutes over a long corpus
		client: &http.Client{Timeout: 15 * time.Minute},
	}
}

func (o *OllamaProvider) Name() string {
	return "ollama"
}

// Ping checks the server is up and the configured model has been pulled
func (o *OllamaProvider) Ping(ctx context.Context) error {
	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := doJSON(ctx, o.client, "ollama", http.MethodGet, o.host+"/api/tags", nil, nil, &tags); err != nil {
		return fmt.Errorf("cannot reach Ollama at %s: %w", o.host, err)
	}

	for _, m := range tags.Models {
		if m.Name == o.model || strings.TrimSuffix(m.Name, ":latest") == o.model {
			return nil
		}
	}
	return fmt.Errorf("ollama model %s is not pulled; run: ollama pull %s", o.model, o.model)
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	DoneReason      string        `json:"done_reason,omitempty"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
}

func (o *OllamaProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}

	chat := ollamaChatRequest{
		Model:    model,
		Messages: toOllamaMessages(req.Messages),
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}

	var out ollamaChatResponse
	if err := doJSON(ctx, o.client, "ollama", http.MethodPost, o.host+"/api/chat", nil, chat, &out); err != nil {
		return nil, err
	}
	if out.Message.Content == "" {
		return nil, fmt.Errorf("ollama: %w", ErrEmptyResponse)
	}

	return &CompletionResponse{
		Content:      out.Message.Content,
		Model:        out.Model,
		FinishReason: out.DoneReason,
		Usage: Usage{
			PromptTokens:     out.PromptEvalCount,
			CompletionTokens: out.EvalCount,
			TotalTokens:      out.PromptEvalCount + out.EvalCount,
		},
	}, nil
}

func toOllamaMessages(msgs []Message) []ollamaMessage {
	out := make([]ollamaMessage, 0, len(msgs))
	for _, m := range msgs {
		om := ollamaMessage{Role: m.Role, Content: m.Content}
		for _, img := range m.Images {
			om.Images = append(om.Images, img.Base64())
		}
		out = append(out, om)
	}
	return out
}
