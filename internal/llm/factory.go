package llm

import (
	"fmt"

	"github.com/openai/openai-go/option"

	"github.com/sant0-9/copywriter/internal/config"
)

// NewProvider creates the provider named by cfg.Provider. Providers marked
// NeedsAPIKey in config.Providers fail early without one.
func NewProvider(cfg *config.Config) (Provider, error) {
	if info := config.GetProvider(cfg.Provider); info != nil && info.NeedsAPIKey && cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", info.Name, ErrMissingAPIKey)
	}

	switch cfg.Provider {
	case "openai":
		var opts []option.RequestOption
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, opts...), nil
	case "anthropic":
		p := NewAnthropicProvider(cfg.APIKey, cfg.Model)
		if cfg.BaseURL != "" {
			p.WithBaseURL(cfg.BaseURL)
		}
		return p, nil
	case "groq":
		return NewGroqProvider(cfg.APIKey, cfg.Model), nil
	case "openrouter":
		return NewOpenRouterProvider(cfg.APIKey, cfg.Model), nil
	case "ollama":
		return NewOllamaProvider(cfg.BaseURL, cfg.Model), nil
	case "custom":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("custom provider requires base_url")
		}
		return NewCustomProvider(cfg.BaseURL, cfg.APIKey, cfg.Model), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
}
