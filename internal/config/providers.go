package config

// ProviderInfo describes a selectable inference service
type ProviderInfo struct {
	ID           string
	Name         string
	Description  string
	NeedsAPIKey  bool
	EnvKey       string // environment variable that can supply the key
	SignupURL    string
	Models       []string
	DefaultModel string
}

// Providers lists the services offered during setup. Copy generation
// attaches artwork images, so every listed model takes image input.
var Providers = []ProviderInfo{
	{
		ID:           "openai",
		Name:         "OpenAI",
		Description:  "GPT-4o, strong on images and long briefs",
		NeedsAPIKey:  true,
		EnvKey:       "OPENAI_API_KEY",
		SignupURL:    "https://platform.openai.com/api-keys",
		Models:       []string{"gpt-4o", "gpt-4o-mini", "gpt-4.1"},
		DefaultModel: "gpt-4o",
	},
	{
		ID:           "anthropic",
		Name:         "Anthropic",
		Description:  "Claude, careful with tone of voice",
		NeedsAPIKey:  true,
		EnvKey:       "ANTHROPIC_API_KEY",
		SignupURL:    "https://console.anthropic.com/",
		Models:       []string{"claude-3-5-sonnet-20241022", "claude-3-5-haiku-20241022"},
		DefaultModel: "claude-3-5-sonnet-20241022",
	},
	{
		ID:           "openrouter",
		Name:         "OpenRouter",
		Description:  "One key for many vision models",
		NeedsAPIKey:  true,
		EnvKey:       "OPENROUTER_API_KEY",
		SignupURL:    "https://openrouter.ai/keys",
		Models:       []string{"openai/gpt-4o", "anthropic/claude-3.5-sonnet", "google/gemini-flash-1.5"},
		DefaultModel: "openai/gpt-4o",
	},
	{
		ID:           "groq",
		Name:         "Groq",
		Description:  "Fast drafts on Llama vision",
		NeedsAPIKey:  true,
		EnvKey:       "GROQ_API_KEY",
		SignupURL:    "https://console.groq.com/keys",
		Models:       []string{"llama-3.2-90b-vision-preview", "llama-3.2-11b-vision-preview"},
		DefaultModel: "llama-3.2-90b-vision-preview",
	},
	{
		ID:           "ollama",
		Name:         "Ollama",
		Description:  "Runs on this machine; documents never leave it",
		Models:       []string{"llama3.2-vision:11b", "llava:13b", "qwen2.5vl:7b"},
		DefaultModel: "llama3.2-vision:11b",
	},
}

// GetProvider returns the entry for id, or nil for custom and unknown ids
func GetProvider(id string) *ProviderInfo {
	for i := range Providers {
		if Providers[i].ID == id {
			return &Providers[i]
		}
	}
	return nil
}
