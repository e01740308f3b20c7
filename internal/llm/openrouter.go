package llm

func NewOpenRouterProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = "openai/gpt-4o"
	}
	return newCompatibleProvider("openrouter", "https://openrouter.ai/api/v1", apiKey, model)
}
