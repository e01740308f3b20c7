package llm

func NewGroqProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = "llama-3.2-90b-vision-preview"
	}
	return newCompatibleProvider("groq", "https://api.groq.com/openai/v1", apiKey, model)
}
