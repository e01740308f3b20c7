package llm

// NewCustomProvider targets a self-hosted OpenAI-compatible server
// (vLLM, LM Studio, a proxy, ...)
func NewCustomProvider(baseURL, apiKey, model string) *OpenAIProvider {
	return newCompatibleProvider("custom", baseURL, apiKey, model)
}
