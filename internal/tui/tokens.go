package tui

import (
	"fmt"
	"strings"
)

// wordsToTokens approximates the token count of English prose
func wordsToTokens(words int) int {
	return words * 4 / 3
}

// getContextLimit returns the context window size for a model
func getContextLimit(model string) int {
	model = strings.ToLower(model)

	switch {
	case strings.Contains(model, "claude"):
		return 200000
	case strings.Contains(model, "gpt-4.1"):
		return 1000000
	case strings.Contains(model, "gpt-4o"):
		return 128000
	case strings.Contains(model, "gemini"):
		return 1000000
	case strings.Contains(model, "llama-3.2"), strings.Contains(model, "llama3.2"):
		return 128000
	case strings.Contains(model, "llava"), strings.Contains(model, "qwen"):
		return 32000
	default:
		return 8000
	}
}

// corpusSummary tells the user how much of the model's context the style
// analysis will use, since all documents go into a single request
func (a *App) corpusSummary() string {
	tokens := wordsToTokens(a.state.corpusWords)
	limit := getContextLimit(a.state.config.Model)
	pct := float64(tokens) / float64(limit) * 100
	summary := fmt.Sprintf("Corpus: %d words, ~%.1fk of %.0fk context (%.0f%%)",
		a.state.corpusWords, float64(tokens)/1000, float64(limit)/1000, pct)
	if tokens > limit {
		summary += ". Too large for one analysis: remove some documents"
	}
	return summary
}
