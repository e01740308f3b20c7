package tui

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/copywriter/internal/document"
	"github.com/sant0-9/copywriter/internal/llm"
	"github.com/sant0-9/copywriter/internal/store"
	"github.com/sant0-9/copywriter/internal/studio"
	"github.com/sant0-9/copywriter/internal/style"
	"github.com/sant0-9/copywriter/internal/writer"
)

// suggestions maps an error to hints the user can act on
func suggestions(err error) []string {
	switch {
	case errors.Is(err, document.ErrPlatformUnsupported):
		return []string{
			"Legacy .doc files need textutil (macOS), antiword or catdoc",
			"Or save the file as .docx and upload that",
		}
	case errors.Is(err, studio.ErrNoDocuments):
		return []string{"Upload the artist's past documents with [u] first"}
	case errors.Is(err, writer.ErrNoStyleProfile):
		return []string{"Build the style guide with [b] or write one with [e]"}
	case errors.Is(err, writer.ErrEmptyBrief):
		return []string{"The brief is the only source of facts; add the details to include"}
	case errors.Is(err, llm.ErrNotImage):
		return []string{"Attach JPEG, PNG, GIF or WebP images only"}
	case errors.Is(err, store.ErrArtistExists):
		return []string{"Pick the existing artist from the list instead"}
	case errors.Is(err, store.ErrDocumentExists):
		return []string{"Delete the stored copy first, or rename the file"}
	case errors.Is(err, llm.ErrMissingAPIKey) || llm.IsAuth(err):
		return []string{"Check your API key in ~/.config/copywriter/config.yaml", "Or press [s] on the artists screen to open settings"}
	case llm.IsRateLimited(err):
		return []string{"You've hit the API rate limit", "Wait a moment and try again; the saved guide is unchanged"}
	case errors.Is(err, llm.ErrEmptyResponse):
		return []string{"The model returned nothing", "Try again, or pick a larger model in settings"}
	}

	errLower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errLower, "connection") || strings.Contains(errLower, "connect") || strings.Contains(errLower, "timeout"):
		return []string{"Check your internet connection", "Or try using Ollama for offline mode"}
	case strings.Contains(errLower, "ollama"):
		return []string{"Make sure Ollama is running: ollama serve", "Or switch to a cloud provider in settings"}
	case errors.Is(err, os.ErrNotExist):
		return []string{"Check the file path is correct", "Make sure the file exists and is readable"}
	case errors.Is(err, style.ErrAnalysisFailed):
		return []string{"The saved style guide was not changed", "Try again, or remove some documents if the corpus is very large"}
	case errors.Is(err, context.Canceled):
		return []string{"Cancelled"}
	}
	return nil
}

func (a *App) renderError() string {
	var b strings.Builder

	// Error icon and title
	title := lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true).
		Render("Something went wrong")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	errMsg := "Unknown error"
	if a.state.err != nil {
		errMsg = a.state.err.Error()
	}

	errBox := styleBox.
		Width(min(70, a.width-4)).
		BorderForeground(colorError).
		Render(wrapText(errMsg, min(66, a.width-8)))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, errBox))
	b.WriteString("\n\n")

	if a.state.err != nil {
		if hints := suggestions(a.state.err); len(hints) > 0 {
			suggBox := styleBox.
				Width(min(70, a.width-4)).
				BorderForeground(colorMuted).
				Render("Suggestions:\n" + strings.Join(hints, "\n"))
			b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, suggBox))
			b.WriteString("\n\n")
		}
	}

	status := styleStatusBar.Render("[Enter/Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}
