package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderHelp() string {
	var b strings.Builder

	// Title
	title := styleTitle.Render("Help")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	workflow := []string{
		"  1. Add an artist                       [a]",
		"  2. Upload their past press releases,",
		"     bios and collection overviews       [u]",
		"  3. Build the style guide               [b]",
		"  4. Generate copy from a brief          [g]",
		"",
		"  The style guide only sets the voice. Every",
		"  fact in new copy comes from your brief and",
		"  the images you attach.",
	}
	workflowBox := styleBox.
		Width(56).
		Render(strings.Join(workflow, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, workflowBox))
	b.WriteString("\n\n")

	shortcuts := []string{
		"  Esc            Go back",
		"  Ctrl+C         Quit",
		"  j/k, Up/Down   Move / scroll",
		"  Tab            Next field (generate)",
		"  Ctrl+G         Generate",
		"  Ctrl+S         Save style guide (editor)",
		"  f              Free-form request (artist page)",
		"  r              Re-extract documents (artist page)",
		"  r / x          Revise / export result",
		"  s              Settings: provider, model, gallery (artists)",
	}

	shortcutsTitle := styleSubtitle.Render("Keyboard Shortcuts")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, shortcutsTitle))
	b.WriteString("\n\n")

	shortcutsBox := styleBox.
		Width(56).
		Render(strings.Join(shortcuts, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, shortcutsBox))
	b.WriteString("\n\n")

	// Instructions
	instructions := styleStatusBar.Render("[Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, instructions))

	return a.centerVertically(b.String())
}
