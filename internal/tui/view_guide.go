package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (a *App) handleGuideKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Back):
		a.state.notice = ""
		a.view = viewArtist
		return nil, true
	case msg.String() == "e":
		return a.openGuideEditor(), true
	case msg.String() == "b":
		return a.buildGuide(), true
	case msg.String() == "x":
		return a.exportGuide(), true
	}

	var cmd tea.Cmd
	a.state.guideViewport, cmd = a.state.guideViewport.Update(msg)
	return cmd, true
}

func (a *App) handleEditGuideKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Save):
		content := strings.TrimSpace(a.state.guideEditor.Value())
		if content == "" {
			a.state.notice = "A style guide cannot be empty"
			return nil, true
		}
		a.state.styleGuide = content
		return a.saveGuide(content), true
	case key.Matches(msg, keys.Back):
		a.state.guideEditor.Blur()
		a.state.notice = ""
		a.view = viewArtist
		return nil, true
	}

	var cmd tea.Cmd
	a.state.guideEditor, cmd = a.state.guideEditor.Update(msg)
	return cmd, true
}

func (a *App) renderGuide() string {
	var b strings.Builder

	title := styleTitle.Render(a.state.selectedArtist.Name + ": Style Guide")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	box := styleBox.
		BorderForeground(colorPrimary).
		Render(a.state.guideViewport.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	b.WriteString("\n")

	if a.state.notice != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(a.state.notice)))
		b.WriteString("\n")
	}

	status := styleStatusBar.Render("[j/k] Scroll  [e] Edit  [b] Rebuild  [x] Export  [Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))
	return b.String()
}

func (a *App) renderEditGuide() string {
	var b strings.Builder

	title := styleTitle.Render("Edit Style Guide: " + a.state.selectedArtist.Name)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	box := styleBox.
		BorderForeground(colorSecondary).
		Render(a.state.guideEditor.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	b.WriteString("\n")

	if a.state.notice != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(a.state.notice)))
		b.WriteString("\n")
	}

	status := styleStatusBar.Render("[Ctrl+S] Save  [Esc] Discard")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))
	return b.String()
}
