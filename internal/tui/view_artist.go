package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/copywriter/internal/document"
)

func (a *App) handleArtistKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	s := a.state

	if s.input.Focused() {
		switch msg.String() {
		case "enter":
			value := strings.TrimSpace(s.input.Value())
			s.input.Reset()
			s.input.Blur()
			if value == "" {
				return nil, true
			}
			return a.uploadFiles(value), true
		case "esc":
			s.input.Reset()
			s.input.Blur()
			return nil, true
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd, true
	}

	if s.confirmDel {
		s.confirmDel = false
		if msg.String() == "y" && s.docCursor < len(s.documents) {
			return a.deleteDocument(s.documents[s.docCursor]), true
		}
		return nil, true
	}

	switch {
	case key.Matches(msg, keys.Up):
		if s.docCursor > 0 {
			s.docCursor--
		}
	case key.Matches(msg, keys.Down):
		if s.docCursor < len(s.documents)-1 {
			s.docCursor++
		}
	case msg.String() == "u":
		s.input.Reset()
		s.input.Placeholder = "File or folder paths, comma separated (.docx .pdf .html .doc .txt)"
		s.input.Focus()
		return textinput.Blink, true
	case msg.String() == "d":
		if len(s.documents) > 0 {
			s.confirmDel = true
		}
	case msg.String() == "b":
		if len(s.documents) == 0 {
			s.notice = "Upload some documents before building a style guide"
			return nil, true
		}
		return a.buildGuide(), true
	case msg.String() == "v":
		if s.styleGuide == "" {
			s.notice = "No style guide yet: press [b] to build one or [e] to write one"
			return nil, true
		}
		a.openGuide()
	case msg.String() == "r":
		if len(s.documents) == 0 {
			s.notice = "No documents to re-extract"
			return nil, true
		}
		return a.reextractDocuments(), true
	case msg.String() == "e":
		return a.openGuideEditor(), true
	case msg.String() == "g":
		return a.openGenerate(false), true
	case msg.String() == "f":
		return a.openGenerate(true), true
	case key.Matches(msg, keys.Help):
		a.showHelp()
	case key.Matches(msg, keys.Back):
		s.selectedArtist = nil
		s.notice = ""
		a.view = viewArtists
		return a.loadArtists(), true
	}
	return nil, true
}

func (a *App) openGuide() {
	a.state.guideViewport.SetContent(wrapText(a.state.styleGuide, a.state.guideViewport.Width))
	a.state.guideViewport.GotoTop()
	a.state.notice = ""
	a.view = viewGuide
}

func (a *App) openGuideEditor() tea.Cmd {
	a.state.guideEditor.SetValue(a.state.styleGuide)
	a.state.notice = ""
	a.view = viewEditGuide
	return tea.Batch(a.state.guideEditor.Focus(), textarea.Blink)
}

func (a *App) renderArtist() string {
	s := a.state
	if s.selectedArtist == nil {
		return a.renderArtists()
	}

	var b strings.Builder
	boxWidth := min(80, a.width-4)

	title := styleTitle.Render(s.selectedArtist.Name)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n")

	guideStatus := stylePending.Render("Style guide: Pending")
	if s.styleGuide != "" {
		guideStatus = styleReady.Render(fmt.Sprintf("Style guide: Ready (%d words)", len(strings.Fields(s.styleGuide))))
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, guideStatus))
	b.WriteString("\n\n")

	// Documents
	var lines []string
	if len(s.documents) == 0 {
		lines = append(lines, styleSubtitle.Render("No documents. Press [u] to upload press releases, bios and overviews."))
	}
	for i, d := range s.documents {
		line := fmt.Sprintf("%-36s %-20s %8s %6d words",
			truncate(d.Filename, 36),
			d.DocType.Label(),
			document.SizeHuman(d.FileSize),
			d.WordCount)
		if i == s.docCursor {
			line = styleSelected.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	docsBox := styleBox.
		Width(boxWidth).
		BorderForeground(colorPrimary).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, docsBox))
	b.WriteString("\n")

	if len(s.documents) > 0 {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(a.corpusSummary())))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Last upload or re-extraction outcome
	if s.lastIngest != nil {
		summary := fmt.Sprintf("%s %d of %d", s.lastVerb, s.lastIngest.Succeeded(), len(s.lastIngest.Documents))
		var failLines []string
		for _, f := range s.lastIngest.Failed() {
			failLines = append(failLines, truncate(fmt.Sprintf("  %s: %v", f.Filename, f.Err), boxWidth-4))
		}
		body := styleReady.Render(summary)
		if len(failLines) > 0 {
			body += "\n" + lipgloss.NewStyle().Foreground(colorError).Render(strings.Join(failLines, "\n"))
		}
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleBox.Width(boxWidth).Render(body)))
		b.WriteString("\n\n")
	}

	if s.input.Focused() {
		inputBox := styleBox.
			Width(boxWidth).
			BorderForeground(colorSecondary).
			Render(s.input.View())
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, inputBox))
		b.WriteString("\n\n")
	}

	if s.notice != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(s.notice)))
		b.WriteString("\n\n")
	}

	var status string
	switch {
	case s.input.Focused():
		status = "[Enter] Upload  [Esc] Cancel"
	case s.confirmDel:
		status = fmt.Sprintf("Delete %s? [y] Yes  [any key] No", s.documents[s.docCursor].Filename)
	default:
		status = "[u] Upload  [d] Delete  [r] Re-extract  [b] Build guide  [v] View  [e] Edit  [g] Generate  [f] Free-form  [Esc] Back"
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleStatusBar.Render(status)))

	return a.centerVertically(b.String())
}
