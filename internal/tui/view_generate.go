package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/copywriter/internal/document"
)

func (a *App) openGenerate(freeForm bool) tea.Cmd {
	s := a.state
	if s.styleGuide == "" {
		s.notice = "Build or write a style guide first"
		return nil
	}

	s.freeForm = freeForm
	s.docTypes = document.DocTypes
	if s.studio != nil {
		s.docTypes = s.studio.DocTypes()
	}
	if s.docTypeCursor >= len(s.docTypes) {
		s.docTypeCursor = 0
	}
	s.notice = ""
	a.view = viewGenerate

	if freeForm {
		return a.focusGenerateField(focusBrief)
	}
	return a.focusGenerateField(focusDocType)
}

func (a *App) focusGenerateField(field int) tea.Cmd {
	s := a.state
	s.genFocus = field
	s.briefInput.Blur()
	s.imagesInput.Blur()
	switch field {
	case focusBrief:
		return s.briefInput.Focus()
	case focusImages:
		return s.imagesInput.Focus()
	}
	return nil
}

func (a *App) nextGenerateField(step int) tea.Cmd {
	next := (a.state.genFocus + step + focusCount) % focusCount
	if a.state.freeForm && next == focusDocType {
		next = (next + step + focusCount) % focusCount
	}
	return a.focusGenerateField(next)
}

func (a *App) handleGenerateKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	s := a.state

	switch {
	case key.Matches(msg, keys.Back):
		s.briefInput.Blur()
		s.imagesInput.Blur()
		s.notice = ""
		a.view = viewArtist
		return nil, true
	case key.Matches(msg, keys.Tab):
		step := 1
		if msg.String() == "shift+tab" {
			step = -1
		}
		return a.nextGenerateField(step), true
	case key.Matches(msg, keys.Submit):
		brief := strings.TrimSpace(s.briefInput.Value())
		if brief == "" {
			s.notice = "The brief is empty: it is the only source of facts for the copy"
			return nil, true
		}
		var docType document.DocType
		if len(s.docTypes) > 0 {
			docType = s.docTypes[s.docTypeCursor]
		}
		return a.generate(docType, brief, s.imagesInput.Value()), true
	}

	var cmd tea.Cmd
	switch s.genFocus {
	case focusDocType:
		switch {
		case key.Matches(msg, keys.Up):
			if s.docTypeCursor > 0 {
				s.docTypeCursor--
			}
		case key.Matches(msg, keys.Down):
			if s.docTypeCursor < len(s.docTypes)-1 {
				s.docTypeCursor++
			}
		case key.Matches(msg, keys.Enter):
			return a.focusGenerateField(focusBrief), true
		}
	case focusBrief:
		s.briefInput, cmd = s.briefInput.Update(msg)
	case focusImages:
		s.imagesInput, cmd = s.imagesInput.Update(msg)
	}
	return cmd, true
}

func (a *App) renderGenerate() string {
	s := a.state
	var b strings.Builder
	boxWidth := min(74, a.width-4)

	heading := "Generate copy for " + s.selectedArtist.Name
	if s.freeForm {
		heading = "Free-form request for " + s.selectedArtist.Name
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleTitle.Render(heading)))
	b.WriteString("\n\n")

	border := func(field int) lipgloss.Color {
		if s.genFocus == field {
			return colorSecondary
		}
		return colorMuted
	}

	if !s.freeForm {
		var lines []string
		for i, dt := range s.docTypes {
			label := dt.Title()
			if s.studio != nil {
				label = s.studio.Rule(dt).Title()
			}
			if i == s.docTypeCursor {
				lines = append(lines, styleSelected.Render("(x) "+label))
			} else {
				lines = append(lines, styleSubtitle.Render("( ) "+label))
			}
		}
		typeBox := styleBox.
			Width(boxWidth).
			BorderForeground(border(focusDocType)).
			Render("Document type\n" + strings.Join(lines, "\n"))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, typeBox))
		b.WriteString("\n")
	}

	briefLabel := "Brief: every fact in the copy comes from here"
	if s.freeForm {
		briefLabel = "Request, e.g. \"Write a 50-word Instagram caption for the new release\""
	}
	briefBox := styleBox.
		Width(boxWidth).
		BorderForeground(border(focusBrief)).
		Render(briefLabel + "\n" + s.briefInput.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, briefBox))
	b.WriteString("\n")

	imagesBox := styleBox.
		Width(boxWidth).
		BorderForeground(border(focusImages)).
		Render("Artwork images\n" + s.imagesInput.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, imagesBox))
	b.WriteString("\n")

	if !s.freeForm && s.studio != nil && len(s.docTypes) > 0 {
		rule := s.studio.Rule(s.docTypes[s.docTypeCursor])
		var hint string
		switch {
		case rule.MinWords > 0 && rule.MaxWords > 0:
			hint = fmt.Sprintf("%s: %d-%d words", rule.Title(), rule.MinWords, rule.MaxWords)
		case len(rule.Limits) > 0:
			hint = fmt.Sprintf("%s: %d variant groups with character limits", rule.Title(), len(rule.Limits))
		}
		if hint != "" {
			b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(hint)))
			b.WriteString("\n")
		}
	}

	if s.notice != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(colorWarning).Render(s.notice)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	status := styleStatusBar.Render("[Tab] Next field  [Ctrl+G] Generate  [Esc] Back")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}
