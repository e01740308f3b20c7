package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (a *App) handleResultKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	s := a.state

	if s.revising {
		switch msg.String() {
		case "enter":
			instruction := strings.TrimSpace(s.input.Value())
			s.revising = false
			s.input.Reset()
			s.input.Blur()
			if instruction == "" {
				return nil, true
			}
			return a.revise(instruction), true
		case "esc":
			s.revising = false
			s.input.Reset()
			s.input.Blur()
			return nil, true
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd, true
	}

	switch {
	case key.Matches(msg, keys.Back):
		s.notice = ""
		a.view = viewGenerate
		return nil, true
	case msg.String() == "r":
		if s.generation == nil {
			s.notice = "Free-form answers cannot be revised; edit the request instead"
			return nil, true
		}
		s.revising = true
		s.input.Reset()
		s.input.Placeholder = "What should change? e.g. \"shorter opening, mention the charity earlier\""
		s.input.Focus()
		return textinput.Blink, true
	case msg.String() == "x":
		return a.exportResult(), true
	case msg.String() == "n":
		s.briefInput.Reset()
		s.imagesInput.Reset()
		s.notice = ""
		return a.openGenerate(s.freeForm), true
	case msg.String() == "a":
		s.notice = ""
		a.view = viewArtist
		return nil, true
	}

	var cmd tea.Cmd
	s.resultViewport, cmd = s.resultViewport.Update(msg)
	return cmd, true
}

func (a *App) renderResult() string {
	s := a.state
	var b strings.Builder
	boxWidth := min(90, a.width-4)

	heading := "Result"
	if gen := s.generation; gen != nil {
		heading = gen.Artist.Name + ": " + s.studio.Rule(gen.Request.DocType).Title()
		if gen.Revisions > 0 {
			heading += " (revised)"
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleTitle.Render(heading)))
	b.WriteString("\n")

	words := len(strings.Fields(s.resultText))
	meta := styleSubtitle.Render(strings.Join([]string{
		strconv.Itoa(words) + " words",
		strconv.Itoa(s.resultViewport.TotalLineCount()) + " lines",
	}, "  |  "))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, meta))
	b.WriteString("\n")

	resultBox := styleBox.
		BorderForeground(colorPrimary).
		Render(s.resultViewport.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, resultBox))
	b.WriteString("\n")

	if s.revising {
		inputBox := styleBox.
			Width(boxWidth).
			BorderForeground(colorSecondary).
			Render(s.input.View())
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, inputBox))
		b.WriteString("\n")
	}

	if s.notice != "" {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(truncate(s.notice, boxWidth))))
		b.WriteString("\n")
	}

	var status string
	if s.revising {
		status = styleStatusBar.Render("[Enter] Revise  [Esc] Cancel")
	} else {
		status = styleStatusBar.Render("[j/k] Scroll  [r] Revise  [x] Export  [n] New brief  [a] Artist  [Esc] Edit brief")
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return b.String()
}
