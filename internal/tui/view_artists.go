package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (a *App) handleArtistsKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if a.state.addingArtist {
		switch msg.String() {
		case "enter":
			name := strings.TrimSpace(a.state.input.Value())
			if name == "" {
				return nil, true
			}
			return a.createArtist(name), true
		case "esc":
			a.state.addingArtist = false
			a.state.input.Reset()
			a.state.input.Blur()
			return nil, true
		}
		var cmd tea.Cmd
		a.state.input, cmd = a.state.input.Update(msg)
		return cmd, true
	}

	switch {
	case key.Matches(msg, keys.Up):
		if a.state.artistCursor > 0 {
			a.state.artistCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.state.artistCursor < len(a.state.artists)-1 {
			a.state.artistCursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(a.state.artists) == 0 {
			return nil, true
		}
		artist := a.state.artists[a.state.artistCursor]
		a.state.lastIngest = nil
		a.state.notice = ""
		a.state.docCursor = 0
		return a.loadArtist(artist), true
	case msg.String() == "a":
		a.state.addingArtist = true
		a.state.input.Reset()
		a.state.input.Placeholder = "Artist name, e.g. Sarah Jane Smith"
		a.state.input.Focus()
		return textinput.Blink, true
	case msg.String() == "s":
		a.openSettings()
	case key.Matches(msg, keys.Help):
		a.showHelp()
	case key.Matches(msg, keys.Back), msg.String() == "q":
		a.quitting = true
		return tea.Quit, true
	}
	return nil, true
}

func (a *App) renderArtists() string {
	var b strings.Builder
	boxWidth := min(70, a.width-4)

	header := styleLogo.Render(logo)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, header))
	b.WriteString("\n")

	gallery := styleSubtitle.Render(a.state.config.Gallery.Name + " copywriter")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, gallery))
	b.WriteString("\n\n")

	var lines []string
	if len(a.state.artists) == 0 {
		lines = append(lines, styleSubtitle.Render("No artists yet. Press [a] to add one."))
	}
	for i, artist := range a.state.artists {
		status := stylePending.Render("Pending")
		if artist.HasStyleGuide {
			status = styleReady.Render("Ready")
		}
		name := fmt.Sprintf("%-40s", truncate(artist.Name, 40))
		if i == a.state.artistCursor {
			name = styleSelected.Render("> " + name)
		} else {
			name = "  " + name
		}
		lines = append(lines, name+"  "+status)
	}

	listBox := styleBox.
		Width(boxWidth).
		BorderForeground(colorPrimary).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, listBox))
	b.WriteString("\n\n")

	if a.state.addingArtist {
		inputBox := styleBox.
			Width(boxWidth).
			BorderForeground(colorSecondary).
			Render(a.state.input.View())
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, inputBox))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, a.providerStatus()))
	b.WriteString("\n")

	var status string
	if a.state.addingArtist {
		status = styleStatusBar.Render("[Enter] Create  [Esc] Cancel")
	} else {
		status = styleStatusBar.Render("[Enter] Open  [a] Add artist  [s] Settings  [?] Help  [Esc] Quit")
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}

// providerStatus is a one-line summary of the model connection
func (a *App) providerStatus() string {
	model := a.getModelDisplayName()
	switch {
	case a.state.providerReady:
		return styleReady.Render("Connected: " + model)
	case a.state.providerError != nil:
		return lipgloss.NewStyle().Foreground(colorError).
			Render(truncate("Not connected ("+model+"): "+a.state.providerError.Error(), 80))
	default:
		return styleSubtitle.Render("Connecting to " + model + "...")
	}
}

// getModelDisplayName returns a friendly model name for display
func (a *App) getModelDisplayName() string {
	if a.state.config == nil {
		return ""
	}
	model := a.state.config.Model
	provider := a.state.config.Provider

	displayModel := model
	switch {
	case strings.Contains(model, "claude-3-5-sonnet"):
		displayModel = "Claude 3.5 Sonnet"
	case strings.Contains(model, "claude-3-5-haiku"):
		displayModel = "Claude 3.5 Haiku"
	case strings.Contains(model, "gpt-4o-mini"):
		displayModel = "GPT-4o mini"
	case strings.Contains(model, "gpt-4o"):
		displayModel = "GPT-4o"
	case strings.Contains(model, "gpt-4.1"):
		displayModel = "GPT-4.1"
	case strings.Contains(model, "llama3.2-vision"), strings.Contains(model, "llama-3.2"):
		displayModel = "Llama 3.2 Vision"
	case strings.Contains(model, "gemini"):
		displayModel = "Gemini"
	}

	if provider != "" && !strings.Contains(strings.ToLower(displayModel), strings.ToLower(provider)) {
		return fmt.Sprintf("%s via %s", displayModel, provider)
	}
	return displayModel
}
