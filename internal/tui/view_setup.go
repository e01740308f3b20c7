package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/copywriter/internal/config"
)

const logo = `
┌─┐┌─┐┌─┐┬ ┬┬ ┬┬─┐┬┌┬┐┌─┐┬─┐
│  │ │├─┘└┬┘│││├┬┘│ │ ├┤ ├┬┘
└─┘└─┘┴   ┴ └┴┘┴└─┴ ┴ └─┘┴└─
`

// The wizard runs provider, then API key when the provider needs one and the
// environment has none, then the gallery name used as house style.
func (a *App) handleSetupKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	cfg := a.state.config

	switch a.state.setupStep {
	case setupProvider:
		switch msg.String() {
		case "up", "k":
			if a.state.selectedProvider > 0 {
				a.state.selectedProvider--
			}
		case "down", "j":
			if a.state.selectedProvider < len(config.Providers)-1 {
				a.state.selectedProvider++
			}
		case "enter":
			p := config.Providers[a.state.selectedProvider]
			cfg.Provider = p.ID
			cfg.Model = p.DefaultModel
			cfg.APIKey = ""
			cfg.ApplyEnv()

			if p.NeedsAPIKey && cfg.APIKey == "" {
				a.state.setupStep = setupAPIKey
				a.state.apiKeyInput.Focus()
				return textinput.Blink, true
			}
			return a.askGallery(), true
		case "esc", "q":
			a.quitting = true
			return tea.Quit, true
		}
		return nil, true

	case setupAPIKey:
		switch msg.String() {
		case "enter":
			key := strings.TrimSpace(a.state.apiKeyInput.Value())
			if key == "" {
				return nil, true
			}
			cfg.APIKey = key
			a.state.apiKeyInput.Blur()
			return a.askGallery(), true
		case "esc":
			a.state.setupStep = setupProvider
			a.state.apiKeyInput.Reset()
			a.state.apiKeyInput.Blur()
			return nil, true
		}
		var cmd tea.Cmd
		a.state.apiKeyInput, cmd = a.state.apiKeyInput.Update(msg)
		return cmd, true

	case setupGallery:
		switch msg.String() {
		case "enter":
			if name := strings.TrimSpace(a.state.input.Value()); name != "" {
				cfg.Gallery.Name = name
			}
			a.state.input.Reset()
			a.state.input.Blur()
			return a.finishSetup(), true
		case "esc":
			a.state.input.Blur()
			a.state.setupStep = setupProvider
			return nil, true
		}
		var cmd tea.Cmd
		a.state.input, cmd = a.state.input.Update(msg)
		return cmd, true
	}

	return nil, false
}

func (a *App) askGallery() tea.Cmd {
	a.state.setupStep = setupGallery
	a.state.input.Reset()
	a.state.input.Placeholder = "Gallery name"
	a.state.input.SetValue(a.state.config.Gallery.Name)
	a.state.input.CursorEnd()
	a.state.input.Focus()
	return textinput.Blink
}

func (a *App) finishSetup() tea.Cmd {
	cfg := a.state.config
	return func() tea.Msg {
		if err := cfg.Validate(); err != nil {
			return setupErrorMsg{err}
		}
		if err := cfg.Save(); err != nil {
			return setupErrorMsg{err}
		}
		return setupCompleteMsg{}
	}
}

func (a *App) renderSetup() string {
	switch a.state.setupStep {
	case setupProvider:
		return a.renderProviderSelection()
	case setupAPIKey:
		return a.renderAPIKeyEntry()
	case setupGallery:
		return a.renderGalleryEntry()
	}
	return ""
}

// setupFrame lays out one wizard step under the logo
func (a *App) setupFrame(title, hint, body, keys string) string {
	center := func(s string) string { return lipgloss.PlaceHorizontal(a.width, lipgloss.Center, s) }

	parts := []string{
		center(styleLogo.Render(logo)),
		center(lipgloss.NewStyle().Foreground(colorWhite).Bold(true).Render(title)),
	}
	if hint != "" {
		parts = append(parts, center(styleSubtitle.Render(hint)))
	}
	parts = append(parts, center(body), center(styleStatusBar.Render(keys)))

	return a.centerVertically(strings.Join(parts, "\n\n"))
}

func (a *App) renderProviderSelection() string {
	lines := make([]string, len(config.Providers))
	for i, p := range config.Providers {
		if i == a.state.selectedProvider {
			lines[i] = styleSelected.Render(fmt.Sprintf("> %-11s %s", p.Name, p.Description))
		} else {
			lines[i] = styleSubtitle.Render(fmt.Sprintf("  %-11s %s", p.Name, p.Description))
		}
	}

	return a.setupFrame(
		"Which model service should write your copy?",
		"Every listed model can read artwork images.",
		styleBox.Width(62).Render(strings.Join(lines, "\n")),
		"[j/k] Navigate  [Enter] Select  [Esc] Quit",
	)
}

func (a *App) renderAPIKeyEntry() string {
	name, hint := a.state.config.Provider, ""
	if p := config.GetProvider(name); p != nil {
		name = p.Name
		hint = "Get one at " + p.SignupURL
		if p.EnvKey != "" {
			hint += "  (or set " + p.EnvKey + ")"
		}
	}

	return a.setupFrame(
		fmt.Sprintf("Paste your %s API key", name),
		hint,
		styleBox.Width(60).BorderForeground(colorSecondary).Render(a.state.apiKeyInput.View()),
		"[Enter] Continue  [Esc] Back",
	)
}

func (a *App) renderGalleryEntry() string {
	return a.setupFrame(
		"What is the gallery called?",
		"Generated copy always refers to the gallery by this name.",
		styleBox.Width(60).BorderForeground(colorSecondary).Render(a.state.input.View()),
		"[Enter] Finish  [Esc] Start over",
	)
}

func (a *App) centerVertically(content string) string {
	lines := strings.Count(content, "\n") + 1
	padding := max((a.height-lines)/2, 0)
	return strings.Repeat("\n", padding) + content
}
