package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/copywriter/internal/config"
)

type settingsMode int

const (
	settingsMain settingsMode = iota
	settingsProvider
	settingsModel
	settingsAPIKey
	settingsGallery
	settingsAvoid
)

func (a *App) openSettings() {
	a.state.settingsMode = settingsMain
	a.state.settingsSelected = 0
	a.view = viewSettings
}

func (a *App) handleSettingsKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	s := a.state

	switch s.settingsMode {
	case settingsProvider:
		return a.pickFromList(msg, len(config.Providers), func(i int) tea.Cmd {
			p := config.Providers[i]
			s.config.Provider = p.ID
			s.config.Model = p.DefaultModel
			s.config.BaseURL = ""
			s.config.APIKey = ""
			s.config.ApplyEnv()
			if p.NeedsAPIKey && s.config.APIKey == "" {
				s.settingsMode = settingsAPIKey
				s.apiKeyInput.Reset()
				s.apiKeyInput.Focus()
				return textinput.Blink
			}
			return a.applySettings()
		}), true

	case settingsModel:
		provider := config.GetProvider(s.config.Provider)
		if provider == nil {
			s.settingsMode = settingsMain
			return nil, true
		}
		return a.pickFromList(msg, len(provider.Models), func(i int) tea.Cmd {
			s.config.Model = provider.Models[i]
			return a.applySettings()
		}), true

	case settingsAPIKey:
		return a.settingsTextInput(msg, &s.apiKeyInput, func(v string) {
			s.config.APIKey = v
		}), true

	case settingsGallery:
		return a.settingsTextInput(msg, &s.input, func(v string) {
			s.config.Gallery.Name = v
		}), true

	case settingsAvoid:
		return a.settingsTextInput(msg, &s.input, func(v string) {
			s.config.Gallery.AvoidNames = splitNames(v)
		}), true
	}

	switch msg.String() {
	case "p":
		s.settingsMode = settingsProvider
		s.settingsSelected = 0
	case "m":
		s.settingsMode = settingsModel
		s.settingsSelected = 0
	case "k":
		s.settingsMode = settingsAPIKey
		s.apiKeyInput.Reset()
		s.apiKeyInput.Focus()
		return textinput.Blink, true
	case "g":
		return a.editSetting(settingsGallery, "Gallery name", s.config.Gallery.Name), true
	case "n":
		return a.editSetting(settingsAvoid, "Names to avoid, comma separated", strings.Join(s.config.Gallery.AvoidNames, ", ")), true
	case "r":
		s.setupStep = setupProvider
		s.selectedProvider = 0
		s.needsSetup = true
		a.view = viewSetup
	case "esc":
		a.view = viewArtists
	}
	return nil, true
}

// pickFromList moves the settings cursor over n entries and calls choose on Enter
func (a *App) pickFromList(msg tea.KeyMsg, n int, choose func(int) tea.Cmd) tea.Cmd {
	s := a.state
	switch {
	case key.Matches(msg, keys.Up):
		if s.settingsSelected > 0 {
			s.settingsSelected--
		}
	case key.Matches(msg, keys.Down):
		if s.settingsSelected < n-1 {
			s.settingsSelected++
		}
	case key.Matches(msg, keys.Enter):
		s.settingsMode = settingsMain
		return choose(s.settingsSelected)
	case key.Matches(msg, keys.Back):
		s.settingsMode = settingsMain
	}
	return nil
}

func (a *App) editSetting(mode settingsMode, placeholder, value string) tea.Cmd {
	a.state.settingsMode = mode
	a.state.input.Reset()
	a.state.input.Placeholder = placeholder
	a.state.input.SetValue(value)
	a.state.input.CursorEnd()
	a.state.input.Focus()
	return textinput.Blink
}

// settingsTextInput edits one value; Enter with a blank value is ignored
func (a *App) settingsTextInput(msg tea.KeyMsg, in *textinput.Model, set func(string)) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Enter):
		value := strings.TrimSpace(in.Value())
		if value == "" && a.state.settingsMode != settingsAvoid {
			return nil
		}
		set(value)
		in.Reset()
		in.Blur()
		a.state.settingsMode = settingsMain
		return a.applySettings()
	case key.Matches(msg, keys.Back):
		in.Reset()
		in.Blur()
		a.state.settingsMode = settingsMain
		return nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return cmd
}

func splitNames(s string) []string {
	var names []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// applySettings saves the config and reconnects, which also rebuilds the
// house style from the gallery settings
func (a *App) applySettings() tea.Cmd {
	a.state.providerReady = false
	a.state.providerError = nil
	if err := a.state.config.Save(); err != nil {
		return a.showError(err, viewSettings)
	}
	return a.connect()
}

func maskKey(k string) string {
	switch {
	case k == "":
		return "Not set"
	case len(k) > 8:
		return k[:4] + "****" + k[len(k)-4:]
	default:
		return "****"
	}
}

// settingsFrame stacks a title, optional subtitle, a boxed body and key hints
func (a *App) settingsFrame(title, subtitle, body, keys string) string {
	center := func(s string) string { return lipgloss.PlaceHorizontal(a.width, lipgloss.Center, s) }

	parts := []string{center(styleTitle.Render(title))}
	if subtitle != "" {
		parts = append(parts, center(styleSubtitle.Render(subtitle)))
	}
	parts = append(parts, center(body), center(styleStatusBar.Render(keys)))
	return a.centerVertically(strings.Join(parts, "\n\n"))
}

func (a *App) renderSettings() string {
	s := a.state
	switch s.settingsMode {
	case settingsProvider:
		names := make([]string, len(config.Providers))
		for i, p := range config.Providers {
			names[i] = p.Name
		}
		return a.settingsFrame("Select provider", "", a.renderChoices(names, s.config.Provider, config.GetProvider(s.config.Provider)),
			"[Up/Down] Navigate  [Enter] Select  [Esc] Cancel")

	case settingsModel:
		p := config.GetProvider(s.config.Provider)
		if p == nil {
			return a.settingsFrame("Select model", "No provider selected", "", "[Esc] Back")
		}
		return a.settingsFrame("Select model", "Provider: "+p.Name, a.renderChoices(p.Models, s.config.Model, nil),
			"[Up/Down] Navigate  [Enter] Select  [Esc] Cancel")

	case settingsAPIKey:
		return a.settingsFrame("Update API key", "Enter your new API key",
			styleBox.Width(50).BorderForeground(colorPrimary).Render(s.apiKeyInput.View()),
			"[Enter] Save  [Esc] Cancel")

	case settingsGallery:
		return a.settingsFrame("Gallery name", "Generated copy always uses this name",
			styleBox.Width(60).BorderForeground(colorPrimary).Render(s.input.View()),
			"[Enter] Save  [Esc] Cancel")

	case settingsAvoid:
		return a.settingsFrame("Names to avoid", "Alternate gallery names the copy must never use; empty clears the list",
			styleBox.Width(60).BorderForeground(colorPrimary).Render(s.input.View()),
			"[Enter] Save  [Esc] Cancel")
	}
	return a.renderSettingsMain()
}

// renderChoices lists options with the cursor row highlighted and the
// current value marked
func (a *App) renderChoices(options []string, current string, currentInfo *config.ProviderInfo) string {
	lines := make([]string, len(options))
	for i, opt := range options {
		mark := ""
		if opt == current || (currentInfo != nil && opt == currentInfo.Name) {
			mark = " (current)"
		}
		if i == a.state.settingsSelected {
			lines[i] = styleSelected.Render("> " + opt + mark)
		} else {
			lines[i] = "  " + opt + mark
		}
	}
	return styleBox.Width(50).Render(strings.Join(lines, "\n"))
}

func (a *App) renderSettingsMain() string {
	cfg := a.state.config

	providerName := cfg.Provider
	if p := config.GetProvider(cfg.Provider); p != nil {
		providerName = p.Name
	}
	avoid := "none"
	if len(cfg.Gallery.AvoidNames) > 0 {
		avoid = strings.Join(cfg.Gallery.AvoidNames, ", ")
	}

	lines := []string{
		fmt.Sprintf("  Provider: %s", providerName),
		fmt.Sprintf("  Model:    %s", cfg.Model),
		fmt.Sprintf("  API key:  %s", maskKey(cfg.APIKey)),
		"",
		fmt.Sprintf("  Gallery:  %s", cfg.Gallery.Name),
		fmt.Sprintf("  Never:    %s", truncate(avoid, 44)),
	}
	if cfg.FormatsDir != "" {
		lines = append(lines, fmt.Sprintf("  Formats:  %s", truncate(cfg.FormatsDir, 44)))
	}

	actions := []string{
		"  [p] Provider    [m] Model           [k] API key",
		"  [g] Gallery     [n] Names to avoid  [r] Run setup again",
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		styleBox.Width(60).Render(strings.Join(lines, "\n")),
		"",
		styleBox.Width(60).Render(strings.Join(actions, "\n")),
	)
	return a.settingsFrame("Settings", "Format rules are read from formats_dir in config.yaml", body, "[Esc] Back")
}
