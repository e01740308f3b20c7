package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sant0-9/copywriter/internal/pipeline"
)

func (a *App) renderProcessing() string {
	var b strings.Builder

	// Title
	title := styleTitle.Render("Processing")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	if a.state.selectedArtist != nil {
		artist := styleSubtitle.Render(a.state.selectedArtist.Name)
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, artist))
		b.WriteString("\n\n")
	}

	elapsed := time.Since(a.state.started).Round(time.Second)
	label := fmt.Sprintf("%s %s  %s", a.state.spinner.View(), a.state.processing, elapsed)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, label))
	b.WriteString("\n\n")

	if a.state.uploading {
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, a.renderStages()))
		b.WriteString("\n\n")
	}

	// Message
	if p := a.state.progress; p != nil && p.Message != "" {
		msg := styleSubtitle.Render(truncate(p.Message, 60))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, msg))
		b.WriteString("\n\n")
	}

	status := styleStatusBar.Render("[Esc] Cancel")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, status))

	return a.centerVertically(b.String())
}

// renderStages shows the ingestion stages of the current file with a bar
// for the whole batch
func (a *App) renderStages() string {
	stages := []pipeline.Stage{pipeline.StageExtracting, pipeline.StageChunking, pipeline.StageStoring}
	current := pipeline.StageExtracting
	p := a.state.progress
	if p != nil {
		current = p.Stage
	}

	var stageLines []string
	for _, stage := range stages {
		var icon string
		var style lipgloss.Style

		if stage < current {
			// Completed
			icon = "[x]"
			style = lipgloss.NewStyle().Foreground(colorSuccess)
		} else if stage == current {
			// Current
			icon = "[>]"
			style = lipgloss.NewStyle().Foreground(colorSecondary).Bold(true)
		} else {
			// Pending
			icon = "[ ]"
			style = lipgloss.NewStyle().Foreground(colorMuted)
		}
		stageLines = append(stageLines, style.Render(fmt.Sprintf("  %s  %-12s", icon, stage)))
	}

	if p != nil && p.TotalItems > 0 {
		pct := float64(p.ItemIndex) / float64(p.TotalItems)
		filled := int(pct * 30)
		empty := 30 - filled
		bar := "  " +
			lipgloss.NewStyle().Foreground(colorSecondary).Render(strings.Repeat("=", filled)) +
			lipgloss.NewStyle().Foreground(colorMuted).Render(strings.Repeat("-", empty)) +
			fmt.Sprintf("  %d/%d", p.ItemIndex, p.TotalItems)
		stageLines = append(stageLines, "", bar)
	}

	return styleBox.
		Width(min(60, a.width-4)).
		Render(strings.Join(stageLines, "\n"))
}
