package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/vitalis/internal/models"
)

var sectionTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)

func renderPlan(sections []models.PlanSection, width int) string {
	if len(sections) == 0 {
		return "\n  No plan sections yet. Save your health form, then press r.\n"
	}

	body := lipgloss.NewStyle().PaddingLeft(4)
	if width > 8 {
		body = body.Width(width - 4)
	}

	var b strings.Builder
	for _, s := range sections {
		b.WriteString("\n  " + sectionTitleStyle.Render(s.Icon+" "+s.Title) + "\n")
		for _, line := range s.Content {
			b.WriteString(body.Render(line) + "\n")
		}
	}
	return b.String()
}
