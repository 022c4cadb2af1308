package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderOverall() string {
	label := lipgloss.NewStyle().Bold(true).Render("Overall Progress")
	return fmt.Sprintf("  %s  %s %.0f%%", label, a.bar.ViewAs(a.overall/100), a.overall)
}

func (a *App) renderTaskList(height int) string {
	if a.loading && len(a.tasks) == 0 {
		return "\n  Loading tasks...\n"
	}
	if len(a.tasks) == 0 {
		return "\n  No tasks yet. Press a to add one, or run an assessment.\n"
	}

	var lines []string
	for i, task := range a.tasks {
		tm := task.Time
		if tm == "" {
			tm = "--:--"
		}
		bar := a.bar.ViewAs(float64(task.Progress) / 100)

		if i == a.selectedIdx {
			lines = append(lines, selectedStyle.Render(fmt.Sprintf("▶ %-5s %3d%%  %s", tm, task.Progress, task.Name))+" "+bar)
		} else {
			lines = append(lines, taskItemStyle.Render(fmt.Sprintf("  %-5s %3d%%  %s", tm, task.Progress, task.Name))+" "+bar)
		}
	}

	if len(lines) > height {
		start := a.selectedIdx - height/2
		if start < 0 {
			start = 0
		}
		end := start + height
		if end > len(lines) {
			end = len(lines)
			start = max(0, end-height)
		}
		lines = lines[start:end]
	}

	return strings.Join(lines, "\n")
}
