package plan

import (
	"regexp"
	"strings"

	"github.com/fentz26/vitalis/internal/models"
)

var headerRe = regexp.MustCompile(`^\d+\.\s`)

// Section icons, keyed by the first keyword found in the title.
const (
	IconExercise  = "💪"
	IconNutrition = "🥗"
	IconLifestyle = "🌟"
	IconSchedule  = "📅"
	IconProgress  = "📈"
	IconDefault   = "✨"
)

var sectionIcons = []struct {
	keyword string
	icon    string
}{
	{"exercise", IconExercise},
	{"nutrition", IconNutrition},
	{"lifestyle", IconLifestyle},
	{"schedule", IconSchedule},
	{"progress", IconProgress},
}

type parseState int

const (
	noOpenSection parseState = iota
	inSection
)

// ParseSections splits normalized text into numbered sections. Lines before
// the first header and blank lines are dropped. Text without headers yields
// an empty, non-nil slice.
func ParseSections(text string) []models.PlanSection {
	sections := []models.PlanSection{}
	state := noOpenSection
	var current models.PlanSection

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if loc := headerRe.FindStringIndex(trimmed); loc != nil {
			if state == inSection {
				sections = append(sections, current)
			}
			title := strings.TrimSpace(trimmed[loc[1]:])
			current = models.PlanSection{
				Title:   title,
				Content: []string{},
				Icon:    SectionIcon(title),
			}
			state = inSection
			continue
		}

		if trimmed == "" {
			continue
		}

		switch state {
		case noOpenSection:
			// out-of-section text is discarded
		case inSection:
			current.Content = append(current.Content, trimmed)
		}
	}

	if state == inSection {
		sections = append(sections, current)
	}
	return sections
}

// SectionIcon picks the icon for a section title by case-insensitive keyword.
func SectionIcon(title string) string {
	lower := strings.ToLower(title)
	for _, si := range sectionIcons {
		if strings.Contains(lower, si.keyword) {
			return si.icon
		}
	}
	return IconDefault
}
