package advisor

import (
	"fmt"
	"strings"

	"github.com/fentz26/vitalis/internal/models"
)

// DefaultLocale is used when the caller gives none.
const DefaultLocale = "en"

// PlanSectionTitles are the sections a plan prompt asks for.
var PlanSectionTitles = []string{
	"Exercise Plan",
	"Nutrition Plan",
	"Lifestyle Recommendations",
	"Weekly Schedule",
	"Progress Tracking Tips",
}

// BuildInsightsPrompt asks for recommendations plus 3-5 tasks, written in
// locale.
func BuildInsightsPrompt(form models.HealthForm, locale string) string {
	if strings.TrimSpace(locale) == "" {
		locale = DefaultLocale
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on the following health information, provide personalized health recommendations and tasks in %s:\n\n", locale)
	writeForm(&b, form)
	b.WriteString("\nPlease provide specific recommendations and include at least 3-5 actionable tasks.")
	return b.String()
}

// BuildPlanPrompt asks for a structured plan with the PlanSectionTitles.
func BuildPlanPrompt(form models.HealthForm) string {
	var b strings.Builder
	b.WriteString("Based on the following health information, create a comprehensive health and fitness plan:\n\n")
	writeForm(&b, form)
	b.WriteString("\nPlease provide a structured plan with the following sections:\n")
	for i, title := range PlanSectionTitles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, title)
	}
	b.WriteString("\nFor each section, provide detailed, actionable items that are realistic and achievable.")
	return b.String()
}

func writeForm(b *strings.Builder, f models.HealthForm) {
	fmt.Fprintf(b, "Age: %s\n", f.Age)
	fmt.Fprintf(b, "Height: %s cm\n", f.Height)
	fmt.Fprintf(b, "Weight: %s kg\n", f.Weight)
	fmt.Fprintf(b, "Exercise Preference: %s\n", f.ExercisePreference)
	fmt.Fprintf(b, "Current Diet: %s\n", f.CurrentDiet)
	fmt.Fprintf(b, "Dietary Restrictions: %s\n", f.DietaryRestrictions)
	fmt.Fprintf(b, "Lifestyle Goals: %s\n", f.LifestyleGoals)
	fmt.Fprintf(b, "Gender: %s\n", f.Gender)
	fmt.Fprintf(b, "Activity Level: %s\n", f.ActivityLevel)
	fmt.Fprintf(b, "Health Goals: %s\n", f.Goals)
	fmt.Fprintf(b, "Medical Conditions: %s\n", f.MedicalConditions)
}
