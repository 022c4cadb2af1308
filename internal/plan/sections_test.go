package plan

import (
	"testing"

	"github.com/fentz26/vitalis/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParseSections(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []models.PlanSection
	}{
		{
			name: "empty",
			in:   "",
			want: []models.PlanSection{},
		},
		{
			name: "no headers",
			in:   "just some advice\n• and a bullet",
			want: []models.PlanSection{},
		},
		{
			name: "two sections",
			in:   "1. Exercise Plan\n• Walk 30 minutes\n2. Nutrition Plan\n• Eat more protein",
			want: []models.PlanSection{
				{Title: "Exercise Plan", Content: []string{"• Walk 30 minutes"}, Icon: IconExercise},
				{Title: "Nutrition Plan", Content: []string{"• Eat more protein"}, Icon: IconNutrition},
			},
		},
		{
			name: "preamble and blanks dropped",
			in:   "Here is your plan:\n\n  1. Weekly Schedule  \n\n  • Mon: run\n\n• Tue: rest\n",
			want: []models.PlanSection{
				{Title: "Weekly Schedule", Content: []string{"• Mon: run", "• Tue: rest"}, Icon: IconSchedule},
			},
		},
		{
			name: "header without content",
			in:   "1. Lifestyle Recommendations\n2. Progress Tracking Tips\n• weigh in weekly",
			want: []models.PlanSection{
				{Title: "Lifestyle Recommendations", Content: []string{}, Icon: IconLifestyle},
				{Title: "Progress Tracking Tips", Content: []string{"• weigh in weekly"}, Icon: IconProgress},
			},
		},
		{
			name: "number without space is content",
			in:   "1. Health Assessment\n2.5kg to lose\n10. Final notes",
			want: []models.PlanSection{
				{Title: "Health Assessment", Content: []string{"2.5kg to lose"}, Icon: IconDefault},
				{Title: "Final notes", Content: []string{}, Icon: IconDefault},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSections(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseSections() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseSections_Stable(t *testing.T) {
	in := "1. Exercise Plan\n• a\n2. Nutrition\n• b"
	assert.Equal(t, ParseSections(in), ParseSections(in))
}

func TestSectionIcon(t *testing.T) {
	assert.Equal(t, IconExercise, SectionIcon("EXERCISE routine"))
	assert.Equal(t, IconNutrition, SectionIcon("Nutrition Plan"))
	assert.Equal(t, IconExercise, SectionIcon("Exercise and Nutrition"))
	assert.Equal(t, IconDefault, SectionIcon("Health Assessment"))
}
