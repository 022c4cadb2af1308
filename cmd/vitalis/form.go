package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fentz26/vitalis/internal/models"
	"github.com/spf13/cobra"
)

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Manage the stored health form",
}

var formSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save the health form",
	RunE:  runFormSet,
}

var formShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored health form",
	RunE:  runFormShow,
}

var formClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored health form",
	RunE:  runFormClear,
}

var form models.HealthForm

func init() {
	formCmd.AddCommand(formSetCmd, formShowCmd, formClearCmd)

	addFormFlags(formSetCmd)
}

// addFormFlags binds one flag per health form field.
func addFormFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&form.Age, "age", "", "Age in years")
	f.StringVar(&form.Gender, "gender", "", "Gender")
	f.StringVar(&form.Height, "height", "", "Height in cm")
	f.StringVar(&form.Weight, "weight", "", "Weight in kg")
	f.StringVar(&form.ActivityLevel, "activity", "", "Activity level")
	f.StringVar(&form.ExercisePreference, "exercise", "", "Exercise preference")
	f.StringVar(&form.CurrentDiet, "diet", "", "Current diet")
	f.StringVar(&form.DietaryRestrictions, "restrictions", "", "Dietary restrictions")
	f.StringVar(&form.LifestyleGoals, "lifestyle", "", "Lifestyle goals")
	f.StringVar(&form.Goals, "goals", "", "Health goals")
	f.StringVar(&form.MedicalConditions, "conditions", "", "Medical conditions")
}

func runFormSet(cmd *cobra.Command, args []string) error {
	if !form.HasData() {
		return fmt.Errorf("at least one form field is required")
	}
	if _, err := apiPut(userPath("/form"), form); err != nil {
		return err
	}
	fmt.Println("Saved health form")
	return nil
}

func runFormShow(cmd *cobra.Command, args []string) error {
	resp, err := apiGet(userPath("/form"))
	if err != nil {
		return err
	}

	var f models.HealthForm
	if err := json.Unmarshal(resp, &f); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range [][2]string{
		{"Age", f.Age},
		{"Gender", f.Gender},
		{"Height", f.Height},
		{"Weight", f.Weight},
		{"Activity Level", f.ActivityLevel},
		{"Exercise", f.ExercisePreference},
		{"Diet", f.CurrentDiet},
		{"Restrictions", f.DietaryRestrictions},
		{"Lifestyle Goals", f.LifestyleGoals},
		{"Goals", f.Goals},
		{"Medical Conditions", f.MedicalConditions},
	} {
		if row[1] != "" {
			fmt.Fprintf(w, "%s:\t%s\n", row[0], row[1])
		}
	}
	return w.Flush()
}

func runFormClear(cmd *cobra.Command, args []string) error {
	if _, err := apiDelete(userPath("/form")); err != nil {
		return err
	}
	fmt.Println("Cleared health form")
	return nil
}
