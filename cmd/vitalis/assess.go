package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fentz26/vitalis/internal/dashboard"
	"github.com/fentz26/vitalis/internal/models"
	"github.com/spf13/cobra"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Run a health assessment and merge suggested tasks",
	Long: `Saves the health form given by flags, asks the recommendation service for
insights and appends every suggested task to your task list.`,
	RunE: runAssess,
}

var locale string

func init() {
	addFormFlags(assessCmd)
	assessCmd.Flags().StringVar(&locale, "locale", "", "Language of the insights (default en)")
}

func runAssess(cmd *cobra.Command, args []string) error {
	if !form.HasData() {
		return fmt.Errorf("at least one form field is required")
	}

	fmt.Println("⏳ Generating insights...")
	resp, err := apiDo(recommendationClient, http.MethodPost, userPath("/assessment"),
		dashboard.AssessmentRequest{Form: form, Locale: locale})
	if err != nil {
		return err
	}

	var insights models.Insights
	if err := json.Unmarshal(resp, &insights); err != nil {
		return err
	}

	out, err := renderMarkdown(insights.Text)
	if err != nil {
		return err
	}
	fmt.Print(out)

	if len(insights.NewTasks) == 0 {
		fmt.Println("No new tasks suggested")
		return nil
	}
	fmt.Printf("Added %d tasks:\n", len(insights.NewTasks))
	for _, t := range insights.NewTasks {
		fmt.Printf("  • %s\n", t.Name)
	}
	fmt.Printf("Overall progress: %.0f%%\n", insights.OverallProgress)
	return nil
}
