package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fentz26/vitalis/internal/dashboard"
	"github.com/fentz26/vitalis/internal/models"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a personalized plan from the stored health form",
	RunE:  runPlan,
}

var planRaw bool

func init() {
	planCmd.Flags().BoolVar(&planRaw, "raw", false, "Print plain markdown without styling")
}

func runPlan(cmd *cobra.Command, args []string) error {
	fmt.Println("⏳ Generating plan...")
	resp, err := apiDo(recommendationClient, http.MethodGet, userPath("/plan"), nil)
	if err != nil {
		return err
	}

	var plan dashboard.PlanResponse
	if err := json.Unmarshal(resp, &plan); err != nil {
		return err
	}
	if len(plan.Sections) == 0 {
		fmt.Println("The plan came back without any numbered sections")
		return nil
	}

	md := planMarkdown(plan.Sections)
	if planRaw {
		fmt.Print(md)
		return nil
	}
	out, err := renderMarkdown(md)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// planMarkdown renders sections as one heading per section with its lines
// as a list.
func planMarkdown(sections []models.PlanSection) string {
	var b strings.Builder
	for _, s := range sections {
		fmt.Fprintf(&b, "## %s %s\n\n", s.Icon, s.Title)
		for _, line := range s.Content {
			line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "•"))
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
