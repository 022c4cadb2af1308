package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/fentz26/vitalis/internal/dashboard"
	"github.com/spf13/cobra"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show activity metrics and feedback",
	RunE:  runMetricsShow,
}

var metricsSetCmd = &cobra.Command{
	Use:   "set [name] [value]",
	Short: "Set one metric, e.g. 'metrics set Steps 9500'",
	Args:  cobra.ExactArgs(2),
	RunE:  runMetricsSet,
}

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the activity streak and badges",
	RunE:  runStreakShow,
}

var streakUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Record one more active day",
	RunE:  runStreakUp,
}

func init() {
	metricsCmd.AddCommand(metricsSetCmd)
	streakCmd.AddCommand(streakUpCmd)
}

func runMetricsShow(cmd *cobra.Command, args []string) error {
	resp, err := apiGet(userPath("/metrics"))
	if err != nil {
		return err
	}
	return printMetrics(resp)
}

func runMetricsSet(cmd *cobra.Command, args []string) error {
	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("value must be a number: %w", err)
	}
	resp, err := apiPatch(userPath("/metrics"), dashboard.SetMetricRequest{Name: args[0], Value: value})
	if err != nil {
		return err
	}
	return printMetrics(resp)
}

func printMetrics(resp []byte) error {
	var summary dashboard.MetricsSummary
	if err := json.Unmarshal(resp, &summary); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, m := range summary.Metrics {
		fmt.Fprintf(w, "%s\t%g\n", m.Name, m.Value)
	}
	w.Flush()

	fmt.Printf("\nHealth score: %.0f\n", summary.HealthScore)
	for _, fb := range summary.Feedback {
		fmt.Printf("%s %s\n", fb.Badge, fb.Message)
	}
	if summary.Tip != "" {
		fmt.Printf("💡 %s\n", summary.Tip)
	}
	return nil
}

func runStreakShow(cmd *cobra.Command, args []string) error {
	resp, err := apiGet(userPath("/streak"))
	if err != nil {
		return err
	}
	return printStreak(resp)
}

func runStreakUp(cmd *cobra.Command, args []string) error {
	resp, err := apiPost(userPath("/streak"), nil)
	if err != nil {
		return err
	}
	return printStreak(resp)
}

func printStreak(resp []byte) error {
	var summary dashboard.StreakSummary
	if err := json.Unmarshal(resp, &summary); err != nil {
		return err
	}

	fmt.Printf("🔥 Streak: %d days\n", summary.Streak)
	for _, b := range summary.Badges {
		mark := "○"
		if b.Achieved {
			mark = "●"
		}
		fmt.Printf("  %s %s (%s)\n", mark, b.Name, b.Criteria)
	}
	return nil
}
