package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fentz26/vitalis/internal/dashboard"
	"github.com/fentz26/vitalis/internal/models"
	"github.com/fentz26/vitalis/internal/profile"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTaskList,
}

var taskAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskAdd,
}

var taskProgressCmd = &cobra.Command{
	Use:   "progress [task-id] [percent]",
	Short: "Set task progress (0-100)",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskProgress,
}

var taskTimeCmd = &cobra.Command{
	Use:   "time [task-id] [time]",
	Short: "Set the time of day for a task",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskTime,
}

var taskRenameCmd = &cobra.Command{
	Use:   "rename [task-id] [name]",
	Short: "Rename a task",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskRename,
}

var taskClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all tasks",
	RunE:  runTaskClear,
}

var taskExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print a plain text task report",
	RunE:  runTaskExport,
}

var (
	taskAt   string
	clearYes bool
	exportTo string
)

func init() {
	taskCmd.AddCommand(taskListCmd, taskAddCmd, taskProgressCmd, taskTimeCmd, taskRenameCmd, taskClearCmd, taskExportCmd)

	taskAddCmd.Flags().StringVar(&taskAt, "time", "", "Time of day, e.g. 07:30")
	taskClearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Do not ask for confirmation")
	taskExportCmd.Flags().StringVarP(&exportTo, "output", "o", "", "Write the report to a file")
}

func runTaskList(cmd *cobra.Command, args []string) error {
	resp, err := apiGet(userPath("/tasks"))
	if err != nil {
		return err
	}

	var list dashboard.TaskList
	if err := json.Unmarshal(resp, &list); err != nil {
		return err
	}

	if len(list.Tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPROGRESS\tTIME")
	for _, t := range list.Tasks {
		fmt.Fprintf(w, "%s\t%s\t%d%%\t%s\n", truncateID(t.ID), truncate(t.Name, 40), t.Progress, t.Time)
	}
	w.Flush()

	fmt.Printf("\nOverall progress: %.0f%%\n", list.OverallProgress)
	fmt.Printf("💡 %s\n", profile.RandomTip())
	return nil
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	resp, err := apiPost(userPath("/tasks"), dashboard.AddTaskRequest{Name: args[0], Time: taskAt})
	if err != nil {
		return err
	}

	var task models.Task
	if err := json.Unmarshal(resp, &task); err != nil {
		return err
	}

	fmt.Printf("Created task: %s\n", task.ID)
	return nil
}

func runTaskProgress(cmd *cobra.Command, args []string) error {
	pct, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("progress must be a whole number: %w", err)
	}
	task, err := patchTask(args[0], dashboard.TaskPatch{Progress: &pct})
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d%%\n", task.Name, task.Progress)
	return nil
}

func runTaskTime(cmd *cobra.Command, args []string) error {
	task, err := patchTask(args[0], dashboard.TaskPatch{Time: &args[1]})
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", task.Name, task.Time)
	return nil
}

func runTaskRename(cmd *cobra.Command, args []string) error {
	task, err := patchTask(args[0], dashboard.TaskPatch{Name: &args[1]})
	if err != nil {
		return err
	}
	fmt.Printf("Renamed task %s to %s\n", truncateID(task.ID), task.Name)
	return nil
}

func runTaskClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		fmt.Print("Delete all tasks? [y/N] ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted")
			return nil
		}
	}
	if _, err := apiDelete(userPath("/tasks")); err != nil {
		return err
	}
	fmt.Println("Cleared all tasks")
	return nil
}

func runTaskExport(cmd *cobra.Command, args []string) error {
	report, err := apiGet(userPath("/tasks/export"))
	if err != nil {
		return err
	}
	if exportTo == "" {
		fmt.Print(string(report))
		return nil
	}
	if err := os.WriteFile(exportTo, report, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Printf("Wrote %s\n", exportTo)
	return nil
}

func patchTask(idOrPrefix string, patch dashboard.TaskPatch) (*models.Task, error) {
	id, err := resolveTaskID(idOrPrefix)
	if err != nil {
		return nil, err
	}
	resp, err := apiPatch(userPath("/tasks/"+url.PathEscape(id)), patch)
	if err != nil {
		return nil, err
	}
	var task models.Task
	if err := json.Unmarshal(resp, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// resolveTaskID expands the short IDs printed by "task list".
func resolveTaskID(prefix string) (string, error) {
	resp, err := apiGet(userPath("/tasks"))
	if err != nil {
		return "", err
	}
	var list dashboard.TaskList
	if err := json.Unmarshal(resp, &list); err != nil {
		return "", err
	}

	var matches []string
	for _, t := range list.Tasks {
		if t.ID == prefix {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, prefix) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no task matches %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q matches %d tasks, use a longer prefix", prefix, len(matches))
	}
}

// --- Helpers ---

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
