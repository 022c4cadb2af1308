// Package tasks manages a user's persisted task collection.
//
// The collection functions are pure: they return a new slice and never
// modify their input. Repository applies them to storage as single atomic
// read-modify-write operations.
package tasks

import (
	"fmt"
	"math"
	"strings"

	"github.com/fentz26/vitalis/internal/models"
)

// Merge appends extracted to existing. Existing entries keep their identity,
// order and values.
func Merge(existing, extracted []models.Task) []models.Task {
	out := make([]models.Task, 0, len(existing)+len(extracted))
	out = append(out, existing...)
	return append(out, extracted...)
}

// UpdateProgress sets the progress of the task with id, clamped to 0-100.
// An unknown id returns an unchanged copy.
func UpdateProgress(collection []models.Task, id string, value int) []models.Task {
	return replace(collection, id, func(t *models.Task) { t.Progress = ClampProgress(value) })
}

// UpdateTime sets the time of the task with id.
func UpdateTime(collection []models.Task, id, value string) []models.Task {
	return replace(collection, id, func(t *models.Task) { t.Time = value })
}

// Rename sets the name of the task with id.
func Rename(collection []models.Task, id, name string) []models.Task {
	return replace(collection, id, func(t *models.Task) { t.Name = name })
}

// Find returns the task with id.
func Find(collection []models.Task, id string) (models.Task, bool) {
	for _, t := range collection {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// OverallProgress is the mean progress of the collection, 0 when empty.
func OverallProgress(collection []models.Task) float64 {
	if len(collection) == 0 {
		return 0
	}
	total := 0
	for _, t := range collection {
		total += t.Progress
	}
	return float64(total) / float64(len(collection))
}

// ClampProgress limits v to 0-100.
func ClampProgress(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// Report renders the collection as a plain-text progress report.
func Report(collection []models.Task) string {
	var b strings.Builder
	b.WriteString("Health Tasks\n\n")
	fmt.Fprintf(&b, "Overall Progress: %d%%\n\n", int(math.Round(OverallProgress(collection))))
	b.WriteString("Tasks:\n")
	for i, t := range collection {
		fmt.Fprintf(&b, "%d. %s - %d%% - Time: %s\n", i+1, t.Name, t.Progress, t.Time)
	}
	return b.String()
}

func replace(collection []models.Task, id string, mutate func(*models.Task)) []models.Task {
	out := make([]models.Task, len(collection))
	copy(out, collection)
	for i := range out {
		if out[i].ID == id {
			mutate(&out[i])
			break
		}
	}
	return out
}
