package plan

import (
	"strings"

	"github.com/fentz26/vitalis/internal/models"
	"github.com/google/uuid"
)

// Extractor turns task-marker lines into task records.
type Extractor struct {
	// NewID returns the id for the task at the given ordinal, where ordinal
	// counts from the caller's existing task count. Defaults to random UUIDs.
	NewID func(ordinal int) string
}

// DefaultExtractor assigns random UUIDs.
var DefaultExtractor = Extractor{}

// ExtractTasks is DefaultExtractor.Extract.
func ExtractTasks(text string, existingCount int) []models.Task {
	return DefaultExtractor.Extract(text, existingCount)
}

// Extract returns one task per line containing TaskMarker, in order. Names
// are the line minus the marker, trimmed; progress starts at 0 with no time.
func (e Extractor) Extract(text string, existingCount int) []models.Task {
	newID := e.NewID
	if newID == nil {
		newID = func(int) string { return uuid.New().String() }
	}

	tasks := []models.Task{}
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, TaskMarker) {
			continue
		}
		name := strings.TrimSpace(strings.Replace(line, TaskMarker, "", 1))
		tasks = append(tasks, models.Task{
			ID:       newID(existingCount + len(tasks)),
			Name:     name,
			Progress: 0,
		})
	}
	return tasks
}
