package dashboard

import (
	"github.com/fentz26/vitalis/internal/models"
	"github.com/fentz26/vitalis/internal/profile"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// HealthResponse is the response body of GET /health.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	DB      string `json:"db"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	Reason    string `json:"reason,omitempty"`
	Retryable bool   `json:"retryable"`
}

// AssessmentRequest is the body of POST /users/{uid}/assessment.
type AssessmentRequest struct {
	Form   models.HealthForm `json:"form"`
	Locale string            `json:"locale"`
}

// PlanResponse is the body of GET /users/{uid}/plan.
type PlanResponse struct {
	Sections []models.PlanSection `json:"sections"`
}

// TaskList is a user's tasks with their mean progress.
type TaskList struct {
	Tasks           []models.Task `json:"tasks"`
	OverallProgress float64       `json:"overall_progress"`
}

// AddTaskRequest is the body of POST /users/{uid}/tasks.
type AddTaskRequest struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

// TaskPatch holds the fields to change on one task; nil fields are left alone.
type TaskPatch struct {
	Progress *int    `json:"progress,omitempty"`
	Time     *string `json:"time,omitempty"`
	Name     *string `json:"name,omitempty"`
}

// MetricsSummary is a user's metrics with the derived score and feedback.
type MetricsSummary struct {
	Metrics     []models.Metric    `json:"metrics"`
	HealthScore float64            `json:"health_score"`
	Feedback    []profile.Feedback `json:"feedback"`
	Tip         string             `json:"tip"`
}

// SetMetricRequest is the body of PATCH /users/{uid}/metrics.
type SetMetricRequest struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// StreakSummary is a user's streak with the badges it unlocks.
type StreakSummary struct {
	Streak int             `json:"streak"`
	Badges []profile.Badge `json:"badges"`
}
