// Package dashboard provides the HTTP API and service layer for Vitalis.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fentz26/vitalis/internal/advisor"
	"github.com/fentz26/vitalis/internal/audit"
	"github.com/fentz26/vitalis/internal/models"
	"github.com/fentz26/vitalis/internal/plan"
	"github.com/fentz26/vitalis/internal/profile"
	"github.com/fentz26/vitalis/internal/store"
	"github.com/fentz26/vitalis/internal/tasks"
	"go.uber.org/zap"
)

// Recommender requests normalized recommendation text. *advisor.Advisor
// satisfies it.
type Recommender interface {
	RequestRecommendation(ctx context.Context, prompt string) (string, error)
}

// Service provides the dashboard business logic.
type Service struct {
	store     *store.Store
	advisor   Recommender
	tasks     *tasks.Repository
	profile   *profile.Profile
	pdr       *audit.PDRWriter
	extractor plan.Extractor
	logger    *zap.Logger
}

// NewService creates a new dashboard service.
func NewService(s *store.Store, rec Recommender, pdr *audit.PDRWriter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     s,
		advisor:   rec,
		tasks:     tasks.NewRepository(s),
		profile:   profile.New(s),
		pdr:       pdr,
		extractor: plan.DefaultExtractor,
		logger:    logger,
	}
}

// Ping checks the database.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// --- Health Form ---

// SaveForm stores a user's health form.
func (s *Service) SaveForm(ctx context.Context, userID string, form models.HealthForm) error {
	if err := s.profile.SaveForm(ctx, userID, form); err != nil {
		return err
	}
	s.pdr.Record(ctx, audit.ActionFormSave, form, "success", userID, "")
	return nil
}

// Form returns a user's health form or profile.ErrNoHealthData.
func (s *Service) Form(ctx context.Context, userID string) (models.HealthForm, error) {
	return s.profile.Form(ctx, userID)
}

// ClearForm forgets a user's health form.
func (s *Service) ClearForm(ctx context.Context, userID string) error {
	if err := s.profile.ClearForm(ctx, userID); err != nil {
		return err
	}
	s.pdr.Record(ctx, audit.ActionFormSave, nil, "cleared", userID, "")
	return nil
}

// --- Recommendations ---

// Assess saves the form, asks for recommendations and merges any tasks they
// contain into the user's collection.
func (s *Service) Assess(ctx context.Context, userID string, form models.HealthForm, locale string) (*models.Insights, error) {
	if err := s.profile.SaveForm(ctx, userID, form); err != nil {
		return nil, err
	}

	text, err := s.advisor.RequestRecommendation(ctx, advisor.BuildInsightsPrompt(form, locale))
	if err != nil {
		s.pdr.Record(ctx, audit.ActionAssessment, form, "failed", userID, err.Error())
		return nil, err
	}

	current, err := s.tasks.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	extracted := s.extractor.Extract(text, len(current))

	all, err := s.tasks.Merge(ctx, userID, extracted)
	if err != nil {
		return nil, err
	}

	s.logger.Info("assessment complete",
		zap.String("user_id", userID),
		zap.Int("new_tasks", len(extracted)),
		zap.Int("total_tasks", len(all)),
	)
	s.pdr.Record(ctx, audit.ActionAssessment, form, "success", userID, fmt.Sprintf("%d tasks extracted", len(extracted)))
	if len(extracted) > 0 {
		s.pdr.Record(ctx, audit.ActionTasksMerge, extracted, "success", userID, "")
	}

	return &models.Insights{
		Text:            text,
		NewTasks:        extracted,
		Tasks:           all,
		OverallProgress: tasks.OverallProgress(all),
	}, nil
}

// Plan generates plan sections from the user's stored health form.
func (s *Service) Plan(ctx context.Context, userID string) ([]models.PlanSection, error) {
	form, err := s.profile.Form(ctx, userID)
	if err != nil {
		return nil, err
	}

	text, err := s.advisor.RequestRecommendation(ctx, advisor.BuildPlanPrompt(form))
	if err != nil {
		s.pdr.Record(ctx, audit.ActionPlan, form, "failed", userID, err.Error())
		return nil, err
	}

	sections := plan.ParseSections(text)
	s.pdr.Record(ctx, audit.ActionPlan, form, "success", userID, fmt.Sprintf("%d sections", len(sections)))
	return sections, nil
}

// --- Tasks ---

// Tasks returns the user's tasks and overall progress.
func (s *Service) Tasks(ctx context.Context, userID string) (*TaskList, error) {
	list, err := s.tasks.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newTaskList(list), nil
}

// AddTask creates a task by hand.
func (s *Service) AddTask(ctx context.Context, userID, name, tm string) (models.Task, error) {
	task, _, err := s.tasks.Add(ctx, userID, name, tm)
	if err != nil {
		if errors.Is(err, tasks.ErrEmptyName) {
			return models.Task{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return models.Task{}, err
	}
	s.pdr.Record(ctx, audit.ActionTaskAdd, task, "success", userID, "")
	return task, nil
}

// PatchTask applies the non-nil fields of patch to one task. Each field is
// its own atomic update.
func (s *Service) PatchTask(ctx context.Context, userID, taskID string, patch TaskPatch) (models.Task, error) {
	if patch.Progress == nil && patch.Time == nil && patch.Name == nil {
		return models.Task{}, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return models.Task{}, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}

	list, err := s.tasks.List(ctx, userID)
	if err != nil {
		return models.Task{}, err
	}
	if _, ok := tasks.Find(list, taskID); !ok {
		return models.Task{}, ErrTaskNotFound
	}

	if patch.Progress != nil {
		if list, err = s.tasks.UpdateProgress(ctx, userID, taskID, *patch.Progress); err != nil {
			return models.Task{}, err
		}
		s.pdr.Record(ctx, audit.ActionTaskProgress, map[string]interface{}{"id": taskID, "progress": *patch.Progress}, "success", userID, "")
	}
	if patch.Time != nil {
		if list, err = s.tasks.UpdateTime(ctx, userID, taskID, *patch.Time); err != nil {
			return models.Task{}, err
		}
		s.pdr.Record(ctx, audit.ActionTaskTime, map[string]string{"id": taskID, "time": *patch.Time}, "success", userID, "")
	}
	if patch.Name != nil {
		if list, err = s.tasks.Rename(ctx, userID, taskID, strings.TrimSpace(*patch.Name)); err != nil {
			return models.Task{}, err
		}
		s.pdr.Record(ctx, audit.ActionTaskRename, map[string]string{"id": taskID, "name": *patch.Name}, "success", userID, "")
	}

	task, ok := tasks.Find(list, taskID)
	if !ok {
		// cleared concurrently
		return models.Task{}, ErrTaskNotFound
	}
	return task, nil
}

// ClearTasks removes all of a user's tasks.
func (s *Service) ClearTasks(ctx context.Context, userID string) error {
	if err := s.tasks.Clear(ctx, userID); err != nil {
		return err
	}
	s.pdr.Record(ctx, audit.ActionTasksClear, nil, "success", userID, "")
	return nil
}

// TaskReport renders the user's tasks as plain text.
func (s *Service) TaskReport(ctx context.Context, userID string) (string, error) {
	list, err := s.tasks.List(ctx, userID)
	if err != nil {
		return "", err
	}
	return tasks.Report(list), nil
}

// --- Metrics & Streak ---

// Metrics returns the user's metrics summary.
func (s *Service) Metrics(ctx context.Context, userID string) (*MetricsSummary, error) {
	metrics, err := s.profile.Metrics(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newMetricsSummary(metrics), nil
}

// SaveMetrics replaces the user's metrics.
func (s *Service) SaveMetrics(ctx context.Context, userID string, metrics []models.Metric) (*MetricsSummary, error) {
	if err := s.profile.SaveMetrics(ctx, userID, metrics); err != nil {
		return nil, err
	}
	s.pdr.Record(ctx, audit.ActionMetricsUpdate, metrics, "success", userID, "")
	return s.Metrics(ctx, userID)
}

// SetMetric updates one metric by name.
func (s *Service) SetMetric(ctx context.Context, userID, name string, value float64) (*MetricsSummary, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: metric name is required", ErrInvalidInput)
	}
	metrics, err := s.profile.SetMetric(ctx, userID, name, value)
	if err != nil {
		return nil, err
	}
	s.pdr.Record(ctx, audit.ActionMetricsUpdate, map[string]interface{}{"name": name, "value": value}, "success", userID, "")
	return newMetricsSummary(metrics), nil
}

// Streak returns the user's streak and badges.
func (s *Service) Streak(ctx context.Context, userID string) (*StreakSummary, error) {
	n, err := s.profile.Streak(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &StreakSummary{Streak: n, Badges: profile.Badges(n)}, nil
}

// IncrementStreak records one more active day.
func (s *Service) IncrementStreak(ctx context.Context, userID string) (*StreakSummary, error) {
	n, err := s.profile.IncrementStreak(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.pdr.Record(ctx, audit.ActionStreakIncrease, nil, "success", userID, fmt.Sprintf("streak=%d", n))
	return &StreakSummary{Streak: n, Badges: profile.Badges(n)}, nil
}

// AuditLog returns the user's recent decision records.
func (s *Service) AuditLog(ctx context.Context, userID string, limit int) ([]models.PDREntry, error) {
	entries, err := s.store.ListPDR(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.PDREntry{}
	}
	return entries, nil
}

func newTaskList(list []models.Task) *TaskList {
	return &TaskList{Tasks: list, OverallProgress: tasks.OverallProgress(list)}
}

func newMetricsSummary(metrics []models.Metric) *MetricsSummary {
	feedback := []profile.Feedback{}
	for _, m := range metrics {
		if fb, ok := profile.MetricFeedback(m); ok {
			feedback = append(feedback, fb)
		}
	}
	return &MetricsSummary{
		Metrics:     metrics,
		HealthScore: profile.HealthScore(metrics),
		Feedback:    feedback,
		Tip:         profile.RandomTip(),
	}
}
