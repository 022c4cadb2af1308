package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fentz26/vitalis/internal/advisor"
	"github.com/fentz26/vitalis/internal/audit"
	"github.com/fentz26/vitalis/internal/models"
	"github.com/fentz26/vitalis/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeRecommender returns a fixed response and records prompts.
type fakeRecommender struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
}

func (f *fakeRecommender) RequestRecommendation(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

const insightsText = "1. Health Assessment\n• You are doing fine\n🎯 Task: Walk 10000 steps\n🎯 Task: Sleep 8 hours"

const planText = "Here is your plan\n1. Exercise Plan\n• Walk 30 minutes\n2. Nutrition Plan\n• Eat more protein"

func newTestServer(t *testing.T, rec *fakeRecommender) (*Server, *store.Store) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger := zaptest.NewLogger(t)
	service := NewService(st, rec, audit.NewPDRWriter(st, logger), logger)
	return NewServer(service, "127.0.0.1:0", []string{"http://localhost:5173"}, logger), st
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), "body: %s", w.Body.String())
	return v
}

func TestHealthEndpoint_OK(t *testing.T) {
	s, _ := newTestServer(t, &fakeRecommender{})

	w := do(t, s.Handler(), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	health := decode[HealthResponse](t, w)
	assert.True(t, health.OK)
	assert.Equal(t, "ok", health.DB)
	assert.Equal(t, Version, health.Version)
	assert.NotEmpty(t, health.Time)
}

func TestHealthEndpoint_MethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t, &fakeRecommender{})

	w := do(t, s.Handler(), http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHealthEndpoint_DBError(t *testing.T) {
	s, st := newTestServer(t, &fakeRecommender{})
	st.Close()

	w := do(t, s.Handler(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	health := decode[HealthResponse](t, w)
	assert.False(t, health.OK)
	assert.NotEqual(t, "ok", health.DB)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t, &fakeRecommender{})

	req := httptest.NewRequest(http.MethodOptions, "/users/u1/tasks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAssessment_MergesTasks(t *testing.T) {
	rec := &fakeRecommender{text: insightsText}
	s, _ := newTestServer(t, rec)
	h := s.Handler()

	body := `{"form":{"age":"30","goals":"more energy"},"locale":"de"}`
	w := do(t, h, http.MethodPost, "/users/u1/assessment", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	insights := decode[models.Insights](t, w)
	assert.Equal(t, insightsText, insights.Text)
	require.Len(t, insights.NewTasks, 2)
	assert.Equal(t, "Walk 10000 steps", insights.NewTasks[0].Name)
	assert.Len(t, insights.Tasks, 2)
	require.Len(t, rec.prompts, 1)
	assert.Contains(t, rec.prompts[0], "tasks in de:")

	// A second assessment appends without touching existing tasks
	w = do(t, h, http.MethodPost, "/users/u1/assessment", body)
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[models.Insights](t, w)
	require.Len(t, second.Tasks, 4)
	assert.Equal(t, insights.Tasks, second.Tasks[:2])

	// The form was stored
	w = do(t, h, http.MethodGet, "/users/u1/form", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "30", decode[models.HealthForm](t, w).Age)
}

func TestAssessment_EmptyForm(t *testing.T) {
	rec := &fakeRecommender{text: insightsText}
	s, _ := newTestServer(t, rec)

	w := do(t, s.Handler(), http.MethodPost, "/users/u1/assessment", `{"form":{}}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, rec.prompts)
}

func TestAssessment_ServiceErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		retryable bool
	}{
		{"exhausted", &advisor.ServiceError{Reason: advisor.ReasonExhausted, Attempts: 5}, http.StatusServiceUnavailable, true},
		{"fatal", &advisor.ServiceError{Reason: advisor.ReasonFatal, Attempts: 1}, http.StatusBadGateway, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, &fakeRecommender{err: tt.err})
			h := s.Handler()

			w := do(t, h, http.MethodPost, "/users/u1/assessment", `{"form":{"age":"30"}}`)
			require.Equal(t, tt.status, w.Code)
			resp := decode[ErrorResponse](t, w)
			assert.Equal(t, tt.err.(*advisor.ServiceError).Reason, resp.Reason)
			assert.Equal(t, tt.retryable, resp.Retryable)

			// No tasks were stored
			w = do(t, h, http.MethodGet, "/users/u1/tasks", "")
			assert.Empty(t, decode[TaskList](t, w).Tasks)
		})
	}
}

func TestPlan(t *testing.T) {
	rec := &fakeRecommender{text: planText}
	s, _ := newTestServer(t, rec)
	h := s.Handler()

	w := do(t, h, http.MethodGet, "/users/u1/plan", "")
	assert.Equal(t, http.StatusNotFound, w.Code, "no form yet")

	w = do(t, h, http.MethodPut, "/users/u1/form", `{"weight":"80"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/users/u1/plan", "")
	require.Equal(t, http.StatusOK, w.Code)
	plan := decode[PlanResponse](t, w)
	require.Len(t, plan.Sections, 2)
	assert.Equal(t, "Exercise Plan", plan.Sections[0].Title)
	assert.Equal(t, []string{"• Walk 30 minutes"}, plan.Sections[0].Content)
	assert.Equal(t, "Nutrition Plan", plan.Sections[1].Title)
	assert.Contains(t, rec.prompts[0], "Weight: 80 kg")

	w = do(t, h, http.MethodDelete, "/users/u1/form", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, http.MethodGet, "/users/u1/plan", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskLifecycle(t *testing.T) {
	s, _ := newTestServer(t, &fakeRecommender{})
	h := s.Handler()

	w := do(t, h, http.MethodGet, "/users/u1/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	empty := decode[TaskList](t, w)
	assert.NotNil(t, empty.Tasks)
	assert.Empty(t, empty.Tasks)

	w = do(t, h, http.MethodPost, "/users/u1/tasks", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/users/u1/tasks", `{"name":"Stretch","time":"07:00"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	task := decode[models.Task](t, w)

	w = do(t, h, http.MethodPatch, "/users/u1/tasks/"+task.ID, `{"progress":150,"name":"Stretch well"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.Task](t, w)
	assert.Equal(t, 100, updated.Progress)
	assert.Equal(t, "Stretch well", updated.Name)
	assert.Equal(t, "07:00", updated.Time)

	w = do(t, h, http.MethodPatch, "/users/u1/tasks/missing", `{"progress":10}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPatch, "/users/u1/tasks/"+task.ID, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/users/u1/tasks", "")
	list := decode[TaskList](t, w)
	assert.Equal(t, 100.0, list.OverallProgress)

	w = do(t, h, http.MethodGet, "/users/u1/tasks/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "1. Stretch well - 100% - Time: 07:00")

	w = do(t, h, http.MethodDelete, "/users/u1/tasks", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, http.MethodGet, "/users/u1/tasks", "")
	assert.Empty(t, decode[TaskList](t, w).Tasks)
}

func TestMetricsAndStreak(t *testing.T) {
	s, _ := newTestServer(t, &fakeRecommender{})
	h := s.Handler()

	w := do(t, h, http.MethodGet, "/users/u1/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[MetricsSummary](t, w)
	assert.Len(t, summary.Metrics, 3)
	assert.Len(t, summary.Feedback, 3)
	assert.NotEmpty(t, summary.Tip)

	w = do(t, h, http.MethodPatch, "/users/u1/metrics", `{"name":"Steps","value":12000}`)
	require.Equal(t, http.StatusOK, w.Code)
	summary = decode[MetricsSummary](t, w)
	assert.Equal(t, 12000.0, summary.Metrics[0].Value)
	assert.Equal(t, "🏅", summary.Feedback[0].Badge)

	w = do(t, h, http.MethodPut, "/users/u1/metrics", `[{"id":1,"name":"Steps","value":100}]`)
	require.Equal(t, http.StatusOK, w.Code)
	summary = decode[MetricsSummary](t, w)
	assert.Equal(t, 100.0, summary.HealthScore)

	w = do(t, h, http.MethodGet, "/users/u1/streak", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[StreakSummary](t, w).Streak)

	w = do(t, h, http.MethodPost, "/users/u1/streak", "")
	require.Equal(t, http.StatusOK, w.Code)
	streak := decode[StreakSummary](t, w)
	assert.Equal(t, 1, streak.Streak)
	assert.Len(t, streak.Badges, 3)
}

func TestAuditLog(t *testing.T) {
	s, _ := newTestServer(t, &fakeRecommender{})
	h := s.Handler()

	do(t, h, http.MethodPost, "/users/u1/tasks", `{"name":"Walk"}`)
	do(t, h, http.MethodDelete, "/users/u1/tasks", "")

	w := do(t, h, http.MethodGet, "/users/u1/audit?limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[]models.PDREntry](t, w)
	require.Len(t, entries, 2)

	actions := []string{entries[0].Action, entries[1].Action}
	assert.ElementsMatch(t, []string{audit.ActionTaskAdd, audit.ActionTasksClear}, actions)
}

func TestRouting(t *testing.T) {
	s, _ := newTestServer(t, &fakeRecommender{})
	h := s.Handler()

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/users/", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/users/u1/unknown", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPut, "/users/u1/plan", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/users/u1/form", "{bad").Code)
}
