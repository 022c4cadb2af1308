package tui

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fentz26/vitalis/internal/audit"
	"github.com/fentz26/vitalis/internal/dashboard"
	"github.com/fentz26/vitalis/internal/models"
	"github.com/fentz26/vitalis/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type staticRecommender string

func (s staticRecommender) RequestRecommendation(context.Context, string) (string, error) {
	return string(s), nil
}

func newTestApp(t *testing.T) (*App, *dashboard.Service) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "tui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger := zaptest.NewLogger(t)
	rec := staticRecommender("1. Exercise Plan\n• Walk 30 minutes\n2. Sleep Schedule\n• Bed by 22:00")
	service := dashboard.NewService(st, rec, audit.NewPDRWriter(st, logger), logger)
	srv := httptest.NewServer(dashboard.NewServer(service, "", nil, logger).Handler())
	t.Cleanup(srv.Close)

	app := New(srv.URL, "u1")
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app, service
}

// run executes cmd synchronously and feeds the resulting message back into
// the model, following up on any command it returns.
func run(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = a.Update(msg)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, a *App, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := a.Update(key(k))
		run(t, a, cmd)
	}
}

func typeText(t *testing.T, a *App, text string) {
	t.Helper()
	// The returned command only drives cursor blinking.
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestApp_InitLoadsTasks(t *testing.T) {
	a, svc := newTestApp(t)
	_, err := svc.AddTask(context.Background(), "u1", "Stretch", "07:00")
	require.NoError(t, err)

	run(t, a, a.fetchTasks())
	run(t, a, a.checkDaemon())

	require.Len(t, a.tasks, 1)
	assert.Equal(t, "Stretch", a.tasks[0].Name)
	assert.True(t, a.online)
	assert.Contains(t, a.View(), "Stretch")
}

func TestApp_AddTask(t *testing.T) {
	a, _ := newTestApp(t)

	press(t, a, "a")
	require.Equal(t, modeInput, a.mode)
	typeText(t, a, "Drink water")
	press(t, a, "enter")

	assert.Equal(t, modeList, a.mode)
	require.Len(t, a.tasks, 1)
	assert.Equal(t, "Drink water", a.tasks[0].Name)
	assert.Equal(t, "✓ Added Drink water", a.message)
}

func TestApp_ProgressAdjustAndClamp(t *testing.T) {
	a, svc := newTestApp(t)
	_, err := svc.AddTask(context.Background(), "u1", "Walk", "")
	require.NoError(t, err)
	run(t, a, a.fetchTasks())

	press(t, a, "+", "+")
	assert.Equal(t, 20, a.tasks[0].Progress)
	assert.InDelta(t, 20, a.overall, 0.01)

	press(t, a, "-", "-", "-")
	assert.Equal(t, 0, a.tasks[0].Progress)
}

func TestApp_RenameAndTime(t *testing.T) {
	a, svc := newTestApp(t)
	ctx := context.Background()
	_, err := svc.AddTask(ctx, "u1", "First", "")
	require.NoError(t, err)
	_, err = svc.AddTask(ctx, "u1", "Second", "")
	require.NoError(t, err)
	run(t, a, a.fetchTasks())

	press(t, a, "down", "e")
	require.Equal(t, "Second", a.input.Value())
	a.input.SetValue("")
	typeText(t, a, "Renamed")
	press(t, a, "enter")

	press(t, a, "t")
	typeText(t, a, "18:30")
	press(t, a, "enter")

	list, err := svc.Tasks(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "First", list.Tasks[0].Name)
	assert.Equal(t, "Renamed", list.Tasks[1].Name)
	assert.Equal(t, "18:30", list.Tasks[1].Time)
}

func TestApp_EscCancelsInput(t *testing.T) {
	a, _ := newTestApp(t)

	press(t, a, "a")
	typeText(t, a, "ignored")
	press(t, a, "esc")

	assert.Equal(t, modeList, a.mode)
	assert.Empty(t, a.input.Value())
	assert.Empty(t, a.tasks)
}

func TestApp_ClearRequiresConfirmation(t *testing.T) {
	a, svc := newTestApp(t)
	_, err := svc.AddTask(context.Background(), "u1", "Walk", "")
	require.NoError(t, err)
	run(t, a, a.fetchTasks())

	press(t, a, "c", "n")
	assert.Len(t, a.tasks, 1)
	assert.Equal(t, "Clear canceled", a.message)

	press(t, a, "c", "y")
	assert.Empty(t, a.tasks)
}

func TestApp_PlanView(t *testing.T) {
	a, svc := newTestApp(t)
	require.NoError(t, svc.SaveForm(context.Background(), "u1", models.HealthForm{Age: "30"}))

	press(t, a, "p")
	assert.Equal(t, modePlan, a.mode)
	require.Len(t, a.sections, 2)
	assert.Equal(t, "💪", a.sections[0].Icon)
	assert.Equal(t, "📅", a.sections[1].Icon)

	view := a.View()
	assert.Contains(t, view, "Exercise Plan")
	assert.Contains(t, view, "Walk 30 minutes")

	press(t, a, "esc")
	assert.Equal(t, modeList, a.mode)
}

func TestApp_PlanWithoutForm(t *testing.T) {
	a, _ := newTestApp(t)

	press(t, a, "p")
	assert.True(t, strings.HasPrefix(a.message, "Error"), a.message)
	assert.Empty(t, a.sections)
}

func TestApp_DaemonOffline(t *testing.T) {
	a := New("http://127.0.0.1:1", "u1")
	run(t, a, a.checkDaemon())
	assert.False(t, a.online)
	assert.Contains(t, a.View(), "○ DAEMON")
}
