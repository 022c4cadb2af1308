// Package tui provides the interactive terminal task dashboard for Vitalis.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/vitalis/internal/dashboard"
	"github.com/fentz26/vitalis/internal/models"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#10B981")
	accentColor  = lipgloss.Color("#6366F1")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)

	taskItemStyle = lipgloss.NewStyle().
			Padding(0, 2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(fgColor).
			Background(accentColor).
			Bold(true).
			Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)
)

type mode int

const (
	modeList mode = iota
	modeInput
	modeConfirmClear
	modePlan
)

// inputAction says what the text input is editing.
type inputAction int

const (
	inputAdd inputAction = iota
	inputRename
	inputTime
)

const progressStep = 10

// App is the main TUI application model.
type App struct {
	client      *Client
	userID      string
	tasks       []models.Task
	overall     float64
	selectedIdx int
	input       textinput.Model
	action      inputAction
	viewport    viewport.Model
	bar         progress.Model
	sections    []models.PlanSection
	width       int
	height      int
	mode        mode
	message     string
	loading     bool
	online      bool
}

// New creates a new TUI application for userID.
func New(apiAddr, userID string) *App {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 60

	return &App{
		client:   NewClient(apiAddr, userID),
		userID:   userID,
		input:    ti,
		viewport: viewport.New(80, 20),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(20), progress.WithoutPercentage()),
		mode:     modeList,
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.fetchTasks(), a.checkDaemon())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.mode {
		case modeInput:
			return a.updateInput(msg)
		case modeConfirmClear:
			return a.updateConfirm(msg)
		case modePlan:
			return a.updatePlan(msg)
		default:
			return a.updateList(msg)
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = max(10, msg.Width-8)
		a.viewport.Width = msg.Width
		a.viewport.Height = max(5, msg.Height-6)
		a.viewport.SetContent(renderPlan(a.sections, a.viewport.Width))

	case tasksLoadedMsg:
		a.loading = false
		a.online = true
		a.tasks = msg.list.Tasks
		a.overall = msg.list.OverallProgress
		if a.selectedIdx >= len(a.tasks) {
			a.selectedIdx = max(0, len(a.tasks)-1)
		}

	case planLoadedMsg:
		a.loading = false
		a.sections = msg.sections
		a.viewport.SetContent(renderPlan(a.sections, a.viewport.Width))
		a.viewport.GotoTop()
		a.message = fmt.Sprintf("✓ Plan ready (%d sections)", len(a.sections))

	case daemonStatusMsg:
		a.online = msg.online

	case commandResultMsg:
		a.message = msg.message
		return a, a.fetchTasks()

	case errMsg:
		a.loading = false
		a.message = "Error: " + msg.err.Error()
	}
	return a, nil
}

func (a *App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "up", "k":
		if a.selectedIdx > 0 {
			a.selectedIdx--
		}
	case "down", "j":
		if a.selectedIdx < len(a.tasks)-1 {
			a.selectedIdx++
		}
	case "+", "=":
		return a, a.adjustProgress(progressStep)
	case "-":
		return a, a.adjustProgress(-progressStep)
	case "a":
		a.startInput(inputAdd, "")
	case "e":
		if task, ok := a.selected(); ok {
			a.startInput(inputRename, task.Name)
		}
	case "t":
		if task, ok := a.selected(); ok {
			a.startInput(inputTime, task.Time)
		}
	case "c":
		if len(a.tasks) > 0 {
			a.mode = modeConfirmClear
		}
	case "p":
		a.mode = modePlan
		if a.sections == nil {
			return a, a.fetchPlan()
		}
	case "r":
		return a, a.fetchTasks()
	}
	return a, nil
}

func (a *App) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.stopInput()
		return a, nil
	case "enter":
		value := strings.TrimSpace(a.input.Value())
		action := a.action
		a.stopInput()
		return a, a.submitInput(action, value)
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.mode = modeList
	if msg.String() == "y" || msg.String() == "Y" {
		return a, func() tea.Msg {
			if err := a.client.ClearTasks(); err != nil {
				return errMsg{err}
			}
			return commandResultMsg{"✓ All tasks cleared"}
		}
	}
	a.message = "Clear canceled"
	return a, nil
}

func (a *App) updatePlan(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "p":
		a.mode = modeList
		return a, nil
	case "r":
		return a, a.fetchPlan()
	}
	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

func (a *App) startInput(action inputAction, value string) {
	a.action = action
	a.mode = modeInput
	switch action {
	case inputAdd:
		a.input.Placeholder = "New task name"
	case inputRename:
		a.input.Placeholder = "Task name"
	case inputTime:
		a.input.Placeholder = "Time, e.g. 07:30"
	}
	a.input.SetValue(value)
	a.input.CursorEnd()
	a.input.Focus()
}

func (a *App) stopInput() {
	a.mode = modeList
	a.input.Blur()
	a.input.SetValue("")
}

func (a *App) selected() (models.Task, bool) {
	if a.selectedIdx < 0 || a.selectedIdx >= len(a.tasks) {
		return models.Task{}, false
	}
	return a.tasks[a.selectedIdx], true
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	daemon := lipgloss.NewStyle().Foreground(primaryColor).Render("● DAEMON")
	if !a.online {
		daemon = lipgloss.NewStyle().Foreground(errorColor).Render("○ DAEMON")
	}
	header := titleStyle.Render("💚 VITALIS") + "  " + daemon +
		"  " + lipgloss.NewStyle().Foreground(mutedColor).Render("user "+a.userID)
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("─", max(0, a.width)) + "\n")

	contentHeight := max(5, a.height-8)

	switch a.mode {
	case modePlan:
		if a.loading {
			b.WriteString("\n  Generating your plan, this can take a while...\n")
		} else {
			b.WriteString(a.viewport.View())
		}
	default:
		b.WriteString(a.renderOverall() + "\n\n")
		b.WriteString(a.renderTaskList(contentHeight - 2))
	}

	if a.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(primaryColor)
		if strings.HasPrefix(a.message, "Error") {
			msgStyle = lipgloss.NewStyle().Foreground(errorColor)
		}
		b.WriteString("\n" + msgStyle.Render(a.message))
	}
	b.WriteString("\n")

	switch a.mode {
	case modeInput:
		b.WriteString(inputBoxStyle.Render(a.input.View()) + "\n")
	case modeConfirmClear:
		b.WriteString(helpStyle.Render(fmt.Sprintf("Clear all %d tasks? (y/N)", len(a.tasks))) + "\n")
	}

	var status string
	switch a.mode {
	case modePlan:
		status = " ↑↓:scroll | r:regenerate | Esc:back | Ctrl+C:quit"
	case modeInput:
		status = " Enter:save | Esc:cancel"
	default:
		status = fmt.Sprintf(" Tasks: %d | ↑↓:nav | +/-:progress | a:add | e:rename | t:time | c:clear | p:plan | r:refresh | q:quit", len(a.tasks))
	}
	b.WriteString(statusBarStyle.Width(max(0, a.width)).Render(status))

	return b.String()
}

// --- Commands ---

func (a *App) fetchTasks() tea.Cmd {
	a.loading = true
	return func() tea.Msg {
		list, err := a.client.ListTasks()
		if err != nil {
			return errMsg{err}
		}
		return tasksLoadedMsg{list}
	}
}

func (a *App) fetchPlan() tea.Cmd {
	a.loading = true
	a.message = ""
	return func() tea.Msg {
		sections, err := a.client.Plan()
		if err != nil {
			return errMsg{err}
		}
		return planLoadedMsg{sections}
	}
}

func (a *App) checkDaemon() tea.Cmd {
	return func() tea.Msg {
		return daemonStatusMsg{online: a.client.Health() == nil}
	}
}

func (a *App) adjustProgress(delta int) tea.Cmd {
	task, ok := a.selected()
	if !ok {
		return nil
	}
	value := task.Progress + delta
	return func() tea.Msg {
		updated, err := a.client.PatchTask(task.ID, dashboard.TaskPatch{Progress: &value})
		if err != nil {
			return errMsg{err}
		}
		return commandResultMsg{fmt.Sprintf("✓ %s: %d%%", updated.Name, updated.Progress)}
	}
}

func (a *App) submitInput(action inputAction, value string) tea.Cmd {
	task, hasTask := a.selected()
	return func() tea.Msg {
		switch action {
		case inputAdd:
			if value == "" {
				return commandResultMsg{"Task name is required"}
			}
			created, err := a.client.AddTask(value)
			if err != nil {
				return errMsg{err}
			}
			return commandResultMsg{"✓ Added " + created.Name}
		case inputRename:
			if !hasTask || value == "" {
				return commandResultMsg{"Task name is required"}
			}
			if _, err := a.client.PatchTask(task.ID, dashboard.TaskPatch{Name: &value}); err != nil {
				return errMsg{err}
			}
			return commandResultMsg{"✓ Renamed to " + value}
		case inputTime:
			if !hasTask {
				return commandResultMsg{"No task selected"}
			}
			if _, err := a.client.PatchTask(task.ID, dashboard.TaskPatch{Time: &value}); err != nil {
				return errMsg{err}
			}
			return commandResultMsg{"✓ Time set"}
		}
		return nil
	}
}

// --- Messages ---

type commandResultMsg struct {
	message string
}

type errMsg struct {
	err error
}

type tasksLoadedMsg struct {
	list *dashboard.TaskList
}

type planLoadedMsg struct {
	sections []models.PlanSection
}

type daemonStatusMsg struct {
	online bool
}
