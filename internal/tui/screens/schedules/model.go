// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package schedules is the scheduled-task management screen. The editor
// shows every schedule knob at once and lets ToConfig pick the subset the
// chosen recurrence type actually uses, so a day-of-week entered under an
// earlier weekly selection can never leak into a daily submission. Task-
// driven conversations add a second step that materializes input fields
// from the referenced task's execution config.
package schedules

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/protocol"
	"github.com/agentdeck/agentdeck/internal/schedule"
	"github.com/agentdeck/agentdeck/internal/schema"
	"github.com/agentdeck/agentdeck/internal/tui/layout"
)

// Conversation source selector values.
const (
	sourceMessage = "message"
	sourceTask    = "task"
)

// ScheduleItem represents a scheduled task in the list
type ScheduleItem struct {
	ID      string
	Name    string
	Summary string
}

// FilterValue returns the value to filter against
func (s ScheduleItem) FilterValue() string {
	return s.Name
}

// Title returns the schedule name
func (s ScheduleItem) Title() string {
	return s.Name
}

// Description returns the rendered schedule summary
func (s ScheduleItem) Description() string {
	return s.Summary
}

// Stage represents the current mode of the screen
type Stage int

const (
	Browsing Stage = iota
	FormInput
	InputsInput
)

// draft is the editor's working copy, kept outside the huh form so values
// survive form rebuilds on validation failure.
type draft struct {
	name        string
	description string
	agentID     string
	taskID      string
	message     string
	source      string

	scheduleType schedule.Type
	timeOfDay    string
	dayOfWeek    int
	dayOfMonth   string
	cron         string
}

// Model is the model for the schedules screen.
type Model struct {
	stage     Stage
	list      list.Model
	client    *api.Client
	scheduled []models.ScheduledTask
	agents    []models.Agent
	tasks     []models.Task

	editingID string // empty while creating
	draft     draft
	form      *huh.Form

	// Task-input materialization state. pendingTaskID tags the in-flight
	// fetch; a response for any other task is stale and dropped.
	config        schedule.Config
	pendingTaskID string
	inputKeys     []string
	inputValues   schema.ValueMap

	submitting    bool
	statusMessage string
	width         int
	height        int
}

// NewModel creates a new schedules model
func NewModel(client *api.Client) Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 50, 10)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Title = ""

	return Model{
		stage:  Browsing,
		list:   l,
		client: client,
		width:  50,
		height: 10,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(loadScheduled(m.client), loadAgents(m.client), loadTasks(m.client))
}

// initForm builds the editor from the current draft. Every schedule knob is
// always present; submission runs the draft through ToConfig.
func (m *Model) initForm() {
	agentOpts := make([]huh.Option[string], 0, len(m.agents))
	for _, a := range m.agents {
		agentOpts = append(agentOpts, huh.NewOption(a.Name, a.ID))
	}

	typeOpts := make([]huh.Option[schedule.Type], 0, 4)
	for _, t := range schedule.Types() {
		typeOpts = append(typeOpts, huh.NewOption(string(t), t))
	}

	dowOpts := make([]huh.Option[int], 0, 7)
	for d := 0; d <= 6; d++ {
		dowOpts = append(dowOpts, huh.NewOption(schedule.WeekdayName(d), d))
	}

	taskOpts := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, t := range m.tasks {
		taskOpts = append(taskOpts, huh.NewOption(t.Name, t.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Placeholder("e.g. Morning digest").
				Value(&m.draft.name).
				Validate(func(s string) error {
					if msg := schema.RequireLabel("Name", s); msg != "" {
						return errors.New(msg)
					}
					return nil
				}),

			huh.NewText().
				Key("description").
				Title("Description").
				Value(&m.draft.description),

			huh.NewSelect[string]().
				Key("agent_id").
				Title("Agent").
				Options(agentOpts...).
				Value(&m.draft.agentID),

			huh.NewSelect[schedule.Type]().
				Key("schedule_type").
				Title("Recurrence").
				Options(typeOpts...).
				Value(&m.draft.scheduleType),

			huh.NewInput().
				Key("time").
				Title("Time (daily/weekly/monthly)").
				Placeholder("09:30").
				Value(&m.draft.timeOfDay),

			huh.NewSelect[int]().
				Key("day_of_week").
				Title("Day of week (weekly)").
				Options(dowOpts...).
				Value(&m.draft.dayOfWeek),

			huh.NewInput().
				Key("day_of_month").
				Title("Day of month (monthly)").
				Placeholder("1-31").
				Value(&m.draft.dayOfMonth),

			huh.NewInput().
				Key("cron_expression").
				Title("Cron expression (custom)").
				Placeholder("*/15 * * * *").
				Value(&m.draft.cron),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("source").
				Title("Conversation source").
				Options(
					huh.NewOption("Free-form message", sourceMessage),
					huh.NewOption("Task inputs", sourceTask),
				).
				Value(&m.draft.source),

			huh.NewSelect[string]().
				Key("task_id").
				Title("Task (for task inputs)").
				Options(taskOpts...).
				Value(&m.draft.taskID),

			huh.NewText().
				Key("message").
				Title("Message (for free-form)").
				Value(&m.draft.message),
		),
	).WithTheme(huh.ThemeCharm())
}

// initInputsForm materializes one control per task-declared input key.
func (m *Model) initInputsForm() {
	fields := make([]huh.Field, 0, len(m.inputKeys))
	for _, key := range m.inputKeys {
		prefill := new(string)
		*prefill = m.inputValues[key]

		k := key
		fields = append(fields, huh.NewInput().
			Key(k).
			Title(k).
			Value(prefill).
			Validate(func(s string) error {
				if msg := schema.RequireLabel(k, s); msg != "" {
					return errors.New(msg)
				}
				return nil
			}))
	}
	m.form = huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeCharm())
}

// startEditor seeds the draft, either blank or from a stored schedule.
func (m *Model) startEditor(existing *models.ScheduledTask) {
	m.editingID = ""
	m.draft = draft{
		scheduleType: schedule.Daily,
		source:       sourceMessage,
	}
	if len(m.agents) > 0 {
		m.draft.agentID = m.agents[0].ID
	}

	if existing != nil {
		m.editingID = existing.ID
		t, params := schedule.FromConfig(existing.Config())
		m.draft.name = existing.Name
		m.draft.description = existing.Description
		m.draft.agentID = existing.AgentID
		m.draft.taskID = existing.TaskID
		m.draft.scheduleType = t
		m.draft.timeOfDay = params.Time
		m.draft.dayOfWeek = params.DayOfWeek
		if params.DayOfMonth > 0 {
			m.draft.dayOfMonth = strconv.Itoa(params.DayOfMonth)
		}
		m.draft.cron = params.CronExpression
		if existing.TaskID != "" {
			m.draft.source = sourceTask
		} else {
			m.draft.message = existing.InputData[protocol.MessageKey]
		}
	}

	m.stage = FormInput
	m.statusMessage = ""
	m.initForm()
}

// closeEditor drops all editor state.
func (m *Model) closeEditor() {
	m.stage = Browsing
	m.editingID = ""
	m.draft = draft{}
	m.form = nil
	m.config = schedule.Config{}
	m.pendingTaskID = ""
	m.inputKeys = nil
	m.inputValues = nil
	m.submitting = false
}

// summarize renders the one-line schedule description for the list.
func summarize(st *models.ScheduledTask) string {
	var b strings.Builder

	switch schedule.Type(st.ScheduleType) {
	case schedule.Daily:
		fmt.Fprintf(&b, "daily at %s", st.Time)
	case schedule.Weekly:
		day := 0
		if st.DayOfWeek != nil {
			day = *st.DayOfWeek
		}
		fmt.Fprintf(&b, "weekly on %s at %s", schedule.WeekdayName(day), st.Time)
	case schedule.Monthly:
		day := 0
		if st.DayOfMonth != nil {
			day = *st.DayOfMonth
		}
		fmt.Fprintf(&b, "monthly on day %d at %s", day, st.Time)
	case schedule.Custom:
		fmt.Fprintf(&b, "cron %s", st.CronExpression)
	default:
		b.WriteString(st.ScheduleType)
	}

	if !st.Enabled {
		b.WriteString(" (disabled)")
	} else if st.NextRunAt != nil {
		fmt.Fprintf(&b, " · next %s", st.NextRunAt.Format("Jan 2 15:04"))
	}

	return b.String()
}

// GetLayoutInfo returns layout information for the schedules screen
func (m Model) GetLayoutInfo() layout.LayoutInfo {
	switch m.stage {
	case FormInput:
		title := "New Schedule"
		if m.editingID != "" {
			title = "Edit Schedule"
		}
		return layout.LayoutInfo{
			Title:       title,
			Breadcrumbs: []string{"Schedules", title},
			Status:      m.statusMessage,
			HelpItems: []layout.HelpItem{
				{Key: "tab", Description: "next field"},
				{Key: "enter", Description: "submit"},
				{Key: "esc", Description: "cancel"},
			},
		}
	case InputsInput:
		return layout.LayoutInfo{
			Title:       "Task Inputs",
			Breadcrumbs: []string{"Schedules", "Task Inputs"},
			Status:      m.statusMessage,
			HelpItems: []layout.HelpItem{
				{Key: "tab", Description: "next field"},
				{Key: "enter", Description: "submit"},
				{Key: "esc", Description: "cancel"},
			},
		}
	}

	status := fmt.Sprintf("Total: %d schedules", len(m.scheduled))
	if m.statusMessage != "" {
		status = m.statusMessage
	}

	return layout.LayoutInfo{
		Title:       "Schedules",
		Breadcrumbs: []string{"Agents", "Schedules"},
		Status:      status,
		HelpItems: []layout.HelpItem{
			{Key: "n", Description: "new"},
			{Key: "e", Description: "edit"},
			{Key: "t", Description: "toggle"},
			{Key: "d", Description: "delete"},
			{Key: "esc", Description: "back"},
		},
	}
}

// SetSize updates the model's dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	layoutInfo := m.GetLayoutInfo()
	dims := layout.GetContentArea(layoutInfo, width, height)
	m.list.SetWidth(dims.Width)
	m.list.SetHeight(dims.Height)
}

// --- async messages and commands ---

type scheduledLoadedMsg struct {
	scheduled []models.ScheduledTask
}

type agentsLoadedMsg struct {
	agents []models.Agent
}

type tasksLoadedMsg struct {
	tasks []models.Task
}

// taskInputsMsg carries the fetched task tagged with the id it was
// requested for; the guard in update.go drops stale responses.
type taskInputsMsg struct {
	taskID string
	task   *models.Task
}

type scheduleSavedMsg struct {
	scheduled *models.ScheduledTask
}

type scheduleToggledMsg struct {
	scheduled *models.ScheduledTask
}

type scheduleDeletedMsg struct {
	scheduledID string
}

type errMsg struct {
	err error
}

func loadScheduled(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		scheduled, err := client.ListScheduledTasks(context.Background(), models.DefaultWorkspaceID)
		if err != nil {
			return errMsg{err}
		}
		return scheduledLoadedMsg{scheduled: scheduled}
	}
}

func loadAgents(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		agents, err := client.ListAgents(context.Background(), models.DefaultWorkspaceID)
		if err != nil {
			return errMsg{err}
		}
		return agentsLoadedMsg{agents: agents}
	}
}

func loadTasks(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		tasks, err := client.ListTasks(context.Background(), models.DefaultWorkspaceID)
		if err != nil {
			return errMsg{err}
		}
		return tasksLoadedMsg{tasks: tasks}
	}
}

func fetchTaskInputs(client *api.Client, taskID string) tea.Cmd {
	return func() tea.Msg {
		task, err := client.FetchTask(context.Background(), taskID)
		if err != nil {
			return errMsg{err}
		}
		return taskInputsMsg{taskID: taskID, task: task}
	}
}

func saveSchedule(client *api.Client, editingID string, req protocol.ScheduledTaskCreateRequest) tea.Cmd {
	return func() tea.Msg {
		var scheduled *models.ScheduledTask
		var err error
		if editingID != "" {
			scheduled, err = client.UpdateScheduledTask(context.Background(), editingID, req)
		} else {
			scheduled, err = client.CreateScheduledTask(context.Background(), req)
		}
		if err != nil {
			return errMsg{err}
		}
		return scheduleSavedMsg{scheduled: scheduled}
	}
}

func toggleSchedule(client *api.Client, scheduledID string, enabled bool) tea.Cmd {
	return func() tea.Msg {
		scheduled, err := client.ToggleScheduledTask(context.Background(), scheduledID, enabled)
		if err != nil {
			return errMsg{err}
		}
		return scheduleToggledMsg{scheduled: scheduled}
	}
}

func deleteSchedule(client *api.Client, scheduledID string) tea.Cmd {
	return func() tea.Msg {
		if err := client.DeleteScheduledTask(context.Background(), scheduledID); err != nil {
			return errMsg{err}
		}
		return scheduleDeletedMsg{scheduledID: scheduledID}
	}
}

// nextRunPreview renders the next firing for a just-validated config.
func nextRunPreview(cfg schedule.Config) string {
	next, err := cfg.NextRun(time.Now())
	if err != nil {
		return ""
	}
	return fmt.Sprintf("Next run: %s", next.Format("Mon Jan 2 15:04"))
}
