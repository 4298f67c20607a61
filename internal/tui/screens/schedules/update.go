// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package schedules

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/protocol"
	"github.com/agentdeck/agentdeck/internal/schedule"
	"github.com/agentdeck/agentdeck/internal/schema"
	"github.com/agentdeck/agentdeck/internal/submit"
	"github.com/agentdeck/agentdeck/internal/tui/messages"
)

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scheduledLoadedMsg:
		m.scheduled = msg.scheduled
		items := make([]list.Item, 0, len(msg.scheduled))
		for i := range msg.scheduled {
			st := &msg.scheduled[i]
			items = append(items, ScheduleItem{ID: st.ID, Name: st.Name, Summary: summarize(st)})
		}
		m.list.SetItems(items)
		return m, nil

	case agentsLoadedMsg:
		m.agents = msg.agents
		return m, nil

	case tasksLoadedMsg:
		m.tasks = msg.tasks
		return m, nil

	case scheduleSavedMsg:
		m.closeEditor()
		m.statusMessage = fmt.Sprintf("Saved schedule %s", msg.scheduled.Name)
		return m, loadScheduled(m.client)

	case scheduleToggledMsg, scheduleDeletedMsg:
		m.statusMessage = ""
		return m, loadScheduled(m.client)

	case protocol.ScheduledTaskEvent:
		// Refresh the list on any scheduled-task mutation, ours or not.
		return m, loadScheduled(m.client)

	case errMsg:
		m.submitting = false
		m.statusMessage = formatError(msg.err)
		return m, nil

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}

	switch m.stage {
	case FormInput:
		return m.updateForm(msg)
	case InputsInput:
		return m.updateInputs(msg)
	default:
		return m.updateBrowsing(msg)
	}
}

func formatError(err error) string {
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		if len(reqErr.FieldErrors) > 0 {
			parts := make([]string, 0, len(reqErr.FieldErrors))
			for field, reason := range reqErr.FieldErrors {
				parts = append(parts, fmt.Sprintf("%s: %s", field, reason))
			}
			return "Validation failed: " + strings.Join(parts, "; ")
		}
		if len(reqErr.ExtraKeys) > 0 {
			return "Rejected keys: " + strings.Join(reqErr.ExtraKeys, ", ")
		}
	}
	return fmt.Sprintf("Error: %s", err)
}

func (m Model) updateBrowsing(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "n":
			if len(m.agents) == 0 {
				m.statusMessage = "No agents available - create an agent first"
				return m, loadAgents(m.client)
			}
			m.startEditor(nil)
			return m, m.form.Init()

		case "e", "enter":
			if item, ok := m.list.SelectedItem().(ScheduleItem); ok {
				if st := m.findScheduled(item.ID); st != nil {
					m.startEditor(st)
					return m, m.form.Init()
				}
			}

		case "t":
			if item, ok := m.list.SelectedItem().(ScheduleItem); ok {
				if st := m.findScheduled(item.ID); st != nil {
					return m, toggleSchedule(m.client, st.ID, !st.Enabled)
				}
			}

		case "d":
			if item, ok := m.list.SelectedItem().(ScheduleItem); ok {
				m.statusMessage = fmt.Sprintf("Deleting %s...", item.Name)
				return m, deleteSchedule(m.client, item.ID)
			}

		case "esc":
			return m, func() tea.Msg {
				return messages.GoBackMsg{}
			}

		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) findScheduled(id string) *models.ScheduledTask {
	for i := range m.scheduled {
		if m.scheduled[i].ID == id {
			return &m.scheduled[i]
		}
	}
	return nil
}

// collectDraft reads the completed form back into the draft. Values are read
// through the form because the model is copied on every update.
func (m *Model) collectDraft() {
	m.draft.name = strings.TrimSpace(m.form.GetString("name"))
	m.draft.description = m.form.GetString("description")
	m.draft.agentID = m.form.GetString("agent_id")
	if t, ok := m.form.Get("schedule_type").(schedule.Type); ok {
		m.draft.scheduleType = t
	}
	m.draft.timeOfDay = strings.TrimSpace(m.form.GetString("time"))
	m.draft.dayOfWeek = m.form.GetInt("day_of_week")
	m.draft.dayOfMonth = strings.TrimSpace(m.form.GetString("day_of_month"))
	m.draft.cron = strings.TrimSpace(m.form.GetString("cron_expression"))
	m.draft.source = m.form.GetString("source")
	m.draft.taskID = m.form.GetString("task_id")
	m.draft.message = strings.TrimSpace(m.form.GetString("message"))
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.closeEditor()
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.collectDraft()

	// Normalize the draft: only the parameters the chosen type uses survive.
	dom, _ := strconv.Atoi(m.draft.dayOfMonth)
	m.config = schedule.ToConfig(m.draft.scheduleType, schedule.Params{
		Time:           m.draft.timeOfDay,
		DayOfWeek:      m.draft.dayOfWeek,
		DayOfMonth:     dom,
		CronExpression: m.draft.cron,
	})

	if problems := m.config.Problems(); len(problems) > 0 {
		m.statusMessage = formatProblems(problems)
		m.initForm()
		return m, m.form.Init()
	}

	switch m.draft.source {
	case sourceTask:
		if m.draft.taskID == "" {
			m.statusMessage = "Select a task for task-driven conversations"
			m.initForm()
			return m, m.form.Init()
		}
		if m.draft.message != "" {
			m.statusMessage = "Task inputs and free-form message are mutually exclusive"
			m.initForm()
			return m, m.form.Init()
		}
		// Fetch the task's execution config to materialize its input
		// fields. Tag the request so a response arriving after the user
		// switched tasks is recognized as stale.
		m.pendingTaskID = m.draft.taskID
		m.stage = InputsInput
		m.statusMessage = "Loading task inputs..."
		return m, fetchTaskInputs(m.client, m.draft.taskID)

	default:
		if m.draft.message == "" {
			m.statusMessage = "Enter a message for free-form conversations"
			m.initForm()
			return m, m.form.Init()
		}
		if m.submitting {
			return m, cmd
		}
		m.submitting = true
		m.statusMessage = nextRunPreview(m.config)
		req, err := submit.ScheduledTask(m.buildDraft(), submit.Message(m.draft.message))
		if err != nil {
			m.submitting = false
			m.statusMessage = formatError(err)
			m.initForm()
			return m, m.form.Init()
		}
		return m, saveSchedule(m.client, m.editingID, req)
	}
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			// Back to the main editor; keep the draft.
			m.stage = FormInput
			m.pendingTaskID = ""
			m.statusMessage = ""
			m.initForm()
			return m, m.form.Init()
		case "ctrl+c":
			return m, tea.Quit
		}

	case taskInputsMsg:
		if msg.taskID != m.pendingTaskID {
			// Stale response for a previously selected task.
			return m, nil
		}
		m.inputKeys = schema.KeysOf(msg.task.ExecutionConfig)
		m.inputValues = schema.MaterializeFromKeys(m.inputKeys, schema.SeedsOf(msg.task.ExecutionConfig))
		m.statusMessage = ""
		if len(m.inputKeys) == 0 {
			// Task declares no inputs; submit with an empty input map.
			return m.submitTaskDriven(schema.ValidateKeys(nil, nil))
		}
		m.initInputsForm()
		return m, m.form.Init()
	}

	// The inputs form only exists once the fetch resolved.
	if m.form == nil || len(m.inputKeys) == 0 {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	for _, key := range m.inputKeys {
		m.inputValues[key] = m.form.GetString(key)
	}

	result := schema.ValidateKeys(m.inputKeys, m.inputValues)
	if !result.OK() {
		m.statusMessage = formatProblems(result.Errors())
		m.initInputsForm()
		return m, m.form.Init()
	}

	return m.submitTaskDriven(result)
}

func (m Model) submitTaskDriven(result schema.Result) (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.submitting = true
	m.statusMessage = nextRunPreview(m.config)

	req, err := submit.ScheduledTask(m.buildDraft(), submit.TaskInputs(m.pendingTaskID, result))
	if err != nil {
		m.submitting = false
		m.statusMessage = formatError(err)
		return m, nil
	}
	return m, saveSchedule(m.client, m.editingID, req)
}

func (m Model) buildDraft() submit.ScheduledTaskDraft {
	return submit.ScheduledTaskDraft{
		AgentID:                m.draft.agentID,
		WorkspaceID:            models.DefaultWorkspaceID,
		Name:                   m.draft.name,
		Description:            m.draft.description,
		Config:                 m.config,
		AutoCreateConversation: true,
	}
}

func formatProblems(problems map[string]string) string {
	parts := make([]string, 0, len(problems))
	for field, reason := range problems {
		parts = append(parts, fmt.Sprintf("%s: %s", field, reason))
	}
	return "Validation failed: " + strings.Join(parts, "; ")
}
