// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package agentlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/protocol"
	"github.com/agentdeck/agentdeck/internal/tui/messages"
)

func newAgentRequest(name, description, llm string) protocol.AgentCreateRequest {
	return protocol.AgentCreateRequest{
		WorkspaceID: models.DefaultWorkspaceID,
		Name:        name,
		Description: description,
		Model:       llm,
	}
}

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case Creating:
		return m.updateCreating(msg)
	default:
		return m.updateBrowsing(msg)
	}
}

func (m Model) updateBrowsing(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "n":
			m.stage = Creating
			m.statusMessage = ""
			m.initForm()
			return m, m.form.Init()

		case "d":
			if item, ok := m.list.SelectedItem().(AgentItem); ok {
				m.statusMessage = fmt.Sprintf("Deleting %s...", item.Name)
				return m, deleteAgent(m.client, item.ID)
			}

		case "c":
			return m, func() tea.Msg {
				return messages.GoToCredentialsMsg{}
			}

		case "s":
			return m, func() tea.Msg {
				return messages.GoToSchedulesMsg{}
			}

		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case agentsLoadedMsg:
		m.agents = msg.agents
		items := make([]list.Item, 0, len(msg.agents))
		for _, agent := range msg.agents {
			items = append(items, AgentItem{
				ID:     agent.ID,
				Name:   agent.Name,
				Desc:   agent.Description,
				Model:  agent.Model,
				Status: agent.Status,
			})
		}
		m.list.SetItems(items)

	case agentDeletedMsg:
		m.statusMessage = ""
		return m, loadAgents(m.client)

	case protocol.AgentCreatedEvent:
		// Another client (or our own submission echoed back) changed the
		// fleet; refresh.
		return m, loadAgents(m.client)

	case errMsg:
		m.statusMessage = fmt.Sprintf("Error: %s", msg.err)

	case protocol.ErrorEvent:
		if msg.Context != "" {
			m.statusMessage = fmt.Sprintf("Error: %s - %s", msg.Message, msg.Context)
		} else {
			m.statusMessage = fmt.Sprintf("Error: %s", msg.Message)
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateCreating(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.stage = Browsing
			m.submitting = false
			m.statusMessage = ""
			return m, nil

		case "ctrl+c":
			return m, tea.Quit
		}

	case agentSavedMsg:
		m.stage = Browsing
		m.submitting = false
		m.statusMessage = fmt.Sprintf("Created agent %s", msg.agent.Name)
		return m, loadAgents(m.client)

	case errMsg:
		m.submitting = false
		m.statusMessage = fmt.Sprintf("Error: %s", msg.err)
		return m, nil

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if m.submitting {
			// One submission in flight at a time.
			return m, cmd
		}
		m.submitting = true
		m.statusMessage = "Creating agent..."
		// Values are read through the form because the model is copied on
		// every update, which leaves the bound field pointers stale.
		return m, createAgent(m.client,
			m.form.GetString("name"),
			m.form.GetString("description"),
			m.form.GetString("model"))
	}

	return m, cmd
}
