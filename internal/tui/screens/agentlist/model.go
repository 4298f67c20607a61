// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package agentlist is the TUI home screen: the agent fleet for the active
// workspace, plus a creation dialog.
package agentlist

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/tui/layout"
)

// AgentItem represents an agent in the list
type AgentItem struct {
	ID     string
	Name   string
	Desc   string
	Model  string
	Status models.AgentStatus
}

// FilterValue returns the value to filter against
func (a AgentItem) FilterValue() string {
	return a.Name
}

// Title returns the agent name with its status
func (a AgentItem) Title() string {
	return fmt.Sprintf("%s [%s]", a.Name, a.Status)
}

// Description returns the agent description
func (a AgentItem) Description() string {
	if a.Desc != "" {
		return a.Desc
	}
	return a.Model
}

// Stage represents the current mode of the screen
type Stage int

const (
	Browsing Stage = iota
	Creating
)

// Model is the model for the agent list screen.
type Model struct {
	stage  Stage
	list   list.Model
	client *api.Client
	agents []models.Agent

	form     *huh.Form
	formName string
	formDesc string
	formLLM  string

	submitting    bool
	statusMessage string
	width         int
	height        int
}

// NewModel creates a new agent list model
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

// initForm initializes the huh form for agent creation
func (m *Model) initForm() {
	m.formName = ""
	m.formDesc = ""
	m.formLLM = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Agent Name").
				Placeholder("Enter agent name...").
				Value(&m.formName).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),

			huh.NewInput().
				Key("model").
				Title("Model").
				Placeholder("e.g. claude-sonnet").
				Value(&m.formLLM),

			huh.NewText().
				Key("description").
				Title("Description").
				Placeholder("What does this agent do?").
				Value(&m.formDesc),
		),
	).WithTheme(huh.ThemeCharm())
}

func (m Model) Init() tea.Cmd {
	return loadAgents(m.client)
}

// GetLayoutInfo returns layout information for the agent list screen
func (m Model) GetLayoutInfo() layout.LayoutInfo {
	if m.stage == Creating {
		return layout.LayoutInfo{
			Title:       "New Agent",
			Breadcrumbs: []string{"Agents", "New Agent"},
			Status:      m.statusMessage,
			HelpItems: []layout.HelpItem{
				{Key: "tab", Description: "next field"},
				{Key: "enter", Description: "submit"},
				{Key: "esc", Description: "cancel"},
			},
		}
	}

	status := fmt.Sprintf("Total: %d agents", len(m.agents))
	if m.statusMessage != "" {
		status = m.statusMessage
	}

	return layout.LayoutInfo{
		Title:       "Agents",
		Breadcrumbs: []string{"Agents"},
		Status:      status,
		HelpItems: []layout.HelpItem{
			{Key: "n", Description: "new"},
			{Key: "d", Description: "delete"},
			{Key: "c", Description: "credentials"},
			{Key: "s", Description: "schedules"},
			{Key: "q", Description: "quit"},
		},
	}
}

// SetSize updates the model's dimensions and list size
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	layoutInfo := m.GetLayoutInfo()
	dims := layout.GetContentArea(layoutInfo, width, height)
	m.list.SetWidth(dims.Width)
	m.list.SetHeight(dims.Height)
}

// --- async messages and commands ---

type agentsLoadedMsg struct {
	agents []models.Agent
}

type agentSavedMsg struct {
	agent *models.Agent
}

type agentDeletedMsg struct {
	agentID string
}

type errMsg struct {
	err error
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

func createAgent(client *api.Client, name, description, llm string) tea.Cmd {
	return func() tea.Msg {
		agent, err := client.CreateAgent(context.Background(), newAgentRequest(name, description, llm))
		if err != nil {
			return errMsg{err}
		}
		return agentSavedMsg{agent: agent}
	}
}

func deleteAgent(client *api.Client, agentID string) tea.Cmd {
	return func() tea.Msg {
		if err := client.DeleteAgent(context.Background(), agentID); err != nil {
			return errMsg{err}
		}
		return agentDeletedMsg{agentID: agentID}
	}
}
