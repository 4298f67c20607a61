// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/logger"
	"github.com/agentdeck/agentdeck/internal/tui/messages"
	"github.com/agentdeck/agentdeck/internal/tui/screens/agentlist"
	"github.com/agentdeck/agentdeck/internal/tui/screens/credentials"
	"github.com/agentdeck/agentdeck/internal/tui/screens/schedules"
)

// ScreenType represents the current active screen
type ScreenType int

const (
	AgentListScreen ScreenType = iota
	CredentialsScreen
	SchedulesScreen
)

type MainModel struct {
	// Current screen state
	currentScreen ScreenType
	// Screen history for back navigation
	screenHistory []ScreenType

	// Individual screen models
	agentList   agentlist.Model
	credentials credentials.Model
	schedules   schedules.Model

	// Global state
	width, height int
	client        *api.Client
}

// NewMainModel creates a new MainModel with the agent list as the initial screen
func NewMainModel(client *api.Client) MainModel {
	return MainModel{
		currentScreen: AgentListScreen,
		screenHistory: []ScreenType{},
		agentList:     agentlist.NewModel(client),
		client:        client,
	}
}

func (m MainModel) Init() tea.Cmd {
	return m.agentList.Init()
}

// setSize updates the size for the current screen
func (m *MainModel) setSize(width, height int) {
	m.width = width
	m.height = height
	switch m.currentScreen {
	case AgentListScreen:
		m.agentList.SetSize(width, height)
	case CredentialsScreen:
		m.credentials.SetSize(width, height)
	case SchedulesScreen:
		m.schedules.SetSize(width, height)
	}
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window size messages at the top level
	if windowSize, ok := msg.(tea.WindowSizeMsg); ok {
		m.setSize(windowSize.Width, windowSize.Height)
	}

	// Handle navigation messages first (these return early to avoid screen
	// delegation)
	switch msg.(type) {
	case messages.GoToCredentialsMsg:
		m.screenHistory = append(m.screenHistory, m.currentScreen)
		m.credentials = credentials.NewModel(m.client)
		m.credentials.SetSize(m.width, m.height)
		m.currentScreen = CredentialsScreen
		logNavigation(m.currentScreen)
		return m, m.credentials.Init()

	case messages.GoToSchedulesMsg:
		m.screenHistory = append(m.screenHistory, m.currentScreen)
		m.schedules = schedules.NewModel(m.client)
		m.schedules.SetSize(m.width, m.height)
		m.currentScreen = SchedulesScreen
		logNavigation(m.currentScreen)
		return m, m.schedules.Init()

	case messages.GoToAgentListMsg:
		// Clear history and go back to the fleet overview
		m.currentScreen = AgentListScreen
		m.screenHistory = []ScreenType{}
		m.agentList.SetSize(m.width, m.height)
		logNavigation(m.currentScreen)
		return m, m.agentList.Init()

	case messages.GoBackMsg:
		if len(m.screenHistory) > 0 {
			m.currentScreen = m.screenHistory[len(m.screenHistory)-1]
			m.screenHistory = m.screenHistory[:len(m.screenHistory)-1]
			m.setSize(m.width, m.height) // Refresh size for the screen we're going back to
		}
		return m, nil
	}

	// Delegate to the current screen
	var screenCmd tea.Cmd
	switch m.currentScreen {
	case AgentListScreen:
		var model tea.Model
		model, screenCmd = m.agentList.Update(msg)
		m.agentList = model.(agentlist.Model)
	case CredentialsScreen:
		var model tea.Model
		model, screenCmd = m.credentials.Update(msg)
		m.credentials = model.(credentials.Model)
	case SchedulesScreen:
		var model tea.Model
		model, screenCmd = m.schedules.Update(msg)
		m.schedules = model.(schedules.Model)
	}

	return m, screenCmd
}

func (m MainModel) View() string {
	switch m.currentScreen {
	case AgentListScreen:
		return m.agentList.View()
	case CredentialsScreen:
		return m.credentials.View()
	case SchedulesScreen:
		return m.schedules.View()
	default:
		return "Unknown screen"
	}
}

func logNavigation(s ScreenType) {
	log := logger.GetTUILogger().With().Str("component", "main_model").Logger()
	log.Debug().Str("screen", screenName(s)).Msg("Switched screen")
}

// screenName returns a string representation of the screen type for logging
func screenName(s ScreenType) string {
	switch s {
	case AgentListScreen:
		return "AgentList"
	case CredentialsScreen:
		return "Credentials"
	case SchedulesScreen:
		return "Schedules"
	default:
		return "Unknown"
	}
}
