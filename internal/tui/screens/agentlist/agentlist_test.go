// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package agentlist

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/tui/messages"
	"github.com/agentdeck/agentdeck/test/testutil"
)

func TestAgentItem(t *testing.T) {
	t.Run("implements list.Item interface correctly", func(t *testing.T) {
		item := AgentItem{
			ID:     "agent-1",
			Name:   "Support Triage",
			Desc:   "Routes inbound tickets",
			Model:  "gpt-4o",
			Status: models.AgentStatusIdle,
		}

		assert.Equal(t, "Support Triage", item.FilterValue())
		assert.Equal(t, "Support Triage [idle]", item.Title())
		assert.Equal(t, "Routes inbound tickets", item.Description())
	})

	t.Run("falls back to model when description is empty", func(t *testing.T) {
		item := AgentItem{Name: "Bare", Model: "claude-sonnet"}
		assert.Equal(t, "claude-sonnet", item.Description())
	})
}

func TestNewModel(t *testing.T) {
	t.Run("creates model with correct initial state", func(t *testing.T) {
		stub := testutil.NewAPIStub(t)
		model := NewModel(stub.Client())

		assert.Equal(t, Browsing, model.stage)
		assert.Empty(t, model.agents)
		assert.Equal(t, "", model.list.Title)
	})
}

func TestModelInit(t *testing.T) {
	t.Run("loads agents from the server", func(t *testing.T) {
		stub := testutil.NewAPIStub(t)
		model := NewModel(stub.Client())

		msg := testutil.ExecuteCommand(model.Init())
		loaded, ok := msg.(agentsLoadedMsg)
		require.True(t, ok, "Init should produce agentsLoadedMsg")
		assert.Len(t, loaded.agents, 2)
	})
}

func TestAgentsLoaded(t *testing.T) {
	t.Run("populates the list and renders the fleet", func(t *testing.T) {
		stub := testutil.NewAPIStub(t)
		model := NewModel(stub.Client())
		model.SetSize(100, 40)

		updated, _ := testutil.SendMessage(model, agentsLoadedMsg{agents: stub.Agents})
		m := updated.(Model)

		assert.Len(t, m.agents, 2)
		testutil.AssertViewContains(t, m, "Support Triage")
		testutil.AssertViewContains(t, m, "Release Notes")
	})
}

func TestNavigationKeys(t *testing.T) {
	stub := testutil.NewAPIStub(t)

	t.Run("c navigates to credentials", func(t *testing.T) {
		model := NewModel(stub.Client())
		_, cmd := testutil.SendMessage(model, testutil.KeyPress("c"))
		require.NotNil(t, cmd)
		testutil.AssertNavigationMessage(t, testutil.ExecuteCommand(cmd), messages.GoToCredentialsMsg{})
	})

	t.Run("s navigates to schedules", func(t *testing.T) {
		model := NewModel(stub.Client())
		_, cmd := testutil.SendMessage(model, testutil.KeyPress("s"))
		require.NotNil(t, cmd)
		testutil.AssertNavigationMessage(t, testutil.ExecuteCommand(cmd), messages.GoToSchedulesMsg{})
	})

	t.Run("q quits", func(t *testing.T) {
		model := NewModel(stub.Client())
		_, cmd := testutil.SendMessage(model, testutil.KeyPress("q"))
		testutil.AssertQuitMessage(t, cmd)
	})
}

func TestCreateFlow(t *testing.T) {
	t.Run("n opens the creation form", func(t *testing.T) {
		stub := testutil.NewAPIStub(t)
		model := NewModel(stub.Client())
		model.SetSize(100, 40)

		updated, _ := testutil.SendMessage(model, testutil.KeyPress("n"))
		m := updated.(Model)

		assert.Equal(t, Creating, m.stage)
		require.NotNil(t, m.form)
		testutil.AssertViewContains(t, m, "Agent Name")
	})

	t.Run("esc cancels back to browsing", func(t *testing.T) {
		stub := testutil.NewAPIStub(t)
		model := NewModel(stub.Client())

		updated, _ := testutil.SendMessage(model, testutil.KeyPress("n"))
		updated, _ = testutil.SendMessage(updated, testutil.SpecialKey(tea.KeyEsc))
		m := updated.(Model)

		assert.Equal(t, Browsing, m.stage)
	})

	t.Run("agentSavedMsg returns to browsing and reloads", func(t *testing.T) {
		stub := testutil.NewAPIStub(t)
		model := NewModel(stub.Client())

		updated, _ := testutil.SendMessage(model, testutil.KeyPress("n"))
		m := updated.(Model)
		m.submitting = true

		agent := stub.Agents[0]
		next, cmd := testutil.SendMessage(m, agentSavedMsg{agent: &agent})
		got := next.(Model)

		assert.Equal(t, Browsing, got.stage)
		assert.False(t, got.submitting)
		assert.Contains(t, got.statusMessage, "Created agent")

		require.NotNil(t, cmd)
		_, ok := testutil.ExecuteCommand(cmd).(agentsLoadedMsg)
		assert.True(t, ok, "should reload agents after save")
	})

	t.Run("errMsg clears the in-flight flag", func(t *testing.T) {
		stub := testutil.NewAPIStub(t)
		model := NewModel(stub.Client())

		updated, _ := testutil.SendMessage(model, testutil.KeyPress("n"))
		m := updated.(Model)
		m.submitting = true

		next, _ := testutil.SendMessage(m, errMsg{err: assert.AnError})
		got := next.(Model)

		assert.False(t, got.submitting)
		assert.Contains(t, got.statusMessage, "Error:")
	})
}

func TestDeleteAgent(t *testing.T) {
	t.Run("d deletes the selected agent via the API", func(t *testing.T) {
		stub := testutil.NewAPIStub(t)
		model := NewModel(stub.Client())
		model.SetSize(100, 40)

		updated, _ := testutil.SendMessage(model, agentsLoadedMsg{agents: stub.Agents})
		updated, cmd := testutil.SendMessage(updated, testutil.KeyPress("d"))
		require.NotNil(t, cmd)

		msg := testutil.ExecuteCommand(cmd)
		deleted, ok := msg.(agentDeletedMsg)
		require.True(t, ok, "expected agentDeletedMsg, got %T", msg)
		assert.Equal(t, "agent-1", deleted.agentID)
		assert.Len(t, stub.Agents, 1)

		// The deletion confirmation triggers a reload.
		_, reload := testutil.SendMessage(updated, deleted)
		require.NotNil(t, reload)
		loaded, ok := testutil.ExecuteCommand(reload).(agentsLoadedMsg)
		require.True(t, ok)
		assert.Len(t, loaded.agents, 1)
	})
}

func TestServerEvents(t *testing.T) {
	t.Run("fleet change event triggers a reload", func(t *testing.T) {
		stub := testutil.NewAPIStub(t)
		model := NewModel(stub.Client())

		event := testutil.AgentCreatedEvent(stub.Agents[0])
		_, cmd := testutil.SendMessage(model, event)
		require.NotNil(t, cmd)
		_, ok := testutil.ExecuteCommand(cmd).(agentsLoadedMsg)
		assert.True(t, ok)
	})

	t.Run("error event surfaces in the status line", func(t *testing.T) {
		stub := testutil.NewAPIStub(t)
		model := NewModel(stub.Client())

		updated, _ := testutil.SendMessage(model, testutil.ServerErrorEvent("scheduler unavailable"))
		m := updated.(Model)
		assert.Contains(t, m.statusMessage, "scheduler unavailable")
	})
}
