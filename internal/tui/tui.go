// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/protocol"
)

// StartTUI initializes and runs the TUI dashboard. Mutations go through the
// API client; eventChan delivers the server's WebSocket change events so
// open screens refresh without polling.
func StartTUI(client *api.Client, eventChan <-chan protocol.Event) error {
	mainModel := NewMainModel(client)

	// Reconnecting WebSocket streams can replay events; drop duplicates
	// before they reach any screen.
	deduplicator := NewEventDeduplicator()

	p := tea.NewProgram(mainModel, tea.WithAltScreen())

	go func() {
		for event := range eventChan {
			if deduplicator.ShouldProcess(event) {
				p.Send(event)
			}
		}
	}()

	_, err := p.Run()
	return err
}
