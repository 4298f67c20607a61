// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package schedules

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agentdeck/agentdeck/internal/tui/layout"
)

// View renders the schedules screen
func (m Model) View() string {
	layoutInfo := m.GetLayoutInfo()

	var content string
	switch m.stage {
	case FormInput:
		content = m.form.View()
	case InputsInput:
		if m.form != nil && len(m.inputKeys) > 0 {
			content = m.form.View()
		} else {
			content = lipgloss.NewStyle().
				Padding(1, 2).
				Foreground(layout.MutedColor).
				Render("Loading task inputs...")
		}
	default:
		content = m.list.View()
	}

	return layout.RenderLayout(content, layoutInfo, m.width, m.height)
}
