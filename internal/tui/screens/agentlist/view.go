// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package agentlist

import (
	"github.com/agentdeck/agentdeck/internal/tui/layout"
)

// View renders the agent list screen
func (m Model) View() string {
	layoutInfo := m.GetLayoutInfo()

	var content string
	switch m.stage {
	case Creating:
		content = m.form.View()
	default:
		content = m.list.View()
	}

	return layout.RenderLayout(content, layoutInfo, m.width, m.height)
}
