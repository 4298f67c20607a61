// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package credentials

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agentdeck/agentdeck/internal/tui/layout"
)

// View renders the credentials screen
func (m Model) View() string {
	layoutInfo := m.GetLayoutInfo()

	var content string
	switch m.stage {
	case ProviderSelect, FormInput:
		content = m.form.View()
	case FilePick:
		content = m.renderFilePick()
	case Detail:
		content = m.renderDetail()
	default:
		content = m.list.View()
	}

	return layout.RenderLayout(content, layoutInfo, m.width, m.height)
}

// renderFilePick renders the file selection step for file-typed fields
func (m Model) renderFilePick() string {
	style := lipgloss.NewStyle().Padding(1, 2)

	label := ""
	description := ""
	if len(m.fileQueue) > 0 {
		label = m.fileQueue[0].Label
		description = m.fileQueue[0].Description
	}

	instructions := lipgloss.NewStyle().
		Foreground(layout.MutedColor).
		Margin(1, 0).
		Render(fmt.Sprintf("Select the file for %s and press ENTER", label))

	var parts []string
	parts = append(parts, instructions)
	if description != "" {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(layout.MutedColor).
			Italic(true).
			Render(description))
	}
	parts = append(parts, m.filePicker.View())

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// renderDetail renders one credential's fields with sensitive values masked
// until explicitly revealed.
func (m Model) renderDetail() string {
	if m.detail == nil {
		return ""
	}

	style := lipgloss.NewStyle().Padding(1, 2)

	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(layout.TextColor)
	valueStyle := lipgloss.NewStyle().Foreground(layout.MutedColor)
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(layout.AccentColor)

	var b strings.Builder
	b.WriteString(labelStyle.Render("Provider: "))
	b.WriteString(valueStyle.Render(m.detail.Provider))
	b.WriteString("\n\n")

	for i, f := range m.detailOrder {
		presenter := m.presenters[f.Name]
		if presenter == nil {
			continue
		}

		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
		}

		b.WriteString(marker)
		b.WriteString(labelStyle.Render(f.Label + ": "))
		b.WriteString(valueStyle.Render(presenter.Display()))
		b.WriteString("\n")
	}

	return style.Render(b.String())
}
