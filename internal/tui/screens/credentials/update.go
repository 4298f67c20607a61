// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/protocol"
	"github.com/agentdeck/agentdeck/internal/schema"
	"github.com/agentdeck/agentdeck/internal/tui/messages"
)

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Async results and shared events are stage-independent.
	switch msg := msg.(type) {
	case credentialsLoadedMsg:
		m.credentials = msg.credentials
		items := make([]list.Item, 0, len(msg.credentials))
		for _, c := range msg.credentials {
			items = append(items, CredentialItem{ID: c.ID, Name: c.Name, Provider: c.Provider})
		}
		m.list.SetItems(items)
		return m, nil

	case providersLoadedMsg:
		m.providers = msg.providers
		return m, nil

	case credentialSavedMsg:
		m.closeDialog()
		m.statusMessage = fmt.Sprintf("Stored credential %s", msg.credential.Name)
		return m, loadCredentials(m.client)

	case credentialDeletedMsg:
		m.statusMessage = ""
		return m, loadCredentials(m.client)

	case protocol.CredentialCreatedEvent, protocol.CredentialDeletedEvent:
		// Change made by another client; refresh the list but leave any open
		// dialog alone.
		return m, loadCredentials(m.client)

	case errMsg:
		m.submitting = false
		m.statusMessage = formatError(msg.err)
		return m, nil

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}

	switch m.stage {
	case ProviderSelect:
		return m.updateProviderSelect(msg)
	case FilePick:
		return m.updateFilePick(msg)
	case FormInput:
		return m.updateFormInput(msg)
	case Detail:
		return m.updateDetail(msg)
	default:
		return m.updateBrowsing(msg)
	}
}

// formatError renders server rejections with their field detail when present.
func formatError(err error) string {
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		if len(reqErr.FieldErrors) > 0 {
			return formatFieldErrors(reqErr.FieldErrors)
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
		case "enter":
			if item, ok := m.list.SelectedItem().(CredentialItem); ok {
				for i := range m.credentials {
					if m.credentials[i].ID == item.ID {
						m.openDetail(&m.credentials[i])
						m.stage = Detail
						m.statusMessage = ""
						return m, nil
					}
				}
			}

		case "n":
			if len(m.providers) == 0 {
				m.statusMessage = "Provider catalog not loaded yet"
				return m, loadProviders(m.client)
			}
			m.stage = ProviderSelect
			m.statusMessage = ""
			m.initProviderForm()
			return m, m.form.Init()

		case "d":
			if item, ok := m.list.SelectedItem().(CredentialItem); ok {
				m.statusMessage = fmt.Sprintf("Deleting %s...", item.Name)
				return m, deleteCredential(m.client, item.ID)
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

func (m Model) updateProviderSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.closeDialog()
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		kind := m.form.GetString("provider")
		for _, p := range m.providers {
			if p.Kind == kind {
				m.selected = p
				break
			}
		}
		m.values = schema.Materialize(m.selected, nil)

		// File fields are picked before the text form opens.
		m.fileQueue = nil
		for _, f := range m.selected.Fields {
			if f.Type == schema.TypeFile {
				m.fileQueue = append(m.fileQueue, f)
			}
		}
		if len(m.fileQueue) > 0 {
			m.stage = FilePick
			m.initFilePicker()
			return m, m.filePicker.Init()
		}

		m.stage = FormInput
		m.initCredentialForm()
		return m, m.form.Init()
	}

	return m, cmd
}

func (m Model) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.closeDialog()
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		field := m.fileQueue[0]
		m.values[field.Name] = path
		m.fileQueue = m.fileQueue[1:]

		if len(m.fileQueue) > 0 {
			m.initFilePicker()
			return m, m.filePicker.Init()
		}

		m.stage = FormInput
		m.initCredentialForm()
		return m, m.form.Init()
	}

	return m, cmd
}

func (m Model) updateFormInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.closeDialog()
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
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

		name := strings.TrimSpace(m.form.GetString("name"))
		for _, f := range m.selected.Fields {
			if f.Type == schema.TypeFile {
				continue // collected by the file picker
			}
			m.values[f.Name] = m.form.GetString(f.Name)
		}

		result := schema.Validate(m.selected.Fields, m.values)
		if !result.OK() {
			m.statusMessage = formatFieldErrors(result.Errors())
			m.initCredentialForm()
			return m, m.form.Init()
		}

		m.submitting = true
		m.statusMessage = "Storing credential..."
		return m, createCredential(m.client, m.selected, name, result)
	}

	return m, cmd
}

func formatFieldErrors(fieldErrors map[string]string) string {
	parts := make([]string, 0, len(fieldErrors))
	for field, reason := range fieldErrors {
		parts = append(parts, fmt.Sprintf("%s: %s", field, reason))
	}
	return "Validation failed: " + strings.Join(parts, "; ")
}

func (m Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.detailOrder)-1 {
			m.cursor++
		}

	case "v":
		if p := m.selectedPresenter(); p != nil {
			p.Toggle()
		}

	case "y":
		if p := m.selectedPresenter(); p != nil {
			if err := p.Copy(); err != nil {
				m.statusMessage = fmt.Sprintf("Copy failed: %s", err)
			} else {
				m.statusMessage = "Copied to clipboard"
			}
		}

	case "esc":
		m.closeDialog()
		m.statusMessage = ""

	case "ctrl+c":
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) selectedPresenter() *schema.SecretPresenter {
	if m.cursor < 0 || m.cursor >= len(m.detailOrder) {
		return nil
	}
	return m.presenters[m.detailOrder[m.cursor].Name]
}
