// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package credentials is the credential management screen. The add dialog
// is generated entirely from the provider's entity schema: one form control
// per declared field, password fields masked, file fields routed through a
// file picker. The detail view renders sensitive values through
// SecretPresenter so nothing secret hits the screen unless revealed.
package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/schema"
	"github.com/agentdeck/agentdeck/internal/submit"
	"github.com/agentdeck/agentdeck/internal/tui/layout"
)

// CredentialItem represents a stored credential in the list
type CredentialItem struct {
	ID       string
	Name     string
	Provider string
}

// FilterValue returns the value to filter against
func (c CredentialItem) FilterValue() string {
	return c.Name
}

// Title returns the credential name
func (c CredentialItem) Title() string {
	return c.Name
}

// Description returns the provider kind
func (c CredentialItem) Description() string {
	return c.Provider
}

// Stage represents the current mode of the screen
type Stage int

const (
	Browsing Stage = iota
	ProviderSelect
	FilePick
	FormInput
	Detail
)

// Model is the model for the credentials screen.
type Model struct {
	stage       Stage
	list        list.Model
	client      *api.Client
	providers   []schema.EntitySchema
	credentials []models.Credential

	// Add-dialog state. values is the dialog-scoped draft map; it dies with
	// the dialog.
	selected   schema.EntitySchema
	values     schema.ValueMap
	form       *huh.Form
	fileQueue  []schema.FieldSchema
	filePicker filepicker.Model
	submitting bool

	// Detail state
	detail      *models.Credential
	detailOrder []schema.FieldSchema
	presenters  map[string]*schema.SecretPresenter
	cursor      int

	statusMessage string
	width         int
	height        int
}

// NewModel creates a new credentials model
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

func (m Model) Init() tea.Cmd {
	return tea.Batch(loadCredentials(m.client), loadProviders(m.client))
}

// initProviderForm builds the provider picker from the schema catalog.
func (m *Model) initProviderForm() {
	opts := make([]huh.Option[string], 0, len(m.providers))
	for _, p := range m.providers {
		opts = append(opts, huh.NewOption(p.DisplayName, p.Kind))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("provider").
				Title("Provider").
				Options(opts...),
		),
	).WithTheme(huh.ThemeCharm())
}

// initCredentialForm generates the value form from the selected provider's
// schema. File-typed fields are collected through the file picker before
// this form opens, so they are skipped here.
func (m *Model) initCredentialForm() {
	m.values = schema.Materialize(m.selected, m.values)

	namePrefill := new(string)
	fields := []huh.Field{
		huh.NewInput().
			Key("name").
			Title("Credential Name").
			Placeholder("e.g. production").
			Value(namePrefill).
			Validate(func(s string) error {
				if msg := schema.RequireLabel("Credential Name", s); msg != "" {
					return errors.New(msg)
				}
				return nil
			}),
	}

	for _, f := range m.selected.Fields {
		if f.Type == schema.TypeFile {
			continue
		}

		prefill := new(string)
		*prefill = m.values[f.Name]

		input := huh.NewInput().
			Key(f.Name).
			Title(f.Label).
			Placeholder(f.Placeholder).
			Description(f.Description).
			Value(prefill)
		if f.Type == schema.TypePassword {
			input = input.EchoMode(huh.EchoModePassword)
		}

		field := f
		input = input.Validate(func(s string) error {
			res := schema.Validate([]schema.FieldSchema{field}, schema.ValueMap{field.Name: s})
			if msg := res.FieldError(field.Name); msg != "" {
				return errors.New(msg)
			}
			return nil
		})

		fields = append(fields, input)
	}

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeCharm())
}

// initFilePicker prepares the picker for the next queued file field.
func (m *Model) initFilePicker() {
	fp := filepicker.New()
	fp.FileAllowed = true
	fp.DirAllowed = false
	fp.CurrentDirectory = "."
	m.filePicker = fp
}

// openDetail builds the masked field presentation for one credential,
// ordered by the provider schema.
func (m *Model) openDetail(credential *models.Credential) {
	m.detail = credential
	m.cursor = 0
	m.presenters = make(map[string]*schema.SecretPresenter)
	m.detailOrder = nil

	providerSchema, err := schema.Lookup(credential.Provider)
	if err != nil {
		// Unknown provider kind in storage: present every value as
		// sensitive rather than guessing.
		for key, value := range credential.Values {
			f := schema.FieldSchema{Name: key, Label: key, Sensitive: true}
			m.detailOrder = append(m.detailOrder, f)
			m.presenters[key] = schema.NewSecretPresenter(value, true)
		}
		return
	}

	for _, f := range providerSchema.Fields {
		value, ok := credential.Values[f.Name]
		if !ok {
			continue
		}
		m.detailOrder = append(m.detailOrder, f)
		m.presenters[f.Name] = schema.NewSecretPresenter(value, f.Sensitive)
	}
}

// closeDialog drops all dialog-scoped state.
func (m *Model) closeDialog() {
	m.stage = Browsing
	m.selected = schema.EntitySchema{}
	m.values = nil
	m.form = nil
	m.fileQueue = nil
	m.submitting = false
	m.detail = nil
	m.detailOrder = nil
	m.presenters = nil
}

// GetLayoutInfo returns layout information for the credentials screen
func (m Model) GetLayoutInfo() layout.LayoutInfo {
	switch m.stage {
	case ProviderSelect:
		return layout.LayoutInfo{
			Title:       "Add Credential",
			Breadcrumbs: []string{"Credentials", "New"},
			Status:      "Choose a provider",
			HelpItems: []layout.HelpItem{
				{Key: "↑/↓", Description: "navigate"},
				{Key: "enter", Description: "select"},
				{Key: "esc", Description: "cancel"},
			},
		}
	case FilePick:
		label := ""
		if len(m.fileQueue) > 0 {
			label = m.fileQueue[0].Label
		}
		return layout.LayoutInfo{
			Title:       "Add Credential",
			Breadcrumbs: []string{"Credentials", "New", m.selected.DisplayName},
			Status:      fmt.Sprintf("Select file for %s", label),
			HelpItems: []layout.HelpItem{
				{Key: "↑/↓", Description: "navigate"},
				{Key: "enter", Description: "select file"},
				{Key: "esc", Description: "cancel"},
			},
		}
	case FormInput:
		return layout.LayoutInfo{
			Title:       "Add Credential",
			Breadcrumbs: []string{"Credentials", "New", m.selected.DisplayName},
			Status:      m.statusMessage,
			HelpItems: []layout.HelpItem{
				{Key: "tab", Description: "next field"},
				{Key: "enter", Description: "submit"},
				{Key: "esc", Description: "cancel"},
			},
		}
	case Detail:
		name := ""
		if m.detail != nil {
			name = m.detail.Name
		}
		return layout.LayoutInfo{
			Title:       "Credential",
			Breadcrumbs: []string{"Credentials", name},
			Status:      m.statusMessage,
			HelpItems: []layout.HelpItem{
				{Key: "↑/↓", Description: "field"},
				{Key: "v", Description: "reveal/hide"},
				{Key: "y", Description: "copy"},
				{Key: "esc", Description: "back"},
			},
		}
	}

	status := fmt.Sprintf("Total: %d credentials", len(m.credentials))
	if m.statusMessage != "" {
		status = m.statusMessage
	}

	return layout.LayoutInfo{
		Title:       "Credentials",
		Breadcrumbs: []string{"Agents", "Credentials"},
		Status:      status,
		HelpItems: []layout.HelpItem{
			{Key: "enter", Description: "view"},
			{Key: "n", Description: "new"},
			{Key: "d", Description: "delete"},
			{Key: "esc", Description: "back"},
		},
	}
}

// SetSize updates the model's dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	layoutInfo := m.GetLayoutInfo()
	dims := layout.GetContentArea(layoutInfo, width, height)
	m.list.SetWidth(dims.Width)
	m.list.SetHeight(dims.Height)
	m.filePicker.Height = dims.Height - 4
}

// --- async messages and commands ---

type credentialsLoadedMsg struct {
	credentials []models.Credential
}

type providersLoadedMsg struct {
	providers []schema.EntitySchema
}

type credentialSavedMsg struct {
	credential *models.Credential
}

type credentialDeletedMsg struct {
	credentialID string
}

type errMsg struct {
	err error
}

func loadCredentials(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		credentials, err := client.ListCredentials(context.Background(), models.DefaultWorkspaceID)
		if err != nil {
			return errMsg{err}
		}
		return credentialsLoadedMsg{credentials: credentials}
	}
}

func loadProviders(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		providers, err := client.Providers(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return providersLoadedMsg{providers: providers}
	}
}

func createCredential(client *api.Client, s schema.EntitySchema, name string, res schema.Result) tea.Cmd {
	return func() tea.Msg {
		req, err := submit.Credential(s, name, res)
		if err != nil {
			return errMsg{err}
		}
		credential, err := client.CreateCredential(context.Background(), models.DefaultWorkspaceID, req)
		if err != nil {
			return errMsg{err}
		}
		return credentialSavedMsg{credential: credential}
	}
}

func deleteCredential(client *api.Client, credentialID string) tea.Cmd {
	return func() tea.Msg {
		if err := client.DeleteCredential(context.Background(), credentialID); err != nil {
			return errMsg{err}
		}
		return credentialDeletedMsg{credentialID: credentialID}
	}
}
