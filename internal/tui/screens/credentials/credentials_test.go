// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package credentials

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/schema"
	"github.com/agentdeck/agentdeck/internal/tui/messages"
	"github.com/agentdeck/agentdeck/test/testutil"
)

func TestCredentialItem(t *testing.T) {
	t.Run("implements list.Item interface correctly", func(t *testing.T) {
		item := CredentialItem{ID: "cred-1", Name: "Alerts mailbox", Provider: "smtp"}

		assert.Equal(t, "Alerts mailbox", item.FilterValue())
		assert.Equal(t, "Alerts mailbox", item.Title())
		assert.Equal(t, "smtp", item.Description())
	})
}

func TestLoadMessages(t *testing.T) {
	t.Run("credentialsLoadedMsg populates the list", func(t *testing.T) {
		stub := testutil.NewAPIStub(t)
		model := NewModel(stub.Client())
		model.SetSize(100, 40)

		updated, _ := testutil.SendMessage(model, credentialsLoadedMsg{credentials: stub.Credentials})
		m := updated.(Model)

		assert.Len(t, m.credentials, 2)
		testutil.AssertViewContains(t, m, "Alerts mailbox")
		testutil.AssertViewContains(t, m, "Billing API")
	})

	t.Run("providersLoadedMsg stores the catalog", func(t *testing.T) {
		stub := testutil.NewAPIStub(t)
		model := NewModel(stub.Client())

		updated, _ := testutil.SendMessage(model, providersLoadedMsg{providers: schema.Providers()})
		m := updated.(Model)

		assert.NotEmpty(t, m.providers)
	})
}

func TestAddDialog(t *testing.T) {
	loaded := func(t *testing.T) Model {
		t.Helper()
		stub := testutil.NewAPIStub(t)
		model := NewModel(stub.Client())
		model.SetSize(100, 40)
		updated, _ := testutil.SendMessage(model, credentialsLoadedMsg{credentials: stub.Credentials})
		updated, _ = testutil.SendMessage(updated, providersLoadedMsg{providers: schema.Providers()})
		return updated.(Model)
	}

	t.Run("n opens the provider picker", func(t *testing.T) {
		m := loaded(t)
		updated, _ := testutil.SendMessage(m, testutil.KeyPress("n"))
		got := updated.(Model)

		assert.Equal(t, ProviderSelect, got.stage)
		require.NotNil(t, got.form)
		testutil.AssertViewContains(t, got, "Provider")
	})

	t.Run("n without catalog retries the provider fetch", func(t *testing.T) {
		stub := testutil.NewAPIStub(t)
		model := NewModel(stub.Client())

		updated, cmd := testutil.SendMessage(model, testutil.KeyPress("n"))
		got := updated.(Model)

		assert.Equal(t, Browsing, got.stage)
		require.NotNil(t, cmd)
		_, ok := testutil.ExecuteCommand(cmd).(providersLoadedMsg)
		assert.True(t, ok)
	})

	t.Run("esc abandons the dialog", func(t *testing.T) {
		m := loaded(t)
		updated, _ := testutil.SendMessage(m, testutil.KeyPress("n"))
		updated, _ = testutil.SendMessage(updated, testutil.SpecialKey(tea.KeyEsc))
		got := updated.(Model)

		assert.Equal(t, Browsing, got.stage)
		assert.Nil(t, got.form)
		assert.Nil(t, got.values)
	})

	t.Run("credentialSavedMsg closes the dialog and reloads", func(t *testing.T) {
		m := loaded(t)
		m.stage = FormInput
		m.submitting = true

		cred := m.credentials[0]
		updated, cmd := testutil.SendMessage(m, credentialSavedMsg{credential: &cred})
		got := updated.(Model)

		assert.Equal(t, Browsing, got.stage)
		assert.False(t, got.submitting)
		assert.Contains(t, got.statusMessage, "Stored credential Alerts mailbox")

		require.NotNil(t, cmd)
		_, ok := testutil.ExecuteCommand(cmd).(credentialsLoadedMsg)
		assert.True(t, ok)
	})

	t.Run("server validation errors render field detail", func(t *testing.T) {
		m := loaded(t)
		m.stage = FormInput
		m.submitting = true

		err := &api.RequestError{
			Status:      400,
			Message:     "validation failed",
			FieldErrors: map[string]string{"from_address": "invalid email"},
		}
		updated, _ := testutil.SendMessage(m, errMsg{err: err})
		got := updated.(Model)

		assert.False(t, got.submitting)
		assert.Contains(t, got.statusMessage, "from_address: invalid email")
	})

	t.Run("undeclared key rejections list the keys", func(t *testing.T) {
		m := loaded(t)

		err := &api.RequestError{Status: 400, Message: "undeclared keys", ExtraKeys: []string{"region"}}
		updated, _ := testutil.SendMessage(m, errMsg{err: err})
		got := updated.(Model)

		assert.Contains(t, got.statusMessage, "Rejected keys: region")
	})
}

func TestDetailView(t *testing.T) {
	open := func(t *testing.T) Model {
		t.Helper()
		stub := testutil.NewAPIStub(t)
		model := NewModel(stub.Client())
		model.SetSize(100, 40)
		updated, _ := testutil.SendMessage(model, credentialsLoadedMsg{credentials: stub.Credentials})
		updated, _ = testutil.SendMessage(updated, testutil.SpecialKey(tea.KeyEnter))
		m := updated.(Model)
		require.Equal(t, Detail, m.stage)
		return m
	}

	t.Run("sensitive values start masked", func(t *testing.T) {
		m := open(t)

		testutil.AssertViewContains(t, m, "From Address")
		testutil.AssertViewContains(t, m, schema.Mask)

		view := m.View()
		assert.NotContains(t, view, "hunter2", "password must not be visible before reveal")
	})

	t.Run("non-sensitive values render literally", func(t *testing.T) {
		m := open(t)
		testutil.AssertViewContains(t, m, "smtp.example.com")
	})

	t.Run("v reveals and hides the selected secret", func(t *testing.T) {
		m := open(t)

		// smtp field order: host, port, username, password, from_address
		var updated tea.Model = m
		for i := 0; i < 3; i++ {
			updated, _ = testutil.SendMessage(updated, testutil.KeyPress("j"))
		}
		updated, _ = testutil.SendMessage(updated, testutil.KeyPress("v"))
		got := updated.(Model)

		assert.Contains(t, got.View(), "hunter2")

		updated, _ = testutil.SendMessage(got, testutil.KeyPress("v"))
		got = updated.(Model)
		assert.NotContains(t, got.View(), "hunter2")
	})

	t.Run("esc returns to browsing", func(t *testing.T) {
		m := open(t)
		updated, _ := testutil.SendMessage(m, testutil.SpecialKey(tea.KeyEsc))
		got := updated.(Model)

		assert.Equal(t, Browsing, got.stage)
		assert.Nil(t, got.detail)
	})
}

func TestBrowsingKeys(t *testing.T) {
	t.Run("d deletes the selected credential via the API", func(t *testing.T) {
		stub := testutil.NewAPIStub(t)
		model := NewModel(stub.Client())
		model.SetSize(100, 40)

		updated, _ := testutil.SendMessage(model, credentialsLoadedMsg{credentials: stub.Credentials})
		_, cmd := testutil.SendMessage(updated, testutil.KeyPress("d"))
		require.NotNil(t, cmd)

		msg := testutil.ExecuteCommand(cmd)
		deleted, ok := msg.(credentialDeletedMsg)
		require.True(t, ok, "expected credentialDeletedMsg, got %T", msg)
		assert.Equal(t, "cred-1", deleted.credentialID)
		assert.Len(t, stub.Credentials, 1)
	})

	t.Run("esc navigates back", func(t *testing.T) {
		stub := testutil.NewAPIStub(t)
		model := NewModel(stub.Client())

		_, cmd := testutil.SendMessage(model, testutil.SpecialKey(tea.KeyEsc))
		require.NotNil(t, cmd)
		testutil.AssertNavigationMessage(t, testutil.ExecuteCommand(cmd), messages.GoBackMsg{})
	})
}
