// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/protocol"
	"github.com/agentdeck/agentdeck/internal/schedule"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.APIClientConfig{
		BaseURL:        srv.URL,
		RequestTimeout: 5 * time.Second,
	})
}

func TestProviders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/providers", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"providers":[{"kind":"anthropic","display_name":"Anthropic","fields":[{"name":"api_key","label":"API Key","type":"password","required":true,"sensitive":true}]}]}`))
	})

	providers, err := client.Providers(context.Background())
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "anthropic", providers[0].Kind)
	require.Len(t, providers[0].Fields, 1)
	assert.True(t, providers[0].Fields[0].Sensitive)
}

func TestListCredentials_ScopesToWorkspace(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/credentials", r.URL.Path)
		assert.Equal(t, "workspace-default", r.URL.Query().Get("workspace_id"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"credentials":[{"id":"cred-1","workspace_id":"workspace-default","provider":"anthropic","name":"prod","credential":{"api_key":"sk-ant-xyz"}}]}`))
	})

	credentials, err := client.ListCredentials(context.Background(), models.DefaultWorkspaceID)
	require.NoError(t, err)
	require.Len(t, credentials, 1)
	assert.Equal(t, "prod", credentials[0].Name)
	assert.Equal(t, "sk-ant-xyz", credentials[0].Values["api_key"])
}

func TestCreateCredential_ValidationFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body protocol.CredentialCreateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "smtp", body.Provider)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"validation failed","field_errors":{"from_address":"invalid email"}}`))
	})

	_, err := client.CreateCredential(context.Background(), models.DefaultWorkspaceID, protocol.CredentialCreateRequest{
		Provider: "smtp",
		Name:     "mailer",
		Credential: map[string]string{
			"host": "smtp.example.com", "port": "587", "username": "u",
			"password": "p", "from_address": "not-an-email",
		},
	})
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadRequest, reqErr.Status)
	assert.Equal(t, "invalid email", reqErr.FieldErrors["from_address"])
}

func TestCreateCredential_UndeclaredKeys(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"credential contains keys the provider schema does not declare","extra_keys":["region"]}`))
	})

	_, err := client.CreateCredential(context.Background(), "", protocol.CredentialCreateRequest{
		Provider:   "anthropic",
		Name:       "prod",
		Credential: map[string]string{"api_key": "sk-ant-x", "region": "us-east-1"},
	})

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, []string{"region"}, reqErr.ExtraKeys)
}

func TestCreateCredential_Conflict(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"credential 'prod' already exists"}`))
	})

	_, err := client.CreateCredential(context.Background(), "", protocol.CredentialCreateRequest{
		Provider:   "anthropic",
		Name:       "prod",
		Credential: map[string]string{"api_key": "sk-ant-x"},
	})
	assert.True(t, IsConflict(err))
	assert.False(t, IsNotFound(err))
}

func TestFetchTask(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tasks/task-42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"task-42","workspace_id":"workspace-default","agent_id":"agent-1","name":"Weekly digest","execution_config":{"topic":"go","tone":"casual"}}`))
	})

	task, err := client.FetchTask(context.Background(), "task-42")
	require.NoError(t, err)
	assert.Equal(t, "task-42", task.ID)
	assert.Contains(t, task.ExecutionConfig, "topic")
	assert.Contains(t, task.ExecutionConfig, "tone")
}

func TestFetchTask_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"task not found"}`))
	})

	_, err := client.FetchTask(context.Background(), "task-missing")
	assert.True(t, IsNotFound(err))
}

func TestCreateScheduledTask_SendsTaggedSchedule(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/scheduled-tasks", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "weekly", body["schedule_type"])
		spec, ok := body["schedule_config"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "09:30", spec["time"])
		assert.Equal(t, float64(1), spec["day_of_week"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"sched-1","workspace_id":"workspace-default","agent_id":"agent-1","name":"Standup","schedule_type":"weekly","time":"09:30","day_of_week":1,"enabled":true}`))
	})

	dow := 1
	scheduled, err := client.CreateScheduledTask(context.Background(), protocol.ScheduledTaskCreateRequest{
		AgentID:      "agent-1",
		Name:         "Standup",
		ScheduleType: schedule.Weekly,
		ScheduleConfig: schedule.Spec{
			Time:      "09:30",
			DayOfWeek: &dow,
		},
		AutoCreateConversation: true,
		ConversationTemplate: &protocol.ConversationTemplate{
			InputData: map[string]string{protocol.MessageKey: "post the standup summary"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "sched-1", scheduled.ID)
	assert.True(t, scheduled.Enabled)
	assert.Equal(t, "weekly", scheduled.ScheduleType)
}

func TestToggleScheduledTask(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/scheduled-tasks/sched-1/toggle", r.URL.Path)

		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.False(t, body["enabled"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"sched-1","workspace_id":"workspace-default","agent_id":"agent-1","name":"Standup","schedule_type":"daily","time":"09:30","enabled":false}`))
	})

	scheduled, err := client.ToggleScheduledTask(context.Background(), "sched-1", false)
	require.NoError(t, err)
	assert.False(t, scheduled.Enabled)
}

func TestDeleteScheduledTask(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/scheduled-tasks/sched-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"deleted"}`))
	})

	require.NoError(t, client.DeleteScheduledTask(context.Background(), "sched-1"))
}

func TestRequestError_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	})

	_, err := client.ListAgents(context.Background(), "")
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.Status)
	assert.NotEmpty(t, reqErr.Message)
}
