// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client the dashboard uses to talk to the API
// server. It mirrors the REST surface one method per endpoint and decodes
// the server's error envelopes into RequestError values so callers can show
// field-level validation feedback without parsing JSON themselves.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/logger"
	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/protocol"
	"github.com/agentdeck/agentdeck/internal/schema"
)

var (
	logOnce sync.Once
	log     zerolog.Logger
)

func getLog() *zerolog.Logger {
	logOnce.Do(func() {
		log = logger.GetClientLogger()
	})
	return &log
}

// RequestError is a non-2xx response decoded from the server's error
// envelope. FieldErrors and ExtraKeys are populated for validation failures.
type RequestError struct {
	Status      int
	Message     string
	FieldErrors map[string]string
	ExtraKeys   []string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("request failed (HTTP %d)", e.Status)
}

// IsNotFound reports whether err is a RequestError with status 404.
func IsNotFound(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status == http.StatusNotFound
}

// IsConflict reports whether err is a RequestError with status 409.
func IsConflict(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status == http.StatusConflict
}

// Client talks to one Agentdeck API server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client from the dashboard's API configuration.
func NewClient(cfg config.APIClientConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// errorEnvelope matches every error body the server writes.
type errorEnvelope struct {
	Error       string            `json:"error"`
	FieldErrors map[string]string `json:"field_errors"`
	ExtraKeys   []string          `json:"extra_keys"`
}

// do performs one request. body (if non-nil) is JSON-encoded; out (if
// non-nil) receives the decoded 2xx response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var env errorEnvelope
		if decErr := json.NewDecoder(resp.Body).Decode(&env); decErr != nil {
			env.Error = resp.Status
		}
		getLog().Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("error", env.Error).
			Msg("API request rejected")
		return &RequestError{
			Status:      resp.StatusCode,
			Message:     env.Error,
			FieldErrors: env.FieldErrors,
			ExtraKeys:   env.ExtraKeys,
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}
	return nil
}

func workspaceQuery(workspaceID string) url.Values {
	q := url.Values{}
	if workspaceID != "" {
		q.Set("workspace_id", workspaceID)
	}
	return q
}

// --- providers and workspaces ---

// Providers fetches the credential provider schema catalog.
func (c *Client) Providers(ctx context.Context) ([]schema.EntitySchema, error) {
	var out struct {
		Providers []schema.EntitySchema `json:"providers"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/providers", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Providers, nil
}

// ListWorkspaces fetches all workspaces.
func (c *Client) ListWorkspaces(ctx context.Context) ([]models.Workspace, error) {
	var out struct {
		Workspaces []models.Workspace `json:"workspaces"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/workspaces", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Workspaces, nil
}

// --- credentials ---

// ListCredentials fetches the credentials in a workspace.
func (c *Client) ListCredentials(ctx context.Context, workspaceID string) ([]models.Credential, error) {
	var out struct {
		Credentials []models.Credential `json:"credentials"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/credentials", workspaceQuery(workspaceID), nil, &out); err != nil {
		return nil, err
	}
	return out.Credentials, nil
}

// CreateCredential stores a new credential. The server re-validates the
// value map against the provider schema; validation failures come back as a
// RequestError with FieldErrors set.
func (c *Client) CreateCredential(ctx context.Context, workspaceID string, req protocol.CredentialCreateRequest) (*models.Credential, error) {
	var out models.Credential
	if err := c.do(ctx, http.MethodPost, "/api/v1/credentials", workspaceQuery(workspaceID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCredential removes a credential.
func (c *Client) DeleteCredential(ctx context.Context, credentialID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/credentials/"+url.PathEscape(credentialID), nil, nil, nil)
}

// --- agents ---

// ListAgents fetches the agents in a workspace.
func (c *Client) ListAgents(ctx context.Context, workspaceID string) ([]models.Agent, error) {
	var out struct {
		Agents []models.Agent `json:"agents"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/agents", workspaceQuery(workspaceID), nil, &out); err != nil {
		return nil, err
	}
	return out.Agents, nil
}

// CreateAgent registers a new agent.
func (c *Client) CreateAgent(ctx context.Context, req protocol.AgentCreateRequest) (*models.Agent, error) {
	var out models.Agent
	if err := c.do(ctx, http.MethodPost, "/api/v1/agents", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAgent removes an agent.
func (c *Client) DeleteAgent(ctx context.Context, agentID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/agents/"+url.PathEscape(agentID), nil, nil, nil)
}

// --- folders ---

// ListFolders fetches the folders in a workspace.
func (c *Client) ListFolders(ctx context.Context, workspaceID string) ([]models.Folder, error) {
	var out struct {
		Folders []models.Folder `json:"folders"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/folders", workspaceQuery(workspaceID), nil, &out); err != nil {
		return nil, err
	}
	return out.Folders, nil
}

// CreateFolder creates a folder.
func (c *Client) CreateFolder(ctx context.Context, req protocol.FolderCreateRequest) (*models.Folder, error) {
	var out models.Folder
	if err := c.do(ctx, http.MethodPost, "/api/v1/folders", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFolder removes a folder.
func (c *Client) DeleteFolder(ctx context.Context, folderID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/folders/"+url.PathEscape(folderID), nil, nil, nil)
}

// --- tasks ---

// ListTasks fetches the tasks in a workspace.
func (c *Client) ListTasks(ctx context.Context, workspaceID string) ([]models.Task, error) {
	var out struct {
		Tasks []models.Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks", workspaceQuery(workspaceID), nil, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

// FetchTask fetches one task, including its execution config. Run dialogs
// call this to materialize input fields from the config's key set.
func (c *Client) FetchTask(ctx context.Context, taskID string) (*models.Task, error) {
	var out models.Task
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/"+url.PathEscape(taskID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, req protocol.TaskCreateRequest) (*models.Task, error) {
	var out models.Task
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+url.PathEscape(taskID), nil, nil, nil)
}

// --- scheduled tasks ---

// ListScheduledTasks fetches the scheduled tasks in a workspace.
func (c *Client) ListScheduledTasks(ctx context.Context, workspaceID string) ([]models.ScheduledTask, error) {
	var out struct {
		ScheduledTasks []models.ScheduledTask `json:"scheduled_tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/scheduled-tasks", workspaceQuery(workspaceID), nil, &out); err != nil {
		return nil, err
	}
	return out.ScheduledTasks, nil
}

// GetScheduledTask fetches one scheduled task for editing.
func (c *Client) GetScheduledTask(ctx context.Context, scheduledID string) (*models.ScheduledTask, error) {
	var out models.ScheduledTask
	if err := c.do(ctx, http.MethodGet, "/api/v1/scheduled-tasks/"+url.PathEscape(scheduledID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateScheduledTask creates a scheduled task.
func (c *Client) CreateScheduledTask(ctx context.Context, req protocol.ScheduledTaskCreateRequest) (*models.ScheduledTask, error) {
	var out models.ScheduledTask
	if err := c.do(ctx, http.MethodPost, "/api/v1/scheduled-tasks", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateScheduledTask replaces a scheduled task's definition. All schedule
// parameters are overwritten, not merged.
func (c *Client) UpdateScheduledTask(ctx context.Context, scheduledID string, req protocol.ScheduledTaskCreateRequest) (*models.ScheduledTask, error) {
	var out models.ScheduledTask
	if err := c.do(ctx, http.MethodPut, "/api/v1/scheduled-tasks/"+url.PathEscape(scheduledID), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleScheduledTask enables or disables a scheduled task without touching
// its schedule.
func (c *Client) ToggleScheduledTask(ctx context.Context, scheduledID string, enabled bool) (*models.ScheduledTask, error) {
	body := map[string]bool{"enabled": enabled}
	var out models.ScheduledTask
	if err := c.do(ctx, http.MethodPost, "/api/v1/scheduled-tasks/"+url.PathEscape(scheduledID)+"/toggle", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteScheduledTask removes a scheduled task.
func (c *Client) DeleteScheduledTask(ctx context.Context, scheduledID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/scheduled-tasks/"+url.PathEscape(scheduledID), nil, nil, nil)
}
