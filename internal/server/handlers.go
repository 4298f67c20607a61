// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/protocol"
	"github.com/agentdeck/agentdeck/internal/schema"
	"github.com/agentdeck/agentdeck/internal/services"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	broadcaster *EventBroadcaster
	data        *services.DataService
}

// NewHandlers creates the handler set.
func NewHandlers(broadcaster *EventBroadcaster, data *services.DataService) *Handlers {
	return &Handlers{broadcaster: broadcaster, data: data}
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		getLog().Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError maps service-layer sentinel errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, services.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeValidationErrors(w http.ResponseWriter, fieldErrors map[string]string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":        "validation failed",
		"field_errors": fieldErrors,
	})
}

// workspaceParam resolves the workspace a list request is scoped to.
func workspaceParam(r *http.Request) string {
	if ws := r.URL.Query().Get("workspace_id"); ws != "" {
		return ws
	}
	return models.DefaultWorkspaceID
}

func newEventMetadata(workspaceID string) protocol.Metadata {
	return protocol.Metadata{
		WorkspaceID:    workspaceID,
		IdempotencyKey: uuid.NewString(),
		Version:        protocol.CurrentProtocolVersion,
	}
}

// --- providers ---

// GetProviders handles GET /api/v1/providers. The schema catalog drives
// dynamic credential form generation on clients.
func (h *Handlers) GetProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"providers": schema.Providers()})
}

// --- workspaces ---

// GetWorkspaces handles GET /api/v1/workspaces
func (h *Handlers) GetWorkspaces(w http.ResponseWriter, r *http.Request) {
	workspaces, err := h.data.ListWorkspaces(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workspaces": workspaces})
}

// --- credentials ---

// GetCredentials handles GET /api/v1/credentials
func (h *Handlers) GetCredentials(w http.ResponseWriter, r *http.Request) {
	credentials, err := h.data.ListCredentials(r.Context(), workspaceParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"credentials": credentials})
}

// GetCredential handles GET /api/v1/credentials/{id}
func (h *Handlers) GetCredential(w http.ResponseWriter, r *http.Request) {
	credential, err := h.data.GetCredential(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, credential)
}

// CreateCredential handles POST /api/v1/credentials. The submitted value map
// is re-validated against the provider's schema; clients already validate,
// but the server owns the invariant.
func (h *Handlers) CreateCredential(w http.ResponseWriter, r *http.Request) {
	var body protocol.CredentialCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	providerSchema, err := schema.Lookup(body.Provider)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if extra := schema.ExtraKeys(providerSchema.Fields, body.Credential); len(extra) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":      "credential contains keys the provider schema does not declare",
			"extra_keys": extra,
		})
		return
	}
	result := schema.Validate(providerSchema.Fields, body.Credential)
	if !result.OK() {
		writeValidationErrors(w, result.Errors())
		return
	}
	values, err := result.Validated()
	if err != nil {
		writeError(w, err)
		return
	}

	workspaceID := workspaceParam(r)
	credential, err := h.data.CreateCredential(r.Context(), workspaceID, providerSchema.Kind, body.Name, values)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcaster.Publish(protocol.CredentialCreatedEvent{
		Metadata:   newEventMetadata(workspaceID),
		Credential: protocol.SummarizeCredential(credential),
	})
	writeJSON(w, http.StatusCreated, credential)
}

// DeleteCredential handles DELETE /api/v1/credentials/{id}
func (h *Handlers) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	credentialID := chi.URLParam(r, "id")

	credential, err := h.data.GetCredential(r.Context(), credentialID)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.data.DeleteCredential(r.Context(), credentialID); err != nil {
		writeError(w, err)
		return
	}

	h.broadcaster.Publish(protocol.CredentialDeletedEvent{
		Metadata:     newEventMetadata(credential.WorkspaceID),
		CredentialID: credentialID,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- agents ---

// GetAgents handles GET /api/v1/agents
func (h *Handlers) GetAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.data.ListAgents(r.Context(), workspaceParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"agents": agents})
}

// CreateAgent handles POST /api/v1/agents
func (h *Handlers) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var body protocol.AgentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}
	if body.WorkspaceID == "" {
		body.WorkspaceID = models.DefaultWorkspaceID
	}

	agent, err := h.data.CreateAgent(r.Context(), body.WorkspaceID, strings.TrimSpace(body.Name), body.Description, body.Model)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcaster.Publish(protocol.AgentCreatedEvent{
		Metadata: newEventMetadata(agent.WorkspaceID),
		Agent:    agent,
	})
	writeJSON(w, http.StatusCreated, agent)
}

// DeleteAgent handles DELETE /api/v1/agents/{id}
func (h *Handlers) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "id")
	if _, err := h.data.GetAgent(r.Context(), agentID); err != nil {
		writeError(w, err)
		return
	}
	if err := h.data.DeleteAgent(r.Context(), agentID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- folders ---

// GetFolders handles GET /api/v1/folders
func (h *Handlers) GetFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.data.ListFolders(r.Context(), workspaceParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"folders": folders})
}

// CreateFolder handles POST /api/v1/folders
func (h *Handlers) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var body protocol.FolderCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}
	if body.WorkspaceID == "" {
		body.WorkspaceID = models.DefaultWorkspaceID
	}

	folder, err := h.data.CreateFolder(r.Context(), body.WorkspaceID, strings.TrimSpace(body.Name), body.ParentID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcaster.Publish(protocol.FolderChangedEvent{
		Metadata: newEventMetadata(folder.WorkspaceID),
		FolderID: folder.ID,
	})
	writeJSON(w, http.StatusCreated, folder)
}

// DeleteFolder handles DELETE /api/v1/folders/{id}
func (h *Handlers) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	folderID := chi.URLParam(r, "id")
	if err := h.data.DeleteFolder(r.Context(), folderID); err != nil {
		writeError(w, err)
		return
	}
	h.broadcaster.Publish(protocol.FolderChangedEvent{
		Metadata: newEventMetadata(workspaceParam(r)),
		FolderID: folderID,
		Deleted:  true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- tasks ---

// GetTasks handles GET /api/v1/tasks
func (h *Handlers) GetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.data.ListTasks(r.Context(), workspaceParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

// GetTask handles GET /api/v1/tasks/{id}. Clients fetch a single task to
// materialize run inputs from its execution_config key set.
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.data.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// CreateTask handles POST /api/v1/tasks
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	var body protocol.TaskCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}
	if body.WorkspaceID == "" {
		body.WorkspaceID = models.DefaultWorkspaceID
	}

	task, err := h.data.CreateTask(r.Context(), body.WorkspaceID, body.AgentID, body.FolderID,
		strings.TrimSpace(body.Name), body.Description, body.ExecutionConfig)
	if err != nil {
		writeError(w, err)
		return
	}

	h.broadcaster.Publish(protocol.TaskCreatedEvent{
		Metadata: newEventMetadata(task.WorkspaceID),
		Task:     task,
	})
	writeJSON(w, http.StatusCreated, task)
}

// DeleteTask handles DELETE /api/v1/tasks/{id}
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")

	task, err := h.data.GetTask(r.Context(), taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.data.DeleteTask(r.Context(), taskID); err != nil {
		writeError(w, err)
		return
	}

	h.broadcaster.Publish(protocol.TaskDeletedEvent{
		Metadata: newEventMetadata(task.WorkspaceID),
		TaskID:   taskID,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// --- scheduled tasks ---

// GetScheduledTasks handles GET /api/v1/scheduled-tasks
func (h *Handlers) GetScheduledTasks(w http.ResponseWriter, r *http.Request) {
	scheduled, err := h.data.ListScheduledTasks(r.Context(), workspaceParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scheduled_tasks": scheduled})
}

// GetScheduledTask handles GET /api/v1/scheduled-tasks/{id}
func (h *Handlers) GetScheduledTask(w http.ResponseWriter, r *http.Request) {
	scheduled, err := h.data.GetScheduledTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scheduled)
}

// validateScheduledTaskRequest re-checks everything clients assert: the
// schedule configuration, the exactly-one-of conversation source rule, and
// task input keys against the referenced task's execution config.
func (h *Handlers) validateScheduledTaskRequest(r *http.Request, body *protocol.ScheduledTaskCreateRequest) (int, any) {
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return http.StatusBadRequest, map[string]string{"error": "name is required"}
	}
	if body.AgentID == "" {
		return http.StatusBadRequest, map[string]string{"error": "agent_id is required"}
	}

	if err := body.Config().Validate(); err != nil {
		return http.StatusBadRequest, map[string]string{"error": err.Error()}
	}

	if !body.AutoCreateConversation {
		return 0, nil
	}

	if body.ConversationTemplate == nil {
		return http.StatusBadRequest, map[string]string{"error": "conversation_template is required when auto_create_conversation is set"}
	}

	inputs := body.ConversationTemplate.InputData
	_, hasMessage := inputs[protocol.MessageKey]

	switch {
	case body.TaskID != "" && hasMessage:
		return http.StatusBadRequest, map[string]string{"error": "task inputs and free-form message are mutually exclusive"}
	case body.TaskID != "":
		task, err := h.data.GetTask(r.Context(), body.TaskID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return http.StatusNotFound, map[string]string{"error": err.Error()}
			}
			return http.StatusInternalServerError, map[string]string{"error": err.Error()}
		}
		keys := schema.KeysOf(task.ExecutionConfig)
		if extra := undeclaredKeys(keys, inputs); len(extra) > 0 {
			return http.StatusBadRequest, map[string]any{
				"error":      "input_data contains keys the task does not declare",
				"extra_keys": extra,
			}
		}
		result := schema.ValidateKeys(keys, inputs)
		if !result.OK() {
			return http.StatusBadRequest, map[string]any{
				"error":        "validation failed",
				"field_errors": result.Errors(),
			}
		}
	case !hasMessage:
		return http.StatusBadRequest, map[string]string{"error": "conversation_template requires either task inputs or a message"}
	}

	return 0, nil
}

// CreateScheduledTask handles POST /api/v1/scheduled-tasks
func (h *Handlers) CreateScheduledTask(w http.ResponseWriter, r *http.Request) {
	var body protocol.ScheduledTaskCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}
	if body.WorkspaceID == "" {
		body.WorkspaceID = models.DefaultWorkspaceID
	}
	if status, payload := h.validateScheduledTaskRequest(r, &body); status != 0 {
		writeJSON(w, status, payload)
		return
	}

	scheduled, err := h.data.CreateScheduledTask(r.Context(), scheduledTaskParams(body))
	if err != nil {
		writeError(w, err)
		return
	}

	h.publishScheduledTaskEvent(protocol.ScheduledTaskCreated, scheduled)
	writeJSON(w, http.StatusCreated, scheduled)
}

// UpdateScheduledTask handles PUT /api/v1/scheduled-tasks/{id}
func (h *Handlers) UpdateScheduledTask(w http.ResponseWriter, r *http.Request) {
	scheduledID := chi.URLParam(r, "id")
	var body protocol.ScheduledTaskCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}
	if body.WorkspaceID == "" {
		body.WorkspaceID = models.DefaultWorkspaceID
	}
	if status, payload := h.validateScheduledTaskRequest(r, &body); status != 0 {
		writeJSON(w, status, payload)
		return
	}

	scheduled, err := h.data.UpdateScheduledTask(r.Context(), scheduledID, scheduledTaskParams(body))
	if err != nil {
		writeError(w, err)
		return
	}

	h.publishScheduledTaskEvent(protocol.ScheduledTaskUpdated, scheduled)
	writeJSON(w, http.StatusOK, scheduled)
}

// toggleScheduledTaskRequest is the JSON body for enabling or disabling.
type toggleScheduledTaskRequest struct {
	Enabled bool `json:"enabled"`
}

// ToggleScheduledTask handles POST /api/v1/scheduled-tasks/{id}/toggle
func (h *Handlers) ToggleScheduledTask(w http.ResponseWriter, r *http.Request) {
	scheduledID := chi.URLParam(r, "id")
	var body toggleScheduledTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}

	scheduled, err := h.data.SetScheduledTaskEnabled(r.Context(), scheduledID, body.Enabled)
	if err != nil {
		writeError(w, err)
		return
	}

	h.publishScheduledTaskEvent(protocol.ScheduledTaskUpdated, scheduled)
	writeJSON(w, http.StatusOK, scheduled)
}

// DeleteScheduledTask handles DELETE /api/v1/scheduled-tasks/{id}
func (h *Handlers) DeleteScheduledTask(w http.ResponseWriter, r *http.Request) {
	scheduledID := chi.URLParam(r, "id")

	scheduled, err := h.data.GetScheduledTask(r.Context(), scheduledID)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.data.DeleteScheduledTask(r.Context(), scheduledID); err != nil {
		writeError(w, err)
		return
	}

	h.broadcaster.Publish(protocol.ScheduledTaskEvent{
		Metadata:    newEventMetadata(scheduled.WorkspaceID),
		Type:        protocol.ScheduledTaskDeleted,
		ScheduledID: scheduledID,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handlers) publishScheduledTaskEvent(changeType protocol.ScheduledTaskChangeType, scheduled *models.ScheduledTask) {
	h.broadcaster.Publish(protocol.ScheduledTaskEvent{
		Metadata:      newEventMetadata(scheduled.WorkspaceID),
		Type:          changeType,
		ScheduledTask: scheduled,
		ScheduledID:   scheduled.ID,
	})
}

// undeclaredKeys returns the input keys a task's execution config does not
// declare. Mirrors schema.ExtraKeys for key-set schemas.
func undeclaredKeys(declared []string, values map[string]string) []string {
	known := make(map[string]struct{}, len(declared))
	for _, k := range declared {
		known[k] = struct{}{}
	}
	var extra []string
	for k := range values {
		if _, ok := known[k]; !ok {
			extra = append(extra, k)
		}
	}
	return extra
}

func scheduledTaskParams(body protocol.ScheduledTaskCreateRequest) services.ScheduledTaskParams {
	var inputData map[string]string
	if body.ConversationTemplate != nil {
		inputData = body.ConversationTemplate.InputData
	}
	return services.ScheduledTaskParams{
		WorkspaceID:            body.WorkspaceID,
		AgentID:                body.AgentID,
		TaskID:                 body.TaskID,
		Name:                   body.Name,
		Description:            body.Description,
		Config:                 body.Config(),
		AutoCreateConversation: body.AutoCreateConversation,
		InputData:              inputData,
	}
}
