// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package protocol defines the wire contract between dashboard clients and
// the API server: request payload shapes and the events broadcast over
// WebSocket. Field names are part of the contract; consumers must tolerate
// absent optional keys and must never send keys the active schema does not
// declare.
package protocol

import "github.com/agentdeck/agentdeck/internal/schedule"

// CredentialCreateRequest is the body of POST /api/v1/credentials.
// Credential holds exactly the keys declared by the provider's schema.
type CredentialCreateRequest struct {
	Provider   string            `json:"provider"`
	Name       string            `json:"name"`
	Credential map[string]string `json:"credential"`
}

// MessageKey is the input_data key carrying a free-form message when no
// task drives the conversation.
const MessageKey = "message"

// ConversationTemplate seeds an automated run: either the task-declared
// input map, or a single free-form message under MessageKey.
type ConversationTemplate struct {
	InputData map[string]string `json:"input_data"`
}

// ScheduledTaskCreateRequest is the body of POST /api/v1/scheduled-tasks
// and PUT /api/v1/scheduled-tasks/{id}.
type ScheduledTaskCreateRequest struct {
	AgentID                string                `json:"agent_id"`
	WorkspaceID            string                `json:"workspace_id"`
	TaskID                 string                `json:"task_id,omitempty"`
	Name                   string                `json:"name"`
	Description            string                `json:"description"`
	ScheduleType           schedule.Type         `json:"schedule_type"`
	ScheduleConfig         schedule.Spec         `json:"schedule_config"`
	AutoCreateConversation bool                  `json:"auto_create_conversation"`
	ConversationTemplate   *ConversationTemplate `json:"conversation_template,omitempty"`
}

// Config reassembles the tagged schedule configuration for validation.
func (r ScheduledTaskCreateRequest) Config() schedule.Config {
	return schedule.Config{Type: r.ScheduleType, Spec: r.ScheduleConfig}
}

// AgentCreateRequest is the body of POST /api/v1/agents.
type AgentCreateRequest struct {
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Model       string `json:"model"`
}

// TaskCreateRequest is the body of POST /api/v1/tasks. ExecutionConfig is
// opaque; its key set becomes the task's required run inputs.
type TaskCreateRequest struct {
	WorkspaceID     string         `json:"workspace_id"`
	AgentID         string         `json:"agent_id"`
	FolderID        string         `json:"folder_id,omitempty"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	ExecutionConfig map[string]any `json:"execution_config,omitempty"`
}

// FolderCreateRequest is the body of POST /api/v1/folders.
type FolderCreateRequest struct {
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
	ParentID    string `json:"parent_id,omitempty"`
}
