// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

// Events pushed to connected dashboard clients after mutations. Credential
// events deliberately carry a summary without the value map - secrets never
// ride the broadcast channel.
package protocol

import "github.com/agentdeck/agentdeck/internal/models"

// CredentialSummary is the broadcast-safe view of a credential.
type CredentialSummary struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	Provider    string `json:"provider"`
	Name        string `json:"name"`
}

// SummarizeCredential strips the value map for broadcasting.
func SummarizeCredential(c *models.Credential) CredentialSummary {
	return CredentialSummary{
		ID:          c.ID,
		WorkspaceID: c.WorkspaceID,
		Provider:    c.Provider,
		Name:        c.Name,
	}
}

// CredentialCreatedEvent is sent when a credential has been stored.
type CredentialCreatedEvent struct {
	Metadata
	Credential CredentialSummary `json:"credential"`
}

func (e CredentialCreatedEvent) GetMetadata() Metadata {
	return e.Metadata
}

// CredentialDeletedEvent is sent when a credential has been removed.
type CredentialDeletedEvent struct {
	Metadata
	CredentialID string `json:"credential_id"`
}

func (e CredentialDeletedEvent) GetMetadata() Metadata {
	return e.Metadata
}

// ScheduledTaskChangeType discriminates scheduled-task lifecycle events.
type ScheduledTaskChangeType string

const (
	ScheduledTaskCreated ScheduledTaskChangeType = "created"
	ScheduledTaskUpdated ScheduledTaskChangeType = "updated"
	ScheduledTaskDeleted ScheduledTaskChangeType = "deleted"
)

// ScheduledTaskEvent is sent on any scheduled-task mutation.
type ScheduledTaskEvent struct {
	Metadata
	Type          ScheduledTaskChangeType `json:"type"`
	ScheduledTask *models.ScheduledTask   `json:"scheduled_task,omitempty"`
	ScheduledID   string                  `json:"scheduled_id"`
}

func (e ScheduledTaskEvent) GetMetadata() Metadata {
	return e.Metadata
}

// AgentCreatedEvent is sent when an agent joins the fleet.
type AgentCreatedEvent struct {
	Metadata
	Agent *models.Agent `json:"agent"`
}

func (e AgentCreatedEvent) GetMetadata() Metadata {
	return e.Metadata
}

// TaskCreatedEvent is sent when a task has been created.
type TaskCreatedEvent struct {
	Metadata
	Task *models.Task `json:"task"`
}

func (e TaskCreatedEvent) GetMetadata() Metadata {
	return e.Metadata
}

// TaskDeletedEvent is sent when a task has been removed.
type TaskDeletedEvent struct {
	Metadata
	TaskID string `json:"task_id"`
}

func (e TaskDeletedEvent) GetMetadata() Metadata {
	return e.Metadata
}

// FolderChangedEvent is sent on folder create/delete.
type FolderChangedEvent struct {
	Metadata
	FolderID string `json:"folder_id"`
	Deleted  bool   `json:"deleted"`
}

func (e FolderChangedEvent) GetMetadata() Metadata {
	return e.Metadata
}

// ErrorEvent reports a server-side failure scoped to one resource.
type ErrorEvent struct {
	Metadata
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

func (e ErrorEvent) GetMetadata() Metadata {
	return e.Metadata
}

// GetWorkspaceID methods let the WebSocket filter match events without an
// exhaustive type switch.

func (e CredentialCreatedEvent) GetWorkspaceID() string { return e.Credential.WorkspaceID }
func (e ScheduledTaskEvent) GetWorkspaceID() string     { return e.Metadata.WorkspaceID }
func (e AgentCreatedEvent) GetWorkspaceID() string      { return e.Metadata.WorkspaceID }
func (e TaskCreatedEvent) GetWorkspaceID() string       { return e.Metadata.WorkspaceID }
