// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package testutil

import (
	"time"

	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/protocol"
)

// Sample data creators for consistent testing

// SampleAgents returns a small fleet for screen and client tests.
func SampleAgents() []models.Agent {
	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	return []models.Agent{
		{
			ID:          "agent-1",
			WorkspaceID: models.DefaultWorkspaceID,
			Name:        "Support Triage",
			Description: "Routes inbound tickets",
			Model:       "gpt-4o",
			Status:      models.AgentStatusIdle,
			CreatedAt:   base,
		},
		{
			ID:          "agent-2",
			WorkspaceID: models.DefaultWorkspaceID,
			Name:        "Release Notes",
			Description: "Summarizes merged changes",
			Model:       "claude-sonnet",
			Status:      models.AgentStatusBusy,
			CreatedAt:   base.Add(time.Hour),
		},
	}
}

// SampleCredentials returns stored credentials for two providers.
func SampleCredentials() []models.Credential {
	return []models.Credential{
		{
			ID:          "cred-1",
			WorkspaceID: models.DefaultWorkspaceID,
			Provider:    "smtp",
			Name:        "Alerts mailbox",
			Values: models.StringMap{
				"host":         "smtp.example.com",
				"port":         "587",
				"username":     "alerts",
				"password":     "hunter2",
				"from_address": "alerts@example.com",
			},
		},
		{
			ID:          "cred-2",
			WorkspaceID: models.DefaultWorkspaceID,
			Provider:    "api_key",
			Name:        "Billing API",
			Values: models.StringMap{
				"api_key": "sk-test-123",
			},
		},
	}
}

// SampleTasks returns tasks with and without execution config keys.
func SampleTasks() []models.Task {
	return []models.Task{
		{
			ID:          "task-1",
			WorkspaceID: models.DefaultWorkspaceID,
			AgentID:     "agent-1",
			Name:        "Weekly digest",
			Description: "Compile the weekly activity digest",
			ExecutionConfig: models.JSONMap{
				"recipient": "team@example.com",
				"tone":      "",
			},
		},
		{
			ID:              "task-2",
			WorkspaceID:     models.DefaultWorkspaceID,
			AgentID:         "agent-2",
			Name:            "Changelog sweep",
			ExecutionConfig: models.JSONMap{},
		},
	}
}

// SampleScheduledTasks returns one schedule per recurrence family.
func SampleScheduledTasks() []models.ScheduledTask {
	dow := 1
	dom := 15
	return []models.ScheduledTask{
		{
			ID:                     "sched-1",
			WorkspaceID:            models.DefaultWorkspaceID,
			AgentID:                "agent-1",
			Name:                   "Morning standup",
			ScheduleType:           "daily",
			Time:                   "09:00",
			AutoCreateConversation: true,
			InputData:              models.StringMap{protocol.MessageKey: "Post the standup summary"},
			Enabled:                true,
		},
		{
			ID:                     "sched-2",
			WorkspaceID:            models.DefaultWorkspaceID,
			AgentID:                "agent-1",
			TaskID:                 "task-1",
			Name:                   "Monday digest",
			ScheduleType:           "weekly",
			Time:                   "08:30",
			DayOfWeek:              &dow,
			AutoCreateConversation: true,
			InputData:              models.StringMap{"recipient": "team@example.com", "tone": "brief"},
			Enabled:                true,
		},
		{
			ID:           "sched-3",
			WorkspaceID:  models.DefaultWorkspaceID,
			AgentID:      "agent-2",
			Name:         "Invoice run",
			ScheduleType: "monthly",
			Time:         "07:00",
			DayOfMonth:   &dom,
			Enabled:      false,
		},
	}
}

// AgentCreatedEvent wraps an agent in a broadcast event with an
// idempotency key.
func AgentCreatedEvent(agent models.Agent) protocol.AgentCreatedEvent {
	return protocol.AgentCreatedEvent{
		Metadata: protocol.Metadata{
			WorkspaceID:    agent.WorkspaceID,
			IdempotencyKey: "agent-created-" + agent.ID,
			Version:        protocol.CurrentProtocolVersion,
		},
		Agent: &agent,
	}
}

// CredentialCreatedEvent wraps a credential summary in a broadcast event.
func CredentialCreatedEvent(cred models.Credential) protocol.CredentialCreatedEvent {
	return protocol.CredentialCreatedEvent{
		Metadata: protocol.Metadata{
			WorkspaceID:    cred.WorkspaceID,
			IdempotencyKey: "credential-created-" + cred.ID,
			Version:        protocol.CurrentProtocolVersion,
		},
		Credential: protocol.SummarizeCredential(&cred),
	}
}

// ScheduledTaskChangedEvent wraps a scheduled task mutation in a
// broadcast event.
func ScheduledTaskChangedEvent(change protocol.ScheduledTaskChangeType, st models.ScheduledTask) protocol.ScheduledTaskEvent {
	return protocol.ScheduledTaskEvent{
		Metadata: protocol.Metadata{
			WorkspaceID:    st.WorkspaceID,
			IdempotencyKey: "scheduled-" + string(change) + "-" + st.ID,
			Version:        protocol.CurrentProtocolVersion,
		},
		Type:          change,
		ScheduledTask: &st,
		ScheduledID:   st.ID,
	}
}

// ServerErrorEvent builds an error broadcast for failure-path tests.
func ServerErrorEvent(message string) protocol.ErrorEvent {
	return protocol.ErrorEvent{
		Metadata: protocol.Metadata{Version: protocol.CurrentProtocolVersion},
		Message:  message,
	}
}
