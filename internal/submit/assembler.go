// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package submit composes validated dialog state into wire payloads. It
// performs no validation of its own: value maps are only accepted as the
// witness a passing schema.Result carries, and handing it anything else is
// an error. That split keeps validation and serialization independently
// testable.
package submit

import (
	"errors"
	"fmt"

	"github.com/agentdeck/agentdeck/internal/protocol"
	"github.com/agentdeck/agentdeck/internal/schedule"
	"github.com/agentdeck/agentdeck/internal/schema"
)

// Credential builds the credential create payload. Only keys declared by
// the schema are serialized, in case the witness ever carries more, and the
// provider kind comes from the schema so the two cannot disagree.
func Credential(s schema.EntitySchema, name string, res schema.Result) (protocol.CredentialCreateRequest, error) {
	values, err := res.Validated()
	if err != nil {
		return protocol.CredentialCreateRequest{}, fmt.Errorf("credential payload: %w", err)
	}

	credential := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		if v, ok := values[f.Name]; ok {
			credential[f.Name] = v
		}
	}

	return protocol.CredentialCreateRequest{
		Provider:   s.Kind,
		Name:       name,
		Credential: credential,
	}, nil
}

// ConversationSource is exactly one of: a task reference with validated
// dynamic inputs, or a free-form message. Constructed via TaskInputs or
// Message only.
type ConversationSource struct {
	taskID  string
	inputs  schema.Result
	message string
}

// TaskInputs selects a task-driven conversation seeded by the task's
// validated dynamic inputs.
func TaskInputs(taskID string, res schema.Result) ConversationSource {
	return ConversationSource{taskID: taskID, inputs: res}
}

// Message selects a free-form conversation message with no task reference.
func Message(msg string) ConversationSource {
	return ConversationSource{message: msg}
}

// ScheduledTaskDraft is the non-conversation half of a scheduled-task
// submission. Config must already have passed schedule validation; the
// server re-checks it regardless.
type ScheduledTaskDraft struct {
	AgentID                string
	WorkspaceID            string
	Name                   string
	Description            string
	Config                 schedule.Config
	AutoCreateConversation bool
}

// ScheduledTask builds the scheduled-task create payload. Exactly one
// conversation source must be present: a task id with validated inputs, or
// a non-empty message - never both, never neither.
func ScheduledTask(d ScheduledTaskDraft, source ConversationSource) (protocol.ScheduledTaskCreateRequest, error) {
	if source.taskID != "" && source.message != "" {
		return protocol.ScheduledTaskCreateRequest{}, errors.New("scheduled task payload: task inputs and free-form message are mutually exclusive")
	}

	req := protocol.ScheduledTaskCreateRequest{
		AgentID:                d.AgentID,
		WorkspaceID:            d.WorkspaceID,
		Name:                   d.Name,
		Description:            d.Description,
		ScheduleType:           d.Config.Type,
		ScheduleConfig:         d.Config.Spec,
		AutoCreateConversation: d.AutoCreateConversation,
	}

	switch {
	case source.taskID != "":
		inputs, err := source.inputs.Validated()
		if err != nil {
			return protocol.ScheduledTaskCreateRequest{}, fmt.Errorf("scheduled task payload: %w", err)
		}
		req.TaskID = source.taskID
		req.ConversationTemplate = &protocol.ConversationTemplate{InputData: inputs}
	case source.message != "":
		req.ConversationTemplate = &protocol.ConversationTemplate{
			InputData: map[string]string{protocol.MessageKey: source.message},
		}
	default:
		return protocol.ScheduledTaskCreateRequest{}, errors.New("scheduled task payload: either a task with inputs or a message is required")
	}

	return req, nil
}
