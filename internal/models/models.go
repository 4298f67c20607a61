// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package models defines the GORM models for the dashboard's resources.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/agentdeck/agentdeck/internal/schedule"
)

// JSONMap stores an opaque JSON object in a text column. Used for a task's
// execution configuration, whose keys (not values) drive dynamic input
// materialization in the dashboard.
type JSONMap map[string]any

// Scan implements the sql.Scanner interface
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("cannot scan JSONMap from non-string/[]byte value")
	}
}

// Value implements the driver.Valuer interface
func (m JSONMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}

// StringMap stores a flat string-to-string JSON object in a text column.
type StringMap map[string]string

// Scan implements the sql.Scanner interface
func (m *StringMap) Scan(value any) error {
	if value == nil {
		*m = StringMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("cannot scan StringMap from non-string/[]byte value")
	}
}

// Value implements the driver.Valuer interface
func (m StringMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Workspace is the tenancy boundary. Every other resource belongs to
// exactly one workspace.
type Workspace struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	Name      string    `gorm:"not null;type:text" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for Workspace
func (Workspace) TableName() string {
	return "workspaces"
}

// DefaultWorkspaceID is created at migration time so a fresh install is
// usable without an onboarding flow.
const DefaultWorkspaceID = "workspace-default"

// AgentStatus represents the operational state of an agent
type AgentStatus string

const (
	AgentStatusIdle    AgentStatus = "idle"
	AgentStatusBusy    AgentStatus = "busy"
	AgentStatusOffline AgentStatus = "offline"
)

// Agent represents one operable AI agent in the fleet.
type Agent struct {
	ID            string      `gorm:"primaryKey;type:text" json:"id"`
	WorkspaceID   string      `gorm:"not null;type:text;index" json:"workspace_id"`
	Name          string      `gorm:"not null;type:text" json:"name"`
	Description   string      `gorm:"type:text" json:"description"`
	Model         string      `gorm:"type:text" json:"model"`
	Status        AgentStatus `gorm:"type:text;default:'idle'" json:"status"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
	LastUpdatedAt time.Time   `gorm:"autoUpdateTime" json:"last_updated_at"`

	// Relations
	Tasks []Task `gorm:"foreignKey:AgentID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

// TableName returns the table name for Agent
func (Agent) TableName() string {
	return "agents"
}

// Folder groups tasks for navigation.
type Folder struct {
	ID          string    `gorm:"primaryKey;type:text" json:"id"`
	WorkspaceID string    `gorm:"not null;type:text;index" json:"workspace_id"`
	Name        string    `gorm:"not null;type:text" json:"name"`
	ParentID    string    `gorm:"type:text;index" json:"parent_id,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for Folder
func (Folder) TableName() string {
	return "folders"
}

// Task represents a unit of agent work. ExecutionConfig is opaque to the
// dashboard except for its key set, which defines the required inputs a run
// must supply.
type Task struct {
	ID              string    `gorm:"primaryKey;type:text" json:"id"`
	WorkspaceID     string    `gorm:"not null;type:text;index" json:"workspace_id"`
	AgentID         string    `gorm:"not null;type:text;index" json:"agent_id"`
	FolderID        string    `gorm:"type:text;index" json:"folder_id,omitempty"`
	Name            string    `gorm:"not null;type:text" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	ExecutionConfig JSONMap   `gorm:"type:text;column:execution_config" json:"execution_config"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	LastUpdatedAt   time.Time `gorm:"autoUpdateTime" json:"last_updated_at"`
}

// TableName returns the table name for Task
func (Task) TableName() string {
	return "tasks"
}

// Credential stores one provider credential. Values is the raw field map
// keyed by the provider schema's field names; sensitivity is a schema-side
// concern applied at display time.
type Credential struct {
	ID            string    `gorm:"primaryKey;type:text" json:"id"`
	WorkspaceID   string    `gorm:"not null;type:text;index" json:"workspace_id"`
	Provider      string    `gorm:"not null;type:text;index" json:"provider"`
	Name          string    `gorm:"not null;type:text" json:"name"`
	Values        StringMap `gorm:"type:text;column:credential_values" json:"credential"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	LastUpdatedAt time.Time `gorm:"autoUpdateTime" json:"last_updated_at"`
}

// TableName returns the table name for Credential
func (Credential) TableName() string {
	return "credentials"
}

// ScheduledTask is a stored recurring run configuration. The schedule
// columns mirror the wire schedule_config object one-to-one.
type ScheduledTask struct {
	ID          string `gorm:"primaryKey;type:text" json:"id"`
	WorkspaceID string `gorm:"not null;type:text;index" json:"workspace_id"`
	AgentID     string `gorm:"not null;type:text;index" json:"agent_id"`
	TaskID      string `gorm:"type:text;index" json:"task_id,omitempty"`
	Name        string `gorm:"not null;type:text" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	ScheduleType   string `gorm:"not null;type:text" json:"schedule_type"`
	Time           string `gorm:"type:text" json:"time,omitempty"`
	DayOfWeek      *int   `gorm:"type:integer" json:"day_of_week,omitempty"`
	DayOfMonth     *int   `gorm:"type:integer" json:"day_of_month,omitempty"`
	CronExpression string `gorm:"type:text" json:"cron_expression,omitempty"`

	AutoCreateConversation bool      `gorm:"not null;default:false" json:"auto_create_conversation"`
	InputData              StringMap `gorm:"type:text;column:input_data" json:"input_data,omitempty"`

	Enabled       bool       `gorm:"not null;default:true" json:"enabled"`
	NextRunAt     *time.Time `gorm:"index" json:"next_run_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	LastUpdatedAt time.Time  `gorm:"autoUpdateTime" json:"last_updated_at"`
}

// TableName returns the table name for ScheduledTask
func (ScheduledTask) TableName() string {
	return "scheduled_tasks"
}

// Config reconstructs the canonical schedule configuration from the stored
// columns, for edit flows and next-run previews.
func (st *ScheduledTask) Config() schedule.Config {
	return schedule.Config{
		Type: schedule.Type(st.ScheduleType),
		Spec: schedule.Spec{
			Time:           st.Time,
			DayOfWeek:      st.DayOfWeek,
			DayOfMonth:     st.DayOfMonth,
			CronExpression: st.CronExpression,
		},
	}
}

// SetConfig writes a canonical schedule configuration into the stored
// columns, replacing all four parameter slots so no stale cross-type value
// survives an edit.
func (st *ScheduledTask) SetConfig(c schedule.Config) {
	st.ScheduleType = string(c.Type)
	st.Time = c.Spec.Time
	st.DayOfWeek = c.Spec.DayOfWeek
	st.DayOfMonth = c.Spec.DayOfMonth
	st.CronExpression = c.Spec.CronExpression
}

// BeforeCreate is a GORM hook that runs before creating a record
func (st *ScheduledTask) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if st.CreatedAt.IsZero() {
		st.CreatedAt = now
	}
	if st.LastUpdatedAt.IsZero() {
		st.LastUpdatedAt = now
	}
	if st.InputData == nil {
		st.InputData = StringMap{}
	}
	return nil
}

// BeforeUpdate is a GORM hook that runs before updating a record
func (st *ScheduledTask) BeforeUpdate(tx *gorm.DB) error {
	st.LastUpdatedAt = time.Now()
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a record
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ExecutionConfig == nil {
		t.ExecutionConfig = JSONMap{}
	}
	return nil
}

// BeforeCreate is a GORM hook that runs before creating a record
func (c *Credential) BeforeCreate(tx *gorm.DB) error {
	if c.Values == nil {
		c.Values = StringMap{}
	}
	return nil
}
