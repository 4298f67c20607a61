// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/schedule"
)

// Test constants
const (
	TestWorkspaceID = models.DefaultWorkspaceID
	TestAgentID1    = "agent-123"
	TestAgentID2    = "agent-456"
	TestTaskID1     = "test-task-1"
	TestFolderID1   = "test-folder-1"
)

func newTestAgent(id, name string) *models.Agent {
	return &models.Agent{
		ID:          id,
		WorkspaceID: TestWorkspaceID,
		Name:        name,
		Model:       "claude-sonnet",
		Status:      models.AgentStatusIdle,
	}
}

func newTestTask(id, agentID string, executionConfig models.JSONMap) *models.Task {
	return &models.Task{
		ID:              id,
		WorkspaceID:     TestWorkspaceID,
		AgentID:         agentID,
		Name:            "Test Task",
		Description:     "Test Description",
		ExecutionConfig: executionConfig,
	}
}

func TestNewGormDB_UnsupportedDriver(t *testing.T) {
	_, err := NewGormDB(&config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestAutoMigrate_SeedsDefaultWorkspace(t *testing.T) {
	fixture := UseFreshInMemoryDatabase(t)
	defer fixture.Cleanup()

	ctx := context.Background()
	workspace, err := fixture.DB.GetWorkspace(ctx, models.DefaultWorkspaceID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultWorkspaceID, workspace.ID)
	assert.Equal(t, "Default Workspace", workspace.Name)

	// Re-running migrations must not duplicate the seed.
	require.NoError(t, fixture.DB.AutoMigrate())
	workspaces, err := fixture.DB.GetAllWorkspaces(ctx)
	require.NoError(t, err)
	assert.Len(t, workspaces, 1)
}

func TestValidateSchema(t *testing.T) {
	fixture := UseFreshInMemoryDatabase(t)
	defer fixture.Cleanup()

	assert.NoError(t, fixture.DB.ValidateSchema())
}

func TestAgentCRUD(t *testing.T) {
	fixture := UseFreshInMemoryDatabase(t)
	defer fixture.Cleanup()
	ctx := context.Background()

	agent := newTestAgent(TestAgentID1, "research agent")
	require.NoError(t, fixture.DB.CreateAgent(ctx, agent))

	got, err := fixture.DB.GetAgent(ctx, TestAgentID1)
	require.NoError(t, err)
	assert.Equal(t, "research agent", got.Name)
	assert.Equal(t, models.AgentStatusIdle, got.Status)
	assert.False(t, got.CreatedAt.IsZero())

	require.NoError(t, fixture.DB.UpdateAgentStatus(ctx, TestAgentID1, models.AgentStatusBusy))
	got, err = fixture.DB.GetAgent(ctx, TestAgentID1)
	require.NoError(t, err)
	assert.Equal(t, models.AgentStatusBusy, got.Status)

	require.NoError(t, fixture.DB.CreateAgent(ctx, newTestAgent(TestAgentID2, "review agent")))
	agents, err := fixture.DB.GetAgentsByWorkspace(ctx, TestWorkspaceID)
	require.NoError(t, err)
	assert.Len(t, agents, 2)

	require.NoError(t, fixture.DB.DeleteAgent(ctx, TestAgentID1))
	_, err = fixture.DB.GetAgent(ctx, TestAgentID1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTaskCRUD_ExecutionConfigRoundTrip(t *testing.T) {
	fixture := UseFreshInMemoryDatabase(t)
	defer fixture.Cleanup()
	ctx := context.Background()

	require.NoError(t, fixture.DB.CreateAgent(ctx, newTestAgent(TestAgentID1, "agent")))

	task := newTestTask(TestTaskID1, TestAgentID1, models.JSONMap{
		"topic":     "daily digest",
		"max_items": float64(10),
	})
	require.NoError(t, fixture.DB.CreateTask(ctx, task))

	got, err := fixture.DB.GetTask(ctx, TestTaskID1)
	require.NoError(t, err)
	assert.Equal(t, models.JSONMap{"topic": "daily digest", "max_items": float64(10)}, got.ExecutionConfig)

	require.NoError(t, fixture.DB.UpdateTask(ctx, TestTaskID1, "renamed", "new description"))
	got, err = fixture.DB.GetTask(ctx, TestTaskID1)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, "new description", got.Description)
	// Updating metadata must not disturb the opaque execution config.
	assert.Equal(t, "daily digest", got.ExecutionConfig["topic"])

	byAgent, err := fixture.DB.GetTasksByAgent(ctx, TestAgentID1)
	require.NoError(t, err)
	assert.Len(t, byAgent, 1)

	require.NoError(t, fixture.DB.DeleteTask(ctx, TestTaskID1))
	tasks, err := fixture.DB.GetTasksByWorkspace(ctx, TestWorkspaceID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTask_NilExecutionConfigDefaultsToEmpty(t *testing.T) {
	fixture := UseFreshInMemoryDatabase(t)
	defer fixture.Cleanup()
	ctx := context.Background()

	require.NoError(t, fixture.DB.CreateTask(ctx, newTestTask(TestTaskID1, TestAgentID1, nil)))

	got, err := fixture.DB.GetTask(ctx, TestTaskID1)
	require.NoError(t, err)
	assert.NotNil(t, got.ExecutionConfig)
	assert.Empty(t, got.ExecutionConfig)
}

func TestFolderCRUD(t *testing.T) {
	fixture := UseFreshInMemoryDatabase(t)
	defer fixture.Cleanup()
	ctx := context.Background()

	folder := &models.Folder{
		ID:          TestFolderID1,
		WorkspaceID: TestWorkspaceID,
		Name:        "research",
	}
	require.NoError(t, fixture.DB.CreateFolder(ctx, folder))

	folders, err := fixture.DB.GetFoldersByWorkspace(ctx, TestWorkspaceID)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "research", folders[0].Name)

	require.NoError(t, fixture.DB.DeleteFolder(ctx, TestFolderID1))
	folders, err = fixture.DB.GetFoldersByWorkspace(ctx, TestWorkspaceID)
	require.NoError(t, err)
	assert.Empty(t, folders)
}

func TestCredentialCRUD(t *testing.T) {
	fixture := UseFreshInMemoryDatabase(t)
	defer fixture.Cleanup()
	ctx := context.Background()

	credential := &models.Credential{
		ID:          "cred-1",
		WorkspaceID: TestWorkspaceID,
		Provider:    "openai",
		Name:        "prod key",
		Values: models.StringMap{
			"api_key":         "sk-test-123",
			"organization_id": "org-9",
		},
	}
	require.NoError(t, fixture.DB.CreateCredential(ctx, credential))

	got, err := fixture.DB.GetCredential(ctx, "cred-1")
	require.NoError(t, err)
	assert.Equal(t, "openai", got.Provider)
	assert.Equal(t, models.StringMap{"api_key": "sk-test-123", "organization_id": "org-9"}, got.Values)

	found, err := fixture.DB.FindCredentialByName(ctx, TestWorkspaceID, "openai", "prod key")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "cred-1", found.ID)

	missing, err := fixture.DB.FindCredentialByName(ctx, TestWorkspaceID, "openai", "no such key")
	require.NoError(t, err)
	assert.Nil(t, missing)

	credentials, err := fixture.DB.GetCredentialsByWorkspace(ctx, TestWorkspaceID)
	require.NoError(t, err)
	assert.Len(t, credentials, 1)

	require.NoError(t, fixture.DB.DeleteCredential(ctx, "cred-1"))
	_, err = fixture.DB.GetCredential(ctx, "cred-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestScheduledTaskCRUD(t *testing.T) {
	fixture := UseFreshInMemoryDatabase(t)
	defer fixture.Cleanup()
	ctx := context.Background()

	scheduled := &models.ScheduledTask{
		ID:          "sched-1",
		WorkspaceID: TestWorkspaceID,
		AgentID:     TestAgentID1,
		Name:        "weekly report",
	}
	scheduled.SetConfig(schedule.ToConfig(schedule.Weekly, schedule.Params{
		Time:      "09:00",
		DayOfWeek: 1,
	}))
	scheduled.AutoCreateConversation = true
	scheduled.InputData = models.StringMap{"message": "write the weekly report"}
	scheduled.Enabled = true

	require.NoError(t, fixture.DB.CreateScheduledTask(ctx, scheduled))

	got, err := fixture.DB.GetScheduledTask(ctx, "sched-1")
	require.NoError(t, err)
	assert.Equal(t, "weekly", got.ScheduleType)
	assert.Equal(t, "09:00", got.Time)
	require.NotNil(t, got.DayOfWeek)
	assert.Equal(t, 1, *got.DayOfWeek)
	assert.Nil(t, got.DayOfMonth)
	assert.True(t, got.AutoCreateConversation)
	assert.Equal(t, models.StringMap{"message": "write the weekly report"}, got.InputData)

	// Config round-trips through the stored columns.
	cfg := got.Config()
	assert.Equal(t, schedule.Weekly, cfg.Type)
	assert.Equal(t, "09:00", cfg.Spec.Time)

	t.Run("edit replaces all schedule parameters", func(t *testing.T) {
		got.SetConfig(schedule.ToConfig(schedule.Daily, schedule.Params{Time: "07:30"}))
		require.NoError(t, fixture.DB.UpdateScheduledTask(ctx, got))

		updated, err := fixture.DB.GetScheduledTask(ctx, "sched-1")
		require.NoError(t, err)
		assert.Equal(t, "daily", updated.ScheduleType)
		assert.Equal(t, "07:30", updated.Time)
		assert.Nil(t, updated.DayOfWeek, "stale weekly parameter must not survive the edit")
	})

	t.Run("enable toggle leaves schedule untouched", func(t *testing.T) {
		require.NoError(t, fixture.DB.SetScheduledTaskEnabled(ctx, "sched-1", false))

		updated, err := fixture.DB.GetScheduledTask(ctx, "sched-1")
		require.NoError(t, err)
		assert.False(t, updated.Enabled)
		assert.Equal(t, "07:30", updated.Time)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, fixture.DB.DeleteScheduledTask(ctx, "sched-1"))
		_, err := fixture.DB.GetScheduledTask(ctx, "sched-1")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestScheduledTask_TimestampsSetOnCreate(t *testing.T) {
	fixture := UseFreshInMemoryDatabase(t)
	defer fixture.Cleanup()
	ctx := context.Background()

	scheduled := &models.ScheduledTask{
		ID:          "sched-ts",
		WorkspaceID: TestWorkspaceID,
		AgentID:     TestAgentID1,
		Name:        "cron job",
	}
	scheduled.SetConfig(schedule.ToConfig(schedule.Custom, schedule.Params{CronExpression: "0 * * * *"}))

	before := time.Now().Add(-time.Second)
	require.NoError(t, fixture.DB.CreateScheduledTask(ctx, scheduled))

	got, err := fixture.DB.GetScheduledTask(ctx, "sched-ts")
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.After(before))
	assert.False(t, got.LastUpdatedAt.IsZero())
	assert.NotNil(t, got.InputData)
}
