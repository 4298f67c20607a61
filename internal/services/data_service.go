// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/database"
	"github.com/agentdeck/agentdeck/internal/logger"
	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/schedule"
)

var (
	dataLog     *zerolog.Logger
	dataLogOnce sync.Once
)

func getDataLog() *zerolog.Logger {
	dataLogOnce.Do(func() {
		l := logger.GetDatabaseLogger().With().Str("component", "service").Logger()
		dataLog = &l
	})
	return dataLog
}

// Sentinel errors let HTTP handlers map service failures to status codes
// without inspecting error strings.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
	ErrInvalid  = errors.New("invalid input")
)

// DataService handles loading and managing dashboard resources.
type DataService struct {
	db *database.GormDB
}

// NewDataService creates a new data service
func NewDataService(cfg *config.AppConfig) (*DataService, error) {
	getDataLog().Debug().Msg("Initializing data service")

	// Initialize GORM database
	db, err := database.NewGormDB(&cfg.Database)
	if err != nil {
		getDataLog().Error().Err(err).Msg("Failed to initialize database")
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	// Validate schema to ensure models match database
	if err := db.ValidateSchema(); err != nil {
		getDataLog().Error().Err(err).Msg("Database schema validation failed")
		return nil, fmt.Errorf("database schema validation failed: %w", err)
	}

	getDataLog().Info().Msg("Data service initialized successfully")
	return &DataService{
		db: db,
	}, nil
}

// NewDataServiceWithDB wraps an already-open database. Used by tests and the
// migrate command.
func NewDataServiceWithDB(db *database.GormDB) *DataService {
	return &DataService{db: db}
}

// Close closes the database connection
func (ds *DataService) Close() error {
	return ds.db.Close()
}

func notFound(err error, kind, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return err
}

// ============================================================================
// Workspace Operations
// ============================================================================

// GetWorkspace gets a workspace by ID
func (ds *DataService) GetWorkspace(ctx context.Context, workspaceID string) (*models.Workspace, error) {
	workspace, err := ds.db.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, notFound(err, "workspace", workspaceID)
	}
	return workspace, nil
}

// ListWorkspaces loads all workspaces
func (ds *DataService) ListWorkspaces(ctx context.Context) ([]*models.Workspace, error) {
	return ds.db.GetAllWorkspaces(ctx)
}

// ============================================================================
// Agent Operations
// ============================================================================

// ListAgents loads all agents in a workspace
func (ds *DataService) ListAgents(ctx context.Context, workspaceID string) ([]*models.Agent, error) {
	return ds.db.GetAgentsByWorkspace(ctx, workspaceID)
}

// GetAgent gets an agent by ID
func (ds *DataService) GetAgent(ctx context.Context, agentID string) (*models.Agent, error) {
	agent, err := ds.db.GetAgent(ctx, agentID)
	if err != nil {
		return nil, notFound(err, "agent", agentID)
	}
	return agent, nil
}

// CreateAgent creates a new agent in the given workspace.
func (ds *DataService) CreateAgent(ctx context.Context, workspaceID, name, description, model string) (*models.Agent, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("agent name: %w", ErrInvalid)
	}
	if _, err := ds.GetWorkspace(ctx, workspaceID); err != nil {
		return nil, err
	}

	agent := &models.Agent{
		ID:          fmt.Sprintf("agent-%s", uuid.NewString()),
		WorkspaceID: workspaceID,
		Name:        name,
		Description: description,
		Model:       model,
		Status:      models.AgentStatusIdle,
	}
	if err := ds.db.CreateAgent(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

// DeleteAgent deletes an agent
func (ds *DataService) DeleteAgent(ctx context.Context, agentID string) error {
	return ds.db.DeleteAgent(ctx, agentID)
}

// ============================================================================
// Folder Operations
// ============================================================================

// ListFolders loads all folders in a workspace
func (ds *DataService) ListFolders(ctx context.Context, workspaceID string) ([]*models.Folder, error) {
	return ds.db.GetFoldersByWorkspace(ctx, workspaceID)
}

// CreateFolder creates a new folder in the given workspace.
func (ds *DataService) CreateFolder(ctx context.Context, workspaceID, name, parentID string) (*models.Folder, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("folder name: %w", ErrInvalid)
	}
	if _, err := ds.GetWorkspace(ctx, workspaceID); err != nil {
		return nil, err
	}

	folder := &models.Folder{
		ID:          fmt.Sprintf("folder-%s", uuid.NewString()),
		WorkspaceID: workspaceID,
		Name:        name,
		ParentID:    parentID,
	}
	if err := ds.db.CreateFolder(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// DeleteFolder deletes a folder
func (ds *DataService) DeleteFolder(ctx context.Context, folderID string) error {
	return ds.db.DeleteFolder(ctx, folderID)
}

// ============================================================================
// Task Operations
// ============================================================================

// ListTasks loads all tasks in a workspace
func (ds *DataService) ListTasks(ctx context.Context, workspaceID string) ([]*models.Task, error) {
	return ds.db.GetTasksByWorkspace(ctx, workspaceID)
}

// GetTask gets a task by ID. The task's execution_config key set defines the
// inputs a run of this task requires.
func (ds *DataService) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := ds.db.GetTask(ctx, taskID)
	if err != nil {
		return nil, notFound(err, "task", taskID)
	}
	return task, nil
}

// CreateTask creates a new task bound to an existing agent.
func (ds *DataService) CreateTask(ctx context.Context, workspaceID, agentID, folderID, name, description string, executionConfig models.JSONMap) (*models.Task, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("task name: %w", ErrInvalid)
	}
	if _, err := ds.GetAgent(ctx, agentID); err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:              fmt.Sprintf("task-%s", uuid.NewString()),
		WorkspaceID:     workspaceID,
		AgentID:         agentID,
		FolderID:        folderID,
		Name:            name,
		Description:     description,
		ExecutionConfig: executionConfig,
	}
	if err := ds.db.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask deletes a task
func (ds *DataService) DeleteTask(ctx context.Context, taskID string) error {
	return ds.db.DeleteTask(ctx, taskID)
}

// ============================================================================
// Credential Operations
// ============================================================================

// ListCredentials loads all credentials in a workspace
func (ds *DataService) ListCredentials(ctx context.Context, workspaceID string) ([]*models.Credential, error) {
	return ds.db.GetCredentialsByWorkspace(ctx, workspaceID)
}

// GetCredential gets a credential by ID
func (ds *DataService) GetCredential(ctx context.Context, credentialID string) (*models.Credential, error) {
	credential, err := ds.db.GetCredential(ctx, credentialID)
	if err != nil {
		return nil, notFound(err, "credential", credentialID)
	}
	return credential, nil
}

// CreateCredential stores a credential. The caller has already validated the
// value map against the provider schema; this layer enforces per-workspace
// name uniqueness.
func (ds *DataService) CreateCredential(ctx context.Context, workspaceID, provider, name string, values map[string]string) (*models.Credential, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("credential name: %w", ErrInvalid)
	}
	if _, err := ds.GetWorkspace(ctx, workspaceID); err != nil {
		return nil, err
	}

	existing, err := ds.db.FindCredentialByName(ctx, workspaceID, provider, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("credential %q for provider %s: %w", name, provider, ErrConflict)
	}

	credential := &models.Credential{
		ID:          fmt.Sprintf("cred-%s", uuid.NewString()),
		WorkspaceID: workspaceID,
		Provider:    provider,
		Name:        name,
		Values:      values,
	}
	if err := ds.db.CreateCredential(ctx, credential); err != nil {
		return nil, err
	}
	return credential, nil
}

// DeleteCredential deletes a credential
func (ds *DataService) DeleteCredential(ctx context.Context, credentialID string) error {
	if _, err := ds.GetCredential(ctx, credentialID); err != nil {
		return err
	}
	return ds.db.DeleteCredential(ctx, credentialID)
}

// ============================================================================
// ScheduledTask Operations
// ============================================================================

// ScheduledTaskParams carries everything needed to create or replace a
// scheduled task. Config must be a validated canonical schedule.
type ScheduledTaskParams struct {
	WorkspaceID            string
	AgentID                string
	TaskID                 string
	Name                   string
	Description            string
	Config                 schedule.Config
	AutoCreateConversation bool
	InputData              map[string]string
}

// ListScheduledTasks loads all scheduled tasks in a workspace
func (ds *DataService) ListScheduledTasks(ctx context.Context, workspaceID string) ([]*models.ScheduledTask, error) {
	return ds.db.GetScheduledTasksByWorkspace(ctx, workspaceID)
}

// GetScheduledTask gets a scheduled task by ID
func (ds *DataService) GetScheduledTask(ctx context.Context, scheduledID string) (*models.ScheduledTask, error) {
	scheduled, err := ds.db.GetScheduledTask(ctx, scheduledID)
	if err != nil {
		return nil, notFound(err, "scheduled task", scheduledID)
	}
	return scheduled, nil
}

// CreateScheduledTask creates a scheduled task and computes its next run.
func (ds *DataService) CreateScheduledTask(ctx context.Context, params ScheduledTaskParams) (*models.ScheduledTask, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("scheduled task name: %w", ErrInvalid)
	}
	if _, err := ds.GetAgent(ctx, params.AgentID); err != nil {
		return nil, err
	}
	if params.TaskID != "" {
		if _, err := ds.GetTask(ctx, params.TaskID); err != nil {
			return nil, err
		}
	}

	scheduled := &models.ScheduledTask{
		ID:                     fmt.Sprintf("sched-%s", uuid.NewString()),
		WorkspaceID:            params.WorkspaceID,
		AgentID:                params.AgentID,
		TaskID:                 params.TaskID,
		Name:                   params.Name,
		Description:            params.Description,
		AutoCreateConversation: params.AutoCreateConversation,
		InputData:              params.InputData,
		Enabled:                true,
	}
	scheduled.SetConfig(params.Config)
	applyNextRun(scheduled, params.Config)

	if err := ds.db.CreateScheduledTask(ctx, scheduled); err != nil {
		return nil, err
	}
	return scheduled, nil
}

// UpdateScheduledTask replaces a scheduled task's configuration. All four
// schedule parameter slots are overwritten so no stale cross-type value
// survives the edit.
func (ds *DataService) UpdateScheduledTask(ctx context.Context, scheduledID string, params ScheduledTaskParams) (*models.ScheduledTask, error) {
	scheduled, err := ds.GetScheduledTask(ctx, scheduledID)
	if err != nil {
		return nil, err
	}
	if params.TaskID != "" {
		if _, err := ds.GetTask(ctx, params.TaskID); err != nil {
			return nil, err
		}
	}

	scheduled.TaskID = params.TaskID
	scheduled.Name = params.Name
	scheduled.Description = params.Description
	scheduled.AutoCreateConversation = params.AutoCreateConversation
	scheduled.InputData = params.InputData
	scheduled.SetConfig(params.Config)
	applyNextRun(scheduled, params.Config)

	if err := ds.db.UpdateScheduledTask(ctx, scheduled); err != nil {
		return nil, err
	}
	return scheduled, nil
}

// SetScheduledTaskEnabled toggles a scheduled task on or off.
func (ds *DataService) SetScheduledTaskEnabled(ctx context.Context, scheduledID string, enabled bool) (*models.ScheduledTask, error) {
	if _, err := ds.GetScheduledTask(ctx, scheduledID); err != nil {
		return nil, err
	}
	if err := ds.db.SetScheduledTaskEnabled(ctx, scheduledID, enabled); err != nil {
		return nil, err
	}
	return ds.GetScheduledTask(ctx, scheduledID)
}

// DeleteScheduledTask deletes a scheduled task
func (ds *DataService) DeleteScheduledTask(ctx context.Context, scheduledID string) error {
	if _, err := ds.GetScheduledTask(ctx, scheduledID); err != nil {
		return err
	}
	return ds.db.DeleteScheduledTask(ctx, scheduledID)
}

func applyNextRun(scheduled *models.ScheduledTask, cfg schedule.Config) {
	next, err := cfg.NextRun(time.Now())
	if err != nil {
		getDataLog().Warn().Err(err).Str("scheduled_id", scheduled.ID).Msg("Could not compute next run time")
		scheduled.NextRunAt = nil
		return
	}
	scheduled.NextRunAt = &next
}
