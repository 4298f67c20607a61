// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package database

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/models"
)

// GormDB wraps the GORM database connection
type GormDB struct {
	db *gorm.DB
}

// NewGormDB creates a new GORM database connection
func NewGormDB(cfg *config.DatabaseConfig) (*GormDB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.GetDSN())
	case "postgres":
		dialector = postgres.Open(cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Reduce GORM log noise
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &GormDB{db: db}, nil
}

// AutoMigrate runs database migrations and seeds the default workspace.
func (db *GormDB) AutoMigrate() error {
	if err := db.db.AutoMigrate(
		&models.Workspace{},
		&models.Agent{},
		&models.Folder{},
		&models.Task{},
		&models.Credential{},
		&models.ScheduledTask{},
	); err != nil {
		return err
	}

	// A fresh install must be usable without an onboarding flow.
	defaultWorkspace := models.Workspace{
		ID:   models.DefaultWorkspaceID,
		Name: "Default Workspace",
	}
	if err := db.db.Where("id = ?", models.DefaultWorkspaceID).
		FirstOrCreate(&defaultWorkspace).Error; err != nil {
		return fmt.Errorf("failed to seed default workspace: %w", err)
	}

	return nil
}

// ValidateSchema checks if GORM models match the database schema
func (db *GormDB) ValidateSchema() error {
	var missingTables []string
	var missingColumns []string

	tables := []struct {
		model any
		name  string
	}{
		{&models.Workspace{}, "workspaces"},
		{&models.Agent{}, "agents"},
		{&models.Folder{}, "folders"},
		{&models.Task{}, "tasks"},
		{&models.Credential{}, "credentials"},
		{&models.ScheduledTask{}, "scheduled_tasks"},
	}
	for _, t := range tables {
		if !db.db.Migrator().HasTable(t.model) {
			missingTables = append(missingTables, t.name)
		}
	}

	if len(missingTables) > 0 {
		return fmt.Errorf("missing tables: %v\n\n💡 Run 'make migrate' to create the required tables", missingTables)
	}

	// Check for required columns in credentials table
	credentialColumns := []string{"id", "workspace_id", "provider", "name", "credential_values", "created_at"}
	for _, col := range credentialColumns {
		if !db.db.Migrator().HasColumn(&models.Credential{}, col) {
			missingColumns = append(missingColumns, fmt.Sprintf("credentials.%s", col))
		}
	}

	// Check for required columns in scheduled_tasks table. The schedule
	// columns mirror the wire schedule_config object one-to-one.
	scheduledTaskColumns := []string{
		"id", "workspace_id", "agent_id", "task_id", "name",
		"schedule_type", "time", "day_of_week", "day_of_month", "cron_expression",
		"auto_create_conversation", "input_data", "enabled", "next_run_at",
	}
	for _, col := range scheduledTaskColumns {
		if !db.db.Migrator().HasColumn(&models.ScheduledTask{}, col) {
			missingColumns = append(missingColumns, fmt.Sprintf("scheduled_tasks.%s", col))
		}
	}

	// Check for required columns in tasks table
	taskColumns := []string{"id", "workspace_id", "agent_id", "folder_id", "name", "execution_config", "created_at"}
	for _, col := range taskColumns {
		if !db.db.Migrator().HasColumn(&models.Task{}, col) {
			missingColumns = append(missingColumns, fmt.Sprintf("tasks.%s", col))
		}
	}

	if len(missingColumns) > 0 {
		return fmt.Errorf("missing columns: %v\n\n💡 Run 'make migrate' to add the required columns", missingColumns)
	}

	return nil
}

// Close closes the database connection
func (db *GormDB) Close() error {
	sqlDB, err := db.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ============================================================================
// Workspace Operations
// ============================================================================

// GetWorkspace retrieves a single workspace by ID
func (db *GormDB) GetWorkspace(ctx context.Context, workspaceID string) (*models.Workspace, error) {
	var workspace models.Workspace
	err := db.db.WithContext(ctx).First(&workspace, "id = ?", workspaceID).Error
	if err != nil {
		return nil, err
	}
	return &workspace, nil
}

// GetAllWorkspaces retrieves all workspaces
func (db *GormDB) GetAllWorkspaces(ctx context.Context) ([]*models.Workspace, error) {
	var workspaces []*models.Workspace
	err := db.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&workspaces).Error
	if err != nil {
		return nil, err
	}
	return workspaces, nil
}

// CreateWorkspace creates a new workspace
func (db *GormDB) CreateWorkspace(ctx context.Context, workspace *models.Workspace) error {
	return db.db.WithContext(ctx).Create(workspace).Error
}

// ============================================================================
// Agent Operations
// ============================================================================

// GetAgentsByWorkspace retrieves all agents in a workspace
func (db *GormDB) GetAgentsByWorkspace(ctx context.Context, workspaceID string) ([]*models.Agent, error) {
	var agents []*models.Agent
	err := db.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("last_updated_at DESC").
		Find(&agents).Error
	if err != nil {
		return nil, err
	}
	return agents, nil
}

// GetAgent retrieves a single agent by ID
func (db *GormDB) GetAgent(ctx context.Context, agentID string) (*models.Agent, error) {
	var agent models.Agent
	err := db.db.WithContext(ctx).First(&agent, "id = ?", agentID).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// CreateAgent creates a new agent
func (db *GormDB) CreateAgent(ctx context.Context, agent *models.Agent) error {
	return db.db.WithContext(ctx).Create(agent).Error
}

// UpdateAgentStatus updates an agent's status
func (db *GormDB) UpdateAgentStatus(ctx context.Context, agentID string, status models.AgentStatus) error {
	return db.db.WithContext(ctx).Model(&models.Agent{}).
		Where("id = ?", agentID).
		Update("status", status).Error
}

// DeleteAgent deletes an agent
func (db *GormDB) DeleteAgent(ctx context.Context, agentID string) error {
	return db.db.WithContext(ctx).Delete(&models.Agent{}, "id = ?", agentID).Error
}

// ============================================================================
// Folder Operations
// ============================================================================

// GetFoldersByWorkspace retrieves all folders in a workspace
func (db *GormDB) GetFoldersByWorkspace(ctx context.Context, workspaceID string) ([]*models.Folder, error) {
	var folders []*models.Folder
	err := db.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("name ASC").
		Find(&folders).Error
	if err != nil {
		return nil, err
	}
	return folders, nil
}

// CreateFolder creates a new folder
func (db *GormDB) CreateFolder(ctx context.Context, folder *models.Folder) error {
	return db.db.WithContext(ctx).Create(folder).Error
}

// DeleteFolder deletes a folder. Tasks keep their folder_id; orphaned
// references render under the workspace root.
func (db *GormDB) DeleteFolder(ctx context.Context, folderID string) error {
	return db.db.WithContext(ctx).Delete(&models.Folder{}, "id = ?", folderID).Error
}

// ============================================================================
// Task Operations
// ============================================================================

// GetTasksByWorkspace retrieves all tasks in a workspace
func (db *GormDB) GetTasksByWorkspace(ctx context.Context, workspaceID string) ([]*models.Task, error) {
	var tasks []*models.Task
	err := db.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("last_updated_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTasksByAgent retrieves all tasks assigned to a specific agent
func (db *GormDB) GetTasksByAgent(ctx context.Context, agentID string) ([]*models.Task, error) {
	var tasks []*models.Task
	err := db.db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Order("last_updated_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask retrieves a single task by ID
func (db *GormDB) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	var task models.Task
	err := db.db.WithContext(ctx).First(&task, "id = ?", taskID).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a new task
func (db *GormDB) CreateTask(ctx context.Context, task *models.Task) error {
	return db.db.WithContext(ctx).Create(task).Error
}

// UpdateTask updates task details
func (db *GormDB) UpdateTask(ctx context.Context, taskID, name, description string) error {
	return db.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ?", taskID).
		Updates(map[string]any{
			"name":        name,
			"description": description,
		}).Error
}

// DeleteTask deletes a task
func (db *GormDB) DeleteTask(ctx context.Context, taskID string) error {
	return db.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", taskID).Error
}

// ============================================================================
// Credential Operations
// ============================================================================

// GetCredentialsByWorkspace retrieves all credentials in a workspace
func (db *GormDB) GetCredentialsByWorkspace(ctx context.Context, workspaceID string) ([]*models.Credential, error) {
	var credentials []*models.Credential
	err := db.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("provider ASC, name ASC").
		Find(&credentials).Error
	if err != nil {
		return nil, err
	}
	return credentials, nil
}

// GetCredential retrieves a single credential by ID
func (db *GormDB) GetCredential(ctx context.Context, credentialID string) (*models.Credential, error) {
	var credential models.Credential
	err := db.db.WithContext(ctx).First(&credential, "id = ?", credentialID).Error
	if err != nil {
		return nil, err
	}
	return &credential, nil
}

// FindCredentialByName finds a credential by workspace, provider and name.
// Returns nil, nil when not found for idempotency checks.
func (db *GormDB) FindCredentialByName(ctx context.Context, workspaceID, provider, name string) (*models.Credential, error) {
	var credential models.Credential
	err := db.db.WithContext(ctx).
		Where("workspace_id = ? AND provider = ? AND name = ?", workspaceID, provider, name).
		First(&credential).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &credential, nil
}

// CreateCredential creates a new credential
func (db *GormDB) CreateCredential(ctx context.Context, credential *models.Credential) error {
	return db.db.WithContext(ctx).Create(credential).Error
}

// DeleteCredential deletes a credential
func (db *GormDB) DeleteCredential(ctx context.Context, credentialID string) error {
	return db.db.WithContext(ctx).Delete(&models.Credential{}, "id = ?", credentialID).Error
}

// ============================================================================
// ScheduledTask Operations
// ============================================================================

// GetScheduledTasksByWorkspace retrieves all scheduled tasks in a workspace
func (db *GormDB) GetScheduledTasksByWorkspace(ctx context.Context, workspaceID string) ([]*models.ScheduledTask, error) {
	var scheduled []*models.ScheduledTask
	err := db.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("last_updated_at DESC").
		Find(&scheduled).Error
	if err != nil {
		return nil, err
	}
	return scheduled, nil
}

// GetScheduledTask retrieves a single scheduled task by ID
func (db *GormDB) GetScheduledTask(ctx context.Context, scheduledID string) (*models.ScheduledTask, error) {
	var scheduled models.ScheduledTask
	err := db.db.WithContext(ctx).First(&scheduled, "id = ?", scheduledID).Error
	if err != nil {
		return nil, err
	}
	return &scheduled, nil
}

// CreateScheduledTask creates a new scheduled task
func (db *GormDB) CreateScheduledTask(ctx context.Context, scheduled *models.ScheduledTask) error {
	return db.db.WithContext(ctx).Create(scheduled).Error
}

// UpdateScheduledTask replaces a scheduled task's mutable fields. Save writes
// all columns so a cleared schedule parameter does not survive an edit.
func (db *GormDB) UpdateScheduledTask(ctx context.Context, scheduled *models.ScheduledTask) error {
	return db.db.WithContext(ctx).Save(scheduled).Error
}

// SetScheduledTaskEnabled toggles a scheduled task without touching its
// schedule configuration.
func (db *GormDB) SetScheduledTaskEnabled(ctx context.Context, scheduledID string, enabled bool) error {
	return db.db.WithContext(ctx).Model(&models.ScheduledTask{}).
		Where("id = ?", scheduledID).
		Update("enabled", enabled).Error
}

// DeleteScheduledTask deletes a scheduled task
func (db *GormDB) DeleteScheduledTask(ctx context.Context, scheduledID string) error {
	return db.db.WithContext(ctx).Delete(&models.ScheduledTask{}, "id = ?", scheduledID).Error
}
