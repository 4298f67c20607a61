// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"github.com/rs/zerolog"
)

// Static logger getters that map directly to config.yaml log.levels
// These ensure consistent logger names across the codebase

// GetAPILogger returns a logger for API server operations
func GetAPILogger() zerolog.Logger {
	return GetLogger("api")
}

// GetDatabaseLogger returns a logger for database operations
func GetDatabaseLogger() zerolog.Logger {
	return GetLogger("database")
}

// GetSchemaLogger returns a logger for schema and validation operations
func GetSchemaLogger() zerolog.Logger {
	return GetLogger("schema")
}

// GetTUILogger returns a logger for TUI components
func GetTUILogger() zerolog.Logger {
	return GetLogger("tui")
}

// GetClientLogger returns a logger for the dashboard API client
func GetClientLogger() zerolog.Logger {
	return GetLogger("client")
}
