// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package common provides shared types used across multiple packages.
package common

// Metadata contains common fields for all events pushed to dashboard
// clients.
type Metadata struct {
	// WorkspaceID scopes the event to one tenant. Clients only receive
	// events for workspaces they subscribed to.
	WorkspaceID string `json:"workspace_id,omitempty"`

	// IdempotencyKey is used for event deduplication on reconnecting
	// clients. Optional - events without this key are always processed.
	IdempotencyKey string `json:"idempotency_key,omitempty"`

	// Version indicates the protocol version for backward compatibility.
	// Format: "v{major}.{minor}.{patch}" (e.g., "v1.0.0")
	Version string `json:"version"`
}

// CurrentProtocolVersion defines the current version of the protocol.
// This should be updated when making breaking changes to the protocol.
const CurrentProtocolVersion = "v1.0.0"

// Event represents events that can be pushed from the server to dashboard
// clients. Any type implementing this interface can be broadcast.
type Event interface {
	GetMetadata() Metadata
}
