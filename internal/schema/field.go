// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package schema is the schema-driven configuration engine behind every
// dynamic form in the dashboard: credential provider fields, scheduled-task
// parameters and per-task input bindings. A schema describes a variable set
// of typed, possibly-required, possibly-sensitive fields; the engine
// materializes a value map for editing, validates it and hands a validated
// witness to the submission assembler. It is deliberately independent of any
// form toolkit — the TUI layers huh on top of it.
package schema

// FieldType is the tagged variant for a field's value type. New types are
// added as new constants and new switch cases, never as ad hoc string checks.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeEmail    FieldType = "email"
	TypePassword FieldType = "password"
	TypeFile     FieldType = "file"
)

// Valid reports whether ft is one of the known field types.
func (ft FieldType) Valid() bool {
	switch ft {
	case TypeText, TypeEmail, TypePassword, TypeFile:
		return true
	default:
		return false
	}
}

// FieldSchema describes one configurable value. Instances are defined once
// per entity kind in the registry and never mutated at runtime.
type FieldSchema struct {
	// Name is the wire key, unique within its schema.
	Name string `json:"name"`
	// Label is the human-readable title used in forms and error messages.
	Label string `json:"label"`
	Type  FieldType `json:"type"`
	// Required fields must carry a non-blank value at submission time.
	Required bool `json:"required"`
	// Sensitive fields render masked by default and are never echoed in logs.
	Sensitive   bool   `json:"sensitive"`
	Placeholder string `json:"placeholder,omitempty"`
	Description string `json:"description,omitempty"`
}

// ValueMap is the mutable, dialog-scoped mapping of field name to the
// current, unvalidated user-entered value. File-type fields hold the
// selected path. A ValueMap lives exactly as long as its dialog.
type ValueMap map[string]string

// Clone returns an independent copy of the map. Dialogs never share a
// ValueMap, so every hand-off across a boundary copies.
func (v ValueMap) Clone() ValueMap {
	out := make(ValueMap, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
