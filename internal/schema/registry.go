// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package schema

import (
	"fmt"

	"github.com/samber/lo"
)

// EntitySchema is the static catalog entry for one credential provider kind.
// Field order is significant: it is the canonical display and serialization
// order and every consumer must preserve it.
type EntitySchema struct {
	Kind        string        `json:"kind"`
	DisplayName string        `json:"display_name"`
	Fields      []FieldSchema `json:"fields"`
}

// Field returns the field schema with the given name, if present.
func (s EntitySchema) Field(name string) (FieldSchema, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSchema{}, false
}

// FieldNames returns the field names in canonical order.
func (s EntitySchema) FieldNames() []string {
	return lo.Map(s.Fields, func(f FieldSchema, _ int) string { return f.Name })
}

// NotFoundError is returned by Lookup for an unknown provider kind.
type NotFoundError struct {
	Kind string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("unknown credential provider: %s", e.Kind)
}

// providers is the insertion-ordered catalog of credential provider schemas.
// It is assembled at process start and read-only thereafter; there is no
// mutation API on purpose.
var providers = []EntitySchema{
	{
		Kind:        "openai",
		DisplayName: "OpenAI",
		Fields: []FieldSchema{
			{Name: "api_key", Label: "API Key", Type: TypePassword, Required: true, Sensitive: true, Placeholder: "sk-..."},
			{Name: "organization_id", Label: "Organization ID", Type: TypeText, Required: false, Placeholder: "org-..."},
		},
	},
	{
		Kind:        "anthropic",
		DisplayName: "Anthropic",
		Fields: []FieldSchema{
			{Name: "api_key", Label: "API Key", Type: TypePassword, Required: true, Sensitive: true, Placeholder: "sk-ant-..."},
		},
	},
	{
		Kind:        "github",
		DisplayName: "GitHub",
		Fields: []FieldSchema{
			{Name: "token", Label: "Personal Access Token", Type: TypePassword, Required: true, Sensitive: true, Placeholder: "ghp_..."},
			{Name: "host", Label: "Host", Type: TypeText, Required: false, Placeholder: "github.com", Description: "Set for GitHub Enterprise installations"},
		},
	},
	{
		Kind:        "slack",
		DisplayName: "Slack",
		Fields: []FieldSchema{
			{Name: "bot_token", Label: "Bot Token", Type: TypePassword, Required: true, Sensitive: true, Placeholder: "xoxb-..."},
			{Name: "signing_secret", Label: "Signing Secret", Type: TypePassword, Required: false, Sensitive: true},
		},
	},
	{
		Kind:        "aws",
		DisplayName: "Amazon Web Services",
		Fields: []FieldSchema{
			{Name: "access_key_id", Label: "Access Key ID", Type: TypeText, Required: true},
			{Name: "secret_access_key", Label: "Secret Access Key", Type: TypePassword, Required: true, Sensitive: true},
			{Name: "region", Label: "Region", Type: TypeText, Required: false, Placeholder: "us-east-1"},
		},
	},
	{
		Kind:        "smtp",
		DisplayName: "SMTP",
		Fields: []FieldSchema{
			{Name: "host", Label: "Host", Type: TypeText, Required: true, Placeholder: "smtp.example.com"},
			{Name: "port", Label: "Port", Type: TypeText, Required: true, Placeholder: "587"},
			{Name: "username", Label: "Username", Type: TypeText, Required: true},
			{Name: "password", Label: "Password", Type: TypePassword, Required: true, Sensitive: true},
			{Name: "from_address", Label: "From Address", Type: TypeEmail, Required: true, Placeholder: "agent@example.com"},
		},
	},
	{
		Kind:        "gcp",
		DisplayName: "Google Cloud",
		Fields: []FieldSchema{
			{Name: "service_account", Label: "Service Account Key", Type: TypeFile, Required: true, Sensitive: true, Description: "JSON key file for the service account"},
			{Name: "project_id", Label: "Project ID", Type: TypeText, Required: false},
		},
	},
}

// providerIndex gives O(1) lookup while providers keeps catalog order.
var providerIndex = lo.SliceToMap(providers, func(s EntitySchema) (string, EntitySchema) {
	return s.Kind, s
})

// Lookup returns the schema for a provider kind.
func Lookup(kind string) (EntitySchema, error) {
	s, ok := providerIndex[kind]
	if !ok {
		return EntitySchema{}, NotFoundError{Kind: kind}
	}
	return s, nil
}

// Providers returns the full catalog in canonical order. The returned slice
// is shared; callers must not modify it.
func Providers() []EntitySchema {
	return providers
}
