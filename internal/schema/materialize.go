// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package schema

import (
	"sort"

	"github.com/samber/lo"
)

// Materialize builds the editable value map for an entity schema, seeding
// each field from an existing record or the empty string. Pure function;
// callers invoke it once per "schema changed" event and replace the previous
// map wholesale — never merge, or stale keys from the prior schema leak into
// submission.
func Materialize(s EntitySchema, existing map[string]string) ValueMap {
	values := make(ValueMap, len(s.Fields))
	for _, f := range s.Fields {
		values[f.Name] = existing[f.Name]
	}
	return values
}

// MaterializeFromKeys builds the editable value map for a task-declared key
// set. No type or required metadata is attached: a task declaring a key means
// the key is needed, so every key is implicitly required. The resulting key
// set equals keys exactly, regardless of what existing contains.
func MaterializeFromKeys(keys []string, existing map[string]string) ValueMap {
	values := make(ValueMap, len(keys))
	for _, k := range keys {
		values[k] = existing[k]
	}
	return values
}

// KeysOf extracts the sorted key set of a task's execution configuration.
// Only the keys drive dynamic field materialization; values are opaque and
// used solely for default seeding elsewhere.
func KeysOf(config map[string]any) []string {
	keys := lo.Keys(config)
	sort.Strings(keys)
	return keys
}

// SeedsOf extracts string-typed values from an execution configuration for
// default seeding. Non-string values seed as empty, matching the
// "malformed data on read is never fatal" rule.
func SeedsOf(config map[string]any) map[string]string {
	seeds := make(map[string]string, len(config))
	for k, v := range config {
		if s, ok := v.(string); ok {
			seeds[k] = s
		}
	}
	return seeds
}
