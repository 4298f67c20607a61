// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// emailShape is the conservative local@domain.tld check: exactly one @, at
// least one dot after it, no embedded whitespace. Full RFC 5322 parsing is
// the backend's problem, not a form's.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Result is the outcome of a validation pass. A passing Result carries a
// snapshot of the validated values; the submission assembler only accepts
// that witness, which keeps validation and serialization independently
// testable without the assembler re-validating.
type Result struct {
	errs   map[string]string
	values ValueMap
}

// OK reports whether validation passed.
func (r Result) OK() bool {
	return len(r.errs) == 0 && r.values != nil
}

// Errors returns the per-field error reasons, keyed by field name. Empty
// when validation passed.
func (r Result) Errors() map[string]string {
	return r.errs
}

// FieldError returns the reason recorded for one field, or "".
func (r Result) FieldError(name string) string {
	return r.errs[name]
}

// Validated returns the validated value snapshot. It fails on a Result that
// did not pass or was never produced by a validator (the zero Result).
func (r Result) Validated() (ValueMap, error) {
	if !r.OK() {
		return nil, errors.New("values have not passed validation")
	}
	return r.values, nil
}

func pass(values ValueMap) Result {
	return Result{values: values.Clone()}
}

func fail(errs map[string]string) Result {
	return Result{errs: errs}
}

// Validate walks a field list against a value map. Required fields must hold
// a non-blank value; present email values must match the email shape; file
// fields are checked for presence only. Fields not listed in the schema are
// ignored here — handlers reject extra keys separately via ExtraKeys.
func Validate(fields []FieldSchema, values ValueMap) Result {
	errs := make(map[string]string)
	for _, f := range fields {
		value := strings.TrimSpace(values[f.Name])
		if f.Required && value == "" {
			errs[f.Name] = fmt.Sprintf("%s is required", f.Label)
			continue
		}
		if value == "" {
			continue
		}
		switch f.Type {
		case TypeEmail:
			if !emailShape.MatchString(value) {
				errs[f.Name] = "invalid email"
			}
		case TypeText, TypePassword, TypeFile:
			// No value-shape rule beyond required-ness.
		}
	}
	if len(errs) > 0 {
		return fail(errs)
	}
	return pass(values)
}

// ValidateKeys applies the uniform rule for task-declared dynamic inputs:
// every key must hold a non-blank value or submission is blocked. No
// type-specific checks exist because the key set carries no type metadata.
func ValidateKeys(keys []string, values ValueMap) Result {
	errs := make(map[string]string)
	for _, k := range keys {
		if strings.TrimSpace(values[k]) == "" {
			errs[k] = fmt.Sprintf("%s is required", k)
		}
	}
	if len(errs) > 0 {
		return fail(errs)
	}
	// Only the declared keys pass into the witness, so a stale or oversized
	// value map can never smuggle extra keys to the wire.
	return pass(MaterializeFromKeys(keys, values))
}

// RequireLabel validates a standalone required text value, such as the
// entity display name that lives outside the per-provider field list.
// Returns the error reason or "".
func RequireLabel(label, value string) string {
	if strings.TrimSpace(value) == "" {
		return fmt.Sprintf("%s is required", label)
	}
	return ""
}

// ExtraKeys returns the keys in values that the schema does not declare.
// Sending undeclared keys is a wire-contract violation, not ignorable noise.
func ExtraKeys(fields []FieldSchema, values ValueMap) []string {
	declared := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		declared[f.Name] = struct{}{}
	}
	var extra []string
	for k := range values {
		if _, ok := declared[k]; !ok {
			extra = append(extra, k)
		}
	}
	return extra
}
