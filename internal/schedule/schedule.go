// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package schedule normalizes the four mutually exclusive recurrence types
// (daily / weekly / monthly / custom) into the canonical configuration sent
// to the scheduler backend, and renders stored configurations back into
// editable parameters. Day-of-week numbering is backend-defined: 0 = Sunday
// through 6 = Saturday. Day-of-month is 1-indexed and intentionally not
// checked against the target month's length (29-31 may skip months; backend
// behavior for those is unconfirmed).
package schedule

import (
	"fmt"
	"regexp"
	"time"

	"github.com/robfig/cron/v3"
)

// Type discriminates the schedule variant.
type Type string

const (
	Daily   Type = "daily"
	Weekly  Type = "weekly"
	Monthly Type = "monthly"
	Custom  Type = "custom"
)

// Types lists the variants in display order.
func Types() []Type {
	return []Type{Daily, Weekly, Monthly, Custom}
}

// Valid reports whether t is a known schedule type.
func (t Type) Valid() bool {
	switch t {
	case Daily, Weekly, Monthly, Custom:
		return true
	default:
		return false
	}
}

// Spec is the wire schedule_config object. Exactly the keys relevant to the
// discriminator are populated; absent keys are omitted entirely rather than
// sent as zero values.
type Spec struct {
	Time           string `json:"time,omitempty"`
	DayOfWeek      *int   `json:"day_of_week,omitempty"`
	DayOfMonth     *int   `json:"day_of_month,omitempty"`
	CronExpression string `json:"cron_expression,omitempty"`
}

// Config is the canonical, type-discriminated schedule configuration.
type Config struct {
	Type Type `json:"schedule_type"`
	Spec Spec `json:"schedule_config"`
}

// Params is the editor's draft: one knob per form control, all present at
// once regardless of the selected type. ToConfig picks the relevant subset,
// which is what prevents stale cross-type parameters (a day_of_week entered
// under a prior weekly selection) from leaking into a daily submission.
type Params struct {
	Time           string
	DayOfWeek      int
	DayOfMonth     int
	CronExpression string
}

// ToConfig selects the parameters relevant to the chosen type and discards
// the rest. Pure switch; validation is Config.Validate's job.
func ToConfig(t Type, p Params) Config {
	spec := Spec{}
	switch t {
	case Daily:
		spec.Time = p.Time
	case Weekly:
		day := p.DayOfWeek
		spec.Time = p.Time
		spec.DayOfWeek = &day
	case Monthly:
		day := p.DayOfMonth
		spec.Time = p.Time
		spec.DayOfMonth = &day
	case Custom:
		spec.CronExpression = p.CronExpression
	}
	return Config{Type: t, Spec: spec}
}

// FromConfig is the exact left inverse of ToConfig, used when opening an
// edit view on a stored schedule: FromConfig(ToConfig(t, p)) == (t, p) for
// every valid (t, p).
func FromConfig(c Config) (Type, Params) {
	p := Params{}
	switch c.Type {
	case Daily:
		p.Time = c.Spec.Time
	case Weekly:
		p.Time = c.Spec.Time
		if c.Spec.DayOfWeek != nil {
			p.DayOfWeek = *c.Spec.DayOfWeek
		}
	case Monthly:
		p.Time = c.Spec.Time
		if c.Spec.DayOfMonth != nil {
			p.DayOfMonth = *c.Spec.DayOfMonth
		}
	case Custom:
		p.CronExpression = c.Spec.CronExpression
	}
	return c.Type, p
}

// timeOfDay matches 24h HH:MM with an optional leading zero on the hour.
var timeOfDay = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// cronParser accepts the standard 5-field cron syntax plus the @every /
// @daily style descriptors robfig supports.
var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Problems checks that the discriminator and the populated parameters agree
// and returns per-parameter reasons. A weekly config without day_of_week is
// invalid and must be rejected before submission. Custom cron expressions
// are syntax-checked here; semantic execution is entirely the backend's.
func (c Config) Problems() map[string]string {
	problems := make(map[string]string)

	if !c.Type.Valid() {
		problems["schedule_type"] = fmt.Sprintf("unknown schedule type: %s", c.Type)
		return problems
	}

	needsTime := c.Type == Daily || c.Type == Weekly || c.Type == Monthly
	if needsTime {
		if c.Spec.Time == "" {
			problems["time"] = "time is required"
		} else if !timeOfDay.MatchString(c.Spec.Time) {
			problems["time"] = "time must be HH:MM"
		}
	}

	switch c.Type {
	case Weekly:
		if c.Spec.DayOfWeek == nil {
			problems["day_of_week"] = "day of week is required"
		} else if *c.Spec.DayOfWeek < 0 || *c.Spec.DayOfWeek > 6 {
			problems["day_of_week"] = "day of week must be between 0 (Sunday) and 6 (Saturday)"
		}
	case Monthly:
		if c.Spec.DayOfMonth == nil {
			problems["day_of_month"] = "day of month is required"
		} else if *c.Spec.DayOfMonth < 1 || *c.Spec.DayOfMonth > 31 {
			problems["day_of_month"] = "day of month must be between 1 and 31"
		}
		// 29-31 are accepted even though they skip shorter months; the
		// scheduler backend owns that boundary case.
	case Custom:
		if c.Spec.CronExpression == "" {
			problems["cron_expression"] = "cron expression is required"
		} else if _, err := cronParser.Parse(c.Spec.CronExpression); err != nil {
			problems["cron_expression"] = fmt.Sprintf("invalid cron expression: %v", err)
		}
	}

	return problems
}

// Validate returns an error describing the first problem found, or nil.
func (c Config) Validate() error {
	problems := c.Problems()
	if len(problems) == 0 {
		return nil
	}
	for _, reason := range problems {
		return fmt.Errorf("invalid %s schedule: %s", c.Type, reason)
	}
	return nil
}

// CronSpec renders the configuration as a standard 5-field cron line.
// Custom configurations pass through verbatim.
func (c Config) CronSpec() (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if c.Type == Custom {
		return c.Spec.CronExpression, nil
	}

	var hour, minute int
	if _, err := fmt.Sscanf(c.Spec.Time, "%d:%d", &hour, &minute); err != nil {
		return "", fmt.Errorf("failed to parse time %q: %w", c.Spec.Time, err)
	}

	switch c.Type {
	case Daily:
		return fmt.Sprintf("%d %d * * *", minute, hour), nil
	case Weekly:
		return fmt.Sprintf("%d %d * * %d", minute, hour, *c.Spec.DayOfWeek), nil
	case Monthly:
		return fmt.Sprintf("%d %d %d * *", minute, hour, *c.Spec.DayOfMonth), nil
	default:
		return "", fmt.Errorf("unknown schedule type: %s", c.Type)
	}
}

// NextRun previews the next firing after now, for display in edit dialogs.
func (c Config) NextRun(now time.Time) (time.Time, error) {
	spec, err := c.CronSpec()
	if err != nil {
		return time.Time{}, err
	}
	sched, err := cronParser.Parse(spec)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse cron spec %q: %w", spec, err)
	}
	return sched.Next(now), nil
}

// WeekdayName returns the backend-numbered weekday's display name.
func WeekdayName(day int) string {
	if day < 0 || day > 6 {
		return "Unknown"
	}
	return time.Weekday(day).String()
}
