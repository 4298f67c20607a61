// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/schedule"
)

type schedulesOptions struct {
	configPath  string
	workspaceID string
}

// schedulesCommand dispatches schedule subcommands
func schedulesCommand(args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "toggle":
			return schedulesToggleCommand(args[1:])
		case "help", "-h", "--help":
			return schedulesUsage()
		}
	}

	opts := &schedulesOptions{}
	fs := flag.NewFlagSet("schedules", flag.ExitOnError)
	fs.StringVar(&opts.configPath, "config", "config.yaml", "Path to config file")
	fs.StringVar(&opts.workspaceID, "workspace", models.DefaultWorkspaceID, "Workspace to list")

	if err := fs.Parse(args); err != nil {
		return err
	}

	return listSchedules(opts)
}

func schedulesUsage() error {
	fmt.Printf(`Usage: %s schedules [subcommand] [arguments]

Subcommands:
  (none)                      List scheduled tasks
  toggle <id> --enable        Enable a scheduled task
  toggle <id> --disable       Disable a scheduled task
  help                        Show this help message

Examples:
  %s schedules
  %s schedules toggle sched-abc123 --disable

`, appName, appName, appName)
	return nil
}

func listSchedules(opts *schedulesOptions) error {
	client, ctx, cancel, err := newAPIClient(opts.configPath)
	if err != nil {
		return err
	}
	defer cancel()

	scheduled, err := client.ListScheduledTasks(ctx, opts.workspaceID)
	if err != nil {
		return fmt.Errorf("failed to list scheduled tasks: %w", err)
	}

	if len(scheduled) == 0 {
		fmt.Println("No scheduled tasks found.")
		return nil
	}

	fmt.Println()
	fmt.Printf("%-24s  %-40s  %-8s  %s\n", "NAME", "ID", "ENABLED", "SCHEDULE")
	fmt.Println("────────────────────────  ────────────────────────────────────────  ────────  ────────────────────────────")
	for _, st := range scheduled {
		enabled := "yes"
		if !st.Enabled {
			enabled = "no"
		}
		fmt.Printf("%-24s  %-40s  %-8s  %s\n", truncate(st.Name, 24), truncate(st.ID, 40), enabled, describeSchedule(&st))
	}
	fmt.Println()

	return nil
}

// describeSchedule renders the recurrence in one line.
func describeSchedule(st *models.ScheduledTask) string {
	switch schedule.Type(st.ScheduleType) {
	case schedule.Daily:
		return fmt.Sprintf("daily at %s", st.Time)
	case schedule.Weekly:
		day := 0
		if st.DayOfWeek != nil {
			day = *st.DayOfWeek
		}
		return fmt.Sprintf("weekly on %s at %s", schedule.WeekdayName(day), st.Time)
	case schedule.Monthly:
		day := 0
		if st.DayOfMonth != nil {
			day = *st.DayOfMonth
		}
		return fmt.Sprintf("monthly on day %d at %s", day, st.Time)
	case schedule.Custom:
		return fmt.Sprintf("cron %s", st.CronExpression)
	default:
		return st.ScheduleType
	}
}

func schedulesToggleCommand(args []string) error {
	var configPath string
	var enable, disable bool

	fs := flag.NewFlagSet("schedules toggle", flag.ExitOnError)
	fs.StringVar(&configPath, "config", "config.yaml", "Path to config file")
	fs.BoolVar(&enable, "enable", false, "Enable the scheduled task")
	fs.BoolVar(&disable, "disable", false, "Disable the scheduled task")

	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		fmt.Fprintln(os.Stderr, "Missing scheduled task id")
		return schedulesUsage()
	}
	scheduledID := remaining[0]

	// flag.Parse stops at the first positional argument, so flags given
	// after the id need a second pass.
	if err := fs.Parse(remaining[1:]); err != nil {
		return err
	}
	if enable == disable {
		fmt.Fprintln(os.Stderr, "Pass exactly one of --enable or --disable")
		return schedulesUsage()
	}

	client, ctx, cancel, err := newAPIClient(configPath)
	if err != nil {
		return err
	}
	defer cancel()

	scheduled, err := client.ToggleScheduledTask(ctx, scheduledID, enable)
	if err != nil {
		return fmt.Errorf("failed to toggle scheduled task: %w", err)
	}

	state := "disabled"
	if scheduled.Enabled {
		state = "enabled"
	}
	fmt.Printf("Scheduled task %s is now %s\n", scheduled.Name, state)
	return nil
}
