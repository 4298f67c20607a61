// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"flag"
	"fmt"
	"strings"

	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/schema"
)

type tasksOptions struct {
	configPath  string
	workspaceID string
}

func tasksCommand(args []string) error {
	opts := &tasksOptions{}
	fs := flag.NewFlagSet("tasks", flag.ExitOnError)
	fs.StringVar(&opts.configPath, "config", "config.yaml", "Path to config file")
	fs.StringVar(&opts.workspaceID, "workspace", models.DefaultWorkspaceID, "Workspace to list")

	if err := fs.Parse(args); err != nil {
		return err
	}

	return listTasks(opts)
}

func listTasks(opts *tasksOptions) error {
	client, ctx, cancel, err := newAPIClient(opts.configPath)
	if err != nil {
		return err
	}
	defer cancel()

	tasks, err := client.ListTasks(ctx, opts.workspaceID)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	fmt.Println()
	fmt.Printf("%-24s  %-40s  %-24s  %s\n", "NAME", "ID", "AGENT", "INPUTS")
	fmt.Println("────────────────────────  ────────────────────────────────────────  ────────────────────────  ──────────────")
	for _, t := range tasks {
		inputs := strings.Join(schema.KeysOf(t.ExecutionConfig), ", ")
		if inputs == "" {
			inputs = "-"
		}
		fmt.Printf("%-24s  %-40s  %-24s  %s\n", truncate(t.Name, 24), truncate(t.ID, 40), truncate(t.AgentID, 24), inputs)
	}
	fmt.Println()

	return nil
}
