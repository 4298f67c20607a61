// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"flag"
	"fmt"

	"github.com/agentdeck/agentdeck/internal/models"
)

type agentsOptions struct {
	configPath  string
	workspaceID string
}

func agentsCommand(args []string) error {
	opts := &agentsOptions{}
	fs := flag.NewFlagSet("agents", flag.ExitOnError)
	fs.StringVar(&opts.configPath, "config", "config.yaml", "Path to config file")
	fs.StringVar(&opts.workspaceID, "workspace", models.DefaultWorkspaceID, "Workspace to list")

	if err := fs.Parse(args); err != nil {
		return err
	}

	return listAgents(opts)
}

func listAgents(opts *agentsOptions) error {
	client, ctx, cancel, err := newAPIClient(opts.configPath)
	if err != nil {
		return err
	}
	defer cancel()

	agents, err := client.ListAgents(ctx, opts.workspaceID)
	if err != nil {
		return fmt.Errorf("failed to list agents: %w", err)
	}

	if len(agents) == 0 {
		fmt.Println("No agents found.")
		fmt.Println("\nCreate an agent using the dashboard:")
		fmt.Println("  make run")
		return nil
	}

	// Print table
	fmt.Println()
	fmt.Printf("%-24s  %-40s  %-8s  %s\n", "NAME", "ID", "STATUS", "MODEL")
	fmt.Println("────────────────────────  ────────────────────────────────────────  ────────  ────────────────")
	for _, a := range agents {
		fmt.Printf("%-24s  %-40s  %-8s  %s\n", truncate(a.Name, 24), truncate(a.ID, 40), a.Status, a.Model)
	}
	fmt.Println()

	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
