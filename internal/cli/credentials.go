// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"flag"
	"fmt"

	"github.com/agentdeck/agentdeck/internal/models"
)

type credentialsOptions struct {
	configPath  string
	workspaceID string
}

func credentialsCommand(args []string) error {
	opts := &credentialsOptions{}
	fs := flag.NewFlagSet("credentials", flag.ExitOnError)
	fs.StringVar(&opts.configPath, "config", "config.yaml", "Path to config file")
	fs.StringVar(&opts.workspaceID, "workspace", models.DefaultWorkspaceID, "Workspace to list")

	if err := fs.Parse(args); err != nil {
		return err
	}

	return listCredentials(opts)
}

// listCredentials prints the credential catalog. Values never reach stdout;
// only the field count is shown.
func listCredentials(opts *credentialsOptions) error {
	client, ctx, cancel, err := newAPIClient(opts.configPath)
	if err != nil {
		return err
	}
	defer cancel()

	credentials, err := client.ListCredentials(ctx, opts.workspaceID)
	if err != nil {
		return fmt.Errorf("failed to list credentials: %w", err)
	}

	if len(credentials) == 0 {
		fmt.Println("No credentials stored.")
		return nil
	}

	fmt.Println()
	fmt.Printf("%-24s  %-40s  %-12s  %s\n", "NAME", "ID", "PROVIDER", "FIELDS")
	fmt.Println("────────────────────────  ────────────────────────────────────────  ────────────  ──────")
	for _, c := range credentials {
		fmt.Printf("%-24s  %-40s  %-12s  %d\n", truncate(c.Name, 24), truncate(c.ID, 40), c.Provider, len(c.Values))
	}
	fmt.Println()

	return nil
}
