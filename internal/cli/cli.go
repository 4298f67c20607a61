// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the agentdeck command line interface: read-side
// views of the fleet against a running API server, for scripting and quick
// inspection without the TUI.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/config"
)

const (
	appName    = "agentdeck"
	appVersion = "0.1.0-alpha"
)

// Execute runs the CLI application
func Execute() error {
	if len(os.Args) < 2 {
		return printUsage()
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "agents":
		return agentsCommand(args)
	case "credentials":
		return credentialsCommand(args)
	case "schedules":
		return schedulesCommand(args)
	case "tasks":
		return tasksCommand(args)
	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)
		return nil
	case "help", "-h", "--help":
		return printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		return printUsage()
	}
}

func printUsage() error {
	fmt.Printf(`%s - AI agent fleet dashboard

Usage:
  %s <command> [arguments]

Commands:
  agents         List agents in the workspace
  credentials    List stored credentials (values are never printed)
  schedules      List scheduled tasks; toggle with --enable/--disable
  tasks          List tasks
  version        Print version information
  help           Show this help message

Examples:
  %s agents
  %s credentials
  %s schedules
  %s schedules toggle sched-abc123 --disable
  %s tasks

`, appName, appName, appName, appName, appName, appName, appName)
	return nil
}

// newAPIClient loads configuration and builds the API client plus a request
// context every command shares.
func newAPIClient(configPath string) (*api.Client, context.Context, context.CancelFunc, error) {
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	client := api.NewClient(cfg.API)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	return client, ctx, cancel, nil
}
