// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/logger"
	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/protocol"
	"github.com/agentdeck/agentdeck/internal/tui"
)

func main() {
	// Load configuration
	cfg, err := config.NewConfig("config.yaml")
	if err != nil {
		// Only log to stderr on critical startup errors before logger is initialized
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Initialize the logging system
	if err := logger.Initialize(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.CloseGlobal()

	mainLog := logger.GetLogger("main")
	mainLog.Info().Msg("Starting agentdeck dashboard")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := api.NewClient(cfg.API)

	// Subscribe to server change events so open screens refresh live. The
	// dashboard still works without the stream; it just won't see other
	// clients' changes until a manual reload.
	var eventChan <-chan protocol.Event
	stream, err := client.StreamEvents(ctx, api.EventFilter{WorkspaceID: models.DefaultWorkspaceID})
	if err != nil {
		mainLog.Warn().Err(err).Msg("Event stream unavailable, continuing without live updates")
	} else {
		defer stream.Close()
		eventChan = stream.Events()
	}

	mainLog.Info().Msg("Starting TUI")
	if err := tui.StartTUI(client, eventChan); err != nil {
		mainLog.Error().Err(err).Msg("Error running TUI")
		// Log to stderr since the TUI has exited
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	mainLog.Info().Msg("Dashboard shut down")
}
