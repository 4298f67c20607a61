// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package messages

// Navigation messages for screen transitions within the TUI
type GoBackMsg struct{}

type GoToAgentListMsg struct{}

type GoToCredentialsMsg struct{}

type GoToSchedulesMsg struct{}
