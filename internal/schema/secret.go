// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package schema

import "github.com/atotto/clipboard"

// Mask is the fixed string rendered for hidden sensitive values. It is
// deliberately not derived from the value — a mask must never leak length
// or character hints.
const Mask = "••••••••"

// SecretPresenter decides how a single already-fetched value is displayed.
// Sensitive values start Hidden and only move between Hidden and Revealed on
// explicit user action; there is no timeout auto-hide. The presenter is a
// read-side concern: it never mutates the underlying ValueMap, never
// fetches and never persists the revealed state.
type SecretPresenter struct {
	value     string
	sensitive bool
	revealed  bool
}

// NewSecretPresenter wraps a fetched value. Non-sensitive values are always
// rendered literally.
func NewSecretPresenter(value string, sensitive bool) *SecretPresenter {
	return &SecretPresenter{value: value, sensitive: sensitive}
}

// Display returns what should be rendered right now.
func (p *SecretPresenter) Display() string {
	if p.sensitive && !p.revealed {
		return Mask
	}
	return p.value
}

// Reveal switches to the Revealed state.
func (p *SecretPresenter) Reveal() { p.revealed = true }

// Hide switches back to the Hidden state.
func (p *SecretPresenter) Hide() { p.revealed = false }

// Revealed reports the current state.
func (p *SecretPresenter) Revealed() bool {
	return !p.sensitive || p.revealed
}

// Toggle flips between Hidden and Revealed.
func (p *SecretPresenter) Toggle() {
	if p.sensitive {
		p.revealed = !p.revealed
	}
}

// Copy writes the literal value to the system clipboard without changing
// the display state.
func (p *SecretPresenter) Copy() error {
	return clipboard.WriteAll(p.value)
}
