// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/agentdeck/agentdeck/internal/protocol"
)

// EventFilter scopes a WebSocket subscription. Empty fields match
// everything.
type EventFilter struct {
	WorkspaceID string `json:"workspace_id,omitempty"`
	AgentID     string `json:"agent_id,omitempty"`
	TaskID      string `json:"task_id,omitempty"`
}

// wsSubscribe is the client → server subscription envelope.
type wsSubscribe struct {
	Type    string      `json:"type"`
	Filters EventFilter `json:"filters"`
}

// wsEnvelope is the server → client message envelope. EventType carries the
// Go type name of the payload; unknown types are skipped so old clients
// survive new event kinds.
type wsEnvelope struct {
	Type      string          `json:"type"`
	EventType string          `json:"event_type,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// EventStream is a live WebSocket subscription to the server's broadcast
// channel. Decoded events arrive on Events until the connection drops or
// Close is called, at which point the channel is closed.
type EventStream struct {
	conn   *websocket.Conn
	events chan protocol.Event
	done   chan struct{}
}

// StreamEvents opens a WebSocket to the server's /ws endpoint and
// subscribes with the given filter. The returned stream's read loop runs
// until the connection ends.
func (c *Client) StreamEvents(ctx context.Context, filter EventFilter) (*EventStream, error) {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/ws"

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial to %s failed (HTTP %d): %w", wsURL, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial to %s failed: %w", wsURL, err)
	}

	if err := conn.WriteJSON(wsSubscribe{Type: "subscribe", Filters: filter}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("websocket subscribe failed: %w", err)
	}
	getLog().Info().Str("url", wsURL).Str("workspace_id", filter.WorkspaceID).Msg("Event stream connected")

	s := &EventStream{
		conn:   conn,
		events: make(chan protocol.Event, 64),
		done:   make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

// Events returns the channel decoded events are delivered on. It is closed
// when the stream ends.
func (s *EventStream) Events() <-chan protocol.Event {
	return s.events
}

// Close tears down the connection. Safe to call concurrently with reads.
func (s *EventStream) Close() error {
	select {
	case <-s.done:
		return nil
	default:
	}
	close(s.done)
	return s.conn.Close()
}

func (s *EventStream) readLoop() {
	defer close(s.events)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
				// Deliberate Close, not a failure.
			default:
				getLog().Warn().Err(err).Msg("Event stream read failed")
			}
			return
		}

		var env wsEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			getLog().Warn().Err(err).Msg("Malformed event stream message")
			continue
		}

		switch env.Type {
		case "event":
			event, err := decodeEvent(env.EventType, env.Payload)
			if err != nil {
				getLog().Debug().Err(err).Str("event_type", env.EventType).Msg("Skipping undecodable event")
				continue
			}
			if event == nil {
				// Unknown event type from a newer server; ignore.
				continue
			}
			select {
			case s.events <- event:
			case <-s.done:
				return
			}

		case "error":
			select {
			case s.events <- protocol.ErrorEvent{Message: env.Message}:
			case <-s.done:
				return
			}
		}
	}
}

// unmarshalEvent decodes a payload into one concrete event type.
func unmarshalEvent[T protocol.Event](payload json.RawMessage) (protocol.Event, error) {
	var e T
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, err
	}
	return e, nil
}

// decodeEvent maps the wire event_type back to a concrete protocol event.
// Returns (nil, nil) for unknown types.
func decodeEvent(eventType string, payload json.RawMessage) (protocol.Event, error) {
	switch eventType {
	case "protocol.AgentCreatedEvent":
		return unmarshalEvent[protocol.AgentCreatedEvent](payload)
	case "protocol.CredentialCreatedEvent":
		return unmarshalEvent[protocol.CredentialCreatedEvent](payload)
	case "protocol.CredentialDeletedEvent":
		return unmarshalEvent[protocol.CredentialDeletedEvent](payload)
	case "protocol.ScheduledTaskEvent":
		return unmarshalEvent[protocol.ScheduledTaskEvent](payload)
	case "protocol.TaskCreatedEvent":
		return unmarshalEvent[protocol.TaskCreatedEvent](payload)
	case "protocol.TaskDeletedEvent":
		return unmarshalEvent[protocol.TaskDeletedEvent](payload)
	case "protocol.FolderChangedEvent":
		return unmarshalEvent[protocol.FolderChangedEvent](payload)
	case "protocol.ErrorEvent":
		return unmarshalEvent[protocol.ErrorEvent](payload)
	default:
		return nil, nil
	}
}
