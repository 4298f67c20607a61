// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/protocol"
)

// newEventServer starts a WebSocket endpoint that records the client's
// subscription and then replays the given envelopes.
func newEventServer(t *testing.T, envelopes []wsEnvelope) (*Client, chan wsSubscribe) {
	t.Helper()

	subscriptions := make(chan wsSubscribe, 1)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var sub wsSubscribe
		require.NoError(t, conn.ReadJSON(&sub))
		subscriptions <- sub

		for _, env := range envelopes {
			require.NoError(t, conn.WriteJSON(env))
		}

		// Hold the connection open until the client disconnects.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	return NewClient(config.APIClientConfig{BaseURL: srv.URL, RequestTimeout: 5 * time.Second}), subscriptions
}

func eventEnvelope(t *testing.T, eventType string, event any) wsEnvelope {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return wsEnvelope{Type: "event", EventType: eventType, Payload: payload}
}

func receiveEvent(t *testing.T, stream *EventStream) protocol.Event {
	t.Helper()
	select {
	case event, ok := <-stream.Events():
		require.True(t, ok, "event channel closed early")
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestStreamEvents_Subscribes(t *testing.T) {
	client, subscriptions := newEventServer(t, nil)

	stream, err := client.StreamEvents(context.Background(), EventFilter{WorkspaceID: models.DefaultWorkspaceID})
	require.NoError(t, err)
	defer stream.Close()

	select {
	case sub := <-subscriptions:
		assert.Equal(t, "subscribe", sub.Type)
		assert.Equal(t, models.DefaultWorkspaceID, sub.Filters.WorkspaceID)
	case <-time.After(2 * time.Second):
		t.Fatal("server never received a subscription")
	}
}

func TestStreamEvents_DecodesConcreteTypes(t *testing.T) {
	agentEvent := protocol.AgentCreatedEvent{
		Metadata: protocol.Metadata{WorkspaceID: models.DefaultWorkspaceID, IdempotencyKey: "k1"},
		Agent:    &models.Agent{ID: "agent-1", Name: "Support Triage"},
	}
	scheduleEvent := protocol.ScheduledTaskEvent{
		Metadata:    protocol.Metadata{WorkspaceID: models.DefaultWorkspaceID},
		Type:        protocol.ScheduledTaskDeleted,
		ScheduledID: "sched-1",
	}

	client, _ := newEventServer(t, []wsEnvelope{
		eventEnvelope(t, "protocol.AgentCreatedEvent", agentEvent),
		eventEnvelope(t, "protocol.FutureUnknownEvent", map[string]string{"x": "y"}),
		eventEnvelope(t, "protocol.ScheduledTaskEvent", scheduleEvent),
	})

	stream, err := client.StreamEvents(context.Background(), EventFilter{})
	require.NoError(t, err)
	defer stream.Close()

	first, ok := receiveEvent(t, stream).(protocol.AgentCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, "k1", first.GetMetadata().IdempotencyKey)
	require.NotNil(t, first.Agent)
	assert.Equal(t, "Support Triage", first.Agent.Name)

	// The unknown event type is skipped; the schedule event comes next.
	second, ok := receiveEvent(t, stream).(protocol.ScheduledTaskEvent)
	require.True(t, ok)
	assert.Equal(t, protocol.ScheduledTaskDeleted, second.Type)
	assert.Equal(t, "sched-1", second.ScheduledID)
}

func TestStreamEvents_ServerErrorEnvelope(t *testing.T) {
	client, _ := newEventServer(t, []wsEnvelope{
		{Type: "error", Message: "subscription limit reached"},
	})

	stream, err := client.StreamEvents(context.Background(), EventFilter{})
	require.NoError(t, err)
	defer stream.Close()

	event, ok := receiveEvent(t, stream).(protocol.ErrorEvent)
	require.True(t, ok)
	assert.Equal(t, "subscription limit reached", event.Message)
}

func TestStreamEvents_CloseEndsChannel(t *testing.T) {
	client, _ := newEventServer(t, nil)

	stream, err := client.StreamEvents(context.Background(), EventFilter{})
	require.NoError(t, err)
	require.NoError(t, stream.Close())

	select {
	case _, ok := <-stream.Events():
		assert.False(t, ok, "channel should be closed after Close")
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after Close")
	}
}

func TestStreamEvents_DialFailure(t *testing.T) {
	client := NewClient(config.APIClientConfig{BaseURL: "http://127.0.0.1:1", RequestTimeout: time.Second})

	_, err := client.StreamEvents(context.Background(), EventFilter{})
	assert.Error(t, err)
}
