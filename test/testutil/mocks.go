// Copyright (C) 2026 Agentdeck
// SPDX-License-Identifier: AGPL-3.0-or-later

package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/protocol"
	"github.com/agentdeck/agentdeck/internal/schema"
)

// RecordedRequest is one mutation the stub received.
type RecordedRequest struct {
	Method string
	Path   string
	Body   []byte
}

// APIStub serves the dashboard REST surface over httptest with in-memory
// data, so screen and client tests can exercise real request/response
// round trips without a database. Mutations are recorded and applied to
// the in-memory slices; responses use the same envelopes as the server.
type APIStub struct {
	Server *httptest.Server

	mu             sync.Mutex
	requests       []RecordedRequest
	Agents         []models.Agent
	Credentials    []models.Credential
	Tasks          []models.Task
	ScheduledTasks []models.ScheduledTask

	// FailWith, when set, makes every subsequent request return this
	// status with {"error": FailMessage}.
	FailWith    int
	FailMessage string
}

// NewAPIStub starts a stub pre-loaded with the sample fixtures. The
// server is shut down automatically when the test ends.
func NewAPIStub(t *testing.T) *APIStub {
	t.Helper()

	s := &APIStub{
		Agents:         SampleAgents(),
		Credentials:    SampleCredentials(),
		Tasks:          SampleTasks(),
		ScheduledTasks: SampleScheduledTasks(),
	}

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/providers", s.handle(s.listProviders))
		r.Get("/agents", s.handle(s.listAgents))
		r.Post("/agents", s.handle(s.createAgent))
		r.Delete("/agents/{id}", s.handle(s.deleteAgent))
		r.Get("/credentials", s.handle(s.listCredentials))
		r.Post("/credentials", s.handle(s.createCredential))
		r.Delete("/credentials/{id}", s.handle(s.deleteCredential))
		r.Get("/tasks", s.handle(s.listTasks))
		r.Get("/tasks/{id}", s.handle(s.getTask))
		r.Get("/scheduled-tasks", s.handle(s.listScheduled))
		r.Post("/scheduled-tasks", s.handle(s.createScheduled))
		r.Put("/scheduled-tasks/{id}", s.handle(s.updateScheduled))
		r.Post("/scheduled-tasks/{id}/toggle", s.handle(s.toggleScheduled))
		r.Delete("/scheduled-tasks/{id}", s.handle(s.deleteScheduled))
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Server.Close)
	return s
}

// Client returns an api.Client pointed at the stub.
func (s *APIStub) Client() *api.Client {
	return api.NewClient(config.APIClientConfig{
		BaseURL:        s.Server.URL,
		RequestTimeout: 5 * time.Second,
	})
}

// Requests returns a copy of all mutation requests received so far.
func (s *APIStub) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// handle wraps an endpoint with locking, request recording, and the
// forced-failure switch.
func (s *APIStub) handle(fn func(w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if r.Method != http.MethodGet {
			body, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
			s.requests = append(s.requests, RecordedRequest{
				Method: r.Method,
				Path:   r.URL.Path,
				Body:   body,
			})
		}

		if s.FailWith != 0 {
			writeJSON(w, s.FailWith, map[string]string{"error": s.FailMessage})
			return
		}
		fn(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *APIStub) listProviders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"providers": schema.Providers()})
}

func (s *APIStub) listAgents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"agents": s.Agents})
}

func (s *APIStub) createAgent(w http.ResponseWriter, r *http.Request) {
	var req protocol.AgentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	agent := models.Agent{
		ID:          uuid.NewString(),
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		Description: req.Description,
		Model:       req.Model,
		Status:      models.AgentStatusIdle,
	}
	s.Agents = append(s.Agents, agent)
	writeJSON(w, http.StatusCreated, agent)
}

func (s *APIStub) deleteAgent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for i, a := range s.Agents {
		if a.ID == id {
			s.Agents = append(s.Agents[:i], s.Agents[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "agent not found"})
}

func (s *APIStub) listCredentials(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"credentials": s.Credentials})
}

func (s *APIStub) createCredential(w http.ResponseWriter, r *http.Request) {
	var req protocol.CredentialCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	cred := models.Credential{
		ID:          uuid.NewString(),
		WorkspaceID: r.URL.Query().Get("workspace_id"),
		Provider:    req.Provider,
		Name:        req.Name,
		Values:      models.StringMap(req.Credential),
	}
	s.Credentials = append(s.Credentials, cred)
	writeJSON(w, http.StatusCreated, cred)
}

func (s *APIStub) deleteCredential(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for i, c := range s.Credentials {
		if c.ID == id {
			s.Credentials = append(s.Credentials[:i], s.Credentials[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "credential not found"})
}

func (s *APIStub) listTasks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tasks": s.Tasks})
}

func (s *APIStub) getTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, t := range s.Tasks {
		if t.ID == id {
			writeJSON(w, http.StatusOK, t)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
}

func (s *APIStub) listScheduled(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"scheduled_tasks": s.ScheduledTasks})
}

func scheduledFromRequest(id string, req protocol.ScheduledTaskCreateRequest) models.ScheduledTask {
	st := models.ScheduledTask{
		ID:                     id,
		WorkspaceID:            req.WorkspaceID,
		AgentID:                req.AgentID,
		TaskID:                 req.TaskID,
		Name:                   req.Name,
		Description:            req.Description,
		AutoCreateConversation: req.AutoCreateConversation,
		Enabled:                true,
	}
	st.SetConfig(req.Config())
	if req.ConversationTemplate != nil {
		st.InputData = models.StringMap(req.ConversationTemplate.InputData)
	}
	return st
}

func (s *APIStub) createScheduled(w http.ResponseWriter, r *http.Request) {
	var req protocol.ScheduledTaskCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	st := scheduledFromRequest(uuid.NewString(), req)
	s.ScheduledTasks = append(s.ScheduledTasks, st)
	writeJSON(w, http.StatusCreated, st)
}

func (s *APIStub) updateScheduled(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req protocol.ScheduledTaskCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	for i, st := range s.ScheduledTasks {
		if st.ID == id {
			updated := scheduledFromRequest(id, req)
			updated.Enabled = st.Enabled
			s.ScheduledTasks[i] = updated
			writeJSON(w, http.StatusOK, updated)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "scheduled task not found"})
}

func (s *APIStub) toggleScheduled(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	for i := range s.ScheduledTasks {
		if s.ScheduledTasks[i].ID == id {
			s.ScheduledTasks[i].Enabled = body.Enabled
			writeJSON(w, http.StatusOK, s.ScheduledTasks[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "scheduled task not found"})
}

func (s *APIStub) deleteScheduled(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for i, st := range s.ScheduledTasks {
		if st.ID == id {
			s.ScheduledTasks = append(s.ScheduledTasks[:i], s.ScheduledTasks[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "scheduled task not found"})
}
