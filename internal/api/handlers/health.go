package handlers

import (
	"context"

	"github.com/prenotabot/prenotabot/internal/session"
	"github.com/prenotabot/prenotabot/internal/version"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	ActiveSessions int    `json:"activeSessions"`
	TestMode       bool   `json:"testMode"`
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	sessions *session.Manager
	testMode bool
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(sessions *session.Manager, testMode bool) *HealthHandler {
	return &HealthHandler{sessions: sessions, testMode: testMode}
}

// HealthOutput is the output wrapper for Huma.
type HealthOutput struct {
	Body HealthResponse
}

// Handle returns the health status.
func (h *HealthHandler) Handle(ctx context.Context) *HealthResponse {
	return &HealthResponse{
		Status:         "healthy",
		Version:        version.Get().Version,
		ActiveSessions: h.sessions.Count(),
		TestMode:       h.testMode,
	}
}
