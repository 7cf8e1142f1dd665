package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hireloop/interviewai/internal/profile"
)

type profilingStartResponse struct {
	Success      bool                 `json:"success"`
	SessionID    string               `json:"session_id"`
	Message      string               `json:"message"`
	State        profile.State        `json:"conversation_state"`
	Instructions profile.Instructions `json:"instructions"`
}

func (s *Server) handleProfilingStart(w http.ResponseWriter, r *http.Request) {
	result, err := s.profiling.CreateSession(r.Context())
	if err != nil {
		slog.Error("failed to start profiling session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start profiling session")
		return
	}
	writeJSON(w, http.StatusOK, profilingStartResponse{
		Success:      true,
		SessionID:    result.SessionID,
		Message:      result.Message,
		State:        result.State,
		Instructions: result.Instructions,
	})
}

type profilingMessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type profilingMessageResponse struct {
	Success            bool                 `json:"success"`
	SessionID          string               `json:"session_id"`
	AIMessage          string               `json:"ai_message"`
	State              profile.State        `json:"conversation_state"`
	Instructions       profile.Instructions `json:"instructions"`
	ProfilingComplete  bool                 `json:"profiling_complete"`
	ProfileData        *profile.ProfileData `json:"profile_data,omitempty"`
	NeedsClarification bool                 `json:"needs_clarification"`
}

func (s *Server) handleProfilingMessage(w http.ResponseWriter, r *http.Request) {
	var req profilingMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.SessionID == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "session_id and message are required")
		return
	}

	result, err := s.profiling.ProcessMessage(r.Context(), req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, profile.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		slog.Error("failed to process profiling message", "error", err, "session_id", req.SessionID)
		writeError(w, http.StatusInternalServerError, "failed to process message")
		return
	}
	writeJSON(w, http.StatusOK, profilingMessageResponse{
		Success:            true,
		SessionID:          result.SessionID,
		AIMessage:          result.AIMessage,
		State:              result.State,
		Instructions:       result.Instructions,
		ProfilingComplete:  result.Complete,
		ProfileData:        result.Profile,
		NeedsClarification: result.NeedsClarification,
	})
}

type sessionMetadata struct {
	CreatedAt    time.Time `json:"created_at"`
	MessageCount int       `json:"message_count"`
}

type profilingStatusResponse struct {
	Success           bool                   `json:"success"`
	SessionID         string                 `json:"session_id"`
	State             profile.State          `json:"conversation_state"`
	ProfilingComplete bool                   `json:"profiling_complete"`
	ProfileData       *profile.ProfileData   `json:"profile_data,omitempty"`
	History           []profile.HistoryEntry `json:"conversation_history"`
	Metadata          sessionMetadata        `json:"session_metadata"`
	Instructions      profile.Instructions   `json:"instructions"`
}

func (s *Server) handleProfilingStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	result, err := s.profiling.Status(sessionID)
	if err != nil {
		if errors.Is(err, profile.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		slog.Error("failed to get session status", "error", err, "session_id", sessionID)
		writeError(w, http.StatusInternalServerError, "failed to get session status")
		return
	}
	writeJSON(w, http.StatusOK, profilingStatusResponse{
		Success:           true,
		SessionID:         result.SessionID,
		State:             result.State,
		ProfilingComplete: result.Complete,
		ProfileData:       result.Profile,
		History:           result.Transcript,
		Metadata: sessionMetadata{
			CreatedAt:    result.CreatedAt,
			MessageCount: len(result.Transcript),
		},
		Instructions: result.Instructions,
	})
}

func (s *Server) handleProfilingHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"status":          "healthy",
		"active_sessions": s.profiling.SessionCount(),
	})
}

func (s *Server) handleProfilingCleanup(w http.ResponseWriter, _ *http.Request) {
	removed := s.profiling.Cleanup(s.sessionMaxAge)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":            true,
		"cleaned_sessions":   removed,
		"remaining_sessions": s.profiling.SessionCount(),
	})
}

func (s *Server) handleProfilingSessions(w http.ResponseWriter, _ *http.Request) {
	sessions := s.profiling.ListSessions()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"total_sessions": len(sessions),
		"sessions":       sessions,
	})
}
