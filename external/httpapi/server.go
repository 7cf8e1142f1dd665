package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hireloop/interviewai/internal/profile"
	"github.com/hireloop/interviewai/internal/relay"
	"github.com/hireloop/interviewai/internal/repository"
	"github.com/hireloop/interviewai/internal/synthesizer"
)

// Server wires all REST endpoints plus the transcription WebSocket onto
// a single mux.
type Server struct {
	profiling     *profile.Controller
	extractor     *profile.Extractor
	tts           synthesizer.Synthesizer
	repo          repository.Repository
	relay         *relay.Relay
	wsHandler     http.Handler
	sessionMaxAge time.Duration
}

func NewServer(
	profiling *profile.Controller,
	extractor *profile.Extractor,
	tts synthesizer.Synthesizer,
	repo repository.Repository,
	whatsappRelay *relay.Relay,
	wsHandler http.Handler,
	sessionMaxAge time.Duration,
) *Server {
	return &Server{
		profiling:     profiling,
		extractor:     extractor,
		tts:           tts,
		repo:          repo,
		relay:         whatsappRelay,
		wsHandler:     wsHandler,
		sessionMaxAge: sessionMaxAge,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /onboarding/{$}", s.handleOnboarding)

	mux.HandleFunc("POST /interview/profiling/start", s.handleProfilingStart)
	mux.HandleFunc("POST /interview/profiling/message", s.handleProfilingMessage)
	mux.HandleFunc("GET /interview/profiling/status/{sessionID}", s.handleProfilingStatus)
	mux.HandleFunc("GET /interview/profiling/health", s.handleProfilingHealth)
	mux.HandleFunc("POST /interview/profiling/cleanup", s.handleProfilingCleanup)
	mux.HandleFunc("GET /interview/profiling/sessions", s.handleProfilingSessions)

	mux.HandleFunc("POST /interview/feedback/{$}", s.handleFeedbackSubmit)
	mux.HandleFunc("GET /interview/feedback/{$}", s.handleFeedbackList)

	mux.HandleFunc("POST /tts/synthesize", s.handleSynthesize)
	mux.HandleFunc("GET /tts/voices", s.handleVoices)
	mux.HandleFunc("POST /tts/test", s.handleVoiceTest)
	mux.HandleFunc("GET /tts/health", s.handleTTSHealth)

	mux.HandleFunc("POST /whatsapp-webhook", s.handleWhatsAppWebhook)

	if s.wsHandler != nil {
		mux.Handle("GET /ws", s.wsHandler)
	}

	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Error: message})
}

// decodeBody parses a JSON request body into v, rejecting empty bodies.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
