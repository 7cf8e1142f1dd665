package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hireloop/interviewai/internal/chat"
	"github.com/hireloop/interviewai/internal/repository"
)

var ErrSessionNotFound = errors.New("profiling session not found")

// Controller owns all live profiling conversations. It drives the
// scripted flow through the chat boundary, tracks per-session phase and
// completion, and persists extracted profiles.
type Controller struct {
	chat chat.Client
	repo repository.Repository

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewController(chatClient chat.Client, repo repository.Repository) *Controller {
	return &Controller{
		chat:     chatClient,
		repo:     repo,
		sessions: make(map[string]*Session),
	}
}

type StartResult struct {
	SessionID    string
	Message      string
	State        State
	Instructions Instructions
}

func (c *Controller) CreateSession(ctx context.Context) (*StartResult, error) {
	s := &Session{
		id:        uuid.NewString(),
		createdAt: time.Now(),
		phase:     PhaseGreeting,
		history:   []chat.Message{{Role: chat.RoleSystem, Content: profilingContext}},
	}

	greeting, err := c.chat.Reply(ctx, s.history, sessionOpener)
	if err != nil {
		return nil, fmt.Errorf("start profiling session: %w", err)
	}
	s.recordAssistant(greeting)
	s.phase = PhaseCollecting

	c.mu.Lock()
	c.sessions[s.id] = s
	c.mu.Unlock()

	slog.Info("profiling session created", "session_id", s.id)
	return &StartResult{
		SessionID:    s.id,
		Message:      greeting,
		State:        s.state(),
		Instructions: s.frontendInstructions(),
	}, nil
}

type MessageResult struct {
	SessionID          string
	AIMessage          string
	State              State
	Instructions       Instructions
	Complete           bool
	Profile            *ProfileData
	NeedsClarification bool
}

func (c *Controller) ProcessMessage(ctx context.Context, sessionID, message string) (*MessageResult, error) {
	s, ok := c.lookup(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.recordUser(message)
	reply, err := c.chat.Reply(ctx, s.history[:len(s.history)-1], message)
	if err != nil {
		s.retryCount++
		slog.Error("profiling chat failed", "error", err, "session_id", sessionID, "retry_count", s.retryCount)
		reply = "I'm sorry, I didn't catch that. Could you please repeat?"
		if s.retryCount >= maxRetries {
			reply = "I'm sorry, I'm having technical difficulties. Let me try to help you in a different way."
		}
		s.recordAssistant(reply)
		s.needsClarification = true
		return c.messageResult(s, reply), nil
	}
	s.retryCount = 0
	s.recordAssistant(reply)

	if !s.completed && s.shouldCheckCompletion() {
		c.checkCompletion(ctx, s)
	}

	return c.messageResult(s, reply), nil
}

func (c *Controller) messageResult(s *Session, reply string) *MessageResult {
	return &MessageResult{
		SessionID:          s.id,
		AIMessage:          reply,
		State:              s.state(),
		Instructions:       s.frontendInstructions(),
		Complete:           s.completed,
		Profile:            s.profile,
		NeedsClarification: s.needsClarification,
	}
}

// checkCompletion runs the side-channel COMPLETE/INCOMPLETE query and,
// when complete, the structured extraction. Neither exchange enters the
// visible conversation history.
func (c *Controller) checkCompletion(ctx context.Context, s *Session) {
	verdict, err := c.chat.Reply(ctx, s.history, completionCheckPrompt)
	if err != nil {
		slog.Warn("completion check failed", "error", err, "session_id", s.id)
		return
	}
	if !strings.Contains(strings.ToUpper(verdict), "COMPLETE") || strings.Contains(strings.ToUpper(verdict), "INCOMPLETE") {
		return
	}

	raw, err := c.chat.Reply(ctx, s.history, profileExtractionPrompt)
	if err != nil {
		slog.Warn("profile extraction failed", "error", err, "session_id", s.id)
		return
	}
	var data ProfileData
	if err := decodeModelJSON(raw, &data); err != nil {
		slog.Warn("could not parse extracted profile", "error", err, "session_id", s.id)
		return
	}

	s.completed = true
	s.profile = &data
	s.phase = PhaseCompleted
	slog.Info("profiling completed", "session_id", s.id, "target_role", data.TargetRole)

	if c.repo != nil {
		if _, err := c.repo.SaveProfile(ctx, repository.SaveProfileInput{
			SessionID:     s.id,
			CurrentRole:   data.CurrentRole,
			Experience:    data.ExperienceLevel,
			TargetRole:    data.TargetRole,
			TargetCompany: data.TargetCompany,
			CreatedAt:     time.Now(),
		}); err != nil {
			slog.Error("failed to persist candidate profile", "error", err, "session_id", s.id)
		}
	}
}

type StatusResult struct {
	SessionID    string
	State        State
	Complete     bool
	Profile      *ProfileData
	Transcript   []HistoryEntry
	CreatedAt    time.Time
	Instructions Instructions
}

func (c *Controller) Status(sessionID string) (*StatusResult, error) {
	s, ok := c.lookup(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	transcript := make([]HistoryEntry, len(s.transcript))
	copy(transcript, s.transcript)
	return &StatusResult{
		SessionID:    s.id,
		State:        s.state(),
		Complete:     s.completed,
		Profile:      s.profile,
		Transcript:   transcript,
		CreatedAt:    s.createdAt,
		Instructions: s.frontendInstructions(),
	}, nil
}

type SessionSummary struct {
	SessionID    string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
	Complete     bool      `json:"is_complete"`
	MessageCount int       `json:"message_count"`
	Phase        Phase     `json:"phase"`
}

func (c *Controller) ListSessions() []SessionSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]SessionSummary, 0, len(c.sessions))
	for _, s := range c.sessions {
		s.mu.Lock()
		out = append(out, SessionSummary{
			SessionID:    s.id,
			CreatedAt:    s.createdAt,
			Complete:     s.completed,
			MessageCount: len(s.transcript),
			Phase:        s.phase,
		})
		s.mu.Unlock()
	}
	return out
}

func (c *Controller) SessionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

// Cleanup drops sessions older than maxAge and returns how many were
// removed.
func (c *Controller) Cleanup(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for id, s := range c.sessions {
		if s.createdAt.Before(cutoff) {
			delete(c.sessions, id)
			removed++
			slog.Info("cleaned up expired profiling session", "session_id", id)
		}
	}
	return removed
}

func (c *Controller) lookup(sessionID string) (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[sessionID]
	return s, ok
}
