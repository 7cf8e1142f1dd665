package profile

import (
	"strings"
	"sync"
	"time"

	"github.com/hireloop/interviewai/internal/chat"
)

type Phase string

const (
	PhaseGreeting   Phase = "greeting"
	PhaseCollecting Phase = "collecting"
	PhaseConfirming Phase = "confirming"
	PhaseCompleted  Phase = "completed"
)

type ProfileData struct {
	CurrentRole       string `json:"current_role"`
	ExperienceLevel   string `json:"experience_level"`
	TargetRole        string `json:"target_role"`
	TargetCompany     string `json:"target_company"`
	ProfilingComplete bool   `json:"profiling_complete"`
}

type HistoryEntry struct {
	Type      string    `json:"type"` // "user" or "ai"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Phase     Phase     `json:"phase"`
}

// Session is one profiling conversation. mu serializes access per
// session so one slow model call never blocks other candidates.
type Session struct {
	mu                 sync.Mutex
	id                 string
	createdAt          time.Time
	phase              Phase
	history            []chat.Message
	transcript         []HistoryEntry
	needsClarification bool
	retryCount         int
	completed          bool
	profile            *ProfileData
}

const maxRetries = 3

// clarificationCues flag user messages that ask for help, so the
// frontend can be told to prompt for more detail.
var clarificationCues = []string{"help", "confused", "don't understand"}

func (s *Session) recordUser(message string) {
	s.history = append(s.history, chat.Message{Role: chat.RoleUser, Content: message})
	s.transcript = append(s.transcript, HistoryEntry{
		Type:      "user",
		Message:   message,
		Timestamp: time.Now(),
		Phase:     s.phase,
	})
	lower := strings.ToLower(message)
	s.needsClarification = false
	for _, cue := range clarificationCues {
		if strings.Contains(lower, cue) {
			s.needsClarification = true
			break
		}
	}
}

func (s *Session) recordAssistant(message string) {
	s.history = append(s.history, chat.Message{Role: chat.RoleAssistant, Content: message})
	s.transcript = append(s.transcript, HistoryEntry{
		Type:      "ai",
		Message:   message,
		Timestamp: time.Now(),
		Phase:     s.phase,
	})
}

// shouldCheckCompletion limits the side-channel completion query to
// every other exchange once the conversation is long enough to have
// plausibly covered all four fields.
func (s *Session) shouldCheckCompletion() bool {
	userTurns := len(s.transcript) / 2
	return userTurns >= 4 && userTurns%2 == 0
}

type State struct {
	Phase              Phase `json:"phase"`
	MessageCount       int   `json:"message_count"`
	Complete           bool  `json:"is_complete"`
	NeedsClarification bool  `json:"needs_clarification"`
}

func (s *Session) state() State {
	return State{
		Phase:              s.phase,
		MessageCount:       len(s.transcript),
		Complete:           s.completed,
		NeedsClarification: s.needsClarification,
	}
}

type Instructions struct {
	ShowTypingIndicator       bool   `json:"show_typing_indicator"`
	PlaceholderText           string `json:"placeholder_text"`
	ShowProgress              bool   `json:"show_progress"`
	EnableVoice               bool   `json:"enable_voice"`
	HighlightInput            bool   `json:"highlight_input,omitempty"`
	ShowCompletionCelebration bool   `json:"show_completion_celebration,omitempty"`
	NextAction                string `json:"next_action,omitempty"`
}

// frontendInstructions tells the thin client what to render; all
// conversation logic stays server-side.
func (s *Session) frontendInstructions() Instructions {
	ins := Instructions{
		ShowTypingIndicator: !s.completed,
		PlaceholderText:     "Type your response...",
		ShowProgress:        true,
		EnableVoice:         true,
	}
	if s.needsClarification {
		ins.PlaceholderText = "Please provide more details..."
		ins.HighlightInput = true
	}
	if s.completed {
		ins.ShowTypingIndicator = false
		ins.ShowCompletionCelebration = true
		ins.NextAction = "start_interview"
	}
	return ins
}
