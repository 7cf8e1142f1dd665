package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hireloop/interviewai/internal/chat"
)

type OnboardingProfile struct {
	Role       string `json:"role"`
	Experience string `json:"experience"`
	Goal       string `json:"goal"`
}

// Summary renders the one-line profile used by the interview flow.
func (p OnboardingProfile) Summary() string {
	return fmt.Sprintf("You are a %s with %s experience, aiming to %s.", p.Role, p.Experience, p.Goal)
}

// Extractor performs the one-shot onboarding extraction: free-text
// self-description in, structured role/experience/goal out.
type Extractor struct {
	chat chat.Client
}

func NewExtractor(chatClient chat.Client) *Extractor {
	return &Extractor{chat: chatClient}
}

func (e *Extractor) Extract(ctx context.Context, transcript string) (*OnboardingProfile, error) {
	prompt := fmt.Sprintf(onboardingExtractionPrompt, transcript)
	raw, err := e.chat.Reply(ctx, nil, prompt)
	if err != nil {
		return nil, fmt.Errorf("onboarding extraction: %w", err)
	}
	var p OnboardingProfile
	if err := decodeModelJSON(raw, &p); err != nil {
		return nil, fmt.Errorf("parse onboarding extraction %q: %w", raw, err)
	}
	return &p, nil
}

// decodeModelJSON parses JSON out of a model reply, tolerating the
// markdown code fences models like to wrap structured output in.
func decodeModelJSON(raw string, v any) error {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)
	return json.Unmarshal([]byte(cleaned), v)
}
