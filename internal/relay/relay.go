package relay

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hireloop/interviewai/internal/telephony"
)

const (
	// ReplyCalling and ReplyNoAction are the plain-text webhook
	// responses Twilio relays back to the WhatsApp sender.
	ReplyCalling  = "Calling you now!"
	ReplyNoAction = "No action."
)

const callbackScript = `<Response><Say voice="Polly.Joanna">Hello! This is a callback triggered by your WhatsApp message.</Say></Response>`

// triggerPhrases are matched as substrings of the lowercased message.
var triggerPhrases = []string{"call me", "ping"}

// Relay turns inbound WhatsApp messages into outbound phone calls.
type Relay struct {
	caller       telephony.Caller
	targetNumber string
}

func NewRelay(caller telephony.Caller, targetNumber string) *Relay {
	return &Relay{caller: caller, targetNumber: targetNumber}
}

// HandleMessage inspects one inbound message body and places a callback
// when it contains a trigger phrase. It returns the reply text for the
// webhook response.
func (r *Relay) HandleMessage(ctx context.Context, body string) (string, error) {
	message := strings.ToLower(strings.TrimSpace(body))
	if !containsTrigger(message) {
		return ReplyNoAction, nil
	}

	slog.Info("callback trigger received", "message_length", len(message))
	if err := r.caller.PlaceCall(ctx, r.targetNumber, callbackScript); err != nil {
		return "", fmt.Errorf("place callback: %w", err)
	}
	return ReplyCalling, nil
}

func containsTrigger(message string) bool {
	for _, phrase := range triggerPhrases {
		if strings.Contains(message, phrase) {
			return true
		}
	}
	return false
}
