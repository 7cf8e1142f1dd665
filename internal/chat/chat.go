package chat

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Client is the opaque conversational model boundary: ordered history
// plus a new user message in, free text out.
type Client interface {
	Reply(ctx context.Context, history []Message, message string) (string, error)
}
