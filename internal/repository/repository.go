package repository

import (
	"context"
	"time"
)

type SaveProfileInput struct {
	SessionID     string
	CurrentRole   string
	Experience    string
	TargetRole    string
	TargetCompany string
	CreatedAt     time.Time
}

type InsertFeedbackInput struct {
	UserID    string
	Feedback  string
	CreatedAt time.Time
}

type Repository interface {
	SaveProfile(ctx context.Context, input SaveProfileInput) (*CandidateProfile, error)
	GetProfileBySessionID(ctx context.Context, sessionID string) (*CandidateProfile, error)
	InsertFeedback(ctx context.Context, input InsertFeedbackInput) (*FeedbackEntry, error)
	ListFeedback(ctx context.Context) ([]FeedbackEntry, error)
}
