package repository

import "time"

type CandidateProfile struct {
	ID            string
	SessionID     string
	CurrentRole   string
	Experience    string
	TargetRole    string
	TargetCompany string
	CreatedAt     time.Time
}

type FeedbackEntry struct {
	ID        string
	UserID    string
	Feedback  string
	CreatedAt time.Time
}
