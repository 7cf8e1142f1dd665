package repository

import (
	"context"

	"github.com/hireloop/interviewai/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) SaveProfile(ctx context.Context, input repository.SaveProfileInput) (*repository.CandidateProfile, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO candidate_profiles (session_id, current_position, experience, target_role, target_company, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (session_id) DO UPDATE SET
		   current_position = EXCLUDED.current_position,
		   experience = EXCLUDED.experience,
		   target_role = EXCLUDED.target_role,
		   target_company = EXCLUDED.target_company
		 RETURNING id, session_id, current_position, experience, target_role, target_company, created_at`,
		input.SessionID, input.CurrentRole, input.Experience, input.TargetRole, input.TargetCompany, input.CreatedAt)
	var p repository.CandidateProfile
	if err := row.Scan(&p.ID, &p.SessionID, &p.CurrentRole, &p.Experience, &p.TargetRole, &p.TargetCompany, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) GetProfileBySessionID(ctx context.Context, sessionID string) (*repository.CandidateProfile, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, session_id, current_position, experience, target_role, target_company, created_at
		 FROM candidate_profiles WHERE session_id = $1`,
		sessionID)
	var p repository.CandidateProfile
	err := row.Scan(&p.ID, &p.SessionID, &p.CurrentRole, &p.Experience, &p.TargetRole, &p.TargetCompany, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) InsertFeedback(ctx context.Context, input repository.InsertFeedbackInput) (*repository.FeedbackEntry, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO feedback_entries (user_id, feedback, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, feedback, created_at`,
		input.UserID, input.Feedback, input.CreatedAt)
	var e repository.FeedbackEntry
	if err := row.Scan(&e.ID, &e.UserID, &e.Feedback, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PostgresRepository) ListFeedback(ctx context.Context) ([]repository.FeedbackEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, feedback, created_at
		 FROM feedback_entries ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []repository.FeedbackEntry
	for rows.Next() {
		var e repository.FeedbackEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Feedback, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
