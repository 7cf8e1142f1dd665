package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hireloop/interviewai/internal/repository"
)

type feedbackRequest struct {
	UserID   string `json:"user_id"`
	Feedback string `json:"feedback"`
}

type feedbackEntryResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleFeedbackSubmit(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" || req.Feedback == "" {
		writeError(w, http.StatusBadRequest, "Missing user_id or feedback in request")
		return
	}

	entry, err := s.repo.InsertFeedback(r.Context(), repository.InsertFeedbackInput{
		UserID:    req.UserID,
		Feedback:  req.Feedback,
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to store feedback", "error", err, "user_id", req.UserID)
		writeError(w, http.StatusInternalServerError, "Failed to store feedback")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Feedback received",
		"data": feedbackEntryResponse{
			ID:        entry.ID,
			UserID:    entry.UserID,
			Feedback:  entry.Feedback,
			CreatedAt: entry.CreatedAt,
		},
	})
}

func (s *Server) handleFeedbackList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.repo.ListFeedback(r.Context())
	if err != nil {
		slog.Error("failed to list feedback", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list feedback")
		return
	}

	out := make([]feedbackEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, feedbackEntryResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			Feedback:  e.Feedback,
			CreatedAt: e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
