package httpapi

import (
	"log/slog"
	"net/http"
)

type onboardingRequest struct {
	Message string `json:"message"`
}

type onboardingProfile struct {
	Summary string `json:"summary"`
}

type onboardingResponse struct {
	Profile onboardingProfile `json:"profile"`
}

func (s *Server) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	var req onboardingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "Empty message")
		return
	}

	p, err := s.extractor.Extract(r.Context(), req.Message)
	if err != nil {
		slog.Error("onboarding extraction failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to extract profile")
		return
	}

	writeJSON(w, http.StatusOK, onboardingResponse{
		Profile: onboardingProfile{Summary: p.Summary()},
	})
}
