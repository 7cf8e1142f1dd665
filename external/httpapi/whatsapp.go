package httpapi

import (
	"log/slog"
	"net/http"
)

// handleWhatsAppWebhook receives Twilio's WhatsApp webhook. Twilio posts
// form-encoded fields and expects a plain-text reply body.
func (s *Server) handleWhatsAppWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	body := r.PostFormValue("Body")

	reply, err := s.relay.HandleMessage(r.Context(), body)
	if err != nil {
		slog.Error("whatsapp relay failed", "error", err)
		http.Error(w, "relay failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(reply)); err != nil {
		slog.Error("failed to write webhook reply", "error", err)
	}
}
