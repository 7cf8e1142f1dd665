package httpapi

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/hireloop/interviewai/internal/synthesizer"
)

type synthesizeRequest struct {
	Text         string   `json:"text"`
	VoiceType    string   `json:"voice_type"`
	SpeakingRate *float64 `json:"speaking_rate"`
	Pitch        *float64 `json:"pitch"`
	VolumeGainDB *float64 `json:"volume_gain_db"`
	Format       string   `json:"format"`
}

const defaultSpeakingRate = 0.9

// toSynthesizerRequest fills defaults for omitted optional fields.
// Explicit zero values are kept as sent.
func (r *synthesizeRequest) toSynthesizerRequest() synthesizer.Request {
	out := synthesizer.Request{
		Text:         r.Text,
		VoiceType:    r.VoiceType,
		SpeakingRate: defaultSpeakingRate,
	}
	if r.SpeakingRate != nil {
		out.SpeakingRate = *r.SpeakingRate
	}
	if r.Pitch != nil {
		out.Pitch = *r.Pitch
	}
	if r.VolumeGainDB != nil {
		out.VolumeGainDB = *r.VolumeGainDB
	}
	return out
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req synthesizeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "Text is required")
		return
	}
	format := req.Format
	if format == "" {
		format = "base64"
	}
	if format != "base64" && format != "binary" {
		writeError(w, http.StatusBadRequest, `Invalid format. Use "base64" or "binary"`)
		return
	}

	synthReq := req.toSynthesizerRequest()
	if err := synthReq.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	audio, err := s.tts.Synthesize(r.Context(), synthReq)
	if err != nil {
		slog.Error("speech synthesis failed", "error", err, "voice", synthReq.VoiceType)
		writeError(w, http.StatusInternalServerError, "Failed to synthesize speech")
		return
	}

	if format == "binary" {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("Content-Disposition", `attachment; filename="speech.mp3"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(audio); err != nil {
			slog.Error("failed to write audio response", "error", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"audio_data":  base64.StdEncoding.EncodeToString(audio),
		"format":      "base64",
		"voice_type":  synthReq.VoiceType,
		"text_length": len(req.Text),
	})
}

func (s *Server) handleVoices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"voices":        s.tts.Voices(),
		"default_voice": s.tts.DefaultVoice(),
	})
}

type voiceTestRequest struct {
	Text string `json:"text"`
}

type voiceTestResult struct {
	Success   bool   `json:"success"`
	AudioSize int    `json:"audio_size,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleVoiceTest(w http.ResponseWriter, r *http.Request) {
	var req voiceTestRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Text == "" {
		req.Text = "Hello! I'm here to help you practice for your upcoming interview."
	}

	results := make(map[string]voiceTestResult, len(s.tts.Voices()))
	for name := range s.tts.Voices() {
		audio, err := s.tts.Synthesize(r.Context(), synthesizer.Request{
			Text:         req.Text,
			VoiceType:    name,
			SpeakingRate: defaultSpeakingRate,
		})
		if err != nil {
			results[name] = voiceTestResult{Error: err.Error()}
			continue
		}
		results[name] = voiceTestResult{Success: true, AudioSize: len(audio)}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"test_results": results,
		"test_text":    req.Text,
	})
}

func (s *Server) handleTTSHealth(w http.ResponseWriter, r *http.Request) {
	audio, err := s.tts.Synthesize(r.Context(), synthesizer.Request{
		Text:         "Hello",
		SpeakingRate: defaultSpeakingRate,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"status":  "unhealthy",
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"status":          "healthy",
		"service":         "Google Cloud Text-to-Speech",
		"test_audio_size": len(audio),
	})
}
