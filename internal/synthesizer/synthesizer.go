package synthesizer

import (
	"context"
	"fmt"
)

// Google Cloud TTS accepts these ranges; anything outside is rejected
// before the vendor call, never clamped.
const (
	MinSpeakingRate = 0.25
	MaxSpeakingRate = 4.0
	MinPitch        = -20.0
	MaxPitch        = 20.0
	MinVolumeGainDB = -96.0
	MaxVolumeGainDB = 16.0
)

type Request struct {
	Text         string
	VoiceType    string
	SpeakingRate float64
	Pitch        float64
	VolumeGainDB float64
}

func (r *Request) Validate() error {
	if r.Text == "" {
		return fmt.Errorf("text is required")
	}
	if r.SpeakingRate < MinSpeakingRate || r.SpeakingRate > MaxSpeakingRate {
		return fmt.Errorf("speaking rate must be between %v and %v, got %v", MinSpeakingRate, MaxSpeakingRate, r.SpeakingRate)
	}
	if r.Pitch < MinPitch || r.Pitch > MaxPitch {
		return fmt.Errorf("pitch must be between %v and %v, got %v", MinPitch, MaxPitch, r.Pitch)
	}
	if r.VolumeGainDB < MinVolumeGainDB || r.VolumeGainDB > MaxVolumeGainDB {
		return fmt.Errorf("volume gain must be between %v and %v, got %v", MinVolumeGainDB, MaxVolumeGainDB, r.VolumeGainDB)
	}
	return nil
}

type Voice struct {
	LanguageCode string `json:"language_code"`
	Name         string `json:"name"`
	Gender       string `json:"gender"`
}

// Synthesizer converts text to encoded audio bytes. Implementations
// must call Request.Validate before any vendor I/O.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) ([]byte, error)
	Voices() map[string]Voice
	DefaultVoice() string
}
