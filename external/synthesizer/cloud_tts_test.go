package synthesizer

import (
	"context"
	"strings"
	"testing"

	"github.com/hireloop/interviewai/internal/synthesizer"
)

func newTestSynthesizer(t *testing.T) *CloudTTSSynthesizer {
	t.Helper()
	s, err := NewCloudTTSSynthesizer(CloudTTSConfig{DefaultVoice: "neural2_male_indian"})
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
	return s.(*CloudTTSSynthesizer)
}

func TestNewCloudTTSSynthesizerRejectsUnknownDefault(t *testing.T) {
	if _, err := NewCloudTTSSynthesizer(CloudTTSConfig{DefaultVoice: "nonexistent"}); err == nil {
		t.Fatal("expected error for unknown default voice")
	}
}

func TestResolveVoiceFallsBackToDefault(t *testing.T) {
	s := newTestSynthesizer(t)

	if got := s.resolveVoice("wavenet_female_indian"); got.Name != "en-IN-Wavenet-B" {
		t.Fatalf("unexpected voice: %+v", got)
	}
	if got := s.resolveVoice("nonexistent"); got.Name != "en-IN-Neural2-A" {
		t.Fatalf("unknown voice should fall back to default, got %+v", got)
	}
	if got := s.resolveVoice(""); got.Name != "en-IN-Neural2-A" {
		t.Fatalf("empty voice should fall back to default, got %+v", got)
	}
}

func TestSynthesizeRejectsInvalidParamsBeforeVendorCall(t *testing.T) {
	s := newTestSynthesizer(t)

	_, err := s.Synthesize(context.Background(), synthesizer.Request{
		Text:         "hello",
		SpeakingRate: 10.0,
		Pitch:        0,
		VolumeGainDB: 0,
	})
	if err == nil || !strings.Contains(err.Error(), "speaking rate") {
		t.Fatalf("expected speaking rate validation error, got %v", err)
	}
}

func TestVoicesReturnsACopy(t *testing.T) {
	s := newTestSynthesizer(t)
	voices := s.Voices()
	if len(voices) != 8 {
		t.Fatalf("expected 8 voice presets, got %d", len(voices))
	}
	delete(voices, "neural2_male_indian")
	if _, ok := s.Voices()["neural2_male_indian"]; !ok {
		t.Fatal("mutating the returned map must not affect presets")
	}
	if s.DefaultVoice() != "neural2_male_indian" {
		t.Fatalf("unexpected default voice %q", s.DefaultVoice())
	}
}
