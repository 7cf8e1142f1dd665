package synthesizer

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/auth/credentials"
	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	texttospeechpb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/hireloop/interviewai/internal/synthesizer"
	"google.golang.org/api/option"
)

const (
	synthesisSampleRateHertz = 24000
	effectsProfile           = "headphone-class-device"
)

// voicePresets maps the short voice names exposed to clients onto
// Google Cloud en-IN voices.
var voicePresets = map[string]synthesizer.Voice{
	"wavenet_male_indian":     {LanguageCode: "en-IN", Name: "en-IN-Wavenet-A", Gender: "male"},
	"wavenet_female_indian":   {LanguageCode: "en-IN", Name: "en-IN-Wavenet-B", Gender: "female"},
	"wavenet_female_indian_2": {LanguageCode: "en-IN", Name: "en-IN-Wavenet-C", Gender: "female"},
	"wavenet_male_indian_2":   {LanguageCode: "en-IN", Name: "en-IN-Wavenet-D", Gender: "male"},
	"neural2_male_indian":     {LanguageCode: "en-IN", Name: "en-IN-Neural2-A", Gender: "male"},
	"neural2_female_indian":   {LanguageCode: "en-IN", Name: "en-IN-Neural2-B", Gender: "female"},
	"neural2_male_indian_2":   {LanguageCode: "en-IN", Name: "en-IN-Neural2-C", Gender: "male"},
	"neural2_female_indian_2": {LanguageCode: "en-IN", Name: "en-IN-Neural2-D", Gender: "female"},
}

type CloudTTSConfig struct {
	CredentialsJSON string
	DefaultVoice    string
}

type CloudTTSSynthesizer struct {
	credentialsJSON string
	defaultVoice    string
}

func NewCloudTTSSynthesizer(cfg CloudTTSConfig) (synthesizer.Synthesizer, error) {
	defaultVoice := cfg.DefaultVoice
	if _, ok := voicePresets[defaultVoice]; !ok {
		return nil, fmt.Errorf("unknown default voice %q", defaultVoice)
	}
	return &CloudTTSSynthesizer{
		credentialsJSON: cfg.CredentialsJSON,
		defaultVoice:    defaultVoice,
	}, nil
}

func (s *CloudTTSSynthesizer) Synthesize(ctx context.Context, req synthesizer.Request) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	voice := s.resolveVoice(req.VoiceType)

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: []byte(s.credentialsJSON),
		Scopes:          []string{"https://www.googleapis.com/auth/cloud-platform"},
	})
	if err != nil {
		return nil, fmt.Errorf("detect credentials: %w", err)
	}
	client, err := texttospeech.NewClient(ctx, option.WithAuthCredentials(creds))
	if err != nil {
		return nil, err
	}
	defer client.Close()

	resp, err := client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: req.Text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: voice.LanguageCode,
			Name:         voice.Name,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding:    texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:     req.SpeakingRate,
			Pitch:            req.Pitch,
			VolumeGainDb:     req.VolumeGainDB,
			SampleRateHertz:  synthesisSampleRateHertz,
			EffectsProfileId: []string{effectsProfile},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	slog.Info("synthesized speech", "voice", voice.Name, "text_length", len(req.Text), "audio_bytes", len(resp.GetAudioContent()))
	return resp.GetAudioContent(), nil
}

// resolveVoice falls back to the configured default when the requested
// preset is unknown. Bad voice names are not an error.
func (s *CloudTTSSynthesizer) resolveVoice(voiceType string) synthesizer.Voice {
	if voiceType == "" {
		voiceType = s.defaultVoice
	}
	voice, ok := voicePresets[voiceType]
	if !ok {
		slog.Warn("unknown voice type, using default", "requested", voiceType, "default", s.defaultVoice)
		return voicePresets[s.defaultVoice]
	}
	return voice
}

func (s *CloudTTSSynthesizer) Voices() map[string]synthesizer.Voice {
	out := make(map[string]synthesizer.Voice, len(voicePresets))
	for name, voice := range voicePresets {
		out[name] = voice
	}
	return out
}

func (s *CloudTTSSynthesizer) DefaultVoice() string {
	return s.defaultVoice
}
