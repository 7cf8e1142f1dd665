package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/hireloop/interviewai/internal/config"
)

type envConfig struct {
	Env      string `env:"ENV" envDefault:"production"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":5000"`

	DefaultTranscribeLanguage string `env:"DEFAULT_TRANSCRIBE_LANGUAGE" envDefault:"en-US"`
	AudioSampleRateHertz      int    `env:"AUDIO_SAMPLE_RATE_HERTZ" envDefault:"16000"`
	MinAudioChunkBytes        int    `env:"MIN_AUDIO_CHUNK_BYTES" envDefault:"500"`
	AudioQueueCapacity        int    `env:"AUDIO_QUEUE_CAPACITY" envDefault:"256"`
	QueuePollTimeoutMS        int    `env:"QUEUE_POLL_TIMEOUT_MS" envDefault:"1000"`
	DrainPollTimeoutMS        int    `env:"DRAIN_POLL_TIMEOUT_MS" envDefault:"250"`
	WorkerJoinTimeoutMS       int    `env:"WORKER_JOIN_TIMEOUT_MS" envDefault:"2000"`
	DrainGracePeriodMS        int    `env:"DRAIN_GRACE_PERIOD_MS" envDefault:"2000"`

	DatabaseURL string `env:"DATABASE_URL,required"`

	GoogleCloudProjectID       string `env:"GOOGLE_CLOUD_PROJECT_ID,required"`
	GoogleCloudCredentialsJSON string `env:"GOOGLE_CLOUD_CREDENTIALS_JSON,required"`
	GoogleCloudSpeechLocation  string `env:"GOOGLE_CLOUD_SPEECH_LOCATION" envDefault:"global"`
	GoogleCloudSpeechModel     string `env:"GOOGLE_CLOUD_SPEECH_MODEL" envDefault:"latest_long"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY,required"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	DefaultSynthesisVoice string `env:"DEFAULT_SYNTHESIS_VOICE" envDefault:"neural2_male_indian"`

	TwilioAccountSID  string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber  string `env:"TWILIO_PHONE_NUMBER"`
	RelayTargetNumber string `env:"RELAY_TARGET_PHONE_NUMBER"`

	ProfilingSessionMaxAgeMin int `env:"PROFILING_SESSION_MAX_AGE_MIN" envDefault:"120"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                        raw.Env,
		HTTPAddr:                   raw.HTTPAddr,
		DefaultTranscribeLanguage:  raw.DefaultTranscribeLanguage,
		AudioSampleRateHertz:       raw.AudioSampleRateHertz,
		MinAudioChunkBytes:         raw.MinAudioChunkBytes,
		AudioQueueCapacity:         raw.AudioQueueCapacity,
		QueuePollTimeout:           time.Duration(raw.QueuePollTimeoutMS) * time.Millisecond,
		DrainPollTimeout:           time.Duration(raw.DrainPollTimeoutMS) * time.Millisecond,
		WorkerJoinTimeout:          time.Duration(raw.WorkerJoinTimeoutMS) * time.Millisecond,
		DrainGracePeriod:           time.Duration(raw.DrainGracePeriodMS) * time.Millisecond,
		DatabaseURL:                raw.DatabaseURL,
		GoogleCloudProjectID:       raw.GoogleCloudProjectID,
		GoogleCloudCredentialsJSON: raw.GoogleCloudCredentialsJSON,
		GoogleCloudSpeechLocation:  raw.GoogleCloudSpeechLocation,
		GoogleCloudSpeechModel:     raw.GoogleCloudSpeechModel,
		OpenAIAPIKey:               raw.OpenAIAPIKey,
		OpenAIModel:                raw.OpenAIModel,
		DefaultSynthesisVoice:      raw.DefaultSynthesisVoice,
		TwilioAccountSID:           raw.TwilioAccountSID,
		TwilioAuthToken:            raw.TwilioAuthToken,
		TwilioFromNumber:           raw.TwilioFromNumber,
		RelayTargetNumber:          raw.RelayTargetNumber,
		ProfilingSessionMaxAge:     time.Duration(raw.ProfilingSessionMaxAgeMin) * time.Minute,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
