package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env      string
	HTTPAddr string

	DefaultTranscribeLanguage string
	AudioSampleRateHertz      int
	MinAudioChunkBytes        int
	AudioQueueCapacity        int
	QueuePollTimeout          time.Duration
	DrainPollTimeout          time.Duration
	WorkerJoinTimeout         time.Duration
	DrainGracePeriod          time.Duration

	DatabaseURL string

	GoogleCloudProjectID       string
	GoogleCloudCredentialsJSON string
	GoogleCloudSpeechLocation  string
	GoogleCloudSpeechModel     string

	OpenAIAPIKey string
	OpenAIModel  string

	DefaultSynthesisVoice string

	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFromNumber  string
	RelayTargetNumber string

	ProfilingSessionMaxAge time.Duration
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.AudioSampleRateHertz <= 0 {
		return fmt.Errorf("AUDIO_SAMPLE_RATE_HERTZ must be positive, got %d", c.AudioSampleRateHertz)
	}
	if c.MinAudioChunkBytes < 0 {
		return fmt.Errorf("MIN_AUDIO_CHUNK_BYTES must not be negative, got %d", c.MinAudioChunkBytes)
	}
	if c.AudioQueueCapacity <= 0 {
		return fmt.Errorf("AUDIO_QUEUE_CAPACITY must be positive, got %d", c.AudioQueueCapacity)
	}
	for _, d := range c.requiredTimeoutChecks() {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive, got %v", d.name, d.value)
		}
	}
	if c.DrainPollTimeout > c.QueuePollTimeout {
		return fmt.Errorf("DRAIN_POLL_TIMEOUT_MS must not exceed QUEUE_POLL_TIMEOUT_MS")
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "HTTP_ADDR", value: c.HTTPAddr},
		{name: "DEFAULT_TRANSCRIBE_LANGUAGE", value: c.DefaultTranscribeLanguage},
		{name: "DATABASE_URL", value: c.DatabaseURL},
		{name: "GOOGLE_CLOUD_PROJECT_ID", value: c.GoogleCloudProjectID},
		{name: "GOOGLE_CLOUD_CREDENTIALS_JSON", value: c.GoogleCloudCredentialsJSON},
		{name: "OPENAI_API_KEY", value: c.OpenAIAPIKey},
		{name: "OPENAI_MODEL", value: c.OpenAIModel},
		{name: "DEFAULT_SYNTHESIS_VOICE", value: c.DefaultSynthesisVoice},
	}
}

type requiredTimeoutField struct {
	name  string
	value time.Duration
}

func (c *Config) requiredTimeoutChecks() []requiredTimeoutField {
	return []requiredTimeoutField{
		{name: "QUEUE_POLL_TIMEOUT_MS", value: c.QueuePollTimeout},
		{name: "DRAIN_POLL_TIMEOUT_MS", value: c.DrainPollTimeout},
		{name: "WORKER_JOIN_TIMEOUT_MS", value: c.WorkerJoinTimeout},
		{name: "DRAIN_GRACE_PERIOD_MS", value: c.DrainGracePeriod},
		{name: "PROFILING_SESSION_MAX_AGE_MIN", value: c.ProfilingSessionMaxAge},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
