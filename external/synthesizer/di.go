package synthesizer

import (
	"github.com/hireloop/interviewai/internal/config"
	"github.com/hireloop/interviewai/internal/synthesizer"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (synthesizer.Synthesizer, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewCloudTTSSynthesizer(CloudTTSConfig{
			CredentialsJSON: c.GoogleCloudCredentialsJSON,
			DefaultVoice:    c.DefaultSynthesisVoice,
		})
	})
}
