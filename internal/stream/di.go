package stream

import (
	"github.com/hireloop/interviewai/internal/config"
	"github.com/hireloop/interviewai/internal/transcriber"
	"github.com/hireloop/interviewai/internal/transport"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Registry, error) {
		cfg := do.MustInvoke[*config.Config](i)
		stt := do.MustInvoke[transcriber.Transcriber](i)
		emitter := do.MustInvoke[transport.Emitter](i)
		return NewRegistry(cfg, stt, emitter), nil
	})
}
