package httpapi

import (
	"github.com/hireloop/interviewai/external/transport"
	"github.com/hireloop/interviewai/internal/config"
	"github.com/hireloop/interviewai/internal/profile"
	"github.com/hireloop/interviewai/internal/relay"
	"github.com/hireloop/interviewai/internal/repository"
	"github.com/hireloop/interviewai/internal/synthesizer"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewServer(
			do.MustInvoke[*profile.Controller](i),
			do.MustInvoke[*profile.Extractor](i),
			do.MustInvoke[synthesizer.Synthesizer](i),
			do.MustInvoke[repository.Repository](i),
			do.MustInvoke[*relay.Relay](i),
			do.MustInvoke[*transport.WebSocketServer](i),
			cfg.ProfilingSessionMaxAge,
		), nil
	})
}
