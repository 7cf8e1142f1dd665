package relay

import (
	"github.com/hireloop/interviewai/internal/config"
	"github.com/hireloop/interviewai/internal/telephony"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Relay, error) {
		c := do.MustInvoke[*config.Config](i)
		caller := do.MustInvoke[telephony.Caller](i)
		return NewRelay(caller, c.RelayTargetNumber), nil
	})
}
