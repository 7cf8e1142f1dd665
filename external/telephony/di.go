package telephony

import (
	"github.com/hireloop/interviewai/internal/config"
	"github.com/hireloop/interviewai/internal/telephony"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (telephony.Caller, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewTwilioCaller(TwilioConfig{
			AccountSID: c.TwilioAccountSID,
			AuthToken:  c.TwilioAuthToken,
			FromNumber: c.TwilioFromNumber,
		})
	})
}
