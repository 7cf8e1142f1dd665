package chat

import (
	"github.com/hireloop/interviewai/internal/chat"
	"github.com/hireloop/interviewai/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (chat.Client, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewOpenAIClient(c.OpenAIAPIKey, c.OpenAIModel)
	})
}
