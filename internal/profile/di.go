package profile

import (
	"github.com/hireloop/interviewai/internal/chat"
	"github.com/hireloop/interviewai/internal/repository"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Controller, error) {
		chatClient := do.MustInvoke[chat.Client](i)
		repo := do.MustInvoke[repository.Repository](i)
		return NewController(chatClient, repo), nil
	})
	do.Provide(injector, func(i do.Injector) (*Extractor, error) {
		return NewExtractor(do.MustInvoke[chat.Client](i)), nil
	})
}
