package transport

import (
	"github.com/hireloop/interviewai/internal/transport"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*WebSocketServer, error) {
		return NewWebSocketServer(), nil
	})
	do.Provide(injector, func(i do.Injector) (transport.Emitter, error) {
		return do.MustInvoke[*WebSocketServer](i), nil
	})
}
