package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chatimpl "github.com/hireloop/interviewai/external/chat"
	configloader "github.com/hireloop/interviewai/external/config"
	"github.com/hireloop/interviewai/external/httpapi"
	repositoryimpl "github.com/hireloop/interviewai/external/repository"
	synthesizerimpl "github.com/hireloop/interviewai/external/synthesizer"
	telephonyimpl "github.com/hireloop/interviewai/external/telephony"
	transcriberimpl "github.com/hireloop/interviewai/external/transcriber"
	transportimpl "github.com/hireloop/interviewai/external/transport"
	"github.com/hireloop/interviewai/internal/config"
	"github.com/hireloop/interviewai/internal/profile"
	"github.com/hireloop/interviewai/internal/relay"
	"github.com/hireloop/interviewai/internal/stream"
	"github.com/samber/do/v2"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching http server", "addr", cfg.HTTPAddr)
	runServer(cfg, injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	transcriberimpl.RegisterDI(injector)
	transportimpl.RegisterDI(injector)
	chatimpl.RegisterDI(injector)
	synthesizerimpl.RegisterDI(injector)
	telephonyimpl.RegisterDI(injector)
	stream.RegisterDI(injector)
	profile.RegisterDI(injector)
	relay.RegisterDI(injector)
	httpapi.RegisterDI(injector)

	return injector
}

func runServer(cfg *config.Config, injector do.Injector) {
	registry, err := do.Invoke[*stream.Registry](injector)
	if err != nil {
		slog.Error("failed to resolve stream registry", "error", err)
		os.Exit(1)
	}
	wsServer, err := do.Invoke[*transportimpl.WebSocketServer](injector)
	if err != nil {
		slog.Error("failed to resolve websocket server", "error", err)
		os.Exit(1)
	}
	wsServer.AttachHandler(registry)

	apiServer, err := do.Invoke[*httpapi.Server](injector)
	if err != nil {
		slog.Error("failed to resolve http api", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: apiServer.Routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
