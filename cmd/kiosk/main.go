package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/memorytrail/internal/adapter/httpserver"
	"github.com/pscheid92/memorytrail/internal/adapter/metrics"
	"github.com/pscheid92/memorytrail/internal/content"
	"github.com/pscheid92/memorytrail/internal/kiosk"
	"github.com/pscheid92/memorytrail/internal/platform/config"
	"github.com/pscheid92/memorytrail/internal/platform/logging"
	"github.com/pscheid92/memorytrail/internal/platform/version"
	"github.com/pscheid92/memorytrail/internal/session"
)

func runGracefulShutdown(cfg *config.Config, srv *httpserver.Server, ctrl *kiosk.Controller) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		// Cancels pending timers and wipes the in-memory visit.
		ctrl.Stop()

		close(done)
	}()

	return done
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Kiosk starting", "env", cfg.AppEnv, "addr", cfg.ListenAddr, "build", version.Get().String(), "strict", cfg.StrictContract)

	exhibit := content.Default()
	if err := content.Validate(exhibit); err != nil {
		slog.Error("Invalid exhibit content", "error", err)
		os.Exit(1)
	}

	reg := metrics.NewRegistry()
	kioskMetrics := metrics.NewKioskMetrics(reg)

	store := session.NewStore(exhibit.Quiz)
	ctrl := kiosk.NewController(store, exhibit, clock,
		kiosk.WithRecorder(kioskMetrics),
		kiosk.WithStrictContract(cfg.StrictContract),
	)

	healthChecks := []httpserver.HealthCheck{
		{Name: "kiosk_controller", Check: ctrl.Ping},
	}
	srv := httpserver.NewServer(cfg, ctrl, exhibit, clock, reg, healthChecks)

	done := runGracefulShutdown(cfg, srv, ctrl)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		ctrl.Stop()
		os.Exit(1)
	}

	<-done
	slog.Info("Kiosk stopped")
}
