package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/memorytrail/internal/adapter/metrics"
	"github.com/pscheid92/memorytrail/internal/domain"
	"github.com/pscheid92/memorytrail/internal/kiosk"
	"github.com/pscheid92/memorytrail/internal/platform/config"
)

type kioskController interface {
	Dispatch(ctx context.Context, ev domain.Event) (kiosk.Result, error)
	State(ctx context.Context) (domain.View, error)
	Subscribe(ctx context.Context) (<-chan domain.View, func(), error)
}

// Server is the loopback presentation bridge. It only forwards inbound
// events to the controller and reflects its state back.
type Server struct {
	echo   *echo.Echo
	config *config.Config

	kiosk   kioskController
	content domain.Content
	clock   clockwork.Clock

	registry     *prometheus.Registry
	httpMetrics  *metrics.HTTPMetrics
	wsMetrics    *metrics.WebSocketMetrics
	upgrader     websocket.Upgrader
	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, ctrl kioskController, content domain.Content, clock clockwork.Clock, reg *prometheus.Registry, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		kiosk:        ctrl,
		content:      content,
		clock:        clock,
		registry:     reg,
		httpMetrics:  metrics.NewHTTPMetrics(reg),
		wsMetrics:    metrics.NewWebSocketMetrics(reg),
		healthChecks: healthChecks,
		startTime:    clock.Now(),
	}
	srv.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     newCheckOrigin(cfg.ListenAddr),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting presentation bridge", "addr", s.config.ListenAddr)
	if err := s.echo.Start(s.config.ListenAddr); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
