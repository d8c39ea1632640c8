package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/joho/godotenv"
	"github.com/pscheid92/memorytrail/internal/platform/logging"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv     string `env:"APP_ENV" default:"development"`
	ListenAddr string `env:"LISTEN_ADDR" default:"127.0.0.1:8080"`
	LogLevel   string `env:"LOG_LEVEL" default:"info"`
	LogFormat  string `env:"LOG_FORMAT" default:"text"`

	// StrictContract turns store/controller desynchronisation into a crash. Debug only.
	StrictContract bool `env:"KIOSK_STRICT" default:"false"`

	EventRatePerSecond float64 `env:"EVENT_RATE_PER_SECOND" default:"10"`
	EventRateBurst     int     `env:"EVENT_RATE_BURST" default:"20"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) IsDevelopment() bool { return c.AppEnv == "development" }

func validate(cfg *Config) error {
	if err := requireLoopback(cfg.ListenAddr); err != nil {
		return err
	}

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.EventRatePerSecond <= 0 {
		return errors.New("EVENT_RATE_PER_SECOND must be positive")
	}
	if cfg.EventRateBurst < 1 {
		return errors.New("EVENT_RATE_BURST must be at least 1")
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}

	return nil
}

// requireLoopback keeps the presentation bridge off the network: visit data
// must never leave the kiosk machine.
func requireLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("LISTEN_ADDR must be host:port: %w", err)
	}
	if host == "localhost" {
		return nil
	}
	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("LISTEN_ADDR must bind a loopback address, got %q", host)
	}
	return nil
}
