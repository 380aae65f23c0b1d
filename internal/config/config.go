package config

import (
	"fmt"
	"log/slog"
	"net"
	"time"

	env "github.com/Netflix/go-env"
)

// Config aggregates runtime settings loaded from environment variables.
type Config struct {
	HTTPHost        string        `env:"HOST,default=0.0.0.0"`
	HTTPPort        string        `env:"PORT,default=8000"`
	ServiceName     string        `env:"SERVICE_NAME,default=relay"`
	LogLevel        string        `env:"LOG_LEVEL,default=info"`
	LogFormat       string        `env:"LOG_FORMAT,default=console"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

	// Listener queue capacity; a listener whose queue is full on publish is evicted.
	ListenerBufferSize int           `env:"LISTENER_BUFFER_SIZE,default=100"`
	HeartbeatInterval  time.Duration `env:"HEARTBEAT_INTERVAL,default=20s"`

	CORSAllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS,default=true"`
	MetricsEnabled       bool   `env:"METRICS_ENABLED,default=true"`
	MaintenanceFlag      string `env:"MAINTENANCE_FLAG"`
}

// Load builds a Config from the process environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ListenerBufferSize < 1 {
		return fmt.Errorf("LISTENER_BUFFER_SIZE must be at least 1, got %d", c.ListenerBufferSize)
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("HEARTBEAT_INTERVAL must be positive, got %s", c.HeartbeatInterval)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// Level parses LogLevel into a slog level.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.HTTPHost, c.HTTPPort)
}
