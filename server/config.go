package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries the environment-driven settings for the server binary.
type Config struct {
	// ServerName is reported in the initialize result.
	ServerName string `env:"ALPS_MCP_SERVER_NAME" envDefault:"alps-mcp"`

	// LogFile, when set, receives server logs. When empty, logs are
	// discarded: stdout belongs to the wire and stderr may be captured by
	// the host process.
	LogFile string `env:"ALPS_MCP_LOG_FILE"`

	// KeepaliveInterval is the idle timeout before a keepalive ping.
	KeepaliveInterval time.Duration `env:"ALPS_MCP_KEEPALIVE_INTERVAL" envDefault:"30s"`
}

// LoadConfig parses the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment config: %w", err)
	}
	if cfg.KeepaliveInterval <= 0 {
		cfg.KeepaliveInterval = DefaultKeepaliveInterval
	}
	return cfg, nil
}
