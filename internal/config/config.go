package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	ManagementChatID int64  `env:"MANAGEMENT_CHAT_ID"`
	AdminUsername    string `env:"ADMIN_USERNAME"`

	MarketAPIBaseURL     string  `env:"MARKET_API_BASE_URL" envDefault:"https://api.vestigelabs.org"`
	MarketAPIKey         string  `env:"MARKET_API_KEY"`
	NetworkID            int     `env:"NETWORK_ID" envDefault:"0"`
	MarketAPITimeoutSecs int     `env:"MARKET_API_TIMEOUT_SECS" envDefault:"15"`
	MarketAPIRPS         float64 `env:"MARKET_API_RPS" envDefault:"5"`
	MarketAPIBurst       int     `env:"MARKET_API_BURST" envDefault:"10"`
	MarketAPIMaxAttempts int     `env:"MARKET_API_MAX_ATTEMPTS" envDefault:"1"`
	DefaultCurrency      string  `env:"DEFAULT_CURRENCY" envDefault:"USD"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	APIKey   string `env:"API_KEY"`

	RedisURL            string `env:"REDIS_URL"`
	CommandCooldownSecs int    `env:"COMMAND_COOLDOWN_SECS" envDefault:"0"`
	UpstreamProbeSecs   int    `env:"UPSTREAM_PROBE_SECS" envDefault:"60"`

	LogLevel       slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	TracingEnabled bool       `env:"TRACING_ENABLED" envDefault:"true"`
	OTLPEndpoint   string     `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return parse(nil)
}

// parse reads environ, or the process environment when environ is nil.
func parse(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.DefaultCurrency = strings.ToUpper(strings.TrimSpace(cfg.DefaultCurrency))
	if cfg.MarketAPIMaxAttempts < 1 {
		cfg.MarketAPIMaxAttempts = 1
	}

	if cfg.TelegramBotToken == "" {
		slog.Warn("TELEGRAM_BOT_TOKEN not set, chat bot disabled")
	}
	if cfg.ManagementChatID == 0 {
		slog.Warn("MANAGEMENT_CHAT_ID not set, admin alerts only logged")
	}
	if cfg.RedisURL == "" && cfg.CommandCooldownSecs > 0 {
		slog.Warn("COMMAND_COOLDOWN_SECS set without REDIS_URL, cooldown disabled")
	}
	return cfg, nil
}

func (c *Config) MarketAPITimeout() time.Duration {
	return time.Duration(c.MarketAPITimeoutSecs) * time.Second
}

func (c *Config) CommandCooldown() time.Duration {
	return time.Duration(c.CommandCooldownSecs) * time.Second
}
