package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	ProviderAnthropic = "anthropic"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	LogLevel       string   `mapstructure:"LOG_LEVEL"`
	StorageDriver  string   `mapstructure:"STORAGE_DRIVER"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	DBConnectWait  string   `mapstructure:"DB_CONNECT_TIMEOUT"`
	SeedFile       string   `mapstructure:"SEED_FILE"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RequestTimeout string   `mapstructure:"REQUEST_TIMEOUT"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
	AIRateRPS      float64  `mapstructure:"AI_RATE_LIMIT_RPS"`
	AIRateBurst    int      `mapstructure:"AI_RATE_LIMIT_BURST"`

	AIProvider      string `mapstructure:"AI_PROVIDER"`
	AnthropicAPIKey string `mapstructure:"ANTHROPIC_API_KEY"`
	AnthropicURL    string `mapstructure:"ANTHROPIC_BASE_URL"`
	AIModel         string `mapstructure:"AI_MODEL"`
	AIMaxTokens     int64  `mapstructure:"AI_MAX_TOKENS"`

	OTelEnabled  bool   `mapstructure:"OTEL_ENABLED"`
	OTelStdout   bool   `mapstructure:"OTEL_STDOUT"`
	OTelEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL",
	"STORAGE_DRIVER", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS", "DB_CONNECT_TIMEOUT", "SEED_FILE",
	"CORS_ORIGINS", "REQUEST_TIMEOUT",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "AI_RATE_LIMIT_RPS", "AI_RATE_LIMIT_BURST",
	"AI_PROVIDER", "ANTHROPIC_API_KEY", "ANTHROPIC_BASE_URL", "AI_MODEL", "AI_MAX_TOKENS",
	"OTEL_ENABLED", "OTEL_STDOUT", "OTEL_EXPORTER_OTLP_ENDPOINT",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DB_CONNECT_TIMEOUT", "30s")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("AI_RATE_LIMIT_RPS", 1)
	v.SetDefault("AI_RATE_LIMIT_BURST", 5)
	v.SetDefault("AI_PROVIDER", ProviderAnthropic)
	v.SetDefault("AI_MODEL", "claude-3-5-haiku-latest")
	v.SetDefault("AI_MAX_TOKENS", 2048)

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// .env is optional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// viper splits on commas but keeps the surrounding spaces.
	cfg.CORSOrigins = splitList(strings.Join(cfg.CORSOrigins, ","))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Timeout returns the per-request deadline applied by the HTTP server.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

func (c *Config) ConnectTimeout() time.Duration {
	d, err := time.ParseDuration(c.DBConnectWait)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER is %q", StoragePostgres)
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageMemory, StoragePostgres, c.StorageDriver)
	}

	if c.AIProvider != ProviderAnthropic {
		return fmt.Errorf("AI_PROVIDER %q is not supported", c.AIProvider)
	}
	if !c.IsDev() && c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required outside development")
	}
	if c.AIMaxTokens <= 0 {
		return fmt.Errorf("AI_MAX_TOKENS must be positive, got %d", c.AIMaxTokens)
	}

	if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
		return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}
	if _, err := time.ParseDuration(c.DBConnectWait); err != nil {
		return fmt.Errorf("DB_CONNECT_TIMEOUT: %w", err)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
