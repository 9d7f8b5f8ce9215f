package config

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
)

// Environment variables with defaults
type ServerEnvironment struct {

	// http server settings
	Environment           string        `env:"ENVIRONMENT,default=dev"`
	Host                  string        `env:"HOST,default=0.0.0.0"`
	Port                  int           `env:"PORT,default=3000"`
	LogLevel              string        `env:"LOG_LEVEL,default=debug"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s"`
	ReadTimeout           time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout          time.Duration `env:"WRITE_TIMEOUT,default=15s"`
	IdleTimeout           time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	RateLimitRPS          int32         `env:"RATE_LIMIT_RPS,default=100"`
	RateLimitBurst        int32         `env:"RATE_LIMIT_BURST,default=200"`
	MaxRequestBytes       int64         `env:"MAX_REQUEST_BYTES,default=1048576"`

	// protocol settings
	Assets      []string `env:"ASSETS,separator=|,default=0:USDC+"`
	QuoteFeeBps int64    `env:"QUOTE_FEE_BPS,default=10"`

	// rate/APY/supply provider settings
	RateServiceName    string        `env:"RATE_SERVICE_NAME,default=static"`
	RateServiceBaseURL string        `env:"RATE_SERVICE_BASE_URL"`
	ProviderTimeout    time.Duration `env:"PROVIDER_TIMEOUT,default=5s"`

	// database settings (used when RATE_SERVICE_NAME=postgres)
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS,default=4"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS,default=0"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME,default=60m"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME,default=30m"`
	DBConnectTimeout    time.Duration `env:"DB_CONNECT_TIMEOUT,default=5s"`
	DatabasePingTimeout time.Duration `env:"DATABASE_PING_TIMEOUT,default=10s"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"prod":    true,
	"staging": true,
}

var validRateServices = map[string]bool{
	"static":   true,
	"http":     true,
	"postgres": true,
}

// NewServerConfig loads environment variables and returns a ServerEnvironment struct that contains the values
func NewServerConfig() (*ServerEnvironment, error) {
	var cfg ServerEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateConfig checks env variable constraints
func validateConfig(cfg *ServerEnvironment) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}

	if cfg.QuoteFeeBps < 0 || cfg.QuoteFeeBps > 10000 {
		return fmt.Errorf("QUOTE_FEE_BPS must be between 0 and 10000, got %d", cfg.QuoteFeeBps)
	}

	if len(cfg.Assets) == 0 {
		return fmt.Errorf("ASSETS must list at least one asset (index:name)")
	}

	if !validRateServices[cfg.RateServiceName] {
		return fmt.Errorf("invalid RATE_SERVICE_NAME: %s", cfg.RateServiceName)
	}
	if cfg.RateServiceName == "http" && cfg.RateServiceBaseURL == "" {
		return fmt.Errorf("RATE_SERVICE_BASE_URL is required when RATE_SERVICE_NAME=http")
	}
	if cfg.RateServiceName == "postgres" && cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when RATE_SERVICE_NAME=postgres")
	}

	// Validate database pool configuration
	if cfg.DBMaxConnections < 1 {
		return fmt.Errorf("DB_MAX_CONNECTIONS must be at least 1")
	}
	if cfg.DBMinConnections < 0 {
		return fmt.Errorf("DB_MIN_CONNECTIONS must be 0 or greater")
	}
	if cfg.DBMinConnections > cfg.DBMaxConnections {
		return fmt.Errorf("DB_MIN_CONNECTIONS (%d) cannot be greater than DB_MAX_CONNECTIONS (%d)",
			cfg.DBMinConnections, cfg.DBMaxConnections)
	}

	return nil
}
