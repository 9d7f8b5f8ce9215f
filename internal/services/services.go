package services

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reflect-protocol/reflect-api/internal/config"
)

// Services aggregates the data providers used by the API server.
type Services struct {
	Rates  RateProvider
	Stats  StatsProvider
	Events EventSource
}

// NewServices creates provider implementations based on configuration.
// This is the single entry point for initializing all read-side providers.
//
// pool may be nil unless RATE_SERVICE_NAME=postgres.
func NewServices(cfg *config.ServerEnvironment, pool *pgxpool.Pool) (*Services, error) {
	switch cfg.RateServiceName {
	case "static":
		// deterministic in-memory snapshots, for dev and tests
		p := NewStaticProvider(time.Now)
		return &Services{Rates: p, Stats: p, Events: p}, nil

	case "http":
		// remote aggregation service
		p := NewHTTPProvider(cfg.RateServiceBaseURL, &http.Client{Timeout: cfg.ProviderTimeout})
		return &Services{Rates: p, Stats: p, Events: p}, nil

	case "postgres":
		if pool == nil {
			return nil, fmt.Errorf("postgres provider requires a database pool")
		}
		p := NewPostgresProvider(pool)
		return &Services{Rates: p, Stats: p, Events: p}, nil

	default:
		return nil, fmt.Errorf("unsupported rate service name: %s", cfg.RateServiceName)
	}
}
