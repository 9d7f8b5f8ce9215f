package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/reflect-protocol/reflect-api/internal/config"
	"github.com/reflect-protocol/reflect-api/internal/database"
	"github.com/reflect-protocol/reflect-api/internal/logger"
	"github.com/reflect-protocol/reflect-api/internal/server"
	"github.com/reflect-protocol/reflect-api/internal/services"
	"github.com/reflect-protocol/reflect-api/internal/version"
)

//	@title			reflect-server
//	@description	reflect-server is the Reflect protocol API: it quotes mint/redeem/burn
//	@description	operations and constructs the unsigned transactions for them, and serves
//	@description	the exchange rate, APY, supply cap, stats and event read endpoints.
//	@description
//	@description	## Common Error Responses
//	@description	All endpoints may return:
//	@description	- `413` Request body exceeds size limit
//	@description	- `429` Rate limit exceeded
//	@description	- `500` Internal server error
//	@description
//	@description	Individual endpoints document their specific business logic errors.
//	@description
//	@description	## Request Limits
//	@description	All endpoints are protected by:
//	@description	- **Rate limiting**: Configurable requests per second (see env vars) - default 100 rps (set to 0 to disable)
//	@description	- **Request size limits**: Configurable (see env vars) - default 1MB
//	@description
//	@description	Check the X-Max-Request-Size response header for the configured limit.
//	@description
//	@description	The rate limit is set globally and prevents abuse of the service.
//	@description	In production there may be additional protections in place such as per-IP rate limiting provided by the load balancer/reverse proxy.
//	@description
//	@description	## Authentication & Authorization
//	@description
//	@description	The API does not require credentials: all transactions it returns are
//	@description	unsigned descriptors that the caller signs and submits on-chain themselves.
//	@description
//	@license.name	MIT

//	@servers.url			https://api.reflect.example.com
//	@servers.description	Production server
//	@servers.url			http://localhost:3000
//	@servers.description	Development server

//	@accept		json
//	@produce	json

//	@tag.name			Stablecoins
//	@tag.description	Quotes, transaction construction and per-asset read endpoints

//	@tag.name			Integrations
//	@tag.description	Whitelabel partner endpoints

//	@tag.name			Stats
//	@tag.description	Protocol-wide statistics

//	@tag.name			Events
//	@tag.description	Protocol event feed

//	@tag.name			Common
//	@tag.description	Server API endpoints (health, readiness, version, etc.)

func main() {
	cmd := &cobra.Command{
		Use:   "reflect-server",
		Short: "Reflect protocol API server",
		Long:  `reflect-server quotes stablecoin mint/redeem/burn operations, constructs unsigned transactions and serves the protocol read endpoints`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	v := version.Get()
	cmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  `Applies the embedded schema migrations to the database named by DATABASE_URL`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations()
		},
	})

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewServerConfig()
	if err != nil {
		log.Printf("failed to load configuration: %v", err.Error())
		os.Exit(1)
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	appLogger.Info("Configuration loaded",
		slog.String("ENVIRONMENT", cfg.Environment),
		slog.String("HOST", cfg.Host),
		slog.Int("PORT", cfg.Port),
		slog.String("LOG_LEVEL", cfg.LogLevel),
		slog.String("RATE_SERVICE_NAME", cfg.RateServiceName),
		slog.Any("ASSETS", cfg.Assets),
		slog.Int64("QUOTE_FEE_BPS", cfg.QuoteFeeBps),
	)

	// the pool is only needed when the providers read from postgres
	var pool *pgxpool.Pool
	if cfg.RateServiceName == "postgres" {
		dbCtx, dbCancel := context.WithTimeout(context.Background(), cfg.DatabasePingTimeout)
		defer dbCancel()

		pool, err = database.NewPool(dbCtx, cfg)
		if err != nil {
			appLogger.Error("Failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		appLogger.Info("connected to PostgreSQL")
	}

	svcs, err := services.NewServices(cfg, pool)
	if err != nil {
		appLogger.Error("Failed to initialize providers", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appLogger.Info("Starting server", slog.String("version", version.Get().Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer(pool, svcs, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer srv.DatabaseShutdown()

	if err := srv.Start(ctx); err != nil {
		appLogger.Error("Server error", slog.String("error", err.Error()))
		return err
	}

	appLogger.Info("server shutdown complete")
	return nil
}

func runMigrations() error {
	cfg, err := config.NewServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required to run migrations")
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, cfg.DatabaseURL); err != nil {
		return err
	}

	appLogger.Info("migrations applied")
	return nil
}
