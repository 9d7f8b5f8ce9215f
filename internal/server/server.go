package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reflect-protocol/reflect-api/internal/config"
	commonhandlers "github.com/reflect-protocol/reflect-api/internal/server/handlers"
	"github.com/reflect-protocol/reflect-api/internal/server/middleware"
	"github.com/reflect-protocol/reflect-api/internal/services"
	"github.com/reflect-protocol/reflect-api/internal/stablecoin"
	"github.com/reflect-protocol/reflect-api/internal/stablecoin/handlers"
	"github.com/reflect-protocol/reflect-api/internal/version"
)

type Server struct {
	pool     *pgxpool.Pool
	config   *config.ServerEnvironment
	logger   *slog.Logger
	router   *chi.Mux
	services *services.Services
	registry *stablecoin.Registry
}

func NewServer(
	pool *pgxpool.Pool,
	svcs *services.Services,
	cfg *config.ServerEnvironment,
	logger *slog.Logger,
) (*Server, error) {
	assets, err := stablecoin.ParseAssetList(cfg.Assets)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ASSETS: %w", err)
	}

	server := &Server{
		pool:     pool,
		config:   cfg,
		logger:   logger,
		router:   chi.NewRouter(),
		services: svcs,
		registry: stablecoin.NewRegistry(assets),
	}

	server.setupMiddleware()
	server.registerRoutes()

	return server, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.RequestLogging(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.Timeout(60 * time.Second))
	s.router.Use(middleware.SecurityHeaders(s.config.Environment))
	s.router.Use(middleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
	s.router.Use(middleware.RequestSizeLimit(s.config.MaxRequestBytes))
}

func (s *Server) registerRoutes() {
	feeBps := s.config.QuoteFeeBps
	timeout := s.config.ProviderTimeout

	quoteHandler := handlers.NewQuoteHandler(s.services.Rates, s.registry, feeBps, timeout)
	txHandler := handlers.NewTransactionHandler(s.services.Rates, s.registry, feeBps, timeout)
	ratesHandler := handlers.NewRatesHandler(s.services.Rates, s.registry, timeout)
	apyHandler := handlers.NewAPYHandler(s.services.Rates, s.registry, timeout)
	limitsHandler := handlers.NewLimitsHandler(s.services.Rates, s.registry, timeout)
	assetsHandler := handlers.NewAssetsHandler(s.registry)
	integrationHandler := handlers.NewIntegrationHandler(s.services.Rates, s.registry, feeBps, timeout)
	statsHandler := handlers.NewStatsHandler(s.services.Stats, timeout)
	eventsHandler := handlers.NewEventsHandler(s.services.Events, timeout)

	s.router.Get("/health/live", commonhandlers.HandleHealth)
	s.router.Get("/ready", commonhandlers.HandleReadiness(s.pool))

	v := version.Get()
	s.router.Get("/version", commonhandlers.HandleVersion(v.Version, v.BuildDate))

	s.router.Route("/stablecoins", func(r chi.Router) {
		r.Get("/", assetsHandler.HandleList)
		r.Post("/quote", quoteHandler.HandleQuote)
		r.Post("/mint/tx", txHandler.HandleMintTx)
		r.Post("/burn/tx", txHandler.HandleBurnTx)
		r.Get("/exchange-rates/historical", ratesHandler.HandleHistoricalRates)
		r.Get("/apy", apyHandler.HandleAllAPY)
		r.Get("/limits", limitsHandler.HandleAllLimits)
		r.Get("/{stablecoinIndex}/exchange-rate", ratesHandler.HandleCurrentRate)
		r.Get("/{stablecoinIndex}/apy", apyHandler.HandleCurrentAPY)
		r.Get("/{stablecoinIndex}/apy/historical", apyHandler.HandleHistoricalAPY)
		r.Get("/{stablecoinIndex}/limits", limitsHandler.HandleLimits)
	})

	s.router.Route("/integrations", func(r chi.Router) {
		r.Post("/mint/tx", integrationHandler.HandleMintTx)
		r.Post("/redeem/tx", integrationHandler.HandleRedeemTx)
		r.Post("/claim/tx", integrationHandler.HandleClaimTx)
		r.Get("/{stablecoinIndex}/exchange-rate", integrationHandler.HandleExchangeRate)
	})

	s.router.Route("/stats", func(r chi.Router) {
		r.Get("/protocol", statsHandler.HandleProtocolStats)
		r.Get("/historical", statsHandler.HandleHistoricalStats)
	})

	s.router.Route("/events", func(r chi.Router) {
		r.Get("/recent", eventsHandler.HandleRecentEvents)
		r.Get("/signer/{signer}", eventsHandler.HandleEventsBySigner)
	})
}

// Router exposes the configured router, used by the handler tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	serverAddr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("service listening",
			slog.String("environment", s.config.Environment),
			slog.String("address", serverAddr))

		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.config.ServerShutdownTimeout)
	defer shutdownCancel()

	s.logger.Info("shutting down HTTP server")

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Warn("HTTP server shutdown error",
			slog.String("error", err.Error()))
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}

func (s *Server) DatabaseShutdown() {
	if s.pool != nil {
		s.pool.Close()
		s.logger.Info("database connection closed")
	}
}
