// Package handlers implements the HTTP handlers for the stablecoin,
// integration, stats and events endpoints.
//
// Handlers follow the same shape throughout: decode, validate, consult a
// provider under a bounded timeout, compute, respond. All domain
// computation lives in the stablecoin package; handlers only translate
// between HTTP and the domain.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/reflect-protocol/reflect-api/internal/services"
	"github.com/reflect-protocol/reflect-api/internal/stablecoin"
)

// Defaults for optional range parameters.
const (
	defaultHistoryDays = 30
	defaultEventLimit  = 20
)

// providerContext bounds a provider call so a slow upstream cannot hold a
// request beyond the configured timeout.
func providerContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// mapProviderError converts provider failures on single-asset lookups:
// missing data becomes AssetNotFound, anything else an upstream failure.
// Collection endpoints treat ErrNotFound as an empty result instead.
func mapProviderError(err error, msg string) error {
	if errors.Is(err, services.ErrNotFound) {
		return stablecoin.NewAssetNotFoundError(stablecoin.MsgAssetNotFound)
	}
	return stablecoin.WrapUpstreamError(err, msg)
}

// parseStablecoinIndex reads the {stablecoinIndex} path parameter. A
// non-numeric or negative index cannot resolve to a known asset.
func parseStablecoinIndex(r *http.Request) (int, error) {
	param := chi.URLParam(r, "stablecoinIndex")
	index, err := strconv.Atoi(param)
	if err != nil || index < 0 {
		return 0, stablecoin.NewAssetNotFoundError(stablecoin.MsgAssetNotFound)
	}
	return index, nil
}

// parseQueryIndex reads the stablecoin query parameter used by the
// historical rates endpoint.
func parseQueryIndex(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("stablecoin")
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, stablecoin.NewAssetNotFoundError(stablecoin.MsgAssetNotFound)
	}
	return index, nil
}

// parseCluster reads the optional cluster query parameter on the
// transaction-construction endpoints. Absent means the signer's default
// network.
func parseCluster(r *http.Request) (string, error) {
	switch cluster := r.URL.Query().Get("cluster"); cluster {
	case "", "mainnet", "devnet":
		return cluster, nil
	default:
		return "", stablecoin.NewInvalidRangeError("Invalid request data: cluster must be mainnet or devnet")
	}
}

// parseDays reads the days query parameter, defaulting when absent.
func parseDays(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return defaultHistoryDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, stablecoin.NewInvalidRangeError("Invalid request data: days must be a positive integer")
	}
	if err := stablecoin.ValidateDayCount(days); err != nil {
		return 0, err
	}
	return days, nil
}

// parseLimit reads the limit query parameter, defaulting when absent.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultEventLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, stablecoin.NewInvalidRangeError("Invalid request data: limit must be a positive integer")
	}
	if err := stablecoin.ValidateLimit(limit); err != nil {
		return 0, err
	}
	return limit, nil
}
