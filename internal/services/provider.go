// Package services provides the read-side data providers the API depends
// on: exchange rates, APY, supply caps, protocol statistics and protocol
// events.
//
// The quote engine treats these as external collaborators that may be slow
// or unavailable; callers apply a bounded timeout and surface failures as
// upstream errors rather than crashing.
//
// To add support for a new provider backend:
//  1. Create a new type that implements the provider interfaces
//  2. Add a case for it in NewServices() based on the service name
package services

import (
	"context"
	"errors"
	"time"

	"github.com/reflect-protocol/reflect-api/internal/stablecoin"
)

// Common errors
var (
	// ErrNotFound indicates the provider has no data for the requested
	// asset. Handlers map it to a 404; any other provider error maps to an
	// upstream failure.
	ErrNotFound = errors.New("not found")
)

// RateProvider supplies exchange rate, APY and supply cap snapshots.
//
// Historical queries return snapshots ordered oldest first (newest last).
// The day-count parameter is validated by the caller before the provider is
// consulted.
type RateProvider interface {
	CurrentRate(ctx context.Context, stablecoinIndex int) (stablecoin.ExchangeRateSnapshot, error)
	HistoricalRates(ctx context.Context, stablecoinIndex, days int) ([]stablecoin.ExchangeRateSnapshot, error)

	CurrentAPY(ctx context.Context, stablecoinIndex int) (stablecoin.ApySnapshot, error)
	AllAPY(ctx context.Context) ([]stablecoin.ApySnapshot, error)
	HistoricalAPY(ctx context.Context, stablecoinIndex, days int) ([]stablecoin.ApySnapshot, error)

	SupplyCap(ctx context.Context, stablecoinIndex int) (stablecoin.SupplyCap, error)
	SupplyCaps(ctx context.Context) ([]stablecoin.SupplyCap, error)
}

// ProtocolStats aggregates protocol-wide mint/redeem totals.
type ProtocolStats struct {
	TotalMinted   int64
	TotalRedeemed int64
}

// StatsPoint is one day of historical TVL and volume.
type StatsPoint struct {
	Timestamp time.Time
	TVL       int64
	Volume    int64
}

// StatsProvider supplies protocol-wide statistics.
type StatsProvider interface {
	GetProtocolStats(ctx context.Context) (ProtocolStats, error)
	HistoricalStats(ctx context.Context, days int) ([]StatsPoint, error)
}

// Event is a protocol event (mint, redeem, burn) observed on chain.
type Event struct {
	ID              string
	Kind            string
	StablecoinIndex int
	Signer          string
	Amount          int64
	Timestamp       time.Time
}

// EventSource supplies recent protocol events.
type EventSource interface {
	RecentEvents(ctx context.Context, limit int) ([]Event, error)
	EventsBySigner(ctx context.Context, signer string, limit int) ([]Event, error)
}
