package services

// static.go implements a deterministic in-memory provider. It serves the
// reference snapshot values for USDC+ and is the default backend for dev
// environments and tests.

import (
	"context"
	"fmt"
	"time"

	"github.com/reflect-protocol/reflect-api/internal/stablecoin"
)

// reference values for USDC+ (index 0)
const (
	staticBaseUSDValueBps    = 1016858791
	staticReceiptUSDValueBps = 1016858791
	staticApyBps             = 224
	staticSupplyCap          = 1_000_000_000
	staticCurrentSupply      = 500_000_000

	staticTotalMinted   = 50_000
	staticTotalRedeemed = 10_000
	staticDailyTVL      = 1_000_000
	staticDailyVolume   = 50_000

	// per-day drift applied to historical rate points so consecutive
	// snapshots are distinguishable
	staticRateDriftBps = 4959
)

// StaticProvider serves deterministic snapshots for stablecoin index 0.
// Safe for concurrent use: all state is immutable after construction.
type StaticProvider struct {
	now func() time.Time
}

// NewStaticProvider creates a static provider. now is injected so tests can
// pin timestamps.
func NewStaticProvider(now func() time.Time) *StaticProvider {
	return &StaticProvider{now: now}
}

func (p *StaticProvider) CurrentRate(_ context.Context, stablecoinIndex int) (stablecoin.ExchangeRateSnapshot, error) {
	if stablecoinIndex != 0 {
		return stablecoin.ExchangeRateSnapshot{}, ErrNotFound
	}
	return stablecoin.ExchangeRateSnapshot{
		ID:                 1,
		StablecoinIndex:    stablecoinIndex,
		BaseUSDValueBps:    staticBaseUSDValueBps,
		ReceiptUSDValueBps: staticReceiptUSDValueBps,
		Timestamp:          p.now().UTC(),
	}, nil
}

func (p *StaticProvider) HistoricalRates(_ context.Context, stablecoinIndex, days int) ([]stablecoin.ExchangeRateSnapshot, error) {
	if stablecoinIndex != 0 {
		return nil, ErrNotFound
	}
	now := p.now().UTC()
	rates := make([]stablecoin.ExchangeRateSnapshot, 0, days)
	// oldest first, newest last
	for i := days; i >= 1; i-- {
		drift := int64(i) * staticRateDriftBps
		rates = append(rates, stablecoin.ExchangeRateSnapshot{
			ID:                 int64(days - i + 1),
			StablecoinIndex:    stablecoinIndex,
			BaseUSDValueBps:    staticBaseUSDValueBps - drift,
			ReceiptUSDValueBps: staticReceiptUSDValueBps - drift,
			Timestamp:          now.AddDate(0, 0, -i),
		})
	}
	return rates, nil
}

func (p *StaticProvider) CurrentAPY(_ context.Context, stablecoinIndex int) (stablecoin.ApySnapshot, error) {
	if stablecoinIndex != 0 {
		return stablecoin.ApySnapshot{}, ErrNotFound
	}
	return stablecoin.ApySnapshot{
		StablecoinIndex: stablecoinIndex,
		ApyBps:          staticApyBps,
		Timestamp:       p.now().UTC(),
	}, nil
}

func (p *StaticProvider) AllAPY(ctx context.Context) ([]stablecoin.ApySnapshot, error) {
	apy, err := p.CurrentAPY(ctx, 0)
	if err != nil {
		return nil, err
	}
	return []stablecoin.ApySnapshot{apy}, nil
}

func (p *StaticProvider) HistoricalAPY(_ context.Context, stablecoinIndex, days int) ([]stablecoin.ApySnapshot, error) {
	if stablecoinIndex != 0 {
		return nil, ErrNotFound
	}
	now := p.now().UTC()
	snapshots := make([]stablecoin.ApySnapshot, 0, days)
	for i := days; i >= 1; i-- {
		snapshots = append(snapshots, stablecoin.ApySnapshot{
			StablecoinIndex: stablecoinIndex,
			ApyBps:          staticApyBps,
			Timestamp:       now.AddDate(0, 0, -i),
		})
	}
	return snapshots, nil
}

func (p *StaticProvider) SupplyCap(_ context.Context, stablecoinIndex int) (stablecoin.SupplyCap, error) {
	if stablecoinIndex != 0 {
		return stablecoin.SupplyCap{}, ErrNotFound
	}
	return stablecoin.SupplyCap{
		StablecoinIndex: stablecoinIndex,
		Cap:             staticSupplyCap,
		CurrentSupply:   staticCurrentSupply,
	}, nil
}

func (p *StaticProvider) SupplyCaps(ctx context.Context) ([]stablecoin.SupplyCap, error) {
	cap0, err := p.SupplyCap(ctx, 0)
	if err != nil {
		return nil, err
	}
	return []stablecoin.SupplyCap{cap0}, nil
}

func (p *StaticProvider) GetProtocolStats(_ context.Context) (ProtocolStats, error) {
	return ProtocolStats{
		TotalMinted:   staticTotalMinted,
		TotalRedeemed: staticTotalRedeemed,
	}, nil
}

func (p *StaticProvider) HistoricalStats(_ context.Context, days int) ([]StatsPoint, error) {
	now := p.now().UTC()
	points := make([]StatsPoint, 0, days)
	for i := days; i >= 1; i-- {
		points = append(points, StatsPoint{
			Timestamp: now.AddDate(0, 0, -i),
			TVL:       staticDailyTVL,
			Volume:    staticDailyVolume,
		})
	}
	return points, nil
}

func (p *StaticProvider) RecentEvents(_ context.Context, limit int) ([]Event, error) {
	return p.events(limit, ""), nil
}

func (p *StaticProvider) EventsBySigner(_ context.Context, signer string, limit int) ([]Event, error) {
	return p.events(limit, signer), nil
}

// events generates a deterministic event stream, newest first, optionally
// filtered by signer.
func (p *StaticProvider) events(limit int, signer string) []Event {
	now := p.now().UTC()
	kinds := []string{"mint", "redeem", "burn"}
	signers := []string{
		"9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM",
		"4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T",
	}

	events := make([]Event, 0, limit)
	for i := 0; len(events) < limit && i < limit*len(signers); i++ {
		s := signers[i%len(signers)]
		if signer != "" && s != signer {
			continue
		}
		events = append(events, Event{
			ID:              fmt.Sprintf("evt_%d", i+1),
			Kind:            kinds[i%len(kinds)],
			StablecoinIndex: 0,
			Signer:          s,
			Amount:          1_000_000,
			Timestamp:       now.Add(-time.Duration(i) * time.Hour),
		})
	}
	return events
}
