package services

// postgres.go implements the Postgres-backed provider over the read-model
// tables populated by the chain indexer (see internal/database/migrations).

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reflect-protocol/reflect-api/internal/stablecoin"
)

// PostgresProvider reads snapshots from Postgres.
type PostgresProvider struct {
	pool *pgxpool.Pool
}

// NewPostgresProvider creates a Postgres provider on the given pool.
func NewPostgresProvider(pool *pgxpool.Pool) *PostgresProvider {
	return &PostgresProvider{pool: pool}
}

func (p *PostgresProvider) CurrentRate(ctx context.Context, stablecoinIndex int) (stablecoin.ExchangeRateSnapshot, error) {
	const query = `
		SELECT id, stablecoin_index, base_usd_value_bps, receipt_usd_value_bps, created_at
		FROM exchange_rates
		WHERE stablecoin_index = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var rate stablecoin.ExchangeRateSnapshot
	err := p.pool.QueryRow(ctx, query, stablecoinIndex).Scan(
		&rate.ID, &rate.StablecoinIndex, &rate.BaseUSDValueBps, &rate.ReceiptUSDValueBps, &rate.Timestamp,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return stablecoin.ExchangeRateSnapshot{}, ErrNotFound
	}
	if err != nil {
		return stablecoin.ExchangeRateSnapshot{}, fmt.Errorf("failed to query current rate: %w", err)
	}
	return rate, nil
}

func (p *PostgresProvider) HistoricalRates(ctx context.Context, stablecoinIndex, days int) ([]stablecoin.ExchangeRateSnapshot, error) {
	const query = `
		SELECT id, stablecoin_index, base_usd_value_bps, receipt_usd_value_bps, created_at
		FROM exchange_rates
		WHERE stablecoin_index = $1
		  AND created_at >= now() - make_interval(days => $2)
		ORDER BY created_at ASC`

	rows, err := p.pool.Query(ctx, query, stablecoinIndex, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query historical rates: %w", err)
	}
	defer rows.Close()

	var rates []stablecoin.ExchangeRateSnapshot
	for rows.Next() {
		var rate stablecoin.ExchangeRateSnapshot
		if err := rows.Scan(&rate.ID, &rate.StablecoinIndex, &rate.BaseUSDValueBps, &rate.ReceiptUSDValueBps, &rate.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan rate row: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rate rows: %w", err)
	}
	if len(rates) == 0 {
		return nil, ErrNotFound
	}
	return rates, nil
}

func (p *PostgresProvider) CurrentAPY(ctx context.Context, stablecoinIndex int) (stablecoin.ApySnapshot, error) {
	const query = `
		SELECT stablecoin_index, apy_bps, created_at
		FROM apy_snapshots
		WHERE stablecoin_index = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var apy stablecoin.ApySnapshot
	err := p.pool.QueryRow(ctx, query, stablecoinIndex).Scan(&apy.StablecoinIndex, &apy.ApyBps, &apy.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return stablecoin.ApySnapshot{}, ErrNotFound
	}
	if err != nil {
		return stablecoin.ApySnapshot{}, fmt.Errorf("failed to query current APY: %w", err)
	}
	return apy, nil
}

func (p *PostgresProvider) AllAPY(ctx context.Context) ([]stablecoin.ApySnapshot, error) {
	const query = `
		SELECT DISTINCT ON (stablecoin_index) stablecoin_index, apy_bps, created_at
		FROM apy_snapshots
		ORDER BY stablecoin_index, created_at DESC`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query APY snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []stablecoin.ApySnapshot
	for rows.Next() {
		var apy stablecoin.ApySnapshot
		if err := rows.Scan(&apy.StablecoinIndex, &apy.ApyBps, &apy.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan APY row: %w", err)
		}
		snapshots = append(snapshots, apy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read APY rows: %w", err)
	}
	return snapshots, nil
}

func (p *PostgresProvider) HistoricalAPY(ctx context.Context, stablecoinIndex, days int) ([]stablecoin.ApySnapshot, error) {
	const query = `
		SELECT stablecoin_index, apy_bps, created_at
		FROM apy_snapshots
		WHERE stablecoin_index = $1
		  AND created_at >= now() - make_interval(days => $2)
		ORDER BY created_at ASC`

	rows, err := p.pool.Query(ctx, query, stablecoinIndex, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query historical APY: %w", err)
	}
	defer rows.Close()

	var snapshots []stablecoin.ApySnapshot
	for rows.Next() {
		var apy stablecoin.ApySnapshot
		if err := rows.Scan(&apy.StablecoinIndex, &apy.ApyBps, &apy.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan APY row: %w", err)
		}
		snapshots = append(snapshots, apy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read APY rows: %w", err)
	}
	if len(snapshots) == 0 {
		return nil, ErrNotFound
	}
	return snapshots, nil
}

func (p *PostgresProvider) SupplyCap(ctx context.Context, stablecoinIndex int) (stablecoin.SupplyCap, error) {
	const query = `
		SELECT stablecoin_index, supply_cap, current_supply
		FROM supply_caps
		WHERE stablecoin_index = $1`

	var sc stablecoin.SupplyCap
	err := p.pool.QueryRow(ctx, query, stablecoinIndex).Scan(&sc.StablecoinIndex, &sc.Cap, &sc.CurrentSupply)
	if errors.Is(err, pgx.ErrNoRows) {
		return stablecoin.SupplyCap{}, ErrNotFound
	}
	if err != nil {
		return stablecoin.SupplyCap{}, fmt.Errorf("failed to query supply cap: %w", err)
	}
	return sc, nil
}

func (p *PostgresProvider) SupplyCaps(ctx context.Context) ([]stablecoin.SupplyCap, error) {
	const query = `
		SELECT stablecoin_index, supply_cap, current_supply
		FROM supply_caps
		ORDER BY stablecoin_index`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query supply caps: %w", err)
	}
	defer rows.Close()

	var caps []stablecoin.SupplyCap
	for rows.Next() {
		var sc stablecoin.SupplyCap
		if err := rows.Scan(&sc.StablecoinIndex, &sc.Cap, &sc.CurrentSupply); err != nil {
			return nil, fmt.Errorf("failed to scan supply cap row: %w", err)
		}
		caps = append(caps, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read supply cap rows: %w", err)
	}
	return caps, nil
}

func (p *PostgresProvider) GetProtocolStats(ctx context.Context) (ProtocolStats, error) {
	const query = `
		SELECT total_minted, total_redeemed
		FROM protocol_stats
		ORDER BY created_at DESC
		LIMIT 1`

	var stats ProtocolStats
	err := p.pool.QueryRow(ctx, query).Scan(&stats.TotalMinted, &stats.TotalRedeemed)
	if errors.Is(err, pgx.ErrNoRows) {
		return ProtocolStats{}, ErrNotFound
	}
	if err != nil {
		return ProtocolStats{}, fmt.Errorf("failed to query protocol stats: %w", err)
	}
	return stats, nil
}

func (p *PostgresProvider) HistoricalStats(ctx context.Context, days int) ([]StatsPoint, error) {
	const query = `
		SELECT created_at, tvl, volume
		FROM protocol_stats
		WHERE created_at >= now() - make_interval(days => $1)
		ORDER BY created_at ASC`

	rows, err := p.pool.Query(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query historical stats: %w", err)
	}
	defer rows.Close()

	var points []StatsPoint
	for rows.Next() {
		var point StatsPoint
		if err := rows.Scan(&point.Timestamp, &point.TVL, &point.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stats rows: %w", err)
	}
	return points, nil
}

func (p *PostgresProvider) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	const query = `
		SELECT id, kind, stablecoin_index, signer, amount, created_at
		FROM protocol_events
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := p.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (p *PostgresProvider) EventsBySigner(ctx context.Context, signer string, limit int) ([]Event, error) {
	const query = `
		SELECT id, kind, stablecoin_index, signer, amount, created_at
		FROM protocol_events
		WHERE signer = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := p.pool.Query(ctx, query, signer, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events by signer: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var event Event
		if err := rows.Scan(&event.ID, &event.Kind, &event.StablecoinIndex, &event.Signer, &event.Amount, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event rows: %w", err)
	}
	return events, nil
}
