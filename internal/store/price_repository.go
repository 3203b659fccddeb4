// Package store persists scraped market data in PostgreSQL so repeat
// scans do not hammer the upstream sources.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hyunwoo/tradeideas/internal/contracts"
)

// PriceRepository stores daily closing prices.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository.
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// GetRange retrieves the stored closes for a symbol within [from, to],
// oldest first.
func (r *PriceRepository) GetRange(ctx context.Context, symbol string, from, to time.Time) (contracts.PriceSeries, error) {
	query := `
		SELECT close_date, close_price
		FROM market.daily_closes
		WHERE symbol = $1 AND close_date BETWEEN $2 AND $3
		ORDER BY close_date ASC
	`

	rows, err := r.pool.Query(ctx, query, symbol, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series contracts.PriceSeries
	for rows.Next() {
		var p contracts.PricePoint
		if err := rows.Scan(&p.Date, &p.Close); err != nil {
			return nil, err
		}
		series = append(series, p)
	}
	return series, rows.Err()
}

// DateBounds returns the oldest and newest stored close dates for a
// symbol in one query. A symbol with no stored prices returns zero
// times and a nil error.
func (r *PriceRepository) DateBounds(ctx context.Context, symbol string) (time.Time, time.Time, error) {
	query := `
		SELECT MIN(close_date), MAX(close_date)
		FROM market.daily_closes
		WHERE symbol = $1
	`

	var earliest, latest *time.Time
	if err := r.pool.QueryRow(ctx, query, symbol).Scan(&earliest, &latest); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if earliest == nil || latest == nil {
		return time.Time{}, time.Time{}, nil
	}
	return *earliest, *latest, nil
}

// SaveSeries upserts a fetched series for a symbol.
func (r *PriceRepository) SaveSeries(ctx context.Context, symbol string, series contracts.PriceSeries) error {
	if len(series) == 0 {
		return nil
	}

	query := `
		INSERT INTO market.daily_closes (symbol, close_date, close_price)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol, close_date) DO UPDATE SET
			close_price = EXCLUDED.close_price
	`

	batch := &pgx.Batch{}
	for _, p := range series {
		batch.Queue(query, symbol, p.Date, p.Close)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range series {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// DeleteBefore prunes closes older than the cutoff, returning the
// number of rows removed.
func (r *PriceRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM market.daily_closes WHERE close_date < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
