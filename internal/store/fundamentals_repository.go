package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hyunwoo/tradeideas/internal/contracts"
)

// FundamentalsRepository stores fundamentals snapshots with a fetch
// timestamp so callers can decide when a row is stale.
type FundamentalsRepository struct {
	pool *pgxpool.Pool
}

// NewFundamentalsRepository creates a new fundamentals repository.
func NewFundamentalsRepository(pool *pgxpool.Pool) *FundamentalsRepository {
	return &FundamentalsRepository{pool: pool}
}

// Get retrieves the stored snapshot for a symbol along with when it was
// fetched. A missing symbol returns (nil, zero time, nil).
func (r *FundamentalsRepository) Get(ctx context.Context, symbol string) (*contracts.FundamentalsSnapshot, time.Time, error) {
	query := `
		SELECT symbol, name, market_cap, float_shares, shares_outstanding,
		       avg_daily_volume, profit_margin, roe, revenue_growth,
		       earnings_growth, debt_to_equity, free_cash_flow, country,
		       trailing_pe, forward_pe, fetched_at
		FROM market.fundamentals
		WHERE symbol = $1
	`

	var (
		f         contracts.FundamentalsSnapshot
		fetchedAt time.Time
	)
	err := r.pool.QueryRow(ctx, query, symbol).Scan(
		&f.Symbol, &f.Name, &f.MarketCap, &f.FloatShares, &f.SharesOutstanding,
		&f.AvgDailyVolume, &f.ProfitMargin, &f.ROE, &f.RevenueGrowth,
		&f.EarningsGrowth, &f.DebtToEquity, &f.FreeCashFlow, &f.Country,
		&f.TrailingPE, &f.ForwardPE, &fetchedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	return &f, fetchedAt, nil
}

// Save upserts a snapshot, stamping it with the current time.
func (r *FundamentalsRepository) Save(ctx context.Context, f *contracts.FundamentalsSnapshot) error {
	query := `
		INSERT INTO market.fundamentals (
			symbol, name, market_cap, float_shares, shares_outstanding,
			avg_daily_volume, profit_margin, roe, revenue_growth,
			earnings_growth, debt_to_equity, free_cash_flow, country,
			trailing_pe, forward_pe, fetched_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
		ON CONFLICT (symbol) DO UPDATE SET
			name = EXCLUDED.name,
			market_cap = EXCLUDED.market_cap,
			float_shares = EXCLUDED.float_shares,
			shares_outstanding = EXCLUDED.shares_outstanding,
			avg_daily_volume = EXCLUDED.avg_daily_volume,
			profit_margin = EXCLUDED.profit_margin,
			roe = EXCLUDED.roe,
			revenue_growth = EXCLUDED.revenue_growth,
			earnings_growth = EXCLUDED.earnings_growth,
			debt_to_equity = EXCLUDED.debt_to_equity,
			free_cash_flow = EXCLUDED.free_cash_flow,
			country = EXCLUDED.country,
			trailing_pe = EXCLUDED.trailing_pe,
			forward_pe = EXCLUDED.forward_pe,
			fetched_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		f.Symbol, f.Name, f.MarketCap, f.FloatShares, f.SharesOutstanding,
		f.AvgDailyVolume, f.ProfitMargin, f.ROE, f.RevenueGrowth,
		f.EarningsGrowth, f.DebtToEquity, f.FreeCashFlow, f.Country,
		f.TrailingPE, f.ForwardPE,
	)
	return err
}
