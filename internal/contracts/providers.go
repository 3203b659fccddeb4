package contracts

import (
	"context"
	"time"
)

// Provider interfaces are defined here; implementations live under
// internal/external and internal/store.

// PriceProvider supplies daily closing prices for a symbol. An unknown
// symbol or an empty range yields an empty series and a nil error;
// errors are reserved for transport failures.
type PriceProvider interface {
	FetchPrices(ctx context.Context, symbol string, from, to time.Time) (PriceSeries, error)
}

// FundamentalsProvider supplies a point-in-time fundamentals snapshot.
// Fields the source omits are zero-valued in the snapshot.
type FundamentalsProvider interface {
	FetchFundamentals(ctx context.Context, symbol string) (FundamentalsSnapshot, error)
}

// ConstituentsProvider lists the member companies of a market index.
type ConstituentsProvider interface {
	Constituents(ctx context.Context, index string) ([]Company, error)
}

// Company identifies one index constituent.
type Company struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Sector      string `json:"sector,omitempty"`
	SubIndustry string `json:"sub_industry,omitempty"`
}

// ChangeType marks an index membership change direction.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
)

// IndexChange records one historical index membership change.
type IndexChange struct {
	Date       time.Time  `json:"date"`
	Symbol     string     `json:"symbol"`
	Company    string     `json:"company"`
	ChangeType ChangeType `json:"change_type"`
	Sector     string     `json:"sector,omitempty"`
	Reason     string     `json:"reason,omitempty"`
}
