package contracts

import "time"

// CrossType identifies the direction of a moving-average crossover.
type CrossType string

const (
	GoldenCross CrossType = "golden_cross" // MA50 rose above MA200
	DeathCross  CrossType = "death_cross"  // MA50 fell below MA200
)

// CrossEvent records a moving-average crossover detected within the
// confirmation window. Immutable once produced; events live only in the
// result batch and are never persisted.
type CrossEvent struct {
	Symbol    string    `json:"symbol"`
	Company   string    `json:"company"` // best-effort, defaults to symbol
	CrossType CrossType `json:"cross_type"`
	CrossDate time.Time `json:"cross_date"`
	Price     float64   `json:"price"` // latest close
	MA50      float64   `json:"ma50"`
	MA200     float64   `json:"ma200"`

	// Best-effort enrichment, nil when the source omits the field.
	RSI        *float64 `json:"rsi,omitempty"`
	ForwardPE  *float64 `json:"forward_pe,omitempty"`
	TrailingPE *float64 `json:"trailing_pe,omitempty"`
	MarketCapB *float64 `json:"market_cap_b,omitempty"`
}

// IsBullish reports whether the event is conventionally bullish.
func (e *CrossEvent) IsBullish() bool {
	return e.CrossType == GoldenCross
}
