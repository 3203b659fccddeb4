package indicator

import "github.com/hyunwoo/tradeideas/internal/contracts"

// DefaultRSIPeriod is the conventional RSI lookback.
const DefaultRSIPeriod = 14

// RSI computes the latest Relative Strength Index over the trailing
// period: the average of positive deltas divided by the average
// magnitude of negative deltas gives the relative-strength ratio rs,
// and RSI = 100 - 100/(1+rs). Only the most recent value is needed
// downstream, so only it is returned.
//
// ok is false when fewer than period+1 points exist or when the series
// is flat over the window (both averages zero); a window with gains and
// no losses returns 100 rather than dividing by zero.
func RSI(series contracts.PriceSeries, period int) (rsi float64, ok bool) {
	if period <= 0 || len(series) < period+1 {
		return 0, false
	}

	var gains, losses float64
	start := len(series) - period
	for i := start; i < len(series); i++ {
		delta := series[i].Close - series[i-1].Close
		if delta > 0 {
			gains += delta
		} else {
			losses += -delta
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		if avgGain == 0 {
			// Flat window: rs is 0/0, no meaningful momentum reading.
			return 0, false
		}
		return 100, true
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}
