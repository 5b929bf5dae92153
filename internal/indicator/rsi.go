package indicator

import (
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// RSI represents the Relative Strength Index indicator using Wilder's
// smoothing. A window without any movement is 50.
type RSI struct{}

// NewRSI creates a new RSI indicator.
func NewRSI() Indicator {
	return &RSI{}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

func (r *RSI) Validate(params Params) error {
	return validPeriod("rsi period", params.Period, 1)
}

func (r *RSI) Columns(_ Params) []string {
	return []string{ColumnRSI}
}

// Lookback is one bar more than the period since RSI works on price changes.
func (r *RSI) Lookback(params Params) int {
	return params.Period
}

func (r *RSI) Compute(bars *Bars, params Params) ([]Series, error) {
	closes := bars.Close
	period := params.Period
	out := nanSeries(len(closes))

	if len(closes) <= period {
		return []Series{{Name: ColumnRSI, Values: out, Warmup: period}}, nil
	}

	// Calculate average gains and losses
	avgGain := 0.0
	avgLoss := 0.0

	// First average
	for i := 1; i <= period; i++ {
		gain, loss := change(closes[i-1], closes[i])
		avgGain += gain
		avgLoss += loss
	}

	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	// Subsequent averages using Wilder's smoothing method
	for i := period + 1; i < len(closes); i++ {
		gain, loss := change(closes[i-1], closes[i])
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return []Series{{Name: ColumnRSI, Values: out, Warmup: period}}, nil
}

func change(prev, cur float64) (gain, loss float64) {
	d := cur - prev
	if d > 0 {
		return d, 0
	}

	return 0, -d
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}

		return 100 // Perfect uptrend
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}
