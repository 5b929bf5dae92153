package indicator

import (
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// MACD produces the MACD line EMA(fast) - EMA(slow), its EMA(signal) signal
// line and the histogram between the two.
type MACD struct{}

// NewMACD creates a new MACD indicator.
func NewMACD() Indicator {
	return &MACD{}
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Validate expects Fast, Slow and Signal periods with Fast < Slow.
func (m *MACD) Validate(params Params) error {
	if err := validPeriod("macd fast period", params.Fast, 1); err != nil {
		return err
	}

	if err := validPeriod("macd slow period", params.Slow, 1); err != nil {
		return err
	}

	if err := validPeriod("macd signal period", params.Signal, 1); err != nil {
		return err
	}

	if params.Fast >= params.Slow {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "macd fast period %d must be shorter than slow period %d", params.Fast, params.Slow)
	}

	return nil
}

func (m *MACD) Columns(_ Params) []string {
	return []string{ColumnMACD, ColumnMACDSignalLine, ColumnMACDHistogram}
}

func (m *MACD) Lookback(params Params) int {
	return params.Slow + params.Signal - 2
}

func (m *MACD) Compute(bars *Bars, params Params) ([]Series, error) {
	fast := ema(bars.Close, params.Fast)
	slow := ema(bars.Close, params.Slow)

	line := make([]float64, len(fast))
	for i := range line {
		line[i] = fast[i] - slow[i]
	}

	lineFrom := params.Slow - 1
	line = masked(line, lineFrom)

	signal := applyFrom(line, lineFrom, params.Signal-1, func(v []float64) []float64 {
		return ema(v, params.Signal)
	})

	hist := make([]float64, len(line))
	for i := range hist {
		hist[i] = line[i] - signal[i]
	}

	return []Series{
		{Name: ColumnMACD, Values: line, Warmup: lineFrom},
		{Name: ColumnMACDSignalLine, Values: signal, Warmup: m.Lookback(params)},
		{Name: ColumnMACDHistogram, Values: masked(hist, m.Lookback(params)), Warmup: m.Lookback(params)},
	}, nil
}
