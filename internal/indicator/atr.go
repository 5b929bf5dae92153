package indicator

import (
	"github.com/markcheno/go-talib"
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// ATR represents the Average True Range indicator with Wilder smoothing.
type ATR struct{}

// NewATR creates a new ATR indicator.
func NewATR() Indicator {
	return &ATR{}
}

// Name returns the name of the indicator.
func (a *ATR) Name() types.IndicatorType {
	return types.IndicatorTypeATR
}

func (a *ATR) Validate(params Params) error {
	return validPeriod("atr period", params.Period, 2)
}

func (a *ATR) Columns(_ Params) []string {
	return []string{ColumnATR}
}

func (a *ATR) Lookback(params Params) int {
	return params.Period
}

func (a *ATR) Compute(bars *Bars, params Params) ([]Series, error) {
	values := nanSeries(bars.Len())
	if bars.Len() > params.Period {
		values = masked(talib.Atr(bars.High, bars.Low, bars.Close, params.Period), params.Period)
	}

	return []Series{{Name: ColumnATR, Values: values, Warmup: params.Period}}, nil
}

// trueRange is max(high-low, |high-prev close|, |low-prev close|), undefined
// on the first bar.
func trueRange(bars *Bars) []float64 {
	if bars.Len() < 2 {
		return nanSeries(bars.Len())
	}

	return masked(talib.TRange(bars.High, bars.Low, bars.Close), 1)
}
