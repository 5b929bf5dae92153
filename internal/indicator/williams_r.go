package indicator

import (
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// WilliamsR is Williams %R over Params.Period bars, in [-100, 0].
type WilliamsR struct{}

// NewWilliamsR creates a new Williams %R indicator.
func NewWilliamsR() Indicator {
	return &WilliamsR{}
}

// Name returns the name of the indicator.
func (w *WilliamsR) Name() types.IndicatorType {
	return types.IndicatorTypeWilliamsR
}

func (w *WilliamsR) Validate(params Params) error {
	return validPeriod("williams_r period", params.Period, 1)
}

func (w *WilliamsR) Columns(_ Params) []string {
	return []string{ColumnWilliamsR}
}

func (w *WilliamsR) Lookback(params Params) int {
	return params.Period - 1
}

func (w *WilliamsR) Compute(bars *Bars, params Params) ([]Series, error) {
	hh := highest(bars.High, params.Period)
	ll := lowest(bars.Low, params.Period)

	out := nanSeries(bars.Len())
	for i := params.Period - 1; i < bars.Len(); i++ {
		out[i] = (rangePosition(bars.Close[i], hh[i], ll[i]) - 1) * 100
	}

	return []Series{{Name: ColumnWilliamsR, Values: masked(out, w.Lookback(params)), Warmup: w.Lookback(params)}}, nil
}
