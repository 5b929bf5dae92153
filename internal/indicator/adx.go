package indicator

import (
	"github.com/markcheno/go-talib"
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// ADX is the average directional index. It measures trend strength only.
type ADX struct{}

// NewADX creates a new ADX indicator.
func NewADX() Indicator {
	return &ADX{}
}

// Name returns the name of the indicator.
func (a *ADX) Name() types.IndicatorType {
	return types.IndicatorTypeADX
}

func (a *ADX) Validate(params Params) error {
	return validPeriod("adx period", params.Period, 2)
}

func (a *ADX) Columns(_ Params) []string {
	return []string{ColumnADX}
}

// Lookback covers the smoothed DX plus its own average.
func (a *ADX) Lookback(params Params) int {
	return 2*params.Period - 1
}

func (a *ADX) Compute(bars *Bars, params Params) ([]Series, error) {
	lookback := a.Lookback(params)
	values := nanSeries(bars.Len())

	if bars.Len() > lookback {
		values = masked(talib.Adx(bars.High, bars.Low, bars.Close, params.Period), lookback)
	}

	return []Series{{Name: ColumnADX, Values: values, Warmup: lookback}}, nil
}
