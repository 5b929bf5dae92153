package indicator

import (
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// EMA is the exponential moving average of close with smoothing 2/(p+1),
// seeded by the SMA of the first p bars.
type EMA struct{}

// NewEMA creates a new EMA indicator.
func NewEMA() Indicator {
	return &EMA{}
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

func (e *EMA) Validate(params Params) error {
	return validPeriod("ema period", params.Period, 1)
}

func (e *EMA) Columns(params Params) []string {
	return []string{EMAColumn(params.Period)}
}

func (e *EMA) Lookback(params Params) int {
	return params.Period - 1
}

func (e *EMA) Compute(bars *Bars, params Params) ([]Series, error) {
	return []Series{{
		Name:   EMAColumn(params.Period),
		Values: ema(bars.Close, params.Period),
		Warmup: e.Lookback(params),
	}}, nil
}
