package indicator

import (
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// SMA is the simple moving average of close over Params.Period bars.
type SMA struct{}

// NewSMA creates a new SMA indicator.
func NewSMA() Indicator {
	return &SMA{}
}

// Name returns the name of the indicator.
func (s *SMA) Name() types.IndicatorType {
	return types.IndicatorTypeSMA
}

func (s *SMA) Validate(params Params) error {
	return validPeriod("sma period", params.Period, 1)
}

func (s *SMA) Columns(params Params) []string {
	return []string{SMAColumn(params.Period)}
}

func (s *SMA) Lookback(params Params) int {
	return params.Period - 1
}

func (s *SMA) Compute(bars *Bars, params Params) ([]Series, error) {
	return []Series{{
		Name:   SMAColumn(params.Period),
		Values: sma(bars.Close, params.Period),
		Warmup: s.Lookback(params),
	}}, nil
}
