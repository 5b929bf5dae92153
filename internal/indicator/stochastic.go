package indicator

import (
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// Stochastic is the stochastic oscillator. %K compares close with the K-bar
// high/low range and %D is the D-bar SMA of %K. A flat range gives %K = 50.
type Stochastic struct{}

// NewStochastic creates a new Stochastic indicator.
func NewStochastic() Indicator {
	return &Stochastic{}
}

// Name returns the name of the indicator.
func (s *Stochastic) Name() types.IndicatorType {
	return types.IndicatorTypeStochastic
}

func (s *Stochastic) Validate(params Params) error {
	if err := validPeriod("stochastic k", params.K, 1); err != nil {
		return err
	}

	return validPeriod("stochastic d", params.D, 1)
}

func (s *Stochastic) Columns(_ Params) []string {
	return []string{ColumnStochasticK, ColumnStochasticD}
}

func (s *Stochastic) Lookback(params Params) int {
	return params.K + params.D - 2
}

func (s *Stochastic) Compute(bars *Bars, params Params) ([]Series, error) {
	hh := highest(bars.High, params.K)
	ll := lowest(bars.Low, params.K)

	k := nanSeries(bars.Len())
	for i := params.K - 1; i < bars.Len(); i++ {
		k[i] = rangePosition(bars.Close[i], hh[i], ll[i]) * 100
	}

	k = masked(k, params.K-1)
	d := applyFrom(k, params.K-1, params.D-1, func(v []float64) []float64 {
		return sma(v, params.D)
	})

	return []Series{
		{Name: ColumnStochasticK, Values: k, Warmup: params.K - 1},
		{Name: ColumnStochasticD, Values: d, Warmup: s.Lookback(params)},
	}, nil
}

// rangePosition places v inside [low, high] as 0..1, 0.5 for an empty range.
func rangePosition(v, high, low float64) float64 {
	r := high - low
	if r == 0 {
		return 0.5
	}

	return (v - low) / r
}
