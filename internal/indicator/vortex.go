package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-signals/internal/types"
)

// Vortex produces the positive and negative vortex indicators: the sums of
// upward and downward vortex movement over Params.Period bars divided by the
// true range sum of the same window.
type Vortex struct{}

// NewVortex creates a new Vortex indicator.
func NewVortex() Indicator {
	return &Vortex{}
}

// Name returns the name of the indicator.
func (v *Vortex) Name() types.IndicatorType {
	return types.IndicatorTypeVortex
}

func (v *Vortex) Validate(params Params) error {
	return validPeriod("vortex period", params.Period, 1)
}

func (v *Vortex) Columns(_ Params) []string {
	return []string{ColumnVortexPos, ColumnVortexNeg}
}

func (v *Vortex) Lookback(params Params) int {
	return params.Period
}

func (v *Vortex) Compute(bars *Bars, params Params) ([]Series, error) {
	n := bars.Len()
	lookback := v.Lookback(params)

	plus, minus := nanSeries(n), nanSeries(n)
	for i := 1; i < n; i++ {
		plus[i] = math.Abs(bars.High[i] - bars.Low[i-1])
		minus[i] = math.Abs(bars.Low[i] - bars.High[i-1])
	}

	window := func(values []float64) []float64 {
		return applyFrom(values, 1, params.Period-1, func(part []float64) []float64 {
			return sum(part, params.Period)
		})
	}

	sumPlus, sumMinus, sumTR := window(plus), window(minus), window(trueRange(bars))

	pos, neg := nanSeries(n), nanSeries(n)
	for i := lookback; i < n; i++ {
		if sumTR[i] == 0 || math.IsNaN(sumTR[i]) {
			continue
		}

		pos[i] = sumPlus[i] / sumTR[i]
		neg[i] = sumMinus[i] / sumTR[i]
	}

	return []Series{
		{Name: ColumnVortexPos, Values: masked(pos, lookback), Warmup: lookback},
		{Name: ColumnVortexNeg, Values: masked(neg, lookback), Warmup: lookback},
	}, nil
}
