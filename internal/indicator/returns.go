package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-signals/internal/types"
)

// LogReturn is ln(close[t] / close[t-1]).
type LogReturn struct{}

// NewLogReturn creates a new log return feature.
func NewLogReturn() Indicator {
	return &LogReturn{}
}

func (r *LogReturn) Name() types.IndicatorType {
	return types.IndicatorTypeLogReturn
}

func (r *LogReturn) Validate(_ Params) error {
	return nil
}

func (r *LogReturn) Columns(_ Params) []string {
	return []string{ColumnLogReturn}
}

func (r *LogReturn) Lookback(_ Params) int {
	return 1
}

func (r *LogReturn) Compute(bars *Bars, _ Params) ([]Series, error) {
	return []Series{{
		Name:   ColumnLogReturn,
		Values: priceRelative(bars.Close, math.Log),
		Warmup: 1,
	}}, nil
}

// SimpleReturn is close[t] / close[t-1] - 1.
type SimpleReturn struct{}

// NewSimpleReturn creates a new simple return feature.
func NewSimpleReturn() Indicator {
	return &SimpleReturn{}
}

func (r *SimpleReturn) Name() types.IndicatorType {
	return types.IndicatorTypeSimpleReturn
}

func (r *SimpleReturn) Validate(_ Params) error {
	return nil
}

func (r *SimpleReturn) Columns(_ Params) []string {
	return []string{ColumnSimpleReturn}
}

func (r *SimpleReturn) Lookback(_ Params) int {
	return 1
}

func (r *SimpleReturn) Compute(bars *Bars, _ Params) ([]Series, error) {
	return []Series{{
		Name:   ColumnSimpleReturn,
		Values: priceRelative(bars.Close, func(x float64) float64 { return x - 1 }),
		Warmup: 1,
	}}, nil
}

func priceRelative(closes []float64, fn func(float64) float64) []float64 {
	out := nanSeries(len(closes))
	for i := 1; i < len(closes); i++ {
		out[i] = fn(closes[i] / closes[i-1])
	}

	return masked(out, 1)
}
