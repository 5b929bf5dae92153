package indicator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// talib returns full-length outputs with zeros in the warm-up and panics on
// inputs shorter than its lookback, so every call goes through these helpers.

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}

// masked keeps values[from:] and marks everything before as undefined.
// Non-finite results are undefined as well.
func masked(values []float64, from int) []float64 {
	out := nanSeries(len(values))
	for i := from; i < len(values); i++ {
		v := values[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}

		out[i] = v
	}

	return out
}

// applyFrom runs fn over values[from:] and shifts the result back into place.
// lookback is the warm-up fn itself adds.
func applyFrom(values []float64, from, lookback int, fn func([]float64) []float64) []float64 {
	n := len(values)
	if from < 0 || n-from <= lookback {
		return nanSeries(n)
	}

	part := fn(values[from:])
	out := make([]float64, n)
	copy(out[from:], part)

	return masked(out, from+lookback)
}

func windowed(values []float64, period int, fn func([]float64, int) []float64) []float64 {
	if period == 1 {
		return masked(values, 0)
	}

	if len(values) < period {
		return nanSeries(len(values))
	}

	return masked(fn(values, period), period-1)
}

func highest(values []float64, period int) []float64 {
	return windowed(values, period, talib.Max)
}

func lowest(values []float64, period int) []float64 {
	return windowed(values, period, talib.Min)
}

func sma(values []float64, period int) []float64 {
	return windowed(values, period, talib.Sma)
}

func ema(values []float64, period int) []float64 {
	return windowed(values, period, talib.Ema)
}

func sum(values []float64, period int) []float64 {
	return windowed(values, period, talib.Sum)
}

func validPeriod(name string, period, minimum int) error {
	if period < minimum {
		return invalidPeriod(name, period, minimum)
	}

	return nil
}
