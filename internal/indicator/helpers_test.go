package indicator

import (
	"math"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// weekdays returns n consecutive Monday to Friday dates starting on start.
func weekdays(start time.Time, n int) []time.Time {
	dates := make([]time.Time, 0, n)
	for d := start; len(dates) < n; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}

		dates = append(dates, d)
	}

	return dates
}

// barsFromCloses builds bars whose high and low sit one unit around close.
func barsFromCloses(closes []float64) []types.PriceBar {
	dates := weekdays(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), len(closes))
	bars := make([]types.PriceBar, len(closes))

	for i, c := range closes {
		bars[i] = types.PriceBar{
			Date:   dates[i],
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: optional.Some(1000.0 + float64(i)),
		}
	}

	return bars
}

func flatBars(n int, price float64) []types.PriceBar {
	bars := barsFromCloses(constant(n, price))
	for i := range bars {
		bars[i].High = price
		bars[i].Low = price
	}

	return bars
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}

	return out
}

func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}

	return out
}

// wave is a deterministic oscillating series used for bound checks.
func wave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 10*math.Sin(float64(i)/3) + 3*math.Cos(float64(i)*1.7)
	}

	return out
}
