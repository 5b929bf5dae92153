package signal

import (
	"math"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/indicator"
	"github.com/rxtech-lab/argo-signals/internal/types"
)

var startDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func barsFromCloses(closes []float64) []types.PriceBar {
	bars := make([]types.PriceBar, 0, len(closes))

	for d := startDate; len(bars) < len(closes); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}

		c := closes[len(bars)]
		bars = append(bars, types.PriceBar{
			Date:   d,
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: optional.Some(1000.0),
		})
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

func allSpecs() []indicator.Spec {
	return []indicator.Spec{
		indicator.SMASpec(10),
		indicator.SMASpec(30),
		indicator.EMASpec(12),
		indicator.EMASpec(26),
		indicator.DefaultMACDSpec(),
		indicator.RSISpec(14),
		indicator.StochasticSpec(14, 3),
		indicator.WilliamsRSpec(14),
		indicator.CCISpec(20),
		indicator.ROCSpec(12),
		indicator.ATRSpec(14),
		indicator.BollingerBandsSpec(20, 2),
		indicator.DonchianSpec(20),
		indicator.ADXSpec(14),
		indicator.VortexSpec(14),
		indicator.OBVSpec(),
	}
}

func nan() float64 {
	return math.NaN()
}
