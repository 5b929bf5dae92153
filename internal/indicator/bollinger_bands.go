package indicator

import (
	"github.com/markcheno/go-talib"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// DefaultBollingerStdDev is the band width used when none is configured.
const DefaultBollingerStdDev = 2.0

// BollingerBands represents SMA(period) ± StdDev rolling standard deviations.
type BollingerBands struct{}

// NewBollingerBands creates a new Bollinger Bands indicator.
func NewBollingerBands() Indicator {
	return &BollingerBands{}
}

// Name returns the name of the indicator.
func (b *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

func (b *BollingerBands) Validate(params Params) error {
	if err := validPeriod("bollinger_bands period", params.Period, 2); err != nil {
		return err
	}

	if params.StdDev <= 0 {
		return errors.Newf(errors.ErrCodeInvalidStdDev, "bollinger_bands stddev must be positive, got %v", params.StdDev)
	}

	return nil
}

func (b *BollingerBands) Columns(_ Params) []string {
	return []string{ColumnBollingerUpper, ColumnBollingerMid, ColumnBollingerLower}
}

func (b *BollingerBands) Lookback(params Params) int {
	return params.Period - 1
}

func (b *BollingerBands) Compute(bars *Bars, params Params) ([]Series, error) {
	lookback := b.Lookback(params)
	n := bars.Len()
	upper, middle, lower := nanSeries(n), nanSeries(n), nanSeries(n)

	if n > lookback {
		u, m, l := talib.BBands(bars.Close, params.Period, params.StdDev, params.StdDev, talib.SMA)
		upper, middle, lower = masked(u, lookback), masked(m, lookback), masked(l, lookback)
	}

	return []Series{
		{Name: ColumnBollingerUpper, Values: upper, Warmup: lookback},
		{Name: ColumnBollingerMid, Values: middle, Warmup: lookback},
		{Name: ColumnBollingerLower, Values: lower, Warmup: lookback},
	}, nil
}
