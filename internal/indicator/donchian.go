package indicator

import (
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// Donchian is the highest high and lowest low over Params.Period bars.
type Donchian struct{}

// NewDonchian creates a new Donchian channel indicator.
func NewDonchian() Indicator {
	return &Donchian{}
}

// Name returns the name of the indicator.
func (d *Donchian) Name() types.IndicatorType {
	return types.IndicatorTypeDonchian
}

func (d *Donchian) Validate(params Params) error {
	return validPeriod("donchian period", params.Period, 1)
}

func (d *Donchian) Columns(_ Params) []string {
	return []string{ColumnDonchianUpper, ColumnDonchianLower}
}

func (d *Donchian) Lookback(params Params) int {
	return params.Period - 1
}

func (d *Donchian) Compute(bars *Bars, params Params) ([]Series, error) {
	return []Series{
		{Name: ColumnDonchianUpper, Values: highest(bars.High, params.Period), Warmup: d.Lookback(params)},
		{Name: ColumnDonchianLower, Values: lowest(bars.Low, params.Period), Warmup: d.Lookback(params)},
	}, nil
}
