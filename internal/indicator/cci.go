package indicator

import (
	"github.com/markcheno/go-talib"
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// CCI is the commodity channel index of the typical price.
type CCI struct{}

// NewCCI creates a new CCI indicator.
func NewCCI() Indicator {
	return &CCI{}
}

// Name returns the name of the indicator.
func (c *CCI) Name() types.IndicatorType {
	return types.IndicatorTypeCCI
}

func (c *CCI) Validate(params Params) error {
	return validPeriod("cci period", params.Period, 2)
}

func (c *CCI) Columns(_ Params) []string {
	return []string{ColumnCCI}
}

func (c *CCI) Lookback(params Params) int {
	return params.Period - 1
}

func (c *CCI) Compute(bars *Bars, params Params) ([]Series, error) {
	lookback := c.Lookback(params)
	values := nanSeries(bars.Len())

	if bars.Len() > lookback {
		values = masked(talib.Cci(bars.High, bars.Low, bars.Close, params.Period), lookback)
	}

	return []Series{{Name: ColumnCCI, Values: values, Warmup: lookback}}, nil
}
