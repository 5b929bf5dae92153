package indicator

import (
	"github.com/markcheno/go-talib"
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// ROC is the percentage change of close against Params.Period bars ago.
type ROC struct{}

// NewROC creates a new ROC indicator.
func NewROC() Indicator {
	return &ROC{}
}

// Name returns the name of the indicator.
func (r *ROC) Name() types.IndicatorType {
	return types.IndicatorTypeROC
}

func (r *ROC) Validate(params Params) error {
	return validPeriod("roc period", params.Period, 1)
}

func (r *ROC) Columns(_ Params) []string {
	return []string{ColumnROC}
}

func (r *ROC) Lookback(params Params) int {
	return params.Period
}

func (r *ROC) Compute(bars *Bars, params Params) ([]Series, error) {
	values := nanSeries(bars.Len())
	if bars.Len() > params.Period {
		values = masked(talib.Roc(bars.Close, params.Period), params.Period)
	}

	return []Series{{Name: ColumnROC, Values: values, Warmup: params.Period}}, nil
}
