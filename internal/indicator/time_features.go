package indicator

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-signals/internal/types"
)

// TimeFeatures encodes the bar timestamp as cyclic hour and weekday features.
// Monday is weekday 0; daily bars have hour 0.
type TimeFeatures struct{}

// NewTimeFeatures creates a new time feature set.
func NewTimeFeatures() Indicator {
	return &TimeFeatures{}
}

func (t *TimeFeatures) Name() types.IndicatorType {
	return types.IndicatorTypeTimeFeatures
}

func (t *TimeFeatures) Validate(_ Params) error {
	return nil
}

func (t *TimeFeatures) Columns(_ Params) []string {
	return []string{ColumnHourSin, ColumnHourCos, ColumnWeekdaySin, ColumnWeekdayCos}
}

func (t *TimeFeatures) Lookback(_ Params) int {
	return 0
}

func (t *TimeFeatures) Compute(bars *Bars, _ Params) ([]Series, error) {
	n := bars.Len()
	hourSin, hourCos := make([]float64, n), make([]float64, n)
	daySin, dayCos := make([]float64, n), make([]float64, n)

	for i, d := range bars.Dates {
		hour := 2 * math.Pi * float64(d.Hour()) / 24
		day := 2 * math.Pi * float64(mondayIndex(d)) / 7

		hourSin[i], hourCos[i] = math.Sin(hour), math.Cos(hour)
		daySin[i], dayCos[i] = math.Sin(day), math.Cos(day)
	}

	return []Series{
		{Name: ColumnHourSin, Values: hourSin},
		{Name: ColumnHourCos, Values: hourCos},
		{Name: ColumnWeekdaySin, Values: daySin},
		{Name: ColumnWeekdayCos, Values: dayCos},
	}, nil
}

func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
