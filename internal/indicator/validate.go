package indicator

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// Calendar selects which missing dates count as a gap between two bars.
type Calendar string

const (
	// CalendarWeekdays expects a bar on every Monday to Friday.
	CalendarWeekdays Calendar = "weekdays"
	// CalendarDaily expects a bar on every calendar date.
	CalendarDaily Calendar = "daily"
	// CalendarAny only requires strictly increasing dates.
	CalendarAny Calendar = "any"
)

// Valid reports whether c is a known calendar.
func (c Calendar) Valid() bool {
	switch c {
	case CalendarWeekdays, CalendarDaily, CalendarAny:
		return true
	default:
		return false
	}
}

// ValidateBars checks the raw input before anything is derived from it. It
// never repairs the input: the first problem found is returned as a data
// validation error naming the offending column or date.
func ValidateBars(bars []types.PriceBar, calendar Calendar) error {
	if len(bars) == 0 {
		return errors.New(errors.ErrCodeEmptyInput, "price series is empty")
	}

	if !calendar.Valid() {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown calendar %q", calendar)
	}

	for i, bar := range bars {
		if err := validateBar(bar); err != nil {
			return err
		}

		if i == 0 {
			continue
		}

		prev := types.CalendarDate(bars[i-1].Date)
		cur := types.CalendarDate(bar.Date)

		switch {
		case cur.Equal(prev):
			return errors.Newf(errors.ErrCodeDuplicateDate, "duplicate date %s at row %d", types.DateKey(cur), i)
		case cur.Before(prev):
			return errors.Newf(errors.ErrCodeNonMonotonicDates, "date %s at row %d is before %s", types.DateKey(cur), i, types.DateKey(prev))
		}

		if missing, ok := firstMissingDate(prev, cur, calendar); ok {
			return errors.Newf(errors.ErrCodeDateGap, "missing bar for %s between %s and %s", types.DateKey(missing), types.DateKey(prev), types.DateKey(cur))
		}
	}

	return nil
}

func validateBar(bar types.PriceBar) error {
	date := types.DateKey(bar.Date)

	for _, col := range []struct {
		name  string
		value float64
	}{
		{"open", bar.Open},
		{"high", bar.High},
		{"low", bar.Low},
		{"close", bar.Close},
	} {
		if math.IsNaN(col.value) {
			return errors.Newf(errors.ErrCodeMissingColumn, "missing %s on %s", col.name, date)
		}

		if math.IsInf(col.value, 0) || col.value <= 0 {
			return errors.Newf(errors.ErrCodeInvalidPrice, "%s on %s must be a positive number, got %v", col.name, date, col.value)
		}
	}

	if bar.Volume.IsSome() {
		v := bar.Volume.Unwrap()
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return errors.Newf(errors.ErrCodeInvalidPrice, "volume on %s must be a non-negative number, got %v", date, v)
		}
	}

	return nil
}

// firstMissingDate returns the first date strictly between prev and cur that
// the calendar expects a bar for.
func firstMissingDate(prev, cur time.Time, calendar Calendar) (time.Time, bool) {
	if calendar == CalendarAny {
		return time.Time{}, false
	}

	for d := prev.AddDate(0, 0, 1); d.Before(cur); d = d.AddDate(0, 0, 1) {
		if calendar == CalendarDaily {
			return d, true
		}

		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			return d, true
		}
	}

	return time.Time{}, false
}

// requireVolume fails when any bar lacks a volume, naming the affected range.
func requireVolume(bars *Bars, indicator types.IndicatorType) error {
	first, last := -1, -1

	for i, v := range bars.Volume {
		if math.IsNaN(v) {
			if first < 0 {
				first = i
			}

			last = i
		}
	}

	if first < 0 {
		return nil
	}

	return errors.Newf(errors.ErrCodeMissingColumn, "%s requires volume, missing from %s to %s",
		indicator, types.DateKey(bars.Dates[first]), types.DateKey(bars.Dates[last]))
}

func invalidPeriod(name string, period, minimum int) error {
	return errors.Newf(errors.ErrCodeInvalidPeriod, "%s must be at least %d, got %d", name, minimum, period)
}
