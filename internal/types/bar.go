package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// PriceBar is one daily OHLCV record. Volume is absent for sources that do
// not report it.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume optional.Option[float64]
}

// DateKey formats a date the way every table and prompt in the module does.
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// CalendarDate truncates t to midnight UTC of its calendar date.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
