package datasource

import (
	"context"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// BarSource supplies the price history of one asset.
type BarSource interface {
	// Load reads every bar up to the configured end date, in file order.
	// Bars are returned as stored; validation happens in the indicator engine.
	Load(ctx context.Context) ([]types.PriceBar, error)
	// Close releases any resources held by the source.
	Close() error
}

// Option configures a source.
type Option func(*options)

type options struct {
	end optional.Option[time.Time]
}

// WithEnd drops bars after end. There is no start bound: bars before the
// reported range are needed as indicator warm-up history.
func WithEnd(end optional.Option[time.Time]) Option {
	return func(o *options) {
		o.end = end
	}
}

func newOptions(opts []Option) options {
	o := options{end: optional.None[time.Time]()}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// afterEnd compares calendar dates, so every bar of the end date is kept.
func (o options) afterEnd(t time.Time) bool {
	return o.end.IsSome() && types.CalendarDate(t).After(types.CalendarDate(o.end.Unwrap()))
}

// Column names accepted in input files, matched case-insensitively.
const (
	ColumnDate   = "date"
	ColumnOpen   = "open"
	ColumnHigh   = "high"
	ColumnLow    = "low"
	ColumnClose  = "close"
	ColumnVolume = "volume"
)

var dateAliases = []string{ColumnDate, "time", "timestamp", "datetime"}

var requiredPriceColumns = []string{ColumnOpen, ColumnHigh, ColumnLow, ColumnClose}

// columnIndex maps the lowercase header names to their positions and
// resolves the date column alias.
type columnIndex map[string]int

func newColumnIndex(header []string) columnIndex {
	index := make(columnIndex, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}

	for _, alias := range dateAliases {
		if i, ok := index[alias]; ok {
			if _, exists := index[ColumnDate]; !exists {
				index[ColumnDate] = i
			}

			break
		}
	}

	return index
}

// require fails with a data validation error naming the first missing
// column.
func (c columnIndex) require(source string) error {
	for _, name := range append([]string{ColumnDate}, requiredPriceColumns...) {
		if _, ok := c[name]; !ok {
			return errors.Newf(errors.ErrCodeMissingColumn, "%s has no %s column", source, name)
		}
	}

	return nil
}

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"2006-01-02 15:04:05-07:00",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseDate parses the ISO-8601 forms found in price files.
func ParseDate(s string) (time.Time, error) {
	value := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errors.Newf(errors.ErrCodeMalformedRow, "invalid date %q", s)
}
