package signal

import (
	"fmt"
	"math"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// DecisionRow is the fused output for one date.
type DecisionRow struct {
	Date  time.Time
	Open  float64
	Close float64
	// Features holds the raw indicator values in DecisionTable.FeatureNames
	// order. Undefined values are NaN.
	Features []float64
	// Signals holds one signal per DecisionTable.SignalNames entry.
	Signals       []types.SignalType
	Votes         Tally
	FinalDecision types.SignalType
	// Warm is true once every configured indicator and rule has enough
	// history.
	Warm bool
	// Label is the row's own open/close label. It is only set on labeled
	// tables and never votes.
	Label types.SignalType
}

// Feature returns the value of the i-th feature, None when undefined.
func (r DecisionRow) Feature(i int) optional.Option[float64] {
	if i < 0 || i >= len(r.Features) || math.IsNaN(r.Features[i]) {
		return optional.None[float64]()
	}

	return optional.Some(r.Features[i])
}

// DecisionTable is the output of the Signal Fusion Engine. Rows are in date
// order and are never mutated once built.
type DecisionTable struct {
	FeatureNames []string
	SignalNames  []string
	Rows         []DecisionRow
	// Warmup is the number of leading rows of the full computation that are
	// not warm.
	Warmup int
	// Labeled reports whether rows carry a Label.
	Labeled bool
}

// Len returns the number of rows.
func (t *DecisionTable) Len() int {
	return len(t.Rows)
}

// FeatureIndex returns the position of a feature column, or -1.
func (t *DecisionTable) FeatureIndex(name string) int {
	return indexOf(t.FeatureNames, name)
}

// SignalIndex returns the position of a signal column, or -1.
func (t *DecisionTable) SignalIndex(name string) int {
	return indexOf(t.SignalNames, name)
}

// Signal returns the named signal of every row.
func (t *DecisionTable) Signal(name string) ([]types.SignalType, bool) {
	i := t.SignalIndex(name)
	if i < 0 {
		return nil, false
	}

	out := make([]types.SignalType, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row.Signals[i]
	}

	return out, true
}

// FinalDecisions returns the fused decision of every row.
func (t *DecisionTable) FinalDecisions() []types.SignalType {
	out := make([]types.SignalType, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row.FinalDecision
	}

	return out
}

func (t *DecisionTable) withRows(rows []DecisionRow) *DecisionTable {
	return &DecisionTable{
		FeatureNames: t.FeatureNames,
		SignalNames:  t.SignalNames,
		Rows:         rows,
		Warmup:       t.Warmup,
		Labeled:      t.Labeled,
	}
}

// DropWarmup returns a table holding only the warm rows.
func (t *DecisionTable) DropWarmup() *DecisionTable {
	rows := make([]DecisionRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		if row.Warm {
			rows = append(rows, row)
		}
	}

	return t.withRows(rows)
}

// Between returns the rows whose calendar date lies in r. A range matching
// no row yields None, never an empty table.
func (t *DecisionTable) Between(r Range) optional.Option[*DecisionTable] {
	rows := make([]DecisionRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		if r.Contains(row.Date) {
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		return optional.None[*DecisionTable]()
	}

	return optional.Some(t.withRows(rows))
}

// Range is an inclusive date range. A missing bound is open.
type Range struct {
	Start optional.Option[time.Time]
	End   optional.Option[time.Time]
}

// NewRange creates a range from two optional bounds.
func NewRange(start, end optional.Option[time.Time]) Range {
	return Range{Start: start, End: end}
}

// Contains compares calendar dates, so intraday timestamps of a bar fall on
// their date.
func (r Range) Contains(t time.Time) bool {
	d := types.CalendarDate(t)

	if r.Start.IsSome() && d.Before(types.CalendarDate(r.Start.Unwrap())) {
		return false
	}

	if r.End.IsSome() && d.After(types.CalendarDate(r.End.Unwrap())) {
		return false
	}

	return true
}

// StartLabel renders the lower bound for messages.
func (r Range) StartLabel() string {
	return boundLabel(r.Start, "the beginning")
}

// EndLabel renders the upper bound for messages.
func (r Range) EndLabel() string {
	return boundLabel(r.End, "the end")
}

func (r Range) String() string {
	return fmt.Sprintf("%s to %s", r.StartLabel(), r.EndLabel())
}

func boundLabel(b optional.Option[time.Time], open string) string {
	if b.IsNone() {
		return open
	}

	return types.DateKey(b.Unwrap())
}

// EmptyRangeError converts an empty range result into an error for callers
// that cannot carry the explicit empty value any further.
func EmptyRangeError(r Range) error {
	return errors.Newf(errors.ErrCodeRangeEmpty, "no data between %s and %s", r.StartLabel(), r.EndLabel())
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}

	return -1
}
