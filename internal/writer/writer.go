package writer

import (
	"context"
	"strings"

	"github.com/rxtech-lab/argo-signals/internal/signal"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// Fixed column names of a persisted decision table. Feature and signal
// columns sit between close and final_decision. Labeled tables add label
// after final_decision.
const (
	ColumnDate          = "date"
	ColumnOpen          = "open"
	ColumnClose         = "close"
	ColumnFinalDecision = "final_decision"
	ColumnLabel         = "label"
	ColumnWarm          = "warm"
)

// TableWriter persists a decision table.
type TableWriter interface {
	Write(ctx context.Context, table *signal.DecisionTable) error
	OutputPath() string
}

// IsSignalColumn reports whether a persisted column holds a signal code.
func IsSignalColumn(name string) bool {
	return strings.HasSuffix(name, "_signal") || strings.HasSuffix(name, "_cross")
}

// header returns the persisted column order of table.
func header(table *signal.DecisionTable) []string {
	names := make([]string, 0, len(table.FeatureNames)+len(table.SignalNames)+6)
	names = append(names, ColumnDate, ColumnOpen, ColumnClose)
	names = append(names, table.FeatureNames...)
	names = append(names, table.SignalNames...)
	names = append(names, ColumnFinalDecision)

	if table.Labeled {
		names = append(names, ColumnLabel)
	}

	return append(names, ColumnWarm)
}

// layout maps persisted column positions back to table fields.
type layout struct {
	date, open, close, final, label, warm int
	features                              []int
	signals                               []int
	featureNames                          []string
	signalNames                           []string
}

func parseLayout(names []string) (layout, error) {
	l := layout{date: -1, open: -1, close: -1, final: -1, label: -1, warm: -1}

	for i, raw := range names {
		name := strings.TrimSpace(raw)

		switch {
		case name == ColumnDate:
			l.date = i
		case name == ColumnOpen:
			l.open = i
		case name == ColumnClose:
			l.close = i
		case name == ColumnFinalDecision:
			l.final = i
		case name == ColumnLabel:
			l.label = i
		case name == ColumnWarm:
			l.warm = i
		case IsSignalColumn(name):
			l.signals = append(l.signals, i)
			l.signalNames = append(l.signalNames, name)
		default:
			l.features = append(l.features, i)
			l.featureNames = append(l.featureNames, name)
		}
	}

	required := map[string]int{
		ColumnDate:          l.date,
		ColumnOpen:          l.open,
		ColumnClose:         l.close,
		ColumnFinalDecision: l.final,
	}
	for _, name := range []string{ColumnDate, ColumnOpen, ColumnClose, ColumnFinalDecision} {
		if required[name] < 0 {
			return layout{}, errors.Newf(errors.ErrCodeMissingColumn, "decision table has no %s column", name)
		}
	}

	return l, nil
}

// newTable builds the table shell for a layout. Warmup is the count of
// leading rows that are not warm.
func (l layout) newTable(rows []signal.DecisionRow) *signal.DecisionTable {
	warmup := 0
	for _, row := range rows {
		if row.Warm {
			break
		}

		warmup++
	}

	return &signal.DecisionTable{
		FeatureNames: l.featureNames,
		SignalNames:  l.signalNames,
		Rows:         rows,
		Warmup:       warmup,
		Labeled:      l.label >= 0,
	}
}
