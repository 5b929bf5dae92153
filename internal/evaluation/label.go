package evaluation

import (
	"math"

	"github.com/rxtech-lab/argo-signals/internal/signal"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// DefaultThreshold is the fractional open to close move needed for a
// directional label.
const DefaultThreshold = 0.001

// Label classifies one bar by its own open to close move. A move above
// threshold is BUY, below -threshold SELL, anything else NEUTRAL.
func Label(open, close, threshold float64) types.SignalType {
	if open == 0 || math.IsNaN(open) || math.IsNaN(close) {
		return types.SignalTypeNeutral
	}

	delta := (close - open) / open

	switch {
	case delta > threshold:
		return types.SignalTypeBuy
	case delta < -threshold:
		return types.SignalTypeSell
	default:
		return types.SignalTypeNeutral
	}
}

// ValidateThreshold rejects a negative or NaN labeling threshold.
func ValidateThreshold(threshold float64) error {
	if threshold < 0 || math.IsNaN(threshold) {
		return errors.Newf(errors.ErrCodeInvalidThreshold, "labeling threshold must be non-negative, got %v", threshold)
	}

	return nil
}

// LabelTable returns a copy of table whose rows carry their own open/close
// label. The input table is left untouched.
func LabelTable(table *signal.DecisionTable, threshold float64) (*signal.DecisionTable, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}

	rows := make([]signal.DecisionRow, len(table.Rows))
	for i, row := range table.Rows {
		row.Label = Label(row.Open, row.Close, threshold)
		rows[i] = row
	}

	labeled := *table
	labeled.Rows = rows
	labeled.Labeled = true

	return &labeled, nil
}
