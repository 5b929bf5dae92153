// Package format renders decision table slices as plain text blocks that can
// be embedded in a prompt.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/signal"
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// Missing marks an undefined indicator value.
const Missing = "n/a"

// Options controls the rendering.
type Options struct {
	// Precision is the number of decimals printed for prices and features.
	Precision int
	// SkipFeatures leaves the raw indicator values out.
	SkipFeatures bool
}

// DefaultOptions prints four decimals and every column.
func DefaultOptions() Options {
	return Options{Precision: 4}
}

// Format renders table over r with the default options.
func Format(table optional.Option[*signal.DecisionTable], r signal.Range) string {
	return FormatWithOptions(table, r, DefaultOptions())
}

// FormatWithOptions renders one block per date: prices, indicator values,
// per-indicator signals and the final decision. An empty range renders a
// single line saying so.
func FormatWithOptions(table optional.Option[*signal.DecisionTable], r signal.Range, opts Options) string {
	if table.IsNone() || table.Unwrap().Len() == 0 {
		return fmt.Sprintf("No data between %s and %s.\n", r.StartLabel(), r.EndLabel())
	}

	t := table.Unwrap()
	start, end := bounds(t, r)

	var b strings.Builder

	fmt.Fprintf(&b, "Technical indicators from %s to %s:\n", start, end)

	for _, row := range t.Rows {
		fmt.Fprintf(&b, "\n%s:\n", types.DateKey(row.Date))
		fmt.Fprintf(&b, "  open: %s\n", number(row.Open, opts.Precision))
		fmt.Fprintf(&b, "  close: %s\n", number(row.Close, opts.Precision))

		if !opts.SkipFeatures {
			for i, name := range t.FeatureNames {
				value := Missing
				if v := row.Feature(i); v.IsSome() {
					value = number(v.Unwrap(), opts.Precision)
				}

				fmt.Fprintf(&b, "  %s: %s\n", name, value)
			}
		}

		for i, name := range t.SignalNames {
			fmt.Fprintf(&b, "  %s: %s\n", name, row.Signals[i])
		}

		fmt.Fprintf(&b, "  final_decision: %s\n", row.FinalDecision)
	}

	return b.String()
}

// bounds labels open ends of r with the first and last date present.
func bounds(t *signal.DecisionTable, r signal.Range) (string, string) {
	start := types.DateKey(t.Rows[0].Date)
	if r.Start.IsSome() {
		start = types.DateKey(r.Start.Unwrap())
	}

	end := types.DateKey(t.Rows[len(t.Rows)-1].Date)
	if r.End.IsSome() {
		end = types.DateKey(r.End.Unwrap())
	}

	return start, end
}

func number(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}
