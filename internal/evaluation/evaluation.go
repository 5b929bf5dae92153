// Package evaluation scores the decisions of a table against the next
// day's open to close move.
package evaluation

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-signals/internal/signal"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/shopspring/decimal"
)

// RowResult is the outcome of acting on one row's decision.
type RowResult struct {
	Date     time.Time
	Decision types.SignalType
	// Label is the row's own open/close label.
	Label            types.SignalType
	Profit           decimal.Decimal
	CumulativeProfit decimal.Decimal
}

// Report summarises a table.
type Report struct {
	Rows        []RowResult
	TotalProfit decimal.Decimal
	BuyProfit   decimal.Decimal
	SellProfit  decimal.Decimal
	Buys        int
	Sells       int
	Neutrals    int
	// Hits counts BUY and SELL decisions whose next row carries the same label.
	Hits int
	// UndefinedCells counts undefined feature values.
	UndefinedCells int
	// CompleteRows counts rows with every feature defined.
	CompleteRows int
}

// HitRate is Hits over the directional decisions that have a next row.
func (r Report) HitRate() float64 {
	acted := 0
	for i, row := range r.Rows {
		if i+1 < len(r.Rows) && row.Decision != types.SignalTypeNeutral {
			acted++
		}
	}

	if acted == 0 {
		return 0
	}

	return float64(r.Hits) / float64(acted)
}

// Evaluate computes next-day profit for every row. A BUY earns
// close-open of the next row, a SELL earns open-close, NEUTRAL and the last
// row earn nothing.
func Evaluate(table *signal.DecisionTable, threshold float64) (Report, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return Report{}, err
	}

	report := Report{
		Rows:        make([]RowResult, table.Len()),
		TotalProfit: decimal.Zero,
		BuyProfit:   decimal.Zero,
		SellProfit:  decimal.Zero,
	}

	cumulative := decimal.Zero

	for i, row := range table.Rows {
		profit := decimal.Zero

		if i+1 < table.Len() {
			next := table.Rows[i+1]
			move := decimal.NewFromFloat(next.Close).Sub(decimal.NewFromFloat(next.Open))

			switch row.FinalDecision {
			case types.SignalTypeBuy:
				profit = move
			case types.SignalTypeSell:
				profit = move.Neg()
			}

			if row.FinalDecision != types.SignalTypeNeutral &&
				row.FinalDecision == Label(next.Open, next.Close, threshold) {
				report.Hits++
			}
		}

		cumulative = cumulative.Add(profit)
		report.TotalProfit = report.TotalProfit.Add(profit)

		switch row.FinalDecision {
		case types.SignalTypeBuy:
			report.Buys++
			report.BuyProfit = report.BuyProfit.Add(profit)
		case types.SignalTypeSell:
			report.Sells++
			report.SellProfit = report.SellProfit.Add(profit)
		default:
			report.Neutrals++
		}

		undefined := 0
		for _, v := range row.Features {
			if math.IsNaN(v) {
				undefined++
			}
		}

		report.UndefinedCells += undefined
		if undefined == 0 {
			report.CompleteRows++
		}

		report.Rows[i] = RowResult{
			Date:             row.Date,
			Decision:         row.FinalDecision,
			Label:            Label(row.Open, row.Close, threshold),
			Profit:           profit,
			CumulativeProfit: cumulative,
		}
	}

	return report, nil
}
