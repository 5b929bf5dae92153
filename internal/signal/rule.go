package signal

import (
	"math"

	"github.com/rxtech-lab/argo-signals/internal/types"
)

// ColumnClose names the close price when a rule reads it as an input.
const ColumnClose = "close"

// Rule turns one or more indicator columns into a BUY, SELL or NEUTRAL
// signal per date.
type Rule interface {
	// Name is the signal column name, e.g. rsi_signal.
	Name() string
	// Inputs lists the feature columns the rule reads, in the order they are
	// passed to Evaluate.
	Inputs() []string
	// Lookback is the number of prior rows the rule reads besides row t.
	Lookback() int
	// Evaluate decides row t. inputs[i] is the column named by Inputs()[i].
	// Any undefined (NaN) value it reads must yield NEUTRAL.
	Evaluate(inputs [][]float64, t int) types.SignalType
}

func defined(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return false
		}
	}

	return true
}

// CrossoverRule is BUY on the row where the short average crosses above the
// long one and SELL where it crosses below.
type CrossoverRule struct {
	name  string
	short string
	long  string
}

// NewCrossoverRule creates a crossover rule named name over two columns.
func NewCrossoverRule(name, short, long string) *CrossoverRule {
	return &CrossoverRule{name: name, short: short, long: long}
}

func (r *CrossoverRule) Name() string     { return r.name }
func (r *CrossoverRule) Inputs() []string { return []string{r.short, r.long} }
func (r *CrossoverRule) Lookback() int    { return 1 }

func (r *CrossoverRule) Evaluate(inputs [][]float64, t int) types.SignalType {
	if t < 1 {
		return types.SignalTypeNeutral
	}

	short, long := inputs[0], inputs[1]
	ps, pl, cs, cl := short[t-1], long[t-1], short[t], long[t]

	if !defined(ps, pl, cs, cl) {
		return types.SignalTypeNeutral
	}

	switch {
	case ps < pl && cs > cl:
		return types.SignalTypeBuy
	case ps > pl && cs < cl:
		return types.SignalTypeSell
	default:
		return types.SignalTypeNeutral
	}
}

// BandRule is BUY below the lower bound and SELL above the upper bound.
type BandRule struct {
	name  string
	input string
	lower float64
	upper float64
}

// NewBandRule creates a threshold rule over a single column.
func NewBandRule(name, input string, lower, upper float64) *BandRule {
	return &BandRule{name: name, input: input, lower: lower, upper: upper}
}

func (r *BandRule) Name() string     { return r.name }
func (r *BandRule) Inputs() []string { return []string{r.input} }
func (r *BandRule) Lookback() int    { return 0 }

func (r *BandRule) Evaluate(inputs [][]float64, t int) types.SignalType {
	v := inputs[0][t]

	switch {
	case !defined(v):
		return types.SignalTypeNeutral
	case v < r.lower:
		return types.SignalTypeBuy
	case v > r.upper:
		return types.SignalTypeSell
	default:
		return types.SignalTypeNeutral
	}
}

// CompareRule is BUY when the first column is above the second and SELL when
// it is below.
type CompareRule struct {
	name string
	a    string
	b    string
}

// NewCompareRule creates a rule comparing column a with column b.
func NewCompareRule(name, a, b string) *CompareRule {
	return &CompareRule{name: name, a: a, b: b}
}

func (r *CompareRule) Name() string     { return r.name }
func (r *CompareRule) Inputs() []string { return []string{r.a, r.b} }
func (r *CompareRule) Lookback() int    { return 0 }

func (r *CompareRule) Evaluate(inputs [][]float64, t int) types.SignalType {
	return compare(inputs[0][t], inputs[1][t])
}

func compare(a, b float64) types.SignalType {
	switch {
	case !defined(a, b):
		return types.SignalTypeNeutral
	case a > b:
		return types.SignalTypeBuy
	case a < b:
		return types.SignalTypeSell
	default:
		return types.SignalTypeNeutral
	}
}

// SignRule is BUY on positive values and SELL on negative ones.
type SignRule struct {
	name  string
	input string
}

func NewSignRule(name, input string) *SignRule {
	return &SignRule{name: name, input: input}
}

func (r *SignRule) Name() string     { return r.name }
func (r *SignRule) Inputs() []string { return []string{r.input} }
func (r *SignRule) Lookback() int    { return 0 }

func (r *SignRule) Evaluate(inputs [][]float64, t int) types.SignalType {
	return compare(inputs[0][t], 0)
}

// ChannelRule is BUY when close falls below the lower band and SELL when it
// rises above the upper band.
type ChannelRule struct {
	name  string
	lower string
	upper string
}

func NewChannelRule(name, lower, upper string) *ChannelRule {
	return &ChannelRule{name: name, lower: lower, upper: upper}
}

func (r *ChannelRule) Name() string     { return r.name }
func (r *ChannelRule) Inputs() []string { return []string{ColumnClose, r.lower, r.upper} }
func (r *ChannelRule) Lookback() int    { return 0 }

func (r *ChannelRule) Evaluate(inputs [][]float64, t int) types.SignalType {
	c, lower, upper := inputs[0][t], inputs[1][t], inputs[2][t]

	switch {
	case !defined(c, lower, upper):
		return types.SignalTypeNeutral
	case c < lower:
		return types.SignalTypeBuy
	case c > upper:
		return types.SignalTypeSell
	default:
		return types.SignalTypeNeutral
	}
}

// StochasticRule is BUY when %K is oversold and above %D, SELL when %K is
// overbought and below %D.
type StochasticRule struct {
	name       string
	k          string
	d          string
	oversold   float64
	overbought float64
}

func NewStochasticRule(name, k, d string, oversold, overbought float64) *StochasticRule {
	return &StochasticRule{name: name, k: k, d: d, oversold: oversold, overbought: overbought}
}

func (r *StochasticRule) Name() string     { return r.name }
func (r *StochasticRule) Inputs() []string { return []string{r.k, r.d} }
func (r *StochasticRule) Lookback() int    { return 0 }

func (r *StochasticRule) Evaluate(inputs [][]float64, t int) types.SignalType {
	k, d := inputs[0][t], inputs[1][t]

	switch {
	case !defined(k, d):
		return types.SignalTypeNeutral
	case k < r.oversold && k > d:
		return types.SignalTypeBuy
	case k > r.overbought && k < d:
		return types.SignalTypeSell
	default:
		return types.SignalTypeNeutral
	}
}

// TrendStrengthRule is BUY whenever the trend strength exceeds the threshold.
// It never emits SELL because the input carries no direction.
type TrendStrengthRule struct {
	name      string
	input     string
	threshold float64
}

func NewTrendStrengthRule(name, input string, threshold float64) *TrendStrengthRule {
	return &TrendStrengthRule{name: name, input: input, threshold: threshold}
}

func (r *TrendStrengthRule) Name() string     { return r.name }
func (r *TrendStrengthRule) Inputs() []string { return []string{r.input} }
func (r *TrendStrengthRule) Lookback() int    { return 0 }

func (r *TrendStrengthRule) Evaluate(inputs [][]float64, t int) types.SignalType {
	v := inputs[0][t]
	if defined(v) && v > r.threshold {
		return types.SignalTypeBuy
	}

	return types.SignalTypeNeutral
}

// MomentumRule compares a column with its previous row.
type MomentumRule struct {
	name  string
	input string
}

func NewMomentumRule(name, input string) *MomentumRule {
	return &MomentumRule{name: name, input: input}
}

func (r *MomentumRule) Name() string     { return r.name }
func (r *MomentumRule) Inputs() []string { return []string{r.input} }
func (r *MomentumRule) Lookback() int    { return 1 }

func (r *MomentumRule) Evaluate(inputs [][]float64, t int) types.SignalType {
	if t < 1 {
		return types.SignalTypeNeutral
	}

	return compare(inputs[0][t], inputs[0][t-1])
}
