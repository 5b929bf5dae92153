package signal

import (
	"math"

	"github.com/rxtech-lab/argo-signals/internal/indicator"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// Engine derives per-indicator signals from a feature table and fuses them
// into one decision per date. It holds no mutable state.
type Engine struct {
	rules []Rule
	fill  FillPolicy
}

// Option configures an Engine.
type Option func(*Engine)

// WithFillPolicy sets how undefined indicator values are treated.
func WithFillPolicy(policy FillPolicy) Option {
	return func(e *Engine) {
		e.fill = policy
	}
}

// NewEngine creates an engine evaluating rules in the given order.
func NewEngine(rules []Rule, opts ...Option) *Engine {
	e := &Engine{
		rules: rules,
		fill:  FillForwardBackward,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Rules returns the rules in signal column order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)

	return out
}

// Warmup returns the number of leading rows before every feature is defined
// and every rule can vote.
func (e *Engine) Warmup(features *indicator.FeatureTable) (int, error) {
	w := features.Warmup()

	for _, rule := range e.rules {
		rw, err := ruleWarmup(rule, features)
		if err != nil {
			return 0, err
		}

		if rw > w {
			w = rw
		}
	}

	return w, nil
}

func ruleWarmup(rule Rule, features *indicator.FeatureTable) (int, error) {
	w := 0

	for _, name := range rule.Inputs() {
		if name == ColumnClose {
			continue
		}

		s, ok := features.Series(name)
		if !ok {
			return 0, errors.Newf(errors.ErrCodeMissingFeature, "signal %s needs feature %s, which was not computed", rule.Name(), name)
		}

		if s.Warmup > w {
			w = s.Warmup
		}
	}

	return w + rule.Lookback(), nil
}

func (e *Engine) inputs(rule Rule, features *indicator.FeatureTable) [][]float64 {
	names := rule.Inputs()
	out := make([][]float64, len(names))

	for i, name := range names {
		if name == ColumnClose {
			out[i] = features.Bars.Close
			continue
		}

		s, _ := features.Series(name)
		out[i] = e.fill.apply(s.Values)
	}

	return out
}

// Fuse evaluates every rule on every row and applies the majority vote. Rows
// before a rule's warm-up vote NEUTRAL for that rule.
func (e *Engine) Fuse(features *indicator.FeatureTable) (*DecisionTable, error) {
	warmup, err := e.Warmup(features)
	if err != nil {
		return nil, err
	}

	n := features.Len()
	columns := make([][]types.SignalType, len(e.rules))

	for r, rule := range e.rules {
		rw, err := ruleWarmup(rule, features)
		if err != nil {
			return nil, err
		}

		inputs := e.inputs(rule, features)
		column := make([]types.SignalType, n)

		for t := rw; t < n; t++ {
			column[t] = rule.Evaluate(inputs, t)
		}

		columns[r] = column
	}

	series := features.All()
	bars := features.Bars
	rows := make([]DecisionRow, n)

	for t := 0; t < n; t++ {
		values := make([]float64, len(series))
		for i, s := range series {
			values[i] = s.Values[t]
			if math.IsInf(values[i], 0) {
				values[i] = math.NaN()
			}
		}

		signals := make([]types.SignalType, len(columns))
		for r := range columns {
			signals[r] = columns[r][t]
		}

		decision, tally := Vote(signals)

		rows[t] = DecisionRow{
			Date:          bars.Dates[t],
			Open:          bars.Open[t],
			Close:         bars.Close[t],
			Features:      values,
			Signals:       signals,
			Votes:         tally,
			FinalDecision: decision,
			Warm:          t >= warmup,
		}
	}

	signalNames := make([]string, len(e.rules))
	for i, rule := range e.rules {
		signalNames[i] = rule.Name()
	}

	return &DecisionTable{
		FeatureNames: features.Names(),
		SignalNames:  signalNames,
		Rows:         rows,
		Warmup:       warmup,
	}, nil
}
