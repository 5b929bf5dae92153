package indicator

import (
	"runtime"

	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Engine computes indicator series from a price history. It holds no state
// between calls and is safe for concurrent use.
type Engine struct {
	registry IndicatorRegistry
	calendar Calendar
	workers  int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithCalendar sets the gap rule used while validating bars.
func WithCalendar(calendar Calendar) EngineOption {
	return func(e *Engine) {
		e.calendar = calendar
	}
}

// WithWorkers bounds how many indicators are computed at once.
func WithWorkers(workers int) EngineOption {
	return func(e *Engine) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

// NewEngine creates an engine backed by registry. A nil registry uses the
// default one.
func NewEngine(registry IndicatorRegistry, opts ...EngineOption) *Engine {
	if registry == nil {
		registry = NewDefaultRegistry()
	}

	e := &Engine{
		registry: registry,
		calendar: CalendarWeekdays,
		workers:  runtime.GOMAXPROCS(0),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

type resolved struct {
	spec      Spec
	indicator Indicator
}

// Resolve checks specs against the registry and their own parameters without
// touching any data.
func (e *Engine) Resolve(specs []Spec) ([]Indicator, error) {
	items, err := e.resolve(specs)
	if err != nil {
		return nil, err
	}

	out := make([]Indicator, len(items))
	for i, item := range items {
		out[i] = item.indicator
	}

	return out, nil
}

// Lookback returns the longest warm-up any of specs produces.
func (e *Engine) Lookback(specs []Spec) (int, error) {
	items, err := e.resolve(specs)
	if err != nil {
		return 0, err
	}

	w := 0
	for _, item := range items {
		if l := item.indicator.Lookback(item.spec.Params); l > w {
			w = l
		}
	}

	return w, nil
}

func (e *Engine) resolve(specs []Spec) ([]resolved, error) {
	if len(specs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "no indicators requested")
	}

	seen := make(map[string]Spec)
	items := make([]resolved, 0, len(specs))

	for _, spec := range specs {
		ind, err := e.registry.GetIndicator(spec.Type)
		if err != nil {
			return nil, err
		}

		if err := ind.Validate(spec.Params); err != nil {
			return nil, err
		}

		for _, col := range ind.Columns(spec.Params) {
			if other, dup := seen[col]; dup {
				return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "column %s requested by both %s and %s", col, other, spec)
			}

			seen[col] = spec
		}

		items = append(items, resolved{spec: spec, indicator: ind})
	}

	return items, nil
}

// Compute validates bars and derives every requested series. The result has
// exactly one row per bar, in input order.
func (e *Engine) Compute(bars []types.PriceBar, specs []Spec) (*FeatureTable, error) {
	items, err := e.resolve(specs)
	if err != nil {
		return nil, err
	}

	if err := ValidateBars(bars, e.calendar); err != nil {
		return nil, err
	}

	columns := NewBars(bars)

	for _, item := range items {
		if requiresVolume(item.indicator) {
			if err := requireVolume(columns, item.spec.Type); err != nil {
				return nil, err
			}
		}
	}

	results := make([][]Series, len(items))

	var g errgroup.Group
	g.SetLimit(e.workers)

	for i, item := range items {
		g.Go(func() error {
			series, err := item.indicator.Compute(columns, item.spec.Params)
			if err != nil {
				return err
			}

			results[i] = series

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]Series, 0, len(items))
	for _, series := range results {
		all = append(all, series...)
	}

	return NewFeatureTable(columns, specs, all), nil
}
