package pipeline

import (
	"context"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/config"
	"github.com/rxtech-lab/argo-signals/internal/indicator"
	"github.com/rxtech-lab/argo-signals/internal/signal"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Compute maps a price history and a config to the decision table of the
// configured range. A range matching no date yields None.
func Compute(bars []types.PriceBar, cfg *config.Config) (optional.Option[*signal.DecisionTable], error) {
	table, err := computeTable(bars, cfg)
	if err != nil {
		return optional.None[*signal.DecisionTable](), err
	}

	return finish(table, cfg), nil
}

// ComputeChunked computes the same table as Compute with the indicators
// derived over chunks of chunkSize bars in parallel. Every chunk is given
// enough preceding bars to warm up and the joined features are fused in one
// pass, so fill and votes see the whole history and windowed indicators
// match the single pass exactly. Recursive ones (EMA, Wilder smoothing, OBV)
// restart from the chunk's history and agree only once their seed has
// decayed.
func ComputeChunked(ctx context.Context, bars []types.PriceBar, cfg *config.Config, chunkSize int) (optional.Option[*signal.DecisionTable], error) {
	if chunkSize <= 0 || chunkSize >= len(bars) {
		return Compute(bars, cfg)
	}

	// validate the whole history once so errors name the same dates a single
	// pass would report
	if err := indicator.ValidateBars(bars, cfg.Calendar); err != nil {
		return optional.None[*signal.DecisionTable](), err
	}

	history, err := historyLength(cfg)
	if err != nil {
		return optional.None[*signal.DecisionTable](), err
	}

	starts := make([]int, 0, len(bars)/chunkSize+1)
	for start := 0; start < len(bars); start += chunkSize {
		starts = append(starts, start)
	}

	parts := make([][]indicator.Series, len(starts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))

	for i, start := range starts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			from := max(start-history, 0)
			end := min(start+chunkSize, len(bars))

			features, err := computeFeatures(bars[from:end], cfg)
			if err != nil {
				return err
			}

			parts[i] = trimFeatures(features, start-from)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return optional.None[*signal.DecisionTable](), err
	}

	table, err := fuse(joinFeatures(indicator.NewBars(bars), parts, cfg.Specs()), cfg)
	if err != nil {
		return optional.None[*signal.DecisionTable](), err
	}

	return finish(table, cfg), nil
}

// trimFeatures drops the first skip history rows of every series.
func trimFeatures(features *indicator.FeatureTable, skip int) []indicator.Series {
	all := features.All()
	out := make([]indicator.Series, len(all))

	for i, s := range all {
		s.Values = s.Values[skip:]
		out[i] = s
	}

	return out
}

// joinFeatures concatenates chunk series in order. Warm-up counts come from
// the first chunk, which starts at the first bar.
func joinFeatures(bars *indicator.Bars, parts [][]indicator.Series, specs []indicator.Spec) *indicator.FeatureTable {
	joined := make([]indicator.Series, len(parts[0]))

	for i, s := range parts[0] {
		values := make([]float64, 0, bars.Len())
		for _, part := range parts {
			values = append(values, part[i].Values...)
		}

		joined[i] = indicator.Series{Name: s.Name, Values: values, Warmup: s.Warmup}
	}

	return indicator.NewFeatureTable(bars, specs, joined)
}

// historyLength bounds the bars a chunk needs before its first row so every
// windowed series is defined from the chunk start.
func historyLength(cfg *config.Config) (int, error) {
	lookback, err := indicator.NewEngine(nil).Lookback(cfg.Specs())
	if err != nil {
		return 0, err
	}

	return lookback + 1, nil
}

func computeTable(bars []types.PriceBar, cfg *config.Config) (*signal.DecisionTable, error) {
	features, err := computeFeatures(bars, cfg)
	if err != nil {
		return nil, err
	}

	return fuse(features, cfg)
}

func computeFeatures(bars []types.PriceBar, cfg *config.Config) (*indicator.FeatureTable, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "config is required")
	}

	engine := indicator.NewEngine(nil,
		indicator.WithCalendar(cfg.Calendar),
		indicator.WithWorkers(cfg.Workers),
	)

	return engine.Compute(bars, cfg.Specs())
}

func fuse(features *indicator.FeatureTable, cfg *config.Config) (*signal.DecisionTable, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}

	return signal.NewEngine(rules, signal.WithFillPolicy(cfg.FillPolicy)).Fuse(features)
}

func finish(table *signal.DecisionTable, cfg *config.Config) optional.Option[*signal.DecisionTable] {
	if cfg.DropWarmup {
		table = table.DropWarmup()
	}

	return table.Between(cfg.Range())
}
