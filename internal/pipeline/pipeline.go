// Package pipeline runs one signal computation end to end: read bars,
// derive indicators, fuse signals, slice the range and persist it.
package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/config"
	"github.com/rxtech-lab/argo-signals/internal/datasource"
	"github.com/rxtech-lab/argo-signals/internal/evaluation"
	"github.com/rxtech-lab/argo-signals/internal/logger"
	"github.com/rxtech-lab/argo-signals/internal/metrics"
	"github.com/rxtech-lab/argo-signals/internal/signal"
	"github.com/rxtech-lab/argo-signals/internal/writer"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"go.uber.org/zap"
)

// Result describes one finished run.
type Result struct {
	RunID string
	Bars  int
	Range signal.Range
	// Table is None when the range matched no date.
	Table   optional.Option[*signal.DecisionTable]
	Outputs []string
	Elapsed time.Duration
}

// Pipeline owns the collaborators of a run.
type Pipeline struct {
	config    *config.Config
	source    datasource.BarSource
	writers   []writer.TableWriter
	logger    *logger.Logger
	metrics   *metrics.Metrics
	chunkSize int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWriters replaces the writers derived from the config paths.
func WithWriters(writers ...writer.TableWriter) Option {
	return func(p *Pipeline) {
		p.writers = writers
	}
}

// WithMetrics records run metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithChunkSize splits the computation into chunks of size bars.
func WithChunkSize(size int) Option {
	return func(p *Pipeline) {
		p.chunkSize = size
	}
}

// New creates a pipeline reading from source. Writers default to the csv
// and parquet paths of cfg.
func New(cfg *config.Config, source datasource.BarSource, log *logger.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		config:  cfg,
		source:  source,
		writers: WritersFor(cfg, log),
		logger:  log,
		metrics: metrics.New(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Metrics returns the collectors the pipeline records on.
func (p *Pipeline) Metrics() *metrics.Metrics {
	return p.metrics
}

// Run executes the pipeline once. The persisted table carries the open/close
// label of every row. An empty range is not an error: the result carries
// None and nothing is written.
func (p *Pipeline) Run(ctx context.Context) (result Result, err error) {
	started := time.Now()
	result = Result{
		RunID: uuid.New().String(),
		Range: p.config.Range(),
		Table: optional.None[*signal.DecisionTable](),
	}

	log := p.logger.With(zap.String("run_id", result.RunID))
	log.Info("Starting signal run",
		zap.String("range", result.Range.String()),
		zap.Int("features", len(p.config.Specs())),
	)

	status := metrics.StatusError
	defer func() {
		result.Elapsed = time.Since(started)
		p.metrics.ObserveRun(status, result.Elapsed)
		p.exportMetrics(log)
	}()

	bars, err := p.source.Load(ctx)
	if err != nil {
		log.Error("Failed to load bars", zap.Error(err))

		return result, err
	}

	result.Bars = len(bars)
	p.metrics.BarsTotal.Add(float64(len(bars)))

	var table optional.Option[*signal.DecisionTable]
	if p.chunkSize > 0 {
		table, err = ComputeChunked(ctx, bars, p.config, p.chunkSize)
	} else {
		table, err = Compute(bars, p.config)
	}

	if err != nil {
		log.Error("Failed to compute signals", zap.Int("bars", len(bars)), zap.Error(err))

		return result, err
	}

	if table.IsNone() {
		status = metrics.StatusEmpty
		log.Warn("No data in range", zap.String("range", result.Range.String()), zap.Int("bars", len(bars)))

		return result, nil
	}

	decisions, err := evaluation.LabelTable(table.Unwrap(), p.config.Labeling.Threshold)
	if err != nil {
		log.Error("Failed to label decision table", zap.Float64("threshold", p.config.Labeling.Threshold), zap.Error(err))

		return result, err
	}

	result.Table = optional.Some(decisions)
	p.observe(decisions)

	for _, w := range p.writers {
		if err := w.Write(ctx, decisions); err != nil {
			log.Error("Failed to write decision table", zap.String("path", w.OutputPath()), zap.Error(err))

			return result, err
		}

		result.Outputs = append(result.Outputs, w.OutputPath())
	}

	status = metrics.StatusOK

	_, tally := signal.Vote(decisions.FinalDecisions())

	log.Info("Signal run finished",
		zap.Int("bars", len(bars)),
		zap.Int("rows", decisions.Len()),
		zap.Int("warmup", decisions.Warmup),
		zap.Int("buy", tally.Buy),
		zap.Int("sell", tally.Sell),
		zap.Int("neutral", tally.Neutral),
		zap.Strings("outputs", result.Outputs),
		zap.Duration("elapsed", time.Since(started)),
	)

	return result, nil
}

func (p *Pipeline) observe(table *signal.DecisionTable) {
	p.metrics.RowsTotal.Add(float64(table.Len()))
	p.metrics.WarmupRows.Set(float64(table.Warmup))

	for _, row := range table.Rows {
		p.metrics.ObserveDecision(row.FinalDecision)

		for i, s := range row.Signals {
			p.metrics.ObserveSignal(table.SignalNames[i], s)
		}

		if ce := p.logger.Check(zap.DebugLevel, "Decision"); ce != nil {
			ce.Write(zap.Time("date", row.Date), zap.Stringer("decision", row.FinalDecision))
		}
	}
}

func (p *Pipeline) exportMetrics(log *zap.Logger) {
	path := p.config.Paths.Metrics
	if path == "" {
		return
	}

	if err := p.metrics.WriteTextfile(path); err != nil {
		log.Warn("Failed to export metrics", zap.String("path", path), zap.Error(err))
	}
}

// WritersFor returns a csv writer for processed_data and a parquet writer
// for parquet_data, skipping empty paths.
func WritersFor(cfg *config.Config, log *logger.Logger) []writer.TableWriter {
	var writers []writer.TableWriter

	if cfg.Paths.ProcessedData != "" {
		writers = append(writers, writer.NewCSVWriter(cfg.Paths.ProcessedData, log))
	}

	if cfg.Paths.ParquetData != "" {
		writers = append(writers, writer.NewParquetWriter(cfg.Paths.ParquetData, log))
	}

	return writers
}

// OpenSource picks the reader for path: csv files are parsed directly,
// anything else goes through DuckDB. Bars after the configured end date are
// dropped.
func OpenSource(cfg *config.Config, log *logger.Logger) (datasource.BarSource, error) {
	path := cfg.Paths.RawData
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "paths.raw_data is required")
	}

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return datasource.NewCSVSource(path, log, datasource.WithEnd(cfg.EndDate)), nil
	}

	return datasource.NewDuckDBSource(path, log, datasource.WithEnd(cfg.EndDate))
}
