package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/config"
	"github.com/rxtech-lab/argo-signals/internal/evaluation"
	"github.com/rxtech-lab/argo-signals/internal/format"
	"github.com/rxtech-lab/argo-signals/internal/logger"
	"github.com/rxtech-lab/argo-signals/internal/pipeline"
	"github.com/rxtech-lab/argo-signals/internal/signal"
	"github.com/rxtech-lab/argo-signals/internal/version"
	"github.com/rxtech-lab/argo-signals/internal/writer"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap/zapcore"
)

var dateFlagConfig = cli.TimestampConfig{
	Layouts: []string{time.DateOnly},
}

func startFlag() cli.Flag {
	return &cli.TimestampFlag{
		Name:    "start",
		Aliases: []string{"s"},
		Usage:   "First reported date in `YYYY-MM-DD` format, overrides the config",
		Config:  dateFlagConfig,
	}
}

func endFlag() cli.Flag {
	return &cli.TimestampFlag{
		Name:    "end",
		Aliases: []string{"e"},
		Usage:   "Last reported date in `YYYY-MM-DD` format, overrides the config",
		Config:  dateFlagConfig,
	}
}

func inputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "Decision table written by compute (csv or parquet)",
		Required: true,
	}
}

// dateOption returns the flag value when it was given.
func dateOption(cmd *cli.Command, name string, fallback optional.Option[time.Time]) optional.Option[time.Time] {
	if !cmd.IsSet(name) {
		return fallback
	}

	return optional.Some(cmd.Timestamp(name))
}

func flagRange(cmd *cli.Command) signal.Range {
	none := optional.None[time.Time]()

	return signal.NewRange(dateOption(cmd, "start", none), dateOption(cmd, "end", none))
}

func readTable(ctx context.Context, path string) (*signal.DecisionTable, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer file.Close()

		return writer.ReadCSV(file)
	}

	return writer.ReadParquet(ctx, path)
}

func computeAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	cfg.StartDate = dateOption(cmd, "start", cfg.StartDate)
	cfg.EndDate = dateOption(cmd, "end", cfg.EndDate)

	if err := cfg.Validate(); err != nil {
		return err
	}

	level := zapcore.InfoLevel
	if cmd.Bool("verbose") {
		level = zapcore.DebugLevel
	}

	lg, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer lg.Sync() //nolint:errcheck // stdout sync fails on some terminals

	source, err := pipeline.OpenSource(cfg, lg)
	if err != nil {
		return err
	}
	defer source.Close()

	result, err := pipeline.New(cfg, source, lg, pipeline.WithChunkSize(int(cmd.Int("chunk-size")))).Run(ctx)
	if err != nil {
		return err
	}

	if result.Table.IsNone() {
		return signal.EmptyRangeError(result.Range)
	}

	if cmd.Bool("print") {
		fmt.Fprint(cmd.Root().Writer, format.Format(result.Table, result.Range))
	}

	return nil
}

func formatAction(ctx context.Context, cmd *cli.Command) error {
	table, err := readTable(ctx, cmd.String("input"))
	if err != nil {
		return err
	}

	r := flagRange(cmd)
	opts := format.Options{
		Precision:    int(cmd.Int("precision")),
		SkipFeatures: cmd.Bool("skip-features"),
	}

	fmt.Fprint(cmd.Root().Writer, format.FormatWithOptions(table.Between(r), r, opts))

	return nil
}

func evaluateAction(ctx context.Context, cmd *cli.Command) error {
	table, err := readTable(ctx, cmd.String("input"))
	if err != nil {
		return err
	}

	r := flagRange(cmd)

	slice := table.Between(r)
	if slice.IsNone() {
		return signal.EmptyRangeError(r)
	}

	threshold, err := evaluateThreshold(cmd)
	if err != nil {
		return err
	}

	report, err := evaluation.Evaluate(slice.Unwrap(), threshold)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	fmt.Fprintf(out, "Rows: %d (BUY %d, SELL %d, NEUTRAL %d)\n", len(report.Rows), report.Buys, report.Sells, report.Neutrals)
	fmt.Fprintf(out, "Total Profit: %s\n", report.TotalProfit.StringFixed(2))
	fmt.Fprintf(out, "Buy Profit: %s\n", report.BuyProfit.StringFixed(2))
	fmt.Fprintf(out, "Sell Profit: %s\n", report.SellProfit.StringFixed(2))
	fmt.Fprintf(out, "Hit Rate: %.2f%%\n", report.HitRate()*100)
	fmt.Fprintf(out, "Undefined feature values: %d\n", report.UndefinedCells)
	fmt.Fprintf(out, "Rows without undefined values: %d\n", report.CompleteRows)

	return nil
}

// evaluateThreshold prefers an explicit --threshold, then the labeling
// threshold of --config, then the flag default.
func evaluateThreshold(cmd *cli.Command) (float64, error) {
	if cmd.IsSet("threshold") || cmd.String("config") == "" {
		return cmd.Float("threshold"), nil
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return 0, err
	}

	return cfg.Labeling.Threshold, nil
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	schemaJSON, err := config.Default().GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	output := cmd.String("output")
	if output == "" {
		fmt.Fprintln(cmd.Root().Writer, schemaJSON)

		return nil
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(output, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	return nil
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "signals",
		Version: version.GetVersion(),
		Usage:   "Derive technical indicators and fused BUY/SELL/NEUTRAL decisions from daily prices",
		Commands: []*cli.Command{
			{
				Name:  "compute",
				Usage: "Compute the decision table described by a config file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to the YAML config",
						Required: true,
					},
					startFlag(),
					endFlag(),
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Compute in parallel chunks of this many bars (0 computes in one pass)",
					},
					&cli.BoolFlag{
						Name:  "print",
						Usage: "Print the formatted table after writing it",
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Log every decision",
					},
				},
				Action: computeAction,
			},
			{
				Name:  "format",
				Usage: "Render a stored decision table as text",
				Flags: []cli.Flag{
					inputFlag(),
					startFlag(),
					endFlag(),
					&cli.IntFlag{
						Name:  "precision",
						Usage: "Decimals printed for prices and indicators",
						Value: format.DefaultOptions().Precision,
					},
					&cli.BoolFlag{
						Name:  "skip-features",
						Usage: "Only print prices and signals",
					},
				},
				Action: formatAction,
			},
			{
				Name:  "evaluate",
				Usage: "Score stored decisions against the next day's open to close move",
				Flags: []cli.Flag{
					inputFlag(),
					startFlag(),
					endFlag(),
					&cli.StringFlag{
						Name:  "config",
						Usage: "Config whose labeling threshold is used when --threshold is not given",
					},
					&cli.FloatFlag{
						Name:  "threshold",
						Usage: "Fractional move counted as a directional day",
						Value: evaluation.DefaultThreshold,
					},
				},
				Action: evaluateAction,
			},
			{
				Name:  "schema",
				Usage: "Print or write the JSON schema of the config file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the schema to this path instead of stdout",
					},
				},
				Action: schemaAction,
			},
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
