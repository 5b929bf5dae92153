// Package config loads the YAML document that drives a signal run.
package config

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/evaluation"
	"github.com/rxtech-lab/argo-signals/internal/indicator"
	"github.com/rxtech-lab/argo-signals/internal/signal"
	"github.com/rxtech-lab/argo-signals/internal/version"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Defaults applied to fields left empty.
const (
	DefaultWorkers = 4
)

// Paths locates the input price history and the outputs.
type Paths struct {
	RawData       string `yaml:"raw_data" json:"raw_data" jsonschema:"title=Raw data,description=OHLCV file (csv or parquet)"`
	ProcessedData string `yaml:"processed_data" json:"processed_data,omitempty" jsonschema:"title=Processed data,description=Decision table csv output"`
	ParquetData   string `yaml:"parquet_data" json:"parquet_data,omitempty" jsonschema:"title=Parquet data,description=Decision table parquet output"`
	Metrics       string `yaml:"metrics" json:"metrics,omitempty" jsonschema:"title=Metrics,description=Prometheus text file written after each run"`
}

// UnmarshalYAML rejects unknown keys.
func (p *Paths) UnmarshalYAML(value *yaml.Node) error {
	type paths Paths

	return decodeStrict(value, (*paths)(p), errors.ErrCodeInvalidConfiguration, "paths")
}

// Crossover names two moving average columns whose crossing votes.
type Crossover struct {
	Name  string `yaml:"name" json:"name" validate:"required"`
	Short string `yaml:"short" json:"short" validate:"required"`
	Long  string `yaml:"long" json:"long" validate:"required"`
}

// UnmarshalYAML rejects unknown keys.
func (c *Crossover) UnmarshalYAML(value *yaml.Node) error {
	type crossover Crossover

	return decodeStrict(value, (*crossover)(c), errors.ErrCodeInvalidCrossover, "crossover")
}

// Labeling configures the open/close label column of persisted tables.
type Labeling struct {
	Threshold float64 `yaml:"threshold" json:"threshold" jsonschema:"title=Threshold,description=Fractional open to close move needed for a BUY or SELL label,minimum=0" validate:"gte=0"`
}

// UnmarshalYAML keeps the default threshold when the key is absent.
func (l *Labeling) UnmarshalYAML(value *yaml.Node) error {
	var doc struct {
		Threshold *float64 `yaml:"threshold"`
	}
	if err := decodeStrict(value, &doc, errors.ErrCodeInvalidConfiguration, "labeling"); err != nil {
		return err
	}

	*l = defaultLabeling()
	if doc.Threshold != nil {
		l.Threshold = *doc.Threshold
	}

	return nil
}

func defaultLabeling() Labeling {
	return Labeling{Threshold: evaluation.DefaultThreshold}
}

// Config is the document driving one run.
type Config struct {
	Version    string                     `yaml:"version" json:"version,omitempty" jsonschema:"title=Version,description=Semver constraint the signals binary must satisfy (e.g. ~0.1)"`
	Paths      Paths                      `yaml:"paths" json:"paths"`
	StartDate  optional.Option[time.Time] `yaml:"start_date" json:"start_date" jsonschema:"title=Start date,description=First date of the reported range"`
	EndDate    optional.Option[time.Time] `yaml:"end_date" json:"end_date" jsonschema:"title=End date,description=Last date of the reported range"`
	Calendar   indicator.Calendar         `yaml:"calendar" json:"calendar,omitempty" validate:"omitempty,oneof=weekdays daily any"`
	FillPolicy signal.FillPolicy          `yaml:"fill_policy" json:"fill_policy,omitempty" validate:"omitempty,oneof=ffill_bfill none"`
	DropWarmup bool                       `yaml:"drop_warmup" json:"drop_warmup,omitempty" jsonschema:"title=Drop warm-up,description=Drop rows before every indicator is defined instead of marking them"`
	Workers    int                        `yaml:"workers" json:"workers,omitempty" validate:"gte=0"`
	Features   Features                   `yaml:"features" json:"features"`
	Crossovers []Crossover                `yaml:"crossovers" json:"crossovers,omitempty" validate:"dive"`
	Labeling   Labeling                   `yaml:"labeling" json:"labeling,omitempty"`
}

// UnmarshalYAML implements custom unmarshaling so dates land in optional
// values.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type document struct {
		Version    string             `yaml:"version"`
		Paths      Paths              `yaml:"paths"`
		StartDate  *string            `yaml:"start_date"`
		EndDate    *string            `yaml:"end_date"`
		Calendar   indicator.Calendar `yaml:"calendar"`
		FillPolicy signal.FillPolicy  `yaml:"fill_policy"`
		DropWarmup bool               `yaml:"drop_warmup"`
		Workers    int                `yaml:"workers"`
		Features   Features           `yaml:"features"`
		Crossovers []Crossover        `yaml:"crossovers"`
		Labeling   *Labeling          `yaml:"labeling"`
	}

	var doc document
	if err := decodeStrict(value, &doc, errors.ErrCodeInvalidConfiguration, "config"); err != nil {
		return err
	}

	start, err := parseDate("start_date", doc.StartDate)
	if err != nil {
		return err
	}

	end, err := parseDate("end_date", doc.EndDate)
	if err != nil {
		return err
	}

	c.Version = doc.Version
	c.Paths = doc.Paths
	c.StartDate = start
	c.EndDate = end
	c.Calendar = doc.Calendar
	c.FillPolicy = doc.FillPolicy
	c.DropWarmup = doc.DropWarmup
	c.Workers = doc.Workers
	c.Features = doc.Features
	c.Crossovers = doc.Crossovers
	c.Labeling = defaultLabeling()
	if doc.Labeling != nil {
		c.Labeling = *doc.Labeling
	}

	return nil
}

var dateLayouts = []string{time.DateOnly, time.RFC3339, time.DateTime}

func parseDate(field string, raw *string) (optional.Option[time.Time], error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return optional.None[time.Time](), nil
	}

	value := strings.TrimSpace(*raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return optional.Some(t), nil
		}
	}

	return optional.None[time.Time](), errors.Newf(errors.ErrCodeInvalidDate, "%s %q is not an ISO-8601 date", field, value)
}

// Default returns a config with every default applied and no features.
func Default() *Config {
	cfg := &Config{Labeling: defaultLabeling()}
	cfg.applyDefaults()

	return cfg
}

func (c *Config) applyDefaults() {
	if c.Calendar == "" {
		c.Calendar = indicator.CalendarWeekdays
	}

	if c.FillPolicy == "" {
		c.FillPolicy = signal.FillForwardBackward
	}

	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
}

// Load reads and validates a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeReadFailed, err, "failed to read config %s", path)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML document. Unknown keys are rejected at
// every level.
func Parse(data []byte) (*Config, error) {
	cfg := Config{Labeling: defaultLabeling()}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		if errors.IsConfiguration(err) {
			return nil, err
		}

		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the document. Every failure is a configuration error.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if err := version.CheckConstraint(version.GetVersion(), c.Version); err != nil {
		return err
	}

	if c.StartDate.IsSome() && c.EndDate.IsSome() && c.StartDate.Unwrap().After(c.EndDate.Unwrap()) {
		return errors.Newf(errors.ErrCodeInvalidDate, "start_date %s is after end_date %s",
			c.StartDate.Unwrap().Format(time.DateOnly), c.EndDate.Unwrap().Format(time.DateOnly))
	}

	specs := c.Specs()
	if len(specs) == 0 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "no features configured")
	}

	if _, err := indicator.NewEngine(nil).Resolve(specs); err != nil {
		return err
	}

	if _, err := c.Rules(); err != nil {
		return err
	}

	return nil
}

// Specs returns the configured indicator requests.
func (c *Config) Specs() []indicator.Spec {
	return c.Features.Specs()
}

// SignalCrossovers returns the explicit crossovers, or the default pairs when
// none are configured.
func (c *Config) SignalCrossovers() []signal.Crossover {
	if len(c.Crossovers) == 0 {
		return signal.DefaultCrossovers(c.Specs())
	}

	out := make([]signal.Crossover, len(c.Crossovers))
	for i, co := range c.Crossovers {
		out[i] = signal.Crossover{Name: co.Name, Short: co.Short, Long: co.Long}
	}

	return out
}

// Rules builds the voting rules for the configured features.
func (c *Config) Rules() ([]signal.Rule, error) {
	return signal.RulesFor(c.Specs(), c.SignalCrossovers())
}

// Range returns the configured reporting range.
func (c *Config) Range() signal.Range {
	return signal.NewRange(c.StartDate, c.EndDate)
}
