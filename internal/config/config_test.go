package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-signals/internal/evaluation"
	"github.com/rxtech-lab/argo-signals/internal/indicator"
	"github.com/rxtech-lab/argo-signals/internal/signal"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

const fullConfig = `
paths:
  raw_data: data/raw/gold.csv
  processed_data: data/processed/gold_signals.csv
start_date: 2024-01-01
end_date: "2024-06-30"
features:
  log_return: true
  simple_return: true
  time_features: true
  sma:
    periods: [10, 30]
  ema:
    periods: [12, 26]
  macd: true
  rsi:
    period: 14
  stochastic:
    k: 14
    d: 3
  williams_r: 14
  cci: 20
  roc: 12
  atr: 14
  bollinger_bands: 20
  donchian: 20
  adx: 14
  vortex: 14
  obv: true
labeling:
  threshold: 0.001
`

func (suite *ConfigTestSuite) TestParseFullConfig() {
	cfg, err := Parse([]byte(fullConfig))
	suite.Require().NoError(err)

	suite.Equal("data/raw/gold.csv", cfg.Paths.RawData)
	suite.Equal("2024-01-01", cfg.StartDate.Unwrap().Format("2006-01-02"))
	suite.Equal("2024-06-30", cfg.EndDate.Unwrap().Format("2006-01-02"))
	suite.Equal(indicator.CalendarWeekdays, cfg.Calendar)
	suite.Equal(signal.FillForwardBackward, cfg.FillPolicy)
	suite.Equal(DefaultWorkers, cfg.Workers)
	suite.InDelta(0.001, cfg.Labeling.Threshold, 1e-12)

	specs := cfg.Specs()
	suite.Equal([]indicator.Spec{
		indicator.SMASpec(10),
		indicator.SMASpec(30),
		indicator.EMASpec(12),
		indicator.EMASpec(26),
		indicator.MACDSpec(12, 26, 9),
		indicator.RSISpec(14),
		indicator.StochasticSpec(14, 3),
		indicator.WilliamsRSpec(14),
		indicator.CCISpec(20),
		indicator.ROCSpec(12),
		indicator.ATRSpec(14),
		indicator.BollingerBandsSpec(20, 2),
		indicator.DonchianSpec(20),
		indicator.ADXSpec(14),
		indicator.VortexSpec(14),
		indicator.OBVSpec(),
		indicator.LogReturnSpec(),
		indicator.SimpleReturnSpec(),
		indicator.TimeFeaturesSpec(),
	}, specs)

	suite.Equal([]signal.Crossover{
		{Name: signal.SignalSMACross, Short: "sma_10", Long: "sma_30"},
		{Name: signal.SignalEMACross, Short: "ema_12", Long: "ema_26"},
	}, cfg.SignalCrossovers())

	rules, err := cfg.Rules()
	suite.Require().NoError(err)
	suite.Len(rules, 12)
}

func (suite *ConfigTestSuite) TestMappingForms() {
	cfg, err := Parse([]byte(`
calendar: any
fill_policy: none
drop_warmup: true
workers: 2
features:
  sma: [5, 20]
  macd: {fast: 5, slow: 35, signal: 5}
  cci: {period: 10}
  bollinger_bands: {period: 10, stddev: 1.5}
crossovers:
  - {name: fast_cross, short: sma_5, long: sma_20}
`))
	suite.Require().NoError(err)

	suite.Equal(indicator.CalendarAny, cfg.Calendar)
	suite.Equal(signal.FillNone, cfg.FillPolicy)
	suite.True(cfg.DropWarmup)
	suite.Equal(2, cfg.Workers)
	suite.True(cfg.StartDate.IsNone())
	suite.Equal([]indicator.Spec{
		indicator.SMASpec(5),
		indicator.SMASpec(20),
		indicator.MACDSpec(5, 35, 5),
		indicator.CCISpec(10),
		indicator.BollingerBandsSpec(10, 1.5),
	}, cfg.Specs())
	suite.Equal([]signal.Crossover{{Name: "fast_cross", Short: "sma_5", Long: "sma_20"}}, cfg.SignalCrossovers())
}

func (suite *ConfigTestSuite) TestInvalidConfigs() {
	testCases := []struct {
		name string
		yaml string
		code errors.ErrorCode
	}{
		{"no features", "paths: {raw_data: x.csv}", errors.ErrCodeInvalidConfiguration},
		{"zero period", "features: {rsi: 0}", errors.ErrCodeInvalidConfiguration},
		{"negative sma", "features: {sma: [-1]}", errors.ErrCodeInvalidConfiguration},
		{"bad calendar", "calendar: lunar\nfeatures: {obv: true}", errors.ErrCodeInvalidConfiguration},
		{"bad fill policy", "fill_policy: zero\nfeatures: {obv: true}", errors.ErrCodeInvalidConfiguration},
		{"bad date", "start_date: yesterday\nfeatures: {obv: true}", errors.ErrCodeInvalidDate},
		{"reversed range", "start_date: 2024-02-01\nend_date: 2024-01-01\nfeatures: {obv: true}", errors.ErrCodeInvalidDate},
		{"macd order", "features: {macd: {fast: 30, slow: 10}}", errors.ErrCodeInvalidPeriod},
		{"crossover name", "features: {sma: [5, 10]}\ncrossovers: [{name: fast, short: sma_5, long: sma_10}]", errors.ErrCodeInvalidCrossover},
		{"negative threshold", "features: {obv: true}\nlabeling: {threshold: -1}", errors.ErrCodeInvalidConfiguration},
		{"not yaml", "features: [", errors.ErrCodeInvalidConfiguration},
		{"version too new", "version: \">= 99.0\"\nfeatures: {obv: true}", errors.ErrCodeInvalidConfiguration},
		{"unknown feature", "features: {sma: {periods: [10, 30]}, rsii: 14}", errors.ErrCodeUnknownIndicator},
		{"unknown stochastic key", "features: {stochastic: {k: 14, d: 3, dd: 5}}", errors.ErrCodeInvalidConfiguration},
		{"unknown window key", "features: {cci: {periodd: 10}}", errors.ErrCodeInvalidConfiguration},
		{"unknown macd key", "features: {macd: {fast: 12, slow: 26, sig: 9}}", errors.ErrCodeInvalidConfiguration},
		{"unknown bollinger key", "features: {bollinger_bands: {period: 20, width: 2}}", errors.ErrCodeInvalidConfiguration},
		{"unknown moving average key", "features: {sma: {period: [10]}}", errors.ErrCodeInvalidConfiguration},
		{"unknown top level key", "fill_polcy: none\nfeatures: {obv: true}", errors.ErrCodeInvalidConfiguration},
		{"unknown paths key", "paths: {raw: x.csv}\nfeatures: {obv: true}", errors.ErrCodeInvalidConfiguration},
		{"unknown labeling key", "features: {obv: true}\nlabeling: {treshold: 0.01}", errors.ErrCodeInvalidConfiguration},
		{"unknown crossover key", "features: {sma: [5, 10]}\ncrossovers: [{name: a_cross, short: sma_5, long: sma_10, mid: sma_7}]", errors.ErrCodeInvalidCrossover},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := Parse([]byte(tc.yaml))
			suite.Require().Error(err)
			suite.True(errors.HasCode(err, tc.code), err.Error())
			suite.True(errors.IsConfiguration(err))
		})
	}
}

func (suite *ConfigTestSuite) TestLabelingDefaults() {
	cfg, err := Parse([]byte("features: {obv: true}"))
	suite.Require().NoError(err)
	suite.InDelta(evaluation.DefaultThreshold, cfg.Labeling.Threshold, 1e-12)

	cfg, err = Parse([]byte("features: {obv: true}\nlabeling: {}"))
	suite.Require().NoError(err)
	suite.InDelta(evaluation.DefaultThreshold, cfg.Labeling.Threshold, 1e-12)

	cfg, err = Parse([]byte("features: {obv: true}\nlabeling: {threshold: 0}"))
	suite.Require().NoError(err)
	suite.Zero(cfg.Labeling.Threshold)

	suite.InDelta(evaluation.DefaultThreshold, Default().Labeling.Threshold, 1e-12)
}

func (suite *ConfigTestSuite) TestEmptyDocument() {
	_, err := Parse(nil)
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeInvalidConfiguration, errors.GetCode(err))
}

func (suite *ConfigTestSuite) TestVersionConstraint() {
	cfg, err := Parse([]byte("version: \">= 0.0.1\"\nfeatures: {obv: true}"))
	suite.Require().NoError(err)
	suite.Equal(">= 0.0.1", cfg.Version)
}

func (suite *ConfigTestSuite) TestLoad() {
	dir := suite.T().TempDir()
	path := filepath.Join(dir, "config.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(fullConfig), 0o600))

	cfg, err := Load(path)
	suite.Require().NoError(err)
	suite.Len(cfg.Specs(), 19)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	suite.True(errors.HasCode(err, errors.ErrCodeReadFailed))
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	out, err := Default().GenerateSchemaJSON()
	suite.Require().NoError(err)

	var doc map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(out), &doc))
	suite.Equal("signals-config", doc["title"])

	props, ok := doc["properties"].(map[string]any)
	suite.Require().True(ok)
	suite.Contains(props, "features")
	suite.Contains(props, "start_date")

	start, ok := props["start_date"].(map[string]any)
	suite.Require().True(ok)
	suite.Equal("date", start["format"])
}
