package config

import (
	"github.com/rxtech-lab/argo-signals/internal/indicator"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Window configures an indicator that only needs a period. It accepts either
// a bare integer (`cci: 20`) or a mapping (`cci: {period: 20}`).
type Window struct {
	Period int `yaml:"period" json:"period" validate:"gte=1"`
}

// UnmarshalYAML implements the scalar-or-mapping form.
func (w *Window) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&w.Period)
	}

	type window Window

	return decodeStrict(value, (*window)(w), errors.ErrCodeInvalidConfiguration, "indicator")
}

// Periods configures a moving average family.
type Periods struct {
	Periods []int `yaml:"periods" json:"periods" validate:"dive,gte=1"`
}

// UnmarshalYAML accepts a bare list as well as `{periods: [...]}`.
func (p *Periods) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		return value.Decode(&p.Periods)
	}

	type periods Periods

	return decodeStrict(value, (*periods)(p), errors.ErrCodeInvalidConfiguration, "moving average")
}

// MACD configures the MACD windows. `macd: true` uses 12, 26 and 9.
type MACD struct {
	Enabled bool `yaml:"-" json:"-"`
	Fast    int  `yaml:"fast" json:"fast" validate:"gte=0"`
	Slow    int  `yaml:"slow" json:"slow" validate:"gte=0"`
	Signal  int  `yaml:"signal" json:"signal" validate:"gte=0"`
}

// UnmarshalYAML accepts a boolean or a mapping of windows.
func (m *MACD) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&m.Enabled)
	}

	type macd MACD
	if err := decodeStrict(value, (*macd)(m), errors.ErrCodeInvalidConfiguration, "macd"); err != nil {
		return err
	}

	m.Enabled = true

	return nil
}

func (m MACD) spec() indicator.Spec {
	def := indicator.DefaultMACDSpec().Params

	return indicator.MACDSpec(orDefault(m.Fast, def.Fast), orDefault(m.Slow, def.Slow), orDefault(m.Signal, def.Signal))
}

// Stochastic configures the %K and %D windows.
type Stochastic struct {
	K int `yaml:"k" json:"k" validate:"gte=1"`
	D int `yaml:"d" json:"d" validate:"gte=1"`
}

// UnmarshalYAML rejects unknown keys.
func (s *Stochastic) UnmarshalYAML(value *yaml.Node) error {
	type stochastic Stochastic

	return decodeStrict(value, (*stochastic)(s), errors.ErrCodeInvalidConfiguration, "stochastic")
}

// Bollinger configures the band window and width. A bare integer sets the
// period with the default width of two standard deviations.
type Bollinger struct {
	Period int     `yaml:"period" json:"period" validate:"gte=2"`
	StdDev float64 `yaml:"stddev" json:"stddev" validate:"gte=0"`
}

// UnmarshalYAML implements the scalar-or-mapping form.
func (b *Bollinger) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&b.Period)
	}

	type bollinger Bollinger

	return decodeStrict(value, (*bollinger)(b), errors.ErrCodeInvalidConfiguration, "bollinger_bands")
}

// Features enumerates the indicators to compute. A nil entry is not
// computed.
type Features struct {
	SMA            *Periods    `yaml:"sma" json:"sma,omitempty" jsonschema:"title=SMA,description=Simple moving average periods"`
	EMA            *Periods    `yaml:"ema" json:"ema,omitempty" jsonschema:"title=EMA,description=Exponential moving average periods"`
	MACD           MACD        `yaml:"macd" json:"macd,omitempty" jsonschema:"title=MACD,description=true for MACD(12 26 9) or explicit windows"`
	RSI            *Window     `yaml:"rsi" json:"rsi,omitempty" jsonschema:"title=RSI"`
	Stochastic     *Stochastic `yaml:"stochastic" json:"stochastic,omitempty" jsonschema:"title=Stochastic oscillator"`
	WilliamsR      *Window     `yaml:"williams_r" json:"williams_r,omitempty" jsonschema:"title=Williams %R"`
	CCI            *Window     `yaml:"cci" json:"cci,omitempty" jsonschema:"title=CCI"`
	ROC            *Window     `yaml:"roc" json:"roc,omitempty" jsonschema:"title=Rate of change"`
	ATR            *Window     `yaml:"atr" json:"atr,omitempty" jsonschema:"title=Average true range"`
	BollingerBands *Bollinger  `yaml:"bollinger_bands" json:"bollinger_bands,omitempty" jsonschema:"title=Bollinger bands"`
	Donchian       *Window     `yaml:"donchian" json:"donchian,omitempty" jsonschema:"title=Donchian channel"`
	ADX            *Window     `yaml:"adx" json:"adx,omitempty" jsonschema:"title=ADX"`
	Vortex         *Window     `yaml:"vortex" json:"vortex,omitempty" jsonschema:"title=Vortex"`
	OBV            bool        `yaml:"obv" json:"obv,omitempty" jsonschema:"title=On-balance volume"`
	LogReturn      bool        `yaml:"log_return" json:"log_return,omitempty" jsonschema:"title=Log return"`
	SimpleReturn   bool        `yaml:"simple_return" json:"simple_return,omitempty" jsonschema:"title=Simple return"`
	TimeFeatures   bool        `yaml:"time_features" json:"time_features,omitempty" jsonschema:"title=Cyclic hour and weekday features"`
}

// UnmarshalYAML rejects indicator names the engine does not know.
func (f *Features) UnmarshalYAML(value *yaml.Node) error {
	type features Features

	return decodeStrict(value, (*features)(f), errors.ErrCodeUnknownIndicator, "feature")
}

// Specs converts the document into indicator requests.
func (f Features) Specs() []indicator.Spec {
	var specs []indicator.Spec

	if f.SMA != nil {
		for _, p := range f.SMA.Periods {
			specs = append(specs, indicator.SMASpec(p))
		}
	}

	if f.EMA != nil {
		for _, p := range f.EMA.Periods {
			specs = append(specs, indicator.EMASpec(p))
		}
	}

	if f.MACD.Enabled {
		specs = append(specs, f.MACD.spec())
	}

	if f.RSI != nil {
		specs = append(specs, indicator.RSISpec(f.RSI.Period))
	}

	if f.Stochastic != nil {
		specs = append(specs, indicator.StochasticSpec(f.Stochastic.K, f.Stochastic.D))
	}

	windows := []struct {
		window *Window
		spec   func(int) indicator.Spec
	}{
		{f.WilliamsR, indicator.WilliamsRSpec},
		{f.CCI, indicator.CCISpec},
		{f.ROC, indicator.ROCSpec},
		{f.ATR, indicator.ATRSpec},
	}
	for _, w := range windows {
		if w.window != nil {
			specs = append(specs, w.spec(w.window.Period))
		}
	}

	if f.BollingerBands != nil {
		std := f.BollingerBands.StdDev
		if std == 0 {
			std = indicator.DefaultBollingerStdDev
		}

		specs = append(specs, indicator.BollingerBandsSpec(f.BollingerBands.Period, std))
	}

	windows = []struct {
		window *Window
		spec   func(int) indicator.Spec
	}{
		{f.Donchian, indicator.DonchianSpec},
		{f.ADX, indicator.ADXSpec},
		{f.Vortex, indicator.VortexSpec},
	}
	for _, w := range windows {
		if w.window != nil {
			specs = append(specs, w.spec(w.window.Period))
		}
	}

	flags := []struct {
		enabled bool
		spec    func() indicator.Spec
	}{
		{f.OBV, indicator.OBVSpec},
		{f.LogReturn, indicator.LogReturnSpec},
		{f.SimpleReturn, indicator.SimpleReturnSpec},
		{f.TimeFeatures, indicator.TimeFeaturesSpec},
	}
	for _, flag := range flags {
		if flag.enabled {
			specs = append(specs, flag.spec())
		}
	}

	return specs
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}

	return v
}
