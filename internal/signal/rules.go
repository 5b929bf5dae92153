package signal

import (
	"sort"
	"strings"

	"github.com/rxtech-lab/argo-signals/internal/indicator"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
)

// Signal column names.
const (
	SignalSMACross   = "sma_cross"
	SignalEMACross   = "ema_cross"
	SignalRSI        = "rsi_signal"
	SignalMACD       = "macd_signal"
	SignalBollinger  = "bollinger_signal"
	SignalStochastic = "stochastic_signal"
	SignalWilliamsR  = "williams_r_signal"
	SignalCCI        = "cci_signal"
	SignalROC        = "roc_signal"
	SignalADX        = "adx_signal"
	SignalVortex     = "vortex_signal"
	SignalOBV        = "obv_signal"
)

// Thresholds of the built-in rules.
const (
	RSIOversold          = 30.0
	RSIOverbought        = 70.0
	StochasticOversold   = 20.0
	StochasticOverbought = 80.0
	WilliamsROversold    = -80.0
	WilliamsROverbought  = -20.0
	CCIOversold          = -100.0
	CCIOverbought        = 100.0
	ADXTrendThreshold    = 25.0
)

// Crossover pairs two moving average columns under a signal name ending in
// _cross.
type Crossover struct {
	Name  string
	Short string
	Long  string
}

// Validate checks the pair without looking at any data.
func (c Crossover) Validate() error {
	if !strings.HasSuffix(c.Name, "_cross") {
		return errors.Newf(errors.ErrCodeInvalidCrossover, "crossover name %q must end with _cross", c.Name)
	}

	if c.Short == "" || c.Long == "" {
		return errors.Newf(errors.ErrCodeInvalidCrossover, "crossover %s needs both a short and a long column", c.Name)
	}

	if c.Short == c.Long {
		return errors.Newf(errors.ErrCodeInvalidCrossover, "crossover %s compares %s with itself", c.Name, c.Short)
	}

	return nil
}

// DefaultCrossovers pairs the shortest and longest SMA as sma_cross and the
// shortest and longest EMA as ema_cross. A family with fewer than two
// distinct periods gets no crossover.
func DefaultCrossovers(specs []indicator.Spec) []Crossover {
	var out []Crossover

	if short, long, ok := periodRange(specs, types.IndicatorTypeSMA); ok {
		out = append(out, Crossover{Name: SignalSMACross, Short: indicator.SMAColumn(short), Long: indicator.SMAColumn(long)})
	}

	if short, long, ok := periodRange(specs, types.IndicatorTypeEMA); ok {
		out = append(out, Crossover{Name: SignalEMACross, Short: indicator.EMAColumn(short), Long: indicator.EMAColumn(long)})
	}

	return out
}

func periodRange(specs []indicator.Spec, kind types.IndicatorType) (int, int, bool) {
	var periods []int

	for _, spec := range specs {
		if spec.Type == kind {
			periods = append(periods, spec.Params.Period)
		}
	}

	if len(periods) < 2 {
		return 0, 0, false
	}

	sort.Ints(periods)

	short, long := periods[0], periods[len(periods)-1]

	return short, long, short != long
}

// RulesFor builds the crossover rules followed by one rule per requested
// indicator that defines a vote, in request order. Indicators without a vote
// (moving averages on their own, ATR, Donchian, returns, time features) add
// nothing.
func RulesFor(specs []indicator.Spec, crossovers []Crossover) ([]Rule, error) {
	rules := make([]Rule, 0, len(specs)+len(crossovers))

	for _, c := range crossovers {
		if err := c.Validate(); err != nil {
			return nil, err
		}

		rules = append(rules, NewCrossoverRule(c.Name, c.Short, c.Long))
	}

	for _, spec := range specs {
		if rule := ruleFor(spec.Type); rule != nil {
			rules = append(rules, rule)
		}
	}

	seen := make(map[string]bool, len(rules))
	for _, rule := range rules {
		if seen[rule.Name()] {
			return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "signal %s is defined twice", rule.Name())
		}

		seen[rule.Name()] = true
	}

	return rules, nil
}

func ruleFor(kind types.IndicatorType) Rule {
	switch kind {
	case types.IndicatorTypeRSI:
		return NewBandRule(SignalRSI, indicator.ColumnRSI, RSIOversold, RSIOverbought)
	case types.IndicatorTypeMACD:
		return NewCompareRule(SignalMACD, indicator.ColumnMACD, indicator.ColumnMACDSignalLine)
	case types.IndicatorTypeBollingerBands:
		return NewChannelRule(SignalBollinger, indicator.ColumnBollingerLower, indicator.ColumnBollingerUpper)
	case types.IndicatorTypeStochastic:
		return NewStochasticRule(SignalStochastic, indicator.ColumnStochasticK, indicator.ColumnStochasticD, StochasticOversold, StochasticOverbought)
	case types.IndicatorTypeWilliamsR:
		return NewBandRule(SignalWilliamsR, indicator.ColumnWilliamsR, WilliamsROversold, WilliamsROverbought)
	case types.IndicatorTypeCCI:
		return NewBandRule(SignalCCI, indicator.ColumnCCI, CCIOversold, CCIOverbought)
	case types.IndicatorTypeROC:
		return NewSignRule(SignalROC, indicator.ColumnROC)
	case types.IndicatorTypeADX:
		return NewTrendStrengthRule(SignalADX, indicator.ColumnADX, ADXTrendThreshold)
	case types.IndicatorTypeVortex:
		return NewCompareRule(SignalVortex, indicator.ColumnVortexPos, indicator.ColumnVortexNeg)
	case types.IndicatorTypeOBV:
		return NewMomentumRule(SignalOBV, indicator.ColumnOBV)
	default:
		return nil
	}
}
