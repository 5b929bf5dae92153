package indicator

import (
	"fmt"

	"github.com/rxtech-lab/argo-signals/internal/types"
)

// Params holds the window parameters of one indicator request. Each indicator
// reads only the fields it documents.
type Params struct {
	Period int
	K      int
	D      int
	Fast   int
	Slow   int
	Signal int
	StdDev float64
}

// Spec is a tagged indicator request: the indicator type selects the
// registered implementation and Params carries its windows.
type Spec struct {
	Type   types.IndicatorType
	Params Params
}

// String renders the spec for logs and error messages.
func (s Spec) String() string {
	switch s.Type {
	case types.IndicatorTypeMACD:
		return fmt.Sprintf("%s(%d,%d,%d)", s.Type, s.Params.Fast, s.Params.Slow, s.Params.Signal)
	case types.IndicatorTypeStochastic:
		return fmt.Sprintf("%s(%d,%d)", s.Type, s.Params.K, s.Params.D)
	case types.IndicatorTypeBollingerBands:
		return fmt.Sprintf("%s(%d,%g)", s.Type, s.Params.Period, s.Params.StdDev)
	case types.IndicatorTypeOBV, types.IndicatorTypeLogReturn, types.IndicatorTypeSimpleReturn, types.IndicatorTypeTimeFeatures:
		return string(s.Type)
	default:
		return fmt.Sprintf("%s(%d)", s.Type, s.Params.Period)
	}
}

func SMASpec(period int) Spec {
	return Spec{Type: types.IndicatorTypeSMA, Params: Params{Period: period}}
}

func EMASpec(period int) Spec {
	return Spec{Type: types.IndicatorTypeEMA, Params: Params{Period: period}}
}

// MACDSpec requests the MACD line, its signal line and the histogram.
func MACDSpec(fast, slow, signal int) Spec {
	return Spec{Type: types.IndicatorTypeMACD, Params: Params{Fast: fast, Slow: slow, Signal: signal}}
}

// DefaultMACDSpec is MACD(12, 26, 9).
func DefaultMACDSpec() Spec {
	return MACDSpec(12, 26, 9)
}

func RSISpec(period int) Spec {
	return Spec{Type: types.IndicatorTypeRSI, Params: Params{Period: period}}
}

func StochasticSpec(k, d int) Spec {
	return Spec{Type: types.IndicatorTypeStochastic, Params: Params{K: k, D: d}}
}

func WilliamsRSpec(period int) Spec {
	return Spec{Type: types.IndicatorTypeWilliamsR, Params: Params{Period: period}}
}

func CCISpec(period int) Spec {
	return Spec{Type: types.IndicatorTypeCCI, Params: Params{Period: period}}
}

func ROCSpec(period int) Spec {
	return Spec{Type: types.IndicatorTypeROC, Params: Params{Period: period}}
}

func ATRSpec(period int) Spec {
	return Spec{Type: types.IndicatorTypeATR, Params: Params{Period: period}}
}

// BollingerBandsSpec requests SMA(period) ± stdDev standard deviations.
func BollingerBandsSpec(period int, stdDev float64) Spec {
	return Spec{Type: types.IndicatorTypeBollingerBands, Params: Params{Period: period, StdDev: stdDev}}
}

func DonchianSpec(period int) Spec {
	return Spec{Type: types.IndicatorTypeDonchian, Params: Params{Period: period}}
}

func ADXSpec(period int) Spec {
	return Spec{Type: types.IndicatorTypeADX, Params: Params{Period: period}}
}

func VortexSpec(period int) Spec {
	return Spec{Type: types.IndicatorTypeVortex, Params: Params{Period: period}}
}

func OBVSpec() Spec {
	return Spec{Type: types.IndicatorTypeOBV}
}

func LogReturnSpec() Spec {
	return Spec{Type: types.IndicatorTypeLogReturn}
}

func SimpleReturnSpec() Spec {
	return Spec{Type: types.IndicatorTypeSimpleReturn}
}

func TimeFeaturesSpec() Spec {
	return Spec{Type: types.IndicatorTypeTimeFeatures}
}

// Indicator interface defines methods that any technical indicator must implement
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Validate checks the window parameters before anything is computed
	Validate(params Params) error
	// Columns returns the names of the series Compute produces, in order
	Columns(params Params) []string
	// Lookback returns the largest warm-up length among the produced series
	Lookback(params Params) int
	// Compute derives the series from the bars. Values inside the warm-up
	// window are NaN.
	Compute(bars *Bars, params Params) ([]Series, error)
}

// VolumeIndicator is implemented by indicators that read the volume column.
type VolumeIndicator interface {
	RequiresVolume() bool
}

func requiresVolume(ind Indicator) bool {
	v, ok := ind.(VolumeIndicator)

	return ok && v.RequiresVolume()
}
