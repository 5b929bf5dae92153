package types

type IndicatorType string

const (
	IndicatorTypeSMA            IndicatorType = "sma"
	IndicatorTypeEMA            IndicatorType = "ema"
	IndicatorTypeMACD           IndicatorType = "macd"
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeStochastic     IndicatorType = "stochastic"
	IndicatorTypeWilliamsR      IndicatorType = "williams_r"
	IndicatorTypeCCI            IndicatorType = "cci"
	IndicatorTypeROC            IndicatorType = "roc"
	IndicatorTypeATR            IndicatorType = "atr"
	IndicatorTypeBollingerBands IndicatorType = "bollinger_bands"
	IndicatorTypeDonchian       IndicatorType = "donchian"
	IndicatorTypeADX            IndicatorType = "adx"
	IndicatorTypeVortex         IndicatorType = "vortex"
	IndicatorTypeOBV            IndicatorType = "obv"
	IndicatorTypeLogReturn      IndicatorType = "log_return"
	IndicatorTypeSimpleReturn   IndicatorType = "simple_return"
	IndicatorTypeTimeFeatures   IndicatorType = "time_features"
)

// AllIndicatorTypes lists every indicator the engine knows how to compute, in
// the order their columns appear in a feature table.
var AllIndicatorTypes = []IndicatorType{
	IndicatorTypeSMA,
	IndicatorTypeEMA,
	IndicatorTypeMACD,
	IndicatorTypeRSI,
	IndicatorTypeStochastic,
	IndicatorTypeWilliamsR,
	IndicatorTypeCCI,
	IndicatorTypeROC,
	IndicatorTypeATR,
	IndicatorTypeBollingerBands,
	IndicatorTypeDonchian,
	IndicatorTypeADX,
	IndicatorTypeVortex,
	IndicatorTypeOBV,
	IndicatorTypeLogReturn,
	IndicatorTypeSimpleReturn,
	IndicatorTypeTimeFeatures,
}
