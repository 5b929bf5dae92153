package indicator

import "fmt"

// Column names of the series the built-in indicators produce.
const (
	ColumnMACD           = "macd"
	ColumnMACDSignalLine = "macd_signal_line"
	ColumnMACDHistogram  = "macd_hist"
	ColumnRSI            = "rsi"
	ColumnStochasticK    = "stoch_k"
	ColumnStochasticD    = "stoch_d"
	ColumnWilliamsR      = "williams_r"
	ColumnCCI            = "cci"
	ColumnROC            = "roc"
	ColumnATR            = "atr"
	ColumnBollingerUpper = "bb_upper"
	ColumnBollingerMid   = "bb_middle"
	ColumnBollingerLower = "bb_lower"
	ColumnDonchianUpper  = "donchian_upper"
	ColumnDonchianLower  = "donchian_lower"
	ColumnADX            = "adx"
	ColumnVortexPos      = "vortex_pos"
	ColumnVortexNeg      = "vortex_neg"
	ColumnOBV            = "obv"
	ColumnLogReturn      = "log_return"
	ColumnSimpleReturn   = "simple_return"
	ColumnHourSin        = "hour_sin"
	ColumnHourCos        = "hour_cos"
	ColumnWeekdaySin     = "weekday_sin"
	ColumnWeekdayCos     = "weekday_cos"
)

// SMAColumn names the SMA series of the given period, e.g. sma_10.
func SMAColumn(period int) string {
	return fmt.Sprintf("sma_%d", period)
}

// EMAColumn names the EMA series of the given period, e.g. ema_12.
func EMAColumn(period int) string {
	return fmt.Sprintf("ema_%d", period)
}
