package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/types"
)

// DataGenerator generates realistic daily price bars for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how price bars are generated.
type GeneratorConfig struct {
	// StartDate is the date of the first bar
	StartDate time.Time
	// Count is the number of bars to generate
	Count int
	// Weekdays skips Saturdays and Sundays
	Weekdays bool
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily volatility)
	Volatility float64
	// Trend is the drift factor (-0.01 to 0.01 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Count:          250,
		Weekdays:       true,
		InitialPrice:   2000.0,
		Volatility:     0.01, // 1% per day
		Trend:          0.0,  // neutral
		VolumeBase:     150000,
		VolumeVariance: 0.3,
	}
}

// Generate creates a slice of PriceBar based on the configuration.
// The generated data follows a geometric Brownian motion model for realistic price movements.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.PriceBar {
	data := make([]types.PriceBar, config.Count)
	currentPrice := config.InitialPrice
	currentDate := nextTradingDay(config.StartDate, config.Weekdays)

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Using Box-Muller transform for normal distribution
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := config.Trend / float64(config.Count) // Distribute trend across bars

		close := open * (1 + priceChange + drift)
		if close <= 0 {
			close = open * 0.99 // Prevent negative prices
		}

		// High and low are within the open-close range plus some extension
		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, close) + highExtension
		low := math.Min(open, close) - lowExtension
		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		data[i] = types.PriceBar{
			Date:   currentDate,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(close, 4),
			Volume: optional.Some(math.Round(volume)),
		}

		currentPrice = close
		currentDate = nextTradingDay(currentDate.AddDate(0, 0, 1), config.Weekdays)
	}

	return data
}

// FlatBars returns count weekday bars whose prices all equal price.
func FlatBars(start time.Time, count int, price float64) []types.PriceBar {
	data := make([]types.PriceBar, count)
	date := nextTradingDay(start, true)

	for i := range data {
		data[i] = types.PriceBar{
			Date:   date,
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: optional.Some(1000.0),
		}
		date = nextTradingDay(date.AddDate(0, 0, 1), true)
	}

	return data
}

// Generate1Y is a convenience function to generate one year of weekday bars
// with default settings.
func Generate1Y() []types.PriceBar {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	return gen.Generate(DefaultConfig())
}

func nextTradingDay(d time.Time, weekdays bool) time.Time {
	for weekdays && (d.Weekday() == time.Saturday || d.Weekday() == time.Sunday) {
		d = d.AddDate(0, 0, 1)
	}

	return d
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
