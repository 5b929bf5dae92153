package signal

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/indicator"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type EngineTestSuite struct {
	suite.Suite
	indicators *indicator.Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) SetupTest() {
	suite.indicators = indicator.NewEngine(nil)
}

func (suite *EngineTestSuite) fuse(closes []float64, specs []indicator.Spec, opts ...Option) (*indicator.FeatureTable, *DecisionTable) {
	features, err := suite.indicators.Compute(barsFromCloses(closes), specs)
	suite.Require().NoError(err)

	rules, err := RulesFor(specs, DefaultCrossovers(specs))
	suite.Require().NoError(err)

	table, err := NewEngine(rules, opts...).Fuse(features)
	suite.Require().NoError(err)
	suite.Require().Equal(len(closes), table.Len())

	return features, table
}

func (suite *EngineTestSuite) TestSMACrossBuysOnceAfterBottom() {
	closes := append(linear(40, 100, -1.3), linear(60, 100-1.3*40, 1.7)...)
	features, table := suite.fuse(closes, []indicator.Spec{indicator.SMASpec(10), indicator.SMASpec(30)})

	suite.Equal([]string{SignalSMACross}, table.SignalNames)

	short, _ := features.Series("sma_10")
	long, _ := features.Series("sma_30")
	signals, ok := table.Signal(SignalSMACross)
	suite.Require().True(ok)

	buys := 0

	for t := 1; t < len(closes); t++ {
		ps, pl := short.At(t-1), long.At(t-1)
		cs, cl := short.At(t), long.At(t)

		expected := types.SignalTypeNeutral
		if ps.IsSome() && pl.IsSome() && ps.Unwrap() < pl.Unwrap() && cs.Unwrap() > cl.Unwrap() {
			expected = types.SignalTypeBuy
		}

		suite.Equalf(expected, signals[t], "row %d", t)

		if signals[t] == types.SignalTypeBuy {
			buys++
			suite.Greater(t, 40)
		}
	}

	suite.Equal(1, buys)
}

func (suite *EngineTestSuite) TestSMACrossNeutralOnRisingSeries() {
	_, table := suite.fuse(linear(60, 10, 0.5), []indicator.Spec{indicator.SMASpec(10), indicator.SMASpec(30)})

	signals, _ := table.Signal(SignalSMACross)
	for _, s := range signals {
		suite.Equal(types.SignalTypeNeutral, s)
	}
}

func (suite *EngineTestSuite) TestFlatSeriesIsNeutralEverywhere() {
	_, table := suite.fuse(constant(40, 100), allSpecs())

	suite.Contains(table.SignalNames, SignalRSI)
	suite.Contains(table.SignalNames, SignalStochastic)
	suite.Contains(table.SignalNames, SignalCCI)
	suite.Contains(table.SignalNames, SignalWilliamsR)

	for _, row := range table.Rows {
		for i, s := range row.Signals {
			suite.Equalf(types.SignalTypeNeutral, s, "%s on %s", table.SignalNames[i], types.DateKey(row.Date))
		}

		suite.Equal(types.SignalTypeNeutral, row.FinalDecision)
	}
}

func (suite *EngineTestSuite) TestWarmupRows() {
	specs := []indicator.Spec{indicator.SMASpec(10), indicator.SMASpec(30), indicator.RSISpec(14)}
	_, table := suite.fuse(linear(80, 10, 0.5), specs)

	// sma_30 is defined from row 29 and the crossover reads one row back
	suite.Equal(30, table.Warmup)
	suite.False(table.Rows[29].Warm)
	suite.True(table.Rows[30].Warm)

	dropped := table.DropWarmup()
	suite.Equal(80-30, dropped.Len())
	suite.Equal(table.Rows[30].Date, dropped.Rows[0].Date)

	for _, row := range table.Rows[:14] {
		suite.Equal(types.SignalTypeNeutral, row.Signals[table.SignalIndex(SignalRSI)])
	}

	// a rising series is overbought once RSI can vote
	suite.Equal(types.SignalTypeSell, table.Rows[14].Signals[table.SignalIndex(SignalRSI)])
}

func (suite *EngineTestSuite) TestFeaturesKeepUndefinedMarker() {
	_, table := suite.fuse(linear(40, 10, 1), []indicator.Spec{indicator.SMASpec(5)})

	i := table.FeatureIndex("sma_5")
	suite.Require().GreaterOrEqual(i, 0)
	suite.True(table.Rows[3].Feature(i).IsNone())
	suite.InDelta(12.0, table.Rows[4].Feature(i).Unwrap(), 1e-9)
}

func (suite *EngineTestSuite) TestMissingFeature() {
	features, err := suite.indicators.Compute(barsFromCloses(linear(40, 10, 1)), []indicator.Spec{indicator.SMASpec(10)})
	suite.Require().NoError(err)

	engine := NewEngine([]Rule{NewCrossoverRule(SignalSMACross, "sma_5", "sma_10")})

	_, err = engine.Fuse(features)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingFeature))
	suite.True(errors.IsConfiguration(err))
}

func (suite *EngineTestSuite) TestFillPolicy() {
	bars := indicator.NewBars(barsFromCloses(constant(5, 10)))
	features := indicator.NewFeatureTable(bars, []indicator.Spec{indicator.RSISpec(1)}, []indicator.Series{
		{Name: indicator.ColumnRSI, Values: []float64{50, 20, nan(), 80, 50}},
	})
	rules := []Rule{NewBandRule(SignalRSI, indicator.ColumnRSI, RSIOversold, RSIOverbought)}

	filled, err := NewEngine(rules).Fuse(features)
	suite.Require().NoError(err)
	suite.Equal(types.SignalTypeBuy, filled.Rows[2].Signals[0])
	suite.True(filled.Rows[2].Feature(0).IsNone(), "features are reported unfilled")

	unfilled, err := NewEngine(rules, WithFillPolicy(FillNone)).Fuse(features)
	suite.Require().NoError(err)
	suite.Equal(types.SignalTypeNeutral, unfilled.Rows[2].Signals[0])
	suite.Equal(types.SignalTypeSell, unfilled.Rows[3].Signals[0])
}

func (suite *EngineTestSuite) TestBetween() {
	_, table := suite.fuse(linear(20, 10, 1), []indicator.Spec{indicator.SMASpec(3)})

	before := table.Between(NewRange(
		optional.Some(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
		optional.Some(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)),
	))
	suite.True(before.IsNone())

	// 2024-01-03 is the third bar, 2024-01-09 the seventh
	slice := table.Between(NewRange(
		optional.Some(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)),
		optional.Some(time.Date(2024, 1, 9, 23, 0, 0, 0, time.UTC)),
	))
	suite.Require().True(slice.IsSome())
	suite.Equal(5, slice.Unwrap().Len())
	suite.Equal("2024-01-03", types.DateKey(slice.Unwrap().Rows[0].Date))

	open := table.Between(NewRange(optional.None[time.Time](), optional.None[time.Time]()))
	suite.Equal(table.Len(), open.Unwrap().Len())
}

func (suite *EngineTestSuite) TestEmptyRangeError() {
	r := NewRange(optional.Some(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)), optional.None[time.Time]())
	err := EmptyRangeError(r)

	suite.True(errors.HasCode(err, errors.ErrCodeRangeEmpty))
	suite.Contains(err.Error(), "2023-01-01")
	suite.Contains(err.Error(), "the end")
}

func (suite *EngineTestSuite) TestRulesFor() {
	specs := allSpecs()
	rules, err := RulesFor(specs, DefaultCrossovers(specs))
	suite.Require().NoError(err)

	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name()
	}

	suite.Equal([]string{
		SignalSMACross, SignalEMACross, SignalMACD, SignalRSI, SignalStochastic, SignalWilliamsR,
		SignalCCI, SignalROC, SignalBollinger, SignalADX, SignalVortex, SignalOBV,
	}, names)

	_, err = RulesFor(specs, []Crossover{{Name: "fast", Short: "sma_10", Long: "sma_30"}})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidCrossover))

	_, err = RulesFor(specs, []Crossover{{Name: "x_cross", Short: "sma_10", Long: "sma_10"}})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidCrossover))

	_, err = RulesFor(nil, []Crossover{
		{Name: "x_cross", Short: "sma_10", Long: "sma_30"},
		{Name: "x_cross", Short: "ema_12", Long: "ema_26"},
	})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *EngineTestSuite) TestDefaultCrossovers() {
	suite.Empty(DefaultCrossovers([]indicator.Spec{indicator.SMASpec(10)}))

	crossovers := DefaultCrossovers([]indicator.Spec{
		indicator.SMASpec(20), indicator.SMASpec(5), indicator.SMASpec(50), indicator.EMASpec(12),
	})
	suite.Equal([]Crossover{{Name: SignalSMACross, Short: "sma_5", Long: "sma_50"}}, crossovers)
}
