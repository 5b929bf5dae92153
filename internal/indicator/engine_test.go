package indicator

import (
	"math"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type EngineTestSuite struct {
	suite.Suite
	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) SetupTest() {
	suite.engine = NewEngine(NewDefaultRegistry(), WithWorkers(2))
}

func allSpecs() []Spec {
	return []Spec{
		SMASpec(10),
		SMASpec(30),
		EMASpec(12),
		EMASpec(26),
		DefaultMACDSpec(),
		RSISpec(14),
		StochasticSpec(14, 3),
		WilliamsRSpec(14),
		CCISpec(20),
		ROCSpec(12),
		ATRSpec(14),
		BollingerBandsSpec(20, 2),
		DonchianSpec(20),
		ADXSpec(14),
		VortexSpec(14),
		OBVSpec(),
		LogReturnSpec(),
		SimpleReturnSpec(),
		TimeFeaturesSpec(),
	}
}

func (suite *EngineTestSuite) TestComputeAlignsEverySeries() {
	bars := barsFromCloses(wave(80))

	table, err := suite.engine.Compute(bars, allSpecs())
	suite.Require().NoError(err)

	suite.Equal(len(bars), table.Len())
	suite.Len(table.Names(), 29)

	for _, s := range table.All() {
		suite.Equal(len(bars), s.Len(), s.Name)

		for i := 0; i < s.Warmup; i++ {
			suite.Truef(s.At(i).IsNone(), "%s row %d should be undefined", s.Name, i)
		}

		for i := s.Warmup; i < s.Len(); i++ {
			suite.Truef(s.At(i).IsSome(), "%s row %d should be defined", s.Name, i)
		}
	}

	suite.Equal(26+9-2, table.Warmup())
}

func (suite *EngineTestSuite) TestComputeKeepsRequestOrder() {
	table, err := suite.engine.Compute(barsFromCloses(wave(40)), []Spec{RSISpec(14), SMASpec(5), DefaultMACDSpec()})
	suite.Require().NoError(err)

	suite.Equal([]string{"rsi", "sma_5", "macd", "macd_signal_line", "macd_hist"}, table.Names())
}

func (suite *EngineTestSuite) TestShortInputLeavesSeriesUndefined() {
	table, err := suite.engine.Compute(barsFromCloses(wave(5)), allSpecs())
	suite.Require().NoError(err)

	s, ok := table.Series("sma_30")
	suite.Require().True(ok)

	for i := 0; i < s.Len(); i++ {
		suite.True(s.At(i).IsNone())
	}

	rsi, ok := table.Series("rsi")
	suite.Require().True(ok)
	suite.True(rsi.At(4).IsNone())
}

func (suite *EngineTestSuite) TestConfigurationErrors() {
	testCases := []struct {
		name  string
		specs []Spec
		code  errors.ErrorCode
	}{
		{"no specs", nil, errors.ErrCodeInvalidConfiguration},
		{"zero period", []Spec{SMASpec(0)}, errors.ErrCodeInvalidPeriod},
		{"negative period", []Spec{RSISpec(-3)}, errors.ErrCodeInvalidPeriod},
		{"macd fast not shorter", []Spec{MACDSpec(26, 12, 9)}, errors.ErrCodeInvalidPeriod},
		{"bollinger stddev", []Spec{BollingerBandsSpec(20, 0)}, errors.ErrCodeInvalidStdDev},
		{"unknown indicator", []Spec{{Type: types.IndicatorType("ichimoku")}}, errors.ErrCodeUnknownIndicator},
		{"duplicate column", []Spec{SMASpec(10), SMASpec(10)}, errors.ErrCodeInvalidConfiguration},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := suite.engine.Compute(barsFromCloses(wave(40)), tc.specs)
			suite.Require().Error(err)
			suite.True(errors.HasCode(err, tc.code), err.Error())
			suite.True(errors.IsConfiguration(err))
		})
	}
}

func (suite *EngineTestSuite) TestOBVRequiresVolume() {
	bars := barsFromCloses(wave(20))
	bars[3].Volume = optional.None[float64]()
	bars[7].Volume = optional.None[float64]()

	_, err := suite.engine.Compute(bars, []Spec{OBVSpec()})
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingColumn))
	suite.Contains(err.Error(), types.DateKey(bars[3].Date))
	suite.Contains(err.Error(), types.DateKey(bars[7].Date))

	// other indicators do not need volume
	_, err = suite.engine.Compute(bars, []Spec{SMASpec(5)})
	suite.NoError(err)
}

func (suite *EngineTestSuite) TestLookback() {
	w, err := suite.engine.Lookback([]Spec{SMASpec(10), SMASpec(30), RSISpec(14)})
	suite.Require().NoError(err)
	suite.Equal(29, w)

	w, err = suite.engine.Lookback([]Spec{DefaultMACDSpec()})
	suite.Require().NoError(err)
	suite.Equal(33, w)
}

func (suite *EngineTestSuite) TestDeterministic() {
	bars := barsFromCloses(wave(60))

	first, err := suite.engine.Compute(bars, allSpecs())
	suite.Require().NoError(err)

	second, err := NewEngine(nil, WithWorkers(1)).Compute(bars, allSpecs())
	suite.Require().NoError(err)

	for _, name := range first.Names() {
		a, _ := first.Series(name)
		b, _ := second.Series(name)

		for i := range a.Values {
			if math.IsNaN(a.Values[i]) {
				suite.True(math.IsNaN(b.Values[i]))
				continue
			}

			suite.Equal(a.Values[i], b.Values[i], name)
		}
	}
}
