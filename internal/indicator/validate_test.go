package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ValidateTestSuite struct {
	suite.Suite
}

func TestValidateSuite(t *testing.T) {
	suite.Run(t, new(ValidateTestSuite))
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}

	return t
}

func barsOn(dates ...string) []types.PriceBar {
	bars := make([]types.PriceBar, len(dates))
	for i, d := range dates {
		bars[i] = types.PriceBar{Date: day(d), Open: 10, High: 11, Low: 9, Close: 10, Volume: optional.Some(5.0)}
	}

	return bars
}

func (suite *ValidateTestSuite) TestValidSeries() {
	// Friday then Monday is contiguous on the weekday calendar
	suite.NoError(ValidateBars(barsOn("2024-01-04", "2024-01-05", "2024-01-08"), CalendarWeekdays))
	suite.NoError(ValidateBars(barsOn("2024-01-06", "2024-01-07", "2024-01-08"), CalendarDaily))
	suite.NoError(ValidateBars(barsOn("2024-01-01", "2024-03-01"), CalendarAny))
}

func (suite *ValidateTestSuite) TestRejectsBadSeries() {
	badPrice := barsOn("2024-01-01", "2024-01-02")
	badPrice[1].Close = 0

	missingLow := barsOn("2024-01-01", "2024-01-02")
	missingLow[0].Low = math.NaN()

	negativeVolume := barsOn("2024-01-01")
	negativeVolume[0].Volume = optional.Some(-1.0)

	testCases := []struct {
		name     string
		bars     []types.PriceBar
		calendar Calendar
		code     errors.ErrorCode
		contains string
	}{
		{"empty", nil, CalendarWeekdays, errors.ErrCodeEmptyInput, "empty"},
		{"duplicate", barsOn("2024-01-01", "2024-01-01"), CalendarWeekdays, errors.ErrCodeDuplicateDate, "2024-01-01"},
		{"unordered", barsOn("2024-01-02", "2024-01-01"), CalendarAny, errors.ErrCodeNonMonotonicDates, "2024-01-01"},
		{"single weekday gap", barsOn("2024-01-01", "2024-01-02", "2024-01-04"), CalendarWeekdays, errors.ErrCodeDateGap, "2024-01-03"},
		{"weekend gap on daily calendar", barsOn("2024-01-05", "2024-01-08"), CalendarDaily, errors.ErrCodeDateGap, "2024-01-06"},
		{"non positive price", badPrice, CalendarWeekdays, errors.ErrCodeInvalidPrice, "close"},
		{"missing low", missingLow, CalendarWeekdays, errors.ErrCodeMissingColumn, "low"},
		{"negative volume", negativeVolume, CalendarWeekdays, errors.ErrCodeInvalidPrice, "volume"},
		{"unknown calendar", barsOn("2024-01-01"), Calendar("lunar"), errors.ErrCodeInvalidConfiguration, "lunar"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := ValidateBars(tc.bars, tc.calendar)
			suite.Require().Error(err)
			suite.True(errors.HasCode(err, tc.code), err.Error())
			suite.Contains(err.Error(), tc.contains)
		})
	}
}

func (suite *ValidateTestSuite) TestEngineRejectsGap() {
	bars := barsFromCloses(wave(30))
	bars = append(bars[:10], bars[11:]...)

	_, err := NewEngine(nil).Compute(bars, []Spec{SMASpec(5)})
	suite.Require().Error(err)
	suite.True(errors.IsDataValidation(err))
	suite.True(errors.HasCode(err, errors.ErrCodeDateGap))
}
