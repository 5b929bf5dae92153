package datasource

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/logger"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type CSVSourceTestSuite struct {
	suite.Suite
	dir    string
	logger *logger.Logger
}

func TestCSVSourceSuite(t *testing.T) {
	suite.Run(t, new(CSVSourceTestSuite))
}

func (suite *CSVSourceTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.logger = logger.NewNopLogger()
}

func (suite *CSVSourceTestSuite) write(name, content string) string {
	path := filepath.Join(suite.dir, name)
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o600))

	return path
}

const sampleCSV = `Date,Open,High,Low,Close,Volume
2024-01-01,100,101,99,100.5,1000
2024-01-02,100.5,102,100,101.5,
2024-01-03,101.5,103,101,102,1200
`

func (suite *CSVSourceTestSuite) TestLoad() {
	source := NewCSVSource(suite.write("bars.csv", sampleCSV), suite.logger)
	defer source.Close()

	bars, err := source.Load(context.Background())
	suite.Require().NoError(err)
	suite.Require().Len(bars, 3)

	suite.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), bars[0].Date)
	suite.Equal(100.0, bars[0].Open)
	suite.Equal(101.0, bars[0].High)
	suite.Equal(99.0, bars[0].Low)
	suite.Equal(100.5, bars[0].Close)
	suite.Equal(optional.Some(1000.0), bars[0].Volume)
	suite.True(bars[1].Volume.IsNone())
}

func (suite *CSVSourceTestSuite) TestWithoutVolumeColumn() {
	path := suite.write("novolume.csv", "time,open,high,low,close\n2024-01-01 00:00:00,1,2,0.5,1.5\n")

	bars, err := NewCSVSource(path, suite.logger).Load(context.Background())
	suite.Require().NoError(err)
	suite.Require().Len(bars, 1)
	suite.True(bars[0].Volume.IsNone())
}

func (suite *CSVSourceTestSuite) TestEndBound() {
	end := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	source := NewCSVSource(suite.write("bars.csv", sampleCSV), suite.logger, WithEnd(optional.Some(end)))

	bars, err := source.Load(context.Background())
	suite.Require().NoError(err)
	suite.Len(bars, 2)
}

func (suite *CSVSourceTestSuite) TestEmptyPriceCellIsUndefined() {
	path := suite.write("gap.csv", "date,open,high,low,close\n2024-01-01,1,2,,1.5\n")

	bars, err := NewCSVSource(path, suite.logger).Load(context.Background())
	suite.Require().NoError(err)
	suite.True(math.IsNaN(bars[0].Low))
}

func (suite *CSVSourceTestSuite) TestErrors() {
	testCases := []struct {
		name    string
		content string
		code    errors.ErrorCode
	}{
		{"empty file", "", errors.ErrCodeEmptyInput},
		{"missing close", "date,open,high,low\n2024-01-01,1,2,0.5\n", errors.ErrCodeMissingColumn},
		{"missing date", "open,high,low,close\n1,2,0.5,1.5\n", errors.ErrCodeMissingColumn},
		{"bad number", "date,open,high,low,close\n2024-01-01,one,2,0.5,1.5\n", errors.ErrCodeMalformedRow},
		{"bad date", "date,open,high,low,close\n01/02/2024,1,2,0.5,1.5\n", errors.ErrCodeMalformedRow},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := NewCSVSource(suite.write("bad.csv", tc.content), suite.logger).Load(context.Background())
			suite.Require().Error(err)
			suite.True(errors.HasCode(err, tc.code), err.Error())
		})
	}

	_, err := NewCSVSource(filepath.Join(suite.dir, "missing.csv"), suite.logger).Load(context.Background())
	suite.True(errors.HasCode(err, errors.ErrCodeReadFailed))
}

func (suite *CSVSourceTestSuite) TestParseDate() {
	for _, s := range []string{"2024-03-04", "2024-03-04 00:00:00", "2024-03-04 00:00:00+00:00", "2024-03-04T00:00:00Z"} {
		t, err := ParseDate(s)
		suite.Require().NoError(err, s)
		suite.Equal("2024-03-04", t.Format(time.DateOnly))
	}
}
