package writer

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-signals/internal/evaluation"
	"github.com/rxtech-lab/argo-signals/internal/indicator"
	"github.com/rxtech-lab/argo-signals/internal/logger"
	"github.com/rxtech-lab/argo-signals/internal/signal"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/mocks"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type WriterTestSuite struct {
	suite.Suite
	dir    string
	logger *logger.Logger
	table  *signal.DecisionTable
}

func TestWriterSuite(t *testing.T) {
	suite.Run(t, new(WriterTestSuite))
}

func (suite *WriterTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.logger = logger.NewNopLogger()
	suite.table = suite.computeTable()
}

func (suite *WriterTestSuite) computeTable() *signal.DecisionTable {
	specs := []indicator.Spec{
		indicator.SMASpec(10),
		indicator.SMASpec(30),
		indicator.EMASpec(12),
		indicator.EMASpec(26),
		indicator.DefaultMACDSpec(),
		indicator.RSISpec(14),
		indicator.StochasticSpec(14, 3),
		indicator.WilliamsRSpec(14),
		indicator.BollingerBandsSpec(20, 2),
		indicator.OBVSpec(),
	}

	features, err := indicator.NewEngine(nil).Compute(mocks.Generate1Y(), specs)
	suite.Require().NoError(err)

	rules, err := signal.RulesFor(specs, signal.DefaultCrossovers(specs))
	suite.Require().NoError(err)

	table, err := signal.NewEngine(rules).Fuse(features)
	suite.Require().NoError(err)

	return table
}

func (suite *WriterTestSuite) assertSameTable(want, got *signal.DecisionTable) {
	suite.Equal(want.FeatureNames, got.FeatureNames)
	suite.Equal(want.SignalNames, got.SignalNames)
	suite.Equal(want.Warmup, got.Warmup)
	suite.Equal(want.Labeled, got.Labeled)
	suite.Require().Equal(want.Len(), got.Len())

	for i, row := range want.Rows {
		other := got.Rows[i]
		suite.Equal(types.DateKey(row.Date), types.DateKey(other.Date))
		suite.InDelta(row.Open, other.Open, 1e-6)
		suite.InDelta(row.Close, other.Close, 1e-6)

		for f, v := range row.Features {
			if math.IsNaN(v) {
				suite.True(math.IsNaN(other.Features[f]), "%s row %d", want.FeatureNames[f], i)

				continue
			}

			suite.InDelta(v, other.Features[f], 1e-6, "%s row %d", want.FeatureNames[f], i)
		}

		suite.Equal(row.Signals, other.Signals)
		suite.Equal(row.Votes, other.Votes)
		suite.Equal(row.FinalDecision, other.FinalDecision)
		suite.Equal(row.Warm, other.Warm)
		suite.Equal(row.Label, other.Label)
	}
}

func (suite *WriterTestSuite) labeledTable() *signal.DecisionTable {
	labeled, err := evaluation.LabelTable(suite.table, evaluation.DefaultThreshold)
	suite.Require().NoError(err)

	return labeled
}

func (suite *WriterTestSuite) TestCSVRoundTrip() {
	var buf bytes.Buffer
	suite.Require().NoError(WriteCSV(&buf, suite.table))

	got, err := ReadCSV(&buf)
	suite.Require().NoError(err)

	suite.assertSameTable(suite.table, got)
}

func (suite *WriterTestSuite) TestCSVLayout() {
	var buf bytes.Buffer
	suite.Require().NoError(WriteCSV(&buf, suite.table))

	lines := strings.Split(buf.String(), "\n")
	head := strings.Split(lines[0], ",")

	suite.Equal([]string{ColumnDate, ColumnOpen, ColumnClose}, head[:3])
	suite.Equal([]string{ColumnFinalDecision, ColumnWarm}, head[len(head)-2:])
	suite.Contains(head, "sma_cross")
	suite.Contains(head, "rsi_signal")

	// first row: undefined features are empty and signals are NEUTRAL codes
	first := strings.Split(lines[1], ",")
	suite.Equal("2024-01-01", first[0])
	suite.Equal("", first[indexOf(head, "sma_30")])
	suite.Equal("0", first[indexOf(head, "sma_cross")])
	suite.Equal("false", first[len(first)-1])
}

func (suite *WriterTestSuite) TestCSVLabelColumn() {
	table := suite.labeledTable()

	var buf bytes.Buffer
	suite.Require().NoError(WriteCSV(&buf, table))

	lines := strings.Split(buf.String(), "\n")
	head := strings.Split(lines[0], ",")
	suite.Equal([]string{ColumnFinalDecision, ColumnLabel, ColumnWarm}, head[len(head)-3:])

	first := strings.Split(lines[1], ",")
	suite.Equal(strconv.Itoa(table.Rows[0].Label.Code()), first[indexOf(head, ColumnLabel)])

	got, err := ReadCSV(strings.NewReader(buf.String()))
	suite.Require().NoError(err)
	suite.assertSameTable(table, got)

	labels := map[types.SignalType]int{}
	for _, row := range got.Rows {
		labels[row.Label]++
	}

	suite.Positive(labels[types.SignalTypeBuy])
	suite.Positive(labels[types.SignalTypeSell])
}

func (suite *WriterTestSuite) TestCSVWriterFile() {
	path := filepath.Join(suite.dir, "nested", "decisions.csv")
	w := NewCSVWriter(path, suite.logger)
	suite.Equal(path, w.OutputPath())

	suite.Require().NoError(w.Write(context.Background(), suite.table))

	file, err := os.Open(path)
	suite.Require().NoError(err)
	defer file.Close()

	got, err := ReadCSV(file)
	suite.Require().NoError(err)
	suite.assertSameTable(suite.table, got)
}

func (suite *WriterTestSuite) TestReadCSVErrors() {
	testCases := []struct {
		name  string
		input string
		code  errors.ErrorCode
	}{
		{name: "empty", input: "", code: errors.ErrCodeEmptyInput},
		{name: "missing final decision", input: "date,open,close\n2024-01-01,1,2\n", code: errors.ErrCodeMissingColumn},
		{name: "bad signal code", input: "date,open,close,rsi_signal,final_decision\n2024-01-01,1,2,7,0\n", code: errors.ErrCodeMalformedRow},
		{name: "bad number", input: "date,open,close,rsi,final_decision\n2024-01-01,1,2,abc,0\n", code: errors.ErrCodeMalformedRow},
		{name: "bad date", input: "date,open,close,final_decision\nyesterday,1,2,0\n", code: errors.ErrCodeMalformedRow},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := ReadCSV(strings.NewReader(tc.input))
			suite.Require().Error(err)
			suite.Equal(tc.code, errors.GetCode(err))
		})
	}
}

func (suite *WriterTestSuite) TestReadCSVWithoutWarmColumn() {
	input := "date,open,close,rsi,rsi_signal,final_decision\n2024-01-01,1,2,,0,0\n2024-01-02,2,3,25,2,2\n"

	got, err := ReadCSV(strings.NewReader(input))
	suite.Require().NoError(err)
	suite.Require().Equal(2, got.Len())

	suite.Equal([]string{"rsi"}, got.FeatureNames)
	suite.Equal([]string{"rsi_signal"}, got.SignalNames)
	suite.Equal(0, got.Warmup)
	suite.True(math.IsNaN(got.Rows[0].Features[0]))
	suite.Equal(types.SignalTypeBuy, got.Rows[1].FinalDecision)
	suite.Equal(signal.Tally{Buy: 1}, got.Rows[1].Votes)
}

func (suite *WriterTestSuite) TestParquetRoundTrip() {
	path := filepath.Join(suite.dir, "out", "decisions.parquet")
	w := NewParquetWriter(path, suite.logger)
	suite.Equal(path, w.OutputPath())

	suite.Require().NoError(w.Write(context.Background(), suite.table))

	got, err := ReadParquet(context.Background(), path)
	suite.Require().NoError(err)

	suite.assertSameTable(suite.table, got)
}

func (suite *WriterTestSuite) TestParquetLabelColumn() {
	table := suite.labeledTable()
	path := filepath.Join(suite.dir, "labeled.parquet")

	suite.Require().NoError(NewParquetWriter(path, suite.logger).Write(context.Background(), table))

	got, err := ReadParquet(context.Background(), path)
	suite.Require().NoError(err)

	suite.True(got.Labeled)
	suite.assertSameTable(table, got)
}

func (suite *WriterTestSuite) TestParquetOverwrites() {
	path := filepath.Join(suite.dir, "decisions.parquet")
	w := NewParquetWriter(path, suite.logger)

	suite.Require().NoError(w.Write(context.Background(), suite.table))

	warm := suite.table.DropWarmup()
	suite.Require().NoError(w.Write(context.Background(), warm))

	got, err := ReadParquet(context.Background(), path)
	suite.Require().NoError(err)
	suite.Equal(warm.Len(), got.Len())
	suite.Equal(0, got.Warmup)
}

func (suite *WriterTestSuite) TestReadParquetMissingFile() {
	_, err := ReadParquet(context.Background(), filepath.Join(suite.dir, "absent.parquet"))
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeReadFailed, errors.GetCode(err))
}

func (suite *WriterTestSuite) TestIntradayDatesKeepTime() {
	stamp := time.Date(2024, 3, 4, 15, 30, 0, 0, time.UTC)
	suite.Equal("2024-03-04T15:30:00Z", formatDate(stamp))
	suite.Equal("2024-03-04", formatDate(types.CalendarDate(stamp)))
}

func (suite *WriterTestSuite) TestIsSignalColumn() {
	suite.True(IsSignalColumn("ema_cross"))
	suite.True(IsSignalColumn("macd_signal"))
	suite.False(IsSignalColumn("macd_signal_line"))
	suite.False(IsSignalColumn("final_decision"))
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}

	return -1
}
