package writer

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rxtech-lab/argo-signals/internal/datasource"
	"github.com/rxtech-lab/argo-signals/internal/logger"
	"github.com/rxtech-lab/argo-signals/internal/signal"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"go.uber.org/zap"
)

// CSVWriter writes a decision table as a csv file.
type CSVWriter struct {
	outputPath string
	logger     *logger.Logger
}

// NewCSVWriter creates a CSVWriter for outputPath.
func NewCSVWriter(outputPath string, log *logger.Logger) *CSVWriter {
	return &CSVWriter{
		outputPath: outputPath,
		logger:     log,
	}
}

// OutputPath implements TableWriter.
func (w *CSVWriter) OutputPath() string {
	return w.outputPath
}

// Write implements TableWriter. The file is replaced.
func (w *CSVWriter) Write(_ context.Context, table *signal.DecisionTable) error {
	if err := os.MkdirAll(filepath.Dir(w.outputPath), 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to create directory for %s", w.outputPath)
	}

	file, err := os.Create(w.outputPath)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to create %s", w.outputPath)
	}
	defer file.Close()

	if err := WriteCSV(file, table); err != nil {
		return err
	}

	if err := file.Close(); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to close %s", w.outputPath)
	}

	w.logger.Debug("Wrote decision table", zap.String("path", w.outputPath), zap.Int("rows", table.Len()))

	return nil
}

// WriteCSV encodes table to out. Undefined feature values are empty cells
// and signals are written as their integer codes.
func WriteCSV(out io.Writer, table *signal.DecisionTable) error {
	cw := csv.NewWriter(out)

	if err := cw.Write(header(table)); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to write csv header", err)
	}

	record := make([]string, 0, len(table.FeatureNames)+len(table.SignalNames)+6)

	for _, row := range table.Rows {
		record = record[:0]
		record = append(record, formatDate(row.Date), formatFloat(row.Open), formatFloat(row.Close))

		for _, v := range row.Features {
			record = append(record, formatFloat(v))
		}

		for _, s := range row.Signals {
			record = append(record, strconv.Itoa(s.Code()))
		}

		record = append(record, strconv.Itoa(row.FinalDecision.Code()))
		if table.Labeled {
			record = append(record, strconv.Itoa(row.Label.Code()))
		}

		record = append(record, strconv.FormatBool(row.Warm))

		if err := cw.Write(record); err != nil {
			return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to write row %s", types.DateKey(row.Date))
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to flush csv", err)
	}

	return nil
}

// ReadCSV decodes a table written by WriteCSV. Columns ending in _signal or
// _cross are signals, everything else between close and final_decision is a
// feature. A missing warm column marks every row warm.
func ReadCSV(in io.Reader) (*signal.DecisionTable, error) {
	cr := csv.NewReader(in)
	cr.ReuseRecord = true

	head, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeEmptyInput, "decision table csv is empty")
	}

	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeReadFailed, "failed to read csv header", err)
	}

	l, err := parseLayout(head)
	if err != nil {
		return nil, err
	}

	rows := make([]signal.DecisionRow, 0, 256)

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMalformedRow, err, "failed to read line %d", line)
		}

		row, err := l.parseRecord(record)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMalformedRow, err, "line %d", line)
		}

		rows = append(rows, row)
	}

	return l.newTable(rows), nil
}

func (l layout) parseRecord(record []string) (signal.DecisionRow, error) {
	var (
		row signal.DecisionRow
		err error
	)

	if row.Date, err = datasource.ParseDate(record[l.date]); err != nil {
		return row, err
	}

	if row.Open, err = parseFloat(record[l.open]); err != nil {
		return row, err
	}

	if row.Close, err = parseFloat(record[l.close]); err != nil {
		return row, err
	}

	row.Features = make([]float64, len(l.features))
	for i, col := range l.features {
		if row.Features[i], err = parseFloat(record[col]); err != nil {
			return row, err
		}
	}

	row.Signals = make([]types.SignalType, len(l.signals))
	for i, col := range l.signals {
		if row.Signals[i], err = parseSignal(record[col]); err != nil {
			return row, err
		}
	}

	if row.FinalDecision, err = parseSignal(record[l.final]); err != nil {
		return row, err
	}

	if l.label >= 0 {
		if row.Label, err = parseSignal(record[l.label]); err != nil {
			return row, err
		}
	}

	_, row.Votes = signal.Vote(row.Signals)

	row.Warm = true
	if l.warm >= 0 {
		if row.Warm, err = strconv.ParseBool(record[l.warm]); err != nil {
			return row, err
		}
	}

	return row, nil
}

// formatDate keeps the time of day only for intraday stamps.
func formatDate(t time.Time) string {
	if t.Equal(types.CalendarDate(t)) {
		return types.DateKey(t)
	}

	return t.Format(time.RFC3339Nano)
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}

	return strconv.ParseFloat(s, 64)
}

func parseSignal(s string) (types.SignalType, error) {
	code, err := strconv.Atoi(s)
	if err != nil {
		return types.SignalTypeNeutral, err
	}

	return types.ParseSignalCode(code)
}
