package datasource

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/logger"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"go.uber.org/zap"
)

// CSVSource reads bars from a csv file with a header row. The volume column
// is optional; an empty cell is an absent volume.
type CSVSource struct {
	path    string
	logger  *logger.Logger
	options options
}

// NewCSVSource creates a source reading path.
func NewCSVSource(path string, log *logger.Logger, opts ...Option) *CSVSource {
	return &CSVSource{path: path, logger: log, options: newOptions(opts)}
}

// Load implements BarSource.
func (s *CSVSource) Load(ctx context.Context) ([]types.PriceBar, error) {
	s.logger.Debug("Reading price history", zap.String("path", s.path))

	file, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeReadFailed, err, "failed to open %s", s.path)
	}
	defer file.Close()

	return s.read(ctx, file)
}

func (s *CSVSource) read(ctx context.Context, r io.Reader) ([]types.PriceBar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Newf(errors.ErrCodeEmptyInput, "%s is empty", s.path)
	}

	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeReadFailed, err, "failed to read header of %s", s.path)
	}

	columns := newColumnIndex(header)
	if err := columns.require(s.path); err != nil {
		return nil, err
	}

	var bars []types.PriceBar

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMalformedRow, err, "failed to read %s line %d", s.path, line)
		}

		bar, err := parseRecord(record, columns)
		if err != nil {
			return nil, errors.Wrapf(errors.GetCode(err), err, "%s line %d", s.path, line)
		}

		if s.options.afterEnd(bar.Date) {
			continue
		}

		bars = append(bars, bar)
	}

	s.logger.Debug("Read price history", zap.String("path", s.path), zap.Int("bars", len(bars)))

	return bars, nil
}

// Close implements BarSource.
func (s *CSVSource) Close() error {
	return nil
}

func parseRecord(record []string, columns columnIndex) (types.PriceBar, error) {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}

		return strings.TrimSpace(record[i])
	}

	date, err := ParseDate(cell(ColumnDate))
	if err != nil {
		return types.PriceBar{}, err
	}

	bar := types.PriceBar{Date: date, Volume: optional.None[float64]()}

	prices := []*float64{&bar.Open, &bar.High, &bar.Low, &bar.Close}
	for i, name := range requiredPriceColumns {
		v, err := parseFloat(cell(name))
		if err != nil {
			return types.PriceBar{}, errors.Wrapf(errors.ErrCodeMalformedRow, err, "invalid %s", name)
		}

		*prices[i] = v
	}

	if raw := cell(ColumnVolume); raw != "" {
		v, err := parseFloat(raw)
		if err != nil {
			return types.PriceBar{}, errors.Wrapf(errors.ErrCodeMalformedRow, err, "invalid %s", ColumnVolume)
		}

		bar.Volume = optional.Some(v)
	}

	return bar, nil
}

// parseFloat reads an empty cell as NaN so validation can name the missing
// value.
func parseFloat(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}

	return strconv.ParseFloat(s, 64)
}
