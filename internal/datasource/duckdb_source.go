package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-signals/internal/logger"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"go.uber.org/zap"
)

const priceView = "price_bars"

// DuckDBSource reads bars from a parquet or csv file through an in-memory
// DuckDB view.
type DuckDBSource struct {
	db      *sql.DB
	logger  *logger.Logger
	sq      squirrel.StatementBuilderType
	path    string
	options options
}

// NewDuckDBSource opens an in-memory database and exposes path as a view.
// Files ending in .csv are read with read_csv_auto, everything else as
// parquet.
func NewDuckDBSource(path string, log *logger.Logger, opts ...Option) (*DuckDBSource, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeReadFailed, "failed to open duckdb", err)
	}

	s := &DuckDBSource{
		db:      db,
		logger:  log,
		sq:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		path:    path,
		options: newOptions(opts),
	}

	if err := s.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return s, nil
}

func (s *DuckDBSource) initialize() error {
	s.logger.Debug("Initializing DuckDB price source", zap.String("path", s.path))

	reader := "read_parquet"
	if strings.EqualFold(filepath.Ext(s.path), ".csv") {
		reader = "read_csv_auto"
	}

	// Using raw SQL as Squirrel doesn't support CREATE VIEW
	query := fmt.Sprintf(`CREATE OR REPLACE VIEW %s AS SELECT * FROM %s('%s');`,
		priceView, reader, strings.ReplaceAll(s.path, "'", "''"))

	if _, err := s.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeReadFailed, err, "failed to read %s", s.path)
	}

	return nil
}

// columns returns the view's column names keyed by lowercase name.
func (s *DuckDBSource) columns(ctx context.Context) (map[string]string, error) {
	query, args, err := s.sq.
		Select("column_name").
		From("information_schema.columns").
		Where(squirrel.Eq{"table_name": priceView}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build column query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to describe price view", err)
	}
	defer rows.Close()

	names := make(map[string]string)

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan column name", err)
		}

		key := strings.ToLower(name)
		if _, exists := names[key]; !exists {
			names[key] = name
		}
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to describe price view", err)
	}

	for _, alias := range dateAliases {
		if name, ok := names[alias]; ok {
			if _, exists := names[ColumnDate]; !exists {
				names[ColumnDate] = name
			}

			break
		}
	}

	for _, name := range append([]string{ColumnDate}, requiredPriceColumns...) {
		if _, ok := names[name]; !ok {
			return nil, errors.Newf(errors.ErrCodeMissingColumn, "%s has no %s column", s.path, name)
		}
	}

	return names, nil
}

func quote(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}

func (s *DuckDBSource) buildQuery(columns map[string]string) (string, []any, error) {
	date := fmt.Sprintf("CAST(%s AS TIMESTAMP)", quote(columns[ColumnDate]))

	selects := []string{date}
	for _, name := range requiredPriceColumns {
		selects = append(selects, fmt.Sprintf("CAST(%s AS DOUBLE)", quote(columns[name])))
	}

	if volume, ok := columns[ColumnVolume]; ok {
		selects = append(selects, fmt.Sprintf("CAST(%s AS DOUBLE)", quote(volume)))
	} else {
		selects = append(selects, "CAST(NULL AS DOUBLE)")
	}

	builder := s.sq.Select(selects...).From(priceView)

	if s.options.end.IsSome() {
		// the whole end date is included
		end := types.CalendarDate(s.options.end.Unwrap()).AddDate(0, 0, 1)
		builder = builder.Where(squirrel.Expr(date+" < ?", end))
	}

	return builder.ToSql()
}

// Load implements BarSource. Rows are returned in file order.
func (s *DuckDBSource) Load(ctx context.Context) ([]types.PriceBar, error) {
	columns, err := s.columns(ctx)
	if err != nil {
		return nil, err
	}

	query, args, err := s.buildQuery(columns)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build price query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to query %s", s.path)
	}
	defer rows.Close()

	bars := make([]types.PriceBar, 0, 1024)

	for rows.Next() {
		var (
			date                   sql.NullTime
			open, high, low, close sql.NullFloat64
			volume                 sql.NullFloat64
		)

		if err := rows.Scan(&date, &open, &high, &low, &close, &volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedRow, "failed to scan price row", err)
		}

		if !date.Valid {
			return nil, errors.Newf(errors.ErrCodeMissingColumn, "%s has a row without a date after %d bars", s.path, len(bars))
		}

		bar := types.PriceBar{
			Date:   date.Time,
			Open:   nullable(open),
			High:   nullable(high),
			Low:    nullable(low),
			Close:  nullable(close),
			Volume: optional.None[float64](),
		}

		if volume.Valid {
			bar.Volume = optional.Some(volume.Float64)
		}

		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating price rows", err)
	}

	s.logger.Debug("Read price history", zap.String("path", s.path), zap.Int("bars", len(bars)))

	return bars, nil
}

// Close implements BarSource.
func (s *DuckDBSource) Close() error {
	return s.db.Close()
}

func nullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}

	return v.Float64
}
