package writer

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-signals/internal/logger"
	"github.com/rxtech-lab/argo-signals/internal/signal"
	"github.com/rxtech-lab/argo-signals/internal/types"
	"github.com/rxtech-lab/argo-signals/pkg/errors"
	"go.uber.org/zap"
)

const (
	decisionsTable = "decisions"
	// insertBatch bounds the rows of one INSERT statement.
	insertBatch = 256
)

// ParquetWriter writes a decision table to a parquet file through an
// in-memory DuckDB table.
type ParquetWriter struct {
	outputPath string
	logger     *logger.Logger
	sq         squirrel.StatementBuilderType
}

// NewParquetWriter creates a ParquetWriter for outputPath.
func NewParquetWriter(outputPath string, log *logger.Logger) *ParquetWriter {
	return &ParquetWriter{
		outputPath: outputPath,
		logger:     log,
		sq:         squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// OutputPath implements TableWriter.
func (w *ParquetWriter) OutputPath() string {
	return w.outputPath
}

// Write implements TableWriter. The file is replaced.
func (w *ParquetWriter) Write(ctx context.Context, table *signal.DecisionTable) error {
	if err := os.MkdirAll(filepath.Dir(w.outputPath), 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to create directory for %s", w.outputPath)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to open duckdb", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, createTableSQL(table)); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to create decisions table", err)
	}

	if err := w.insert(ctx, db, table); err != nil {
		return err
	}

	// Using raw SQL as Squirrel doesn't support COPY
	query := fmt.Sprintf(`COPY (SELECT * FROM %s) TO '%s' (FORMAT PARQUET)`,
		decisionsTable, strings.ReplaceAll(w.outputPath, "'", "''"))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to export %s", w.outputPath)
	}

	w.logger.Debug("Wrote decision table", zap.String("path", w.outputPath), zap.Int("rows", table.Len()))

	return nil
}

func createTableSQL(table *signal.DecisionTable) string {
	columns := []string{
		quote(ColumnDate) + " TIMESTAMP",
		quote(ColumnOpen) + " DOUBLE",
		quote(ColumnClose) + " DOUBLE",
	}

	for _, name := range table.FeatureNames {
		columns = append(columns, quote(name)+" DOUBLE")
	}

	for _, name := range table.SignalNames {
		columns = append(columns, quote(name)+" INTEGER")
	}

	columns = append(columns, quote(ColumnFinalDecision)+" INTEGER")
	if table.Labeled {
		columns = append(columns, quote(ColumnLabel)+" INTEGER")
	}

	columns = append(columns, quote(ColumnWarm)+" BOOLEAN")

	return fmt.Sprintf("CREATE TABLE %s (%s)", decisionsTable, strings.Join(columns, ", "))
}

func (w *ParquetWriter) insert(ctx context.Context, db *sql.DB, table *signal.DecisionTable) error {
	if table.Len() == 0 {
		return nil
	}

	columns := header(table)
	for i, name := range columns {
		columns[i] = quote(name)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to begin transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for start := 0; start < table.Len(); start += insertBatch {
		end := min(start+insertBatch, table.Len())

		builder := w.sq.Insert(decisionsTable).Columns(columns...)
		for _, row := range table.Rows[start:end] {
			builder = builder.Values(rowValues(row, table.Labeled)...)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailed, "failed to build insert", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to insert rows from %s", types.DateKey(table.Rows[start].Date))
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to commit decisions", err)
	}

	return nil
}

// rowValues flattens row in header order. NaN features are stored as NULL.
func rowValues(row signal.DecisionRow, labeled bool) []any {
	values := make([]any, 0, len(row.Features)+len(row.Signals)+6)
	values = append(values, row.Date, row.Open, row.Close)

	for _, v := range row.Features {
		if math.IsNaN(v) {
			values = append(values, nil)

			continue
		}

		values = append(values, v)
	}

	for _, s := range row.Signals {
		values = append(values, s.Code())
	}

	values = append(values, row.FinalDecision.Code())
	if labeled {
		values = append(values, row.Label.Code())
	}

	return append(values, row.Warm)
}

// ReadParquet loads a decision table written by ParquetWriter.
func ReadParquet(ctx context.Context, path string) (*signal.DecisionTable, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeReadFailed, "failed to open duckdb", err)
	}
	defer db.Close()

	query := fmt.Sprintf("SELECT * FROM read_parquet('%s')", strings.ReplaceAll(path, "'", "''"))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeReadFailed, err, "failed to read %s", path)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeReadFailed, "failed to describe decision table", err)
	}

	l, err := parseLayout(names)
	if err != nil {
		return nil, err
	}

	out := make([]signal.DecisionRow, 0, 256)

	for rows.Next() {
		row, err := l.scan(rows, len(names))
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMalformedRow, err, "%s row %d", path, len(out)+1)
		}

		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeReadFailed, "error iterating decision rows", err)
	}

	return l.newTable(out), nil
}

func (l layout) scan(rows *sql.Rows, width int) (signal.DecisionRow, error) {
	var (
		date   sql.NullTime
		prices = make([]sql.NullFloat64, width)
		codes  = make([]sql.NullInt64, width)
		warm   sql.NullBool
	)

	dest := make([]any, width)
	for i := range dest {
		dest[i] = &prices[i]
	}

	dest[l.date] = &date
	coded := append([]int{l.final}, l.signals...)
	if l.label >= 0 {
		coded = append(coded, l.label)
	}

	for _, col := range coded {
		dest[col] = &codes[col]
	}

	if l.warm >= 0 {
		dest[l.warm] = &warm
	}

	if err := rows.Scan(dest...); err != nil {
		return signal.DecisionRow{}, err
	}

	if !date.Valid {
		return signal.DecisionRow{}, fmt.Errorf("missing date")
	}

	row := signal.DecisionRow{
		Date:     date.Time,
		Open:     nullFloat(prices[l.open]),
		Close:    nullFloat(prices[l.close]),
		Features: make([]float64, len(l.features)),
		Signals:  make([]types.SignalType, len(l.signals)),
		Warm:     !warm.Valid || warm.Bool,
	}

	for i, col := range l.features {
		row.Features[i] = nullFloat(prices[col])
	}

	var err error

	for i, col := range l.signals {
		if row.Signals[i], err = types.ParseSignalCode(int(codes[col].Int64)); err != nil {
			return row, err
		}
	}

	if row.FinalDecision, err = types.ParseSignalCode(int(codes[l.final].Int64)); err != nil {
		return row, err
	}

	if l.label >= 0 {
		if row.Label, err = types.ParseSignalCode(int(codes[l.label].Int64)); err != nil {
			return row, err
		}
	}

	_, row.Votes = signal.Vote(row.Signals)

	return row, nil
}

func nullFloat(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}

	return v.Float64
}

func quote(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}
