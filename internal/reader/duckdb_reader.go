package reader

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-history/internal/calendar"
	"github.com/rxtech-lab/argo-history/internal/logger"
	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/pkg/errors"
	"go.uber.org/zap"
)

// BarsTable is the relation every DuckDB bar query reads from.
const BarsTable = "daily_bars"

var barColumns = []string{"session", "symbol", "open", "high", "low", "close", "volume", "open_interest"}

// DuckDBBarReader reads daily bars from a DuckDB relation with the columns
// session, symbol, open, high, low, close, volume and open_interest.
type DuckDBBarReader struct {
	db     *sql.DB
	cal    calendar.TradingCalendar
	logger *logger.Logger
	sq     squirrel.StatementBuilderType

	first time.Time
	last  time.Time
}

// NewDuckDBBarReader opens the DuckDB database at path.
// This is distinct from Initialize, which points the reader at the bar data.
func NewDuckDBBarReader(path string, cal calendar.TradingCalendar, logger *logger.Logger) (*DuckDBBarReader, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open bars database", err)
	}

	_, err = db.Exec(`SET threads=4;`)
	if err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to set DuckDB options", err)
	}

	return NewDuckDBBarReaderFromDB(db, cal, logger), nil
}

// NewDuckDBBarReaderFromDB wraps an already opened database.
func NewDuckDBBarReaderFromDB(db *sql.DB, cal calendar.TradingCalendar, logger *logger.Logger) *DuckDBBarReader {
	return &DuckDBBarReader{
		db:     db,
		cal:    cal,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// DB returns the underlying connection so another reader can share it.
func (d *DuckDBBarReader) DB() *sql.DB {
	return d.db
}

// Initialize creates the bars view over a parquet file.
func (d *DuckDBBarReader) Initialize(parquetPath string) error {
	d.logger.Debug("Initializing DuckDB bar reader", zap.String("path", parquetPath))

	_, err := d.db.Exec(fmt.Sprintf(`DROP VIEW IF EXISTS %s;`, BarsTable))
	if err != nil {
		return fmt.Errorf("failed to drop existing view: %w", err)
	}

	// squirrel doesn't support CREATE VIEW
	query := fmt.Sprintf(`
		CREATE VIEW %s AS
		SELECT * FROM read_parquet('%s');
	`, BarsTable, parquetPath)

	if _, err = d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to create view over %s", parquetPath)
	}

	return d.refreshBounds()
}

// InitializeTable uses an existing bars table, creating an empty one if needed.
func (d *DuckDBBarReader) InitializeTable() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			session DATE NOT NULL,
			symbol VARCHAR NOT NULL,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE,
			open_interest DOUBLE
		);
	`, BarsTable)

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to create bars table", err)
	}

	return d.refreshBounds()
}

// Refresh re-reads the first and last session after the underlying data changed.
func (d *DuckDBBarReader) Refresh() error {
	return d.refreshBounds()
}

func (d *DuckDBBarReader) refreshBounds() error {
	var first, last sql.NullTime

	query := fmt.Sprintf("SELECT MIN(session), MAX(session) FROM %s", BarsTable)
	if err := d.db.QueryRow(query).Scan(&first, &last); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to read bar bounds", err)
	}

	d.first, d.last = time.Time{}, time.Time{}
	if first.Valid {
		d.first = types.NormalizeSession(first.Time)
	}

	if last.Valid {
		d.last = types.NormalizeSession(last.Time)
	}

	d.logger.Debug("Bar bounds", zap.Time("first", d.first), zap.Time("last", d.last))

	return nil
}

// Calendar implements BarReader.
func (d *DuckDBBarReader) Calendar() calendar.TradingCalendar {
	return d.cal
}

// FirstTradingDay implements BarReader.
func (d *DuckDBBarReader) FirstTradingDay() time.Time {
	return d.first
}

// LastAvailableDate implements BarReader.
func (d *DuckDBBarReader) LastAvailableDate() time.Time {
	return d.last
}

// LoadRawArrays implements BarReader.
func (d *DuckDBBarReader) LoadRawArrays(fields []types.Field, start time.Time, end time.Time, instruments []types.Instrument) ([]*types.Block, error) {
	sessions := d.cal.SessionsInRange(start, end)

	set, err := newBlockSet(fields, sessions, instruments)
	if err != nil {
		return nil, err
	}

	if len(sessions) == 0 || len(instruments) == 0 {
		return set.blocks, nil
	}

	query, args, err := d.sq.
		Select(barColumns...).
		From(BarsTable).
		Where(squirrel.And{
			squirrel.Eq{"symbol": types.Symbols(instruments)},
			squirrel.GtOrEq{"session": sessions[0]},
			squirrel.LtOrEq{"session": sessions[len(sessions)-1]},
		}).
		OrderBy("session ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	stmt, err := d.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query daily bars", err)
	}
	defer rows.Close()

	count := 0

	for rows.Next() {
		bar, err := scanBar(rows)
		if err != nil {
			return nil, err
		}

		set.add(bar)
		count++
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	d.logger.Debug("Loaded raw arrays",
		zap.Int("fields", len(fields)),
		zap.Int("instruments", len(instruments)),
		zap.Int("sessions", len(sessions)),
		zap.Int("rows", count),
	)

	return set.blocks, nil
}

// GetValue implements BarReader.
func (d *DuckDBBarReader) GetValue(instrument types.Instrument, session time.Time, field types.Field) (float64, error) {
	if field.IsLabelField() || !types.IsHistoryField(field) {
		return 0, errors.Newf(errors.ErrCodeInvalidField, "invalid field for value lookup: %s", field)
	}

	session = types.NormalizeSession(session)

	first, last, err := d.symbolBounds(instrument.Symbol)
	if err != nil {
		return 0, err
	}

	if first.IsNone() || session.Before(first.Unwrap()) || session.After(last.Unwrap()) {
		return 0, errors.NewNoDataOnDateError(instrument.Symbol, session, "session outside of available bars")
	}

	bar, found, err := d.getBar(instrument.Symbol, session)
	if err != nil {
		return 0, err
	}

	if !found {
		return field.FillValue(), nil
	}

	value, _ := bar.Value(field)

	return value, nil
}

// GetLastTradedDate implements BarReader.
func (d *DuckDBBarReader) GetLastTradedDate(instrument types.Instrument, session time.Time) (optional.Option[time.Time], error) {
	query, args, err := d.sq.
		Select("MAX(session)").
		From(BarsTable).
		Where(squirrel.And{
			squirrel.Eq{"symbol": instrument.Symbol},
			squirrel.LtOrEq{"session": types.NormalizeSession(session)},
			squirrel.Gt{"volume": 0},
		}).
		ToSql()
	if err != nil {
		return optional.None[time.Time](), fmt.Errorf("failed to build query: %w", err)
	}

	var lastTraded sql.NullTime
	if err := d.db.QueryRow(query, args...).Scan(&lastTraded); err != nil {
		return optional.None[time.Time](), errors.Wrap(errors.ErrCodeQueryFailed, "failed to query last traded date", err)
	}

	if !lastTraded.Valid {
		return optional.None[time.Time](), nil
	}

	return optional.Some(types.NormalizeSession(lastTraded.Time)), nil
}

// GetLabel implements BarReader.
func (d *DuckDBBarReader) GetLabel(instrument types.Instrument, session time.Time) (string, error) {
	_, found, err := d.getBar(instrument.Symbol, types.NormalizeSession(session))
	if err != nil || !found {
		return "", err
	}

	return instrument.Symbol, nil
}

// GetAllSymbols returns all distinct symbols of the bars relation.
func (d *DuckDBBarReader) GetAllSymbols() ([]string, error) {
	rows, err := d.db.Query(fmt.Sprintf("SELECT DISTINCT symbol FROM %s ORDER BY symbol", BarsTable))
	if err != nil {
		return nil, fmt.Errorf("failed to get symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}

		symbols = append(symbols, symbol)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating symbols: %w", err)
	}

	return symbols, nil
}

// Close closes the underlying database.
func (d *DuckDBBarReader) Close() error {
	if d.db != nil {
		return d.db.Close()
	}

	return nil
}

func (d *DuckDBBarReader) getBar(symbol string, session time.Time) (types.DailyBar, bool, error) {
	query, args, err := d.sq.
		Select(barColumns...).
		From(BarsTable).
		Where(squirrel.And{
			squirrel.Eq{"symbol": symbol},
			squirrel.Eq{"session": session},
		}).
		ToSql()
	if err != nil {
		return types.DailyBar{}, false, fmt.Errorf("failed to build query: %w", err)
	}

	bar, err := scanBar(d.db.QueryRow(query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.DailyBar{}, false, nil
		}

		return types.DailyBar{}, false, err
	}

	return bar, true, nil
}

func (d *DuckDBBarReader) symbolBounds(symbol string) (optional.Option[time.Time], optional.Option[time.Time], error) {
	query, args, err := d.sq.
		Select("MIN(session)", "MAX(session)").
		From(BarsTable).
		Where(squirrel.Eq{"symbol": symbol}).
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build query: %w", err)
	}

	var first, last sql.NullTime
	if err := d.db.QueryRow(query, args...).Scan(&first, &last); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query symbol bounds", err)
	}

	if !first.Valid || !last.Valid {
		return optional.None[time.Time](), optional.None[time.Time](), nil
	}

	return optional.Some(types.NormalizeSession(first.Time)), optional.Some(types.NormalizeSession(last.Time)), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBar(row scanner) (types.DailyBar, error) {
	var (
		session                                        time.Time
		symbol                                         string
		open, high, low, close, volume, openInterest sql.NullFloat64
	)

	if err := row.Scan(&session, &symbol, &open, &high, &low, &close, &volume, &openInterest); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.DailyBar{}, err
		}

		return types.DailyBar{}, fmt.Errorf("failed to scan row: %w", err)
	}

	return types.DailyBar{
		Id:           "",
		Symbol:       symbol,
		Session:      types.NormalizeSession(session),
		Open:         nullablePrice(open),
		High:         nullablePrice(high),
		Low:          nullablePrice(low),
		Close:        nullablePrice(close),
		Volume:       nullableCount(volume),
		OpenInterest: nullableCount(openInterest),
	}, nil
}

func nullablePrice(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}

	return v.Float64
}

func nullableCount(v sql.NullFloat64) float64 {
	if !v.Valid {
		return 0
	}

	return v.Float64
}
