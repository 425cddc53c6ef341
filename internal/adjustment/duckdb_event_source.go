package adjustment

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-history/internal/logger"
	"github.com/rxtech-lab/argo-history/pkg/errors"
	"go.uber.org/zap"
)

var eventTables = map[EventKind]string{
	EventSplit:    "splits",
	EventMerger:   "mergers",
	EventDividend: "dividends",
}

// DuckDBEventSource reads corporate actions from the splits, mergers and
// dividends tables of a DuckDB database. Each table has the columns
// symbol, effective_date and ratio.
type DuckDBEventSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBEventSource opens the database at path; an empty path opens an in-memory database.
func NewDuckDBEventSource(path string, logger *logger.Logger) (*DuckDBEventSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open events database", err)
	}

	return NewDuckDBEventSourceFromDB(db, logger), nil
}

// NewDuckDBEventSourceFromDB wraps an already opened database.
func NewDuckDBEventSourceFromDB(db *sql.DB, logger *logger.Logger) *DuckDBEventSource {
	return &DuckDBEventSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Initialize creates the event tables if they do not exist.
func (s *DuckDBEventSource) Initialize() error {
	for _, kind := range EventKinds {
		query := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				symbol VARCHAR NOT NULL,
				effective_date DATE NOT NULL,
				ratio DOUBLE NOT NULL
			);
		`, eventTables[kind])

		if _, err := s.db.Exec(query); err != nil {
			return errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to create %s table", eventTables[kind])
		}
	}

	return nil
}

// AddEvents inserts events of one kind for symbol.
func (s *DuckDBEventSource) AddEvents(symbol string, kind EventKind, events ...Event) error {
	table, ok := eventTables[kind]
	if !ok {
		return errors.Newf(errors.ErrCodeInvalidParameter, "unknown event kind %q", kind)
	}

	if len(events) == 0 {
		return nil
	}

	insert := s.sq.Insert(table).Columns("symbol", "effective_date", "ratio")
	for _, event := range events {
		insert = insert.Values(symbol, event.EffectiveDate, event.Ratio)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := s.db.Exec(query, args...); err != nil {
		return errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to insert into %s", table)
	}

	return nil
}

// GetAdjustmentsFor implements EventSource.
func (s *DuckDBEventSource) GetAdjustmentsFor(symbol string, kind EventKind) ([]Event, error) {
	table, ok := eventTables[kind]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unknown event kind %q", kind)
	}

	query, args, err := s.sq.
		Select("effective_date", "ratio").
		From(table).
		Where(squirrel.Eq{"symbol": symbol}).
		OrderBy("effective_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to query %s", table)
	}
	defer rows.Close()

	var events []Event

	for rows.Next() {
		var (
			effectiveDate time.Time
			ratio         float64
		)

		if err := rows.Scan(&effectiveDate, &ratio); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		events = append(events, Event{EffectiveDate: effectiveDate, Ratio: ratio})
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	s.logger.Debug("Loaded corporate actions",
		zap.String("symbol", symbol),
		zap.String("kind", string(kind)),
		zap.Int("count", len(events)),
	)

	return events, nil
}

// Close closes the underlying database.
func (s *DuckDBEventSource) Close() error {
	return s.db.Close()
}
