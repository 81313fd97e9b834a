package eventsrc

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arosling/casewatch/internal/contract"
	"github.com/arosling/casewatch/schema"

	// Database drivers for the supported event-store backends.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// SQLEventSource reads raw events from a SQL table with the columns
// event_date (DATE or ISO text), site, department and organism.
type SQLEventSource struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	table   string
}

var _ contract.EventSource = &SQLEventSource{} // Compile-time check

// NewSQLEventSource opens a connection to the configured event store.
func NewSQLEventSource(backend schema.DatabaseBackend, connStr, table string) (*SQLEventSource, error) {
	var driverName string
	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
	case schema.MySQLBackend:
		driverName = "mysql"
	case schema.PostgreSQLBackend:
		driverName = "pgx"
	default:
		return nil, fmt.Errorf("unsupported event backend: %s", backend)
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s event store: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cannot reach %s event store: %w", backend, err)
	}

	return &SQLEventSource{db: db, backend: backend, table: table}, nil
}

// FetchEvents implements the EventSource interface.
func (s *SQLEventSource) FetchEvents(ctx context.Context, start, end time.Time) ([]schema.EventRecord, error) {
	query := fmt.Sprintf(
		"SELECT event_date, site, department, organism FROM %s WHERE event_date >= %s AND event_date <= %s",
		s.table, s.placeholder(1), s.placeholder(2))

	rows, err := s.db.QueryContext(ctx, query,
		start.Format(schema.DateFormat), end.Format(schema.DateFormat))
	if err != nil {
		return nil, fmt.Errorf("event query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []schema.EventRecord
	for rows.Next() {
		var rawDate any
		var site, department, organism sql.NullString
		if err := rows.Scan(&rawDate, &site, &department, &organism); err != nil {
			return nil, fmt.Errorf("event row scan failed: %w", err)
		}
		date, err := coerceDate(rawDate)
		if err != nil {
			return nil, fmt.Errorf("event row has bad date: %w", err)
		}
		events = append(events, schema.EventRecord{
			Date: date,
			Entity: schema.EntityKey{
				Site:       site.String,
				Department: department.String,
				Organism:   organism.String,
			}.Normalize(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("event row iteration failed: %w", err)
	}
	return events, nil
}

// Describe implements the EventSource interface.
func (s *SQLEventSource) Describe() string {
	return fmt.Sprintf("%s table %s", s.backend, s.table)
}

// Close closes the underlying connection.
func (s *SQLEventSource) Close() error {
	return s.db.Close()
}

// placeholder returns the positional query placeholder for the backend.
func (s *SQLEventSource) placeholder(n int) string {
	if s.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// coerceDate normalizes driver-specific date representations: pgx returns
// time.Time for DATE columns, mysql returns []byte, sqlite returns text.
func coerceDate(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC), nil
	case []byte:
		return parseDayString(string(v))
	case string:
		return parseDayString(v)
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %T", raw)
	}
}

func parseDayString(s string) (time.Time, error) {
	if len(s) > len(schema.DateFormat) {
		s = s[:len(schema.DateFormat)]
	}
	return time.ParseInLocation(schema.DateFormat, s, time.UTC)
}
