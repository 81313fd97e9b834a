package eventsrc

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/arosling/casewatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSQLiteEvents creates a throwaway SQLite event store seeded with the
// given (date, site, department, organism) rows.
func newSQLiteEvents(t *testing.T, rows [][4]string) *SQLEventSource {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.db")

	source, err := NewSQLEventSource(schema.SQLiteBackend, path, "surveillance_events")
	require.NoError(t, err)
	t.Cleanup(func() { _ = source.Close() })

	_, err = source.db.Exec(`CREATE TABLE surveillance_events (
		event_date TEXT NOT NULL,
		site TEXT,
		department TEXT,
		organism TEXT
	)`)
	require.NoError(t, err)

	for _, row := range rows {
		_, err = source.db.Exec(
			"INSERT INTO surveillance_events (event_date, site, department, organism) VALUES (?, ?, ?, ?)",
			row[0], row[1], row[2], row[3])
		require.NoError(t, err)
	}
	return source
}

// TestSQLEventSourceFetchEvents round-trips events through a real SQLite
// table, covering the date window and normalization.
func TestSQLEventSourceFetchEvents(t *testing.T) {
	source := newSQLiteEvents(t, [][4]string{
		{"2025-01-05", "central", "icu", "mrsa"},
		{"2025-01-06", "north", "", "cdiff"},
		{"2024-12-31", "central", "icu", "mrsa"},
	})

	events, err := source.FetchEvents(context.Background(),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, events, 2, "rows before the window must be excluded")
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), events[0].Date)
	assert.Equal(t, schema.EntityKey{Site: "central", Department: "icu", Organism: "mrsa"}, events[0].Entity)
	assert.Equal(t, schema.UnknownValue, events[1].Entity.Department)
}

// TestSQLEventSourceMissingTable verifies a query against a missing table
// surfaces as an error.
func TestSQLEventSourceMissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	source, err := NewSQLEventSource(schema.SQLiteBackend, path, "surveillance_events")
	require.NoError(t, err)
	defer func() { _ = source.Close() }()

	_, err = source.FetchEvents(context.Background(),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	assert.ErrorContains(t, err, "event query failed")
}

// TestSQLEventSourceUnsupportedBackend verifies backend validation.
func TestSQLEventSourceUnsupportedBackend(t *testing.T) {
	_, err := NewSQLEventSource(schema.NoneBackend, "", "surveillance_events")
	assert.ErrorContains(t, err, "unsupported event backend")
}

// TestSQLEventSourceDescribe verifies the source description names the
// backend and table.
func TestSQLEventSourceDescribe(t *testing.T) {
	source := &SQLEventSource{backend: schema.PostgreSQLBackend, table: "surveillance_events"}
	assert.Equal(t, "postgresql table surveillance_events", source.Describe())

	assert.Equal(t, "$1", source.placeholder(1))
	assert.Equal(t, "?", (&SQLEventSource{backend: schema.MySQLBackend}).placeholder(1))
}
