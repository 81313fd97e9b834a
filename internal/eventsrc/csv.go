package eventsrc

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/arosling/casewatch/internal/contract"
	"github.com/arosling/casewatch/schema"
)

// CSVEventSource reads raw events from a flat CSV extract with the columns
// date,site,department,organism. A header row is detected and skipped.
type CSVEventSource struct {
	path string
}

var _ contract.EventSource = &CSVEventSource{} // Compile-time check

// NewCSVEventSource creates an event source backed by a CSV file.
func NewCSVEventSource(path string) *CSVEventSource {
	return &CSVEventSource{path: path}
}

// FetchEvents implements the EventSource interface. Rows outside
// [start, end] are skipped; a malformed date is a contract breach by the
// upstream extract and fails the whole fetch rather than producing
// silently wrong statistics.
func (s *CSVEventSource) FetchEvents(ctx context.Context, start, end time.Time) ([]schema.EventRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("cannot open events file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 4
	r.TrimLeadingSpace = true

	var events []schema.EventRecord
	line := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("events file %s: %w", s.path, err)
		}
		line++
		if line == 1 && isHeaderRow(record) {
			continue
		}

		date, err := time.ParseInLocation(schema.DateFormat, strings.TrimSpace(record[0]), time.UTC)
		if err != nil {
			return nil, fmt.Errorf("events file %s line %d: bad date %q: %w", s.path, line, record[0], err)
		}
		if date.Before(startDay(start)) || date.After(startDay(end)) {
			continue
		}

		events = append(events, schema.EventRecord{
			Date: date,
			Entity: schema.EntityKey{
				Site:       strings.TrimSpace(record[1]),
				Department: strings.TrimSpace(record[2]),
				Organism:   strings.TrimSpace(record[3]),
			}.Normalize(),
		})
	}
	return events, nil
}

// Describe implements the EventSource interface.
func (s *CSVEventSource) Describe() string {
	return fmt.Sprintf("csv events from %s", s.path)
}

// isHeaderRow reports whether a CSV row looks like a column header.
func isHeaderRow(record []string) bool {
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return first == "date" || first == "event_date"
}

func startDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
