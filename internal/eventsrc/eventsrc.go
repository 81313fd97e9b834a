// Package eventsrc has event-store and rule-catalog readers for casewatch.
//
// The engine treats the event store as an external collaborator reached
// only through the contract.EventSource interface; this package provides
// the two concrete readers: flat CSV extracts and SQL tables over the
// sqlite, mysql and postgresql backends.
package eventsrc

import (
	"fmt"
	"io"

	"github.com/arosling/casewatch/internal/contract"
	"github.com/arosling/casewatch/schema"
)

// NewEventSource builds the event source selected by the configuration.
func NewEventSource(cfg *contract.Config) (contract.EventSource, error) {
	switch cfg.Source {
	case schema.CSVSource:
		return NewCSVEventSource(cfg.EventsFile), nil
	case schema.DatabaseSource:
		return NewSQLEventSource(cfg.EventBackend, cfg.EventDBConnect, cfg.EventTable)
	default:
		return nil, fmt.Errorf("unsupported event source kind: %s", cfg.Source)
	}
}

// CloseSource closes sources that hold connections, such as the SQL reader.
func CloseSource(source contract.EventSource) {
	if closer, ok := source.(io.Closer); ok {
		_ = closer.Close()
	}
}
