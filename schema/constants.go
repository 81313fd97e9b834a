package schema

// Custom string types for type safety.
type (
	// Label classifies one monitored day against its statistical limits.
	Label string

	// Severity classifies one period aggregate against its resolved rule.
	Severity string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents a SQL backend for the event source or run store.
	DatabaseBackend string

	// SourceKind represents where raw events and rule catalogs are read from.
	SourceKind string
)

// Statistical breach labels, one per classified day.
const (
	NoBaselineLabel    Label = "no baseline available"
	ControlBreachLabel Label = "control limit breached"
	WarningBreachLabel Label = "warning limit breached"
	WithinLabel        Label = "within expected variation"
)

// Threshold severities, one per resolved period aggregate.
const (
	RedSeverity         Severity = "Red"
	AmberSeverity       Severity = "Amber"
	BreachSeverity      Severity = "Breach"
	WithinSeverity      Severity = "Within limits"
	NoThresholdSeverity Severity = "no threshold available"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All event source kinds supported.
const (
	CSVSource      SourceKind = "csv" // default
	DatabaseSource SourceKind = "database"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSourceKinds lists all valid event source kinds.
var ValidSourceKinds = map[SourceKind]struct{}{
	CSVSource:      {},
	DatabaseSource: {},
}
