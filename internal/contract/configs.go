package contract

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/arosling/casewatch/schema"
)

// Default values for configuration.
const (
	DefaultWindow      = 7
	DefaultResultLimit = 50
	MaxResultLimit     = 10000
	DefaultPrecision   = 2
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a run.
// This struct remains the "final, validated" config.
type Config struct {
	AsOf time.Time // injected "today"; the engine never reads the system clock

	BaselineStart time.Time
	BaselineEnd   time.Time
	CurrentStart  time.Time
	CurrentEnd    time.Time
	Window        int

	Workers     int
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	ExceptionsOnly bool

	Source         schema.SourceKind
	EventsFile     string
	EventBackend   schema.DatabaseBackend
	EventDBConnect string // Please use env var as this is plaintext
	EventTable     string

	RulesFile string

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	AsOf           string `mapstructure:"as-of"`
	BaselineStart  string `mapstructure:"baseline-start"`
	BaselineEnd    string `mapstructure:"baseline-end"`
	CurrentStart   string `mapstructure:"current-start"`
	CurrentEnd     string `mapstructure:"current-end"`
	Window         int    `mapstructure:"window"`
	Workers        int    `mapstructure:"workers"`
	Limit          int    `mapstructure:"limit"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Source         string `mapstructure:"source"`
	EventsFile     string `mapstructure:"events-file"`
	EventBackend   string `mapstructure:"event-backend"`
	EventDBConnect string `mapstructure:"event-db-connect"`
	EventTable     string `mapstructure:"event-table"`
	RulesFile      string `mapstructure:"rules-file"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	Emoji          string `mapstructure:"emoji"`
	Color          string `mapstructure:"color"`

	// --- Fields from monitorCmd.Flags() ---
	Exceptions bool `mapstructure:"exceptions"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// CloneWithCurrentWindow creates a copy of the Config with new current-period bounds.
func (c *Config) CloneWithCurrentWindow(start, end time.Time) *Config {
	clone := c.Clone()
	clone.CurrentStart = start
	clone.CurrentEnd = end
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput, asOf time.Time) error {
	cfg.AsOf = time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)

	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processPeriods(cfg, input); err != nil {
		return err
	}
	if err := processSource(cfg, input); err != nil {
		return err
	}
	return validateStoreBackend(cfg, input)
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Window < 1 {
		return fmt.Errorf("window must be at least 1 day, got %d", input.Window)
	}
	cfg.Window = input.Window

	if input.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Limit < 1 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 1 and %d, got %d", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Precision < 0 || input.Precision > 10 {
		return fmt.Errorf("precision must be between 0 and 10, got %d", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output mode '%s'. must be text, csv, json, parquet", input.Output)
	}
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.ExceptionsOnly = input.Exceptions
	cfg.RulesFile = input.RulesFile

	cfg.UseEmojis = parseSwitch(input.Emoji)
	cfg.UseColors = parseSwitch(input.Color)
	return nil
}

// processPeriods resolves the baseline and current period bounds.
// Sensible defaults: the current period is the trailing month ending at the
// as-of day, and the baseline is the twelve months before it.
func processPeriods(cfg *Config, input *ConfigRawInput) error {
	if input.AsOf != "" {
		asOf, err := ParseDay(input.AsOf, cfg.AsOf)
		if err != nil {
			return fmt.Errorf("invalid as-of date: %w", err)
		}
		cfg.AsOf = asOf
	}

	var err error
	if cfg.CurrentEnd, err = parseDayOrDefault(input.CurrentEnd, cfg.AsOf, cfg.AsOf); err != nil {
		return fmt.Errorf("invalid current-end: %w", err)
	}
	if cfg.CurrentStart, err = parseDayOrDefault(input.CurrentStart, cfg.CurrentEnd.AddDate(0, -1, 0).AddDate(0, 0, 1), cfg.AsOf); err != nil {
		return fmt.Errorf("invalid current-start: %w", err)
	}
	if cfg.BaselineEnd, err = parseDayOrDefault(input.BaselineEnd, cfg.CurrentStart.AddDate(0, 0, -1), cfg.AsOf); err != nil {
		return fmt.Errorf("invalid baseline-end: %w", err)
	}
	if cfg.BaselineStart, err = parseDayOrDefault(input.BaselineStart, cfg.BaselineEnd.AddDate(-1, 0, 0).AddDate(0, 0, 1), cfg.AsOf); err != nil {
		return fmt.Errorf("invalid baseline-start: %w", err)
	}

	if cfg.BaselineEnd.Before(cfg.BaselineStart) {
		return fmt.Errorf("baseline-end %s precedes baseline-start %s",
			cfg.BaselineEnd.Format(schema.DateFormat), cfg.BaselineStart.Format(schema.DateFormat))
	}
	if cfg.CurrentEnd.Before(cfg.CurrentStart) {
		return fmt.Errorf("current-end %s precedes current-start %s",
			cfg.CurrentEnd.Format(schema.DateFormat), cfg.CurrentStart.Format(schema.DateFormat))
	}
	if cfg.CurrentStart.Before(cfg.BaselineEnd) || cfg.CurrentStart.Equal(cfg.BaselineEnd) {
		return fmt.Errorf("current period must start after the baseline period ends (%s <= %s)",
			cfg.CurrentStart.Format(schema.DateFormat), cfg.BaselineEnd.Format(schema.DateFormat))
	}
	return nil
}

// processSource validates the event source configuration.
func processSource(cfg *Config, input *ConfigRawInput) error {
	cfg.Source = schema.SourceKind(strings.ToLower(input.Source))
	if _, ok := schema.ValidSourceKinds[cfg.Source]; !ok {
		return fmt.Errorf("invalid source '%s'. must be csv or database", input.Source)
	}

	switch cfg.Source {
	case schema.CSVSource:
		if input.EventsFile == "" {
			return fmt.Errorf("events-file is required when source is csv")
		}
		cfg.EventsFile = input.EventsFile

	case schema.DatabaseSource:
		cfg.EventBackend = schema.DatabaseBackend(strings.ToLower(input.EventBackend))
		if _, ok := schema.ValidDatabaseBackends[cfg.EventBackend]; !ok || cfg.EventBackend == schema.NoneBackend {
			return fmt.Errorf("invalid event backend '%s'. must be sqlite, mysql, postgresql", input.EventBackend)
		}
		if err := ValidateDatabaseConnectionString(cfg.EventBackend, input.EventDBConnect); err != nil {
			return fmt.Errorf("event-db-connect: %w", err)
		}
		cfg.EventDBConnect = input.EventDBConnect
		cfg.EventTable = input.EventTable
		if cfg.EventTable == "" {
			cfg.EventTable = "surveillance_events"
		}
	}
	return nil
}

// validateStoreBackend validates the run store configuration.
func validateStoreBackend(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = schema.NoneBackend
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, input.StoreDBConnect); err != nil {
		return fmt.Errorf("store-db-connect: %w", err)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "://") && !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must be a URL or contain 'host=' parameter")
		}
	}
	return nil
}

// ProcessProfilingConfig validates and applies the profiling prefix.
func ProcessProfilingConfig(profile *ProfileConfig, prefix string) error {
	if prefix == "" {
		profile.Enabled = false
		return nil
	}
	if strings.ContainsAny(prefix, " \t") {
		return fmt.Errorf("profile prefix must not contain whitespace: %q", prefix)
	}
	profile.Enabled = true
	profile.Prefix = prefix
	return nil
}

// parseDayOrDefault parses s as a day, or returns def when s is empty.
func parseDayOrDefault(s string, def, asOf time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	return ParseDay(s, asOf)
}

// parseSwitch interprets yes/no style flag values.
func parseSwitch(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "on", "":
		return true
	default:
		return false
	}
}
