// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/arosling/casewatch/internal/contract"
	"github.com/arosling/casewatch/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteMonitor prints monitoring results using the configured output format.
func (ow *OutWriter) WriteMonitor(result *schema.MonitorResult, cfg *contract.Config, duration time.Duration) error {
	return PrintMonitorResults(result, cfg, duration)
}

// WriteBreaches prints threshold-resolution results using the configured output format.
func (ow *OutWriter) WriteBreaches(result *schema.BreachResult, cfg *contract.Config, duration time.Duration) error {
	return PrintBreachResults(result, cfg, duration)
}

// WriteTrend prints rolling-average results using the configured output format.
func (ow *OutWriter) WriteTrend(result *schema.TrendResult, cfg *contract.Config, duration time.Duration) error {
	return PrintTrendResults(result, cfg, duration)
}

// GetMaxTableEntityWidth calculates the maximum width for entity strings in
// table output based on terminal width and table configuration.
func GetMaxTableEntityWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns: date, count, the four limit
	// columns and the label, plus borders and padding.
	baseWidth := 60

	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable entity width
		return 15
	}
	if available > 60 {
		// Maximum entity width to prevent overly long rows
		return 60
	}
	return available
}
