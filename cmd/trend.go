package cmd

import (
	"github.com/arosling/casewatch/core"
	"github.com/arosling/casewatch/internal/contract"
	"github.com/spf13/cobra"
)

// trendCmd computes trailing rolling averages per entity.
var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Compute trailing rolling averages over each entity's daily series.",
	Long: `Smooth each tracked entity's zero-filled daily series with a trailing
rolling average for visual trend inspection.

The window is truncated at the start of the period, so the first days
average over however many days exist rather than being dropped. Because
the series is zero-filled first, quiet days pull averages down the way a
reader of the raw data would expect.

Examples:
  # Default 7-day window over the trailing month
  casewatch trend --events-file events.csv

  # 28-day window over a quarter
  casewatch trend --events-file events.csv --window 28 \
    --current-start 2025-01-01 --current-end 2025-03-31`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTrend(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run trend analysis", err)
		}
	},
}
