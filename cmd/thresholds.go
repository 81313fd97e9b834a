package cmd

import (
	"github.com/arosling/casewatch/core"
	"github.com/arosling/casewatch/internal/contract"
	"github.com/spf13/cobra"
)

// thresholdsCmd resolves monthly aggregates against the rule catalog.
var thresholdsCmd = &cobra.Command{
	Use:   "thresholds",
	Short: "Resolve monthly case counts against the threshold-rule catalog.",
	Long: `Aggregate the current period's case counts per calendar month and entity,
then resolve each aggregate against the externally supplied rule catalog.

Rules are scoped by organism and optionally by department, and carry
effective-from/effective-to dates matched against the start of each
period. When several rules apply, department-specific rules beat
organism-wide ones and later effective dates beat earlier ones. Rules may
carry optional amber and red tiers above the base monthly threshold.

Examples:
  # Resolve the trailing month against the catalog
  casewatch thresholds --events-file events.csv --rules-file rules.csv

  # A specific quarter
  casewatch thresholds --events-file events.csv --rules-file rules.csv \
    --current-start 2025-01-01 --current-end 2025-03-31

  # JSON for downstream alerting
  casewatch thresholds --events-file events.csv --rules-file rules.csv --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteThresholds(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run threshold resolution", err)
		}
	},
}
