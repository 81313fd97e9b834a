package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/arosling/casewatch/internal/contract"
	"github.com/arosling/casewatch/internal/parquet"
	"github.com/arosling/casewatch/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintBreachResults outputs the threshold-resolution results, dispatching
// based on the output format configured.
func PrintBreachResults(result *schema.BreachResult, cfg *contract.Config, duration time.Duration) error {
	rows := result.Breaches
	if cfg.ExceptionsOnly {
		rows = breachedOnly(rows)
	}

	switch cfg.Output {
	case schema.JSONOut:
		if err := printBreachJSONResults(rows, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printBreachCSVResults(rows, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := printBreachParquetResults(rows, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBreachTable(rows, cfg, duration, w)
		}, "Wrote breach table")
	}
	return nil
}

// breachedOnly keeps the rows an analyst has to act on: everything at or
// above the base threshold of its rule.
func breachedOnly(rows []schema.ResolvedBreach) []schema.ResolvedBreach {
	out := make([]schema.ResolvedBreach, 0)
	for _, b := range rows {
		if b.Breached {
			out = append(out, b)
		}
	}
	return out
}

// printBreachJSONResults handles opening the file and calling the JSON writer.
func printBreachJSONResults(rows []schema.ResolvedBreach, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, schema.BreachResult{Breaches: rows})
	}, "Wrote JSON breach results")
}

// printBreachCSVResults handles opening the file and calling the CSV writer.
func printBreachCSVResults(rows []schema.ResolvedBreach, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForBreaches(csvWriter, rows)
	}, "Wrote CSV breach results")
}

// printBreachParquetResults writes the resolved breaches as a Parquet file.
func printBreachParquetResults(rows []schema.ResolvedBreach, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}
	data := parquet.ConvertResolvedBreaches(rows)
	if err := parquet.WriteBreachesParquet(data, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Printf("💾 Wrote %d resolved breaches to %s\n", len(data), cfg.OutputFile)
	return nil
}

// writeBreachTable generates and writes the human-readable table.
func writeBreachTable(rows []schema.ResolvedBreach, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Period", "Entity", "Count", "Rule", "Threshold", "Severity"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	display, truncated := limitRows(rows, cfg.ResultLimit)
	var data [][]string
	for _, b := range display {
		ruleStr, thresholdStr := "n/a", "n/a"
		if b.Rule != nil {
			ruleStr = strconv.Itoa(b.Rule.ID)
			thresholdStr = strconv.Itoa(b.Rule.MonthlyCaseThreshold)
		}
		row := []string{
			b.Period,
			contract.TruncateEntity(b.Entity.String(), GetMaxTableEntityWidth(cfg)),
			strconv.Itoa(b.Count),
			ruleStr,
			thresholdStr,
			contract.ColorSeverity(b.Severity),
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if truncated {
		if _, err := fmt.Fprintf(writer, "Showing first %d of %d rows (raise --limit to see more)\n", len(display), len(rows)); err != nil {
			return err
		}
	}
	breached := breachedOnly(rows)
	if _, err := fmt.Fprintf(writer, "Resolved %d period aggregates, %d breached\n", len(rows), len(breached)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Threshold resolution completed in %v. Store backend: %s\n", duration, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForBreaches writes the resolved breaches in CSV format.
func writeCSVResultsForBreaches(w *csv.Writer, rows []schema.ResolvedBreach) error {
	header := []string{
		"period",
		"site",
		"department",
		"organism",
		"case_count",
		"rule_id",
		"monthly_threshold",
		"severity",
		"breached",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, b := range rows {
		ruleID, threshold := "", ""
		if b.Rule != nil {
			ruleID = strconv.Itoa(b.Rule.ID)
			threshold = strconv.Itoa(b.Rule.MonthlyCaseThreshold)
		}
		rec := []string{
			b.Period,
			b.Entity.Site,
			b.Entity.Department,
			b.Entity.Organism,
			strconv.Itoa(b.Count),
			ruleID,
			threshold,
			string(b.Severity),
			strconv.FormatBool(b.Breached),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
