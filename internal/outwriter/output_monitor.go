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

// PrintMonitorResults outputs the monitoring results, dispatching based on the output format configured.
func PrintMonitorResults(result *schema.MonitorResult, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	_, fmtOptFloat := createFormatters(cfg.Precision, "n/a")

	rows := result.Classified
	if cfg.ExceptionsOnly {
		rows = result.Exceptions()
	}

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printMonitorJSONResults(result, rows, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printMonitorCSVResults(rows, cfg, fmtOptFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := printMonitorParquetResults(rows, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMonitorTable(result, rows, cfg, fmtOptFloat, duration, w)
		}, "Wrote monitoring table")
	}
	return nil
}

// printMonitorJSONResults handles opening the file and calling the JSON writer.
func printMonitorJSONResults(result *schema.MonitorResult, rows []schema.ClassifiedObservation, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForMonitor(w, result, rows)
	}, "Wrote JSON monitoring results")
}

// printMonitorCSVResults handles opening the file and calling the CSV writer.
func printMonitorCSVResults(rows []schema.ClassifiedObservation, cfg *contract.Config, fmtOptFloat func(*float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForMonitor(csvWriter, rows, fmtOptFloat)
	}, "Wrote CSV monitoring results")
}

// printMonitorParquetResults writes the classified rows as a Parquet file.
// Parquet output always needs an explicit output file.
func printMonitorParquetResults(rows []schema.ClassifiedObservation, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}
	data := parquet.ConvertClassifiedObservations(rows)
	if err := parquet.WriteClassifiedParquet(data, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Printf("💾 Wrote %d classified observations to %s\n", len(data), cfg.OutputFile)
	return nil
}

// writeMonitorTable generates and writes the human-readable table.
func writeMonitorTable(result *schema.MonitorResult, rows []schema.ClassifiedObservation, cfg *contract.Config, fmtOptFloat func(*float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Date", "Entity", "Count", "Mean", "UWL", "UCL", "Label"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	display, truncated := limitRows(rows, cfg.ResultLimit)
	var data [][]string
	for _, c := range display {
		row := []string{
			c.Date.Format(schema.DateFormat),
			contract.TruncateEntity(c.Entity.String(), GetMaxTableEntityWidth(cfg)),
			strconv.Itoa(c.Count),
			fmtOptFloat(c.BaselineMean),
			fmtOptFloat(c.UpperWarningLimit),
			fmtOptFloat(c.UpperControlLimit),
			contract.ColorLabel(c.Label),
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
	exceptions := result.Exceptions()
	if _, err := fmt.Fprintf(writer, "Baseline %s to %s, current %s to %s: %d entities, %d exceptions\n",
		result.BaselineStart.Format(schema.DateFormat), result.BaselineEnd.Format(schema.DateFormat),
		result.CurrentStart.Format(schema.DateFormat), result.CurrentEnd.Format(schema.DateFormat),
		len(result.Baselines), len(exceptions)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Monitoring completed in %v with %d workers. Store backend: %s\n", duration, cfg.Workers, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForMonitor writes the classified rows in CSV format.
func writeCSVResultsForMonitor(w *csv.Writer, rows []schema.ClassifiedObservation, fmtOptFloat func(*float64) string) error {
	header := []string{
		"date",
		"site",
		"department",
		"organism",
		"case_count",
		"baseline_mean",
		"baseline_std_dev",
		"upper_warning_limit",
		"upper_control_limit",
		"label",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, c := range rows {
		rec := []string{
			c.Date.Format(schema.DateFormat),
			c.Entity.Site,
			c.Entity.Department,
			c.Entity.Organism,
			strconv.Itoa(c.Count),
			fmtOptFloat(c.BaselineMean),
			fmtOptFloat(c.BaselineStdDev),
			fmtOptFloat(c.UpperWarningLimit),
			fmtOptFloat(c.UpperControlLimit),
			string(c.Label),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForMonitor writes the monitoring results in JSON format.
// The classified rows reflect any exceptions-only filtering.
func writeJSONResultsForMonitor(w io.Writer, result *schema.MonitorResult, rows []schema.ClassifiedObservation) error {
	output := schema.MonitorResult{
		BaselineStart: result.BaselineStart,
		BaselineEnd:   result.BaselineEnd,
		CurrentStart:  result.CurrentStart,
		CurrentEnd:    result.CurrentEnd,
		Baselines:     result.Baselines,
		Classified:    rows,
	}
	return writeJSON(w, output)
}
