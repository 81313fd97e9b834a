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

// PrintTrendResults outputs the rolling-average results, dispatching based
// on the output format configured.
func PrintTrendResults(result *schema.TrendResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision, "n/a")

	switch cfg.Output {
	case schema.JSONOut:
		if err := printTrendJSONResults(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printTrendCSVResults(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := printTrendParquetResults(result, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTrendTable(result, cfg, fmtFloat, duration, w)
		}, "Wrote trend table")
	}
	return nil
}

// printTrendJSONResults handles opening the file and calling the JSON writer.
func printTrendJSONResults(result *schema.TrendResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, result)
	}, "Wrote JSON trend results")
}

// printTrendCSVResults handles opening the file and calling the CSV writer.
func printTrendCSVResults(result *schema.TrendResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForTrend(csvWriter, result, fmtFloat)
	}, "Wrote CSV trend results")
}

// printTrendParquetResults writes the trend points as a Parquet file.
func printTrendParquetResults(result *schema.TrendResult, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}
	data := parquet.ConvertTrendPoints(result.Points)
	if err := parquet.WriteTrendParquet(data, cfg.OutputFile); err != nil {
		return err
	}
	fmt.Printf("💾 Wrote %d trend points to %s\n", len(data), cfg.OutputFile)
	return nil
}

// writeTrendTable generates and writes the human-readable table.
func writeTrendTable(result *schema.TrendResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Date", "Entity", "Count", "Average", "Window"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	display, truncated := limitRows(result.Points, cfg.ResultLimit)
	var data [][]string
	for _, p := range display {
		row := []string{
			p.Date.Format(schema.DateFormat),
			contract.TruncateEntity(p.Entity.String(), GetMaxTableEntityWidth(cfg)),
			strconv.Itoa(p.Count),
			fmtFloat(p.Average),
			strconv.Itoa(p.WindowDays),
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
		if _, err := fmt.Fprintf(writer, "Showing first %d of %d rows (raise --limit to see more)\n", len(display), len(result.Points)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Rolling %d-day averages for %s to %s\n", result.Window,
		result.Start.Format(schema.DateFormat), result.End.Format(schema.DateFormat)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Trend analysis completed in %v with %d workers.\n", duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForTrend writes the trend points in CSV format.
func writeCSVResultsForTrend(w *csv.Writer, result *schema.TrendResult, fmtFloat func(float64) string) error {
	header := []string{
		"date",
		"site",
		"department",
		"organism",
		"case_count",
		"rolling_average",
		"window_days",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, p := range result.Points {
		rec := []string{
			p.Date.Format(schema.DateFormat),
			p.Entity.Site,
			p.Entity.Department,
			p.Entity.Organism,
			strconv.Itoa(p.Count),
			fmtFloat(p.Average),
			strconv.Itoa(p.WindowDays),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
