package runstore

import (
	"errors"
	"fmt"

	"github.com/arosling/casewatch/internal/parquet"
)

// ExecuteRunExport performs the actual export of stored run data to Parquet files.
func ExecuteRunExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetRunStore()

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run store status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total classified observations: %d\n", status.TotalObservations)
	fmt.Printf("Total resolved breaches: %d\n", status.TotalBreaches)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	classified, err := store.GetAllClassified()
	if err != nil {
		return fmt.Errorf("failed to retrieve classified observations: %w", err)
	}
	breaches, err := store.GetAllBreaches()
	if err != nil {
		return fmt.Errorf("failed to retrieve breaches: %w", err)
	}

	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetClassified := parquet.ConvertClassifiedRecords(classified)
	parquetBreaches := parquet.ConvertBreachRecords(breaches)

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	classifiedFile := outputFile + ".classified.parquet"
	if err := parquet.WriteClassifiedParquet(parquetClassified, classifiedFile); err != nil {
		return fmt.Errorf("failed to write classified observations: %w", err)
	}
	fmt.Printf("Exported %d classified observations to: %s\n", len(parquetClassified), classifiedFile)

	breachesFile := outputFile + ".breaches.parquet"
	if err := parquet.WriteBreachesParquet(parquetBreaches, breachesFile); err != nil {
		return fmt.Errorf("failed to write breaches: %w", err)
	}
	fmt.Printf("Exported %d resolved breaches to: %s\n", len(parquetBreaches), breachesFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
