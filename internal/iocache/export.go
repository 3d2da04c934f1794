package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/internal/parquet"
)

// ExecuteHistoryExport exports the global history store to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("history store is not initialized")
	}
	files, err := ExportHistory(store, outputFile)
	if err != nil {
		return err
	}

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - Apache Spark")
	for _, f := range files {
		fmt.Printf("  %s\n", f)
	}
	return nil
}

// ExportHistory writes runs, ranked actors and searches to three Parquet files
// prefixed by outputFile and returns their paths.
func ExportHistory(store contract.HistoryStore, outputFile string) ([]string, error) {
	if outputFile == "" {
		return nil, errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return nil, errors.New("no run history found to export")
	}
	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)

	runs, err := store.GetAllRuns()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve runs: %w", err)
	}
	actors, err := store.GetAllRankedActors()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve ranked actors: %w", err)
	}
	searches, err := store.GetAllSearches()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve searches: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return nil, fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	actorsFile := outputFile + ".ranked_actors.parquet"
	if err := parquet.WriteRankedActorsParquet(parquet.ConvertRankedActorRecords(actors), actorsFile); err != nil {
		return nil, fmt.Errorf("failed to write ranked actors: %w", err)
	}
	fmt.Printf("Exported %d ranked actors to: %s\n", len(actors), actorsFile)

	searchesFile := outputFile + ".searches.parquet"
	if err := parquet.WriteSearchesParquet(parquet.ConvertSearchRecords(searches), searchesFile); err != nil {
		return nil, fmt.Errorf("failed to write searches: %w", err)
	}
	fmt.Printf("Exported %d searches to: %s\n", len(searches), searchesFile)

	return []string{runsFile, actorsFile, searchesFile}, nil
}
