package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/germtrack/internal/contract"
	"github.com/huangsam/germtrack/internal/parquet"
)

// ErrNoHistory is returned when an export finds no recorded runs.
var ErrNoHistory = errors.New("no analysis history found to export")

// ExecuteHistoryExport writes every recorded run and replicate row to Parquet files
// named after outputFile, reporting progress to w.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return ErrNoHistory
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total analysis runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total replicate records: %d\n", status.TableSizes[replicateParametersTable])

	runs, err := store.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}
	replicates, err := store.GetAllReplicateRecords()
	if err != nil {
		return fmt.Errorf("failed to retrieve replicate records: %w", err)
	}

	parquetRuns := parquet.ConvertAnalysisRunRecords(runs)
	parquetReplicates := parquet.ConvertReplicateRecords(replicates)

	runsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d analysis runs to: %s\n", len(parquetRuns), runsFile)

	replicatesFile := outputFile + ".replicate_parameters.parquet"
	if err := parquet.WriteReplicateParametersParquet(parquetReplicates, replicatesFile); err != nil {
		return fmt.Errorf("failed to write replicate parameters: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d replicate records to: %s\n", len(parquetReplicates), replicatesFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with:")
	_, _ = fmt.Fprintln(w, "  - Pandas (via pyarrow)")
	_, _ = fmt.Fprintln(w, "  - R (via arrow)")
	_, _ = fmt.Fprintln(w, "  - DuckDB")
	_, _ = fmt.Fprintln(w, "  - Any other Parquet-compatible tool")
	return nil
}
