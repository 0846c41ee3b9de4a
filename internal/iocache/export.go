package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/internal/parquet"
)

// ExecuteRunExport exports the stored runs and evidence of store to two Parquet files
// named after outputFile.
func ExecuteRunExport(w io.Writer, store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run history is not enabled")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total evidence items: %d\n", status.TotalEvidenceItems)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	evidence, err := store.GetAllEvidence()
	if err != nil {
		return fmt.Errorf("failed to retrieve evidence: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	runRows := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunsParquet(runRows, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runRows), runsFile)

	evidenceFile := outputFile + ".evidence.parquet"
	evidenceRows := parquet.ConvertEvidenceRecords(evidence)
	if err := parquet.WriteEvidenceParquet(evidenceRows, evidenceFile); err != nil {
		return fmt.Errorf("failed to write evidence: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d evidence items to: %s\n", len(evidenceRows), evidenceFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with DuckDB, pandas (via pyarrow), Apache Spark or Apache Arrow.")
	return nil
}
