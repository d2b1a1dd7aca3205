package outwriter

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/huangsam/germtrack/internal/contract"
	"github.com/huangsam/germtrack/internal/parquet"
	"github.com/huangsam/germtrack/schema"
)

// ErrCSVBundle is returned when the full analysis bundle is requested as CSV.
var ErrCSVBundle = errors.New("csv output is not supported for the full analysis; use parameters, curves or correlation")

// PrintAnalysisResults outputs the full analysis bundle, dispatching based on the output format configured.
func PrintAnalysisResults(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, schema.RenderResult(result))
		}, "Wrote JSON")
	case schema.CSVOut:
		return ErrCSVBundle
	case schema.ParquetOut:
		return writeAnalysisParquet(result, cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisText(w, result, cfg, duration)
		}, "Wrote text")
	}
}

// writeAnalysisParquet writes one Parquet file per table, using the output file as prefix.
func writeAnalysisParquet(result *schema.AnalysisResult, cfg *contract.Config) error {
	now := time.Now()
	parametersFile := cfg.OutputFile + ".parameters.parquet"
	curvesFile := cfg.OutputFile + ".curves.parquet"
	correlationsFile := cfg.OutputFile + ".correlations.parquet"

	if err := writeWithFile(parametersFile, func(w io.Writer) error {
		return parquet.Write(w, parquet.ConvertParameterSets(0, now, result.AllParameterSets()))
	}, "Wrote Parquet"); err != nil {
		return fmt.Errorf("failed to write parameters: %w", err)
	}
	if err := writeWithFile(curvesFile, func(w io.Writer) error {
		return parquet.Write(w, parquet.ConvertTreatmentCurves(result.Treatments))
	}, "Wrote Parquet"); err != nil {
		return fmt.Errorf("failed to write curves: %w", err)
	}
	if err := writeWithFile(correlationsFile, func(w io.Writer) error {
		return parquet.Write(w, parquet.ConvertCorrelations(result.Correlations))
	}, "Wrote Parquet"); err != nil {
		return fmt.Errorf("failed to write correlations: %w", err)
	}
	return nil
}

// writeAnalysisText prints the treatment summaries, correlations and failures.
func writeAnalysisText(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtCell := createFormatters(cfg)

	for _, tr := range result.Treatments {
		if err := writeTreatmentHeader(w, tr, fmtFloat, cfg.UseColors); err != nil {
			return err
		}
		var rows [][]string
		for _, name := range schema.AllParameters {
			stat, ok := tr.Summary.Parameter(name)
			if !ok {
				continue
			}
			rows = append(rows, []string{
				schema.ParameterLabels[name],
				fmtCell(stat.Mean),
				fmtCell(stat.StdDev),
				fmt.Sprintf("%d", stat.Count),
			})
		}
		if err := renderTable(w, []string{"Index", "Mean", "SD", "N"}, rows); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	for _, m := range result.Correlations {
		if err := writeCorrelationMatrixText(w, m, fmtCell); err != nil {
			return err
		}
	}

	if err := writeFailuresText(w, result.Failures); err != nil {
		return err
	}
	return writeRunFooter(w, result, cfg, duration)
}

// writeTreatmentHeader prints the one-line banner above a treatment's tables.
func writeTreatmentHeader(w io.Writer, tr schema.TreatmentResult, fmtFloat func(float64) string, useColors bool) error {
	mean := math.NaN()
	if stat, ok := tr.Summary.Parameter(schema.GerminabilityParam); ok {
		mean = stat.Mean
	}
	label := contract.GetPlainLabel(mean)
	if useColors {
		label = contract.GetColorLabel(mean)
	}
	_, err := fmt.Fprintf(w, "Treatment: %s (%d replicates, mean G%% %s, %s)\n",
		tr.Name, tr.Summary.Replicates, fmtFloat(mean), label)
	return err
}

// writeFailuresText lists replicates that were skipped.
func writeFailuresText(w io.Writer, failures []schema.UnitFailure) error {
	if len(failures) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Skipped %d replicate(s):\n", len(failures)); err != nil {
		return err
	}
	for _, f := range failures {
		if _, err := fmt.Fprintf(w, "  - %s/%s [%s] %s\n", f.Treatment, f.Replicate, f.Kind, f.Message); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// writeRunFooter prints the summary line that closes every text report.
func writeRunFooter(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "Showing %d treatments (%d replicates analyzed, %d skipped)\n",
		len(result.Treatments), result.ReplicateCount(), len(result.Failures)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v with %d workers. History backend: %s\n",
		duration, cfg.Workers, cfg.HistoryBackend)
	return err
}
