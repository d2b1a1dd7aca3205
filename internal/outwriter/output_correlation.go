package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/germtrack/internal/contract"
	"github.com/huangsam/germtrack/internal/parquet"
	"github.com/huangsam/germtrack/schema"
)

// PrintCorrelationResults outputs the correlation matrices, dispatching based on the output format configured.
func PrintCorrelationResults(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			out := make([]schema.CorrelationRender, len(result.Correlations))
			for i, m := range result.Correlations {
				out[i] = schema.RenderCorrelation(m)
			}
			return writeJSON(w, out)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCorrelationCSV(w, result.Correlations, cfg)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.Write(w, parquet.ConvertCorrelations(result.Correlations))
		}, "Wrote Parquet")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			_, fmtCell := createFormatters(cfg)
			for _, m := range result.Correlations {
				if err := writeCorrelationMatrixText(w, m, fmtCell); err != nil {
					return err
				}
			}
			if err := writeFailuresText(w, result.Failures); err != nil {
				return err
			}
			return writeRunFooter(w, result, cfg, duration)
		}, "Wrote text")
	}
}

// writeCorrelationMatrixText prints a square matrix labeled with the short index names.
func writeCorrelationMatrixText(w io.Writer, m schema.CorrelationMatrix, fmtCell func(float64) string) error {
	if _, err := fmt.Fprintf(w, "Correlation (%s)\n", m.Scope); err != nil {
		return err
	}
	headers := make([]string, 0, len(m.Names)+1)
	headers = append(headers, "")
	for _, name := range m.Names {
		headers = append(headers, schema.ParameterLabels[name])
	}
	rows := make([][]string, len(m.Names))
	for i, name := range m.Names {
		row := make([]string, 0, len(m.Names)+1)
		row = append(row, schema.ParameterLabels[name])
		for j := range m.Names {
			row = append(row, fmtCell(m.Values[i][j]))
		}
		rows[i] = row
	}
	if err := renderTable(w, headers, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// writeCorrelationCSV writes every matrix in long form, one row per cell.
func writeCorrelationCSV(w io.Writer, matrices []schema.CorrelationMatrix, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg)
	header := []string{"scope", "row", "column", "coefficient", "count"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, m := range matrices {
			for i, row := range m.Names {
				for j, col := range m.Names {
					rec := []string{
						m.Scope,
						string(row),
						string(col),
						fmtFloat(m.Values[i][j]),
						strconv.Itoa(m.Counts[i][j]),
					}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}
