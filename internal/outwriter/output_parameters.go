package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/huangsam/germtrack/internal/contract"
	"github.com/huangsam/germtrack/internal/parquet"
	"github.com/huangsam/germtrack/schema"
)

// Row types used in CSV parameter output.
const (
	replicateRow = "replicate"
	meanRow      = "mean"
	stdRow       = "std"
)

// parametersFixedWidth is the width of every parameter table column except the replicate name.
const parametersFixedWidth = 120

// treatmentParameters is the JSON shape of one treatment in parameter output.
type treatmentParameters struct {
	Name       string                       `json:"name"`
	Replicates int                          `json:"replicates"`
	Parameters []schema.ParameterRender     `json:"parameters"`
	Summary    []schema.ParameterStatRender `json:"summary"`
}

// PrintParameterResults outputs per-replicate indices, dispatching based on the output format configured.
func PrintParameterResults(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeParametersJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeParametersCSV(w, result, cfg)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.Write(w, parquet.ConvertParameterSets(0, time.Now(), result.AllParameterSets()))
		}, "Wrote Parquet")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeParametersText(w, result, cfg, duration)
		}, "Wrote text")
	}
}

// parameterLabels returns the short labels of every index in display order.
func parameterLabels() []string {
	headers := make([]string, len(schema.AllParameters))
	for i, name := range schema.AllParameters {
		headers[i] = schema.ParameterLabels[name]
	}
	return headers
}

// writeParametersText prints one table per treatment with mean and SD rows at the bottom.
func writeParametersText(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtCell := createFormatters(cfg)
	nameWidth := GetMaxTableNameWidth(cfg, parametersFixedWidth)
	headers := append([]string{"Replicate", "Seeds", "Germ", "Label"}, parameterLabels()...)

	for _, tr := range result.Treatments {
		if err := writeTreatmentHeader(w, tr, fmtFloat, cfg.UseColors); err != nil {
			return err
		}
		var rows [][]string
		for _, p := range tr.Parameters {
			label := contract.GetPlainLabel(p.Germinability)
			if cfg.UseColors {
				label = contract.GetColorLabel(p.Germinability)
			}
			row := []string{
				contract.TruncateName(p.Replicate, nameWidth),
				strconv.Itoa(p.SeedTotal),
				strconv.Itoa(p.Germinated),
				label,
			}
			for _, name := range schema.AllParameters {
				row = append(row, fmtCell(p.Value(name)))
			}
			rows = append(rows, row)
		}
		meanRowCells := []string{"Mean", "", "", ""}
		stdRowCells := []string{"SD", "", "", ""}
		for _, name := range schema.AllParameters {
			meanRowCells = append(meanRowCells, fmtCell(statMean(tr.Summary, name)))
			stdRowCells = append(stdRowCells, fmtCell(statStd(tr.Summary, name)))
		}
		rows = append(rows, meanRowCells, stdRowCells)
		if err := renderTable(w, headers, rows); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if err := writeFailuresText(w, result.Failures); err != nil {
		return err
	}
	return writeRunFooter(w, result, cfg, duration)
}

// writeParametersCSV writes one row per replicate followed by mean and std rows per treatment.
func writeParametersCSV(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg)
	header := append([]string{"treatment", "replicate", "row_type", "seed_total", "germinated", "label"}, paramNames()...)

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, tr := range result.Treatments {
			for _, p := range tr.Parameters {
				rec := []string{
					tr.Name,
					p.Replicate,
					replicateRow,
					strconv.Itoa(p.SeedTotal),
					strconv.Itoa(p.Germinated),
					contract.GetPlainLabel(p.Germinability),
				}
				for _, name := range schema.AllParameters {
					rec = append(rec, fmtFloat(p.Value(name)))
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
			meanRec := []string{tr.Name, "", meanRow, "", "", ""}
			stdRec := []string{tr.Name, "", stdRow, "", "", ""}
			for _, name := range schema.AllParameters {
				meanRec = append(meanRec, fmtFloat(statMean(tr.Summary, name)))
				stdRec = append(stdRec, fmtFloat(statStd(tr.Summary, name)))
			}
			if err := cw.Write(meanRec); err != nil {
				return err
			}
			if err := cw.Write(stdRec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeParametersJSON writes the per-replicate indices grouped by treatment.
func writeParametersJSON(w io.Writer, result *schema.AnalysisResult) error {
	out := make([]treatmentParameters, len(result.Treatments))
	for i, tr := range result.Treatments {
		out[i] = treatmentParameters{
			Name:       tr.Name,
			Replicates: tr.Summary.Replicates,
			Parameters: schema.RenderParameters(tr.Parameters),
			Summary:    schema.RenderSummary(tr.Summary),
		}
	}
	return writeJSON(w, out)
}

// paramNames returns the stable field names of every index in display order.
func paramNames() []string {
	names := make([]string, len(schema.AllParameters))
	for i, name := range schema.AllParameters {
		names[i] = string(name)
	}
	return names
}

// statMean returns the treatment mean of an index, or NaN when absent.
func statMean(s schema.TreatmentSummary, name schema.ParameterName) float64 {
	if stat, ok := s.Parameter(name); ok {
		return stat.Mean
	}
	return math.NaN()
}

// statStd returns the treatment standard deviation of an index, or NaN when absent.
func statStd(s schema.TreatmentSummary, name schema.ParameterName) float64 {
	if stat, ok := s.Parameter(name); ok {
		return stat.StdDev
	}
	return math.NaN()
}
