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

// treatmentCurve is the JSON shape of one treatment in curve output.
type treatmentCurve struct {
	Name            string                  `json:"name"`
	Replicates      int                     `json:"replicates"`
	Curve           []schema.DayStatRender  `json:"curve"`
	ReplicateCurves []schema.ReplicateCurve `json:"replicate_curves"`
}

// PrintCurveResults outputs the per-day curves, dispatching based on the output format configured.
func PrintCurveResults(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCurvesJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCurvesCSV(w, result, cfg)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.Write(w, parquet.ConvertTreatmentCurves(result.Treatments))
		}, "Wrote Parquet")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCurvesText(w, result, cfg, duration)
		}, "Wrote text")
	}
}

// writeCurvesText prints one day-by-day table per treatment.
func writeCurvesText(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtCell := createFormatters(cfg)
	headers := []string{"Day", "N", "Cum Mean", "Cum SD", "Daily Mean", "Daily SD", "Prop Mean", "Prop SD"}

	for _, tr := range result.Treatments {
		if err := writeTreatmentHeader(w, tr, fmtFloat, cfg.UseColors); err != nil {
			return err
		}
		if len(tr.Summary.Days) == 0 {
			if _, err := fmt.Fprintln(w, "No observations"); err != nil {
				return err
			}
			continue
		}
		rows := make([][]string, len(tr.Summary.Days))
		for i, d := range tr.Summary.Days {
			rows[i] = []string{
				strconv.Itoa(d.Day),
				strconv.Itoa(d.Contributors),
				fmtCell(d.MeanCumulative),
				fmtCell(d.StdCumulative),
				fmtCell(d.MeanDaily),
				fmtCell(d.StdDaily),
				fmtCell(d.MeanProportion),
				fmtCell(d.StdProportion),
			}
		}
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

// writeCurvesCSV writes one row per treatment and day.
func writeCurvesCSV(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg)
	header := []string{
		"treatment",
		"day",
		"contributors",
		"mean_cumulative",
		"std_cumulative",
		"mean_daily",
		"std_daily",
		"mean_proportion",
		"std_proportion",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, tr := range result.Treatments {
			for _, d := range tr.Summary.Days {
				rec := []string{
					tr.Name,
					strconv.Itoa(d.Day),
					strconv.Itoa(d.Contributors),
					fmtFloat(d.MeanCumulative),
					fmtFloat(d.StdCumulative),
					fmtFloat(d.MeanDaily),
					fmtFloat(d.StdDaily),
					fmtFloat(d.MeanProportion),
					fmtFloat(d.StdProportion),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// writeCurvesJSON writes the aggregated and per-replicate curves grouped by treatment.
func writeCurvesJSON(w io.Writer, result *schema.AnalysisResult) error {
	out := make([]treatmentCurve, len(result.Treatments))
	for i, tr := range result.Treatments {
		curves := tr.Curves
		if curves == nil {
			curves = []schema.ReplicateCurve{}
		}
		out[i] = treatmentCurve{
			Name:            tr.Name,
			Replicates:      tr.Summary.Replicates,
			Curve:           schema.RenderCurve(tr.Summary),
			ReplicateCurves: curves,
		}
	}
	return writeJSON(w, out)
}
