package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/huangsam/germtrack/internal/contract"
	"github.com/huangsam/germtrack/schema"
)

// ErrParquetFormulas is returned when index definitions are requested as Parquet.
var ErrParquetFormulas = errors.New("parquet output is not supported for formulas; use text, csv or json")

// PrintFormulaDefinitions displays the formal definitions of every germination index.
// This is a static display that does not require an input document.
func PrintFormulaDefinitions(model *schema.FormulaRenderModel, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, model)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFormulasCSV(w, model)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return ErrParquetFormulas
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFormulasText(w, model, cfg)
		}, "Wrote text")
	}
}

// writeFormulasText displays the definitions in human-readable text format.
func writeFormulasText(w io.Writer, model *schema.FormulaRenderModel, cfg *contract.Config) error {
	title := model.Title
	if cfg.UseEmojis {
		title = "🌱 " + title
	}
	if _, err := fmt.Fprintf(w, "%s\n\n%s\n\n", title, model.Description); err != nil {
		return err
	}

	for _, f := range model.Formulas {
		if _, err := fmt.Fprintf(w, "%s (%s): %s\n", f.Label, f.Name, f.Title); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Formula: %s\n", f.Formula); err != nil {
			return err
		}
		if f.Unit != "" {
			if _, err := fmt.Fprintf(w, "   Unit: %s\n", f.Unit); err != nil {
				return err
			}
		}
		if f.Undefined != "" {
			if _, err := fmt.Fprintf(w, "   Undefined when: %s\n", f.Undefined); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Notation (T50 basis: %s)\n", model.T50Basis); err != nil {
		return err
	}
	symbols := make([]string, 0, len(model.Notation))
	for k := range model.Notation {
		symbols = append(symbols, k)
	}
	sort.Strings(symbols)
	for _, k := range symbols {
		if _, err := fmt.Fprintf(w, "   %s = %s\n", k, model.Notation[k]); err != nil {
			return err
		}
	}
	return nil
}

// writeFormulasCSV writes one row per index definition.
func writeFormulasCSV(w io.Writer, model *schema.FormulaRenderModel) error {
	header := []string{"name", "label", "title", "formula", "unit", "undefined_when"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, f := range model.Formulas {
			if err := cw.Write([]string{string(f.Name), f.Label, f.Title, f.Formula, f.Unit, f.Undefined}); err != nil {
				return err
			}
		}
		return nil
	})
}
