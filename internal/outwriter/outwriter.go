// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/germtrack/internal/contract"
	"github.com/huangsam/germtrack/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAnalysis prints the full analysis bundle using the configured output format.
func (ow *OutWriter) WriteAnalysis(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return PrintAnalysisResults(result, cfg, duration)
}

// WriteParameters prints per-replicate indices and treatment statistics.
func (ow *OutWriter) WriteParameters(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return PrintParameterResults(result, cfg, duration)
}

// WriteCurves prints the aggregated per-day germination curves.
func (ow *OutWriter) WriteCurves(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return PrintCurveResults(result, cfg, duration)
}

// WriteCorrelation prints the correlation matrices.
func (ow *OutWriter) WriteCorrelation(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return PrintCorrelationResults(result, cfg, duration)
}

// WriteFormulas prints the definitions of every germination index.
func (ow *OutWriter) WriteFormulas(model *schema.FormulaRenderModel, cfg *contract.Config) error {
	return PrintFormulaDefinitions(model, cfg)
}

// GetMaxTableNameWidth calculates the maximum width for treatment and replicate
// names in table output, given the width taken by the table's other columns.
func GetMaxTableNameWidth(cfg *contract.Config, fixedWidth int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for table borders, separators, and padding
	available := termWidth - fixedWidth - 10
	if available < 8 {
		return 8
	}
	if available > 40 {
		return 40
	}
	return available
}
