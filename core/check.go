package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"

	"github.com/huangsam/germtrack/internal/contract"
	"github.com/huangsam/germtrack/schema"
)

// ErrCheckFailed is returned when at least one treatment violates its threshold.
var ErrCheckFailed = errors.New("germination check failed")

// CheckResultBuilder runs an analysis and evaluates it against the configured thresholds.
type CheckResultBuilder struct {
	ctx      context.Context
	cfg      *contract.Config
	mgr      contract.HistoryManager
	analysis *schema.AnalysisResult
	result   *schema.CheckResult
}

// NewCheckResultBuilder creates a builder for one check run.
func NewCheckResultBuilder(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) *CheckResultBuilder {
	return &CheckResultBuilder{ctx: ctx, cfg: cfg, mgr: mgr}
}

// RunAnalysis loads the document and runs the pipeline.
func (b *CheckResultBuilder) RunAnalysis() (*CheckResultBuilder, error) {
	analysis, err := GetAnalysisResults(b.ctx, b.cfg, b.mgr)
	if err != nil {
		return b, err
	}
	b.analysis = analysis
	return b, nil
}

// WithAnalysis uses an existing analysis result instead of running one.
func (b *CheckResultBuilder) WithAnalysis(analysis *schema.AnalysisResult) *CheckResultBuilder {
	b.analysis = analysis
	return b
}

// BuildResult compares every treatment's mean germinability against its threshold.
// A treatment without any analyzed replicate fails, as does any skipped replicate.
func (b *CheckResultBuilder) BuildResult() *CheckResultBuilder {
	if b.analysis == nil {
		return b
	}
	result := &schema.CheckResult{
		Threshold:        b.cfg.GerminabilityThreshold,
		TotalTreatments:  len(b.analysis.Treatments),
		TotalReplicates:  b.analysis.ReplicateCount(),
		FailedTreatments: []schema.CheckFailedTreatment{},
		Failures:         b.analysis.Failures,
		MeanScores:       make(map[string]float64, len(b.analysis.Treatments)),
	}

	for _, tr := range b.analysis.Treatments {
		mean := math.NaN()
		if stat, ok := tr.Summary.Parameter(schema.GerminabilityParam); ok {
			mean = stat.Mean
		}
		result.MeanScores[tr.Name] = mean

		threshold := b.cfg.ThresholdFor(tr.Name)
		if math.IsNaN(mean) || mean < threshold {
			result.FailedTreatments = append(result.FailedTreatments, schema.CheckFailedTreatment{
				Treatment:     tr.Name,
				Germinability: mean,
				Threshold:     threshold,
			})
		}
	}

	result.Passed = len(result.FailedTreatments) == 0 && len(result.Failures) == 0
	b.result = result
	return b
}

// GetResult returns the check result, or nil if it has not been built.
func (b *CheckResultBuilder) GetResult() *schema.CheckResult {
	return b.result
}

// ExecuteCheck runs the check command for CI/CD gating.
// It returns ErrCheckFailed when any treatment falls below its threshold
// or any replicate could not be analyzed.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	start := time.Now()

	builder := NewCheckResultBuilder(ctx, cfg, mgr)
	if _, err := builder.RunAnalysis(); err != nil {
		return err
	}

	result := builder.BuildResult().GetResult()
	if err := printCheckResult(os.Stdout, result, cfg.Precision, time.Since(start)); err != nil {
		return err
	}
	if !result.Passed {
		return fmt.Errorf("%w: %d treatment violation(s), %d skipped replicate(s)",
			ErrCheckFailed, len(result.FailedTreatments), len(result.Failures))
	}
	return nil
}

// printCheckResult prints the check result in a concise format suitable for CI/CD.
func printCheckResult(w io.Writer, result *schema.CheckResult, precision int, duration time.Duration) error {
	if _, err := fmt.Fprintln(w, "Germination Check Results:"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  Threshold:  G%% >= %s\n", contract.FormatValue(result.Threshold, precision)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  Treatments: %d (%d replicates)\n", result.TotalTreatments, result.TotalReplicates); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  Duration:   %v\n\n", duration); err != nil {
		return err
	}

	if result.Passed {
		_, err := fmt.Fprintf(w, "✅ All %d treatments meet their germinability threshold\n", result.TotalTreatments)
		return err
	}

	failed := append([]schema.CheckFailedTreatment(nil), result.FailedTreatments...)
	sort.SliceStable(failed, func(i, j int) bool {
		return failed[i].Treatment < failed[j].Treatment
	})
	if len(failed) > 0 {
		if _, err := fmt.Fprintf(w, "❌ %d treatment(s) below threshold\n", len(failed)); err != nil {
			return err
		}
		for _, f := range failed {
			if _, err := fmt.Fprintf(w, "  - %s (G%%: %s < threshold: %s)\n", f.Treatment,
				contract.FormatValue(f.Germinability, precision), contract.FormatValue(f.Threshold, precision)); err != nil {
				return err
			}
		}
	}
	if len(result.Failures) > 0 {
		if _, err := fmt.Fprintf(w, "❌ %d replicate(s) could not be analyzed\n", len(result.Failures)); err != nil {
			return err
		}
		for _, f := range result.Failures {
			if _, err := fmt.Fprintf(w, "  - %s/%s [%s] %s\n", f.Treatment, f.Replicate, f.Kind, f.Message); err != nil {
				return err
			}
		}
	}
	return nil
}
