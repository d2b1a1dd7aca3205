// Package core has core logic for germination analysis and reporting.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/huangsam/germtrack/internal/contract"
	"github.com/huangsam/germtrack/internal/input"
	"github.com/huangsam/germtrack/internal/outwriter"
	"github.com/huangsam/germtrack/schema"
)

// ErrNoInput is returned when a command that needs a trial document has none.
var ErrNoInput = errors.New("an input document is required (path or - for stdin)")

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error

// ExecuteAnalyze runs the full pipeline and prints the complete bundle.
// It serves as the main entry point for the 'analyze' command.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	start := time.Now()
	result, err := GetAnalysisResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteAnalysis(result, cfg, time.Since(start))
}

// ExecuteParameters runs the pipeline and prints per-replicate indices.
func ExecuteParameters(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	start := time.Now()
	result, err := GetAnalysisResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteParameters(result, cfg, time.Since(start))
}

// ExecuteCurves runs the pipeline and prints the aggregated germination curves.
func ExecuteCurves(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	start := time.Now()
	result, err := GetAnalysisResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteCurves(result, cfg, time.Since(start))
}

// ExecuteCorrelation runs the pipeline and prints the correlation matrices.
func ExecuteCorrelation(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	start := time.Now()
	result, err := GetAnalysisResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteCorrelation(result, cfg, time.Since(start))
}

// ExecuteFormulas prints the definitions of every index.
// This is a static display that does not read an input document.
func ExecuteFormulas(_ context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	return outwriter.NewOutWriter().WriteFormulas(FormulaDefinitions(cfg.T50Basis), cfg)
}

// GetAnalysisResults loads the configured document and runs the pipeline on it.
func GetAnalysisResults(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) (*schema.AnalysisResult, error) {
	if cfg.InputPath == "" {
		return nil, ErrNoInput
	}
	treatments, err := input.Load(cfg.InputPath, cfg.SeedTotal)
	if err != nil {
		return nil, err
	}
	return analyzeTreatments(ctx, cfg, mgr, treatments)
}

// GetAnalysisResultsFromReader decodes a document from r and runs the pipeline on it.
func GetAnalysisResultsFromReader(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager, r io.Reader) (*schema.AnalysisResult, error) {
	treatments, err := input.Decode(r, cfg.SeedTotal)
	if err != nil {
		return nil, err
	}
	return analyzeTreatments(ctx, cfg, mgr, treatments)
}

// analyzeTreatments filters, runs and records one analysis.
func analyzeTreatments(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager, treatments []schema.TreatmentInput) (*schema.AnalysisResult, error) {
	treatments = input.Filter(treatments, cfg.KeepTreatment)
	if len(treatments) == 0 {
		return nil, fmt.Errorf("no treatments match the filter %q", strings.Join(cfg.Treatments, ","))
	}

	suppress := shouldSuppressHeader(ctx)
	if !suppress {
		contract.LogAnalysisHeader(cfg, len(treatments), countReplicates(treatments))
	}

	start := time.Now()
	result, err := RunAnalysis(ctx, treatments, cfg.AnalysisOptions())
	if err != nil {
		return nil, err
	}

	recordHistory(ctx, cfg, mgr, start, result)

	if !suppress {
		for _, f := range result.Failures {
			contract.LogWarn(fmt.Sprintf("skipped replicate %s/%s", f.Treatment, f.Replicate), errors.New(f.Message))
		}
	}
	return result, nil
}

// countReplicates returns the number of replicates across all treatments.
func countReplicates(treatments []schema.TreatmentInput) int {
	n := 0
	for _, t := range treatments {
		n += len(t.Observation.Replicates)
	}
	return n
}

// historyStore returns the configured store, or nil when history is disabled.
func historyStore(mgr contract.HistoryManager) contract.HistoryStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetHistoryStore()
}

// recordHistory stores the run and its replicate indices when a history backend is configured.
// Store errors are reported as warnings and never fail the analysis.
func recordHistory(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager, start time.Time, result *schema.AnalysisResult) {
	store := historyStore(mgr)
	if store == nil {
		return
	}

	params := map[string]any{
		"run_id":      result.RunID,
		"input":       cfg.InputPath,
		"workers":     cfg.Workers,
		"seed_total":  cfg.SeedTotal,
		"t50_basis":   string(result.Options.T50Basis),
		"correlation": string(result.Options.CorrelationScope),
		"treatments":  cfg.Treatments,
	}
	analysisID, err := store.BeginAnalysis(start, params)
	if err != nil {
		contract.LogWarn("Failed to begin analysis tracking", err)
		return
	}
	ctx = withAnalysisID(ctx, analysisID)

	recordReplicates(ctx, store, result)

	if err := store.EndAnalysis(analysisID, time.Now(), result.ReplicateCount(), len(result.Failures)); err != nil {
		contract.LogWarn("Failed to end analysis tracking", err)
	}
}

// recordReplicates stores one row per successfully analyzed replicate.
func recordReplicates(ctx context.Context, store contract.HistoryStore, result *schema.AnalysisResult) {
	analysisID, ok := getAnalysisID(ctx)
	if !ok || analysisID == 0 {
		return
	}
	now := time.Now()
	for _, p := range result.AllParameterSets() {
		if err := store.RecordReplicate(analysisID, now, p); err != nil {
			contract.LogWarn(fmt.Sprintf("Failed to record replicate %s/%s", p.Treatment, p.Replicate), err)
		}
	}
}
