package core

import (
	"bytes"
	"context"
	"math"
	"testing"
	"time"

	"github.com/huangsam/germtrack/internal/contract"
	"github.com/huangsam/germtrack/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// summaryWithG builds a treatment result whose mean germinability is g.
func summaryWithG(name string, g float64, replicates int) schema.TreatmentResult {
	count := replicates
	if math.IsNaN(g) {
		count = 0
	}
	return schema.TreatmentResult{
		Name: name,
		Summary: schema.TreatmentSummary{
			Treatment:  name,
			Replicates: replicates,
			Parameters: []schema.ParameterStat{{Name: schema.GerminabilityParam, Mean: g, StdDev: math.NaN(), Count: count}},
		},
	}
}

func TestCheckResultBuilder_BuildResult(t *testing.T) {
	tests := []struct {
		name         string
		cfg          *contract.Config
		analysis     *schema.AnalysisResult
		passed       bool
		failedNames  []string
		failureCount int
	}{
		{
			name: "all treatments above threshold",
			cfg:  &contract.Config{GerminabilityThreshold: 60},
			analysis: &schema.AnalysisResult{
				Treatments: []schema.TreatmentResult{summaryWithG("A", 80, 3), summaryWithG("B", 60, 3)},
			},
			passed: true,
		},
		{
			name: "one treatment below threshold",
			cfg:  &contract.Config{GerminabilityThreshold: 70},
			analysis: &schema.AnalysisResult{
				Treatments: []schema.TreatmentResult{summaryWithG("A", 80, 3), summaryWithG("B", 60, 3)},
			},
			passed:      false,
			failedNames: []string{"B"},
		},
		{
			name: "per-treatment override",
			cfg: &contract.Config{
				GerminabilityThreshold: 70,
				TreatmentThresholds:    map[string]float64{"B": 50},
			},
			analysis: &schema.AnalysisResult{
				Treatments: []schema.TreatmentResult{summaryWithG("A", 80, 3), summaryWithG("B", 60, 3)},
			},
			passed: true,
		},
		{
			name: "treatment with no analyzed replicate fails",
			cfg:  &contract.Config{},
			analysis: &schema.AnalysisResult{
				Treatments: []schema.TreatmentResult{summaryWithG("Empty", math.NaN(), 0)},
			},
			passed:      false,
			failedNames: []string{"Empty"},
		},
		{
			name: "skipped replicate fails the check",
			cfg:  &contract.Config{},
			analysis: &schema.AnalysisResult{
				Treatments: []schema.TreatmentResult{summaryWithG("A", 80, 2)},
				Failures:   []schema.UnitFailure{{Treatment: "A", Replicate: "R3", Kind: schema.InvalidInputFailure}},
			},
			passed:       false,
			failureCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewCheckResultBuilder(context.Background(), tt.cfg, nil).
				WithAnalysis(tt.analysis).
				BuildResult().
				GetResult()
			require.NotNil(t, result)

			assert.Equal(t, tt.passed, result.Passed)
			var names []string
			for _, f := range result.FailedTreatments {
				names = append(names, f.Treatment)
			}
			assert.Equal(t, tt.failedNames, names)
			assert.Len(t, result.Failures, tt.failureCount)
			assert.Len(t, result.MeanScores, len(tt.analysis.Treatments))
		})
	}
}

func TestCheckResultBuilder_NoAnalysis(t *testing.T) {
	b := NewCheckResultBuilder(context.Background(), &contract.Config{}, nil)
	assert.Nil(t, b.BuildResult().GetResult())
}

func TestExecuteCheck(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	cfg := testConfig(t)
	cfg.Treatments = []string{"Control"}
	cfg.GerminabilityThreshold = 40
	require.NoError(t, ExecuteCheck(ctx, cfg, noHistory()))

	cfg.GerminabilityThreshold = 75
	err := ExecuteCheck(ctx, cfg, noHistory())
	require.ErrorIs(t, err, ErrCheckFailed)
	assert.Contains(t, err.Error(), "1 treatment violation(s), 0 skipped replicate(s)")

	cfg.Treatments = nil
	cfg.GerminabilityThreshold = 0
	err = ExecuteCheck(ctx, cfg, noHistory())
	require.ErrorIs(t, err, ErrCheckFailed, "the malformed Primed replicate fails the check")
}

func TestPrintCheckResult(t *testing.T) {
	tests := []struct {
		name     string
		result   schema.CheckResult
		contains []string
	}{
		{
			name: "passed",
			result: schema.CheckResult{
				Passed: true, Threshold: 60, TotalTreatments: 2, TotalReplicates: 6,
			},
			contains: []string{"G% >= 60.00", "Treatments: 2 (6 replicates)", "✅ All 2 treatments"},
		},
		{
			name: "failed",
			result: schema.CheckResult{
				Threshold: 60, TotalTreatments: 2, TotalReplicates: 5,
				FailedTreatments: []schema.CheckFailedTreatment{
					{Treatment: "Zeta", Germinability: 40, Threshold: 60},
					{Treatment: "Alpha", Germinability: math.NaN(), Threshold: 60},
				},
				Failures: []schema.UnitFailure{{Treatment: "Zeta", Replicate: "R2", Kind: schema.MalformedSeriesFailure, Message: "days not increasing"}},
			},
			contains: []string{
				"❌ 2 treatment(s) below threshold",
				"- Alpha (G%: N/A < threshold: 60.00)",
				"- Zeta (G%: 40.00 < threshold: 60.00)",
				"❌ 1 replicate(s) could not be analyzed",
				"Zeta/R2 [malformed_series] days not increasing",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, printCheckResult(&buf, &tt.result, 2, 10*time.Millisecond))
			out := buf.String()
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}

	var buf bytes.Buffer
	failed := schema.CheckResult{FailedTreatments: []schema.CheckFailedTreatment{{Treatment: "Zeta"}, {Treatment: "Alpha"}}}
	require.NoError(t, printCheckResult(&buf, &failed, 2, 0))
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Alpha")), bytes.Index(buf.Bytes(), []byte("Zeta")))
}
