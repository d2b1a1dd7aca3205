//go:build basic

// Package integration contains integration tests for germtrack.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/germtrack/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

// fixtureTrial mirrors the trial document layout for independent verification.
type fixtureTrial struct {
	SeedTotal  int `yaml:"seed_total"`
	Treatments []struct {
		Name         string   `yaml:"name"`
		Replicates   []string `yaml:"replicates"`
		SeedTotals   []int    `yaml:"seed_totals"`
		Observations []struct {
			Day    int   `yaml:"day"`
			Counts []int `yaml:"counts"`
		} `yaml:"observations"`
	} `yaml:"treatments"`
}

// expectedIndices holds the indices recomputed directly from the fixture.
type expectedIndices struct {
	germinability float64
	meanTime      float64
	maguire       float64
}

// loadExpected computes G%, MGT and the Maguire index for every replicate of the fixture.
func loadExpected(t *testing.T) map[string]expectedIndices {
	t.Helper()
	content, err := os.ReadFile(filepath.Join("..", trialFixture))
	require.NoError(t, err)

	var trial fixtureTrial
	require.NoError(t, yaml.Unmarshal(content, &trial))

	expected := make(map[string]expectedIndices)
	for _, treatment := range trial.Treatments {
		for j, replicate := range treatment.Replicates {
			seeds := trial.SeedTotal
			if len(treatment.SeedTotals) > j {
				seeds = treatment.SeedTotals[j]
			}
			var germinated, weighted int
			var maguire float64
			for _, obs := range treatment.Observations {
				n := obs.Counts[j]
				germinated += n
				weighted += n * obs.Day
				maguire += float64(n) / float64(obs.Day)
			}
			expected[treatment.Name+"/"+replicate] = expectedIndices{
				germinability: float64(germinated) / float64(seeds) * 100,
				meanTime:      float64(weighted) / float64(germinated),
				maguire:       maguire,
			}
		}
	}
	return expected
}

// TestAnalyzeVerification runs germtrack analyze and verifies the indices against the fixture.
func TestAnalyzeVerification(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "analysis.json")
	_, err := runGermtrack(t, nil, "analyze", trialFixture, "--output", "json", "--output-file", outputFile)
	require.NoError(t, err)

	content, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	var result schema.ResultRender
	require.NoError(t, json.Unmarshal(content, &result))

	assert.NotEmpty(t, result.RunID)
	assert.Empty(t, result.Failures)
	require.Len(t, result.Treatments, 2)

	expected := loadExpected(t)
	seen := 0
	for _, treatment := range result.Treatments {
		for _, p := range treatment.Parameters {
			want, ok := expected[p.Treatment+"/"+p.Replicate]
			require.True(t, ok, "unexpected replicate %s/%s", p.Treatment, p.Replicate)
			require.NotNil(t, p.Germinability)
			require.NotNil(t, p.MeanTime)
			require.NotNil(t, p.MaguireIndex)
			assert.InDelta(t, want.germinability, *p.Germinability, 1e-9, "G%% for %s/%s", p.Treatment, p.Replicate)
			assert.InDelta(t, want.meanTime, *p.MeanTime, 1e-9, "MGT for %s/%s", p.Treatment, p.Replicate)
			assert.InDelta(t, want.maguire, *p.MaguireIndex, 1e-9, "Maguire for %s/%s", p.Treatment, p.Replicate)
			seen++
		}
	}
	assert.Equal(t, len(expected), seen)
}

// TestCheckVerification verifies the exit status of the germinability gate.
func TestCheckVerification(t *testing.T) {
	// Control averages 50% germination
	output, err := runGermtrack(t, nil, "check", trialFixture, "--treatment", "Control", "--threshold", "45")
	require.NoError(t, err)
	assert.Contains(t, output, "All 1 treatments")

	output, err = runGermtrack(t, nil, "check", trialFixture, "--threshold", "45,Control:60")
	require.Error(t, err)
	assert.Contains(t, output, "Control")
}

// TestStdinVerification feeds the document through standard input.
func TestStdinVerification(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("..", trialFixture))
	require.NoError(t, err)

	outputFile := filepath.Join(t.TempDir(), "parameters.csv")
	cmd := newGermtrackCommand("parameters", "-", "--output", "csv", "--output-file", outputFile)
	cmd.Stdin = strings.NewReader(string(content))
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	csvContent, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Contains(t, string(csvContent), "Control")
	assert.Contains(t, string(csvContent), "Primed")
}

// TestSQLiteHistoryVerification records two runs in a temporary SQLite history and exports them.
func TestSQLiteHistoryVerification(t *testing.T) {
	dir := t.TempDir()
	env := []string{
		"GERMTRACK_HISTORY_BACKEND=sqlite",
		"GERMTRACK_HISTORY_DB_CONNECT=" + filepath.Join(dir, "history.db"),
	}

	for range 2 {
		_, err := runGermtrack(t, env, "parameters", trialFixture)
		require.NoError(t, err)
	}

	output, err := runGermtrack(t, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "Total Runs: 2")
	assert.Contains(t, output, "Total Replicates Analyzed: 12")

	exportPrefix := filepath.Join(dir, "history")
	_, err = runGermtrack(t, env, "history", "export", "--output-file", exportPrefix)
	require.NoError(t, err)
	assert.FileExists(t, exportPrefix+".analysis_runs.parquet")
	assert.FileExists(t, exportPrefix+".replicate_parameters.parquet")

	_, err = runGermtrack(t, env, "history", "clear")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "history.db"))
}

// TestFormulasVerification checks the informational commands run without input.
func TestFormulasVerification(t *testing.T) {
	output, err := runGermtrack(t, nil, "formulas")
	require.NoError(t, err)
	assert.Contains(t, output, "T50")

	output, err = runGermtrack(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, output, "germtrack CLI")
}
