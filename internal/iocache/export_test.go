package iocache

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/germtrack/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteHistoryExport(t *testing.T) {
	store := newSQLiteStore(t)
	start := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	id, err := store.BeginAnalysis(start, map[string]any{"run_id": "r-1"})
	require.NoError(t, err)
	require.NoError(t, store.RecordReplicate(id, start, sampleParameterSet("R1")))
	require.NoError(t, store.RecordReplicate(id, start, sampleParameterSet("R2")))
	require.NoError(t, store.EndAnalysis(id, start.Add(time.Second), 2, 0))

	base := filepath.Join(t.TempDir(), "history")
	var buf bytes.Buffer
	require.NoError(t, ExecuteHistoryExport(&buf, store, base))

	for _, suffix := range []string{".analysis_runs.parquet", ".replicate_parameters.parquet"} {
		info, err := os.Stat(base + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
	out := buf.String()
	assert.Contains(t, out, "Exporting data from sqlite backend...")
	assert.Contains(t, out, "Total replicate records: 2")
	assert.Contains(t, out, "Exported 1 analysis runs")
	assert.Contains(t, out, "Exported 2 replicate records")
}

func TestExecuteHistoryExport_Errors(t *testing.T) {
	var buf bytes.Buffer

	err := ExecuteHistoryExport(&buf, newSQLiteStore(t), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output-file is required")

	err = ExecuteHistoryExport(&buf, nil, "out")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")

	err = ExecuteHistoryExport(&buf, newSQLiteStore(t), filepath.Join(t.TempDir(), "out"))
	assert.ErrorIs(t, err, ErrNoHistory)

	failing := &MockHistoryStore{}
	failing.On("GetStatus").Return(schema.HistoryStatus{}, errors.New("connection reset"))
	err = ExecuteHistoryExport(&buf, failing, "out")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get history status: connection reset")

	partial := &MockHistoryStore{}
	partial.On("GetStatus").Return(schema.HistoryStatus{Backend: "mysql", TotalRuns: 1}, nil)
	partial.On("GetAllAnalysisRuns").Return(nil, errors.New("timeout"))
	err = ExecuteHistoryExport(&buf, partial, "out")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to retrieve analysis runs")
	partial.AssertNotCalled(t, "GetAllReplicateRecords")
}

func TestPrintHistoryStatus(t *testing.T) {
	t.Run("disconnected", func(t *testing.T) {
		var buf bytes.Buffer
		PrintHistoryStatus(&buf, schema.HistoryStatus{Backend: "none"})
		assert.Equal(t, "History Backend: none\nConnected: false\n", buf.String())
	})

	t.Run("connected", func(t *testing.T) {
		var buf bytes.Buffer
		PrintHistoryStatus(&buf, schema.HistoryStatus{
			Backend:         "sqlite",
			Connected:       true,
			TotalRuns:       2,
			LastRunID:       2,
			TotalReplicates: 7,
			TableSizes: map[string]int64{
				replicateParametersTable: 7,
				analysisRunsTable:        2,
			},
		})
		out := buf.String()
		assert.Contains(t, out, "Total Runs: 2")
		assert.Contains(t, out, "Last Run ID: 2")
		assert.Contains(t, out, "Total Replicates Analyzed: 7")
		assert.Less(t, bytes.Index(buf.Bytes(), []byte(analysisRunsTable)), bytes.Index(buf.Bytes(), []byte(replicateParametersTable)))
	})
}
