package iocache

import (
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/germtrack/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSQLiteStore opens a history store backed by a temp SQLite file.
func newSQLiteStore(t *testing.T) *HistoryStoreImpl {
	t.Helper()
	store, err := NewHistoryStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*HistoryStoreImpl)
}

func sampleParameterSet(replicate string) schema.ParameterSet {
	return schema.ParameterSet{
		Treatment:              "Control",
		Replicate:              replicate,
		SeedTotal:              20,
		Germinated:             10,
		Germinability:          50,
		MeanTime:               1.7,
		Variance:               0.6777777777777778,
		StdDev:                 0.8232726023485646,
		CoefficientOfVariation: 48.42780013815086,
		MeanRate:               0.5882352941176471,
		Uncertainty:            1.4854752972273344,
		Synchrony:              0.31111111111111112,
		MaguireIndex:           6.166666666666667,
		T50:                    3,
		ArcSine:                45,
	}
}

func TestHistoryStore_NoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	analysisID, err := store.BeginAnalysis(time.Now(), map[string]any{"run_id": "abc"})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), analysisID)

	assert.NoError(t, store.EndAnalysis(1, time.Now(), 3, 0))
	assert.NoError(t, store.RecordReplicate(1, time.Now(), sampleParameterSet("R1")))

	runs, err := store.GetAllAnalysisRuns()
	assert.NoError(t, err)
	assert.Nil(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Close())
}

func TestHistoryStore_UnsupportedBackend(t *testing.T) {
	_, err := NewHistoryStore(schema.DatabaseBackend("oracle"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend: oracle")
}

func TestHistoryStore_SQLiteRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)

	startTime := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	analysisID, err := store.BeginAnalysis(startTime, map[string]any{
		"run_id":    "2f1c7a52-9a0e-4cf4-8f0e-5a1b2c3d4e5f",
		"t50_basis": "sown",
	})
	require.NoError(t, err)
	assert.Greater(t, analysisID, int64(0))

	undefined := sampleParameterSet("R2")
	undefined.Germinated = 0
	undefined.Germinability = 0
	undefined.MeanTime = math.NaN()
	undefined.T50 = math.NaN()

	require.NoError(t, store.RecordReplicate(analysisID, startTime, sampleParameterSet("R1")))
	require.NoError(t, store.RecordReplicate(analysisID, startTime, undefined))
	require.NoError(t, store.EndAnalysis(analysisID, startTime.Add(1500*time.Millisecond), 2, 1))

	runs, err := store.GetAllAnalysisRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, analysisID, run.AnalysisID)
	assert.Equal(t, "2f1c7a52-9a0e-4cf4-8f0e-5a1b2c3d4e5f", run.RunID)
	assert.True(t, startTime.Equal(run.StartTime))
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(1500), *run.RunDurationMs)
	assert.Equal(t, int32(2), run.TotalReplicates)
	assert.Equal(t, int32(1), run.FailedReplicates)
	require.NotNil(t, run.ConfigParams)
	assert.Contains(t, *run.ConfigParams, `"t50_basis":"sown"`)

	records, err := store.GetAllReplicateRecords()
	require.NoError(t, err)
	require.Len(t, records, 2)

	r1 := records[0]
	assert.Equal(t, "R1", r1.Replicate)
	assert.Equal(t, int32(20), r1.SeedTotal)
	require.NotNil(t, r1.Germinability)
	assert.InDelta(t, 50.0, *r1.Germinability, 1e-12)
	require.NotNil(t, r1.T50)
	assert.InDelta(t, 3.0, *r1.T50, 1e-12)

	r2 := records[1]
	assert.Equal(t, "R2", r2.Replicate)
	assert.Nil(t, r2.MeanTime, "undefined indices are stored as NULL")
	assert.Nil(t, r2.T50)
	require.NotNil(t, r2.Germinability)
	assert.Zero(t, *r2.Germinability)
}

func TestHistoryStore_RunWithoutRunID(t *testing.T) {
	store := newSQLiteStore(t)

	analysisID, err := store.BeginAnalysis(time.Now(), map[string]any{"input": "trial.yaml"})
	require.NoError(t, err)

	runs, err := store.GetAllAnalysisRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, analysisID, runs[0].AnalysisID)
	assert.Empty(t, runs[0].RunID)
	assert.Nil(t, runs[0].EndTime, "a run that never ended has no end time")
	assert.Nil(t, runs[0].RunDurationMs)
}

func TestHistoryStore_DuplicateReplicate(t *testing.T) {
	store := newSQLiteStore(t)

	analysisID, err := store.BeginAnalysis(time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordReplicate(analysisID, time.Now(), sampleParameterSet("R1")))

	err = store.RecordReplicate(analysisID, time.Now(), sampleParameterSet("R1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert replicate parameters")
}

func TestHistoryStore_EndUnknownAnalysis(t *testing.T) {
	store := newSQLiteStore(t)

	err := store.EndAnalysis(999, time.Now(), 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get start_time for analysis 999")
}

func TestHistoryStore_GetStatus(t *testing.T) {
	store := newSQLiteStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Zero(t, status.TotalRuns)
	assert.Equal(t, int64(0), status.TableSizes[analysisRunsTable])

	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 3 {
		start := first.Add(time.Duration(i) * time.Hour)
		id, err := store.BeginAnalysis(start, map[string]any{"run": i})
		require.NoError(t, err)
		require.NoError(t, store.RecordReplicate(id, start, sampleParameterSet("R1")))
		require.NoError(t, store.EndAnalysis(id, start.Add(time.Second), 1, 0))
	}

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalRuns)
	assert.Equal(t, int64(3), status.LastRunID)
	assert.True(t, first.Equal(status.OldestRunTime))
	assert.True(t, first.Add(2*time.Hour).Equal(status.LastRunTime))
	assert.Equal(t, 3, status.TotalReplicates)
	assert.Equal(t, int64(3), status.TableSizes[analysisRunsTable])
	assert.Equal(t, int64(3), status.TableSizes[replicateParametersTable])
}

func TestHistoryStore_CloseNil(t *testing.T) {
	store := &HistoryStoreImpl{backend: schema.SQLiteBackend}
	assert.NoError(t, store.Close())
}

func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		backend  schema.DatabaseBackend
		expected string
	}{
		{schema.SQLiteBackend, `"germtrack_analysis_runs"`},
		{schema.PostgreSQLBackend, `"germtrack_analysis_runs"`},
		{schema.MySQLBackend, "`germtrack_analysis_runs`"},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			assert.Equal(t, tt.expected, quoteTableName(analysisRunsTable, tt.backend))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?, ?, ?", placeholders(schema.SQLiteBackend, 3))
	assert.Equal(t, "?, ?", placeholders(schema.MySQLBackend, 2))
	assert.Equal(t, "$1, $2, $3", placeholders(schema.PostgreSQLBackend, 3))
}

func TestGetCreateQueries(t *testing.T) {
	tests := []struct {
		backend   schema.DatabaseBackend
		runs      []string
		replicate []string
	}{
		{
			backend:   schema.SQLiteBackend,
			runs:      []string{"INTEGER PRIMARY KEY AUTOINCREMENT", "start_time TEXT NOT NULL"},
			replicate: []string{"t50 REAL", "analysis_time TEXT NOT NULL"},
		},
		{
			backend:   schema.MySQLBackend,
			runs:      []string{"BIGINT AUTO_INCREMENT PRIMARY KEY", "DATETIME(6)"},
			replicate: []string{"t50 DOUBLE", "treatment VARCHAR(255) NOT NULL"},
		},
		{
			backend:   schema.PostgreSQLBackend,
			runs:      []string{"BIGSERIAL PRIMARY KEY", "TIMESTAMPTZ"},
			replicate: []string{"t50 DOUBLE PRECISION", "analysis_id BIGINT NOT NULL"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			runs := getCreateAnalysisRunsQuery(tt.backend)
			for _, s := range tt.runs {
				assert.Contains(t, runs, s)
			}
			replicate := getCreateReplicateParametersQuery(tt.backend)
			for _, s := range tt.replicate {
				assert.Contains(t, replicate, s)
			}
			assert.Contains(t, replicate, "PRIMARY KEY (analysis_id, treatment, replicate)")
			for _, col := range indexColumns {
				assert.True(t, strings.Contains(replicate, col+" "), "missing column %s", col)
			}
		})
	}
}

func TestIndexColumnsMatchParameters(t *testing.T) {
	require.Len(t, indexColumns, len(schema.AllParameters))
	record := schema.NewReplicateRecord(1, time.Now(), sampleParameterSet("R1"))
	fields := replicateIndexFields(&record)
	require.Len(t, fields, len(schema.AllParameters))
	p := sampleParameterSet("R1")
	for i, name := range schema.AllParameters {
		require.NotNil(t, *fields[i])
		assert.Equal(t, p.Value(name), **fields[i], "column %s", indexColumns[i])
	}
}
