package parquet

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/germtrack/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readAll reads every row of a Parquet file written with type T.
func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[T](file)
	defer reader.Close()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	return rows[:n]
}

func sampleRuns() []AnalysisRun {
	now := time.Now()
	end := now.Add(2 * time.Second)
	duration := int32(2000)
	config := `{"t50_basis":"sown","workers":4}`
	return []AnalysisRun{
		{
			AnalysisID:       1,
			RunID:            "0b8f6a1e-0000-4000-8000-000000000001",
			StartTime:        now,
			EndTime:          &end,
			RunDurationMs:    &duration,
			TotalReplicates:  6,
			FailedReplicates: 1,
			ConfigParams:     &config,
		},
		{
			AnalysisID: 2,
			RunID:      "0b8f6a1e-0000-4000-8000-000000000002",
			StartTime:  now.Add(time.Minute),
		},
	}
}

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{
			name:  "analysis runs",
			model: new(AnalysisRun),
			columns: []string{
				"analysis_id", "run_id", "start_time", "end_time", "run_duration_ms",
				"total_replicates", "failed_replicates", "config_params",
			},
		},
		{
			name:  "replicate parameters",
			model: new(ReplicateParameters),
			columns: []string{
				"analysis_id", "treatment", "replicate", "analysis_time", "seed_total", "germinated",
				"germinability", "mean_time", "variance", "std_dev", "cv_time", "mean_rate",
				"uncertainty", "synchrony", "maguire_index", "t50", "arcsine",
			},
		},
		{
			name:    "day summaries",
			model:   new(DaySummary),
			columns: []string{"treatment", "day", "contributors", "mean_cumulative", "std_proportion"},
		},
		{
			name:    "correlations",
			model:   new(CorrelationEntry),
			columns: []string{"scope", "row_param", "column_param", "coefficient", "pair_count"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			require.NotNil(t, s)
			for _, col := range tt.columns {
				_, ok := s.Lookup(col)
				assert.True(t, ok, "Column %s should exist in schema", col)
			}
		})
	}
}

func TestWriteAnalysisRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "analysis_runs.parquet")
	data := sampleRuns()

	require.NoError(t, WriteAnalysisRunsParquet(data, outputPath))

	read := readAll[AnalysisRun](t, outputPath)
	require.Len(t, read, len(data))
	for i := range data {
		assert.Equal(t, data[i].AnalysisID, read[i].AnalysisID)
		assert.Equal(t, data[i].RunID, read[i].RunID)
		assert.Equal(t, data[i].TotalReplicates, read[i].TotalReplicates)
		assert.Equal(t, data[i].FailedReplicates, read[i].FailedReplicates)
		assert.WithinDuration(t, data[i].StartTime, read[i].StartTime, time.Microsecond)
	}
	require.NotNil(t, read[0].EndTime)
	require.NotNil(t, read[0].ConfigParams)
	assert.Equal(t, *data[0].ConfigParams, *read[0].ConfigParams)
	assert.Nil(t, read[1].EndTime)
	assert.Nil(t, read[1].RunDurationMs)
	assert.Nil(t, read[1].ConfigParams)
}

func TestWriteReplicateParametersParquet_Nulls(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "replicates.parquet")
	sets := []schema.ParameterSet{
		{
			Treatment: "Control", Replicate: "R1", SeedTotal: 20, Germinated: 10,
			Germinability: 50, MeanTime: 1.7, Variance: 0.9, StdDev: 0.95,
			CoefficientOfVariation: 55.8, MeanRate: 1 / 1.7, Uncertainty: 1.49,
			Synchrony: 0.31, MaguireIndex: 7.17, T50: 3, ArcSine: 45,
		},
		{
			Treatment: "Control", Replicate: "R2", SeedTotal: 20,
			MeanTime: math.NaN(), Variance: math.NaN(), StdDev: math.NaN(),
			CoefficientOfVariation: math.NaN(), MeanRate: math.NaN(),
			Uncertainty: math.NaN(), Synchrony: math.NaN(), T50: math.NaN(),
		},
	}
	at := time.Now()

	require.NoError(t, WriteReplicateParametersParquet(ConvertParameterSets(7, at, sets), outputPath))

	read := readAll[ReplicateParameters](t, outputPath)
	require.Len(t, read, 2)
	assert.Equal(t, int64(7), read[0].AnalysisID)
	assert.Equal(t, "R1", read[0].Replicate)
	require.NotNil(t, read[0].T50)
	assert.InDelta(t, 3.0, *read[0].T50, 1e-12)
	require.NotNil(t, read[0].Germinability)
	assert.InDelta(t, 50.0, *read[0].Germinability, 1e-12)

	assert.Nil(t, read[1].MeanTime)
	assert.Nil(t, read[1].T50)
	assert.Nil(t, read[1].Synchrony)
	require.NotNil(t, read[1].Germinability)
	assert.Zero(t, *read[1].Germinability)
}

func TestConvertTreatmentCurves(t *testing.T) {
	treatments := []schema.TreatmentResult{
		{
			Name: "Control",
			Summary: schema.TreatmentSummary{
				Days: []schema.DayStat{
					{Day: 1, Contributors: 2, MeanCumulative: 4.5, StdCumulative: 0.7, MeanProportion: 0.225, StdProportion: math.NaN()},
					{Day: 2, Contributors: 1, MeanCumulative: 8, StdCumulative: math.NaN()},
				},
			},
		},
		{Name: "Empty"},
	}

	rows := ConvertTreatmentCurves(treatments)
	require.Len(t, rows, 2)
	assert.Equal(t, "Control", rows[0].Treatment)
	assert.Equal(t, int32(1), rows[0].Day)
	assert.Equal(t, int32(2), rows[0].Contributors)
	require.NotNil(t, rows[0].MeanCumulative)
	assert.InDelta(t, 4.5, *rows[0].MeanCumulative, 1e-12)
	assert.Nil(t, rows[0].StdProportion)
	assert.Nil(t, rows[1].StdCumulative)

	outputPath := filepath.Join(t.TempDir(), "curves.parquet")
	require.NoError(t, WriteDaySummariesParquet(rows, outputPath))
	assert.Len(t, readAll[DaySummary](t, outputPath), 2)
}

func TestConvertCorrelations(t *testing.T) {
	m := schema.CorrelationMatrix{
		Scope:  "global",
		Names:  []schema.ParameterName{schema.MeanTimeParam, schema.T50Param},
		Values: [][]float64{{1, 0.8}, {0.8, math.NaN()}},
		Counts: [][]int{{3, 3}, {3, 3}},
	}

	rows := ConvertCorrelations([]schema.CorrelationMatrix{m})
	require.Len(t, rows, 4)
	assert.Equal(t, "mean_time", rows[1].Row)
	assert.Equal(t, "t50", rows[1].Column)
	require.NotNil(t, rows[1].Coefficient)
	assert.InDelta(t, 0.8, *rows[1].Coefficient, 1e-12)
	assert.Nil(t, rows[3].Coefficient)
	assert.Equal(t, int32(3), rows[3].Count)

	outputPath := filepath.Join(t.TempDir(), "correlations.parquet")
	require.NoError(t, WriteCorrelationsParquet(rows, outputPath))
	assert.Len(t, readAll[CorrelationEntry](t, outputPath), 4)
}

func TestWrite_ToBuffer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleRuns()))
	assert.Greater(t, buf.Len(), 0)

	file, err := parquet.OpenFile(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, int64(2), file.NumRows())
}

func TestWriteParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteAnalysisRunsParquet([]AnalysisRun{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteParquet_InvalidPath(t *testing.T) {
	err := WriteAnalysisRunsParquet(sampleRuns(), "/nonexistent/directory/output.parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestConvertAnalysisRunRecords(t *testing.T) {
	end := time.Now()
	duration := int32(15)
	records := []schema.AnalysisRunRecord{
		{AnalysisID: 3, RunID: "abc", StartTime: end.Add(-time.Second), EndTime: &end, RunDurationMs: &duration, TotalReplicates: 4, FailedReplicates: 2},
	}

	runs := ConvertAnalysisRunRecords(records)
	require.Len(t, runs, 1)
	assert.Equal(t, int64(3), runs[0].AnalysisID)
	assert.Equal(t, "abc", runs[0].RunID)
	assert.Equal(t, int32(4), runs[0].TotalReplicates)
	assert.Equal(t, int32(2), runs[0].FailedReplicates)
	assert.Equal(t, &duration, runs[0].RunDurationMs)
	assert.Nil(t, runs[0].ConfigParams)
}
