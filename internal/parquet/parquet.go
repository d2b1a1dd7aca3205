// Package parquet provides data structures and functions for exporting germination
// analysis data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/germtrack/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single recorded analysis run with metadata.
// This struct maps to the germtrack_analysis_runs database table.
type AnalysisRun struct {
	// AnalysisID is the store-assigned identifier for this analysis run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// RunID is the engine-assigned UUID of the run
	RunID string `parquet:"run_id,snappy"`

	// StartTime is when the analysis began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the analysis completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the analysis run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalReplicates is the number of replicates analyzed successfully
	TotalReplicates int32 `parquet:"total_replicates,snappy"`

	// FailedReplicates is the number of replicates skipped with a failure
	FailedReplicates int32 `parquet:"failed_replicates,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ReplicateParameters holds the germination indices of one replicate.
// Undefined indices are written as nulls.
// This struct maps to the germtrack_replicate_parameters database table.
type ReplicateParameters struct {
	AnalysisID             int64     `parquet:"analysis_id,snappy"`
	Treatment              string    `parquet:"treatment,snappy,dict"`
	Replicate              string    `parquet:"replicate,snappy"`
	AnalysisTime           time.Time `parquet:"analysis_time,snappy"`
	SeedTotal              int32     `parquet:"seed_total,snappy"`
	Germinated             int32     `parquet:"germinated,snappy"`
	Germinability          *float64  `parquet:"germinability,optional,snappy"`
	MeanTime               *float64  `parquet:"mean_time,optional,snappy"`
	Variance               *float64  `parquet:"variance,optional,snappy"`
	StdDev                 *float64  `parquet:"std_dev,optional,snappy"`
	CoefficientOfVariation *float64  `parquet:"cv_time,optional,snappy"`
	MeanRate               *float64  `parquet:"mean_rate,optional,snappy"`
	Uncertainty            *float64  `parquet:"uncertainty,optional,snappy"`
	Synchrony              *float64  `parquet:"synchrony,optional,snappy"`
	MaguireIndex           *float64  `parquet:"maguire_index,optional,snappy"`
	T50                    *float64  `parquet:"t50,optional,snappy"`
	ArcSine                *float64  `parquet:"arcsine,optional,snappy"`
}

// DaySummary is one day of a treatment's aggregated germination curve.
type DaySummary struct {
	Treatment      string   `parquet:"treatment,snappy,dict"`
	Day            int32    `parquet:"day,snappy"`
	Contributors   int32    `parquet:"contributors,snappy"`
	MeanCumulative *float64 `parquet:"mean_cumulative,optional,snappy"`
	StdCumulative  *float64 `parquet:"std_cumulative,optional,snappy"`
	MeanDaily      *float64 `parquet:"mean_daily,optional,snappy"`
	StdDaily       *float64 `parquet:"std_daily,optional,snappy"`
	MeanProportion *float64 `parquet:"mean_proportion,optional,snappy"`
	StdProportion  *float64 `parquet:"std_proportion,optional,snappy"`
}

// CorrelationEntry is one cell of a correlation matrix in long form.
type CorrelationEntry struct {
	Scope       string   `parquet:"scope,snappy,dict"`
	Row         string   `parquet:"row_param,snappy,dict"`
	Column      string   `parquet:"column_param,snappy,dict"`
	Coefficient *float64 `parquet:"coefficient,optional,snappy"`
	Count       int32    `parquet:"pair_count,snappy"`
}

// Write encodes rows to w using the schema inferred from T's struct tags.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows into it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return Write(file, rows)
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteReplicateParametersParquet writes a slice of ReplicateParameters structs to a Parquet file.
func WriteReplicateParametersParquet(data []ReplicateParameters, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteDaySummariesParquet writes a slice of DaySummary structs to a Parquet file.
func WriteDaySummariesParquet(data []DaySummary, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteCorrelationsParquet writes a slice of CorrelationEntry structs to a Parquet file.
func WriteCorrelationsParquet(data []CorrelationEntry, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:       record.AnalysisID,
			RunID:            record.RunID,
			StartTime:        record.StartTime,
			EndTime:          record.EndTime,
			RunDurationMs:    record.RunDurationMs,
			TotalReplicates:  record.TotalReplicates,
			FailedReplicates: record.FailedReplicates,
			ConfigParams:     record.ConfigParams,
		}
	}
	return result
}

// ConvertReplicateRecords converts schema.ReplicateRecord to ReplicateParameters for Parquet export.
func ConvertReplicateRecords(records []schema.ReplicateRecord) []ReplicateParameters {
	result := make([]ReplicateParameters, len(records))
	for i, r := range records {
		result[i] = ReplicateParameters{
			AnalysisID:             r.AnalysisID,
			Treatment:              r.Treatment,
			Replicate:              r.Replicate,
			AnalysisTime:           r.AnalysisTime,
			SeedTotal:              r.SeedTotal,
			Germinated:             r.Germinated,
			Germinability:          r.Germinability,
			MeanTime:               r.MeanTime,
			Variance:               r.Variance,
			StdDev:                 r.StdDev,
			CoefficientOfVariation: r.CoefficientOfVariation,
			MeanRate:               r.MeanRate,
			Uncertainty:            r.Uncertainty,
			Synchrony:              r.Synchrony,
			MaguireIndex:           r.MaguireIndex,
			T50:                    r.T50,
			ArcSine:                r.ArcSine,
		}
	}
	return result
}

// ConvertParameterSets converts freshly computed parameter sets for Parquet export.
// analysisID is 0 when the run was not recorded in a history store.
func ConvertParameterSets(analysisID int64, at time.Time, sets []schema.ParameterSet) []ReplicateParameters {
	records := make([]schema.ReplicateRecord, len(sets))
	for i, p := range sets {
		records[i] = schema.NewReplicateRecord(analysisID, at, p)
	}
	return ConvertReplicateRecords(records)
}

// ConvertTreatmentCurves flattens the per-day statistics of every treatment.
func ConvertTreatmentCurves(treatments []schema.TreatmentResult) []DaySummary {
	var result []DaySummary
	for _, t := range treatments {
		for _, d := range t.Summary.Days {
			result = append(result, DaySummary{
				Treatment:      t.Name,
				Day:            int32(d.Day),
				Contributors:   int32(d.Contributors),
				MeanCumulative: schema.Nullable(d.MeanCumulative),
				StdCumulative:  schema.Nullable(d.StdCumulative),
				MeanDaily:      schema.Nullable(d.MeanDaily),
				StdDaily:       schema.Nullable(d.StdDaily),
				MeanProportion: schema.Nullable(d.MeanProportion),
				StdProportion:  schema.Nullable(d.StdProportion),
			})
		}
	}
	return result
}

// ConvertCorrelations flattens correlation matrices into long form.
func ConvertCorrelations(matrices []schema.CorrelationMatrix) []CorrelationEntry {
	var result []CorrelationEntry
	for _, m := range matrices {
		for i, row := range m.Names {
			for j, col := range m.Names {
				result = append(result, CorrelationEntry{
					Scope:       m.Scope,
					Row:         string(row),
					Column:      string(col),
					Coefficient: schema.Nullable(m.Values[i][j]),
					Count:       int32(m.Counts[i][j]),
				})
			}
		}
	}
	return result
}
