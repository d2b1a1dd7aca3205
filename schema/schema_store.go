package schema

import "time"

// AnalysisRunRecord represents a row from the germtrack_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID       int64
	RunID            string
	StartTime        time.Time
	EndTime          *time.Time
	RunDurationMs    *int32
	TotalReplicates  int32
	FailedReplicates int32
	ConfigParams     *string
}

// ReplicateRecord represents a row from the germtrack_replicate_parameters table.
// Undefined indices are stored as NULL and surface here as nil.
type ReplicateRecord struct {
	AnalysisID             int64
	Treatment              string
	Replicate              string
	AnalysisTime           time.Time
	SeedTotal              int32
	Germinated             int32
	Germinability          *float64
	MeanTime               *float64
	Variance               *float64
	StdDev                 *float64
	CoefficientOfVariation *float64
	MeanRate               *float64
	Uncertainty            *float64
	Synchrony              *float64
	MaguireIndex           *float64
	T50                    *float64
	ArcSine                *float64
}

// NewReplicateRecord converts a parameter set into its stored form.
func NewReplicateRecord(analysisID int64, at time.Time, p ParameterSet) ReplicateRecord {
	return ReplicateRecord{
		AnalysisID:             analysisID,
		Treatment:              p.Treatment,
		Replicate:              p.Replicate,
		AnalysisTime:           at,
		SeedTotal:              int32(p.SeedTotal),
		Germinated:             int32(p.Germinated),
		Germinability:          Nullable(p.Germinability),
		MeanTime:               Nullable(p.MeanTime),
		Variance:               Nullable(p.Variance),
		StdDev:                 Nullable(p.StdDev),
		CoefficientOfVariation: Nullable(p.CoefficientOfVariation),
		MeanRate:               Nullable(p.MeanRate),
		Uncertainty:            Nullable(p.Uncertainty),
		Synchrony:              Nullable(p.Synchrony),
		MaguireIndex:           Nullable(p.MaguireIndex),
		T50:                    Nullable(p.T50),
		ArcSine:                Nullable(p.ArcSine),
	}
}
