// Package schema has configs, models and enums shared by all parts of germtrack.
package schema

import "math"

// RawObservation is the day-by-replicate count matrix for one treatment.
// Counts[d][r] is the number of seeds newly germinated on Days[d] for
// Replicates[r]. A nil cell means the day was not recorded for that replicate.
type RawObservation struct {
	Days       []int    // Observation days, ascending
	Replicates []string // Stable replicate identifiers
	SeedTotals []int    // Seeds sown per replicate, aligned with Replicates
	Counts     [][]*int // Daily counts, indexed [day][replicate]
}

// TreatmentInput names one treatment and its observation matrix.
type TreatmentInput struct {
	Name        string
	Observation RawObservation
}

// ReplicateSeries holds the recorded days of a single replicate.
type ReplicateSeries struct {
	Treatment string
	Replicate string
	SeedTotal int
	Days      []int
	Counts    []int
}

// Series splits the matrix into one ReplicateSeries per replicate.
// Absent cells are dropped so that missing days never count as zero.
// Rows shorter than the replicate list are treated as absent for the missing columns.
func (o RawObservation) Series(treatment string) []ReplicateSeries {
	out := make([]ReplicateSeries, len(o.Replicates))
	for r, id := range o.Replicates {
		s := ReplicateSeries{Treatment: treatment, Replicate: id}
		if r < len(o.SeedTotals) {
			s.SeedTotal = o.SeedTotals[r]
		}
		for d, day := range o.Days {
			if d >= len(o.Counts) || r >= len(o.Counts[d]) || o.Counts[d][r] == nil {
				continue
			}
			s.Days = append(s.Days, day)
			s.Counts = append(s.Counts, *o.Counts[d][r])
		}
		out[r] = s
	}
	return out
}

// CurvePoint is one day of a replicate's germination curve.
type CurvePoint struct {
	Day        int     `json:"day"`
	Daily      int     `json:"daily"`
	Cumulative int     `json:"cumulative"`
	Proportion float64 `json:"proportion"`
}

// ReplicateCurve is the cumulative germination curve of one replicate.
type ReplicateCurve struct {
	Treatment string       `json:"treatment"`
	Replicate string       `json:"replicate"`
	SeedTotal int          `json:"seed_total"`
	Points    []CurvePoint `json:"points"`
}

// Final returns the final cumulative count, or 0 for an empty curve.
func (c ReplicateCurve) Final() int {
	if len(c.Points) == 0 {
		return 0
	}
	return c.Points[len(c.Points)-1].Cumulative
}

// ParameterSet holds the germination indices of a single replicate.
// Undefined indices are NaN.
type ParameterSet struct {
	Treatment  string
	Replicate  string
	SeedTotal  int
	Germinated int

	Germinability          float64 // G%, percent of sown seeds germinated
	MeanTime               float64 // MGT in days
	Variance               float64 // Variance of germination time
	StdDev                 float64 // Standard deviation of germination time
	CoefficientOfVariation float64 // CVt in percent
	MeanRate               float64 // MGR, reciprocal of MGT
	Uncertainty            float64 // U in bits
	Synchrony              float64 // Z
	MaguireIndex           float64 // Speed of germination
	T50                    float64 // Day at which half the seeds germinated
	ArcSine                float64 // asin(sqrt(G%/100)) in degrees
}

// Value returns the index stored under the given parameter name.
func (p ParameterSet) Value(name ParameterName) float64 {
	switch name {
	case GerminabilityParam:
		return p.Germinability
	case MeanTimeParam:
		return p.MeanTime
	case VarianceParam:
		return p.Variance
	case StdDevParam:
		return p.StdDev
	case CVTimeParam:
		return p.CoefficientOfVariation
	case MeanRateParam:
		return p.MeanRate
	case UncertaintyParam:
		return p.Uncertainty
	case SynchronyParam:
		return p.Synchrony
	case MaguireParam:
		return p.MaguireIndex
	case T50Param:
		return p.T50
	case ArcSineParam:
		return p.ArcSine
	default:
		return math.NaN()
	}
}

// DayStat holds the cross-replicate statistics for one day of a treatment.
type DayStat struct {
	Day            int
	Contributors   int
	MeanCumulative float64
	StdCumulative  float64
	MeanDaily      float64
	StdDaily       float64
	MeanProportion float64
	StdProportion  float64
}

// ParameterStat is the mean and sample standard deviation of one index
// over the replicates where it is defined.
type ParameterStat struct {
	Name   ParameterName
	Mean   float64
	StdDev float64
	Count  int
}

// TreatmentSummary aggregates the replicates of one treatment.
type TreatmentSummary struct {
	Treatment  string
	Replicates int
	Days       []DayStat
	Parameters []ParameterStat
}

// Parameter returns the stat for a parameter name, if present.
func (s TreatmentSummary) Parameter(name ParameterName) (ParameterStat, bool) {
	for _, p := range s.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterStat{}, false
}

// CorrelationMatrix is a symmetric matrix of pairwise Pearson coefficients.
type CorrelationMatrix struct {
	Scope  string          // "global" or a treatment name
	Names  []ParameterName // Row and column order
	Values [][]float64     // Coefficients, NaN where undefined
	Counts [][]int         // Pairwise-complete observation counts
}

// At returns the coefficient for a pair of parameters, or NaN if either is absent.
func (m CorrelationMatrix) At(a, b ParameterName) float64 {
	i, j := -1, -1
	for k, n := range m.Names {
		if n == a {
			i = k
		}
		if n == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return math.NaN()
	}
	return m.Values[i][j]
}

// UnitFailure records a replicate that could not be analyzed.
type UnitFailure struct {
	Treatment string      `json:"treatment"`
	Replicate string      `json:"replicate"`
	Kind      FailureKind `json:"kind"`
	Message   string      `json:"message"`
}

// AnalysisOptions controls a single pipeline run.
type AnalysisOptions struct {
	Workers          int
	CorrelationScope CorrelationScope
	T50Basis         T50Basis
}

// TreatmentResult bundles the per-replicate and aggregated output of a treatment.
type TreatmentResult struct {
	Name       string
	Curves     []ReplicateCurve
	Parameters []ParameterSet
	Summary    TreatmentSummary
}

// AnalysisResult is the output of one pipeline run.
type AnalysisResult struct {
	RunID        string
	Options      AnalysisOptions
	Treatments   []TreatmentResult
	Correlations []CorrelationMatrix
	Failures     []UnitFailure
}

// AllParameterSets flattens the parameter sets of every treatment in input order.
func (r *AnalysisResult) AllParameterSets() []ParameterSet {
	var out []ParameterSet
	for _, t := range r.Treatments {
		out = append(out, t.Parameters...)
	}
	return out
}

// ReplicateCount returns the number of replicates that were analyzed successfully.
func (r *AnalysisResult) ReplicateCount() int {
	n := 0
	for _, t := range r.Treatments {
		n += len(t.Parameters)
	}
	return n
}
