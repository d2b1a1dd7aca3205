package schema

// ParameterRender is the serializable form of a ParameterSet.
// Undefined indices become null.
type ParameterRender struct {
	Treatment              string   `json:"treatment"`
	Replicate              string   `json:"replicate"`
	SeedTotal              int      `json:"seed_total"`
	Germinated             int      `json:"germinated"`
	Germinability          *float64 `json:"germinability"`
	MeanTime               *float64 `json:"mean_time"`
	Variance               *float64 `json:"variance"`
	StdDev                 *float64 `json:"std_dev"`
	CoefficientOfVariation *float64 `json:"cv_time"`
	MeanRate               *float64 `json:"mean_rate"`
	Uncertainty            *float64 `json:"uncertainty"`
	Synchrony              *float64 `json:"synchrony"`
	MaguireIndex           *float64 `json:"maguire_index"`
	T50                    *float64 `json:"t50"`
	ArcSine                *float64 `json:"arcsine"`
}

// ParameterStatRender is the serializable form of a ParameterStat.
type ParameterStatRender struct {
	Name   ParameterName `json:"name"`
	Mean   *float64      `json:"mean"`
	StdDev *float64      `json:"std_dev"`
	Count  int           `json:"count"`
}

// DayStatRender is the serializable form of a DayStat.
type DayStatRender struct {
	Day            int      `json:"day"`
	Contributors   int      `json:"contributors"`
	MeanCumulative *float64 `json:"mean_cumulative"`
	StdCumulative  *float64 `json:"std_cumulative"`
	MeanDaily      *float64 `json:"mean_daily"`
	StdDaily       *float64 `json:"std_daily"`
	MeanProportion *float64 `json:"mean_proportion"`
	StdProportion  *float64 `json:"std_proportion"`
}

// TreatmentRender is the serializable form of a TreatmentResult.
type TreatmentRender struct {
	Name            string                `json:"name"`
	Replicates      int                   `json:"replicates"`
	Parameters      []ParameterRender     `json:"parameters"`
	Summary         []ParameterStatRender `json:"summary"`
	Curve           []DayStatRender       `json:"curve"`
	ReplicateCurves []ReplicateCurve      `json:"replicate_curves"`
}

// CorrelationRender is the serializable form of a CorrelationMatrix.
type CorrelationRender struct {
	Scope  string          `json:"scope"`
	Names  []ParameterName `json:"names"`
	Values [][]*float64    `json:"values"`
	Counts [][]int         `json:"counts"`
}

// ResultRender is the serializable form of an AnalysisResult.
type ResultRender struct {
	RunID            string              `json:"run_id"`
	CorrelationScope CorrelationScope    `json:"correlation_scope"`
	T50Basis         T50Basis            `json:"t50_basis"`
	Treatments       []TreatmentRender   `json:"treatments"`
	Correlations     []CorrelationRender `json:"correlations"`
	Failures         []UnitFailure       `json:"failures"`
}

// RenderParameters converts parameter sets into their serializable form.
func RenderParameters(sets []ParameterSet) []ParameterRender {
	out := make([]ParameterRender, len(sets))
	for i, p := range sets {
		out[i] = ParameterRender{
			Treatment:              p.Treatment,
			Replicate:              p.Replicate,
			SeedTotal:              p.SeedTotal,
			Germinated:             p.Germinated,
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
	return out
}

// RenderSummary converts the parameter statistics of a summary.
func RenderSummary(s TreatmentSummary) []ParameterStatRender {
	out := make([]ParameterStatRender, len(s.Parameters))
	for i, p := range s.Parameters {
		out[i] = ParameterStatRender{
			Name:   p.Name,
			Mean:   Nullable(p.Mean),
			StdDev: Nullable(p.StdDev),
			Count:  p.Count,
		}
	}
	return out
}

// RenderCurve converts the per-day statistics of a summary.
func RenderCurve(s TreatmentSummary) []DayStatRender {
	out := make([]DayStatRender, len(s.Days))
	for i, d := range s.Days {
		out[i] = DayStatRender{
			Day:            d.Day,
			Contributors:   d.Contributors,
			MeanCumulative: Nullable(d.MeanCumulative),
			StdCumulative:  Nullable(d.StdCumulative),
			MeanDaily:      Nullable(d.MeanDaily),
			StdDaily:       Nullable(d.StdDaily),
			MeanProportion: Nullable(d.MeanProportion),
			StdProportion:  Nullable(d.StdProportion),
		}
	}
	return out
}

// RenderCorrelation converts a correlation matrix.
func RenderCorrelation(m CorrelationMatrix) CorrelationRender {
	values := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]*float64, len(row))
		for j, v := range row {
			values[i][j] = Nullable(v)
		}
	}
	return CorrelationRender{
		Scope:  m.Scope,
		Names:  m.Names,
		Values: values,
		Counts: m.Counts,
	}
}

// RenderResult converts a full analysis result into its serializable form.
func RenderResult(r *AnalysisResult) ResultRender {
	out := ResultRender{
		RunID:            r.RunID,
		CorrelationScope: r.Options.CorrelationScope,
		T50Basis:         r.Options.T50Basis,
		Treatments:       make([]TreatmentRender, len(r.Treatments)),
		Correlations:     make([]CorrelationRender, len(r.Correlations)),
		Failures:         r.Failures,
	}
	if out.Failures == nil {
		out.Failures = []UnitFailure{}
	}
	for i, t := range r.Treatments {
		curves := t.Curves
		if curves == nil {
			curves = []ReplicateCurve{}
		}
		out.Treatments[i] = TreatmentRender{
			Name:            t.Name,
			Replicates:      t.Summary.Replicates,
			Parameters:      RenderParameters(t.Parameters),
			Summary:         RenderSummary(t.Summary),
			Curve:           RenderCurve(t.Summary),
			ReplicateCurves: curves,
		}
	}
	for i, m := range r.Correlations {
		out.Correlations[i] = RenderCorrelation(m)
	}
	return out
}
