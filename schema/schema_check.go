package schema

// CheckResult holds the results of a germination threshold check.
type CheckResult struct {
	Passed           bool
	Threshold        float64
	TotalTreatments  int
	TotalReplicates  int
	FailedTreatments []CheckFailedTreatment
	Failures         []UnitFailure
	MeanScores       map[string]float64 // Mean germinability per treatment
}

// CheckFailedTreatment represents a treatment whose mean germinability fell below the threshold.
type CheckFailedTreatment struct {
	Treatment     string
	Germinability float64
	Threshold     float64
}

// CheckRender is the serializable form of a CheckResult.
type CheckRender struct {
	Passed           bool                `json:"passed"`
	Threshold        float64             `json:"threshold"`
	TotalTreatments  int                 `json:"total_treatments"`
	TotalReplicates  int                 `json:"total_replicates"`
	FailedTreatments []CheckFailedRender `json:"failed_treatments"`
	Failures         []UnitFailure       `json:"failures"`
	MeanScores       map[string]*float64 `json:"mean_scores"`
}

// CheckFailedRender is the serializable form of a CheckFailedTreatment.
type CheckFailedRender struct {
	Treatment     string   `json:"treatment"`
	Germinability *float64 `json:"germinability"`
	Threshold     float64  `json:"threshold"`
}

// RenderCheck converts a check result into its serializable form.
func RenderCheck(r *CheckResult) CheckRender {
	out := CheckRender{
		Passed:           r.Passed,
		Threshold:        r.Threshold,
		TotalTreatments:  r.TotalTreatments,
		TotalReplicates:  r.TotalReplicates,
		FailedTreatments: make([]CheckFailedRender, len(r.FailedTreatments)),
		Failures:         r.Failures,
		MeanScores:       make(map[string]*float64, len(r.MeanScores)),
	}
	if out.Failures == nil {
		out.Failures = []UnitFailure{}
	}
	for i, f := range r.FailedTreatments {
		out.FailedTreatments[i] = CheckFailedRender{
			Treatment:     f.Treatment,
			Germinability: Nullable(f.Germinability),
			Threshold:     f.Threshold,
		}
	}
	for name, v := range r.MeanScores {
		out.MeanScores[name] = Nullable(v)
	}
	return out
}
