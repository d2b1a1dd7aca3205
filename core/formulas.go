package core

import "github.com/huangsam/germtrack/schema"

// formulaDefinitions lists every index in canonical order.
var formulaDefinitions = []schema.FormulaDefinition{
	{
		Name:    schema.GerminabilityParam,
		Title:   "Germinability",
		Formula: "G = 100 * Σn / N",
		Unit:    "%",
	},
	{
		Name:      schema.MeanTimeParam,
		Title:     "Mean germination time",
		Formula:   "MGT = Σ(n*t) / Σn",
		Unit:      "days",
		Undefined: "no seed germinated",
	},
	{
		Name:      schema.VarianceParam,
		Title:     "Variance of germination time",
		Formula:   "s² = Σ n*(t - MGT)² / (Σn - 1)",
		Unit:      "days²",
		Undefined: "fewer than two seeds germinated",
	},
	{
		Name:      schema.StdDevParam,
		Title:     "Standard deviation of germination time",
		Formula:   "s = √s²",
		Unit:      "days",
		Undefined: "fewer than two seeds germinated",
	},
	{
		Name:      schema.CVTimeParam,
		Title:     "Coefficient of variation of germination time",
		Formula:   "CVt = 100 * s / MGT",
		Unit:      "%",
		Undefined: "MGT is undefined or zero",
	},
	{
		Name:      schema.MeanRateParam,
		Title:     "Mean germination rate",
		Formula:   "MGR = 1 / MGT",
		Unit:      "1/days",
		Undefined: "MGT is undefined or zero",
	},
	{
		Name:      schema.UncertaintyParam,
		Title:     "Uncertainty of the germination process",
		Formula:   "U = -Σ f*log2(f), f = n / Σn",
		Unit:      "bits",
		Undefined: "no seed germinated",
	},
	{
		Name:      schema.SynchronyParam,
		Title:     "Synchrony of germination",
		Formula:   "Z = Σ C(n,2) / C(Σn,2)",
		Undefined: "fewer than two seeds germinated",
	},
	{
		Name:    schema.MaguireParam,
		Title:   "Speed of germination (Maguire)",
		Formula: "M = Σ n / t",
		Unit:    "seeds/day",
	},
	{
		Name:      schema.T50Param,
		Title:     "Time to 50% germination",
		Formula:   "T50 = ti + (0.5 - pi)(tj - ti) / (pj - pi)",
		Unit:      "days",
		Undefined: "the cumulative proportion never reaches one half",
	},
	{
		Name:    schema.ArcSineParam,
		Title:   "Arcsine-transformed germinability",
		Formula: "asin(√(G / 100))",
		Unit:    "degrees",
	},
}

// FormulaDefinitions returns the render model describing every germination index.
func FormulaDefinitions(basis schema.T50Basis) *schema.FormulaRenderModel {
	if basis == "" {
		basis = schema.SownBasis
	}
	formulas := make([]schema.FormulaDefinition, len(formulaDefinitions))
	for i, f := range formulaDefinitions {
		f.Label = schema.ParameterLabels[f.Name]
		formulas[i] = f
	}

	denominator := "N, the seeds sown"
	if basis == schema.GerminatedBasis {
		denominator = "Σn, the seeds that germinated"
	}

	return &schema.FormulaRenderModel{
		Title:       "Germination Indices",
		Description: "Indices are computed per replicate from the days with a positive count, then summarized per treatment as mean and sample standard deviation over the replicates where they are defined.",
		T50Basis:    basis,
		Formulas:    formulas,
		Notation: map[string]string{
			"N":      "seeds sown in the replicate",
			"n":      "seeds newly germinated on day t",
			"t":      "observation day",
			"pi, pj": "cumulative proportion on the days around one half, relative to " + denominator,
		},
	}
}
