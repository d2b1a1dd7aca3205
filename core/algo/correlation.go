package algo

import (
	"math"

	"github.com/huangsam/germtrack/schema"
)

// Correlate builds the pairwise Pearson matrix of the named parameters over sets.
// The diagonal is 1.0 for parameters with at least two defined, non-constant
// observations and NaN otherwise. Only the upper triangle is computed; the lower
// triangle mirrors it so the matrix is symmetric by construction.
func Correlate(scope string, sets []schema.ParameterSet, names []schema.ParameterName) schema.CorrelationMatrix {
	if len(names) == 0 {
		names = schema.AllParameters
	}

	columns := make([][]float64, len(names))
	for i, name := range names {
		col := make([]float64, len(sets))
		for r, p := range sets {
			col[r] = p.Value(name)
		}
		columns[i] = col
	}

	k := len(names)
	values := make([][]float64, k)
	counts := make([][]int, k)
	for i := range k {
		values[i] = make([]float64, k)
		counts[i] = make([]int, k)
	}

	for i := range k {
		for j := i; j < k; j++ {
			r, n := Pearson(columns[i], columns[j])
			if i == j && !math.IsNaN(r) {
				r = 1.0
			}
			values[i][j], values[j][i] = r, r
			counts[i][j], counts[j][i] = n, n
		}
	}

	ordered := make([]schema.ParameterName, k)
	copy(ordered, names)
	return schema.CorrelationMatrix{
		Scope:  scope,
		Names:  ordered,
		Values: values,
		Counts: counts,
	}
}
