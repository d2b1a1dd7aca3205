package schema

import "math"

// IsDefined reports whether v carries a real value rather than the NaN sentinel.
func IsDefined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Nullable converts the NaN sentinel to nil for encoders that cannot carry NaN.
func Nullable(v float64) *float64 {
	if !IsDefined(v) {
		return nil
	}
	return &v
}

// FromNullable converts a nil pointer back into the NaN sentinel.
func FromNullable(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// Round rounds v to the given number of decimals, preserving NaN.
func Round(v float64, decimals int) float64 {
	if !IsDefined(v) {
		return v
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
