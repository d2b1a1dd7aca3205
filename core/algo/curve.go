// Package algo has the numeric kernels of the germination engine.
package algo

import (
	"fmt"

	"github.com/huangsam/germtrack/schema"
)

// BuildCurve turns a replicate's daily counts into its cumulative curve.
// Proportions are relative to the replicate's seed total.
func BuildCurve(s schema.ReplicateSeries) (schema.ReplicateCurve, error) {
	if s.SeedTotal <= 0 {
		return schema.ReplicateCurve{}, &InvalidInputError{
			Replicate: s.Replicate,
			Reason:    fmt.Sprintf("seed total must be positive (received %d)", s.SeedTotal),
		}
	}
	if len(s.Days) != len(s.Counts) {
		return schema.ReplicateCurve{}, &MalformedSeriesError{
			Replicate: s.Replicate,
			Index:     min(len(s.Days), len(s.Counts)),
			Reason:    fmt.Sprintf("%d days but %d counts", len(s.Days), len(s.Counts)),
		}
	}

	points := make([]schema.CurvePoint, len(s.Days))
	cumulative := 0
	for i, day := range s.Days {
		if i > 0 && day <= s.Days[i-1] {
			return schema.ReplicateCurve{}, &MalformedSeriesError{
				Replicate: s.Replicate,
				Index:     i,
				Reason:    fmt.Sprintf("day %d does not follow day %d", day, s.Days[i-1]),
			}
		}
		if day < 0 {
			return schema.ReplicateCurve{}, &InvalidInputError{
				Replicate: s.Replicate,
				Reason:    fmt.Sprintf("negative day %d", day),
			}
		}
		n := s.Counts[i]
		if n < 0 {
			return schema.ReplicateCurve{}, &InvalidInputError{
				Replicate: s.Replicate,
				Reason:    fmt.Sprintf("negative count %d on day %d", n, day),
			}
		}
		cumulative += n
		if cumulative > s.SeedTotal {
			return schema.ReplicateCurve{}, &InvalidInputError{
				Replicate: s.Replicate,
				Reason:    fmt.Sprintf("cumulative count %d exceeds seed total %d on day %d", cumulative, s.SeedTotal, day),
			}
		}
		points[i] = schema.CurvePoint{
			Day:        day,
			Daily:      n,
			Cumulative: cumulative,
			Proportion: float64(cumulative) / float64(s.SeedTotal),
		}
	}

	return schema.ReplicateCurve{
		Treatment: s.Treatment,
		Replicate: s.Replicate,
		SeedTotal: s.SeedTotal,
		Points:    points,
	}, nil
}
