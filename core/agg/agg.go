// Package agg has aggregation logic for the replicates of a treatment.
package agg

import (
	"slices"

	"github.com/huangsam/germtrack/core/algo"
	"github.com/huangsam/germtrack/schema"
)

// AggregateTreatment combines the curves and parameter sets of one treatment.
// Day statistics run over the union of observed days; a replicate contributes
// to a day only if it recorded that day. Parameter statistics skip undefined
// values, so Count may differ between indices.
func AggregateTreatment(name string, curves []schema.ReplicateCurve, params []schema.ParameterSet) schema.TreatmentSummary {
	return schema.TreatmentSummary{
		Treatment:  name,
		Replicates: len(curves),
		Days:       aggregateDays(curves),
		Parameters: aggregateParameters(params),
	}
}

// dayBucket collects the per-replicate values observed on one day.
type dayBucket struct {
	cumulative []float64
	daily      []float64
	proportion []float64
}

// aggregateDays computes mean and sample std per day over contributing replicates.
func aggregateDays(curves []schema.ReplicateCurve) []schema.DayStat {
	buckets := make(map[int]*dayBucket)
	for _, c := range curves {
		for _, pt := range c.Points {
			b, ok := buckets[pt.Day]
			if !ok {
				b = &dayBucket{}
				buckets[pt.Day] = b
			}
			b.cumulative = append(b.cumulative, float64(pt.Cumulative))
			b.daily = append(b.daily, float64(pt.Daily))
			b.proportion = append(b.proportion, pt.Proportion)
		}
	}

	days := make([]int, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	slices.Sort(days)

	stats := make([]schema.DayStat, 0, len(days))
	for _, day := range days {
		b := buckets[day]
		stats = append(stats, schema.DayStat{
			Day:            day,
			Contributors:   len(b.cumulative),
			MeanCumulative: algo.Mean(b.cumulative),
			StdCumulative:  algo.SampleStdDev(b.cumulative),
			MeanDaily:      algo.Mean(b.daily),
			StdDaily:       algo.SampleStdDev(b.daily),
			MeanProportion: algo.Mean(b.proportion),
			StdProportion:  algo.SampleStdDev(b.proportion),
		})
	}
	return stats
}

// aggregateParameters computes mean and sample std of every index over its defined values.
func aggregateParameters(params []schema.ParameterSet) []schema.ParameterStat {
	stats := make([]schema.ParameterStat, 0, len(schema.AllParameters))
	values := make([]float64, 0, len(params))
	for _, name := range schema.AllParameters {
		values = values[:0]
		for _, p := range params {
			values = append(values, p.Value(name))
		}
		defined := algo.Defined(values)
		stats = append(stats, schema.ParameterStat{
			Name:   name,
			Mean:   algo.Mean(defined),
			StdDev: algo.SampleStdDev(defined),
			Count:  len(defined),
		})
	}
	return stats
}
