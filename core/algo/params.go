package algo

import (
	"fmt"
	"math"

	"github.com/huangsam/germtrack/schema"
)

// ComputeParameters derives every germination index of a single replicate.
// Indices that are mathematically undefined for the curve are NaN.
// Only days with a positive count take part in the time-based indices.
func ComputeParameters(c schema.ReplicateCurve, basis schema.T50Basis) (schema.ParameterSet, error) {
	if c.SeedTotal <= 0 {
		return schema.ParameterSet{}, &InvalidInputError{
			Replicate: c.Replicate,
			Reason:    fmt.Sprintf("seed total must be positive (received %d)", c.SeedTotal),
		}
	}

	germinated := c.Final()
	p := schema.ParameterSet{
		Treatment:  c.Treatment,
		Replicate:  c.Replicate,
		SeedTotal:  c.SeedTotal,
		Germinated: germinated,
	}

	var sumN, sumNT, maguire float64
	for _, pt := range c.Points {
		if pt.Daily <= 0 {
			continue
		}
		if pt.Day <= 0 {
			return schema.ParameterSet{}, &InvalidInputError{
				Replicate: c.Replicate,
				Reason:    fmt.Sprintf("germination recorded on day %d", pt.Day),
			}
		}
		n, t := float64(pt.Daily), float64(pt.Day)
		sumN += n
		sumNT += n * t
		maguire += n / t
	}

	p.Germinability = 100 * float64(germinated) / float64(c.SeedTotal)
	p.ArcSine = arcSineDegrees(p.Germinability)
	p.MaguireIndex = maguire

	p.MeanTime = math.NaN()
	if sumN > 0 {
		p.MeanTime = sumNT / sumN
	}
	p.Variance = timeVariance(c.Points, p.MeanTime, sumN)
	p.StdDev = math.Sqrt(p.Variance)

	p.CoefficientOfVariation = math.NaN()
	p.MeanRate = math.NaN()
	if !math.IsNaN(p.MeanTime) && p.MeanTime != 0 {
		p.CoefficientOfVariation = 100 * p.StdDev / p.MeanTime
		p.MeanRate = 1 / p.MeanTime
	}

	p.Uncertainty = uncertainty(c.Points, sumN)
	p.Synchrony = synchrony(c.Points, sumN)
	p.T50 = t50(c, basis)

	return p, nil
}

// timeVariance is Σn(t−MGT)²/(Σn−1), undefined for fewer than two seeds.
func timeVariance(points []schema.CurvePoint, mgt, sumN float64) float64 {
	if sumN <= 1 || math.IsNaN(mgt) {
		return math.NaN()
	}
	var ss float64
	for _, pt := range points {
		if pt.Daily <= 0 {
			continue
		}
		d := float64(pt.Day) - mgt
		ss += float64(pt.Daily) * d * d
	}
	return ss / (sumN - 1)
}

// uncertainty is the Shannon entropy in bits of the germination-time distribution.
func uncertainty(points []schema.CurvePoint, sumN float64) float64 {
	if sumN == 0 {
		return math.NaN()
	}
	u := 0.0
	for _, pt := range points {
		if pt.Daily <= 0 {
			continue
		}
		f := float64(pt.Daily) / sumN
		u -= f * math.Log2(f)
	}
	return u
}

// synchrony is ΣC(n,2)/C(Σn,2), undefined for fewer than two seeds.
func synchrony(points []schema.CurvePoint, sumN float64) float64 {
	if sumN < 2 {
		return math.NaN()
	}
	var pairs float64
	for _, pt := range points {
		n := float64(pt.Daily)
		if n > 1 {
			pairs += n * (n - 1) / 2
		}
	}
	return pairs / (sumN * (sumN - 1) / 2)
}

// t50 interpolates the day at which the cumulative proportion first reaches one half.
func t50(c schema.ReplicateCurve, basis schema.T50Basis) float64 {
	denom := float64(c.SeedTotal)
	if basis == schema.GerminatedBasis {
		denom = float64(c.Final())
	}
	if denom <= 0 {
		return math.NaN()
	}

	for i, pt := range c.Points {
		pb := float64(pt.Cumulative) / denom
		if pb < 0.5 {
			continue
		}
		if i == 0 {
			return float64(pt.Day)
		}
		prev := c.Points[i-1]
		pa := float64(prev.Cumulative) / denom
		ta, tb := float64(prev.Day), float64(pt.Day)
		return ta + (0.5-pa)/(pb-pa)*(tb-ta)
	}
	return math.NaN()
}

// arcSineDegrees is the angular transform of a percentage.
func arcSineDegrees(percent float64) float64 {
	x := math.Sqrt(percent / 100)
	return math.Asin(math.Min(x, 1)) * 180 / math.Pi
}
