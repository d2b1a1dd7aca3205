package core

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/huangsam/germtrack/core/agg"
	"github.com/huangsam/germtrack/core/algo"
	"github.com/huangsam/germtrack/schema"
	"golang.org/x/sync/errgroup"
)

// replicateJob is one unit of stage-1 work.
type replicateJob struct {
	treatment int
	slot      int
	series    schema.ReplicateSeries
}

// replicateOutcome is the stage-1 result written into a pre-indexed slot.
type replicateOutcome struct {
	curve  schema.ReplicateCurve
	params schema.ParameterSet
	err    error
}

// RunAnalysis computes curves, indices, treatment summaries and correlations
// for every treatment. A replicate that fails is recorded in Failures and
// skipped; the rest of the run continues. The result is identical for any
// worker count. A cancelled context aborts the run with ctx.Err().
func RunAnalysis(ctx context.Context, treatments []schema.TreatmentInput, opts schema.AnalysisOptions) (*schema.AnalysisResult, error) {
	opts = normalizeOptions(opts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// --- 1. Per-replicate curves and indices ---
	outcomes, jobs := planReplicates(treatments)
	analyzeReplicates(ctx, opts, jobs, outcomes)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &schema.AnalysisResult{
		RunID:      uuid.NewString(),
		Options:    opts,
		Treatments: make([]schema.TreatmentResult, len(treatments)),
		Failures:   []schema.UnitFailure{},
	}
	for i, t := range treatments {
		tr := schema.TreatmentResult{
			Name:       t.Name,
			Curves:     []schema.ReplicateCurve{},
			Parameters: []schema.ParameterSet{},
		}
		for slot, out := range outcomes[i] {
			if out.err != nil {
				result.Failures = append(result.Failures, newUnitFailure(t.Name, t.Observation.Replicates[slot], out.err))
				continue
			}
			tr.Curves = append(tr.Curves, out.curve)
			tr.Parameters = append(tr.Parameters, out.params)
		}
		result.Treatments[i] = tr
	}

	// --- 2. Per-treatment aggregation ---
	if err := aggregateTreatments(ctx, opts.Workers, result.Treatments); err != nil {
		return nil, err
	}

	// --- 3. Correlation ---
	result.Correlations = correlate(opts.CorrelationScope, result)

	return result, nil
}

// normalizeOptions fills zero values with defaults.
func normalizeOptions(opts schema.AnalysisOptions) schema.AnalysisOptions {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.CorrelationScope == "" {
		opts.CorrelationScope = schema.GlobalScope
	}
	if opts.T50Basis == "" {
		opts.T50Basis = schema.SownBasis
	}
	return opts
}

// planReplicates allocates one outcome slot per replicate and lists the jobs in input order.
func planReplicates(treatments []schema.TreatmentInput) ([][]replicateOutcome, []replicateJob) {
	outcomes := make([][]replicateOutcome, len(treatments))
	var jobs []replicateJob
	for i, t := range treatments {
		series := t.Observation.Series(t.Name)
		outcomes[i] = make([]replicateOutcome, len(series))
		for slot, s := range series {
			jobs = append(jobs, replicateJob{treatment: i, slot: slot, series: s})
		}
	}
	return outcomes, jobs
}

// analyzeReplicates processes all jobs in parallel using a worker pool.
// Each worker writes to a unique slot, so no locking is needed.
func analyzeReplicates(ctx context.Context, opts schema.AnalysisOptions, jobs []replicateJob, outcomes [][]replicateOutcome) {
	jobCh := make(chan replicateJob, len(jobs))
	var wg sync.WaitGroup

	for range min(opts.Workers, max(len(jobs), 1)) {
		wg.Go(func() {
			for job := range jobCh {
				if ctx.Err() != nil {
					continue
				}
				outcomes[job.treatment][job.slot] = analyzeReplicate(job.series, opts.T50Basis)
			}
		})
	}

	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)

	wg.Wait()
}

// analyzeReplicate runs the curve and index kernels for one replicate.
func analyzeReplicate(s schema.ReplicateSeries, basis schema.T50Basis) replicateOutcome {
	curve, err := algo.BuildCurve(s)
	if err != nil {
		return replicateOutcome{err: err}
	}
	params, err := algo.ComputeParameters(curve, basis)
	if err != nil {
		return replicateOutcome{err: err}
	}
	return replicateOutcome{curve: curve, params: params}
}

// aggregateTreatments summarizes every treatment, at most workers at a time.
func aggregateTreatments(ctx context.Context, workers int, treatments []schema.TreatmentResult) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range treatments {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tr := &treatments[i]
			tr.Summary = agg.AggregateTreatment(tr.Name, tr.Curves, tr.Parameters)
			return nil
		})
	}
	return g.Wait()
}

// correlate builds the global matrix, or one matrix per treatment.
func correlate(scope schema.CorrelationScope, result *schema.AnalysisResult) []schema.CorrelationMatrix {
	if scope == schema.TreatmentScope {
		out := make([]schema.CorrelationMatrix, 0, len(result.Treatments))
		for _, tr := range result.Treatments {
			out = append(out, algo.Correlate(tr.Name, tr.Parameters, schema.AllParameters))
		}
		return out
	}
	return []schema.CorrelationMatrix{
		algo.Correlate(string(schema.GlobalScope), result.AllParameterSets(), schema.AllParameters),
	}
}

// newUnitFailure classifies an engine error for the failure list.
func newUnitFailure(treatment, replicate string, err error) schema.UnitFailure {
	kind := schema.InvalidInputFailure
	if errors.Is(err, algo.ErrMalformedSeries) {
		kind = schema.MalformedSeriesFailure
	}
	return schema.UnitFailure{
		Treatment: treatment,
		Replicate: replicate,
		Kind:      kind,
		Message:   err.Error(),
	}
}
