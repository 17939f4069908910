package disloc

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Option configures an Evaluator
type Option func(*Evaluator)

// WithSolver replaces the per-patch solver
func WithSolver(s Solver) Option {
	return func(e *Evaluator) {
		e.solver = s
	}
}

// WithWorkers sets how many goroutines share the stations. Values below
// one select runtime.GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Evaluator) {
		e.workers = n
	}
}

// WithLogger sets the logger for batch warnings. Per-pair detail is
// logged at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Evaluator) {
		e.log = l
	}
}

// Evaluator runs batch evaluations. It holds no per-batch state and may be
// shared between goroutines.
type Evaluator struct {
	solver  Solver
	workers int
	log     zerolog.Logger
}

// NewEvaluator returns an Evaluator using the Okada solver, all available
// CPUs and no logging unless overridden.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		solver: OkadaSolver{},
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	return e
}

// Evaluate computes displacement, displacement gradient and stress at every
// station from all patches, plus the status of every station/patch pair.
// Physical anomalies never fail the call; they are only recorded in the
// flags. Errors are returned for empty inputs, context cancellation and
// elastic constants outside μ > 0, -1 < ν < 0.5. Such constants are
// rejected up front rather than left to produce NaN or Inf through the
// 1-2ν and λ+2μ divisors.
func (e *Evaluator) Evaluate(ctx context.Context, patches []FaultPatch, obs []ObservationPoint, ec ElasticConstants) (*ResultSet, error) {
	if len(patches) == 0 {
		return nil, fmt.Errorf("%w: no fault patches", ErrEmpty)
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("%w: no observation points", ErrEmpty)
	}
	if err := ec.Validate(); err != nil {
		return nil, err
	}

	rs := &ResultSet{
		Results: make([]Result, len(obs)),
		Flags:   make([][]Status, len(obs)),
	}
	frames := make([]Frame, len(patches))
	for j, p := range patches {
		frames[j] = NewFrame(p.Strike)
		if p.Unphysical() {
			e.log.Warn().
				Int("patch", j).
				Float64("length", p.Length).
				Float64("width", p.Width).
				Float64("depth", p.Depth).
				Msg("unphysical fault patch")
		}
	}
	alpha := ec.Alpha()

	workers := min(e.workers, len(obs))
	chunk := (len(obs) + workers - 1) / workers

	eg, egCtx := errgroup.WithContext(ctx)
	for start := 0; start < len(obs); start += chunk {
		end := min(start+chunk, len(obs))
		eg.Go(func() error {
			for i := start; i < end; i++ {
				if err := egCtx.Err(); err != nil {
					return err
				}
				flags := make([]Status, len(patches))
				rs.Results[i] = e.station(i, obs[i], patches, frames, alpha, ec, flags)
				rs.Flags[i] = flags
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	if sum := rs.Summary(); sum.Singular > 0 {
		e.log.Warn().
			Int("pairs", sum.Singular).
			Msg("stations on a patch edge, singular solutions")
	}
	e.log.Debug().
		Int("stations", len(obs)).
		Int("patches", len(patches)).
		Int("workers", workers).
		Msg("batch evaluated")

	return rs, nil
}

// station superposes all patches at one station and fills its flag row
func (e *Evaluator) station(i int, pt ObservationPoint, patches []FaultPatch, frames []Frame, alpha float64, ec ElasticConstants, flags []Status) Result {
	var above Status
	if pt.Up > 0 {
		above = AboveSurface
		e.log.Warn().
			Int("station", i).
			Float64("up", pt.Up).
			Msg("observation station above the free surface")
	}

	var u [3]float64
	var d [9]float64
	for j, p := range patches {
		status := above
		if p.Unphysical() {
			status |= Unphysical
		}

		f := frames[j]
		x, y := f.ToLocal(pt.East-p.East, pt.North-p.North)
		local, st := e.solver.Solve(p, [3]float64{x, y, pt.Up}, alpha)
		if st.Has(Singular) {
			status |= Singular
			e.log.Debug().
				Int("station", i).
				Int("patch", j).
				Msg("station on a patch edge, singular solution")
		}
		flags[j] = status

		gu := f.VectorToGlobal(local.U)
		gd := f.TensorToGlobal(local.D)
		for k := range u {
			u[k] += gu[k]
		}
		for k := range d {
			d[k] += gd[k]
		}
	}

	return Result{U: u, D: d, S: Stress(d, ec)}
}

// Evaluate runs a batch with the default Evaluator. Like the method it
// rejects invalid elastic constants.
func Evaluate(patches []FaultPatch, obs []ObservationPoint, mu, nu float64) (*ResultSet, error) {
	return NewEvaluator().Evaluate(context.Background(), patches, obs, ElasticConstants{Mu: mu, Nu: nu})
}
