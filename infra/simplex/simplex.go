// Package simplex implements the core solver boundary on top of gonum's
// dense simplex. Problems are assembled into standard form, solved for the
// primal values, and shadow prices are recovered from an explicit dual solve.
// Convex quadratic objective terms are relaxed to piecewise-linear epigraphs,
// so the whole pipeline stays linear.
package simplex

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/christianmorkeberg/group25/core/solver"
	"github.com/christianmorkeberg/group25/infra/logger"
)

const (
	defaultTolerance    = 1e-7
	defaultQuadSegments = 16
)

// Config tunes the backend.
type Config struct {
	// Tolerance is passed to the simplex algorithm.
	Tolerance float64 `json:"tolerance"`
	// QuadSegments is the number of piecewise-linear segments used per
	// quadratic objective term.
	QuadSegments int `json:"quad_segments"`
	// SkipDuals disables the dual solve when shadow prices are not needed.
	SkipDuals bool `json:"skip_duals"`
}

// Solver solves problems built against core/solver using gonum's simplex.
// It holds no per-solve state and is safe for sequential reuse across
// scenarios.
type Solver struct {
	tol      float64
	segments int
	duals    bool
	log      logger.Logger
}

// New returns a Solver, applying defaults for unset config fields.
func New(cfg Config) *Solver {
	tol := cfg.Tolerance
	if tol <= 0 {
		tol = defaultTolerance
	}
	segments := cfg.QuadSegments
	if segments <= 0 {
		segments = defaultQuadSegments
	}
	return &Solver{
		tol:      tol,
		segments: segments,
		duals:    !cfg.SkipDuals,
		log:      logger.New("simplex"),
	}
}

// simplexSolve points to the LP routine. Tests override it to simulate
// engine failures.
var simplexSolve = lp.Simplex

// Solve assembles, solves and reads back one problem. Infeasible and
// unbounded terminations are reported through the solution status, not as
// errors; errors mean the engine itself failed.
func (s *Solver) Solve(ctx context.Context, p *solver.Problem) (*solver.Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid problem: %w", err)
	}

	sf, err := assemble(p, s.segments)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	if len(sf.b) == 0 {
		return solveTrivial(p), nil
	}
	s.log.Debugf("standard form: %d rows, %d columns", len(sf.b), len(sf.c))

	_, x, err := simplexSolve(sf.c, sf.a, sf.b, s.tol, nil)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return &solver.Solution{Status: solver.StatusInfeasible}, nil
		case errors.Is(err, lp.ErrUnbounded):
			return &solver.Solution{Status: solver.StatusUnbounded}, nil
		default:
			return nil, fmt.Errorf("simplex: %w", err)
		}
	}

	values := make(map[string]float64, p.NumVars())
	point := make([]float64, p.NumVars())
	for i, v := range p.Vars() {
		val := v.Lb + x[i]
		point[i] = val
		values[v.Name] = val
	}

	sol := &solver.Solution{
		Status:    solver.StatusOptimal,
		Objective: p.Objective(point),
		Values:    values,
		Duals:     map[string]float64{},
	}

	if s.duals {
		duals, err := s.solveDual(ctx, p, sf)
		if err != nil {
			// A degenerate basis can defeat the dual solve even though
			// the primal is optimal. Values stay usable without duals.
			s.log.Warnf("dual solve failed, duals unavailable: %v", err)
		} else {
			sol.Duals = duals
		}
	}
	return sol, nil
}

// solveTrivial handles problems without any rows: every variable moves
// independently to whichever bound its cost favors.
func solveTrivial(p *solver.Problem) *solver.Solution {
	sense := 1.0
	if p.Sense() == solver.Maximize {
		sense = -1
	}
	values := make(map[string]float64, p.NumVars())
	point := make([]float64, p.NumVars())
	for i, v := range p.Vars() {
		val := v.Lb
		if sense*v.Cost < 0 {
			if math.IsInf(v.Ub, 1) {
				return &solver.Solution{Status: solver.StatusUnbounded}
			}
			val = v.Ub
		}
		point[i] = val
		values[v.Name] = val
	}
	return &solver.Solution{
		Status:    solver.StatusOptimal,
		Objective: p.Objective(point),
		Values:    values,
		Duals:     map[string]float64{},
	}
}

var _ solver.Solver = (*Solver)(nil)
