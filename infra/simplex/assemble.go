package simplex

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/christianmorkeberg/group25/core/solver"
)

// standardForm is the problem rewritten as min c'x s.t. Ax = b, x >= 0.
// Columns 0..nOrig-1 correspond to the problem variables shifted by their
// lower bounds; epigraph and slack columns follow.
type standardForm struct {
	c []float64
	a *mat.Dense
	b []float64
	// nOrig is the number of original problem variables.
	nOrig int
	// rowName holds the user constraint name per row, "" for internal rows
	// (upper bounds, epigraph cuts).
	rowName []string
	// rowSign records rows negated to keep the right-hand side
	// non-negative; duals must be flipped back accordingly.
	rowSign []float64
}

// row is an intermediate constraint over the extended (original + epigraph)
// variable space, still in unshifted coordinates.
type row struct {
	name  string
	terms []solver.Term
	op    solver.Op
	rhs   float64
}

// assemble rewrites p into standard form. Quadratic objective terms become
// epigraph variables bounded below by tangent cuts at segments+1 knots, which
// is exact at the knots and an under-estimate in between.
func assemble(p *solver.Problem, segments int) (*standardForm, error) {
	vars := p.Vars()
	nOrig := len(vars)

	// Objective sense is normalized to minimization.
	sense := 1.0
	if p.Sense() == solver.Maximize {
		sense = -1
	}

	shift := make([]float64, 0, nOrig)
	cost := make([]float64, 0, nOrig)
	for _, v := range vars {
		if math.IsInf(v.Lb, -1) {
			return nil, fmt.Errorf("variable %s has no lower bound", v.Name)
		}
		shift = append(shift, v.Lb)
		cost = append(cost, sense*v.Cost)
	}

	var rows []row

	for _, c := range p.Constraints() {
		terms := make([]solver.Term, len(c.Terms))
		copy(terms, c.Terms)
		rows = append(rows, row{name: c.Name, terms: terms, op: c.Op, rhs: c.RHS})
	}

	// Upper bounds become internal rows so every structural column stays a
	// plain non-negative variable.
	for id, v := range vars {
		if math.IsInf(v.Ub, 1) {
			continue
		}
		rows = append(rows, row{
			terms: []solver.Term{{Var: solver.VarID(id), Coeff: 1}},
			op:    solver.LE,
			rhs:   v.Ub,
		})
	}

	// Epigraph relaxation of quadratic terms: z >= q*x^2 via tangents at
	// evenly spaced knots over the variable's box.
	for id, v := range vars {
		q := sense * v.QuadCost
		if q == 0 {
			continue
		}
		if q < 0 {
			return nil, fmt.Errorf("variable %s: non-convex quadratic term", v.Name)
		}
		if math.IsInf(v.Ub, 1) {
			return nil, fmt.Errorf("variable %s: quadratic term needs a finite upper bound", v.Name)
		}
		zID := solver.VarID(len(shift))
		shift = append(shift, 0)
		cost = append(cost, 1)
		width := v.Ub - v.Lb
		for k := 0; k <= segments; k++ {
			xk := v.Lb + width*float64(k)/float64(segments)
			// z - 2*q*xk*x >= -q*xk^2
			rows = append(rows, row{
				terms: []solver.Term{
					{Var: zID, Coeff: 1},
					{Var: solver.VarID(id), Coeff: -2 * q * xk},
				},
				op:  solver.GE,
				rhs: -q * xk * xk,
			})
		}
	}

	// No rows at all: gonum's Dense rejects a zero row dimension, and the
	// solve degenerates to inspecting the cost vector anyway.
	if len(rows) == 0 {
		return &standardForm{c: cost, nOrig: nOrig}, nil
	}

	nExt := len(shift)
	slacks := 0
	for _, r := range rows {
		if r.op != solver.EQ {
			slacks++
		}
	}
	nCols := nExt + slacks
	m := len(rows)

	a := mat.NewDense(m, nCols, nil)
	b := make([]float64, m)
	c := make([]float64, nCols)
	copy(c, cost)
	rowName := make([]string, m)
	rowSign := make([]float64, m)

	slack := nExt
	for i, r := range rows {
		rhs := r.rhs
		for _, t := range r.terms {
			a.Set(i, int(t.Var), a.At(i, int(t.Var))+t.Coeff)
			rhs -= t.Coeff * shift[t.Var]
		}
		switch r.op {
		case solver.LE:
			a.Set(i, slack, 1)
			slack++
		case solver.GE:
			a.Set(i, slack, -1)
			slack++
		}
		rowName[i] = r.name
		rowSign[i] = 1
		// The simplex phase-one start expects b >= 0.
		if rhs < 0 {
			rhs = -rhs
			rowSign[i] = -1
			for j := 0; j < nCols; j++ {
				if v := a.At(i, j); v != 0 {
					a.Set(i, j, -v)
				}
			}
		}
		b[i] = rhs
	}

	return &standardForm{
		c:       c,
		a:       a,
		b:       b,
		nOrig:   nOrig,
		rowName: rowName,
		rowSign: rowSign,
	}, nil
}
