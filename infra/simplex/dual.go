package simplex

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/christianmorkeberg/group25/core/solver"
)

// solveDual recovers constraint shadow prices by solving the explicit dual
// of the assembled standard form: max b'y s.t. A'y <= c with y free. The free
// y is split into positive and negative parts and each dual inequality gets
// a slack, yielding another standard-form LP for the same simplex routine.
//
// Duals are reported against the user's objective sense, and rows that were
// negated during assembly are flipped back.
func (s *Solver) solveDual(ctx context.Context, p *solver.Problem, sf *standardForm) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, n := sf.a.Dims()
	if m == 0 {
		return map[string]float64{}, nil
	}

	// Columns: y+ (m), y- (m), slack per dual row (n).
	cols := 2*m + n
	a := mat.NewDense(n, cols, nil)
	b := make([]float64, n)
	c := make([]float64, cols)
	for i := 0; i < m; i++ {
		c[i] = -sf.b[i]
		c[m+i] = sf.b[i]
	}

	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			coeff := sf.a.At(i, j)
			if coeff == 0 {
				continue
			}
			a.Set(j, i, coeff)
			a.Set(j, m+i, -coeff)
		}
		a.Set(j, 2*m+j, 1)
		rhs := sf.c[j]
		if rhs < 0 {
			rhs = -rhs
			for i := 0; i < cols; i++ {
				if v := a.At(j, i); v != 0 {
					a.Set(j, i, -v)
				}
			}
		}
		b[j] = rhs
	}

	_, x, err := simplexSolve(c, a, b, s.tol, nil)
	if err != nil {
		return nil, fmt.Errorf("dual simplex: %w", err)
	}

	sense := 1.0
	if p.Sense() == solver.Maximize {
		sense = -1
	}

	duals := make(map[string]float64, p.NumConstraints())
	for i := 0; i < m; i++ {
		if sf.rowName[i] == "" {
			continue
		}
		y := x[i] - x[m+i]
		duals[sf.rowName[i]] = sense * sf.rowSign[i] * y
	}
	return duals, nil
}
