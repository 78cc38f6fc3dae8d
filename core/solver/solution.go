package solver

import "context"

// Status is the termination outcome of a solve.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return "failed"
	}
}

// Solution carries the engine output after a solve. Values and Duals are only
// populated for an optimal status.
type Solution struct {
	Status    Status
	Objective float64
	// Values maps variable names to primal values.
	Values map[string]float64
	// Duals maps constraint names to shadow prices, reported with respect
	// to the problem's stated objective sense.
	Duals map[string]float64
}

// IsOptimal reports whether the solve terminated at an optimum.
func (s *Solution) IsOptimal() bool { return s.Status == StatusOptimal }

// Value returns the primal value for a variable name, 0 when unknown.
func (s *Solution) Value(name string) float64 { return s.Values[name] }

// Dual returns the shadow price for a constraint name, 0 when unknown.
func (s *Solution) Dual(name string) float64 { return s.Duals[name] }

// Solver is the external optimization capability. Implementations must be
// deterministic: the same problem yields the same solution.
type Solver interface {
	Solve(ctx context.Context, p *Problem) (*Solution, error)
}
