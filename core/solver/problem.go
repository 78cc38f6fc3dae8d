// Package solver defines the boundary to the external optimization engine:
// a problem builder for continuous variables, named linear constraints and a
// linear-plus-quadratic objective, and the solution read back after a solve.
// The engine itself lives behind the Solver interface.
package solver

import (
	"fmt"
	"math"
)

// Sense selects the objective direction.
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

// Op is a constraint relation.
type Op int

const (
	LE Op = iota
	GE
	EQ
)

func (o Op) String() string {
	switch o {
	case LE:
		return "<="
	case GE:
		return ">="
	default:
		return "=="
	}
}

// VarID identifies a variable within one Problem.
type VarID int

// Variable is a continuous decision variable with box bounds. Cost is the
// linear objective coefficient; QuadCost adds QuadCost*x^2 to the objective.
type Variable struct {
	Name     string
	Lb, Ub   float64
	Cost     float64
	QuadCost float64
}

// Term is one entry of a linear constraint row.
type Term struct {
	Var   VarID
	Coeff float64
}

// Constraint is a named linear row. Names must be stable and unique: duals
// are reported against them.
type Constraint struct {
	Name  string
	Terms []Term
	Op    Op
	RHS   float64
}

// Problem accumulates variables, constraints and the objective for a single
// solve. It is built, solved and discarded within one scenario run.
type Problem struct {
	sense  Sense
	vars   []Variable
	cons   []Constraint
	offset float64
}

// New returns an empty problem with the given objective sense.
func New(sense Sense) *Problem {
	return &Problem{sense: sense}
}

// Sense returns the objective direction.
func (p *Problem) Sense() Sense { return p.sense }

// AddVar creates a variable with the given bounds and returns its id.
func (p *Problem) AddVar(name string, lb, ub float64) VarID {
	p.vars = append(p.vars, Variable{Name: name, Lb: lb, Ub: ub})
	return VarID(len(p.vars) - 1)
}

// AddCost accumulates a linear objective coefficient on v.
func (p *Problem) AddCost(v VarID, c float64) {
	p.vars[v].Cost += c
}

// AddQuadCost accumulates a quadratic objective coefficient on v.
func (p *Problem) AddQuadCost(v VarID, c float64) {
	p.vars[v].QuadCost += c
}

// AddOffset accumulates a constant objective term so reported objective
// values match the mathematical formulation.
func (p *Problem) AddOffset(c float64) {
	p.offset += c
}

// AddConstr appends a named linear constraint.
func (p *Problem) AddConstr(name string, terms []Term, op Op, rhs float64) {
	p.cons = append(p.cons, Constraint{Name: name, Terms: terms, Op: op, RHS: rhs})
}

// Vars returns the variable set.
func (p *Problem) Vars() []Variable { return p.vars }

// Constraints returns the constraint set.
func (p *Problem) Constraints() []Constraint { return p.cons }

// Offset returns the constant objective term.
func (p *Problem) Offset() float64 { return p.offset }

// NumVars returns the variable count.
func (p *Problem) NumVars() int { return len(p.vars) }

// NumConstraints returns the constraint count.
func (p *Problem) NumConstraints() int { return len(p.cons) }

// Objective evaluates the full objective (linear, quadratic and constant
// terms) at the given point in variable order.
func (p *Problem) Objective(x []float64) float64 {
	obj := p.offset
	for i, v := range p.vars {
		obj += v.Cost*x[i] + v.QuadCost*x[i]*x[i]
	}
	return obj
}

// Validate checks structural soundness: unique non-empty names, sane bounds,
// finite coefficients and convexity of the quadratic terms with respect to
// the sense.
func (p *Problem) Validate() error {
	names := make(map[string]struct{}, len(p.vars)+len(p.cons))
	for _, v := range p.vars {
		if v.Name == "" {
			return fmt.Errorf("variable without a name")
		}
		if _, dup := names[v.Name]; dup {
			return fmt.Errorf("duplicate variable name %q", v.Name)
		}
		names[v.Name] = struct{}{}
		if v.Lb > v.Ub {
			return fmt.Errorf("variable %s has lb %v > ub %v", v.Name, v.Lb, v.Ub)
		}
		if math.IsNaN(v.Lb) || math.IsNaN(v.Ub) || math.IsNaN(v.Cost) || math.IsNaN(v.QuadCost) {
			return fmt.Errorf("variable %s has NaN data", v.Name)
		}
		if p.sense == Minimize && v.QuadCost < 0 {
			return fmt.Errorf("variable %s: concave quadratic term in a minimization", v.Name)
		}
		if p.sense == Maximize && v.QuadCost > 0 {
			return fmt.Errorf("variable %s: convex quadratic term in a maximization", v.Name)
		}
	}
	for _, c := range p.cons {
		if c.Name == "" {
			return fmt.Errorf("constraint without a name")
		}
		if _, dup := names[c.Name]; dup {
			return fmt.Errorf("duplicate constraint name %q", c.Name)
		}
		names[c.Name] = struct{}{}
		if math.IsNaN(c.RHS) {
			return fmt.Errorf("constraint %s has NaN right-hand side", c.Name)
		}
		for _, term := range c.Terms {
			if term.Var < 0 || int(term.Var) >= len(p.vars) {
				return fmt.Errorf("constraint %s references unknown variable %d", c.Name, term.Var)
			}
			if math.IsNaN(term.Coeff) {
				return fmt.Errorf("constraint %s has NaN coefficient", c.Name)
			}
		}
	}
	return nil
}
