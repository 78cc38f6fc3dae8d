package simplex

import (
	"context"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/christianmorkeberg/group25/core/solver"
)

func TestSolveSimpleMax(t *testing.T) {
	p := solver.New(solver.Maximize)
	x := p.AddVar("x", 0, 2)
	y := p.AddVar("y", 0, 3)
	p.AddCost(x, 3)
	p.AddCost(y, 2)
	p.AddConstr("cap", []solver.Term{{Var: x, Coeff: 1}, {Var: y, Coeff: 1}}, solver.LE, 4)

	sol, err := New(Config{}).Solve(context.Background(), p)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !sol.IsOptimal() {
		t.Fatalf("expected optimal, got %s", sol.Status)
	}
	if math.Abs(sol.Objective-10) > 1e-6 {
		t.Fatalf("expected objective 10, got %v", sol.Objective)
	}
	if math.Abs(sol.Value("x")-2) > 1e-6 || math.Abs(sol.Value("y")-2) > 1e-6 {
		t.Fatalf("unexpected point: x=%v y=%v", sol.Value("x"), sol.Value("y"))
	}
	// Relaxing the shared cap by one unit admits one more unit of y.
	if math.Abs(sol.Dual("cap")-2) > 1e-6 {
		t.Fatalf("expected dual 2 on cap, got %v", sol.Dual("cap"))
	}
}

func TestSolveEqualityDual(t *testing.T) {
	p := solver.New(solver.Minimize)
	x := p.AddVar("x", 0, math.Inf(1))
	y := p.AddVar("y", 0, math.Inf(1))
	p.AddCost(x, 2)
	p.AddCost(y, 3)
	p.AddConstr("demand", []solver.Term{{Var: x, Coeff: 1}, {Var: y, Coeff: 1}}, solver.EQ, 5)

	sol, err := New(Config{}).Solve(context.Background(), p)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !sol.IsOptimal() {
		t.Fatalf("expected optimal, got %s", sol.Status)
	}
	if math.Abs(sol.Objective-10) > 1e-6 {
		t.Fatalf("expected objective 10, got %v", sol.Objective)
	}
	if math.Abs(sol.Value("x")-5) > 1e-6 {
		t.Fatalf("expected x=5, got %v", sol.Value("x"))
	}
	// Marginal unit of demand is served by the cheap variable.
	if math.Abs(sol.Dual("demand")-2) > 1e-6 {
		t.Fatalf("expected dual 2 on demand, got %v", sol.Dual("demand"))
	}
}

func TestSolveInfeasible(t *testing.T) {
	p := solver.New(solver.Minimize)
	x := p.AddVar("x", 0, 1)
	p.AddConstr("floor", []solver.Term{{Var: x, Coeff: 1}}, solver.GE, 5)

	sol, err := New(Config{}).Solve(context.Background(), p)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if sol.Status != solver.StatusInfeasible {
		t.Fatalf("expected infeasible, got %s", sol.Status)
	}
}

func TestSolveUnbounded(t *testing.T) {
	p := solver.New(solver.Maximize)
	x := p.AddVar("x", 0, math.Inf(1))
	p.AddCost(x, 1)

	sol, err := New(Config{}).Solve(context.Background(), p)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if sol.Status != solver.StatusUnbounded {
		t.Fatalf("expected unbounded, got %s", sol.Status)
	}
}

func TestSolveNoConstraints(t *testing.T) {
	// No user rows and no finite upper bounds, so no standard-form rows
	// exist at all; every variable settles on its favored bound.
	p := solver.New(solver.Minimize)
	x := p.AddVar("x", 1, math.Inf(1))
	p.AddCost(x, 2)
	p.AddOffset(1)

	sol, err := New(Config{}).Solve(context.Background(), p)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !sol.IsOptimal() {
		t.Fatalf("expected optimal, got %s", sol.Status)
	}
	if math.Abs(sol.Value("x")-1) > 1e-9 {
		t.Fatalf("expected x at its lower bound, got %v", sol.Value("x"))
	}
	if math.Abs(sol.Objective-3) > 1e-9 {
		t.Fatalf("expected objective 3, got %v", sol.Objective)
	}
}

func TestSolveQuadratic(t *testing.T) {
	// minimize (x-3)^2 = x^2 - 6x + 9 over [0,6]. With six segments the
	// minimizer sits on a knot, and the relaxation can stray at most half
	// a segment from it.
	p := solver.New(solver.Minimize)
	x := p.AddVar("x", 0, 6)
	p.AddQuadCost(x, 1)
	p.AddCost(x, -6)
	p.AddOffset(9)

	sol, err := New(Config{QuadSegments: 6}).Solve(context.Background(), p)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !sol.IsOptimal() {
		t.Fatalf("expected optimal, got %s", sol.Status)
	}
	if d := math.Abs(sol.Value("x") - 3); d > 0.5+1e-6 {
		t.Fatalf("expected x near 3, got %v", sol.Value("x"))
	}
	if sol.Objective > 0.25+1e-6 {
		t.Fatalf("expected objective below 0.25, got %v", sol.Objective)
	}
}

func TestSolveConcaveMaxRejected(t *testing.T) {
	p := solver.New(solver.Maximize)
	x := p.AddVar("x", 0, 1)
	p.AddQuadCost(x, 1)
	if _, err := New(Config{}).Solve(context.Background(), p); err == nil {
		t.Fatalf("expected convexity error")
	}
}

func TestSolveEngineFailure(t *testing.T) {
	old := simplexSolve
	simplexSolve = func(_ []float64, _ mat.Matrix, _ []float64, _ float64, _ []int) (float64, []float64, error) {
		return 0, nil, errors.New("boom")
	}
	defer func() { simplexSolve = old }()

	p := solver.New(solver.Minimize)
	x := p.AddVar("x", 0, 1)
	p.AddCost(x, 1)
	if _, err := New(Config{}).Solve(context.Background(), p); err == nil {
		t.Fatalf("expected engine error")
	}
}

func TestSolveCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := solver.New(solver.Minimize)
	p.AddVar("x", 0, 1)
	if _, err := New(Config{}).Solve(ctx, p); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestSolveDeterministic(t *testing.T) {
	build := func() *solver.Problem {
		p := solver.New(solver.Maximize)
		x := p.AddVar("x", 0, 2)
		y := p.AddVar("y", 0, 3)
		p.AddCost(x, 1)
		p.AddCost(y, 1)
		p.AddConstr("cap", []solver.Term{{Var: x, Coeff: 1}, {Var: y, Coeff: 2}}, solver.LE, 6)
		return p
	}
	s := New(Config{})
	a, err := s.Solve(context.Background(), build())
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	b, err := s.Solve(context.Background(), build())
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if a.Objective != b.Objective || a.Value("x") != b.Value("x") || a.Value("y") != b.Value("y") {
		t.Fatalf("solves disagree: %+v vs %+v", a, b)
	}
}
