package dispatch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/christianmorkeberg/group25/core/logger"
	"github.com/christianmorkeberg/group25/core/params"
	"github.com/christianmorkeberg/group25/core/solver"
)

// ErrNotOptimal is returned when the solver terminates without an optimal
// solution. No partial values are ever returned alongside it.
var ErrNotOptimal = errors.New("solver did not reach an optimal solution")

// EnergySystemModel builds and runs one dispatch formulation from the three
// parameter adapters. A model is created, solved and discarded within a
// single scenario run; nothing persists across scenarios.
type EnergySystemModel struct {
	consumer *params.Consumer
	der      *params.DER
	grid     *params.Grid
	log      logger.Logger
}

// NewEnergySystemModel wires the adapters together, checking that they agree
// on the horizon.
func NewEnergySystemModel(c *params.Consumer, d *params.DER, g *params.Grid, log logger.Logger) (*EnergySystemModel, error) {
	if c.Horizon() != d.Horizon() || c.Horizon() != g.Horizon() {
		return nil, fmt.Errorf("%w: adapters disagree on horizon (%d, %d, %d)",
			params.ErrDimensionMismatch, c.Horizon(), d.Horizon(), g.Horizon())
	}
	return &EnergySystemModel{consumer: c, der: d, grid: g, log: log}, nil
}

// Run builds the formulation for the given variant, solves it once, and
// extracts the result. A non-optimal termination is a hard stop surfaced as
// ErrNotOptimal; there is no retry or relaxation fallback.
func (m *EnergySystemModel) Run(ctx context.Context, slv solver.Solver, variant Variant, opts Options) (*Result, error) {
	opts = opts.Normalize()
	prob, data, err := m.build(variant, opts)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", variant, err)
	}
	m.log.Debugf("built %s formulation: %d variables, %d constraints",
		variant, prob.NumVars(), prob.NumConstraints())

	sol, err := slv.Solve(ctx, prob)
	if err != nil {
		return nil, fmt.Errorf("solve %s: %w", variant, err)
	}
	if !sol.IsOptimal() {
		m.log.Warnf("%s terminated %s, discarding run", variant, sol.Status)
		return nil, fmt.Errorf("%w: status %s", ErrNotOptimal, sol.Status)
	}
	return extract(sol, data), nil
}

// capacityMode threads the "capacity as data" versus "capacity as decision"
// duality through every constraint referencing battery capacity.
type capacityMode struct {
	capVar    solver.VarID
	value     float64
	optimized bool
}

// constr adds terms (op) ratio*capacity, moving the capacity variable onto
// the left-hand side when capacity is being sized.
func (c capacityMode) constr(p *solver.Problem, name string, terms []solver.Term, op solver.Op, ratio float64) {
	if c.optimized {
		terms = append(terms, solver.Term{Var: c.capVar, Coeff: -ratio})
		p.AddConstr(name, terms, op, 0)
		return
	}
	p.AddConstr(name, terms, op, ratio*c.value)
}

// buildData carries the effective (scaled, possibly perturbed or overridden)
// inputs from the build to the result extraction.
type buildData struct {
	variant      Variant
	opts         Options
	n            int
	importTariff []float64
	exportTariff []float64
	price        []float64
	availPV      []float64
	maxLoad      []float64
	ref          []float64
	weight       float64
	cap          capacityMode
	priceCoeff   float64
}

func idx(base string, t int) string { return fmt.Sprintf("%s_%d", base, t) }

func (m *EnergySystemModel) build(variant Variant, opts Options) (*solver.Problem, *buildData, error) {
	n := m.consumer.Horizon()

	impTariff := m.grid.ImportTariff()
	expTariff := m.grid.ExportTariff()
	for t := 0; t < n; t++ {
		if params.IsUndefined(impTariff[t]) {
			return nil, nil, fmt.Errorf("%w: import_tariff_per_kwh", params.ErrMissingParameter)
		}
		if params.IsUndefined(expTariff[t]) {
			return nil, nil, fmt.Errorf("%w: export_tariff_per_kwh", params.ErrMissingParameter)
		}
	}
	if opts.VaryTariff {
		// Deterministic sensitivity sweep: one uniform [0.5, 1.5) draw per
		// hour per tariff, import series first.
		rng := rand.New(rand.NewSource(opts.TariffSeed))
		for t := 0; t < n; t++ {
			impTariff[t] *= 0.5 + rng.Float64()
		}
		for t := 0; t < n; t++ {
			expTariff[t] *= 0.5 + rng.Float64()
		}
	}

	price := m.grid.EnergyPrice()
	if opts.FixedDAPrice != nil {
		for t := range price {
			price[t] = *opts.FixedDAPrice
		}
	}

	availPV := m.der.AvailablePVKWh()
	maxLoad := m.consumer.MaxLoadKWh()
	ref := m.consumer.ReferenceProfileKWh()

	impLimit := m.grid.MaxImportKW()
	expLimit := m.grid.MaxExportKW()
	if variant.sizesCapacity() {
		impLimit = math.Min(impLimit, opts.GridCapKW)
		expLimit = math.Min(expLimit, opts.GridCapKW)
	}

	weight := 0.0
	if variant.hasDiscomfort() {
		weight = m.consumer.DiscomfortWeight()
	}

	eps := opts.Epsilon
	chMax := m.consumer.MaxChargeKW()
	disMax := m.consumer.MaxDischargeKW()
	etaC := m.consumer.ChargeEfficiency()
	etaD := m.consumer.DischargeEfficiency()

	p := solver.New(solver.Maximize)

	cap := capacityMode{value: m.consumer.BatteryCapacityKWh()}
	if variant.sizesCapacity() {
		// The capacity upper bound doubles as the big-M, keeping the
		// linearized exclusivity bounds valid for any admissible size.
		cap = capacityMode{optimized: true, capVar: p.AddVar("p_bat_cap", 0, opts.BigM)}
		p.AddCost(cap.capVar, -m.consumer.BatteryPriceCoefficient())
	}

	imp := make([]solver.VarID, n)
	exp := make([]solver.VarID, n)
	load := make([]solver.VarID, n)
	pv := make([]solver.VarID, n)
	ch := make([]solver.VarID, n)
	dis := make([]solver.VarID, n)
	soc := make([]solver.VarID, n)
	y := make([]solver.VarID, n)
	z := make([]solver.VarID, n)

	inf := math.Inf(1)
	for t := 0; t < n; t++ {
		imp[t] = p.AddVar(idx("p_import", t), 0, impLimit)
		exp[t] = p.AddVar(idx("p_export", t), 0, expLimit)
		load[t] = p.AddVar(idx("p_load", t), 0, maxLoad[t])
		pv[t] = p.AddVar(idx("p_pv_actual", t), 0, availPV[t])
		if cap.optimized {
			ch[t] = p.AddVar(idx("p_bat_charge", t), 0, inf)
			dis[t] = p.AddVar(idx("p_bat_discharge", t), 0, inf)
			soc[t] = p.AddVar(idx("soc", t), 0, inf)
		} else {
			ch[t] = p.AddVar(idx("p_bat_charge", t), 0, chMax)
			dis[t] = p.AddVar(idx("p_bat_discharge", t), 0, disMax)
			soc[t] = p.AddVar(idx("soc", t), 0, cap.value)
		}
		y[t] = p.AddVar(idx("y", t), 0, 1)
		z[t] = p.AddVar(idx("z", t), 0, 1)
	}

	one := func(v solver.VarID) []solver.Term { return []solver.Term{{Var: v, Coeff: 1}} }

	gridM := math.Max(impLimit, expLimit)
	for t := 0; t < n; t++ {
		// Named capacity rows, so every physical bound reports a dual.
		p.AddConstr(idx("import_cap", t), one(imp[t]), solver.LE, impLimit)
		p.AddConstr(idx("export_cap", t), one(exp[t]), solver.LE, expLimit)
		p.AddConstr(idx("load_cap", t), one(load[t]), solver.LE, maxLoad[t])
		p.AddConstr(idx("pv_cap", t), one(pv[t]), solver.LE, availPV[t])
		cap.constr(p, idx("soc_cap", t), one(soc[t]), solver.LE, 1)

		// Grid exclusivity is only encouraged: y stays continuous and the
		// epsilon penalty makes simultaneous flows dominated.
		p.AddConstr(idx("import_excl", t),
			[]solver.Term{{Var: imp[t], Coeff: 1}, {Var: y[t], Coeff: -gridM}}, solver.LE, 0)
		p.AddConstr(idx("export_excl", t),
			[]solver.Term{{Var: exp[t], Coeff: 1}, {Var: y[t], Coeff: gridM}}, solver.LE, gridM)

		if cap.optimized {
			// Capacity is a variable, so tight rating bounds would be
			// bilinear; the ratings bound through capacity and a generic
			// big-M carries the exclusivity.
			cap.constr(p, idx("charge_cap", t), one(ch[t]), solver.LE, m.consumer.ChargeRatio())
			cap.constr(p, idx("discharge_cap", t), one(dis[t]), solver.LE, m.consumer.DischargeRatio())
			p.AddConstr(idx("charge_excl", t),
				[]solver.Term{{Var: ch[t], Coeff: 1}, {Var: z[t], Coeff: -opts.BigM}}, solver.LE, 0)
			p.AddConstr(idx("discharge_excl", t),
				[]solver.Term{{Var: dis[t], Coeff: 1}, {Var: z[t], Coeff: opts.BigM}}, solver.LE, opts.BigM)
		} else {
			p.AddConstr(idx("charge_excl", t),
				[]solver.Term{{Var: ch[t], Coeff: 1}, {Var: z[t], Coeff: -chMax}}, solver.LE, 0)
			p.AddConstr(idx("discharge_excl", t),
				[]solver.Term{{Var: dis[t], Coeff: 1}, {Var: z[t], Coeff: disMax}}, solver.LE, disMax)
		}

		// import + pv + discharge = load + export + charge
		p.AddConstr(idx("hourly_balance", t), []solver.Term{
			{Var: imp[t], Coeff: 1},
			{Var: pv[t], Coeff: 1},
			{Var: dis[t], Coeff: 1},
			{Var: load[t], Coeff: -1},
			{Var: exp[t], Coeff: -1},
			{Var: ch[t], Coeff: -1},
		}, solver.EQ, 0)
	}

	// State-of-charge chain with asymmetric round-trip losses.
	cap.constr(p, "soc_init", one(soc[0]), solver.EQ, m.consumer.InitialSOCRatio())
	for t := 0; t < n-1; t++ {
		p.AddConstr(idx("soc_dyn", t), []solver.Term{
			{Var: soc[t+1], Coeff: 1},
			{Var: soc[t], Coeff: -1},
			{Var: ch[t], Coeff: -etaC},
			{Var: dis[t], Coeff: 1 / etaD},
		}, solver.EQ, 0)
	}
	for t := 0; t < n; t++ {
		cap.constr(p, idx("soc_min", t), one(soc[t]), solver.GE, m.consumer.MinSOCRatio())
	}
	// The floor applies to the state after the final hour's flows, so the
	// last hour cannot discharge energy that was never stored.
	cap.constr(p, "soc_final", []solver.Term{
		{Var: soc[n-1], Coeff: 1},
		{Var: ch[n-1], Coeff: etaC},
		{Var: dis[n-1], Coeff: -1 / etaD},
	}, solver.GE, m.consumer.FinalSOCRatio())

	// Daily energy requirement.
	total := make([]solver.Term, n)
	for t := 0; t < n; t++ {
		total[t] = solver.Term{Var: load[t], Coeff: 1}
	}
	p.AddConstr("total_load_min", total, solver.GE, m.consumer.MinDailyEnergyKWh())
	p.AddConstr("total_load_max", total, solver.LE, m.consumer.MaxDailyEnergyKWh())

	// Objective: market cash flow, epsilon penalties on physically wasteful
	// simultaneous flows, and the variant-specific terms.
	for t := 0; t < n; t++ {
		p.AddCost(exp[t], price[t]-expTariff[t])
		p.AddCost(imp[t], -(price[t] + impTariff[t]))
		p.AddCost(imp[t], -eps)
		p.AddCost(exp[t], -eps)
		p.AddCost(ch[t], -eps)
		p.AddCost(dis[t], -eps)
		if weight > 0 {
			// -w*(load-ref)^2 expanded around the reference point.
			p.AddQuadCost(load[t], -weight)
			p.AddCost(load[t], 2*weight*ref[t])
			p.AddOffset(-weight * ref[t] * ref[t])
		}
	}

	data := &buildData{
		variant:      variant,
		opts:         opts,
		n:            n,
		importTariff: impTariff,
		exportTariff: expTariff,
		price:        price,
		availPV:      availPV,
		maxLoad:      maxLoad,
		ref:          ref,
		weight:       weight,
		cap:          cap,
		priceCoeff:   m.consumer.BatteryPriceCoefficient(),
	}
	return p, data, nil
}
