package dispatch

import (
	"strconv"
	"strings"

	"github.com/christianmorkeberg/group25/core/solver"
)

// Result is the flat, semantically-keyed outcome of one optimal solve.
type Result struct {
	Variant   Variant
	Objective float64
	// Series holds per-hour values under base names (p_import, soc, ...),
	// including the derived curtailment and soc_normal series and the
	// effective tariff/price inputs.
	Series map[string][]float64
	// Scalars holds horizon-independent values (p_bat_cap, actual_profit).
	Scalars map[string]float64
	// Duals maps constraint names to shadow prices.
	Duals map[string]float64
}

// extract reads every decision variable and dual back from the solution and
// derives the diagnostic series.
func extract(sol *solver.Solution, d *buildData) *Result {
	series := map[string][]float64{}
	for _, base := range []string{
		"p_import", "p_export", "p_load", "p_pv_actual",
		"p_bat_charge", "p_bat_discharge", "soc", "y", "z",
	} {
		vs := make([]float64, d.n)
		for t := 0; t < d.n; t++ {
			vs[t] = sol.Value(idx(base, t))
		}
		series[base] = vs
	}

	// Curtailment: available PV the dispatch could not place. Solver noise
	// is clipped so the series is never negative.
	curtail := make([]float64, d.n)
	for t := 0; t < d.n; t++ {
		if c := d.availPV[t] - series["p_pv_actual"][t]; c > 0 {
			curtail[t] = c
		}
	}
	series["curtailment"] = curtail

	capVal := d.cap.value
	if d.cap.optimized {
		capVal = sol.Value("p_bat_cap")
	}
	socNormal := make([]float64, d.n)
	if capVal > 0 {
		for t := 0; t < d.n; t++ {
			socNormal[t] = series["soc"][t] / capVal
		}
	}
	series["soc_normal"] = socNormal

	series["available_pv"] = append([]float64(nil), d.availPV...)
	series["import_tariff"] = append([]float64(nil), d.importTariff...)
	series["export_tariff"] = append([]float64(nil), d.exportTariff...)
	series["energy_price"] = append([]float64(nil), d.price...)

	scalars := map[string]float64{
		"p_bat_cap":           capVal,
		"battery_price_coeff": d.priceCoeff,
	}

	// Realized profit is the pure import/export cash flow at the effective
	// prices, comparable across variants regardless of their objectives.
	profit := 0.0
	for t := 0; t < d.n; t++ {
		profit += (d.price[t]-d.exportTariff[t])*series["p_export"][t] -
			(d.price[t]+d.importTariff[t])*series["p_import"][t]
	}
	scalars["actual_profit"] = profit

	if d.variant.hasDiscomfort() {
		series["reference_profile"] = append([]float64(nil), d.ref...)
		discomfort := 0.0
		for t := 0; t < d.n; t++ {
			dev := series["p_load"][t] - d.ref[t]
			discomfort += d.weight * dev * dev
		}
		scalars["discomfort"] = discomfort
	}

	duals := make(map[string]float64, len(sol.Duals))
	for name, v := range sol.Duals {
		duals[name] = v
	}

	return &Result{
		Variant:   d.variant,
		Objective: sol.Objective,
		Series:    series,
		Scalars:   scalars,
		Duals:     duals,
	}
}

// DualSeries regroups the flat dual map into per-quantity hourly series plus
// the horizon-independent duals. Names follow the base_t convention, so
// "hourly_balance_3" lands at index 3 of the "hourly_balance" series.
func (r *Result) DualSeries() (map[string][]float64, map[string]float64) {
	series := map[string][]float64{}
	scalars := map[string]float64{}
	for name, v := range r.Duals {
		base, t, ok := splitIndexed(name)
		if !ok {
			scalars[name] = v
			continue
		}
		vs := series[base]
		for len(vs) <= t {
			vs = append(vs, 0)
		}
		vs[t] = v
		series[base] = vs
	}
	return series, scalars
}

func splitIndexed(name string) (string, int, bool) {
	i := strings.LastIndexByte(name, '_')
	if i < 0 {
		return "", 0, false
	}
	t, err := strconv.Atoi(name[i+1:])
	if err != nil || t < 0 {
		return "", 0, false
	}
	return name[:i], t, true
}
