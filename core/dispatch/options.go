package dispatch

const (
	defaultEpsilon    = 1e-3
	defaultBigM       = 1000
	defaultGridCapKW  = 500
	defaultTariffSeed = 42
)

// Options are the run-time toggles of a single formulation. The zero value
// is usable; Normalize fills in the defaults.
type Options struct {
	// Epsilon weighs the penalty on simultaneous charge+discharge and
	// import+export flows.
	Epsilon float64
	// BigM is the loose bound used for exclusivity when battery capacity is
	// itself a decision variable. It also caps the sized capacity, which
	// keeps the linearization valid.
	BigM float64
	// GridCapKW is the hard ceiling applied to grid limits in the
	// capacity-sizing variant.
	GridCapKW float64
	// VaryTariff perturbs each tariff hour by a deterministic uniform
	// multiplier in [0.5, 1.5).
	VaryTariff bool
	// TariffSeed seeds the perturbation so sweeps are reproducible.
	TariffSeed int64
	// FixedDAPrice, when set, replaces the day-ahead price with a constant
	// for the whole horizon.
	FixedDAPrice *float64
}

// Normalize returns a copy with defaults applied to unset fields.
func (o Options) Normalize() Options {
	if o.Epsilon <= 0 {
		o.Epsilon = defaultEpsilon
	}
	if o.BigM <= 0 {
		o.BigM = defaultBigM
	}
	if o.GridCapKW <= 0 {
		o.GridCapKW = defaultGridCapKW
	}
	if o.TariffSeed == 0 {
		o.TariffSeed = defaultTariffSeed
	}
	return o
}
