package params

// Scaling key names understood by the adapters. Absent keys default to 1.
const (
	ScaleLoad            = "load"
	ScalePV              = "pv"
	ScaleTariff          = "tariff"
	ScalePrice           = "price"
	ScaleBatteryCapacity = "battery_capacity"
	ScaleChargePower     = "charge_power"
	ScaleDischargePower  = "discharge_power"
	ScaleInitialSOC      = "initial_soc"
	ScaleMinSOC          = "min_soc"
	ScaleFinalSOC        = "final_soc"
	ScaleDiscomfortCost  = "discomfort_cost"
	ScaleBatteryPrice    = "battery_price"
)

// Scaling maps named multipliers onto scenario parameters. It is built once
// per scenario and treated as immutable for the duration of one solve; it is
// always passed explicitly, never kept as process-wide state.
type Scaling map[string]float64

// NewScaling copies factors into a fresh Scaling so later mutation of the
// source map cannot leak into a running scenario.
func NewScaling(factors map[string]float64) Scaling {
	s := make(Scaling, len(factors))
	for k, v := range factors {
		s[k] = v
	}
	return s
}

// Factor returns the multiplier for name, defaulting to 1 when absent.
func (s Scaling) Factor(name string) float64 {
	if s == nil {
		return 1
	}
	if f, ok := s[name]; ok {
		return f
	}
	return 1
}
