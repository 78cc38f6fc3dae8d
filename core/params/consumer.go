package params

import (
	"fmt"
)

// BatteryParams holds the physical ratings and state-of-charge policy of a
// stationary battery. Power ratings are expressed as ratios of capacity.
type BatteryParams struct {
	CapacityKWh         float64
	MaxChargeRatio      float64
	MaxDischargeRatio   float64
	ChargeEfficiency    float64 // (0,1], 0 means unset and defaults to 1
	DischargeEfficiency float64 // (0,1], 0 means unset and defaults to 1
	InitialSOCRatio     float64
	MinSOCRatio         float64
	FinalSOCRatio       float64
	PriceCoefficient    float64 // capital cost per kWh of installed capacity
}

// ConsumerParams is the raw, unscaled description of the flexible load and
// its optional battery as supplied by the scenario input.
type ConsumerParams struct {
	// MinTotalEnergyHours is the minimum daily requirement expressed as an
	// hour-equivalent of the maximum hourly load. Required.
	MinTotalEnergyHours *float64
	// MaxTotalEnergyHours is the maximum daily requirement. When nil the
	// requirement collapses to an equality at the minimum.
	MaxTotalEnergyHours *float64
	// MaxLoadKWhPerHour caps the served load each hour. Required.
	MaxLoadKWhPerHour Series
	// ReferenceProfile holds preferred-consumption ratios of the hourly
	// maximum load. Absent means no preference (zero profile).
	ReferenceProfile Series
	// DiscomfortWeight weighs the squared deviation from the reference
	// profile. 0 means unset and defaults to 1.
	DiscomfortWeight float64
	// Battery is nil when the consumer owns no storage.
	Battery *BatteryParams
}

// Consumer exposes the load and battery quantities of one prosumer, scaled by
// the scenario scaling. Accessors are pure: they recompute from the stored
// parameters and scaling on every call.
type Consumer struct {
	p       ConsumerParams
	scale   Scaling
	horizon int
}

// NewConsumer validates the raw parameters against the horizon and returns
// the adapter. Required quantities missing from the input fail here rather
// than silently defaulting.
func NewConsumer(p ConsumerParams, scale Scaling, horizon int) (*Consumer, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	if p.MinTotalEnergyHours == nil {
		return nil, fmt.Errorf("%w: min_total_energy_hours", ErrMissingParameter)
	}
	if _, err := p.MaxLoadKWhPerHour.Resolve("max_load_kwh_per_hour", horizon); err != nil {
		return nil, err
	}
	if !p.ReferenceProfile.IsAbsent() {
		if _, err := p.ReferenceProfile.Resolve("reference_profile", horizon); err != nil {
			return nil, err
		}
	}
	if b := p.Battery; b != nil {
		if b.CapacityKWh < 0 || b.MaxChargeRatio < 0 || b.MaxDischargeRatio < 0 {
			return nil, fmt.Errorf("battery ratings must be non-negative")
		}
		for _, eff := range []float64{b.ChargeEfficiency, b.DischargeEfficiency} {
			if eff < 0 || eff > 1 {
				return nil, fmt.Errorf("battery efficiency %v outside (0,1]", eff)
			}
		}
	}
	return &Consumer{p: p, scale: scale, horizon: horizon}, nil
}

// Horizon returns the number of hours shared by all series.
func (c *Consumer) Horizon() int { return c.horizon }

// MaxLoadKWh returns the scaled per-hour load ceiling.
func (c *Consumer) MaxLoadKWh() []float64 {
	vs, _ := c.p.MaxLoadKWhPerHour.Resolve("max_load_kwh_per_hour", c.horizon)
	return scaled(vs, c.scale.Factor(ScaleLoad))
}

// MinDailyEnergyKWh converts the hour-equivalent minimum requirement into kWh
// using the peak of the scaled hourly load ceiling.
func (c *Consumer) MinDailyEnergyKWh() float64 {
	return *c.p.MinTotalEnergyHours * c.peakLoadKWh()
}

// MaxDailyEnergyKWh converts the hour-equivalent maximum requirement into
// kWh. When no maximum was supplied the requirement is an equality and the
// minimum is returned.
func (c *Consumer) MaxDailyEnergyKWh() float64 {
	if c.p.MaxTotalEnergyHours == nil {
		return c.MinDailyEnergyKWh()
	}
	return *c.p.MaxTotalEnergyHours * c.peakLoadKWh()
}

func (c *Consumer) peakLoadKWh() float64 {
	peak := 0.0
	for _, v := range c.MaxLoadKWh() {
		if v > peak {
			peak = v
		}
	}
	return peak
}

// ReferenceProfileKWh returns the preferred consumption in kWh per hour: the
// supplied ratios applied to the scaled hourly load ceiling. An absent
// profile yields zeros.
func (c *Consumer) ReferenceProfileKWh() []float64 {
	if c.p.ReferenceProfile.IsAbsent() {
		return make([]float64, c.horizon)
	}
	ratios, _ := c.p.ReferenceProfile.Resolve("reference_profile", c.horizon)
	maxLoad := c.MaxLoadKWh()
	out := make([]float64, c.horizon)
	for t := range out {
		out[t] = ratios[t] * maxLoad[t]
	}
	return out
}

// DiscomfortWeight returns the scaled weight on squared load deviation,
// defaulting to 1 when the scenario does not set one.
func (c *Consumer) DiscomfortWeight() float64 {
	w := c.p.DiscomfortWeight
	if w == 0 {
		w = 1
	}
	return w * c.scale.Factor(ScaleDiscomfortCost)
}

// BatteryCapacityKWh returns the scaled nameplate capacity, 0 for a consumer
// without storage.
func (c *Consumer) BatteryCapacityKWh() float64 {
	if c.p.Battery == nil {
		return 0
	}
	return c.p.Battery.CapacityKWh * c.scale.Factor(ScaleBatteryCapacity)
}

// MaxChargeKW returns the scaled charge power limit derived from the scaled
// capacity and the charge-power ratio.
func (c *Consumer) MaxChargeKW() float64 {
	if c.p.Battery == nil {
		return 0
	}
	return c.BatteryCapacityKWh() * c.p.Battery.MaxChargeRatio * c.scale.Factor(ScaleChargePower)
}

// MaxDischargeKW returns the scaled discharge power limit.
func (c *Consumer) MaxDischargeKW() float64 {
	if c.p.Battery == nil {
		return 0
	}
	return c.BatteryCapacityKWh() * c.p.Battery.MaxDischargeRatio * c.scale.Factor(ScaleDischargePower)
}

// ChargeRatio returns the charge-power-to-capacity ratio including scaling.
// The capacity-sizing formulation needs the ratio itself because capacity is
// a decision variable there.
func (c *Consumer) ChargeRatio() float64 {
	if c.p.Battery == nil {
		return 0
	}
	return c.p.Battery.MaxChargeRatio * c.scale.Factor(ScaleChargePower)
}

// DischargeRatio returns the discharge-power-to-capacity ratio including
// scaling.
func (c *Consumer) DischargeRatio() float64 {
	if c.p.Battery == nil {
		return 0
	}
	return c.p.Battery.MaxDischargeRatio * c.scale.Factor(ScaleDischargePower)
}

// ChargeEfficiency returns the charge efficiency, 1 when unset or when there
// is no battery.
func (c *Consumer) ChargeEfficiency() float64 {
	if c.p.Battery == nil || c.p.Battery.ChargeEfficiency == 0 {
		return 1
	}
	return c.p.Battery.ChargeEfficiency
}

// DischargeEfficiency returns the discharge efficiency, 1 when unset or when
// there is no battery.
func (c *Consumer) DischargeEfficiency() float64 {
	if c.p.Battery == nil || c.p.Battery.DischargeEfficiency == 0 {
		return 1
	}
	return c.p.Battery.DischargeEfficiency
}

// InitialSOCRatio returns the scaled initial state-of-charge ratio clamped to
// [0,1].
func (c *Consumer) InitialSOCRatio() float64 {
	if c.p.Battery == nil {
		return 0
	}
	return clampRatio(c.p.Battery.InitialSOCRatio * c.scale.Factor(ScaleInitialSOC))
}

// MinSOCRatio returns the scaled minimum state-of-charge ratio clamped to
// [0,1].
func (c *Consumer) MinSOCRatio() float64 {
	if c.p.Battery == nil {
		return 0
	}
	return clampRatio(c.p.Battery.MinSOCRatio * c.scale.Factor(ScaleMinSOC))
}

// FinalSOCRatio returns the scaled final state-of-charge ratio clamped to
// [0,1].
func (c *Consumer) FinalSOCRatio() float64 {
	if c.p.Battery == nil {
		return 0
	}
	return clampRatio(c.p.Battery.FinalSOCRatio * c.scale.Factor(ScaleFinalSOC))
}

// BatteryPriceCoefficient returns the scaled capital cost per kWh of
// installed capacity used by the capacity-sizing variant.
func (c *Consumer) BatteryPriceCoefficient() float64 {
	if c.p.Battery == nil {
		return 0
	}
	return c.p.Battery.PriceCoefficient * c.scale.Factor(ScaleBatteryPrice)
}

func clampRatio(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
