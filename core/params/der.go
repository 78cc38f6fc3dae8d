package params

import "fmt"

// DERParams is the raw description of the photovoltaic generation resource.
type DERParams struct {
	// Profile holds availability ratios in [0,1] per hour. Required when
	// CapacityKW is positive.
	Profile Series
	// CapacityKW is the installed PV capacity.
	CapacityKW float64
}

// DER exposes the effective hourly PV ceiling, scaled by the scenario
// scaling: capacity x availability ratio x pv factor.
type DER struct {
	p       DERParams
	scale   Scaling
	horizon int
}

// NewDER validates the profile against the horizon and returns the adapter.
// A consumer without PV (zero capacity, no profile) is valid and yields an
// all-zero availability.
func NewDER(p DERParams, scale Scaling, horizon int) (*DER, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	if p.CapacityKW < 0 {
		return nil, fmt.Errorf("pv capacity must be non-negative, got %v", p.CapacityKW)
	}
	if p.Profile.IsAbsent() {
		if p.CapacityKW > 0 {
			return nil, fmt.Errorf("%w: hourly_profile_ratio", ErrMissingParameter)
		}
	} else if _, err := p.Profile.Resolve("hourly_profile_ratio", horizon); err != nil {
		return nil, err
	}
	return &DER{p: p, scale: scale, horizon: horizon}, nil
}

// Horizon returns the number of hours shared by all series.
func (d *DER) Horizon() int { return d.horizon }

// AvailablePVKWh returns the effective hourly PV ceiling.
func (d *DER) AvailablePVKWh() []float64 {
	if d.p.Profile.IsAbsent() {
		return make([]float64, d.horizon)
	}
	ratios, _ := d.p.Profile.Resolve("hourly_profile_ratio", d.horizon)
	factor := d.p.CapacityKW * d.scale.Factor(ScalePV)
	return scaled(ratios, factor)
}
