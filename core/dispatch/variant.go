package dispatch

import "fmt"

// Variant selects one of the four objective/constraint modes.
type Variant int

const (
	// VariantProfitMax maximizes pure import/export profit.
	VariantProfitMax Variant = iota
	// VariantDiscomfort subtracts a weighted squared deviation of served
	// load from the reference profile.
	VariantDiscomfort
	// VariantSensitivity is the discomfort formulation with the run-time
	// toggles (fixed day-ahead price, perturbed tariffs) applied.
	VariantSensitivity
	// VariantCapacitySizing makes battery capacity an economic decision and
	// prices it into the objective.
	VariantCapacitySizing
)

var variantNames = map[Variant]string{
	VariantProfitMax:      "profit_max",
	VariantDiscomfort:     "discomfort",
	VariantSensitivity:    "sensitivity",
	VariantCapacitySizing: "capacity_sizing",
}

func (v Variant) String() string {
	if name, ok := variantNames[v]; ok {
		return name
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// ParseVariant maps a configuration string onto a Variant.
func ParseVariant(s string) (Variant, error) {
	for v, name := range variantNames {
		if name == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown variant %q", s)
}

// hasDiscomfort reports whether the variant carries the quadratic
// load-deviation term.
func (v Variant) hasDiscomfort() bool {
	return v == VariantDiscomfort || v == VariantSensitivity || v == VariantCapacitySizing
}

// sizesCapacity reports whether battery capacity is a decision variable.
func (v Variant) sizesCapacity() bool {
	return v == VariantCapacitySizing
}
