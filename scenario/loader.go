package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/christianmorkeberg/group25/core/params"
)

// BatteryDef mirrors params.BatteryParams in yaml form.
type BatteryDef struct {
	CapacityKWh         float64 `yaml:"capacity_kwh"`
	MaxChargeRatio      float64 `yaml:"max_charge_ratio"`
	MaxDischargeRatio   float64 `yaml:"max_discharge_ratio"`
	ChargeEfficiency    float64 `yaml:"charge_efficiency"`
	DischargeEfficiency float64 `yaml:"discharge_efficiency"`
	InitialSOCRatio     float64 `yaml:"initial_soc_ratio"`
	MinSOCRatio         float64 `yaml:"min_soc_ratio"`
	FinalSOCRatio       float64 `yaml:"final_soc_ratio"`
	PriceCoefficient    float64 `yaml:"price_coefficient"`
}

func (b *BatteryDef) toParams() *params.BatteryParams {
	if b == nil {
		return nil
	}
	return &params.BatteryParams{
		CapacityKWh:         b.CapacityKWh,
		MaxChargeRatio:      b.MaxChargeRatio,
		MaxDischargeRatio:   b.MaxDischargeRatio,
		ChargeEfficiency:    b.ChargeEfficiency,
		DischargeEfficiency: b.DischargeEfficiency,
		InitialSOCRatio:     b.InitialSOCRatio,
		MinSOCRatio:         b.MinSOCRatio,
		FinalSOCRatio:       b.FinalSOCRatio,
		PriceCoefficient:    b.PriceCoefficient,
	}
}

// ConsumerDef describes the flexible load in yaml form.
type ConsumerDef struct {
	MinTotalEnergyHours *float64    `yaml:"min_total_energy_hours"`
	MaxTotalEnergyHours *float64    `yaml:"max_total_energy_hours"`
	MaxLoadKWhPerHour   FlexSeries  `yaml:"max_load_kwh_per_hour"`
	ReferenceProfile    FlexSeries  `yaml:"reference_profile"`
	DiscomfortWeight    float64     `yaml:"discomfort_weight"`
	Battery             *BatteryDef `yaml:"battery"`
}

func (c ConsumerDef) toParams() params.ConsumerParams {
	return params.ConsumerParams{
		MinTotalEnergyHours: c.MinTotalEnergyHours,
		MaxTotalEnergyHours: c.MaxTotalEnergyHours,
		MaxLoadKWhPerHour:   c.MaxLoadKWhPerHour.Series,
		ReferenceProfile:    c.ReferenceProfile.Series,
		DiscomfortWeight:    c.DiscomfortWeight,
		Battery:             c.Battery.toParams(),
	}
}

// PVDef describes the photovoltaic resource in yaml form.
type PVDef struct {
	CapacityKW float64    `yaml:"capacity_kw"`
	Profile    FlexSeries `yaml:"profile"`
}

func (p PVDef) toParams() params.DERParams {
	return params.DERParams{CapacityKW: p.CapacityKW, Profile: p.Profile.Series}
}

// GridDef describes the grid connection in yaml form.
type GridDef struct {
	ImportTariffPerKWh FlexSeries `yaml:"import_tariff_per_kwh"`
	ExportTariffPerKWh FlexSeries `yaml:"export_tariff_per_kwh"`
	EnergyPricePerKWh  FlexSeries `yaml:"energy_price_per_kwh"`
	MaxImportKW        *float64   `yaml:"max_import_kw"`
	MaxExportKW        *float64   `yaml:"max_export_kw"`
}

func (g GridDef) toParams() params.GridParams {
	return params.GridParams{
		ImportTariffPerKWh: g.ImportTariffPerKWh.Series,
		ExportTariffPerKWh: g.ExportTariffPerKWh.Series,
		EnergyPricePerKWh:  g.EnergyPricePerKWh.Series,
		MaxImportKW:        g.MaxImportKW,
		MaxExportKW:        g.MaxExportKW,
	}
}

// Def is one named run of the shared system: a variant, optional scaling
// factors and tariff toggles.
type Def struct {
	Name         string             `yaml:"name"`
	Description  string             `yaml:"description,omitempty"`
	Variant      string             `yaml:"variant"`
	Scaling      map[string]float64 `yaml:"scaling,omitempty"`
	VaryTariff   bool               `yaml:"vary_tariff,omitempty"`
	TariffSeed   int64              `yaml:"tariff_seed,omitempty"`
	FixedDAPrice *float64           `yaml:"fixed_da_price,omitempty"`
}

// Set is a scenario file: one shared physical system plus the named scenarios
// to run against it.
type Set struct {
	Horizon   int         `yaml:"horizon"`
	Consumer  ConsumerDef `yaml:"consumer"`
	PV        PVDef       `yaml:"pv"`
	Grid      GridDef     `yaml:"grid"`
	Scenarios []Def       `yaml:"scenarios"`
}

// Load reads and decodes a scenario set from path.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Set
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if s.Horizon <= 0 {
		return nil, fmt.Errorf("%s: horizon must be positive", path)
	}
	if len(s.Scenarios) == 0 {
		return nil, fmt.Errorf("%s: no scenarios defined", path)
	}
	seen := map[string]bool{}
	for _, sc := range s.Scenarios {
		if sc.Name == "" {
			return nil, fmt.Errorf("%s: scenario without a name", path)
		}
		key := strings.ToLower(sc.Name)
		if seen[key] {
			return nil, fmt.Errorf("%s: duplicate scenario %q", path, sc.Name)
		}
		seen[key] = true
	}
	return &s, nil
}

// Select returns the scenarios matching the requested names, case
// insensitively. An empty selection or the name "all" returns every scenario
// in file order.
func (s *Set) Select(names []string) ([]Def, error) {
	if len(names) == 0 {
		return s.Scenarios, nil
	}
	byName := make(map[string]Def, len(s.Scenarios))
	for _, sc := range s.Scenarios {
		byName[strings.ToLower(sc.Name)] = sc
	}
	var out []Def
	for _, name := range names {
		key := strings.ToLower(name)
		if key == "all" {
			return s.Scenarios, nil
		}
		sc, ok := byName[key]
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q", name)
		}
		out = append(out, sc)
	}
	return out, nil
}

// Adapters builds the validated parameter adapters for one scenario of the
// set, applying its scaling factors.
func (s *Set) Adapters(sc Def) (*params.Consumer, *params.DER, *params.Grid, error) {
	scale := params.NewScaling(sc.Scaling)
	consumer, err := params.NewConsumer(s.Consumer.toParams(), scale, s.Horizon)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	der, err := params.NewDER(s.PV.toParams(), scale, s.Horizon)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	grid, err := params.NewGrid(s.Grid.toParams(), scale, s.Horizon)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	return consumer, der, grid, nil
}
