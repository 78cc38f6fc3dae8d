package params

import "fmt"

// GridParams is the raw description of the grid connection: tariffs, the
// day-ahead price and the physical import/export limits.
type GridParams struct {
	// ImportTariffPerKWh and ExportTariffPerKWh are the grid-operator fees.
	// Absent tariffs resolve to undefined sentinels, not zero.
	ImportTariffPerKWh Series
	ExportTariffPerKWh Series
	// EnergyPricePerKWh is the day-ahead market price. Required.
	EnergyPricePerKWh Series
	// MaxImportKW and MaxExportKW bound power exchange with the grid.
	// Required.
	MaxImportKW *float64
	MaxExportKW *float64
}

// Grid exposes tariffs, prices and exchange limits scaled by the scenario
// scaling.
type Grid struct {
	p       GridParams
	scale   Scaling
	horizon int
}

// NewGrid validates the raw parameters against the horizon and returns the
// adapter.
func NewGrid(p GridParams, scale Scaling, horizon int) (*Grid, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	if _, err := p.EnergyPricePerKWh.Resolve("energy_price_per_kwh", horizon); err != nil {
		return nil, err
	}
	if p.MaxImportKW == nil {
		return nil, fmt.Errorf("%w: max_import_kw", ErrMissingParameter)
	}
	if p.MaxExportKW == nil {
		return nil, fmt.Errorf("%w: max_export_kw", ErrMissingParameter)
	}
	if *p.MaxImportKW < 0 || *p.MaxExportKW < 0 {
		return nil, fmt.Errorf("grid limits must be non-negative")
	}
	for name, s := range map[string]Series{
		"import_tariff_per_kwh": p.ImportTariffPerKWh,
		"export_tariff_per_kwh": p.ExportTariffPerKWh,
	} {
		if s.IsAbsent() {
			continue
		}
		if _, err := s.Resolve(name, horizon); err != nil {
			return nil, err
		}
	}
	return &Grid{p: p, scale: scale, horizon: horizon}, nil
}

// Horizon returns the number of hours shared by all series.
func (g *Grid) Horizon() int { return g.horizon }

// ImportTariff returns the scaled per-hour import tariff, or undefined
// sentinels when the scenario carries none.
func (g *Grid) ImportTariff() []float64 {
	return g.tariff("import_tariff_per_kwh", g.p.ImportTariffPerKWh)
}

// ExportTariff returns the scaled per-hour export tariff, or undefined
// sentinels when the scenario carries none.
func (g *Grid) ExportTariff() []float64 {
	return g.tariff("export_tariff_per_kwh", g.p.ExportTariffPerKWh)
}

func (g *Grid) tariff(name string, s Series) []float64 {
	if s.IsAbsent() {
		return Undefined(g.horizon)
	}
	vs, _ := s.Resolve(name, g.horizon)
	return scaled(vs, g.scale.Factor(ScaleTariff))
}

// EnergyPrice returns the scaled per-hour day-ahead price.
func (g *Grid) EnergyPrice() []float64 {
	vs, _ := g.p.EnergyPricePerKWh.Resolve("energy_price_per_kwh", g.horizon)
	return scaled(vs, g.scale.Factor(ScalePrice))
}

// MaxImportKW returns the import power limit.
func (g *Grid) MaxImportKW() float64 { return *g.p.MaxImportKW }

// MaxExportKW returns the export power limit.
func (g *Grid) MaxExportKW() float64 { return *g.p.MaxExportKW }
