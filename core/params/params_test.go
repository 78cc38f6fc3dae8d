package params

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func TestSeriesResolveBroadcastsScalar(t *testing.T) {
	vs, err := ScalarSeries(2.5).Resolve("x", 4)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	assert.Equal(t, []float64{2.5, 2.5, 2.5, 2.5}, vs)
}

func TestSeriesResolveCopiesList(t *testing.T) {
	src := []float64{1, 2, 3}
	s := ListSeries(src)
	vs, err := s.Resolve("x", 3)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	vs[0] = 99
	again, _ := s.Resolve("x", 3)
	assert.Equal(t, 1.0, again[0], "resolve must hand out a copy")
}

func TestSeriesResolveDimensionMismatch(t *testing.T) {
	_, err := ListSeries([]float64{1, 2}).Resolve("load", 4)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("want ErrDimensionMismatch, got %v", err)
	}
}

func TestSeriesResolveAbsent(t *testing.T) {
	var s Series
	assert.True(t, s.IsAbsent())
	_, err := s.Resolve("price", 4)
	if !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("want ErrMissingParameter, got %v", err)
	}
}

func TestUndefinedSentinel(t *testing.T) {
	vs := Undefined(3)
	assert.Len(t, vs, 3)
	for _, v := range vs {
		assert.True(t, IsUndefined(v))
	}
	assert.False(t, IsUndefined(0))
}

func TestScalingFactorDefaultsToOne(t *testing.T) {
	var nilScale Scaling
	assert.Equal(t, 1.0, nilScale.Factor(ScaleLoad))

	s := NewScaling(map[string]float64{ScaleTariff: 2})
	assert.Equal(t, 2.0, s.Factor(ScaleTariff))
	assert.Equal(t, 1.0, s.Factor(ScalePrice))
}

func TestNewScalingCopies(t *testing.T) {
	src := map[string]float64{ScalePV: 3}
	s := NewScaling(src)
	src[ScalePV] = 7
	assert.Equal(t, 3.0, s.Factor(ScalePV))
}

func baseConsumer() ConsumerParams {
	return ConsumerParams{
		MinTotalEnergyHours: fptr(2),
		MaxLoadKWhPerHour:   ListSeries([]float64{1, 4, 2}),
	}
}

func TestNewConsumerRequiresMinEnergy(t *testing.T) {
	p := baseConsumer()
	p.MinTotalEnergyHours = nil
	_, err := NewConsumer(p, nil, 3)
	if !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("want ErrMissingParameter, got %v", err)
	}
}

func TestConsumerDailyEnergyUsesScaledPeak(t *testing.T) {
	c, err := NewConsumer(baseConsumer(), NewScaling(map[string]float64{ScaleLoad: 2}), 3)
	if err != nil {
		t.Fatalf("new consumer: %v", err)
	}
	// Peak of the scaled ceiling is 8, so 2 hour-equivalents are 16 kWh.
	assert.InDelta(t, 16, c.MinDailyEnergyKWh(), 1e-12)
	// No explicit maximum collapses to an equality at the minimum.
	assert.InDelta(t, 16, c.MaxDailyEnergyKWh(), 1e-12)
}

func TestConsumerMaxDailyEnergy(t *testing.T) {
	p := baseConsumer()
	p.MaxTotalEnergyHours = fptr(3)
	c, err := NewConsumer(p, nil, 3)
	if err != nil {
		t.Fatalf("new consumer: %v", err)
	}
	assert.InDelta(t, 12, c.MaxDailyEnergyKWh(), 1e-12)
}

func TestConsumerReferenceProfileInKWh(t *testing.T) {
	p := baseConsumer()
	p.ReferenceProfile = ListSeries([]float64{0.5, 0.25, 1})
	c, err := NewConsumer(p, nil, 3)
	if err != nil {
		t.Fatalf("new consumer: %v", err)
	}
	assert.Equal(t, []float64{0.5, 1, 2}, c.ReferenceProfileKWh())

	plain, _ := NewConsumer(baseConsumer(), nil, 3)
	assert.Equal(t, []float64{0, 0, 0}, plain.ReferenceProfileKWh())
}

func TestConsumerDiscomfortWeightDefault(t *testing.T) {
	c, _ := NewConsumer(baseConsumer(), nil, 3)
	assert.Equal(t, 1.0, c.DiscomfortWeight())

	p := baseConsumer()
	p.DiscomfortWeight = 5
	c, _ = NewConsumer(p, NewScaling(map[string]float64{ScaleDiscomfortCost: 2}), 3)
	assert.Equal(t, 10.0, c.DiscomfortWeight())
}

func TestConsumerWithoutBattery(t *testing.T) {
	c, _ := NewConsumer(baseConsumer(), nil, 3)
	assert.Equal(t, 0.0, c.BatteryCapacityKWh())
	assert.Equal(t, 0.0, c.MaxChargeKW())
	assert.Equal(t, 0.0, c.MaxDischargeKW())
	assert.Equal(t, 1.0, c.ChargeEfficiency())
	assert.Equal(t, 1.0, c.DischargeEfficiency())
	assert.Equal(t, 0.0, c.InitialSOCRatio())
}

func TestConsumerBatteryScaling(t *testing.T) {
	p := baseConsumer()
	p.Battery = &BatteryParams{
		CapacityKWh:       10,
		MaxChargeRatio:    0.5,
		MaxDischargeRatio: 0.25,
		InitialSOCRatio:   0.5,
		MinSOCRatio:       0.1,
		FinalSOCRatio:     0.5,
		PriceCoefficient:  100,
	}
	scale := NewScaling(map[string]float64{
		ScaleBatteryCapacity: 2,
		ScaleChargePower:     2,
		ScaleInitialSOC:      3, // drives the ratio past 1, must clamp
		ScaleBatteryPrice:    0.5,
	})
	c, err := NewConsumer(p, scale, 3)
	if err != nil {
		t.Fatalf("new consumer: %v", err)
	}
	assert.InDelta(t, 20, c.BatteryCapacityKWh(), 1e-12)
	// Scaled capacity 20 x ratio 0.5 x power factor 2.
	assert.InDelta(t, 20, c.MaxChargeKW(), 1e-12)
	assert.InDelta(t, 5, c.MaxDischargeKW(), 1e-12)
	assert.InDelta(t, 1, c.ChargeRatio(), 1e-12)
	assert.Equal(t, 1.0, c.InitialSOCRatio())
	assert.InDelta(t, 0.1, c.MinSOCRatio(), 1e-12)
	assert.InDelta(t, 50, c.BatteryPriceCoefficient(), 1e-12)
}

func TestNewConsumerRejectsBadEfficiency(t *testing.T) {
	p := baseConsumer()
	p.Battery = &BatteryParams{CapacityKWh: 1, ChargeEfficiency: 1.5}
	_, err := NewConsumer(p, nil, 3)
	assert.Error(t, err)
}

func TestNewDERRequiresProfileWithCapacity(t *testing.T) {
	_, err := NewDER(DERParams{CapacityKW: 5}, nil, 3)
	if !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("want ErrMissingParameter, got %v", err)
	}

	d, err := NewDER(DERParams{}, nil, 3)
	if err != nil {
		t.Fatalf("zero-capacity DER must be valid: %v", err)
	}
	assert.Equal(t, []float64{0, 0, 0}, d.AvailablePVKWh())
}

func TestDERAvailabilityScaled(t *testing.T) {
	d, err := NewDER(DERParams{
		Profile:    ListSeries([]float64{0, 0.5, 1}),
		CapacityKW: 4,
	}, NewScaling(map[string]float64{ScalePV: 2}), 3)
	if err != nil {
		t.Fatalf("new der: %v", err)
	}
	assert.Equal(t, []float64{0, 4, 8}, d.AvailablePVKWh())
}

func baseGrid() GridParams {
	return GridParams{
		EnergyPricePerKWh: ScalarSeries(1),
		MaxImportKW:       fptr(10),
		MaxExportKW:       fptr(10),
	}
}

func TestNewGridRequiresLimitsAndPrice(t *testing.T) {
	p := baseGrid()
	p.MaxImportKW = nil
	_, err := NewGrid(p, nil, 3)
	if !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("want ErrMissingParameter, got %v", err)
	}

	p = baseGrid()
	p.EnergyPricePerKWh = Series{}
	_, err = NewGrid(p, nil, 3)
	if !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("want ErrMissingParameter, got %v", err)
	}
}

func TestGridAbsentTariffIsUndefined(t *testing.T) {
	g, err := NewGrid(baseGrid(), nil, 3)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	for _, v := range g.ImportTariff() {
		assert.True(t, IsUndefined(v))
	}
	for _, v := range g.ExportTariff() {
		assert.True(t, IsUndefined(v))
	}
}

func TestGridTariffAndPriceScaling(t *testing.T) {
	p := baseGrid()
	p.ImportTariffPerKWh = ScalarSeries(0.1)
	p.ExportTariffPerKWh = ListSeries([]float64{0.1, 0.2, 0.3})
	g, err := NewGrid(p, NewScaling(map[string]float64{
		ScaleTariff: 2,
		ScalePrice:  3,
	}), 3)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	assert.InDelta(t, 0.2, g.ImportTariff()[0], 1e-12)
	assert.InDelta(t, 0.6, g.ExportTariff()[2], 1e-12)
	assert.Equal(t, []float64{3, 3, 3}, g.EnergyPrice())
	assert.Equal(t, 10.0, g.MaxImportKW())
}

func TestGridRejectsNegativeLimits(t *testing.T) {
	p := baseGrid()
	p.MaxExportKW = fptr(-1)
	_, err := NewGrid(p, nil, 3)
	assert.Error(t, err)
}

func TestGridTariffDimensionMismatch(t *testing.T) {
	p := baseGrid()
	p.ImportTariffPerKWh = ListSeries([]float64{0.1, 0.2})
	_, err := NewGrid(p, nil, 3)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("want ErrDimensionMismatch, got %v", err)
	}
}
