package report

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/christianmorkeberg/group25/core/dispatch"
)

func sampleResult() *dispatch.Result {
	return &dispatch.Result{
		Variant:   dispatch.VariantProfitMax,
		Objective: 8.99,
		Series: map[string][]float64{
			"p_import":    {0, 0},
			"p_export":    {5, 4},
			"p_load":      {0, 0},
			"curtailment": {0, 1},
		},
		Scalars: map[string]float64{"actual_profit": 9},
		Duals: map[string]float64{
			"hourly_balance_0": 0.9,
			"hourly_balance_1": 1.1,
			"soc_final":        -0.2,
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	assert.NoError(t, err)
	assert.Equal(t, FormatFull, f)

	f, err = ParseFormat("compact")
	assert.NoError(t, err)
	assert.Equal(t, FormatCompact, f)

	_, err = ParseFormat("tiny")
	assert.Error(t, err)
}

func TestWriteResultFull(t *testing.T) {
	var sb strings.Builder
	if err := WriteResult(&sb, "summer day", sampleResult(), FormatFull); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := sb.String()
	assert.Contains(t, out, "OPTIMIZATION RESULTS (summer day, profit_max)")
	assert.Contains(t, out, "p_export: [5.000 4.000]")
	assert.Contains(t, out, "Actual Profit: 9.00 DKK")
	assert.Contains(t, out, "Objective Value: 8.99")
	assert.Contains(t, out, "(Objective value is total profit)")
}

func TestWriteResultCompact(t *testing.T) {
	var sb strings.Builder
	if err := WriteResult(&sb, "summer day", sampleResult(), FormatCompact); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := sb.String()
	assert.Contains(t, out, "OPTIMIZATION SUMMARY")
	assert.Contains(t, out, "p_export (sum): 9.00")
	assert.Contains(t, out, "curtailment (sum): 1.00")
	assert.NotContains(t, out, "p_export: [")
}

func TestWriteResultDiscomfortNote(t *testing.T) {
	res := sampleResult()
	res.Variant = dispatch.VariantDiscomfort
	res.Scalars["discomfort"] = 0.42

	var sb strings.Builder
	if err := WriteResult(&sb, "comfort", res, FormatFull); err != nil {
		t.Fatalf("write: %v", err)
	}
	assert.Contains(t, sb.String(), "Discomfort term: 0.42")
	assert.Contains(t, sb.String(), "weighted sum of profit and discomfort")
}

func TestWriteResultNil(t *testing.T) {
	var sb strings.Builder
	if err := WriteResult(&sb, "missing", nil, FormatFull); err != nil {
		t.Fatalf("write: %v", err)
	}
	assert.Contains(t, sb.String(), `No results available for scenario "missing".`)
}

func TestDualsFilename(t *testing.T) {
	fixed := 0.5
	cases := []struct {
		opts dispatch.Options
		want string
	}{
		{dispatch.Options{}, "duals_summer_day.txt"},
		{dispatch.Options{VaryTariff: true}, "duals_summer_day_varytariff.txt"},
		{dispatch.Options{FixedDAPrice: &fixed}, "duals_summer_day_fixedDA0.5.txt"},
		{dispatch.Options{VaryTariff: true, FixedDAPrice: &fixed}, "duals_summer_day_varytariff_fixedDA0.5.txt"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DualsFilename("summer day", c.opts))
	}
}

func TestExportDuals(t *testing.T) {
	dir := t.TempDir()
	path, err := ExportDuals(dir, "summer day", sampleResult(), dispatch.Options{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(data)
	assert.Contains(t, out, "Dual values (shadow prices) for scenario: summer day")
	assert.Contains(t, out, "hourly_balance_0: 0.900000")
	assert.Contains(t, out, "soc_final: -0.200000")
	// Sorted output: balance duals precede soc_final.
	assert.Less(t, strings.Index(out, "hourly_balance_1"), strings.Index(out, "soc_final"))
}
