// Package report renders solved scenarios for humans: console summaries in a
// full or compact format and per-scenario dual-value exports.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/christianmorkeberg/group25/core/dispatch"
)

// Format selects how much of a result is printed.
type Format string

const (
	// FormatFull prints every series and scalar of the result.
	FormatFull Format = "full"
	// FormatCompact prints only the headline sums.
	FormatCompact Format = "compact"
)

// ParseFormat maps a configuration string onto a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatFull, FormatCompact:
		return Format(s), nil
	case "":
		return FormatFull, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// WriteResult writes one scenario's result to w in the requested format.
func WriteResult(w io.Writer, scenario string, res *dispatch.Result, format Format) error {
	if res == nil {
		_, err := fmt.Fprintf(w, "No results available for scenario %q.\n", scenario)
		return err
	}
	if format == FormatCompact {
		return writeCompact(w, scenario, res)
	}
	return writeFull(w, scenario, res)
}

func writeFull(w io.Writer, scenario string, res *dispatch.Result) error {
	if _, err := fmt.Fprintf(w, "\n=== OPTIMIZATION RESULTS (%s, %s) ===\n", scenario, res.Variant); err != nil {
		return err
	}
	for _, key := range sortedSeriesKeys(res) {
		if _, err := fmt.Fprintf(w, "%s: %s\n", key, formatSeries(res.Series[key])); err != nil {
			return err
		}
	}
	return writeScalars(w, res)
}

func writeCompact(w io.Writer, scenario string, res *dispatch.Result) error {
	if _, err := fmt.Fprintf(w, "\n=== OPTIMIZATION SUMMARY (%s, %s) ===\n", scenario, res.Variant); err != nil {
		return err
	}
	for _, key := range []string{"p_import", "p_export", "p_load", "curtailment"} {
		vs, ok := res.Series[key]
		if !ok {
			continue
		}
		total := 0.0
		for _, v := range vs {
			total += v
		}
		if _, err := fmt.Fprintf(w, "%s (sum): %.2f\n", key, total); err != nil {
			return err
		}
	}
	return writeScalars(w, res)
}

func writeScalars(w io.Writer, res *dispatch.Result) error {
	if v, ok := res.Scalars["actual_profit"]; ok {
		if _, err := fmt.Fprintf(w, "Actual Profit: %.2f DKK\n", v); err != nil {
			return err
		}
	}
	if v, ok := res.Scalars["discomfort"]; ok {
		if _, err := fmt.Fprintf(w, "Discomfort term: %.2f\n", v); err != nil {
			return err
		}
	}
	if v, ok := res.Scalars["p_bat_cap"]; ok && res.Variant == dispatch.VariantCapacitySizing {
		if _, err := fmt.Fprintf(w, "Optimal battery capacity: %.2f kWh\n", v); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Objective Value: %.2f\n", res.Objective); err != nil {
		return err
	}
	note := "(Objective value is total profit)"
	if _, ok := res.Scalars["discomfort"]; ok {
		note = "(Objective value is a weighted sum of profit and discomfort, not pure profit)"
	}
	_, err := fmt.Fprintf(w, "%s\n============================\n", note)
	return err
}

func sortedSeriesKeys(res *dispatch.Result) []string {
	keys := make([]string, 0, len(res.Series))
	for k := range res.Series {
		if k == "reference_profile" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatSeries(vs []float64) string {
	out := "["
	for i, v := range vs {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%.3f", v)
	}
	return out + "]"
}
