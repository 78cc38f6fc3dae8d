package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/christianmorkeberg/group25/core/dispatch"
)

// DualsFilename builds the export filename for one scenario. Tariff
// perturbation and a fixed day-ahead price change the economics, so their
// exports carry a suffix and never overwrite the baseline file.
func DualsFilename(scenario string, opts dispatch.Options) string {
	name := "duals_" + strings.ReplaceAll(scenario, " ", "_")
	if opts.VaryTariff {
		name += "_varytariff"
	}
	if opts.FixedDAPrice != nil {
		name += fmt.Sprintf("_fixedDA%g", *opts.FixedDAPrice)
	}
	return name + ".txt"
}

// WriteDuals writes the shadow prices of one result to w, sorted by
// constraint name so the output is stable across runs.
func WriteDuals(w io.Writer, scenario string, res *dispatch.Result) error {
	if _, err := fmt.Fprintf(w, "Dual values (shadow prices) for scenario: %s\n", scenario); err != nil {
		return err
	}
	names := make([]string, 0, len(res.Duals))
	for name := range res.Duals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s: %.6f\n", name, res.Duals[name]); err != nil {
			return err
		}
	}
	return nil
}

// ExportDuals writes the shadow prices to a per-scenario file under dir and
// returns the path. The directory is created when missing.
func ExportDuals(dir, scenario string, res *dispatch.Result, opts dispatch.Options) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, DualsFilename(scenario, opts))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := WriteDuals(f, scenario, res); err != nil {
		return "", err
	}
	return path, nil
}
