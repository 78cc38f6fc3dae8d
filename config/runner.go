package config

import (
	"fmt"

	"github.com/christianmorkeberg/group25/core/dispatch"
	"github.com/christianmorkeberg/group25/report"
)

// RunnerConfig selects which scenarios to solve and how to present the
// results.
type RunnerConfig struct {
	// ScenarioFile is the yaml scenario set to load.
	ScenarioFile string `json:"scenario_file"`
	// Scenarios names the scenarios to run; empty or "all" runs every one.
	Scenarios []string `json:"scenarios"`
	// Variant overrides the per-scenario variant when set.
	Variant string `json:"variant"`
	// ReportFormat is "full" or "compact".
	ReportFormat string `json:"report_format"`
	// DualsDir receives the per-scenario shadow price exports; empty
	// disables the export.
	DualsDir string `json:"duals_dir"`
	// Epsilon, BigM and GridCapKW tune the formulation; zero keeps the
	// built-in defaults.
	Epsilon   float64 `json:"epsilon"`
	BigM      float64 `json:"big_m"`
	GridCapKW float64 `json:"grid_cap_kw"`
}

// SetDefaults applies sane defaults.
func (c *RunnerConfig) SetDefaults() {
	if c.ScenarioFile == "" {
		c.ScenarioFile = "scenarios.yaml"
	}
	if c.ReportFormat == "" {
		c.ReportFormat = string(report.FormatFull)
	}
}

// Validate checks mandatory fields.
func (c RunnerConfig) Validate() error {
	if c.ScenarioFile == "" {
		return fmt.Errorf("scenario_file is required")
	}
	if _, err := report.ParseFormat(c.ReportFormat); err != nil {
		return err
	}
	if c.Variant != "" {
		if _, err := dispatch.ParseVariant(c.Variant); err != nil {
			return err
		}
	}
	if c.Epsilon < 0 || c.BigM < 0 || c.GridCapKW < 0 {
		return fmt.Errorf("formulation tuning values must be non-negative")
	}
	return nil
}

// SolverConfig tunes the LP backend.
type SolverConfig struct {
	// Tolerance is the simplex pivot tolerance, zero keeps the default.
	Tolerance float64 `json:"tolerance"`
	// QuadSegments sets the piecewise linearization resolution of quadratic
	// objective terms, zero keeps the default.
	QuadSegments int `json:"quad_segments"`
	// SkipDuals disables the shadow price pass.
	SkipDuals bool `json:"skip_duals"`
}

// Validate checks the tuning values.
func (c SolverConfig) Validate() error {
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance must be non-negative")
	}
	if c.QuadSegments < 0 {
		return fmt.Errorf("quad_segments must be non-negative")
	}
	return nil
}
