package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/christianmorkeberg/group25/config"
	"github.com/christianmorkeberg/group25/scenario"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the scenarios of the configured scenario file",
	RunE:  runScenarios,
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	set, err := scenario.Load(cfg.Runner.ScenarioFile)
	if err != nil {
		return fmt.Errorf("load scenarios: %w", err)
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "%s (%d hours)\n", cfg.Runner.ScenarioFile, set.Horizon); err != nil {
		return err
	}
	for _, sc := range set.Scenarios {
		line := fmt.Sprintf("  %s [%s]", sc.Name, sc.Variant)
		if sc.Description != "" {
			line += " - " + sc.Description
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}
