package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/christianmorkeberg/group25/app"
	"github.com/christianmorkeberg/group25/config"
)

var (
	runScenarioNames []string
	runVariant       string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Solve the configured scenarios",
	RunE:  runSolve,
}

func init() {
	runCmd.Flags().StringSliceVarP(&runScenarioNames, "scenarios", "s", nil,
		"scenarios to solve (default: the configured selection, or all)")
	runCmd.Flags().StringVar(&runVariant, "variant", "",
		"override the formulation variant for every scenario")
	rootCmd.AddCommand(runCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if len(runScenarioNames) > 0 {
		cfg.Runner.Scenarios = runScenarioNames
	}
	if runVariant != "" {
		cfg.Runner.Variant = runVariant
	}
	if err := cfg.Runner.Validate(); err != nil {
		return err
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()
	return svc.Run(ctx)
}
