// Package app wires configuration, scenarios, the solver and the
// observability sinks into one runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/christianmorkeberg/group25/config"
	"github.com/christianmorkeberg/group25/core/dispatch"
	coremetrics "github.com/christianmorkeberg/group25/core/metrics"
	coremqtt "github.com/christianmorkeberg/group25/core/mqtt"
	"github.com/christianmorkeberg/group25/core/solver"
	"github.com/christianmorkeberg/group25/infra/logger"
	inframetrics "github.com/christianmorkeberg/group25/infra/metrics"
	"github.com/christianmorkeberg/group25/infra/mqtt"
	"github.com/christianmorkeberg/group25/infra/simplex"
	"github.com/christianmorkeberg/group25/report"
	"github.com/christianmorkeberg/group25/scenario"
)

// Service runs every selected scenario of a scenario set sequentially and
// routes the results to the console, the metrics sinks and the broker.
type Service struct {
	cfg  *config.Config
	set  *scenario.Set
	slv  solver.Solver
	sink coremetrics.MetricsSink
	pub  coremqtt.Publisher
	out  io.Writer
	log  logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	zerolog.SetGlobalLevel(cfg.Logging.ZerologLevel())
	log := logger.New("service")

	set, err := scenario.Load(cfg.Runner.ScenarioFile)
	if err != nil {
		return nil, fmt.Errorf("scenario set: %w", err)
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	var pub coremqtt.Publisher
	if cfg.MQTT.Enabled {
		pub, err = mqtt.NewPahoClient(cfg.MQTT.Client)
		if err != nil {
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
	}

	slv := simplex.New(simplex.Config{
		Tolerance:    cfg.Solver.Tolerance,
		QuadSegments: cfg.Solver.QuadSegments,
		SkipDuals:    cfg.Solver.SkipDuals,
	})

	return &Service{cfg: cfg, set: set, slv: slv, sink: sink, pub: pub, out: os.Stdout, log: log}, nil
}

// Run solves the selected scenarios in file order and blocks until done or
// the context is cancelled. A scenario that fails to solve is reported and
// skipped; it never aborts the remaining scenarios.
func (s *Service) Run(ctx context.Context) error {
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := inframetrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	selected, err := s.set.Select(s.cfg.Runner.Scenarios)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(s.cfg.Runner.ReportFormat)
	if err != nil {
		return err
	}

	for _, sc := range selected {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.runScenario(ctx, sc, format); err != nil {
			s.log.Errorf("scenario %s: %v", sc.Name, err)
			if err := report.WriteResult(s.out, sc.Name, nil, format); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) runScenario(ctx context.Context, sc scenario.Def, format report.Format) error {
	variantName := sc.Variant
	if s.cfg.Runner.Variant != "" {
		variantName = s.cfg.Runner.Variant
	}
	variant, err := dispatch.ParseVariant(variantName)
	if err != nil {
		return err
	}

	consumer, der, grid, err := s.set.Adapters(sc)
	if err != nil {
		return err
	}
	model, err := dispatch.NewEnergySystemModel(consumer, der, grid, logger.New("dispatch"))
	if err != nil {
		return err
	}

	opts := dispatch.Options{
		Epsilon:      s.cfg.Runner.Epsilon,
		BigM:         s.cfg.Runner.BigM,
		GridCapKW:    s.cfg.Runner.GridCapKW,
		VaryTariff:   sc.VaryTariff,
		TariffSeed:   sc.TariffSeed,
		FixedDAPrice: sc.FixedDAPrice,
	}

	runID := uuid.NewString()
	s.log.Infof("solving scenario %s (%s, run %s)", sc.Name, variant, runID)
	start := time.Now()
	res, runErr := model.Run(ctx, s.slv, variant, opts)
	elapsed := time.Since(start)

	if err := s.sink.RecordSolve(solveEvent(runID, sc.Name, variant, res, runErr, elapsed)); err != nil {
		s.log.Warnf("record solve: %v", err)
	}
	if runErr != nil {
		return runErr
	}

	if err := report.WriteResult(s.out, sc.Name, res, format); err != nil {
		return err
	}
	if dir := s.cfg.Runner.DualsDir; dir != "" && len(res.Duals) > 0 {
		path, err := report.ExportDuals(dir, sc.Name, res, opts)
		if err != nil {
			s.log.Warnf("export duals: %v", err)
		} else {
			s.log.Infof("dual values exported to %s", path)
		}
	}

	if rec, ok := s.sink.(coremetrics.ScheduleRecorder); ok {
		if err := rec.RecordSchedule(scheduleEvent(runID, sc.Name, variant, res)); err != nil {
			s.log.Warnf("record schedule: %v", err)
		}
	}
	if s.pub != nil {
		msg := coremqtt.ScheduleMessage{
			RunID:       runID,
			Scenario:    sc.Name,
			Variant:     variant.String(),
			Objective:   res.Objective,
			Hours:       len(res.Series["p_load"]),
			Series:      res.Series,
			GeneratedAt: time.Now().UTC(),
		}
		if err := s.pub.PublishSchedule(msg); err != nil {
			s.log.Warnf("publish schedule: %v", err)
		}
	}
	return nil
}

func solveEvent(runID, name string, variant dispatch.Variant, res *dispatch.Result, runErr error, elapsed time.Duration) coremetrics.SolveEvent {
	ev := coremetrics.SolveEvent{
		RunID:    runID,
		Scenario: name,
		Variant:  variant.String(),
		Status:   "optimal",
		Duration: elapsed,
		Time:     time.Now().UTC(),
	}
	switch {
	case runErr == nil:
		ev.Objective = res.Objective
		ev.Profit = res.Scalars["actual_profit"]
		ev.Hours = len(res.Series["p_load"])
	case errors.Is(runErr, dispatch.ErrNotOptimal):
		ev.Status = "not_optimal"
	default:
		ev.Status = "error"
	}
	return ev
}

func scheduleEvent(runID, name string, variant dispatch.Variant, res *dispatch.Result) coremetrics.ScheduleEvent {
	n := len(res.Series["p_load"])
	points := make([]coremetrics.SchedulePoint, n)
	for t := 0; t < n; t++ {
		points[t] = coremetrics.SchedulePoint{
			Hour:         t,
			ImportKWh:    res.Series["p_import"][t],
			ExportKWh:    res.Series["p_export"][t],
			LoadKWh:      res.Series["p_load"][t],
			PVKWh:        res.Series["p_pv_actual"][t],
			ChargeKWh:    res.Series["p_bat_charge"][t],
			DischargeKWh: res.Series["p_bat_discharge"][t],
			SOCKWh:       res.Series["soc"][t],
		}
	}
	return coremetrics.ScheduleEvent{
		RunID:    runID,
		Scenario: name,
		Variant:  variant.String(),
		Points:   points,
		Time:     time.Now().UTC(),
	}
}

// Close releases resources held by the service.
func (s *Service) Close() {
	if s.pub != nil {
		s.pub.Close()
	}
}
