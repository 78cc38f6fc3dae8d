package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/christianmorkeberg/group25/core/metrics"
	"github.com/christianmorkeberg/group25/infra/logger"
)

// InfluxSink writes solve outcomes to an InfluxDB instance using the official
// client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSolve writes the solve summary as a single point.
func (s *InfluxSink) RecordSolve(ev coremetrics.SolveEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("solve_event").
		AddTag("scenario", ev.Scenario).
		AddTag("variant", ev.Variant).
		AddTag("status", ev.Status).
		AddTag("run_id", ev.RunID).
		AddField("objective", round3(ev.Objective)).
		AddField("profit", round3(ev.Profit)).
		AddField("hours", ev.Hours).
		AddField("duration_ms", ev.Duration.Milliseconds()).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSchedule writes one point per hour of the dispatch schedule.
func (s *InfluxSink) RecordSchedule(ev coremetrics.ScheduleEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, pt := range ev.Points {
		p := write.NewPointWithMeasurement("dispatch_schedule").
			AddTag("scenario", ev.Scenario).
			AddTag("variant", ev.Variant).
			AddTag("run_id", ev.RunID).
			AddField("hour", pt.Hour).
			AddField("import_kwh", round3(pt.ImportKWh)).
			AddField("export_kwh", round3(pt.ExportKWh)).
			AddField("load_kwh", round3(pt.LoadKWh)).
			AddField("pv_kwh", round3(pt.PVKWh)).
			AddField("charge_kwh", round3(pt.ChargeKWh)).
			AddField("discharge_kwh", round3(pt.DischargeKWh)).
			AddField("soc_kwh", round3(pt.SOCKWh)).
			SetTime(ev.Time.Add(time.Duration(pt.Hour) * time.Hour))
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and shuts down the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
