package metrics

import "time"

// SolveEvent represents the outcome of one scenario solve to be recorded.
type SolveEvent struct {
	RunID     string
	Scenario  string
	Variant   string
	Status    string
	Objective float64
	Profit    float64
	Hours     int
	Duration  time.Duration
	Time      time.Time
}

// MetricsSink records solve outcomes for observability purposes.
type MetricsSink interface {
	RecordSolve(ev SolveEvent) error
}

// SchedulePoint is the dispatch decision for a single hour.
type SchedulePoint struct {
	Hour         int
	ImportKWh    float64
	ExportKWh    float64
	LoadKWh      float64
	PVKWh        float64
	ChargeKWh    float64
	DischargeKWh float64
	SOCKWh       float64
}

// ScheduleEvent carries the full hourly schedule of one solved scenario.
type ScheduleEvent struct {
	RunID    string
	Scenario string
	Variant  string
	Points   []SchedulePoint
	Time     time.Time
}

// ScheduleRecorder is implemented by sinks able to persist hourly schedules.
type ScheduleRecorder interface {
	RecordSchedule(ev ScheduleEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordSolve(SolveEvent) error       { return nil }
func (NopSink) RecordSchedule(ScheduleEvent) error { return nil }
