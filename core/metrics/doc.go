// Package metrics defines interfaces and event types for recording solve
// outcomes. Sinks like PromSink and InfluxSink record events such as a solved
// scenario or the resulting hourly schedule and can be combined with
// NewMultiSink. The factory helpers return a MultiSink automatically when
// multiple sinks are configured.
package metrics
