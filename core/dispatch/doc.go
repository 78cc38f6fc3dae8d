// Package dispatch formulates and solves the hourly energy-dispatch problem
// of a single prosumer: photovoltaic generation, an optional battery and a
// flexible load trading against a day-ahead market through asymmetric grid
// tariffs.
//
// EnergySystemModel translates the parameter adapters into decision
// variables, named constraints and one of four objective variants, hands the
// problem to a solver behind the core/solver boundary, and reads the optimal
// point back into a Result: per-hour series, derived diagnostics
// (curtailment, normalized state of charge, realized profit) and constraint
// shadow prices keyed by stable names.
package dispatch
