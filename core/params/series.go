package params

import (
	"fmt"
	"math"
)

// Series is a per-hour quantity that may be supplied either as a single
// scalar, broadcast over the whole horizon, or as an explicit per-hour list.
// The zero value is "absent".
type Series struct {
	scalar *float64
	values []float64
}

// ScalarSeries returns a Series holding a single broadcast value.
func ScalarSeries(v float64) Series {
	return Series{scalar: &v}
}

// ListSeries returns a Series holding explicit per-hour values.
func ListSeries(vs []float64) Series {
	return Series{values: vs}
}

// IsAbsent reports whether no value was supplied at all.
func (s Series) IsAbsent() bool {
	return s.scalar == nil && s.values == nil
}

// Resolve returns the series as a slice of length horizon, broadcasting a
// scalar if needed. A length mismatch is an error, never silently fixed.
func (s Series) Resolve(name string, horizon int) ([]float64, error) {
	switch {
	case s.values != nil:
		if len(s.values) != horizon {
			return nil, fmt.Errorf("%w: %s has %d entries, horizon is %d",
				ErrDimensionMismatch, name, len(s.values), horizon)
		}
		out := make([]float64, horizon)
		copy(out, s.values)
		return out, nil
	case s.scalar != nil:
		out := make([]float64, horizon)
		for i := range out {
			out[i] = *s.scalar
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}
}

// Undefined returns a series of NaN sentinels. Downstream code uses it to
// distinguish "no data" from "zero magnitude".
func Undefined(horizon int) []float64 {
	out := make([]float64, horizon)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// IsUndefined reports whether v is the undefined sentinel.
func IsUndefined(v float64) bool { return math.IsNaN(v) }

func scaled(vs []float64, factor float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v * factor
	}
	return out
}
