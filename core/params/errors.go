package params

import "errors"

// ErrMissingParameter is returned when a required quantity is absent from the
// scenario input and has no physically meaningful default.
var ErrMissingParameter = errors.New("missing required parameter")

// ErrDimensionMismatch is returned when a per-hour series disagrees with the
// horizon length. Series are never truncated or padded.
var ErrDimensionMismatch = errors.New("series length does not match horizon")
