package domain

import "errors"

// Precondition violations, reported before any fetch is attempted.
// Callers must be able to tell these apart from a "no feasible window"
// outcome, which is a value, not an error.
var (
	ErrInvalidWindow   = errors.New("window start is after window end")
	ErrInvalidDuration = errors.New("event duration must be at least one day")
)

// ErrNoData indicates the historical source returned nothing for a
// requested window. Fetch failures and truly empty responses collapse
// into this one condition.
var ErrNoData = errors.New("no historical data available")
