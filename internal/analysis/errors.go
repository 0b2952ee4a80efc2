package analysis

import "errors"

// Core error taxonomy. These are recovered locally: the affected Deal is
// marked with the matching status and excluded from ranking, the batch
// continues. They are never fatal to a run.
var (
	// ErrInsufficientComparables - no usable comparable sales to derive ARV from
	ErrInsufficientComparables = errors.New("insufficient comparable sales")
	// ErrInvalidInput - non-positive list price or square footage
	ErrInvalidInput = errors.New("invalid property input")
	// ErrMissingWeight - a required scoring weight was not supplied
	ErrMissingWeight = errors.New("missing scoring weight")
)
