package model

import "github.com/pkg/errors"

var (
	// ErrInfeasibleStart is returned when the slack basis is not feasible,
	// i.e. some right-hand side is negative.
	ErrInfeasibleStart = errors.New("lp: method is not applicable, negative right-hand side")
	ErrUnbounded       = errors.New("lp: problem is unbounded")
	// ErrNumericalFailure is returned when the scaled projection cannot be
	// computed.
	ErrNumericalFailure  = errors.New("lp: method is not applicable, numerical failure")
	ErrNotConverged      = errors.New("lp: iteration limit reached before convergence")
	ErrIterationLimit    = errors.New("lp: pivot limit reached")
	ErrDimensionMismatch = errors.New("lp: size mismatch")
	ErrInvalidStart      = errors.New("lp: initial point is not strictly positive")
	ErrInvalidParameter  = errors.New("lp: invalid parameter")
)
