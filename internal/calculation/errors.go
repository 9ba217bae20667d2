package calculation

import "errors"

var (
	// ErrUnknownStructure is returned for a structure outside the six known ones.
	ErrUnknownStructure = errors.New("unknown structure")
	// ErrInvalidGrowthRate is returned when the growth factor implies a total loss (g <= -1).
	ErrInvalidGrowthRate = errors.New("growth rate must be above -100%")
	// ErrSolverNonConvergence is returned together with the best estimate when a
	// solver exhausts its search range before reaching the tolerance.
	ErrSolverNonConvergence = errors.New("solver did not converge")
)
