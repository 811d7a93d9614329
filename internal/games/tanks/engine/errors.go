package engine

import "errors"

var (
	// ErrOutOfBounds is returned when a sector or directional lookup leaves the grid.
	// It is an expected outcome of boundary probing, not a fault.
	ErrOutOfBounds = errors.New("engine: sector out of bounds")

	// ErrIllegalAction wraps every rejected intent. State is never changed
	// by a rejected intent.
	ErrIllegalAction = errors.New("engine: illegal action")

	// ErrNotAligned is returned by DirectionsTo for destinations that share
	// neither the row nor the column of the observer.
	ErrNotAligned = errors.New("engine: destination not axis-aligned with observer")

	// ErrNoMoveInProgress is returned by StepMove outside the Moving phase.
	ErrNoMoveInProgress = errors.New("engine: no move in progress")

	// ErrInsufficientSpace is returned by New when the grid cannot hold
	// every entity the settings ask for.
	ErrInsufficientSpace = errors.New("engine: not enough empty sectors for setup")
)
