package engine

import (
	"errors"
	"fmt"

	"github.com/01Taka/rooted/internal/stage"
)

var (
	// ErrEmptyBatch is returned for an update without evaluations.
	ErrEmptyBatch = errors.New("empty evaluation batch")

	// ErrAmbiguousBatch is returned when a TARGET-mode batch holds more
	// than one evaluation.
	ErrAmbiguousBatch = errors.New("target-mode batch must hold exactly one evaluation")

	// ErrUnknownUnit is returned when a batch names a unit the target does not track.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrMissingData is wrapped by InvariantError when a stage is entered
	// without the data it requires.
	ErrMissingData = errors.New("missing stage data")

	// ErrAlreadyInGreenhouse is returned when parking a target that is
	// already parked.
	ErrAlreadyInGreenhouse = errors.New("target is already in the greenhouse")

	// ErrNotInGreenhouse is returned when returning a target that is not parked.
	ErrNotInGreenhouse = errors.New("target is not in the greenhouse")
)

// InvariantError reports an update that would produce an inconsistent
// target. No target is returned alongside it and callers must not persist
// anything for the update.
type InvariantError struct {
	TargetID string
	Stage    stage.Stage
	Err      error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("target %s: invariant violated entering %s: %v", e.TargetID, e.Stage, e.Err)
}

func (e *InvariantError) Unwrap() error { return e.Err }

func missing(what string) error {
	return fmt.Errorf("%w: %s", ErrMissingData, what)
}
