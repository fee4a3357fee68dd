package store

import (
	"context"
	"errors"
	"time"

	"github.com/01Taka/rooted/internal/stage"
	"github.com/01Taka/rooted/internal/target"
)

const (
	targetsTable     = "learning_targets"
	stageEventsTable = "stage_events"
)

var (
	// ErrNotFound is returned for an id with no stored target.
	ErrNotFound = errors.New("target not found")

	// ErrExists is returned when creating a target whose id is taken.
	ErrExists = errors.New("target already exists")

	// ErrConflict is returned when a target changed between being read
	// and being written back.
	ErrConflict = errors.New("target was modified concurrently")
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// ListOpts filters TargetRepo.List.
type ListOpts struct {
	Stage     stage.Stage // only targets in this stage ("" = any)
	DueBefore time.Time   // next review at or before this instant (zero = no filter)
	Limit     int         // max results (0 = unlimited)
}

// Record is a stored target together with its row metadata.
type Record struct {
	Target    target.LearningTarget
	Version   int64
	UpdatedAt time.Time
}

// UpdateFunc receives the stored target and returns its replacement.
type UpdateFunc func(target.LearningTarget) (target.LearningTarget, error)

// TargetRepo stores learning targets and their stage events.
type TargetRepo interface {
	// Create stores a new target and its stage history.
	Create(ctx context.Context, t target.LearningTarget) (*Record, error)

	// Get returns the target with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns targets matching opts, soonest review first. Targets
	// without a schedule sort last.
	List(ctx context.Context, opts ListOpts) ([]Record, error)

	// Update loads the target, applies fn and writes the result back if
	// nobody else wrote it in the meantime; otherwise it returns
	// ErrConflict. Stage transitions fn appended are stored as events.
	Update(ctx context.Context, id string, fn UpdateFunc) (*Record, error)

	// Delete removes the target and its stage events.
	Delete(ctx context.Context, id string) error

	// StageEvents returns stored stage transitions in sequence order. An
	// empty targetID returns the events of every target.
	StageEvents(ctx context.Context, targetID string, opts QueryOpts) ([]StageEvent, error)
}
