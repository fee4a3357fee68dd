// Package target defines the learning target record: its identity, its
// stage-specific main state and its append-only histories.
package target

import (
	"errors"
	"fmt"
	"time"

	"github.com/01Taka/rooted/internal/stage"
)

// LearningTarget is the persisted record of one thing being learned.
type LearningTarget struct {
	ID                   string `validate:"required"`
	Title                string `validate:"required"`
	Description          string
	CurrentSlot          int `validate:"gte=0"`
	CreatedAt            time.Time
	LastCommitmentAt     *time.Time
	TotalCommitmentCount int `validate:"gte=0"`
	IsInGreenhouse       bool

	State MainState `validate:"-"`

	StageHistory      []stage.Transition     `validate:"min=1,dive"`
	GreenhouseHistory []GreenhouseTransition `validate:"dive"`
	ActivityHistory   []ActivityRecord       `validate:"dive"`
}

var (
	// ErrNoUnits is returned when a SPLIT-mode target is created without units.
	ErrNoUnits = errors.New("split target needs at least one unit")

	// ErrDuplicateUnit is returned when two units share an id.
	ErrDuplicateUnit = errors.New("duplicate unit id")
)

// New creates a TARGET-mode target in SPROUTING.
func New(id, title string, now time.Time) LearningTarget {
	return newTarget(id, title, TargetSprouting{}, now)
}

// NewSplit creates a SPLIT-mode target in SPROUTING tracking units.
func NewSplit(id, title string, units []Unit, now time.Time) (LearningTarget, error) {
	if len(units) == 0 {
		return LearningTarget{}, ErrNoUnits
	}
	m := make(map[string]Unit, len(units))
	for _, u := range units {
		if u.ID == "" {
			return LearningTarget{}, fmt.Errorf("unit %q: empty id", u.UnitPath)
		}
		if u.ID == RootUnitID {
			return LearningTarget{}, fmt.Errorf("unit id %q is reserved", RootUnitID)
		}
		if _, dup := m[u.ID]; dup {
			return LearningTarget{}, fmt.Errorf("%w: %s", ErrDuplicateUnit, u.ID)
		}
		m[u.ID] = u.Clone()
	}
	return newTarget(id, title, SplitSprouting{Units: m}, now), nil
}

func newTarget(id, title string, state MainState, now time.Time) LearningTarget {
	return LearningTarget{
		ID:                id,
		Title:             title,
		CreatedAt:         now,
		State:             state,
		StageHistory:      []stage.Transition{stage.Creation(now)},
		GreenhouseHistory: []GreenhouseTransition{},
		ActivityHistory:   []ActivityRecord{},
	}
}

// Mode returns the target's management mode.
func (t *LearningTarget) Mode() Mode {
	return t.State.Mode()
}

// Stage returns the target's current stage.
func (t *LearningTarget) Stage() stage.Stage {
	return t.State.Stage()
}

// NextReviewDate returns when the target is next due, if it is scheduled.
func (t *LearningTarget) NextReviewDate() (time.Time, bool) {
	d, ok := SM2(t.State)
	return d.NextReviewDate, ok
}

// OpenGreenhouseStay returns the index of the greenhouse stay that has not
// ended yet, or -1.
func (t *LearningTarget) OpenGreenhouseStay() int {
	for i := len(t.GreenhouseHistory) - 1; i >= 0; i-- {
		if t.GreenhouseHistory[i].MovedOutAt == nil {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of t.
func (t LearningTarget) Clone() LearningTarget {
	if t.LastCommitmentAt != nil {
		at := *t.LastCommitmentAt
		t.LastCommitmentAt = &at
	}
	if t.State != nil {
		t.State = CloneState(t.State)
	}

	stages := make([]stage.Transition, len(t.StageHistory))
	for i, tr := range t.StageHistory {
		if tr.From != nil {
			from := *tr.From
			tr.From = &from
		}
		stages[i] = tr
	}
	t.StageHistory = stages

	greenhouse := make([]GreenhouseTransition, len(t.GreenhouseHistory))
	for i, g := range t.GreenhouseHistory {
		greenhouse[i] = g.clone()
	}
	t.GreenhouseHistory = greenhouse

	activities := make([]ActivityRecord, len(t.ActivityHistory))
	for i, a := range t.ActivityHistory {
		activities[i] = a.clone()
	}
	t.ActivityHistory = activities

	return t
}

// Units returns the target's units in id order. TARGET-mode targets have none.
func (t *LearningTarget) Units() []Unit {
	m := PlainUnits(t.State)
	out := make([]Unit, 0, len(m))
	for _, id := range SortedKeys(m) {
		out = append(out, m[id])
	}
	return out
}
