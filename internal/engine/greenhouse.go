package engine

import (
	"fmt"
	"time"

	"github.com/01Taka/rooted/internal/target"
)

// MoveToGreenhouse parks t. Batches applied while parked update it as
// usual; their activity records carry the greenhouse flag.
func (e *Engine) MoveToGreenhouse(t target.LearningTarget, reason target.GreenhouseReason, now time.Time) (target.LearningTarget, error) {
	if t.IsInGreenhouse {
		return target.LearningTarget{}, fmt.Errorf("target %s: %w", t.ID, ErrAlreadyInGreenhouse)
	}
	switch reason {
	case target.GreenhouseManual, target.GreenhouseMasteredExpiry:
	default:
		return target.LearningTarget{}, fmt.Errorf("target %s: unknown greenhouse reason %q", t.ID, reason)
	}

	out := t.Clone()
	out.IsInGreenhouse = true
	out.GreenhouseHistory = append(out.GreenhouseHistory, target.GreenhouseTransition{
		MovedInAt: now,
		Reason:    reason,
	})
	e.log().Info("moved to greenhouse", "target_id", t.ID, "reason", reason)
	return out, nil
}

// ReturnFromGreenhouse closes the open greenhouse stay of t.
func (e *Engine) ReturnFromGreenhouse(t target.LearningTarget, now time.Time) (target.LearningTarget, error) {
	if !t.IsInGreenhouse {
		return target.LearningTarget{}, fmt.Errorf("target %s: %w", t.ID, ErrNotInGreenhouse)
	}
	idx := t.OpenGreenhouseStay()
	if idx < 0 {
		return target.LearningTarget{}, &InvariantError{TargetID: t.ID, Stage: t.Stage(), Err: missing("open greenhouse stay")}
	}

	out := t.Clone()
	at := now
	out.GreenhouseHistory[idx].MovedOutAt = &at
	out.IsInGreenhouse = false
	e.log().Info("returned from greenhouse", "target_id", t.ID)
	return out, nil
}

// ExpireHallOfFame moves t into the greenhouse once its HALL_OF_FAME slot
// has expired. It reports whether anything changed; targets in other
// stages, already parked, or still within their slot are returned as is.
func (e *Engine) ExpireHallOfFame(t target.LearningTarget, now time.Time) (target.LearningTarget, bool, error) {
	expires, ok := slotExpiry(t.State)
	if !ok || t.IsInGreenhouse || now.Before(expires) {
		return t, false, nil
	}
	out, err := e.MoveToGreenhouse(t, target.GreenhouseMasteredExpiry, now)
	if err != nil {
		return target.LearningTarget{}, false, err
	}
	return out, true, nil
}

func slotExpiry(s target.MainState) (time.Time, bool) {
	switch v := s.(type) {
	case target.TargetHallOfFame:
		return v.MasteredSlotExpiresAt, true
	case target.SplitHallOfFame:
		return v.MasteredSlotExpiresAt, true
	}
	return time.Time{}, false
}

// SlotExpiry returns when t's HALL_OF_FAME slot expires, if it holds one.
func SlotExpiry(t *target.LearningTarget) (time.Time, bool) {
	return slotExpiry(t.State)
}
