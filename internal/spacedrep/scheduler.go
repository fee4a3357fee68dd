package spacedrep

import (
	"math"
	"time"

	"github.com/01Taka/rooted/internal/evaluation"
)

// State is the SM-2 recurrence state of a single scheduled item.
type State struct {
	Interval    int     `json:"interval" validate:"gte=0"`
	EaseFactor  float64 `json:"ease_factor" validate:"gte=1.3,lte=3"`
	Repetitions int     `json:"repetitions" validate:"gte=0"`
}

// DefaultState returns the state of an item that was never reviewed.
func DefaultState() State {
	return State{Interval: 0, EaseFactor: DefaultEaseFactor, Repetitions: 0}
}

// Update applies one recall of quality q to s.
func Update(s State, q int) State {
	if !evaluation.IsPassing(q) {
		// A lapse restarts the repetition count; the ease factor is kept.
		return State{Interval: ResetInterval, EaseFactor: s.EaseFactor, Repetitions: 0}
	}

	var interval int
	switch s.Repetitions {
	case 0:
		interval = FirstInterval
	case 1:
		interval = SecondInterval
	default:
		interval = int(math.Round(float64(s.Interval) * s.EaseFactor))
	}

	diff := float64(evaluation.MaxQuality - q)
	ef := s.EaseFactor + (efBase - diff*(efLinear+diff*efQuadratic))
	ef = min(max(ef, MinEaseFactor), MaxEaseFactor)

	return State{Interval: interval, EaseFactor: ef, Repetitions: s.Repetitions + 1}
}

// Fold applies qualities in order starting from DefaultState.
func Fold(qualities []int) State {
	s := DefaultState()
	for _, q := range qualities {
		s = Update(s, q)
	}
	return s
}

// NextReviewDate returns when an item reviewed at at with state s is next due.
func NextReviewDate(s State, at time.Time) time.Time {
	return at.Add(time.Duration(s.Interval) * Day)
}

// TargetData is the SM-2 state of one scheduled item together with its
// review timestamps.
type TargetData struct {
	State          State     `json:"state"`
	LastActiveAt   time.Time `json:"last_active_at"`
	NextReviewDate time.Time `json:"next_review_date"`
}

// NewTargetData returns data for an item that was never reviewed and is due
// at now.
func NewTargetData(now time.Time) TargetData {
	return TargetData{State: DefaultState(), LastActiveAt: now, NextReviewDate: now}
}

// Apply records a review of quality q at now.
func (d TargetData) Apply(q int, now time.Time) TargetData {
	next := Update(d.State, q)
	return TargetData{
		State:          next,
		LastActiveAt:   now,
		NextReviewDate: NextReviewDate(next, now),
	}
}

// Seed builds data for an item entering SM-2 scheduling with a first
// review of quality q.
func Seed(q int, now time.Time) TargetData {
	return TargetData{State: DefaultState()}.Apply(q, now)
}
