package evaluation

import (
	"fmt"
	"time"
)

// Activity is the stored form of an evaluation. Exactly one of the value
// fields is set, matching Mode; TAP carries none.
type Activity struct {
	Mode       Mode      `json:"evaluation_mode" validate:"required,oneof=TAP PASS_FAIL STAR SCORE"`
	Timestamp  time.Time `json:"timestamp"`
	IsCorrect  *bool     `json:"is_correct,omitempty"`
	Level      *float64  `json:"level,omitempty"`
	Percentage *float64  `json:"percentage,omitempty"`
}

// NewActivity records e as observed at ts.
func NewActivity(e Evaluation, ts time.Time) Activity {
	a := Activity{Timestamp: ts}
	switch v := e.(type) {
	case Tap:
		a.Mode = ModeTap
	case PassFail:
		a.Mode = ModePassFail
		correct := v.Correct
		a.IsCorrect = &correct
	case Star:
		a.Mode = ModeStar
		level := v.Level
		a.Level = &level
	case Score:
		a.Mode = ModeScore
		pct := v.Percentage
		a.Percentage = &pct
	}
	return a
}

// Evaluation reconstructs the evaluation an activity was recorded from.
func (a Activity) Evaluation() (Evaluation, error) {
	switch a.Mode {
	case ModeTap:
		return Tap{}, nil
	case ModePassFail:
		if a.IsCorrect == nil {
			return nil, fmt.Errorf("%s activity without is_correct", a.Mode)
		}
		return PassFail{Correct: *a.IsCorrect}, nil
	case ModeStar:
		if a.Level == nil {
			return nil, fmt.Errorf("%s activity without level", a.Mode)
		}
		return Star{Level: *a.Level}, nil
	case ModeScore:
		if a.Percentage == nil {
			return nil, fmt.Errorf("%s activity without percentage", a.Mode)
		}
		return Score{Percentage: *a.Percentage}, nil
	default:
		return nil, fmt.Errorf("unknown evaluation mode %q", a.Mode)
	}
}

// Clone returns a copy of a that shares no pointers with it.
func (a Activity) Clone() Activity {
	if a.IsCorrect != nil {
		v := *a.IsCorrect
		a.IsCorrect = &v
	}
	if a.Level != nil {
		v := *a.Level
		a.Level = &v
	}
	if a.Percentage != nil {
		v := *a.Percentage
		a.Percentage = &v
	}
	return a
}
