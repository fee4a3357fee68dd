package target

import (
	"time"

	"github.com/01Taka/rooted/internal/evaluation"
	"github.com/01Taka/rooted/internal/stage"
)

// ActivityRecord is the history entry written for every evaluation batch.
// TARGET-mode records carry Activity; SPLIT-mode records carry ActiveUnits.
type ActivityRecord struct {
	ManagementMode     Mode                 `json:"management_mode" validate:"required,oneof=TARGET SPLIT"`
	IsInGreenhouse     bool                 `json:"is_in_greenhouse"`
	StageAtActivity    stage.Stage          `json:"stage_at_activity" validate:"required"`
	DidStateTransition bool                 `json:"did_state_transition"`
	NewStage           *stage.Stage         `json:"new_stage,omitempty"`
	Activity           *evaluation.Activity `json:"activity,omitempty"`
	ActiveUnits        []UnitActivity       `json:"active_units,omitempty" validate:"dive"`
}

// UnitActivity is one unit's evaluation inside a SPLIT-mode activity record.
type UnitActivity struct {
	ID       string              `json:"id" validate:"required"`
	UnitPath string              `json:"unit_path"`
	Activity evaluation.Activity `json:"activity"`
}

// GreenhouseReason tags why a target was moved into the greenhouse.
type GreenhouseReason string

const (
	GreenhouseManual         GreenhouseReason = "MANUAL_USER_REQUEST"
	GreenhouseMasteredExpiry GreenhouseReason = "AUTO_MASTERED_EXPIRY"
)

// GreenhouseTransition records a stay in the greenhouse. MovedOutAt is nil
// while the target is still there.
type GreenhouseTransition struct {
	MovedInAt  time.Time        `json:"moved_in_at"`
	MovedOutAt *time.Time       `json:"moved_out_at"`
	Reason     GreenhouseReason `json:"reason" validate:"required,oneof=MANUAL_USER_REQUEST AUTO_MASTERED_EXPIRY"`
}

func (r ActivityRecord) clone() ActivityRecord {
	if r.NewStage != nil {
		s := *r.NewStage
		r.NewStage = &s
	}
	if r.Activity != nil {
		a := r.Activity.Clone()
		r.Activity = &a
	}
	if r.ActiveUnits != nil {
		units := make([]UnitActivity, len(r.ActiveUnits))
		for i, u := range r.ActiveUnits {
			u.Activity = u.Activity.Clone()
			units[i] = u
		}
		r.ActiveUnits = units
	}
	return r
}

func (g GreenhouseTransition) clone() GreenhouseTransition {
	if g.MovedOutAt != nil {
		out := *g.MovedOutAt
		g.MovedOutAt = &out
	}
	return g
}
