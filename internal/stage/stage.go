// Package stage defines the growth stages of a learning target, the legal
// transitions between them and the promotion rules.
package stage

import (
	"fmt"
	"time"
)

// Stage is a target's position in the growth lifecycle.
type Stage string

const (
	Sprouting  Stage = "SPROUTING"
	Budding    Stage = "BUDDING"
	Blooming   Stage = "BLOOMING"
	Mastered   Stage = "MASTERED"
	HallOfFame Stage = "HALL_OF_FAME"
)

// All lists the stages in lifecycle order.
var All = []Stage{Sprouting, Budding, Blooming, Mastered, HallOfFame}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	switch s {
	case Sprouting, Budding, Blooming, Mastered, HallOfFame:
		return true
	}
	return false
}

// UsesSM2 reports whether targets in s carry SM-2 scheduling data.
func (s Stage) UsesSM2() bool {
	return s == Blooming || s == Mastered || s == HallOfFame
}

// Reason tags why a stage transition happened.
type Reason string

const (
	ReasonInitialCreation      Reason = "INITIAL_CREATION"
	ReasonPromotionSuccess     Reason = "PROMOTION_SUCCESS"
	ReasonDemotionMasteredFail Reason = "DEMOTION_MASTERED_FAIL"
	ReasonRecoverySuccess      Reason = "RECOVERY_SUCCESS"
)

// edge is a (from, to) pair; from is empty for creation.
type edge struct {
	from Stage
	to   Stage
}

var legal = map[Reason][]edge{
	ReasonInitialCreation: {{"", Sprouting}},
	ReasonPromotionSuccess: {
		{Sprouting, Budding},
		{Budding, Blooming},
		{Blooming, HallOfFame},
	},
	ReasonDemotionMasteredFail: {{Mastered, Blooming}},
	ReasonRecoverySuccess:      {{Mastered, HallOfFame}},
}

// IsLegal reports whether (reason, from, to) is in the transition table.
// A nil from means the target is being created.
func IsLegal(reason Reason, from *Stage, to Stage) bool {
	var f Stage
	if from != nil {
		f = *from
	}
	for _, e := range legal[reason] {
		if e.from == f && e.to == to {
			return true
		}
	}
	return false
}

// ErrIllegalTransition reports a (reason, from, to) triple outside the
// transition table.
type ErrIllegalTransition struct {
	Reason Reason
	From   *Stage
	To     Stage
}

func (e *ErrIllegalTransition) Error() string {
	from := "<none>"
	if e.From != nil {
		from = string(*e.From)
	}
	return fmt.Sprintf("illegal stage transition %s: %s -> %s", e.Reason, from, e.To)
}

// Transition records a stage change in a target's history.
type Transition struct {
	Reason    Reason    `json:"reason" validate:"required"`
	From      *Stage    `json:"from_stage"`
	To        Stage     `json:"to_stage" validate:"required"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransition builds a history record, rejecting triples that are not
// in the transition table.
func NewTransition(reason Reason, from *Stage, to Stage, at time.Time) (Transition, error) {
	if !IsLegal(reason, from, to) {
		return Transition{}, &ErrIllegalTransition{Reason: reason, From: from, To: to}
	}
	var f *Stage
	if from != nil {
		s := *from
		f = &s
	}
	return Transition{Reason: reason, From: f, To: to, Timestamp: at}, nil
}

// Creation returns the INITIAL_CREATION record for a target created at at.
func Creation(at time.Time) Transition {
	return Transition{Reason: ReasonInitialCreation, To: Sprouting, Timestamp: at}
}

// Promotion returns the PROMOTION_SUCCESS record for from -> to.
func Promotion(from, to Stage, at time.Time) (Transition, error) {
	return NewTransition(ReasonPromotionSuccess, &from, to, at)
}

// Check validates an existing record against the transition table.
func (t Transition) Check() error {
	if !IsLegal(t.Reason, t.From, t.To) {
		return &ErrIllegalTransition{Reason: t.Reason, From: t.From, To: t.To}
	}
	return nil
}
