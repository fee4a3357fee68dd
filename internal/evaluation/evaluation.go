// Package evaluation models the raw judgements a learner gives after a
// commitment and maps them onto the 0-5 recall quality scale.
package evaluation

import (
	"fmt"
	"strconv"
)

// Mode identifies how an evaluation was collected.
type Mode string

const (
	ModeTap      Mode = "TAP"
	ModePassFail Mode = "PASS_FAIL"
	ModeStar     Mode = "STAR"
	ModeScore    Mode = "SCORE"
)

// Evaluation is one raw learner judgement. The concrete types are Tap,
// PassFail, Star and Score.
type Evaluation interface {
	Mode() Mode
	String() string
	isEvaluation()
}

// Tap records that the learner simply showed up.
type Tap struct{}

// PassFail records a binary outcome.
type PassFail struct {
	Correct bool
}

// Star records a self-rating from 0 to 5.
type Star struct {
	Level float64
}

// Score records a percentage from 0 to 100.
type Score struct {
	Percentage float64
}

func (Tap) Mode() Mode      { return ModeTap }
func (PassFail) Mode() Mode { return ModePassFail }
func (Star) Mode() Mode     { return ModeStar }
func (Score) Mode() Mode    { return ModeScore }

func (Tap) isEvaluation()      {}
func (PassFail) isEvaluation() {}
func (Star) isEvaluation()     {}
func (Score) isEvaluation()    {}

func (Tap) String() string { return "tap" }

func (p PassFail) String() string {
	if p.Correct {
		return "pass"
	}
	return "fail"
}

func (s Star) String() string {
	return "star:" + strconv.FormatFloat(s.Level, 'f', -1, 64)
}

func (s Score) String() string {
	return "score:" + strconv.FormatFloat(s.Percentage, 'f', -1, 64)
}

// InvalidError reports an evaluation whose value lies outside the range its
// mode accepts.
type InvalidError struct {
	Mode  Mode
	Value float64
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid %s evaluation value %v", e.Mode, e.Value)
}
