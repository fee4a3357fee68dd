package spacedrep

import "time"

// Day is the unit SM-2 intervals are expressed in.
const Day = 24 * time.Hour

// SM-2 recurrence parameters.
const (
	// DefaultEaseFactor is the ease factor of an item that was never reviewed.
	DefaultEaseFactor = 2.5

	MinEaseFactor = 1.3
	MaxEaseFactor = 3.0

	// FirstInterval and SecondInterval are the fixed intervals (in days)
	// after the first and second successful recall.
	FirstInterval  = 1
	SecondInterval = 6

	// ResetInterval is the interval after a failed recall.
	ResetInterval = 1

	efBase      = 0.1
	efLinear    = 0.08
	efQuadratic = 0.02
)
