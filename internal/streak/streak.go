// Package streak tracks consecutive commitment days with a reset block that
// forgives a single missed day.
package streak

import (
	"math"
	"time"
)

// MaxResetBlockCount is how many missed days a streak can absorb before it breaks.
const MaxResetBlockCount = 1

// Data is the streak bookkeeping kept while a target is in BUDDING.
type Data struct {
	ConsecutiveDays         int        `json:"consecutive_days" validate:"gte=1"`
	ResetBlockCount         int        `json:"reset_block_count" validate:"gte=0,lte=1"`
	LastResetBlockUsedAt    *time.Time `json:"last_reset_block_used_at"`
	LastResetBlockChargedAt time.Time  `json:"last_reset_block_charged_at"`
}

// New returns the streak data of a target entering BUDDING at now.
func New(now time.Time) Data {
	return Data{
		ConsecutiveDays:         1,
		ResetBlockCount:         MaxResetBlockCount,
		LastResetBlockChargedAt: now,
	}
}

// Clone returns a copy of d that shares no pointers with it.
func (d Data) Clone() Data {
	if d.LastResetBlockUsedAt != nil {
		used := *d.LastResetBlockUsedAt
		d.LastResetBlockUsedAt = &used
	}
	return d
}

// DayOf truncates t to midnight of its calendar day in loc.
func DayOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DiffDays returns the number of calendar days between last and now in loc.
// Days that are 23 or 25 hours long still count as one.
func DiffDays(last, now time.Time, loc *time.Location) int {
	delta := DayOf(now, loc).Sub(DayOf(last, loc))
	return int(math.Round(delta.Hours() / 24))
}

// Update advances d for a commitment at now when the previous commitment
// happened at last. Same-day and backwards commitments leave d unchanged.
func Update(d Data, last, now time.Time, loc *time.Location) Data {
	diff := DiffDays(last, now, loc)
	next := d.Clone()

	switch {
	case diff <= 0:
		return next
	case diff == 1:
		next.ConsecutiveDays++
		if next.ResetBlockCount < MaxResetBlockCount {
			next.ResetBlockCount = MaxResetBlockCount
			next.LastResetBlockChargedAt = now
		}
	default:
		missed := diff - 1
		if next.ResetBlockCount >= missed {
			next.ResetBlockCount -= missed
			next.ConsecutiveDays++
			used := now
			next.LastResetBlockUsedAt = &used
		} else {
			next.ConsecutiveDays = 1
			next.ResetBlockCount = MaxResetBlockCount
		}
	}
	return next
}
