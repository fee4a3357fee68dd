package stage

import (
	"time"

	"github.com/01Taka/rooted/internal/spacedrep"
)

// Promotion thresholds.
const (
	// SproutingToBuddingCount is the number of rate-limited commitments
	// that move a target out of SPROUTING.
	SproutingToBuddingCount = 3

	// SproutingCommitmentCooldown is the minimum time between two counted
	// SPROUTING commitments.
	SproutingCommitmentCooldown = 24 * time.Hour

	// BuddingToBloomingConsecutiveDays is the streak length that moves a
	// target out of BUDDING.
	BuddingToBloomingConsecutiveDays = 4

	// HallOfFameDaysThreshold is how far out every review must be scheduled
	// before BLOOMING turns into HALL_OF_FAME.
	HallOfFameDaysThreshold = 100

	// HallOfFameDays is how long a target keeps its HALL_OF_FAME slot.
	HallOfFameDays = 150
)

// Signals are the pre-computed inputs the promotion rules look at. Only the
// fields relevant to Current are consulted.
type Signals struct {
	Current Stage

	// SPROUTING
	SproutingCount int

	// BUDDING
	ConsecutiveDays  int
	AllUnitsAchieved bool

	// BLOOMING
	NextReviewDates []time.Time
}

// Evaluate returns the stage a target should move to and whether that is a
// promotion. Without a promotion it returns Current.
func Evaluate(sig Signals, now time.Time) (Stage, bool) {
	switch sig.Current {
	case Sprouting:
		if sig.SproutingCount >= SproutingToBuddingCount {
			return Budding, true
		}
	case Budding:
		if sig.ConsecutiveDays >= BuddingToBloomingConsecutiveDays || sig.AllUnitsAchieved {
			return Blooming, true
		}
	case Blooming:
		if ReachedHallOfFame(sig.NextReviewDates, now) {
			return HallOfFame, true
		}
	}
	return sig.Current, false
}

// ReachedHallOfFame reports whether every review date lies at least
// HallOfFameDaysThreshold days after now. An empty list never qualifies.
func ReachedHallOfFame(dates []time.Time, now time.Time) bool {
	if len(dates) == 0 {
		return false
	}
	threshold := now.Add(HallOfFameDaysThreshold * spacedrep.Day)
	for _, d := range dates {
		if d.Before(threshold) {
			return false
		}
	}
	return true
}

// SproutingCounts reports whether a SPROUTING commitment at now increments
// the counter given the time of the last counted one. A nil last always counts.
func SproutingCounts(last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}
	return now.Sub(*last) >= SproutingCommitmentCooldown
}

// HallOfFameExpiry returns when a HALL_OF_FAME slot entered at now expires.
func HallOfFameExpiry(now time.Time) time.Time {
	return now.Add(HallOfFameDays * spacedrep.Day)
}
