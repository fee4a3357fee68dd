package spacedrep

import "time"

// IsDue returns true if the item is due for review (at or past the review date).
func (d *TargetData) IsDue(now time.Time) bool {
	return !now.Before(d.NextReviewDate)
}

// OverdueDays returns how many days past due the item is. Returns 0 if not yet due.
func (d *TargetData) OverdueDays(now time.Time) float64 {
	if now.Before(d.NextReviewDate) {
		return 0
	}
	return now.Sub(d.NextReviewDate).Hours() / 24.0
}

// PastGrace returns true once the item has been due for longer than half
// its current interval.
func (d *TargetData) PastGrace(now time.Time) bool {
	if !d.IsDue(now) {
		return false
	}
	interval := max(d.State.Interval, 1)
	graceHours := float64(interval) * 0.5 * 24.0
	threshold := d.NextReviewDate.Add(time.Duration(graceHours * float64(time.Hour)))
	return now.After(threshold)
}

// ReviewStatus describes an item's review status for display.
type ReviewStatus string

const (
	ReviewNotDue  ReviewStatus = "not_due"
	ReviewDue     ReviewStatus = "due"
	ReviewOverdue ReviewStatus = "overdue"
)

// Status returns the review status for display.
func (d *TargetData) Status(now time.Time) ReviewStatus {
	if d.PastGrace(now) {
		return ReviewOverdue
	}
	if d.IsDue(now) {
		return ReviewDue
	}
	return ReviewNotDue
}

// DaysUntilReview returns the number of days until the next review.
// Returns 0 if already due.
func (d *TargetData) DaysUntilReview(now time.Time) int {
	if d.IsDue(now) {
		return 0
	}
	return int(d.NextReviewDate.Sub(now).Hours()/24.0) + 1
}
