// Package view renders learning targets for the terminal.
package view

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/01Taka/rooted/internal/engine"
	"github.com/01Taka/rooted/internal/logging"
	"github.com/01Taka/rooted/internal/spacedrep"
	"github.com/01Taka/rooted/internal/stage"
	"github.com/01Taka/rooted/internal/streak"
	"github.com/01Taka/rooted/internal/target"
	"github.com/01Taka/rooted/internal/ui/components"
	"github.com/01Taka/rooted/internal/ui/theme"
)

const (
	meterWidth    = 12
	recentHistory = 5
	dateLayout    = "2006-01-02 15:04"
)

// Card renders the detail view of t as of now.
func Card(t *target.LearningTarget, now time.Time) string {
	var lines []string
	add := func(label, value string) {
		lines = append(lines, theme.Label.Render(fmt.Sprintf("%-16s", label))+value)
	}

	lines = append(lines, theme.Title.Render(t.Title))
	if t.Description != "" {
		lines = append(lines, theme.Hint.Render(t.Description))
	}
	lines = append(lines, theme.Hint.Render(fmt.Sprintf("%s · %s mode", t.ID, t.Mode())), "")

	badge := theme.StageBadge(t.Stage())
	if t.IsInGreenhouse {
		badge += "  " + theme.Greenhouse.Render("resting in the greenhouse")
	}
	add("Stage", badge)

	switch s := t.State.(type) {
	case target.TargetSprouting:
		add("Check-ins", sproutingMeter(s.Sprouting))
	case target.SplitSprouting:
		add("Check-ins", sproutingMeter(s.Sprouting))
	case target.TargetBudding:
		buddingLines(add, s.Budding, 1)
	case target.SplitBudding:
		buddingLines(add, s.Budding, len(s.Units))
	}

	if sm2, ok := target.SM2(t.State); ok {
		add("Schedule", fmt.Sprintf("every %dd · ease %.2f · %d reps",
			sm2.State.Interval, sm2.State.EaseFactor, sm2.State.Repetitions))
		add("Next review", NextReview(&sm2, now))
	}
	if at, ok := engine.SlotExpiry(t); ok {
		add("Slot expires", at.Format(dateLayout))
	}

	if units, ok := target.ScheduledUnits(t.State); ok {
		for _, id := range target.SortedKeys(units) {
			u := units[id]
			add("  "+id, fmt.Sprintf("%s  %s", u.UnitPath, NextReview(&u.SM2, now)))
		}
	} else if t.Mode() == target.ModeSplit {
		for _, u := range t.Units() {
			add("  "+u.ID, u.UnitPath)
		}
	}

	commits := fmt.Sprintf("%d", t.TotalCommitmentCount)
	if t.LastCommitmentAt != nil {
		commits += " · last " + t.LastCommitmentAt.Format(dateLayout)
	}
	add("Commitments", commits)

	lines = append(lines, "")
	history := t.StageHistory
	if len(history) > recentHistory {
		history = history[len(history)-recentHistory:]
	}
	for _, tr := range history {
		lines = append(lines, Transition(tr))
	}

	return theme.Card.Render(strings.Join(lines, "\n"))
}

// Transition renders one stage history entry on a single line.
func Transition(tr stage.Transition) string {
	from := "∅"
	if tr.From != nil {
		from = theme.StageBadge(*tr.From)
	}
	return fmt.Sprintf("%s  %s → %s  %s",
		theme.Hint.Render(tr.Timestamp.Format(dateLayout)),
		from,
		theme.StageBadge(tr.To),
		theme.Hint.Render(string(tr.Reason)),
	)
}

// NextReview renders when d is next due and how urgent it is.
func NextReview(d *spacedrep.TargetData, now time.Time) string {
	date := d.NextReviewDate.Format(dateLayout)
	switch d.Status(now) {
	case spacedrep.ReviewOverdue:
		return date + "  " + theme.Due.Render(fmt.Sprintf("overdue by %dd", int(d.OverdueDays(now))))
	case spacedrep.ReviewDue:
		return date + "  " + theme.Due.Render("due")
	}
	return date + "  " + theme.NotDue.Render(logging.FormatDays(d.DaysUntilReview(now)))
}

// Table renders one row per target.
func Table(targets []target.LearningTarget, now time.Time) string {
	headers := []string{"ID", "TITLE", "MODE", "STAGE", "NEXT REVIEW"}
	rows := make([][]string, 0, len(targets))
	for i := range targets {
		t := &targets[i]
		next := theme.Hint.Render("-")
		if sm2, ok := target.SM2(t.State); ok {
			next = NextReview(&sm2, now)
		}
		stageCol := theme.StageBadge(t.Stage())
		if t.IsInGreenhouse {
			stageCol += theme.Greenhouse.Render(" (greenhouse)")
		}
		rows = append(rows, []string{t.ID, t.Title, string(t.Mode()), stageCol, next})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
		for _, r := range rows {
			widths[i] = max(widths[i], lipgloss.Width(r[i]))
		}
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(theme.HeaderCell.Width(widths[i] + 2).Render(h))
	}
	for _, r := range rows {
		b.WriteString("\n")
		for i, c := range r {
			b.WriteString(theme.Cell.Width(widths[i] + 2).Render(c))
		}
	}
	return b.String()
}

func sproutingMeter(s target.Sprouting) string {
	return components.NewMeter(s.PromotionCount, stage.SproutingToBuddingCount, meterWidth, theme.Seedling).View()
}

func buddingLines(add func(label, value string), b target.Budding, units int) {
	add("Streak", components.NewMeter(b.ConsecutiveDays.ConsecutiveDays,
		stage.BuddingToBloomingConsecutiveDays, meterWidth, theme.Bud).View())
	add("Reset blocks", fmt.Sprintf("%d/%d", b.ConsecutiveDays.ResetBlockCount, streak.MaxResetBlockCount))
	add("Achieved", components.NewMeter(len(b.AchievedHighQualityUnitIDs), units, meterWidth, theme.Bloom).View())
}
