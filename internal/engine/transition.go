package engine

import (
	"fmt"
	"slices"
	"time"

	"github.com/01Taka/rooted/internal/evaluation"
	"github.com/01Taka/rooted/internal/spacedrep"
	"github.com/01Taka/rooted/internal/stage"
	"github.com/01Taka/rooted/internal/streak"
	"github.com/01Taka/rooted/internal/target"
)

// transition is the outcome of one batch against the current main state:
// where the target goes and the data its next state is built from.
type transition struct {
	from     stage.Stage
	to       stage.Stage
	promoted bool
	inputs   stateInputs
}

// computeTransition advances the stage-specific signals of state for a
// batch with the given per-unit qualities and decides on promotion. state
// must be a private copy; its maps end up in the returned inputs.
func (e *Engine) computeTransition(state target.MainState, lastCommitment *time.Time, qualities map[string]int, now time.Time) (transition, error) {
	switch s := state.(type) {
	case target.TargetSprouting:
		return fromSprouting(s.Sprouting, nil, now), nil
	case target.SplitSprouting:
		return fromSprouting(s.Sprouting, s.Units, now), nil

	case target.TargetBudding:
		return e.fromBudding(s.Budding, nil, lastCommitment, qualities, now), nil
	case target.SplitBudding:
		return e.fromBudding(s.Budding, s.Units, lastCommitment, qualities, now), nil

	case target.TargetBlooming:
		return fromScheduled(stage.Blooming, s.SM2, qualities, now), nil
	case target.TargetMastered:
		return fromScheduled(stage.Mastered, s.SM2, qualities, now), nil
	case target.SplitBlooming:
		return fromScheduledUnits(stage.Blooming, s.Units, qualities, now), nil
	case target.SplitMastered:
		return fromScheduledUnits(stage.Mastered, s.Units, qualities, now), nil

	// Reviews in HALL_OF_FAME leave the schedule as it was on entry.
	case target.TargetHallOfFame:
		sm2, expires := s.SM2, s.MasteredSlotExpiresAt
		return transition{
			from:   stage.HallOfFame,
			to:     stage.HallOfFame,
			inputs: stateInputs{sm2: &sm2, expiresAt: &expires},
		}, nil
	case target.SplitHallOfFame:
		expires := s.MasteredSlotExpiresAt
		return transition{
			from:   stage.HallOfFame,
			to:     stage.HallOfFame,
			inputs: stateInputs{units: s.Units, expiresAt: &expires},
		}, nil
	}
	return transition{}, fmt.Errorf("unsupported main state %T", state)
}

func fromSprouting(sp target.Sprouting, units map[string]target.Unit, now time.Time) transition {
	if stage.SproutingCounts(sp.LastCountIncrementedAt, now) {
		at := now
		sp.PromotionCount++
		sp.LastCountIncrementedAt = &at
	}

	next, promoted := stage.Evaluate(stage.Signals{
		Current:        stage.Sprouting,
		SproutingCount: sp.PromotionCount,
	}, now)

	tr := transition{from: stage.Sprouting, to: next, promoted: promoted}
	tr.inputs.plainUnits = units
	if promoted {
		// BUDDING starts with a fresh streak and no achieved units.
		b := target.Budding{ConsecutiveDays: streak.New(now), AchievedHighQualityUnitIDs: []string{}}
		tr.inputs.budding = &b
	} else {
		tr.inputs.sprouting = &sp
	}
	return tr
}

func (e *Engine) fromBudding(b target.Budding, units map[string]target.Unit, lastCommitment *time.Time, qualities map[string]int, now time.Time) transition {
	days := streak.New(now)
	if lastCommitment != nil {
		days = streak.Update(b.ConsecutiveDays, *lastCommitment, now, e.location())
	}

	keys := []string{target.RootUnitID}
	if units != nil {
		keys = target.SortedKeys(units)
	}

	achieved := slices.Clone(b.AchievedHighQualityUnitIDs)
	if achieved == nil {
		achieved = []string{}
	}
	for _, id := range keys {
		if q, ok := qualities[id]; ok && evaluation.IsPassing(q) && !slices.Contains(achieved, id) {
			achieved = append(achieved, id)
		}
	}
	all := true
	for _, id := range keys {
		if !slices.Contains(achieved, id) {
			all = false
			break
		}
	}

	next, promoted := stage.Evaluate(stage.Signals{
		Current:          stage.Budding,
		ConsecutiveDays:  days.ConsecutiveDays,
		AllUnitsAchieved: all,
	}, now)

	tr := transition{from: stage.Budding, to: next, promoted: promoted}
	if !promoted {
		tr.inputs.budding = &target.Budding{ConsecutiveDays: days, AchievedHighQualityUnitIDs: achieved}
		tr.inputs.plainUnits = units
		return tr
	}

	// Entering BLOOMING: SM-2 starts from the default state with this
	// batch as the first review.
	if units == nil {
		d := spacedrep.Seed(qualities[target.RootUnitID], now)
		tr.inputs.sm2 = &d
		return tr
	}
	scheduled := make(map[string]target.ScheduledUnit, len(units))
	for id, u := range units {
		d := spacedrep.NewTargetData(now)
		if q, ok := qualities[id]; ok {
			d = spacedrep.Seed(q, now)
		}
		scheduled[id] = target.ScheduledUnit{Unit: u, SM2: d}
	}
	tr.inputs.units = scheduled
	return tr
}

func fromScheduled(cur stage.Stage, sm2 spacedrep.TargetData, qualities map[string]int, now time.Time) transition {
	d := sm2.Apply(qualities[target.RootUnitID], now)
	next, promoted := stage.Evaluate(stage.Signals{
		Current:         cur,
		NextReviewDates: []time.Time{d.NextReviewDate},
	}, now)
	return withExpiry(transition{from: cur, to: next, promoted: promoted, inputs: stateInputs{sm2: &d}}, now)
}

func fromScheduledUnits(cur stage.Stage, units map[string]target.ScheduledUnit, qualities map[string]int, now time.Time) transition {
	updated := make(map[string]target.ScheduledUnit, len(units))
	dates := make([]time.Time, 0, len(units))
	for _, id := range target.SortedKeys(units) {
		u := units[id]
		if q, ok := qualities[id]; ok {
			u.SM2 = u.SM2.Apply(q, now)
		}
		updated[id] = u
		dates = append(dates, u.SM2.NextReviewDate)
	}

	next, promoted := stage.Evaluate(stage.Signals{Current: cur, NextReviewDates: dates}, now)
	return withExpiry(transition{from: cur, to: next, promoted: promoted, inputs: stateInputs{units: updated}}, now)
}

// withExpiry stamps the HALL_OF_FAME slot expiry when tr enters it.
func withExpiry(tr transition, now time.Time) transition {
	if tr.to == stage.HallOfFame {
		exp := stage.HallOfFameExpiry(now)
		tr.inputs.expiresAt = &exp
	}
	return tr
}
