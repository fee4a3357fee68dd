package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01Taka/rooted/internal/evaluation"
	"github.com/01Taka/rooted/internal/spacedrep"
	"github.com/01Taka/rooted/internal/stage"
	"github.com/01Taka/rooted/internal/target"
)

func splitTarget(t *testing.T) target.LearningTarget {
	t.Helper()
	lt, err := target.NewSplit("s1", "Calculus", []target.Unit{
		{ID: "a", UnitPath: "limits/a"},
		{ID: "b", UnitPath: "limits/b"},
	}, t0.Add(-time.Hour))
	require.NoError(t, err)
	return lt
}

func TestUpdate_SplitLifecycle(t *testing.T) {
	e := newTestEngine()
	lt := splitTarget(t)

	lt = apply(t, e, lt, map[string]evaluation.Evaluation{"a": evaluation.Tap{}}, day(0))
	lt = apply(t, e, lt, map[string]evaluation.Evaluation{"b": evaluation.Tap{}}, day(1))
	lt = apply(t, e, lt, map[string]evaluation.Evaluation{
		"b": evaluation.PassFail{Correct: true},
		"a": evaluation.Star{Level: 1},
	}, day(2))
	require.Equal(t, stage.Budding, lt.Stage())

	rec := lt.ActivityHistory[2]
	require.Len(t, rec.ActiveUnits, 2)
	assert.Equal(t, "a", rec.ActiveUnits[0].ID)
	assert.Equal(t, "limits/a", rec.ActiveUnits[0].UnitPath)
	assert.Equal(t, "b", rec.ActiveUnits[1].ID)
	assert.Nil(t, rec.Activity)

	lt = apply(t, e, lt, map[string]evaluation.Evaluation{"a": evaluation.Star{Level: 5}}, day(3))
	bud := lt.State.(target.SplitBudding)
	assert.Equal(t, []string{"a"}, bud.AchievedHighQualityUnitIDs)
	assert.Equal(t, 2, bud.ConsecutiveDays.ConsecutiveDays)

	// A failed unit stays unachieved.
	lt = apply(t, e, lt, map[string]evaluation.Evaluation{"b": evaluation.Score{Percentage: 50}}, day(3).Add(time.Hour))
	assert.Equal(t, []string{"a"}, lt.State.(target.SplitBudding).AchievedHighQualityUnitIDs)

	lt = apply(t, e, lt, map[string]evaluation.Evaluation{"b": evaluation.Star{Level: 4}}, day(4))
	bloom, ok := lt.State.(target.SplitBlooming)
	require.True(t, ok)

	// a had no review in the promoting batch and is due right away.
	assert.Equal(t, spacedrep.NewTargetData(day(4)), bloom.Units["a"].SM2)
	assert.Equal(t, spacedrep.Seed(4, day(4)), bloom.Units["b"].SM2)
	assert.Equal(t, "a", bloom.RepresentativeUnitID)
	assert.Equal(t, "limits/b", bloom.Units["b"].UnitPath)

	next, ok := lt.NextReviewDate()
	require.True(t, ok)
	assert.Equal(t, day(4), next)
}

func TestUpdate_SplitHallOfFameNeedsEveryUnit(t *testing.T) {
	e := newTestEngine()
	now := day(0)
	lt := splitTarget(t)
	lt.StageHistory = append(lt.StageHistory,
		mustPromotion(t, stage.Sprouting, stage.Budding, t0),
		mustPromotion(t, stage.Budding, stage.Blooming, t0))
	strong := spacedrep.State{Interval: 40, EaseFactor: 3.0, Repetitions: 5}
	lt.State = target.SplitBlooming{
		Units: map[string]target.ScheduledUnit{
			"a": {Unit: target.Unit{ID: "a", UnitPath: "limits/a"}, SM2: spacedrep.TargetData{State: strong, NextReviewDate: now}},
			"b": {Unit: target.Unit{ID: "b", UnitPath: "limits/b"}, SM2: spacedrep.TargetData{State: strong, NextReviewDate: now.Add(99 * spacedrep.Day)}},
		},
		RepresentativeUnitID: "a",
	}

	lt = apply(t, e, lt, map[string]evaluation.Evaluation{"a": evaluation.Star{Level: 5}}, now)
	bloom, ok := lt.State.(target.SplitBlooming)
	require.True(t, ok, "b is due within 100 days")
	assert.Equal(t, now.Add(120*spacedrep.Day), bloom.Units["a"].SM2.NextReviewDate)
	assert.Equal(t, "b", bloom.RepresentativeUnitID)

	lt = apply(t, e, lt, map[string]evaluation.Evaluation{"b": evaluation.Star{Level: 5}}, now)
	hof, ok := lt.State.(target.SplitHallOfFame)
	require.True(t, ok)
	assert.Equal(t, "a", hof.RepresentativeUnitID)
	assert.Equal(t, now.Add(150*spacedrep.Day), hof.MasteredSlotExpiresAt)
	assert.Equal(t, stage.HallOfFame, lt.StageHistory[len(lt.StageHistory)-1].To)

	// Frozen afterwards.
	after := apply(t, e, lt, map[string]evaluation.Evaluation{"a": evaluation.PassFail{}}, now.Add(time.Hour))
	assert.Equal(t, lt.State, after.State)
}

func TestUpdate_SplitUnevaluatedUnitsKeepSchedule(t *testing.T) {
	e := newTestEngine()
	lt := splitTarget(t)
	b := spacedrep.Seed(5, t0)
	lt.State = target.SplitMastered{
		Units: map[string]target.ScheduledUnit{
			"a": {Unit: target.Unit{ID: "a", UnitPath: "limits/a"}, SM2: spacedrep.Seed(5, t0)},
			"b": {Unit: target.Unit{ID: "b", UnitPath: "limits/b"}, SM2: b},
		},
		RepresentativeUnitID: "a",
	}

	out, err := e.Update(lt, map[string]evaluation.Evaluation{"a": evaluation.Tap{}}, day(1))
	require.NoError(t, err)

	m, ok := out.State.(target.SplitMastered)
	require.True(t, ok)
	assert.Equal(t, b, m.Units["b"].SM2)
	assert.Equal(t, 2, m.Units["a"].SM2.State.Repetitions)
	assert.Equal(t, "b", m.RepresentativeUnitID)
}
