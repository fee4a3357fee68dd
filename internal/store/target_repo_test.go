package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01Taka/rooted/internal/engine"
	"github.com/01Taka/rooted/internal/evaluation"
	"github.com/01Taka/rooted/internal/spacedrep"
	"github.com/01Taka/rooted/internal/stage"
	"github.com/01Taka/rooted/internal/target"
)

var base = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

func testEngine() *engine.Engine {
	return engine.New(time.UTC, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func evalAt(e *engine.Engine, ev evaluation.Evaluation, at time.Time) UpdateFunc {
	return func(t target.LearningTarget) (target.LearningTarget, error) {
		return e.Update(t, map[string]evaluation.Evaluation{target.RootUnitID: ev}, at)
	}
}

func TestTargetRepo_CreateGet(t *testing.T) {
	repo := openTestStore(t).TargetRepo()
	ctx := context.Background()

	lt := target.New("t1", "Irregular verbs", base)
	rec, err := repo.Create(ctx, lt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.Version)

	got, err := repo.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, lt, got.Target)
	assert.Equal(t, int64(1), got.Version)

	_, err = repo.Create(ctx, lt)
	assert.ErrorIs(t, err, ErrExists)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	events, err := repo.StageEvents(ctx, "t1", QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, stage.ReasonInitialCreation, events[0].Reason)
	assert.Nil(t, events[0].From)
	assert.Equal(t, stage.Sprouting, events[0].To)
	assert.True(t, base.Equal(events[0].Timestamp))
}

func TestTargetRepo_CreateRejectsInvalid(t *testing.T) {
	repo := openTestStore(t).TargetRepo()
	lt := target.New("t1", "", base)
	_, err := repo.Create(context.Background(), lt)
	assert.Error(t, err)
}

func TestTargetRepo_UpdateRecordsPromotions(t *testing.T) {
	repo := openTestStore(t).TargetRepo()
	ctx := context.Background()
	e := testEngine()

	_, err := repo.Create(ctx, target.New("t1", "Verbs", base))
	require.NoError(t, err)

	var rec *Record
	for i := range 3 {
		rec, err = repo.Update(ctx, "t1", evalAt(e, evaluation.Tap{}, base.Add(time.Duration(i)*24*time.Hour)))
		require.NoError(t, err)
	}
	assert.Equal(t, int64(4), rec.Version)
	assert.Equal(t, stage.Budding, rec.Target.Stage())

	got, err := repo.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, rec.Target, got.Target)
	assert.Equal(t, 3, got.Target.TotalCommitmentCount)

	events, err := repo.StageEvents(ctx, "t1", QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, stage.ReasonPromotionSuccess, events[1].Reason)
	require.NotNil(t, events[1].From)
	assert.Equal(t, stage.Sprouting, *events[1].From)
	assert.Equal(t, stage.Budding, events[1].To)
	assert.Greater(t, events[1].Seq, events[0].Seq)

	after, err := repo.StageEvents(ctx, "", QueryOpts{After: events[0].Seq})
	require.NoError(t, err)
	assert.Len(t, after, 1)
}

func TestTargetRepo_UpdateConflict(t *testing.T) {
	repo := openTestStore(t).TargetRepo()
	ctx := context.Background()
	e := testEngine()

	_, err := repo.Create(ctx, target.New("t1", "Verbs", base))
	require.NoError(t, err)

	_, err = repo.Update(ctx, "t1", func(lt target.LearningTarget) (target.LearningTarget, error) {
		// Someone else writes while this update is in flight.
		if _, err := repo.Update(ctx, "t1", evalAt(e, evaluation.Tap{}, base)); err != nil {
			return target.LearningTarget{}, err
		}
		return e.Update(lt, map[string]evaluation.Evaluation{"": evaluation.Tap{}}, base)
	})
	assert.ErrorIs(t, err, ErrConflict)

	got, err := repo.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.Equal(t, 1, got.Target.TotalCommitmentCount)
}

func TestTargetRepo_UpdateErrors(t *testing.T) {
	repo := openTestStore(t).TargetRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, target.New("t1", "Verbs", base))
	require.NoError(t, err)

	_, err = repo.Update(ctx, "nope", func(lt target.LearningTarget) (target.LearningTarget, error) { return lt, nil })
	assert.ErrorIs(t, err, ErrNotFound)

	boom := errors.New("boom")
	_, err = repo.Update(ctx, "t1", func(target.LearningTarget) (target.LearningTarget, error) {
		return target.LearningTarget{}, boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.Update(ctx, "t1", func(lt target.LearningTarget) (target.LearningTarget, error) {
		lt.ID = "t2"
		return lt, nil
	})
	assert.Error(t, err)

	_, err = repo.Update(ctx, "t1", func(lt target.LearningTarget) (target.LearningTarget, error) {
		lt.StageHistory[0].Timestamp = base.Add(time.Hour)
		return lt, nil
	})
	assert.ErrorContains(t, err, "stage history was rewritten")

	got, err := repo.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
}

func TestTargetRepo_List(t *testing.T) {
	repo := openTestStore(t).TargetRepo()
	ctx := context.Background()

	sprout := target.New("sprout", "Sprout", base)
	soon := bloomingTarget(t, "soon", base.Add(24*time.Hour))
	later := bloomingTarget(t, "later", base.Add(10*24*time.Hour))
	for _, lt := range []target.LearningTarget{sprout, later, soon} {
		_, err := repo.Create(ctx, lt)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, ListOpts{})
	require.NoError(t, err)
	assert.Equal(t, []string{"soon", "later", "sprout"}, ids(all))

	blooming, err := repo.List(ctx, ListOpts{Stage: stage.Blooming})
	require.NoError(t, err)
	assert.Equal(t, []string{"soon", "later"}, ids(blooming))

	due, err := repo.List(ctx, ListOpts{DueBefore: base.Add(48 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, []string{"soon"}, ids(due))

	limited, err := repo.List(ctx, ListOpts{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestTargetRepo_Delete(t *testing.T) {
	repo := openTestStore(t).TargetRepo()
	ctx := context.Background()

	_, err := repo.Create(ctx, target.New("t1", "Verbs", base))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "t1"))
	_, err = repo.Get(ctx, "t1")
	assert.ErrorIs(t, err, ErrNotFound)

	events, err := repo.StageEvents(ctx, "t1", QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, events)

	assert.ErrorIs(t, repo.Delete(ctx, "t1"), ErrNotFound)
}

func bloomingTarget(t *testing.T, id string, next time.Time) target.LearningTarget {
	t.Helper()
	lt := target.New(id, id, base)
	for _, pair := range [][2]stage.Stage{{stage.Sprouting, stage.Budding}, {stage.Budding, stage.Blooming}} {
		tr, err := stage.Promotion(pair[0], pair[1], base)
		require.NoError(t, err)
		lt.StageHistory = append(lt.StageHistory, tr)
	}
	lt.State = target.TargetBlooming{SM2: spacedrep.TargetData{
		State:          spacedrep.DefaultState(),
		LastActiveAt:   base,
		NextReviewDate: next,
	}}
	return lt
}

func ids(recs []Record) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Target.ID)
	}
	return out
}
