// Package engine applies learner evaluations to learning targets: it scores
// them, advances SM-2 schedules and streaks, decides promotions and returns
// a new target with its histories extended.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/01Taka/rooted/internal/evaluation"
	"github.com/01Taka/rooted/internal/stage"
	"github.com/01Taka/rooted/internal/target"
)

// Engine holds the settings updates depend on. It keeps no per-target
// state and is safe for concurrent use.
type Engine struct {
	loc    *time.Location
	logger *slog.Logger
}

// New creates an Engine. loc is where calendar days are counted for
// streaks; nil means UTC. A nil logger uses slog.Default().
func New(loc *time.Location, logger *slog.Logger) *Engine {
	return &Engine{loc: loc, logger: logger}
}

func (e *Engine) location() *time.Location {
	if e == nil || e.loc == nil {
		return time.UTC
	}
	return e.loc
}

func (e *Engine) log() *slog.Logger {
	if e == nil || e.logger == nil {
		return slog.Default()
	}
	return e.logger
}

// Update applies one batch of evaluations made at now and returns the new
// target. TARGET-mode targets take exactly one evaluation, keyed by
// target.RootUnitID or "". SPLIT-mode batches are keyed by unit id and may
// cover any non-empty subset of the units.
//
// t is never modified. On error the returned target is the zero value.
func (e *Engine) Update(t target.LearningTarget, evals map[string]evaluation.Evaluation, now time.Time) (target.LearningTarget, error) {
	if t.State == nil {
		return target.LearningTarget{}, &InvariantError{TargetID: t.ID, Err: missing("main state")}
	}
	batch, err := normalizeBatch(&t, evals)
	if err != nil {
		return target.LearningTarget{}, fmt.Errorf("target %s: %w", t.ID, err)
	}

	qualities := make(map[string]int, len(batch))
	for _, id := range target.SortedKeys(batch) {
		qualities[id] = e.quality(t.ID, id, batch[id])
	}

	state := target.CloneState(t.State)
	tr, err := e.computeTransition(state, t.LastCommitmentAt, qualities, now)
	if err != nil {
		return target.LearningTarget{}, &InvariantError{TargetID: t.ID, Stage: t.Stage(), Err: err}
	}

	next, err := buildState(t.Mode(), tr.to, tr.inputs)
	if err != nil {
		return target.LearningTarget{}, &InvariantError{TargetID: t.ID, Stage: tr.to, Err: err}
	}

	out := t.Clone()
	if tr.promoted {
		rec, err := stage.Promotion(tr.from, tr.to, now)
		if err != nil {
			return target.LearningTarget{}, &InvariantError{TargetID: t.ID, Stage: tr.to, Err: err}
		}
		out.StageHistory = append(out.StageHistory, rec)
		e.log().Info("target promoted",
			"target_id", t.ID,
			"from", tr.from,
			"to", tr.to,
		)
	}
	out.ActivityHistory = append(out.ActivityHistory, activityRecord(&t, batch, tr, now))

	at := now
	out.State = next
	out.LastCommitmentAt = &at
	out.TotalCommitmentCount++
	return out, nil
}

// quality scores one evaluation. Invalid values degrade to quality 0.
func (e *Engine) quality(targetID, unitID string, ev evaluation.Evaluation) int {
	q, err := evaluation.Quality(ev)
	if err != nil {
		e.log().Warn("invalid evaluation, using quality 0",
			"target_id", targetID,
			"unit_id", unitID,
			"mode", ev.Mode(),
			"error", err,
		)
	}
	return q
}

// normalizeBatch checks evals against t and returns them keyed by unit id.
func normalizeBatch(t *target.LearningTarget, evals map[string]evaluation.Evaluation) (map[string]evaluation.Evaluation, error) {
	if len(evals) == 0 {
		return nil, ErrEmptyBatch
	}
	for id, ev := range evals {
		if ev == nil {
			return nil, fmt.Errorf("unit %q: %w", id, evaluation.ErrNilEvaluation)
		}
	}

	if t.Mode() == target.ModeTarget {
		if len(evals) != 1 {
			return nil, ErrAmbiguousBatch
		}
		for id, ev := range evals {
			if id != "" && id != target.RootUnitID {
				return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, id)
			}
			return map[string]evaluation.Evaluation{target.RootUnitID: ev}, nil
		}
	}

	units := target.PlainUnits(t.State)
	batch := make(map[string]evaluation.Evaluation, len(evals))
	for id, ev := range evals {
		if _, ok := units[id]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, id)
		}
		batch[id] = ev
	}
	return batch, nil
}
