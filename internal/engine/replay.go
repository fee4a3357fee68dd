package engine

import (
	"fmt"
	"time"

	"github.com/01Taka/rooted/internal/evaluation"
	"github.com/01Taka/rooted/internal/target"
)

// Batch is one set of evaluations made at the same moment.
type Batch struct {
	At          time.Time
	Evaluations map[string]evaluation.Evaluation
}

// Replay applies batches to t in order. It stops at the first failing batch.
func (e *Engine) Replay(t target.LearningTarget, batches []Batch) (target.LearningTarget, error) {
	cur := t
	for i, b := range batches {
		next, err := e.Update(cur, b.Evaluations, b.At)
		if err != nil {
			return target.LearningTarget{}, fmt.Errorf("batch %d: %w", i, err)
		}
		cur = next
	}
	return cur, nil
}

// Steps returns count batches spaced every apart starting at start, each
// applying ev to the given units (or the root unit when units is empty).
func Steps(start time.Time, every time.Duration, count int, ev evaluation.Evaluation, units ...string) []Batch {
	batches := make([]Batch, 0, count)
	for i := range count {
		evals := make(map[string]evaluation.Evaluation, max(len(units), 1))
		if len(units) == 0 {
			evals[target.RootUnitID] = ev
		}
		for _, id := range units {
			evals[id] = ev
		}
		batches = append(batches, Batch{At: start.Add(time.Duration(i) * every), Evaluations: evals})
	}
	return batches
}
