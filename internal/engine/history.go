package engine

import (
	"time"

	"github.com/01Taka/rooted/internal/evaluation"
	"github.com/01Taka/rooted/internal/target"
)

// activityRecord builds the history entry for a batch applied to t.
func activityRecord(t *target.LearningTarget, batch map[string]evaluation.Evaluation, tr transition, now time.Time) target.ActivityRecord {
	rec := target.ActivityRecord{
		ManagementMode:     t.Mode(),
		IsInGreenhouse:     t.IsInGreenhouse,
		StageAtActivity:    tr.from,
		DidStateTransition: tr.promoted,
	}
	if tr.promoted {
		to := tr.to
		rec.NewStage = &to
	}

	if t.Mode() == target.ModeTarget {
		a := evaluation.NewActivity(batch[target.RootUnitID], now)
		rec.Activity = &a
		return rec
	}

	units := target.PlainUnits(t.State)
	rec.ActiveUnits = make([]target.UnitActivity, 0, len(batch))
	for _, id := range target.SortedKeys(batch) {
		rec.ActiveUnits = append(rec.ActiveUnits, target.UnitActivity{
			ID:       id,
			UnitPath: units[id].UnitPath,
			Activity: evaluation.NewActivity(batch[id], now),
		})
	}
	return rec
}
