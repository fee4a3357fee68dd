package engine

import (
	"time"

	"github.com/01Taka/rooted/internal/spacedrep"
	"github.com/01Taka/rooted/internal/stage"
	"github.com/01Taka/rooted/internal/target"
)

// stateInputs is the whitelist a new main state is built from. Each stage
// takes only the fields it needs; everything else is dropped.
type stateInputs struct {
	sprouting  *target.Sprouting
	budding    *target.Budding
	sm2        *spacedrep.TargetData
	plainUnits map[string]target.Unit
	units      map[string]target.ScheduledUnit
	expiresAt  *time.Time
}

// buildState constructs the main state for (mode, next) from in.
func buildState(mode target.Mode, next stage.Stage, in stateInputs) (target.MainState, error) {
	split := mode == target.ModeSplit

	switch next {
	case stage.Sprouting:
		if in.sprouting == nil {
			return nil, missing("sprouting counter")
		}
		if !split {
			return target.TargetSprouting{Sprouting: *in.sprouting}, nil
		}
		if len(in.plainUnits) == 0 {
			return nil, missing("units")
		}
		return target.SplitSprouting{Units: in.plainUnits, Sprouting: *in.sprouting}, nil

	case stage.Budding:
		if in.budding == nil {
			return nil, missing("consecutive days data and achieved units")
		}
		if !split {
			return target.TargetBudding{Budding: *in.budding}, nil
		}
		if len(in.plainUnits) == 0 {
			return nil, missing("units")
		}
		return target.SplitBudding{Units: in.plainUnits, Budding: *in.budding}, nil

	case stage.Blooming, stage.Mastered, stage.HallOfFame:
		var expires time.Time
		if next == stage.HallOfFame {
			if in.expiresAt == nil {
				return nil, missing("mastered slot expiry")
			}
			expires = *in.expiresAt
		}

		if !split {
			if in.sm2 == nil {
				return nil, missing("sm2 data")
			}
			switch next {
			case stage.Blooming:
				return target.TargetBlooming{SM2: *in.sm2}, nil
			case stage.Mastered:
				return target.TargetMastered{SM2: *in.sm2}, nil
			default:
				return target.TargetHallOfFame{SM2: *in.sm2, MasteredSlotExpiresAt: expires}, nil
			}
		}

		if len(in.units) == 0 {
			return nil, missing("scheduled units")
		}
		rep := target.RepresentativeUnitID(in.units)
		switch next {
		case stage.Blooming:
			return target.SplitBlooming{Units: in.units, RepresentativeUnitID: rep}, nil
		case stage.Mastered:
			return target.SplitMastered{Units: in.units, RepresentativeUnitID: rep}, nil
		default:
			return target.SplitHallOfFame{Units: in.units, RepresentativeUnitID: rep, MasteredSlotExpiresAt: expires}, nil
		}
	}

	return nil, missing("known stage " + string(next))
}
