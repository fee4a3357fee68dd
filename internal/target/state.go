package target

import (
	"slices"
	"time"

	"github.com/01Taka/rooted/internal/spacedrep"
	"github.com/01Taka/rooted/internal/stage"
	"github.com/01Taka/rooted/internal/streak"
)

// Mode is how a target is scheduled: as one item or as several units.
type Mode string

const (
	ModeTarget Mode = "TARGET"
	ModeSplit  Mode = "SPLIT"
)

// MainState is the stage-specific part of a target. Each (Mode, Stage) pair
// has its own concrete type carrying exactly the data that pair needs:
//
//	TargetSprouting  SplitSprouting
//	TargetBudding    SplitBudding
//	TargetBlooming   SplitBlooming
//	TargetMastered   SplitMastered
//	TargetHallOfFame SplitHallOfFame
type MainState interface {
	Mode() Mode
	Stage() stage.Stage
	isMainState()
}

// Sprouting is the rate-limited commitment counter of a SPROUTING target.
type Sprouting struct {
	PromotionCount         int `validate:"gte=0"`
	LastCountIncrementedAt *time.Time
}

// Clone returns a copy of s that shares no pointers with it.
func (s Sprouting) Clone() Sprouting {
	if s.LastCountIncrementedAt != nil {
		at := *s.LastCountIncrementedAt
		s.LastCountIncrementedAt = &at
	}
	return s
}

// Budding holds the promotion signals of a BUDDING target.
type Budding struct {
	ConsecutiveDays            streak.Data
	AchievedHighQualityUnitIDs []string
}

// Clone returns a copy of b that shares no memory with it.
func (b Budding) Clone() Budding {
	b.ConsecutiveDays = b.ConsecutiveDays.Clone()
	b.AchievedHighQualityUnitIDs = slices.Clone(b.AchievedHighQualityUnitIDs)
	if b.AchievedHighQualityUnitIDs == nil {
		b.AchievedHighQualityUnitIDs = []string{}
	}
	return b
}

type TargetSprouting struct {
	Sprouting
}

type TargetBudding struct {
	Budding
}

type TargetBlooming struct {
	SM2 spacedrep.TargetData
}

type TargetMastered struct {
	SM2 spacedrep.TargetData
}

type TargetHallOfFame struct {
	SM2                   spacedrep.TargetData
	MasteredSlotExpiresAt time.Time
}

type SplitSprouting struct {
	Units map[string]Unit `validate:"required,min=1,dive"`
	Sprouting
}

type SplitBudding struct {
	Units map[string]Unit `validate:"required,min=1,dive"`
	Budding
}

type SplitBlooming struct {
	Units                map[string]ScheduledUnit `validate:"required,min=1,dive"`
	RepresentativeUnitID string                   `validate:"required"`
}

type SplitMastered struct {
	Units                map[string]ScheduledUnit `validate:"required,min=1,dive"`
	RepresentativeUnitID string                   `validate:"required"`
}

type SplitHallOfFame struct {
	Units                 map[string]ScheduledUnit `validate:"required,min=1,dive"`
	RepresentativeUnitID  string                   `validate:"required"`
	MasteredSlotExpiresAt time.Time
}

func (TargetSprouting) Mode() Mode  { return ModeTarget }
func (TargetBudding) Mode() Mode    { return ModeTarget }
func (TargetBlooming) Mode() Mode   { return ModeTarget }
func (TargetMastered) Mode() Mode   { return ModeTarget }
func (TargetHallOfFame) Mode() Mode { return ModeTarget }
func (SplitSprouting) Mode() Mode   { return ModeSplit }
func (SplitBudding) Mode() Mode     { return ModeSplit }
func (SplitBlooming) Mode() Mode    { return ModeSplit }
func (SplitMastered) Mode() Mode    { return ModeSplit }
func (SplitHallOfFame) Mode() Mode  { return ModeSplit }

func (TargetSprouting) Stage() stage.Stage  { return stage.Sprouting }
func (TargetBudding) Stage() stage.Stage    { return stage.Budding }
func (TargetBlooming) Stage() stage.Stage   { return stage.Blooming }
func (TargetMastered) Stage() stage.Stage   { return stage.Mastered }
func (TargetHallOfFame) Stage() stage.Stage { return stage.HallOfFame }
func (SplitSprouting) Stage() stage.Stage   { return stage.Sprouting }
func (SplitBudding) Stage() stage.Stage     { return stage.Budding }
func (SplitBlooming) Stage() stage.Stage    { return stage.Blooming }
func (SplitMastered) Stage() stage.Stage    { return stage.Mastered }
func (SplitHallOfFame) Stage() stage.Stage  { return stage.HallOfFame }

func (TargetSprouting) isMainState()  {}
func (TargetBudding) isMainState()    {}
func (TargetBlooming) isMainState()   {}
func (TargetMastered) isMainState()   {}
func (TargetHallOfFame) isMainState() {}
func (SplitSprouting) isMainState()   {}
func (SplitBudding) isMainState()     {}
func (SplitBlooming) isMainState()    {}
func (SplitMastered) isMainState()    {}
func (SplitHallOfFame) isMainState()  {}

// CloneState returns a deep copy of s.
func CloneState(s MainState) MainState {
	switch v := s.(type) {
	case TargetSprouting:
		return TargetSprouting{Sprouting: v.Sprouting.Clone()}
	case TargetBudding:
		return TargetBudding{Budding: v.Budding.Clone()}
	case TargetBlooming, TargetMastered, TargetHallOfFame:
		return v
	case SplitSprouting:
		return SplitSprouting{Units: cloneUnits(v.Units), Sprouting: v.Sprouting.Clone()}
	case SplitBudding:
		return SplitBudding{Units: cloneUnits(v.Units), Budding: v.Budding.Clone()}
	case SplitBlooming:
		return SplitBlooming{Units: cloneScheduled(v.Units), RepresentativeUnitID: v.RepresentativeUnitID}
	case SplitMastered:
		return SplitMastered{Units: cloneScheduled(v.Units), RepresentativeUnitID: v.RepresentativeUnitID}
	case SplitHallOfFame:
		return SplitHallOfFame{
			Units:                 cloneScheduled(v.Units),
			RepresentativeUnitID:  v.RepresentativeUnitID,
			MasteredSlotExpiresAt: v.MasteredSlotExpiresAt,
		}
	}
	return s
}

// UnitIDs returns the ids of the units tracked by s in ascending order.
// TARGET-mode states track the single RootUnitID.
func UnitIDs(s MainState) []string {
	switch v := s.(type) {
	case SplitSprouting:
		return SortedKeys(v.Units)
	case SplitBudding:
		return SortedKeys(v.Units)
	case SplitBlooming:
		return SortedKeys(v.Units)
	case SplitMastered:
		return SortedKeys(v.Units)
	case SplitHallOfFame:
		return SortedKeys(v.Units)
	}
	return []string{RootUnitID}
}

// PlainUnits returns the units of a SPLIT state without scheduling data,
// or nil for TARGET-mode states.
func PlainUnits(s MainState) map[string]Unit {
	switch v := s.(type) {
	case SplitSprouting:
		return v.Units
	case SplitBudding:
		return v.Units
	case SplitBlooming:
		return stripSM2(v.Units)
	case SplitMastered:
		return stripSM2(v.Units)
	case SplitHallOfFame:
		return stripSM2(v.Units)
	}
	return nil
}

func stripSM2(in map[string]ScheduledUnit) map[string]Unit {
	out := make(map[string]Unit, len(in))
	for id, u := range in {
		out[id] = u.Unit
	}
	return out
}

// ScheduledUnits returns the SM-2 units of a SPLIT state in an SM-2 stage.
func ScheduledUnits(s MainState) (map[string]ScheduledUnit, bool) {
	switch v := s.(type) {
	case SplitBlooming:
		return v.Units, true
	case SplitMastered:
		return v.Units, true
	case SplitHallOfFame:
		return v.Units, true
	}
	return nil, false
}

// SM2 returns the scheduling data that represents s: the single record of
// a TARGET-mode state, or the representative unit's record in SPLIT mode.
// States without SM-2 data report false.
func SM2(s MainState) (spacedrep.TargetData, bool) {
	switch v := s.(type) {
	case TargetBlooming:
		return v.SM2, true
	case TargetMastered:
		return v.SM2, true
	case TargetHallOfFame:
		return v.SM2, true
	case SplitBlooming:
		return unitSM2(v.Units, v.RepresentativeUnitID)
	case SplitMastered:
		return unitSM2(v.Units, v.RepresentativeUnitID)
	case SplitHallOfFame:
		return unitSM2(v.Units, v.RepresentativeUnitID)
	}
	return spacedrep.TargetData{}, false
}

func unitSM2(units map[string]ScheduledUnit, id string) (spacedrep.TargetData, bool) {
	u, ok := units[id]
	return u.SM2, ok
}
