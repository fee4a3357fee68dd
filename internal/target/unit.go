package target

import (
	"maps"
	"slices"

	"github.com/01Taka/rooted/internal/spacedrep"
)

// RootUnitID is the implicit unit id of a TARGET-mode target.
const RootUnitID = "TARGET_ROOT"

// Content is the optional study material attached to a unit.
type Content struct {
	Title     string   `json:"title"`
	Detail    string   `json:"detail"`
	Questions string   `json:"questions"`
	Answers   []string `json:"answers"`
}

// Unit is one independently scheduled part of a SPLIT-mode target.
type Unit struct {
	ID       string   `json:"id" validate:"required"`
	UnitPath string   `json:"unit_path" validate:"required"`
	Content  *Content `json:"content,omitempty"`
}

// Clone returns a deep copy of u.
func (u Unit) Clone() Unit {
	if u.Content != nil {
		c := *u.Content
		c.Answers = slices.Clone(c.Answers)
		u.Content = &c
	}
	return u
}

// ScheduledUnit is a unit that has entered SM-2 scheduling.
type ScheduledUnit struct {
	Unit
	SM2 spacedrep.TargetData
}

// Clone returns a deep copy of u.
func (u ScheduledUnit) Clone() ScheduledUnit {
	u.Unit = u.Unit.Clone()
	return u
}

func cloneUnits(in map[string]Unit) map[string]Unit {
	if in == nil {
		return nil
	}
	out := make(map[string]Unit, len(in))
	for id, u := range in {
		out[id] = u.Clone()
	}
	return out
}

func cloneScheduled(in map[string]ScheduledUnit) map[string]ScheduledUnit {
	if in == nil {
		return nil
	}
	out := make(map[string]ScheduledUnit, len(in))
	for id, u := range in {
		out[id] = u.Clone()
	}
	return out
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// RepresentativeUnitID returns the id of the unit reviewed soonest. Ties
// go to the smallest id; an empty map yields "".
func RepresentativeUnitID(units map[string]ScheduledUnit) string {
	var rep string
	for _, id := range SortedKeys(units) {
		if rep == "" || units[id].SM2.NextReviewDate.Before(units[rep].SM2.NextReviewDate) {
			rep = id
		}
	}
	return rep
}
