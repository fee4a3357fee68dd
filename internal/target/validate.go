package target

import (
	"fmt"
	"slices"

	"github.com/01Taka/rooted/internal/stage"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the structure of t and the invariants that tie its main
// state to its histories. It is meant for records coming from outside the
// engine, such as imports.
func Validate(t *LearningTarget) error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("target %q: %w", t.ID, err)
	}
	if t.State == nil {
		return fmt.Errorf("target %q: %w: missing", t.ID, ErrInvalidState)
	}
	if err := ValidateState(t.State); err != nil {
		return fmt.Errorf("target %q: %w", t.ID, err)
	}

	for i, tr := range t.StageHistory {
		if err := tr.Check(); err != nil {
			return fmt.Errorf("target %q: stage history[%d]: %w", t.ID, i, err)
		}
		if (i == 0) != (tr.Reason == stage.ReasonInitialCreation) {
			return fmt.Errorf("target %q: stage history[%d]: INITIAL_CREATION must be first and only first", t.ID, i)
		}
	}
	if last := t.StageHistory[len(t.StageHistory)-1]; last.To != t.Stage() {
		return fmt.Errorf("target %q: stage history ends in %s but state is %s", t.ID, last.To, t.Stage())
	}

	open := 0
	for _, g := range t.GreenhouseHistory {
		if g.MovedOutAt == nil {
			open++
		} else if g.MovedOutAt.Before(g.MovedInAt) {
			return fmt.Errorf("target %q: greenhouse stay ends before it starts", t.ID)
		}
	}
	if open > 1 || (open == 1) != t.IsInGreenhouse {
		return fmt.Errorf("target %q: greenhouse history does not match is_in_greenhouse=%t", t.ID, t.IsInGreenhouse)
	}

	for i, a := range t.ActivityHistory {
		if a.ManagementMode != t.Mode() {
			return fmt.Errorf("target %q: activity[%d] recorded in %s mode", t.ID, i, a.ManagementMode)
		}
		if (a.Activity != nil) != (a.ManagementMode == ModeTarget) {
			return fmt.Errorf("target %q: activity[%d] payload does not match %s mode", t.ID, i, a.ManagementMode)
		}
		if a.DidStateTransition != (a.NewStage != nil) {
			return fmt.Errorf("target %q: activity[%d] transition flag does not match new_stage", t.ID, i)
		}
	}
	return nil
}

// ValidateState checks a main state on its own.
func ValidateState(s MainState) error {
	switch v := s.(type) {
	case TargetSprouting, TargetBlooming, TargetMastered, TargetHallOfFame:
		return validate.Struct(v)
	case TargetBudding:
		if err := validate.Struct(v); err != nil {
			return err
		}
		return checkAchieved(v.AchievedHighQualityUnitIDs, []string{RootUnitID})
	case SplitSprouting:
		if err := validate.Struct(v); err != nil {
			return err
		}
		return checkUnitKeys(v.Units)
	case SplitBudding:
		if err := validate.Struct(v); err != nil {
			return err
		}
		if err := checkUnitKeys(v.Units); err != nil {
			return err
		}
		return checkAchieved(v.AchievedHighQualityUnitIDs, SortedKeys(v.Units))
	case SplitBlooming:
		return checkScheduled(v, v.Units, v.RepresentativeUnitID)
	case SplitMastered:
		return checkScheduled(v, v.Units, v.RepresentativeUnitID)
	case SplitHallOfFame:
		return checkScheduled(v, v.Units, v.RepresentativeUnitID)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidState, s)
	}
}

func checkUnitKeys(units map[string]Unit) error {
	for key, u := range units {
		if key != u.ID {
			return fmt.Errorf("%w: unit key %q holds unit %q", ErrInvalidState, key, u.ID)
		}
	}
	return nil
}

func checkAchieved(achieved, unitIDs []string) error {
	seen := make(map[string]bool, len(achieved))
	for _, id := range achieved {
		if !slices.Contains(unitIDs, id) {
			return fmt.Errorf("%w: achieved unit %q is not tracked", ErrInvalidState, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: achieved unit %q listed twice", ErrInvalidState, id)
		}
		seen[id] = true
	}
	return nil
}

func checkScheduled(v any, units map[string]ScheduledUnit, rep string) error {
	if err := validate.Struct(v); err != nil {
		return err
	}
	for key, u := range units {
		if key != u.ID {
			return fmt.Errorf("%w: unit key %q holds unit %q", ErrInvalidState, key, u.ID)
		}
	}
	if want := RepresentativeUnitID(units); rep != want {
		return fmt.Errorf("%w: representative unit is %q, want %q", ErrInvalidState, rep, want)
	}
	return nil
}
