package target

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/01Taka/rooted/internal/spacedrep"
	"github.com/01Taka/rooted/internal/stage"
	"github.com/01Taka/rooted/internal/streak"
)

// ErrInvalidState reports a main state whose fields do not match its
// (mode, stage) pair.
var ErrInvalidState = errors.New("invalid main state")

type targetJSON struct {
	ID                   string                 `json:"id"`
	Title                string                 `json:"title"`
	Description          string                 `json:"description"`
	CurrentSlot          int                    `json:"current_slot"`
	CreatedAt            time.Time              `json:"created_at"`
	LastCommitmentAt     *time.Time             `json:"last_commitment_at"`
	TotalCommitmentCount int                    `json:"total_commitment_count"`
	IsInGreenhouse       bool                   `json:"is_in_greenhouse"`
	State                stateJSON              `json:"state"`
	StageHistory         []stage.Transition     `json:"stage_transition_history"`
	GreenhouseHistory    []GreenhouseTransition `json:"greenhouse_transition_history"`
	ActivityHistory      []ActivityRecord       `json:"activity_history"`
}

// stateJSON is the flat wire form of every MainState variant. Only the
// fields belonging to the (mode, stage) pair may be set.
type stateJSON struct {
	ManagementMode             Mode                  `json:"management_mode"`
	Stage                      stage.Stage           `json:"stage"`
	SproutingPromotionCount    *int                  `json:"sprouting_promotion_count,omitempty"`
	LastCountIncrementedAt     *time.Time            `json:"last_count_incremented_at,omitempty"`
	ConsecutiveDaysData        *streak.Data          `json:"consecutive_days_data,omitempty"`
	AchievedHighQualityUnitIDs *[]string             `json:"achieved_high_quality_unit_ids,omitempty"`
	SM2Data                    *spacedrep.TargetData `json:"sm2_data,omitempty"`
	Units                      map[string]unitJSON   `json:"units,omitempty"`
	RepresentativeUnitID       *string               `json:"representative_unit_id,omitempty"`
	MasteredSlotExpiresAt      *time.Time            `json:"mastered_slot_expires_at,omitempty"`
}

type unitJSON struct {
	ID       string                `json:"id"`
	UnitPath string                `json:"unit_path"`
	Content  *Content              `json:"content,omitempty"`
	SM2Data  *spacedrep.TargetData `json:"sm2_data,omitempty"`
}

// MarshalJSON encodes t with its main state flattened under "state".
func (t LearningTarget) MarshalJSON() ([]byte, error) {
	if t.State == nil {
		return nil, fmt.Errorf("%w: missing", ErrInvalidState)
	}
	return json.Marshal(targetJSON{
		ID:                   t.ID,
		Title:                t.Title,
		Description:          t.Description,
		CurrentSlot:          t.CurrentSlot,
		CreatedAt:            t.CreatedAt,
		LastCommitmentAt:     t.LastCommitmentAt,
		TotalCommitmentCount: t.TotalCommitmentCount,
		IsInGreenhouse:       t.IsInGreenhouse,
		State:                encodeState(t.State),
		StageHistory:         t.StageHistory,
		GreenhouseHistory:    t.GreenhouseHistory,
		ActivityHistory:      t.ActivityHistory,
	})
}

// UnmarshalJSON decodes a target, rejecting unknown fields and states
// carrying fields of another variant.
func (t *LearningTarget) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var raw targetJSON
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	state, err := decodeState(raw.State)
	if err != nil {
		return err
	}

	*t = LearningTarget{
		ID:                   raw.ID,
		Title:                raw.Title,
		Description:          raw.Description,
		CurrentSlot:          raw.CurrentSlot,
		CreatedAt:            raw.CreatedAt,
		LastCommitmentAt:     raw.LastCommitmentAt,
		TotalCommitmentCount: raw.TotalCommitmentCount,
		IsInGreenhouse:       raw.IsInGreenhouse,
		State:                state,
		StageHistory:         nonNil(raw.StageHistory),
		GreenhouseHistory:    nonNil(raw.GreenhouseHistory),
		ActivityHistory:      nonNil(raw.ActivityHistory),
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func encodeState(s MainState) stateJSON {
	out := stateJSON{ManagementMode: s.Mode(), Stage: s.Stage()}

	sprouting := func(sp Sprouting) {
		count := sp.PromotionCount
		out.SproutingPromotionCount = &count
		out.LastCountIncrementedAt = sp.LastCountIncrementedAt
	}
	budding := func(b Budding) {
		cd := b.ConsecutiveDays
		ids := nonNil(slices.Clone(b.AchievedHighQualityUnitIDs))
		out.ConsecutiveDaysData = &cd
		out.AchievedHighQualityUnitIDs = &ids
	}
	plain := func(units map[string]Unit) {
		out.Units = make(map[string]unitJSON, len(units))
		for id, u := range units {
			out.Units[id] = unitJSON{ID: u.ID, UnitPath: u.UnitPath, Content: u.Content}
		}
	}
	scheduled := func(units map[string]ScheduledUnit, rep string) {
		out.Units = make(map[string]unitJSON, len(units))
		for id, u := range units {
			sm2 := u.SM2
			out.Units[id] = unitJSON{ID: u.ID, UnitPath: u.UnitPath, Content: u.Content, SM2Data: &sm2}
		}
		out.RepresentativeUnitID = &rep
	}

	switch v := s.(type) {
	case TargetSprouting:
		sprouting(v.Sprouting)
	case TargetBudding:
		budding(v.Budding)
	case TargetBlooming:
		out.SM2Data = &v.SM2
	case TargetMastered:
		out.SM2Data = &v.SM2
	case TargetHallOfFame:
		out.SM2Data = &v.SM2
		out.MasteredSlotExpiresAt = &v.MasteredSlotExpiresAt
	case SplitSprouting:
		plain(v.Units)
		sprouting(v.Sprouting)
	case SplitBudding:
		plain(v.Units)
		budding(v.Budding)
	case SplitBlooming:
		scheduled(v.Units, v.RepresentativeUnitID)
	case SplitMastered:
		scheduled(v.Units, v.RepresentativeUnitID)
	case SplitHallOfFame:
		scheduled(v.Units, v.RepresentativeUnitID)
		out.MasteredSlotExpiresAt = &v.MasteredSlotExpiresAt
	}
	return out
}

// Wire field names, used for presence checks.
const (
	fieldSproutingCount = "sprouting_promotion_count"
	fieldLastIncrement  = "last_count_incremented_at"
	fieldConsecutive    = "consecutive_days_data"
	fieldAchieved       = "achieved_high_quality_unit_ids"
	fieldSM2            = "sm2_data"
	fieldUnits          = "units"
	fieldRepresentative = "representative_unit_id"
	fieldExpiresAt      = "mastered_slot_expires_at"
)

// variantFields lists the required and optional fields of each variant.
func variantFields(mode Mode, st stage.Stage) (required, optional []string, ok bool) {
	switch st {
	case stage.Sprouting:
		required, optional = []string{fieldSproutingCount}, []string{fieldLastIncrement}
	case stage.Budding:
		required = []string{fieldConsecutive, fieldAchieved}
	case stage.Blooming, stage.Mastered:
		if mode == ModeTarget {
			required = []string{fieldSM2}
		} else {
			required = []string{fieldRepresentative}
		}
	case stage.HallOfFame:
		if mode == ModeTarget {
			required = []string{fieldSM2, fieldExpiresAt}
		} else {
			required = []string{fieldRepresentative, fieldExpiresAt}
		}
	default:
		return nil, nil, false
	}

	switch mode {
	case ModeTarget:
	case ModeSplit:
		required = append(required, fieldUnits)
	default:
		return nil, nil, false
	}
	return required, optional, true
}

func (j stateJSON) present() map[string]bool {
	return map[string]bool{
		fieldSproutingCount: j.SproutingPromotionCount != nil,
		fieldLastIncrement:  j.LastCountIncrementedAt != nil,
		fieldConsecutive:    j.ConsecutiveDaysData != nil,
		fieldAchieved:       j.AchievedHighQualityUnitIDs != nil,
		fieldSM2:            j.SM2Data != nil,
		fieldUnits:          len(j.Units) > 0,
		fieldRepresentative: j.RepresentativeUnitID != nil,
		fieldExpiresAt:      j.MasteredSlotExpiresAt != nil,
	}
}

func decodeState(j stateJSON) (MainState, error) {
	required, optional, ok := variantFields(j.ManagementMode, j.Stage)
	if !ok {
		return nil, fmt.Errorf("%w: unknown variant %s/%s", ErrInvalidState, j.ManagementMode, j.Stage)
	}

	present := j.present()
	for _, f := range required {
		if !present[f] {
			return nil, fmt.Errorf("%w: %s/%s requires %s", ErrInvalidState, j.ManagementMode, j.Stage, f)
		}
	}
	for _, f := range SortedKeys(present) {
		if present[f] && !slices.Contains(required, f) && !slices.Contains(optional, f) {
			return nil, fmt.Errorf("%w: %s/%s does not allow %s", ErrInvalidState, j.ManagementMode, j.Stage, f)
		}
	}

	var sp Sprouting
	if j.SproutingPromotionCount != nil {
		sp = Sprouting{PromotionCount: *j.SproutingPromotionCount, LastCountIncrementedAt: j.LastCountIncrementedAt}
	}
	var bud Budding
	if j.ConsecutiveDaysData != nil {
		bud = Budding{ConsecutiveDays: *j.ConsecutiveDaysData, AchievedHighQualityUnitIDs: *j.AchievedHighQualityUnitIDs}
	}

	if j.ManagementMode == ModeTarget {
		switch j.Stage {
		case stage.Sprouting:
			return TargetSprouting{Sprouting: sp}, nil
		case stage.Budding:
			return TargetBudding{Budding: bud}, nil
		case stage.Blooming:
			return TargetBlooming{SM2: *j.SM2Data}, nil
		case stage.Mastered:
			return TargetMastered{SM2: *j.SM2Data}, nil
		default:
			return TargetHallOfFame{SM2: *j.SM2Data, MasteredSlotExpiresAt: *j.MasteredSlotExpiresAt}, nil
		}
	}

	if !j.Stage.UsesSM2() {
		units, err := decodePlainUnits(j.Units)
		if err != nil {
			return nil, err
		}
		if j.Stage == stage.Sprouting {
			return SplitSprouting{Units: units, Sprouting: sp}, nil
		}
		return SplitBudding{Units: units, Budding: bud}, nil
	}

	units, err := decodeScheduledUnits(j.Units)
	if err != nil {
		return nil, err
	}
	rep := *j.RepresentativeUnitID
	switch j.Stage {
	case stage.Blooming:
		return SplitBlooming{Units: units, RepresentativeUnitID: rep}, nil
	case stage.Mastered:
		return SplitMastered{Units: units, RepresentativeUnitID: rep}, nil
	default:
		return SplitHallOfFame{Units: units, RepresentativeUnitID: rep, MasteredSlotExpiresAt: *j.MasteredSlotExpiresAt}, nil
	}
}

func decodePlainUnits(in map[string]unitJSON) (map[string]Unit, error) {
	out := make(map[string]Unit, len(in))
	for key, u := range in {
		if u.ID != key {
			return nil, fmt.Errorf("%w: unit key %q holds unit %q", ErrInvalidState, key, u.ID)
		}
		if u.SM2Data != nil {
			return nil, fmt.Errorf("%w: unit %q carries sm2_data before BLOOMING", ErrInvalidState, key)
		}
		out[key] = Unit{ID: u.ID, UnitPath: u.UnitPath, Content: u.Content}
	}
	return out, nil
}

func decodeScheduledUnits(in map[string]unitJSON) (map[string]ScheduledUnit, error) {
	out := make(map[string]ScheduledUnit, len(in))
	for key, u := range in {
		if u.ID != key {
			return nil, fmt.Errorf("%w: unit key %q holds unit %q", ErrInvalidState, key, u.ID)
		}
		if u.SM2Data == nil {
			return nil, fmt.Errorf("%w: unit %q is missing sm2_data", ErrInvalidState, key)
		}
		out[key] = ScheduledUnit{
			Unit: Unit{ID: u.ID, UnitPath: u.UnitPath, Content: u.Content},
			SM2:  *u.SM2Data,
		}
	}
	return out, nil
}
