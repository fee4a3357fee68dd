package target

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01Taka/rooted/internal/evaluation"
	"github.com/01Taka/rooted/internal/spacedrep"
	"github.com/01Taka/rooted/internal/stage"
	"github.com/01Taka/rooted/internal/streak"
)

func roundTrip(t *testing.T, lt LearningTarget) LearningTarget {
	t.Helper()
	data, err := json.Marshal(lt)
	require.NoError(t, err)
	var got LearningTarget
	require.NoError(t, json.Unmarshal(data, &got))
	return got
}

func TestJSON_Variants(t *testing.T) {
	inc := now.Add(-time.Hour)
	sm2 := spacedrep.Seed(4, now)
	units := map[string]Unit{"u1": {ID: "u1", UnitPath: "p/1"}}
	scheduled := map[string]ScheduledUnit{"u1": {Unit: Unit{ID: "u1", UnitPath: "p/1"}, SM2: sm2}}
	expires := stage.HallOfFameExpiry(now)

	states := []MainState{
		TargetSprouting{Sprouting{PromotionCount: 2, LastCountIncrementedAt: &inc}},
		TargetBudding{Budding{ConsecutiveDays: streak.New(now), AchievedHighQualityUnitIDs: []string{}}},
		TargetBlooming{SM2: sm2},
		TargetMastered{SM2: sm2},
		TargetHallOfFame{SM2: sm2, MasteredSlotExpiresAt: expires},
		SplitSprouting{Units: units},
		SplitBudding{Units: units, Budding: Budding{ConsecutiveDays: streak.New(now), AchievedHighQualityUnitIDs: []string{"u1"}}},
		SplitBlooming{Units: scheduled, RepresentativeUnitID: "u1"},
		SplitMastered{Units: scheduled, RepresentativeUnitID: "u1"},
		SplitHallOfFame{Units: scheduled, RepresentativeUnitID: "u1", MasteredSlotExpiresAt: expires},
	}

	for _, s := range states {
		t.Run(string(s.Mode())+"/"+string(s.Stage()), func(t *testing.T) {
			lt := New("t1", "x", now)
			lt.State = s
			got := roundTrip(t, lt)
			assert.Equal(t, s, got.State)
		})
	}
}

func TestJSON_HistoriesSurvive(t *testing.T) {
	lt := New("t1", "Verbs", now)
	lt.Description = "irregular"
	last := now.Add(time.Hour)
	lt.LastCommitmentAt = &last
	lt.TotalCommitmentCount = 1
	lt.ActivityHistory = append(lt.ActivityHistory, ActivityRecord{
		ManagementMode:  ModeTarget,
		StageAtActivity: stage.Sprouting,
		Activity:        ptrTo(evaluation.NewActivity(evaluation.Star{Level: 4}, last)),
	})
	lt.GreenhouseHistory = append(lt.GreenhouseHistory, GreenhouseTransition{MovedInAt: now, MovedOutAt: &last, Reason: GreenhouseManual})

	got := roundTrip(t, lt)
	assert.Equal(t, lt, got)
}

func TestJSON_WireNames(t *testing.T) {
	lt := New("t1", "x", now)
	data, err := json.Marshal(lt)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"management_mode":"TARGET"`)
	assert.Contains(t, s, `"stage":"SPROUTING"`)
	assert.Contains(t, s, `"sprouting_promotion_count":0`)
	assert.NotContains(t, s, `"sm2_data"`)
	assert.Contains(t, s, `"reason":"INITIAL_CREATION"`)
}

func TestJSON_RejectsForeignField(t *testing.T) {
	lt := New("t1", "x", now)
	data, err := json.Marshal(lt)
	require.NoError(t, err)

	bad := strings.Replace(string(data), `"sprouting_promotion_count":0`,
		`"sprouting_promotion_count":0,"mastered_slot_expires_at":"2025-06-01T00:00:00Z"`, 1)
	var got LearningTarget
	err = json.Unmarshal([]byte(bad), &got)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestJSON_RejectsMissingField(t *testing.T) {
	lt := New("t1", "x", now)
	lt.State = TargetBlooming{SM2: spacedrep.Seed(4, now)}
	data, err := json.Marshal(lt)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	delete(doc["state"].(map[string]any), "sm2_data")
	data, err = json.Marshal(doc)
	require.NoError(t, err)

	var got LearningTarget
	assert.ErrorIs(t, json.Unmarshal(data, &got), ErrInvalidState)
}

func TestJSON_RejectsUnitWithoutSchedule(t *testing.T) {
	raw := `{"id":"t","title":"x","description":"","current_slot":0,"created_at":"2025-01-01T12:00:00Z",
		"last_commitment_at":null,"total_commitment_count":0,"is_in_greenhouse":false,
		"state":{"management_mode":"SPLIT","stage":"BLOOMING","representative_unit_id":"a",
			"units":{"a":{"id":"a","unit_path":"a"}}},
		"stage_transition_history":[],"greenhouse_transition_history":[],"activity_history":[]}`
	var got LearningTarget
	assert.ErrorIs(t, json.Unmarshal([]byte(raw), &got), ErrInvalidState)
}

func TestJSON_RejectsUnknownTopLevelField(t *testing.T) {
	lt := New("t1", "x", now)
	data, err := json.Marshal(lt)
	require.NoError(t, err)
	bad := strings.Replace(string(data), `{"id"`, `{"color":"red","id"`, 1)

	var got LearningTarget
	assert.Error(t, json.Unmarshal([]byte(bad), &got))
}

func TestJSON_RejectsUnknownVariant(t *testing.T) {
	lt := New("t1", "x", now)
	data, err := json.Marshal(lt)
	require.NoError(t, err)
	bad := strings.Replace(string(data), `"stage":"SPROUTING"`, `"stage":"WILTED"`, 1)

	var got LearningTarget
	assert.ErrorIs(t, json.Unmarshal([]byte(bad), &got), ErrInvalidState)
}

func ptrTo[T any](v T) *T { return &v }
