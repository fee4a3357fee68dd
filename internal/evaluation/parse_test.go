package evaluation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Evaluation
	}{
		{"tap", Tap{}},
		{"TAP", Tap{}},
		{"pass", PassFail{Correct: true}},
		{"fail", PassFail{Correct: false}},
		{"star:4", Star{Level: 4}},
		{" star:2.5 ", Star{Level: 2.5}},
		{"score:85", Score{Percentage: 85}},
		{"score:120", Score{Percentage: 120}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "star", "star:", "score:abc", "maybe"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.Error(t, err)
		})
	}
}

func TestParseUnit(t *testing.T) {
	id, e, err := ParseUnit("unit-a=star:4")
	require.NoError(t, err)
	assert.Equal(t, "unit-a", id)
	assert.Equal(t, Star{Level: 4}, e)

	id, e, err = ParseUnit("pass")
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Equal(t, PassFail{Correct: true}, e)

	_, _, err = ParseUnit("=tap")
	assert.Error(t, err)
}

func TestString_RoundTripsThroughParse(t *testing.T) {
	for _, e := range []Evaluation{Tap{}, PassFail{Correct: true}, PassFail{}, Star{Level: 3}, Score{Percentage: 92.5}} {
		got, err := Parse(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}
}

func TestActivity(t *testing.T) {
	ts := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	a := NewActivity(Score{Percentage: 85}, ts)
	assert.Equal(t, ModeScore, a.Mode)
	assert.Equal(t, ts, a.Timestamp)
	require.NotNil(t, a.Percentage)
	assert.Equal(t, 85.0, *a.Percentage)
	assert.Nil(t, a.Level)
	assert.Nil(t, a.IsCorrect)

	back, err := a.Evaluation()
	require.NoError(t, err)
	assert.Equal(t, Score{Percentage: 85}, back)

	tap := NewActivity(Tap{}, ts)
	assert.Equal(t, ModeTap, tap.Mode)
	assert.Nil(t, tap.Percentage)

	_, err = Activity{Mode: ModeStar}.Evaluation()
	assert.Error(t, err)
}
