package evaluation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuality(t *testing.T) {
	tests := []struct {
		name string
		eval Evaluation
		want int
	}{
		{"tap", Tap{}, 4},
		{"pass", PassFail{Correct: true}, 4},
		{"fail", PassFail{Correct: false}, 1},
		{"star 0", Star{Level: 0}, 0},
		{"star 3", Star{Level: 3}, 3},
		{"star 5", Star{Level: 5}, 5},
		{"star rounds up", Star{Level: 3.5}, 4},
		{"star rounds down", Star{Level: 2.4}, 2},
		{"score 100", Score{Percentage: 100}, 5},
		{"score 99.9", Score{Percentage: 99.9}, 4},
		{"score 99", Score{Percentage: 99}, 4},
		{"score 90", Score{Percentage: 90}, 4},
		{"score 89", Score{Percentage: 89}, 3},
		{"score 80", Score{Percentage: 80}, 3},
		{"score 79", Score{Percentage: 79}, 2},
		{"score 30", Score{Percentage: 30}, 2},
		{"score 29", Score{Percentage: 29}, 1},
		{"score 1", Score{Percentage: 1}, 1},
		{"score 0.5", Score{Percentage: 0.5}, 0},
		{"score 0", Score{Percentage: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Quality(tt.eval)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuality_InvalidFallsBackToZero(t *testing.T) {
	tests := []struct {
		name string
		eval Evaluation
	}{
		{"star negative", Star{Level: -1}},
		{"star above max", Star{Level: 6}},
		{"star NaN", Star{Level: math.NaN()}},
		{"score negative", Score{Percentage: -0.1}},
		{"score above 100", Score{Percentage: 120}},
		{"score NaN", Score{Percentage: math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Quality(tt.eval)
			assert.Equal(t, 0, got)
			var invalid *InvalidError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.eval.Mode(), invalid.Mode)
		})
	}
}

func TestQuality_Nil(t *testing.T) {
	got, err := Quality(nil)
	assert.Equal(t, 0, got)
	assert.ErrorIs(t, err, ErrNilEvaluation)
}

func TestIsPassing(t *testing.T) {
	assert.False(t, IsPassing(2))
	assert.True(t, IsPassing(3))
	assert.True(t, IsPassing(5))
}
