package evaluation

import (
	"errors"
	"fmt"
	"math"
)

// Quality bounds on the SM-2 scale.
const (
	MinQuality = 0
	MaxQuality = 5

	// PassingQuality is the lowest quality that counts as a successful recall.
	PassingQuality = 3
)

// Fixed qualities for the modes that carry no graded value.
const (
	TapQuality     = 4
	CorrectQuality = 4
	WrongQuality   = 1
)

// scoreThresholds is checked top to bottom; the first floor reached wins.
var scoreThresholds = []struct {
	quality  int
	minScore float64
}{
	{5, 100},
	{4, 90},
	{3, 80},
	{2, 30},
	{1, 1},
}

// ErrNilEvaluation is returned when Quality is called with a nil evaluation.
var ErrNilEvaluation = errors.New("nil evaluation")

// Quality maps an evaluation to a 0-5 quality. Out-of-range values return
// an *InvalidError together with quality 0 so callers can degrade to a
// pessimistic schedule instead of failing.
func Quality(e Evaluation) (int, error) {
	switch v := e.(type) {
	case Tap:
		return TapQuality, nil
	case PassFail:
		if v.Correct {
			return CorrectQuality, nil
		}
		return WrongQuality, nil
	case Star:
		if math.IsNaN(v.Level) || v.Level < MinQuality || v.Level > MaxQuality {
			return MinQuality, &InvalidError{Mode: ModeStar, Value: v.Level}
		}
		return int(math.Round(v.Level)), nil
	case Score:
		if math.IsNaN(v.Percentage) || v.Percentage < 0 || v.Percentage > 100 {
			return MinQuality, &InvalidError{Mode: ModeScore, Value: v.Percentage}
		}
		for _, th := range scoreThresholds {
			if v.Percentage >= th.minScore {
				return th.quality, nil
			}
		}
		return MinQuality, nil
	case nil:
		return MinQuality, ErrNilEvaluation
	default:
		return MinQuality, fmt.Errorf("unsupported evaluation %T", e)
	}
}

// IsPassing reports whether q counts as a successful recall.
func IsPassing(q int) bool {
	return q >= PassingQuality
}
