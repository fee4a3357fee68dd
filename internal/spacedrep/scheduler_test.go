package spacedrep

import (
	"math"
	"testing"
	"time"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestUpdate_PerfectRun(t *testing.T) {
	// EF grows by 0.1 per perfect recall and saturates at 3.0.
	wantIntervals := []int{1, 6, 16, 45, 131, 393}
	wantEF := []float64{2.6, 2.7, 2.8, 2.9, 3.0, 3.0}

	s := DefaultState()
	for i := range wantIntervals {
		s = Update(s, 5)
		if s.Interval != wantIntervals[i] {
			t.Errorf("recall %d: Interval = %d, want %d", i+1, s.Interval, wantIntervals[i])
		}
		if !approx(s.EaseFactor, wantEF[i]) {
			t.Errorf("recall %d: EaseFactor = %v, want %v", i+1, s.EaseFactor, wantEF[i])
		}
		if s.Repetitions != i+1 {
			t.Errorf("recall %d: Repetitions = %d, want %d", i+1, s.Repetitions, i+1)
		}
		if s.EaseFactor > MaxEaseFactor {
			t.Errorf("recall %d: EaseFactor %v above max", i+1, s.EaseFactor)
		}
	}
}

func TestUpdate_QualityFourKeepsEaseFactor(t *testing.T) {
	want := []int{1, 6, 15, 38, 95}
	s := DefaultState()
	for i, w := range want {
		s = Update(s, 4)
		if s.Interval != w {
			t.Errorf("recall %d: Interval = %d, want %d", i+1, s.Interval, w)
		}
	}
	if !approx(s.EaseFactor, 2.5) {
		t.Errorf("EaseFactor = %v, want 2.5", s.EaseFactor)
	}
}

func TestUpdate_QualityThreeLowersEaseFactor(t *testing.T) {
	s := Update(DefaultState(), 3)
	if s.Interval != 1 {
		t.Errorf("Interval = %d, want 1", s.Interval)
	}
	if !approx(s.EaseFactor, 2.36) {
		t.Errorf("EaseFactor = %v, want 2.36", s.EaseFactor)
	}
}

func TestUpdate_EaseFactorFloor(t *testing.T) {
	s := Update(State{Interval: 10, EaseFactor: 1.35, Repetitions: 4}, 3)
	if s.EaseFactor != MinEaseFactor {
		t.Errorf("EaseFactor = %v, want %v", s.EaseFactor, MinEaseFactor)
	}
	if s.Interval != 14 {
		t.Errorf("Interval = %d, want 14", s.Interval)
	}
}

func TestUpdate_FailResetsRegardlessOfHistory(t *testing.T) {
	tests := []struct {
		name  string
		prior State
		q     int
	}{
		{"fresh", DefaultState(), 0},
		{"long run", State{Interval: 393, EaseFactor: 3.0, Repetitions: 6}, 2},
		{"low ease", State{Interval: 12, EaseFactor: 1.3, Repetitions: 3}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Update(tt.prior, tt.q)
			want := State{Interval: 1, EaseFactor: tt.prior.EaseFactor, Repetitions: 0}
			if got != want {
				t.Errorf("Update(%+v, %d) = %+v, want %+v", tt.prior, tt.q, got, want)
			}
		})
	}
}

func TestFold(t *testing.T) {
	if got := Fold(nil); got != DefaultState() {
		t.Errorf("Fold(nil) = %+v, want default", got)
	}

	got := Fold([]int{5, 5, 1, 4})
	if got.Interval != 1 || got.Repetitions != 1 {
		t.Errorf("Fold = %+v, want interval 1 and 1 repetition", got)
	}
	if !approx(got.EaseFactor, 2.7) {
		t.Errorf("EaseFactor = %v, want 2.7", got.EaseFactor)
	}
}

func TestApply(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	d := Seed(4, now)
	if !d.LastActiveAt.Equal(now) {
		t.Errorf("LastActiveAt = %v, want %v", d.LastActiveAt, now)
	}
	if want := now.Add(24 * time.Hour); !d.NextReviewDate.Equal(want) {
		t.Errorf("NextReviewDate = %v, want %v", d.NextReviewDate, want)
	}

	later := now.Add(30 * time.Hour)
	d = d.Apply(5, later)
	if d.State.Interval != 6 {
		t.Errorf("Interval = %d, want 6", d.State.Interval)
	}
	if !d.LastActiveAt.Equal(later) {
		t.Errorf("LastActiveAt = %v, want %v", d.LastActiveAt, later)
	}
	if want := later.Add(6 * Day); !d.NextReviewDate.Equal(want) {
		t.Errorf("NextReviewDate = %v, want %v", d.NextReviewDate, want)
	}
}

func TestApply_Deterministic(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	prior := TargetData{State: State{Interval: 6, EaseFactor: 2.6, Repetitions: 2}}
	if a, b := prior.Apply(4, now), prior.Apply(4, now); a != b {
		t.Errorf("Apply not deterministic: %+v vs %+v", a, b)
	}
}

func TestNewTargetData(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	d := NewTargetData(now)
	if d.State != DefaultState() {
		t.Errorf("State = %+v, want default", d.State)
	}
	if !d.IsDue(now) {
		t.Error("expected a new item to be due immediately")
	}
}
