package scheduler

import (
	"math"
	"testing"
	"time"

	"quizdrill/internal/models"
)

func TestAdvanceFirstAnswer(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	state := Advance(nil, 5, now)

	if state.RepetitionCount != 1 {
		t.Errorf("RepetitionCount = %d, want 1", state.RepetitionCount)
	}
	if state.IntervalDays != 1 {
		t.Errorf("IntervalDays = %d, want 1", state.IntervalDays)
	}
	if state.Strength != 2.6 {
		t.Errorf("Strength = %v, want 2.6", state.Strength)
	}
	if !state.NextReviewAt.Equal(now.AddDate(0, 0, 1)) {
		t.Errorf("NextReviewAt = %v, want %v", state.NextReviewAt, now.AddDate(0, 0, 1))
	}
}

func TestAdvanceProgression(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// First answer: quality 5
	first := Advance(nil, 5, now)
	if first.RepetitionCount != 1 || first.IntervalDays != 1 {
		t.Fatalf("after first answer: reps=%d interval=%d, want 1/1", first.RepetitionCount, first.IntervalDays)
	}

	// Second answer: quality 4
	second := Advance(&first, 4, now.AddDate(0, 0, 1))
	if second.RepetitionCount != 2 {
		t.Errorf("RepetitionCount = %d, want 2", second.RepetitionCount)
	}
	if second.IntervalDays != 6 {
		t.Errorf("IntervalDays = %d, want 6", second.IntervalDays)
	}

	// Third answer: quality 5 with strength around 2.6 gives round(6*2.6) = 16
	third := Advance(&second, 5, now.AddDate(0, 0, 7))
	if third.RepetitionCount != 3 {
		t.Errorf("RepetitionCount = %d, want 3", third.RepetitionCount)
	}
	if third.IntervalDays != int(math.Round(6*third.Strength)) {
		t.Errorf("IntervalDays = %d, want round(6*%v)", third.IntervalDays, third.Strength)
	}
	if third.IntervalDays != 16 {
		t.Errorf("IntervalDays = %d, want 16", third.IntervalDays)
	}
}

func TestAdvanceLapse(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	prior := models.ReviewState{
		UserID:          7,
		QuestionID:      42,
		Strength:        2.5,
		RepetitionCount: 3,
		IntervalDays:    16,
	}

	state := Advance(&prior, 1, now)

	if state.RepetitionCount != 0 {
		t.Errorf("RepetitionCount = %d, want 0", state.RepetitionCount)
	}
	if state.IntervalDays != 1 {
		t.Errorf("IntervalDays = %d, want 1", state.IntervalDays)
	}
	if state.Strength != 2.3 {
		t.Errorf("Strength = %v, want 2.3", state.Strength)
	}
	if state.UserID != 7 || state.QuestionID != 42 {
		t.Errorf("identity not carried over: user=%d question=%d", state.UserID, state.QuestionID)
	}
}

func TestAdvanceStrengthFloor(t *testing.T) {
	now := time.Now()

	// Repeated lapses must not push strength below 1.3
	state := Advance(nil, 0, now)
	for i := 0; i < 10; i++ {
		state = Advance(&state, 0, now)
	}
	if state.Strength != MinStrength {
		t.Errorf("Strength = %v, want floor %v", state.Strength, MinStrength)
	}

	// A pass at the margin (quality 3) on a floored state stays at the floor
	state = Advance(&state, 3, now)
	if state.Strength < MinStrength {
		t.Errorf("Strength = %v, below floor %v", state.Strength, MinStrength)
	}
}

func TestAdvanceStrengthByQuality(t *testing.T) {
	now := time.Now()
	tests := []struct {
		quality  int
		expected float64
	}{
		{5, 2.6},  // 2.5 + 0.1
		{4, 2.5},  // unchanged
		{3, 2.36}, // 2.5 - 0.14
	}

	for _, tt := range tests {
		state := Advance(nil, tt.quality, now)
		if state.Strength != tt.expected {
			t.Errorf("quality %d: Strength = %v, want %v", tt.quality, state.Strength, tt.expected)
		}
	}
}

func TestAdvanceHigherQualityNeverWeaker(t *testing.T) {
	now := time.Now()
	prior := models.ReviewState{Strength: 2.0, RepetitionCount: 2, IntervalDays: 6}

	previous := -1.0
	for q := 0; q <= 5; q++ {
		state := Advance(&prior, q, now)
		if state.Strength < previous {
			t.Errorf("quality %d yields strength %v, below quality %d's %v", q, state.Strength, q-1, previous)
		}
		previous = state.Strength
	}
}
