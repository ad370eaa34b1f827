package service

import (
	"testing"
	"time"

	"quizdrill/internal/models"
)

func candidate(id int64, nextReview *time.Time) models.DueCandidate {
	return models.DueCandidate{
		Question:     models.Question{ID: id, Prompt: "q", Category: "math"},
		NextReviewAt: nextReview,
	}
}

func TestRankCandidatesOverdueBeatsNeverStudied(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	threeDaysAgo := now.AddDate(0, 0, -3)

	candidates := []models.DueCandidate{
		candidate(1, nil),           // never studied
		candidate(2, &threeDaysAgo), // overdue by 3 days
	}

	got := rankCandidates(candidates, now, 1)
	if len(got) != 1 {
		t.Fatalf("Expected 1 question, got %d", len(got))
	}
	if got[0].ID != 2 {
		t.Errorf("Expected overdue question 2 first, got %d", got[0].ID)
	}
}

func TestRankCandidatesNeverStudiedBeatsNotYetDue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tomorrow := now.AddDate(0, 0, 1)

	candidates := []models.DueCandidate{
		candidate(1, &tomorrow), // not due for another day
		candidate(2, nil),       // never studied
	}

	got := rankCandidates(candidates, now, 2)
	if len(got) != 2 {
		t.Fatalf("Expected 2 questions, got %d", len(got))
	}
	if got[0].ID != 2 || got[1].ID != 1 {
		t.Errorf("Expected order [2 1], got [%d %d]", got[0].ID, got[1].ID)
	}
}

func TestRankCandidatesMostOverdueFirst(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	oneDay := now.AddDate(0, 0, -1)
	fiveDays := now.AddDate(0, 0, -5)
	twoDays := now.AddDate(0, 0, -2)

	candidates := []models.DueCandidate{
		candidate(1, &oneDay),
		candidate(2, &fiveDays),
		candidate(3, &twoDays),
	}

	got := rankCandidates(candidates, now, 3)
	wantOrder := []int64{2, 3, 1}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Errorf("Position %d: expected question %d, got %d", i, want, got[i].ID)
		}
	}
}

func TestRankCandidatesNonPositiveCount(t *testing.T) {
	now := time.Now()
	candidates := []models.DueCandidate{candidate(1, nil)}

	for _, count := range []int{0, -1} {
		got := rankCandidates(candidates, now, count)
		if len(got) != 0 {
			t.Errorf("count=%d: expected empty result, got %d questions", count, len(got))
		}
	}
}

func TestRankCandidatesFewerThanRequested(t *testing.T) {
	now := time.Now()
	candidates := []models.DueCandidate{candidate(1, nil), candidate(2, nil)}

	got := rankCandidates(candidates, now, 10)
	if len(got) != 2 {
		t.Errorf("Expected all 2 candidates, got %d", len(got))
	}
}

func TestComputeSessionStatsEmptySession(t *testing.T) {
	started := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	ended := started.Add(time.Minute)
	session := &models.StudySession{
		ID:        7,
		UserID:    1,
		StartedAt: started,
		EndedAt:   &ended,
	}

	stats := computeSessionStats(session, nil)

	if stats.SessionID != 7 {
		t.Errorf("Expected session ID 7, got %d", stats.SessionID)
	}
	if stats.TotalQuestions != 0 || stats.CorrectAnswers != 0 {
		t.Errorf("Expected zero counters, got total=%d correct=%d", stats.TotalQuestions, stats.CorrectAnswers)
	}
	if stats.Accuracy != 0 {
		t.Errorf("Expected zero accuracy for empty session, got %f", stats.Accuracy)
	}
	if stats.AverageTimePerQuestionMs != 0 {
		t.Errorf("Expected zero average time for empty session, got %d", stats.AverageTimePerQuestionMs)
	}
	if stats.CategoryBreakdown == nil {
		t.Error("Expected non-nil category breakdown")
	}
	if len(stats.CategoryBreakdown) != 0 {
		t.Errorf("Expected empty breakdown, got %d entries", len(stats.CategoryBreakdown))
	}
}

func TestComputeSessionStatsAccuracy(t *testing.T) {
	started := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	session := &models.StudySession{
		ID:               3,
		UserID:           1,
		TotalQuestions:   8,
		CorrectAnswers:   6,
		TotalTimeSpentMs: 96000,
		StartedAt:        started,
	}
	breakdown := map[string]models.CategoryStat{
		"math":    {Total: 5, Correct: 4},
		"history": {Total: 3, Correct: 2},
	}

	stats := computeSessionStats(session, breakdown)

	if stats.Accuracy != 75 {
		t.Errorf("Expected accuracy 75, got %f", stats.Accuracy)
	}
	if stats.AverageTimePerQuestionMs != 12000 {
		t.Errorf("Expected average time 12000ms, got %d", stats.AverageTimePerQuestionMs)
	}
	if stats.CategoryBreakdown["math"].Correct != 4 {
		t.Errorf("Expected 4 correct in math, got %d", stats.CategoryBreakdown["math"].Correct)
	}
}
