package service

import (
	"math"
	"time"

	"quizdrill/internal/repository"
)

// UserStats is the cross-session summary for a user
type UserStats struct {
	CurrentStreak int     `json:"currentStreak"`
	TotalAnswered int     `json:"totalAnswered"`
	TotalCorrect  int     `json:"totalCorrect"`
	Accuracy      float64 `json:"accuracy"`
	DueCount      int     `json:"dueCount"`
}

// StatsService derives user-level statistics from session history and
// review schedules
type StatsService struct {
	sessionRepo *repository.SessionRepository
	reviewRepo  *repository.ReviewRepository
}

// NewStatsService creates a new stats service
func NewStatsService(sessionRepo *repository.SessionRepository, reviewRepo *repository.ReviewRepository) *StatsService {
	return &StatsService{
		sessionRepo: sessionRepo,
		reviewRepo:  reviewRepo,
	}
}

// CurrentStreak returns the user's consecutive-day study streak, counting
// back from today
func (s *StatsService) CurrentStreak(userID int64) (int, error) {
	sessions, err := s.sessionRepo.RecentSessions(userID, recentSessionWindow)
	if err != nil {
		return 0, err
	}

	days := make([]time.Time, len(sessions))
	for i, session := range sessions {
		days[i] = session.StartedAt
	}
	return streakFromDays(days, time.Now()), nil
}

// UserStats assembles the user's overall statistics
func (s *StatsService) UserStats(userID int64) (*UserStats, error) {
	streak, err := s.CurrentStreak(userID)
	if err != nil {
		return nil, err
	}

	answered, correct, err := s.sessionRepo.UserTotals(userID)
	if err != nil {
		return nil, err
	}

	due, err := s.reviewRepo.CountDue(userID, time.Now())
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		CurrentStreak: streak,
		TotalAnswered: answered,
		TotalCorrect:  correct,
		DueCount:      due,
	}
	if answered > 0 {
		stats.Accuracy = float64(correct) / float64(answered) * 100
	}

	return stats, nil
}

// DueCount returns how many questions are due for the user right now
func (s *StatsService) DueCount(userID int64) (int, error) {
	return s.reviewRepo.CountDue(userID, time.Now())
}

// streakFromDays computes the consecutive-day streak from session start
// times ordered newest first. Each start time is normalized to its local
// calendar day and duplicate days are collapsed; the streak then counts
// distinct days matching today, yesterday, and so on with no gap.
func streakFromDays(startTimes []time.Time, now time.Time) int {
	today := dayOf(now)

	var days []time.Time
	for _, t := range startTimes {
		day := dayOf(t)
		if len(days) > 0 && days[len(days)-1].Equal(day) {
			continue
		}
		days = append(days, day)
	}

	streak := 0
	for i, day := range days {
		if daysBetween(today, day) != i {
			break
		}
		streak++
	}
	return streak
}

// dayOf truncates a time to local midnight
func dayOf(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
}

// daysBetween returns the number of calendar days from earlier to later.
// Rounding absorbs the 23/25-hour days around DST transitions.
func daysBetween(later, earlier time.Time) int {
	return int(math.Round(later.Sub(earlier).Hours() / 24))
}
