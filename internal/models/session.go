package models

import "time"

// StudySession represents one study run by a user
type StudySession struct {
	ID               int64
	UserID           int64
	StartedAt        time.Time
	EndedAt          *time.Time
	TotalQuestions   int
	CorrectAnswers   int
	TotalTimeSpentMs int
}

// Answer represents a single recorded answer within a session.
// SelectedAnswers is kept for downstream analytics; the scheduler
// itself only consumes the correctness, confidence and timing.
type Answer struct {
	ID              int64
	SessionID       int64
	UserID          int64
	QuestionID      int64
	SelectedAnswers string
	WasCorrect      bool
	Confidence      Confidence
	TimeSpentMs     int
	Quality         int
	AnsweredAt      time.Time
}

// CategoryStat holds per-category answer counts for a session
type CategoryStat struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// SessionStats is the summary computed when a session finishes
type SessionStats struct {
	SessionID                int64                   `json:"sessionId"`
	TotalQuestions           int                     `json:"totalQuestions"`
	CorrectAnswers           int                     `json:"correctAnswers"`
	Accuracy                 float64                 `json:"accuracy"`
	TotalTimeSpentMs         int                     `json:"totalTimeSpentMs"`
	AverageTimePerQuestionMs int                     `json:"averageTimePerQuestionMs"`
	CategoryBreakdown        map[string]CategoryStat `json:"categoryBreakdown"`
	StartedAt                time.Time               `json:"startedAt"`
	EndedAt                  *time.Time              `json:"endedAt"`
}
