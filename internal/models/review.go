package models

import "time"

// Confidence is the self-reported confidence attached to an answer
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ReviewState holds the scheduling memory for one (user, question) pair.
// Only the latest state is kept; every answer overwrites the previous row.
type ReviewState struct {
	UserID          int64
	QuestionID      int64
	Strength        float64 // ease factor, never below 1.3
	RepetitionCount int     // consecutive passes since the last lapse
	IntervalDays    int
	NextReviewAt    time.Time
	LastOutcome     bool
	LastConfidence  Confidence
	LastTimeSpentMs int
	UpdatedAt       time.Time
}
