package models

import "time"

// Question represents a multiple-choice exam question in the catalog.
// The catalog is maintained by the authoring tools; the scheduler only
// reads ID, Category, Difficulty and IsPublic for filtering.
type Question struct {
	ID         int64
	Prompt     string
	Choices    []string
	Category   string
	Difficulty int
	IsPublic   bool
	CreatedAt  time.Time
}

// DueCandidate pairs a question with the user's next scheduled review.
// NextReviewAt is nil when the user has never answered the question.
type DueCandidate struct {
	Question     Question
	NextReviewAt *time.Time
}
