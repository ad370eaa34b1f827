package repository

import (
	"database/sql"
	"fmt"
	"time"

	"quizdrill/internal/database"
	"quizdrill/internal/models"
)

// ReviewRepository handles the per-(user, question) scheduling state.
// Each pair holds exactly one row which is overwritten on every answer.
type ReviewRepository struct {
	db *database.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *database.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Get retrieves the review state for a (user, question) pair, or nil when
// the user has never answered the question
func (r *ReviewRepository) Get(userID, questionID int64) (*models.ReviewState, error) {
	query := `
		SELECT user_id, question_id, strength, repetition_count, interval_days,
		       next_review_at, last_outcome, last_confidence, last_time_spent_ms, updated_at
		FROM review_states
		WHERE user_id = ? AND question_id = ?
	`

	state := &models.ReviewState{}
	err := r.db.QueryRow(query, userID, questionID).Scan(
		&state.UserID,
		&state.QuestionID,
		&state.Strength,
		&state.RepetitionCount,
		&state.IntervalDays,
		&state.NextReviewAt,
		&state.LastOutcome,
		&state.LastConfidence,
		&state.LastTimeSpentMs,
		&state.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review state: %w", err)
	}

	return state, nil
}

// Upsert atomically inserts or replaces the review state for its
// (user, question) pair. Concurrent writers serialize on the unique key;
// last writer wins, which is sufficient since only the latest state matters.
func (r *ReviewRepository) Upsert(state models.ReviewState) error {
	err := r.db.UpsertReviewState(
		state.UserID,
		state.QuestionID,
		state.Strength,
		state.RepetitionCount,
		state.IntervalDays,
		state.NextReviewAt,
		state.LastOutcome,
		string(state.LastConfidence),
		state.LastTimeSpentMs,
		state.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert review state: %w", err)
	}
	return nil
}

// CountDue returns how many of the user's previously answered questions are
// due at the given time (used by the reminder digest)
func (r *ReviewRepository) CountDue(userID int64, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM review_states
		WHERE user_id = ? AND next_review_at <= ?
	`

	var count int
	err := r.db.QueryRow(query, userID, now).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count due reviews: %w", err)
	}
	return count, nil
}
