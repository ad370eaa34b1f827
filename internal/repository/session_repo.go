package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quizdrill/internal/database"
	"quizdrill/internal/models"
)

// ErrSessionClosed reports an answer hitting a session whose ended_at is
// already set
var ErrSessionClosed = errors.New("session already ended")

// SessionRepository handles study session and answer persistence
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateSession creates a new study session for a user
func (r *SessionRepository) CreateSession(userID int64) (*models.StudySession, error) {
	query := `
		INSERT INTO study_sessions (user_id, started_at)
		VALUES (?, ?)
	`

	startedAt := time.Now()
	id, err := r.db.ExecReturningID(query, userID, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.StudySession{
		ID:        id,
		UserID:    userID,
		StartedAt: startedAt,
	}, nil
}

// GetSessionByID retrieves a study session, or nil if it does not exist
func (r *SessionRepository) GetSessionByID(sessionID int64) (*models.StudySession, error) {
	query := `
		SELECT id, user_id, started_at, ended_at,
		       total_questions, correct_answers, total_time_spent_ms
		FROM study_sessions
		WHERE id = ?
	`

	session := &models.StudySession{}
	var endedAt sql.NullTime

	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.UserID,
		&session.StartedAt,
		&endedAt,
		&session.TotalQuestions,
		&session.CorrectAnswers,
		&session.TotalTimeSpentMs,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if endedAt.Valid {
		session.EndedAt = &endedAt.Time
	}

	return session, nil
}

// RecordAnswer appends an answer row and bumps the session counters in one
// transaction, so the answer table and the counters cannot drift apart.
// The counter update is a relative increment guarded by ended_at IS NULL:
// an answer racing a concurrent finish rolls back with ErrSessionClosed
// instead of landing in a finished session.
func (r *SessionRepository) RecordAnswer(answer models.Answer) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO answers (session_id, user_id, question_id, selected_answers,
		                     was_correct, confidence, time_spent_ms, quality, answered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.Exec(insert,
		answer.SessionID,
		answer.UserID,
		answer.QuestionID,
		answer.SelectedAnswers,
		answer.WasCorrect,
		string(answer.Confidence),
		answer.TimeSpentMs,
		answer.Quality,
		answer.AnsweredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record answer: %w", err)
	}

	correct := 0
	if answer.WasCorrect {
		correct = 1
	}

	update := `
		UPDATE study_sessions
		SET total_questions = total_questions + 1,
		    correct_answers = correct_answers + ?,
		    total_time_spent_ms = total_time_spent_ms + ?
		WHERE id = ? AND ended_at IS NULL
	`
	result, err := tx.Exec(update, correct, answer.TimeSpentMs, answer.SessionID)
	if err != nil {
		return fmt.Errorf("failed to update session counters: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSessionClosed
	}

	return tx.Commit()
}

// MarkEnded stamps the session's end time exactly once. Returns true if this
// call performed the update, false if the session was already finished.
func (r *SessionRepository) MarkEnded(sessionID int64, endedAt time.Time) (bool, error) {
	query := `
		UPDATE study_sessions
		SET ended_at = ?
		WHERE id = ? AND ended_at IS NULL
	`

	result, err := r.db.Exec(query, endedAt, sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to finish session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// CategoryBreakdown aggregates the session's answers per question category
func (r *SessionRepository) CategoryBreakdown(sessionID int64) (map[string]models.CategoryStat, error) {
	query := `
		SELECT q.category, COUNT(*), SUM(CASE WHEN a.was_correct THEN 1 ELSE 0 END)
		FROM answers a
		JOIN questions q ON q.id = a.question_id
		WHERE a.session_id = ?
		GROUP BY q.category
	`

	rows, err := r.db.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query category breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := make(map[string]models.CategoryStat)
	for rows.Next() {
		var category string
		var stat models.CategoryStat
		if err := rows.Scan(&category, &stat.Total, &stat.Correct); err != nil {
			return nil, err
		}
		breakdown[category] = stat
	}

	return breakdown, rows.Err()
}

// RecentSessions retrieves the user's most recent sessions, newest first
func (r *SessionRepository) RecentSessions(userID int64, limit int) ([]models.StudySession, error) {
	query := `
		SELECT id, user_id, started_at, ended_at,
		       total_questions, correct_answers, total_time_spent_ms
		FROM study_sessions
		WHERE user_id = ?
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.StudySession
	for rows.Next() {
		var session models.StudySession
		var endedAt sql.NullTime

		err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.StartedAt,
			&endedAt,
			&session.TotalQuestions,
			&session.CorrectAnswers,
			&session.TotalTimeSpentMs,
		)
		if err != nil {
			return nil, err
		}

		if endedAt.Valid {
			session.EndedAt = &endedAt.Time
		}

		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// UserTotals returns lifetime answer counts for a user
func (r *SessionRepository) UserTotals(userID int64) (totalAnswered, totalCorrect int, err error) {
	query := `
		SELECT COALESCE(SUM(total_questions), 0), COALESCE(SUM(correct_answers), 0)
		FROM study_sessions
		WHERE user_id = ?
	`

	if err := r.db.QueryRow(query, userID).Scan(&totalAnswered, &totalCorrect); err != nil {
		return 0, 0, fmt.Errorf("failed to query user totals: %w", err)
	}
	return totalAnswered, totalCorrect, nil
}
