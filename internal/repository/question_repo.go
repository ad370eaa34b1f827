package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"quizdrill/internal/database"
	"quizdrill/internal/models"
)

// QuestionFilter narrows the catalog scan for session building
type QuestionFilter struct {
	Categories []string
	Difficulty int // 0 means any difficulty
	OnlyDue    bool
}

// QuestionRepository provides read access to the question catalog plus the
// bulk import/export used by the qcatalog tool. Question authoring itself
// lives outside this service.
type QuestionRepository struct {
	db *database.DB
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *database.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// GetByID retrieves a single question, or nil if it does not exist
func (r *QuestionRepository) GetByID(id int64) (*models.Question, error) {
	query := `
		SELECT id, prompt, choices, category, difficulty, is_public, created_at
		FROM questions
		WHERE id = ?
	`

	question := &models.Question{}
	var choicesJSON string
	err := r.db.QueryRow(query, id).Scan(
		&question.ID,
		&question.Prompt,
		&choicesJSON,
		&question.Category,
		&question.Difficulty,
		&question.IsPublic,
		&question.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	if err := json.Unmarshal([]byte(choicesJSON), &question.Choices); err != nil {
		return nil, fmt.Errorf("failed to decode choices for question %d: %w", id, err)
	}

	return question, nil
}

// FindCandidates returns the public questions matching the filter together
// with the user's next review time for each (nil when never answered).
// When OnlyDue is set, questions with a future review date are excluded;
// never-answered questions always qualify.
func (r *QuestionRepository) FindCandidates(userID int64, filter QuestionFilter, now time.Time) ([]models.DueCandidate, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT q.id, q.prompt, q.choices, q.category, q.difficulty, q.is_public, q.created_at,
		       r.next_review_at
		FROM questions q
		LEFT JOIN review_states r ON r.question_id = q.id AND r.user_id = ?
		WHERE q.is_public = ` + r.db.Dialect.BoolValue(true))

	args := []interface{}{userID}

	if len(filter.Categories) > 0 {
		placeholders := strings.Repeat("?, ", len(filter.Categories))
		sb.WriteString(" AND q.category IN (" + strings.TrimSuffix(placeholders, ", ") + ")")
		for _, c := range filter.Categories {
			args = append(args, c)
		}
	}

	if filter.Difficulty > 0 {
		sb.WriteString(" AND q.difficulty = ?")
		args = append(args, filter.Difficulty)
	}

	if filter.OnlyDue {
		sb.WriteString(" AND (r.user_id IS NULL OR r.next_review_at <= ?)")
		args = append(args, now)
	}

	rows, err := r.db.Query(sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var candidates []models.DueCandidate
	for rows.Next() {
		var candidate models.DueCandidate
		var choicesJSON string
		var nextReviewAt sql.NullTime

		err := rows.Scan(
			&candidate.Question.ID,
			&candidate.Question.Prompt,
			&choicesJSON,
			&candidate.Question.Category,
			&candidate.Question.Difficulty,
			&candidate.Question.IsPublic,
			&candidate.Question.CreatedAt,
			&nextReviewAt,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(choicesJSON), &candidate.Question.Choices); err != nil {
			return nil, fmt.Errorf("failed to decode choices for question %d: %w", candidate.Question.ID, err)
		}
		if nextReviewAt.Valid {
			candidate.NextReviewAt = &nextReviewAt.Time
		}

		candidates = append(candidates, candidate)
	}

	return candidates, rows.Err()
}

// Insert adds a question to the catalog (used by the import tool)
func (r *QuestionRepository) Insert(q models.Question) (int64, error) {
	choicesJSON, err := json.Marshal(q.Choices)
	if err != nil {
		return 0, fmt.Errorf("failed to encode choices: %w", err)
	}

	query := `
		INSERT INTO questions (prompt, choices, category, difficulty, is_public)
		VALUES (?, ?, ?, ?, ?)
	`
	return r.db.ExecReturningID(query, q.Prompt, string(choicesJSON), q.Category, q.Difficulty, q.IsPublic)
}

// ListAll retrieves the full catalog (used by the export tool)
func (r *QuestionRepository) ListAll() ([]models.Question, error) {
	query := `
		SELECT id, prompt, choices, category, difficulty, is_public, created_at
		FROM questions
		ORDER BY id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		var choicesJSON string
		err := rows.Scan(&q.ID, &q.Prompt, &choicesJSON, &q.Category, &q.Difficulty, &q.IsPublic, &q.CreatedAt)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(choicesJSON), &q.Choices); err != nil {
			return nil, fmt.Errorf("failed to decode choices for question %d: %w", q.ID, err)
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}
