package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"quizdrill/internal/models"
	"quizdrill/internal/repository"
	"quizdrill/internal/scheduler"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrSessionFinished  = errors.New("session already finished")
)

// recentSessionWindow bounds the streak lookback
const recentSessionWindow = 30

// SessionOptions controls which questions a new session draws from
type SessionOptions struct {
	QuestionCount int
	Categories    []string
	Difficulty    int
	OnlyDue       bool
}

// AnswerResult is returned after an answer is recorded
type AnswerResult struct {
	QualityScore     int       `json:"qualityScore"`
	NextIntervalDays int       `json:"nextIntervalDays"`
	NextReviewAt     time.Time `json:"nextReviewAt"`
}

// StudyService drives study sessions: it selects what to study, converts
// each answer into an updated review schedule, and produces the session
// summary when the run ends.
type StudyService struct {
	questionRepo *repository.QuestionRepository
	reviewRepo   *repository.ReviewRepository
	sessionRepo  *repository.SessionRepository
}

// NewStudyService creates a new study service
func NewStudyService(questionRepo *repository.QuestionRepository, reviewRepo *repository.ReviewRepository, sessionRepo *repository.SessionRepository) *StudyService {
	return &StudyService{
		questionRepo: questionRepo,
		reviewRepo:   reviewRepo,
		sessionRepo:  sessionRepo,
	}
}

// StartSession creates a session and picks its question set: the most
// overdue reviews first, with never-studied questions mixed in at neutral
// priority. Fewer than the requested count may be returned.
func (s *StudyService) StartSession(userID int64, opts SessionOptions) (*models.StudySession, []models.Question, error) {
	filter := repository.QuestionFilter{
		Categories: opts.Categories,
		Difficulty: opts.Difficulty,
		OnlyDue:    opts.OnlyDue,
	}

	now := time.Now()
	candidates, err := s.questionRepo.FindCandidates(userID, filter, now)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find candidate questions: %w", err)
	}

	questions := rankCandidates(candidates, now, opts.QuestionCount)

	session, err := s.sessionRepo.CreateSession(userID)
	if err != nil {
		return nil, nil, err
	}

	return session, questions, nil
}

// rankCandidates orders candidates by how overdue they are, most overdue
// first. Never-studied questions count as overdue by zero, so they rank
// between overdue reviews and questions not yet due. Truncates to count;
// a non-positive count yields an empty list.
func rankCandidates(candidates []models.DueCandidate, now time.Time, count int) []models.Question {
	if count <= 0 {
		return []models.Question{}
	}

	overdue := func(c models.DueCandidate) time.Duration {
		if c.NextReviewAt == nil {
			return 0
		}
		return now.Sub(*c.NextReviewAt)
	}

	ranked := make([]models.DueCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return overdue(ranked[i]) > overdue(ranked[j])
	})

	if len(ranked) > count {
		ranked = ranked[:count]
	}

	questions := make([]models.Question, len(ranked))
	for i, c := range ranked {
		questions[i] = c.Question
	}
	return questions
}

// RecordAnswer scores an answer event, advances the question's review
// schedule, and folds the answer into the session counters. The review
// state is overwritten in place: only the latest state per (user, question)
// is kept.
func (s *StudyService) RecordAnswer(sessionID, userID, questionID int64, wasCorrect bool, confidence models.Confidence, timeSpentMs int, selectedAnswers string) (*AnswerResult, error) {
	session, err := s.sessionRepo.GetSessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	if session.EndedAt != nil {
		return nil, ErrSessionFinished
	}

	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	prior, err := s.reviewRepo.Get(userID, questionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	quality := scheduler.Score(wasCorrect, confidence, timeSpentMs)

	state := scheduler.Advance(prior, quality, now)
	state.UserID = userID
	state.QuestionID = questionID
	state.LastOutcome = wasCorrect
	state.LastConfidence = confidence
	state.LastTimeSpentMs = timeSpentMs

	if err := s.reviewRepo.Upsert(state); err != nil {
		return nil, err
	}

	answer := models.Answer{
		SessionID:       sessionID,
		UserID:          userID,
		QuestionID:      questionID,
		SelectedAnswers: selectedAnswers,
		WasCorrect:      wasCorrect,
		Confidence:      confidence,
		TimeSpentMs:     timeSpentMs,
		Quality:         quality,
		AnsweredAt:      now,
	}
	if err := s.sessionRepo.RecordAnswer(answer); err != nil {
		// A finish racing this answer wins: the counter guard rolled us back
		if errors.Is(err, repository.ErrSessionClosed) {
			return nil, ErrSessionFinished
		}
		return nil, err
	}

	return &AnswerResult{
		QualityScore:     quality,
		NextIntervalDays: state.IntervalDays,
		NextReviewAt:     state.NextReviewAt,
	}, nil
}

// FinishSession stamps the end time (once) and returns the session summary.
// Calling it again on an already finished session recomputes the same stats
// from the stored counters rather than failing.
func (s *StudyService) FinishSession(sessionID, userID int64) (*models.SessionStats, error) {
	session, err := s.sessionRepo.GetSessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != userID {
		return nil, ErrSessionNotFound
	}

	if session.EndedAt == nil {
		now := time.Now()
		if _, err := s.sessionRepo.MarkEnded(sessionID, now); err != nil {
			return nil, err
		}
		// Reload: a concurrent finish may have won the ended_at race
		session, err = s.sessionRepo.GetSessionByID(sessionID)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, ErrSessionNotFound
		}
	}

	breakdown, err := s.sessionRepo.CategoryBreakdown(sessionID)
	if err != nil {
		return nil, err
	}

	stats := computeSessionStats(session, breakdown)
	return &stats, nil
}

// GetSession returns a session owned by the user
func (s *StudyService) GetSession(sessionID, userID int64) (*models.StudySession, error) {
	session, err := s.sessionRepo.GetSessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// computeSessionStats derives the end-of-session summary from the session
// counters. An empty session yields all-zero stats rather than an error.
func computeSessionStats(session *models.StudySession, breakdown map[string]models.CategoryStat) models.SessionStats {
	stats := models.SessionStats{
		SessionID:         session.ID,
		TotalQuestions:    session.TotalQuestions,
		CorrectAnswers:    session.CorrectAnswers,
		TotalTimeSpentMs:  session.TotalTimeSpentMs,
		CategoryBreakdown: breakdown,
		StartedAt:         session.StartedAt,
		EndedAt:           session.EndedAt,
	}
	if stats.CategoryBreakdown == nil {
		stats.CategoryBreakdown = map[string]models.CategoryStat{}
	}

	if session.TotalQuestions > 0 {
		stats.Accuracy = float64(session.CorrectAnswers) / float64(session.TotalQuestions) * 100
		stats.AverageTimePerQuestionMs = session.TotalTimeSpentMs / session.TotalQuestions
	}

	return stats
}
