package service

import (
	"errors"
	"os"
	"reflect"
	"testing"

	"quizdrill/internal/database"
	"quizdrill/internal/models"
	"quizdrill/internal/repository"
)

func newTestStudyService(t *testing.T, dbPath string) (*StudyService, int64, []int64) {
	t.Helper()

	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	user, err := userRepo.CreateUser("student@example.com", "hash", "Student")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	var questionIDs []int64
	for _, q := range []models.Question{
		{Prompt: "2+2?", Choices: []string{"3", "4"}, Category: "math", Difficulty: 1, IsPublic: true},
		{Prompt: "Capital of France?", Choices: []string{"Paris", "Lyon"}, Category: "geography", Difficulty: 1, IsPublic: true},
	} {
		id, err := questionRepo.Insert(q)
		if err != nil {
			t.Fatalf("Failed to insert question: %v", err)
		}
		questionIDs = append(questionIDs, id)
	}

	return NewStudyService(questionRepo, reviewRepo, sessionRepo), user.ID, questionIDs
}

// TestFinishSessionIdempotent verifies that finishing a session twice
// returns identical stats both times
func TestFinishSessionIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, userID, questionIDs := newTestStudyService(t, "test_finish_idempotent.db")

	session, _, err := svc.StartSession(userID, SessionOptions{QuestionCount: 2})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	if _, err := svc.RecordAnswer(session.ID, userID, questionIDs[0], true, models.ConfidenceHigh, 2000, "4"); err != nil {
		t.Fatalf("First RecordAnswer failed: %v", err)
	}
	if _, err := svc.RecordAnswer(session.ID, userID, questionIDs[1], false, models.ConfidenceLow, 8000, "Lyon"); err != nil {
		t.Fatalf("Second RecordAnswer failed: %v", err)
	}

	first, err := svc.FinishSession(session.ID, userID)
	if err != nil {
		t.Fatalf("First FinishSession failed: %v", err)
	}

	second, err := svc.FinishSession(session.ID, userID)
	if err != nil {
		t.Fatalf("Second FinishSession failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical stats from both finishes:\nfirst:  %+v\nsecond: %+v", first, second)
	}

	if first.TotalQuestions != 2 || first.CorrectAnswers != 1 {
		t.Errorf("Expected 2 questions / 1 correct, got %d / %d", first.TotalQuestions, first.CorrectAnswers)
	}
	if first.Accuracy != 50 {
		t.Errorf("Expected accuracy 50, got %f", first.Accuracy)
	}
	if got := first.CategoryBreakdown["math"]; got.Total != 1 || got.Correct != 1 {
		t.Errorf("Expected math breakdown 1/1, got %d/%d", got.Correct, got.Total)
	}
	if got := first.CategoryBreakdown["geography"]; got.Total != 1 || got.Correct != 0 {
		t.Errorf("Expected geography breakdown 0/1, got %d/%d", got.Correct, got.Total)
	}
}

// TestRecordAnswerIntoFinishedSession verifies that a finished session
// rejects further answers without mutating its stats
func TestRecordAnswerIntoFinishedSession(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, userID, questionIDs := newTestStudyService(t, "test_answer_after_finish.db")

	session, _, err := svc.StartSession(userID, SessionOptions{QuestionCount: 2})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	if _, err := svc.RecordAnswer(session.ID, userID, questionIDs[0], true, models.ConfidenceMedium, 3000, "4"); err != nil {
		t.Fatalf("RecordAnswer failed: %v", err)
	}

	before, err := svc.FinishSession(session.ID, userID)
	if err != nil {
		t.Fatalf("FinishSession failed: %v", err)
	}

	_, err = svc.RecordAnswer(session.ID, userID, questionIDs[1], true, models.ConfidenceHigh, 1000, "Paris")
	if !errors.Is(err, ErrSessionFinished) {
		t.Fatalf("Expected ErrSessionFinished, got %v", err)
	}

	after, err := svc.FinishSession(session.ID, userID)
	if err != nil {
		t.Fatalf("FinishSession after rejected answer failed: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("Rejected answer must not change stats:\nbefore: %+v\nafter:  %+v", before, after)
	}
}

// TestRecordAnswerUnknownSession verifies not-found propagation for a
// session id that does not exist
func TestRecordAnswerUnknownSession(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, userID, questionIDs := newTestStudyService(t, "test_unknown_session.db")

	_, err := svc.RecordAnswer(99999, userID, questionIDs[0], true, models.ConfidenceHigh, 1000, "4")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("RecordAnswer: expected ErrSessionNotFound, got %v", err)
	}

	if _, err := svc.FinishSession(99999, userID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("FinishSession: expected ErrSessionNotFound, got %v", err)
	}

	if _, err := svc.GetSession(99999, userID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("GetSession: expected ErrSessionNotFound, got %v", err)
	}
}

// TestRecordAnswerWrongUser verifies that another user's session is
// reported as not found rather than leaking
func TestRecordAnswerWrongUser(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc, userID, questionIDs := newTestStudyService(t, "test_wrong_user.db")

	session, _, err := svc.StartSession(userID, SessionOptions{QuestionCount: 1})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	otherUserID := userID + 1
	_, err = svc.RecordAnswer(session.ID, otherUserID, questionIDs[0], true, models.ConfidenceHigh, 1000, "4")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound for another user's session, got %v", err)
	}
}
