package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"quizdrill/internal/models"
	"quizdrill/internal/service"
	"quizdrill/internal/validation"
)

// StudyHandler handles study session endpoints
type StudyHandler struct {
	studyService *service.StudyService
}

// NewStudyHandler creates a new study handler
func NewStudyHandler(studyService *service.StudyService) *StudyHandler {
	return &StudyHandler{studyService: studyService}
}

type startSessionRequest struct {
	QuestionCount int      `json:"questionCount"`
	Categories    []string `json:"categories"`
	Difficulty    int      `json:"difficulty"`
	OnlyDue       bool     `json:"onlyDue"`
}

type questionView struct {
	ID         int64    `json:"id"`
	Prompt     string   `json:"prompt"`
	Choices    []string `json:"choices"`
	Category   string   `json:"category"`
	Difficulty int      `json:"difficulty"`
}

type startSessionResponse struct {
	SessionID int64          `json:"sessionId"`
	Questions []questionView `json:"questions"`
}

type submitAnswerRequest struct {
	QuestionID      int64  `json:"questionId"`
	WasCorrect      bool   `json:"wasCorrect"`
	Confidence      string `json:"confidence"`
	TimeSpentMs     int    `json:"timeSpentMs"`
	SelectedAnswers string `json:"selectedAnswers"`
}

type sessionView struct {
	ID               int64   `json:"id"`
	StartedAt        string  `json:"startedAt"`
	EndedAt          *string `json:"endedAt"`
	TotalQuestions   int     `json:"totalQuestions"`
	CorrectAnswers   int     `json:"correctAnswers"`
	TotalTimeSpentMs int     `json:"totalTimeSpentMs"`
}

// StartSession handles POST /api/sessions
func (h *StudyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	session, questions, err := h.studyService.StartSession(userID, service.SessionOptions{
		QuestionCount: req.QuestionCount,
		Categories:    req.Categories,
		Difficulty:    req.Difficulty,
		OnlyDue:       req.OnlyDue,
	})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to start session", "StartSession failed", err)
		return
	}

	views := make([]questionView, len(questions))
	for i, q := range questions {
		views[i] = questionView{
			ID:         q.ID,
			Prompt:     q.Prompt,
			Choices:    q.Choices,
			Category:   q.Category,
			Difficulty: q.Difficulty,
		}
	}

	respondWithJSON(w, http.StatusCreated, startSessionResponse{
		SessionID: session.ID,
		Questions: views,
	})
}

// SubmitAnswer handles POST /api/sessions/{id}/answers
func (h *StudyHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	sessionID, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid session ID", "", nil)
		return
	}

	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	if req.Confidence != "" {
		if err := validation.ValidateConfidence(req.Confidence); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
			return
		}
	}
	if err := validation.ValidateTimeSpent(req.TimeSpentMs); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	result, err := h.studyService.RecordAnswer(sessionID, userID, req.QuestionID,
		req.WasCorrect, models.Confidence(req.Confidence), req.TimeSpentMs, req.SelectedAnswers)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			respondWithError(w, http.StatusNotFound, "Session not found", "", nil)
		case errors.Is(err, service.ErrSessionFinished):
			respondWithError(w, http.StatusConflict, "Session has already finished", "", nil)
		case errors.Is(err, service.ErrQuestionNotFound):
			respondWithError(w, http.StatusNotFound, "Question not found", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to record answer", "RecordAnswer failed", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// FinishSession handles POST /api/sessions/{id}/finish
func (h *StudyHandler) FinishSession(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	sessionID, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid session ID", "", nil)
		return
	}

	stats, err := h.studyService.FinishSession(sessionID, userID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			respondWithError(w, http.StatusNotFound, "Session not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to finish session", "FinishSession failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// GetSession handles GET /api/sessions/{id}
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	sessionID, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid session ID", "", nil)
		return
	}

	session, err := h.studyService.GetSession(sessionID, userID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			respondWithError(w, http.StatusNotFound, "Session not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to load session", "GetSession failed", err)
		return
	}

	view := sessionView{
		ID:               session.ID,
		StartedAt:        session.StartedAt.Format(time.RFC3339),
		TotalQuestions:   session.TotalQuestions,
		CorrectAnswers:   session.CorrectAnswers,
		TotalTimeSpentMs: session.TotalTimeSpentMs,
	}
	if session.EndedAt != nil {
		ended := session.EndedAt.Format(time.RFC3339)
		view.EndedAt = &ended
	}

	respondWithJSON(w, http.StatusOK, view)
}

// parseIDParam parses a numeric path parameter
func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}
