package handlers

import (
	"net/http"

	"quizdrill/internal/service"
)

// StatsHandler handles user statistics endpoints
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStats handles GET /api/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	stats, err := h.statsService.UserStats(userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load statistics", "UserStats failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}
