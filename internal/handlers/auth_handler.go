package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"quizdrill/internal/service"
	"quizdrill/internal/validation"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	authService     *service.AuthService
	googleOAuth     *oauth2.Config
	redirectBaseURL string
}

// NewAuthHandler creates a new auth handler. googleOAuth may have empty
// credentials, in which case the OAuth endpoints report not-configured.
func NewAuthHandler(authService *service.AuthService, googleOAuth *oauth2.Config, redirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		googleOAuth:     googleOAuth,
		redirectBaseURL: redirectBaseURL,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userView struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type authResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      userView  `json:"user"`
}

func toAuthResponse(result *service.AuthResult) authResponse {
	return authResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User: userView{
			ID:    result.User.ID,
			Email: result.User.Email,
			Name:  result.User.Name,
		},
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	result, err := h.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		var valErr validation.ValidationError
		switch {
		case errors.As(err, &valErr):
			respondWithError(w, http.StatusBadRequest, valErr.Message, "", nil)
		case errors.Is(err, service.ErrEmailTaken):
			respondWithError(w, http.StatusConflict, "An account with this email already exists", "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to create account", "Registration failed", err)
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, toAuthResponse(result))
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to log in", "Login failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, toAuthResponse(result))
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load account", "GetUser failed", err)
		return
	}
	if user == nil {
		respondWithError(w, http.StatusNotFound, "Account not found", "", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, userView{ID: user.ID, Email: user.Email, Name: user.Name})
}
