package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizdrill/internal/config"
	"quizdrill/internal/database"
	"quizdrill/internal/handlers"
	"quizdrill/internal/repository"
	"quizdrill/internal/security"
	"quizdrill/internal/service"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	// Load .env if present; deployed environments set variables directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// Initialize token manager and rate limiter
	tokens, err := security.NewTokenManager(cfg.JWTSecret, cfg.TokenDuration)
	if err != nil {
		log.Fatalf("Failed to initialize token manager: %v", err)
	}
	limiter := security.NewRateLimiter(20, time.Minute)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokens)
	studyService := service.NewStudyService(questionRepo, reviewRepo, sessionRepo)
	statsService := service.NewStatsService(sessionRepo, reviewRepo)

	reminderService, err := service.NewReminderService(userRepo, statsService,
		cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize reminder service: %v", err)
	}

	googleOAuth := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}

	// Initialize handlers
	middleware := handlers.NewMiddleware(tokens, limiter)
	authHandler := handlers.NewAuthHandler(authService, googleOAuth, cfg.OAuthRedirectBaseURL)
	studyHandler := handlers.NewStudyHandler(studyService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /auth/google/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/google/callback", authHandler.OAuthCallback)

	// Protected routes
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("POST /api/sessions", middleware.RequireAuth(studyHandler.StartSession))
	mux.HandleFunc("POST /api/sessions/{id}/answers", middleware.RequireAuth(studyHandler.SubmitAnswer))
	mux.HandleFunc("POST /api/sessions/{id}/finish", middleware.RequireAuth(studyHandler.FinishSession))
	mux.HandleFunc("GET /api/sessions/{id}", middleware.RequireAuth(studyHandler.GetSession))
	mux.HandleFunc("GET /api/stats", middleware.RequireAuth(statsHandler.GetStats))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background reminder digests
	if reminderService.IsEnabled() {
		go runReminderDigests(reminderService, cfg.ReminderInterval)
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// runReminderDigests periodically emails users with due reviews
func runReminderDigests(reminderService *service.ReminderService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if err := reminderService.SendDueDigests(context.Background()); err != nil {
			log.Printf("Error sending reminder digests: %v", err)
		}
	}
}
