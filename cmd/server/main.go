package main

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"tutorhub/internal/config"
	"tutorhub/internal/database"
	"tutorhub/internal/handlers"
	"tutorhub/internal/repository"
	"tutorhub/internal/security"
	"tutorhub/internal/service"
)

func main() {
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

	// Load templates
	templates, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	log.Println("Templates loaded successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	resetRepo := repository.NewResetRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	qaRepo := repository.NewQARepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, resetRepo, cfg.SessionDuration)
	teacherService := service.NewTeacherService(teacherRepo, userRepo, qaRepo)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	var photoStorage service.PhotoStorage = service.DisabledPhotoStorage{}
	if cfg.S3Bucket != "" {
		photoStorage, err = service.NewS3PhotoStorage(context.Background(), cfg.AWSRegion, cfg.S3Bucket, cfg.S3BaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize photo storage: %v", err)
		}
		log.Printf("Photo storage enabled: bucket=%s", cfg.S3Bucket)
	} else {
		log.Println("Photo storage disabled: S3_BUCKET not configured")
	}

	// Initialize handlers
	sessionSecret := cfg.SessionSecret
	if sessionSecret == "" {
		sessionSecret = security.GenerateSessionID()
		log.Println("Warning: SESSION_SECRET not set, CSRF tokens will not survive restarts")
	}

	csrf := security.NewCSRFGenerator(sessionSecret)
	limiter := security.NewRateLimiter(20, time.Minute)

	middleware := handlers.NewMiddleware(authService, csrf, limiter)
	oauthFlow := handlers.NewOAuthFlow(authService, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectBaseURL)
	authHandler := handlers.NewAuthHandler(authService, emailService, templates, oauthFlow)
	profileHandler := handlers.NewProfileHandler(authService, photoStorage, middleware, templates, cfg.UploadMaxSize)
	teacherHandler := handlers.NewTeacherHandler(teacherService, middleware, templates)

	// Setup routes
	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticPath))))

	// Public routes
	mux.HandleFunc("GET /", authHandler.Home)
	mux.HandleFunc("GET /login", authHandler.ShowLogin)
	mux.HandleFunc("POST /login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /register", authHandler.ShowRegister)
	mux.HandleFunc("POST /register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /logout", authHandler.Logout)
	mux.HandleFunc("GET /forget-password", authHandler.ShowForgetPassword)
	mux.HandleFunc("POST /forget-password", middleware.RateLimit(authHandler.ForgetPassword))
	mux.HandleFunc("GET /change-password/{token}", authHandler.ShowChangePassword)
	mux.HandleFunc("POST /change-password/{token}", middleware.RateLimit(authHandler.ChangePassword))
	mux.HandleFunc("GET /auth/{provider}/start", oauthFlow.Start)
	mux.HandleFunc("GET /auth/{provider}/callback", oauthFlow.Callback)

	// Protected profile routes
	mux.HandleFunc("GET /profile", middleware.RequireAuth(profileHandler.Profile))
	mux.HandleFunc("GET /profile/edit", middleware.RequireAuth(profileHandler.ShowProfileEdit))
	mux.HandleFunc("POST /profile/edit", middleware.RequireAuth(middleware.CSRFProtect(profileHandler.ProfileEdit)))
	mux.HandleFunc("GET /profile/upload-picture", middleware.RequireAuth(profileHandler.ShowUploadPicture))
	mux.HandleFunc("POST /profile/upload-picture", middleware.RequireAuth(profileHandler.UploadProfilePicture))

	// Protected teacher routes
	mux.HandleFunc("GET /teacher", middleware.RequireAuth(teacherHandler.ShowTeacherProfile))
	mux.HandleFunc("POST /teacher", middleware.RequireAuth(middleware.CSRFProtect(teacherHandler.SaveTeacherProfile)))

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

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}

// loadTemplates loads all template files
func loadTemplates(templatesPath string) (*template.Template, error) {
	pattern := filepath.Join(templatesPath, "*.tmpl")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found in %s", templatesPath)
	}

	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return tmpl, nil
}

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		}
	}
}
