package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kidtutor/internal/config"
	"kidtutor/internal/database"
	"kidtutor/internal/handlers"
	"kidtutor/internal/repository"
	"kidtutor/internal/security"
	"kidtutor/internal/service"
	"kidtutor/internal/tutor"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize the local session store (SQLite)
	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Local store opened at %s", cfg.DatabasePath)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed the profanity filter for the tutor endpoint
	if err := db.SeedBadWords(); err != nil {
		log.Printf("Warning: Failed to seed bad words filter: %v", err)
	}

	// Open the cloud store when sync is configured
	var cloudRepo *repository.CloudRepository
	if cfg.CloudDatabaseURL != "" {
		cloudDB, err := database.OpenCloud(cfg.CloudDatabaseType, cfg.CloudDatabaseURL)
		if err != nil {
			log.Fatalf("Failed to open cloud store: %v", err)
		}
		defer cloudDB.Close()

		if err := cloudDB.RunMigrations(cfg.MigrationsPath); err != nil {
			log.Fatalf("Failed to run cloud migrations: %v", err)
		}

		cloudRepo = repository.NewCloudRepository(cloudDB)
		log.Printf("Cloud sync enabled (type: %s)", cfg.CloudDatabaseType)
	} else {
		log.Println("Cloud sync disabled: CLOUD_DATABASE_URL not configured")
	}

	// Initialize repositories
	sessionRepo := repository.NewSessionRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize services
	gate := security.NewGateTokens(cfg.GateSecret, cfg.GateDuration)
	profileService := service.NewProfileService(profileRepo, settingsRepo, gate)
	syncService := service.NewSyncService(sessionRepo, cloudRepo)
	transferService := service.NewTransferService(sessionRepo)
	tutorService := service.NewTutorService(sessionRepo, cfg.TutorURL)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Seed first-run defaults
	if err := profileService.SeedDefaults(cfg.DefaultParentCode); err != nil {
		log.Fatalf("Failed to seed defaults: %v", err)
	}

	// The tutoring collaborator backend
	tutorBackend := tutor.NewService(db, cfg.TutorMode, cfg.OpenAIModel)

	// Initialize handlers
	limiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(gate, limiter)
	tutorHandler := handlers.NewTutorHandler(tutorBackend)
	sessionHandler := handlers.NewSessionHandler(tutorService, sessionRepo, profileService)
	profileHandler := handlers.NewProfileHandler(profileService)
	syncHandler := handlers.NewSyncHandler(syncService, profileService)
	transferHandler := handlers.NewTransferHandler(transferService, emailService, profileService, cfg.ParentEmail)
	settingsHandler := handlers.NewSettingsHandler(settingsRepo)

	// Setup routes
	mux := http.NewServeMux()

	// Static files (the browser UI)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))

	// Tutoring collaborator endpoint
	mux.HandleFunc("POST /api/tutor", middleware.RateLimit(tutorHandler.Respond))

	// Tutoring pipeline and session history
	mux.HandleFunc("POST /api/ask", sessionHandler.Ask)
	mux.HandleFunc("GET /api/sessions", sessionHandler.Recent)
	mux.HandleFunc("POST /api/sessions/{id}/notes", sessionHandler.UpdateNotes)
	mux.HandleFunc("POST /api/sessions/clear", middleware.RequireParentGate(sessionHandler.Clear))

	// Profiles and the parental gate
	mux.HandleFunc("GET /api/profiles", profileHandler.List)
	mux.HandleFunc("POST /api/profiles", middleware.RequireParentGate(profileHandler.Create))
	mux.HandleFunc("POST /api/profiles/{id}/update", middleware.RequireParentGate(profileHandler.Update))
	mux.HandleFunc("POST /api/profiles/{id}/delete", middleware.RequireParentGate(profileHandler.Delete))
	mux.HandleFunc("POST /api/profiles/{id}/activate", profileHandler.Activate)
	mux.HandleFunc("POST /api/parent/verify", profileHandler.VerifyParent)
	mux.HandleFunc("POST /api/parent/code", middleware.RequireParentGate(profileHandler.SetParentCode))

	// Manual sync
	mux.HandleFunc("POST /api/sync/push", syncHandler.Push)
	mux.HandleFunc("POST /api/sync/pull", syncHandler.Pull)

	// Import/export
	mux.HandleFunc("GET /api/export", transferHandler.Export)
	mux.HandleFunc("POST /api/import", middleware.RequireParentGate(transferHandler.Import))
	mux.HandleFunc("POST /api/export/email", middleware.RequireParentGate(transferHandler.EmailExport))

	// UI settings
	mux.HandleFunc("GET /api/settings", settingsHandler.Get)
	mux.HandleFunc("POST /api/settings", settingsHandler.Set)

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
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
}
