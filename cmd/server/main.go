package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"formbae/coach-app/internal/api"
	"formbae/coach-app/internal/config"
	"formbae/coach-app/internal/repository"
	"formbae/coach-app/internal/service"
	"formbae/coach-app/internal/sheets"
	"formbae/coach-app/internal/storage"
	"formbae/coach-app/internal/video"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Coach App Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Tabular Store ---
	store, cleanup, err := openStore(cfg.Sheets)
	if err != nil {
		log.Fatalf("FATAL: Could not open %s store: %v", cfg.Sheets.Driver, err)
	}
	if cleanup != nil {
		defer cleanup()
	}
	log.Printf("Tabular store ready (driver: %s).", cfg.Sheets.Driver)

	tables := repository.NewTables(store)

	// Header rows are written up front so first reads see full-width rows.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := tables.EnsureHeaders(ctx); err != nil {
			log.Printf("ERROR: Failed to ensure table headers: %v", err)
		}
	}()

	// --- Photo Storage ---
	var photoStorage storage.PhotoStorage
	if cfg.S3.BucketName != "" {
		photoStorage, err = storage.NewS3Storage(cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("Photo storage disabled (no S3 bucket configured).")
	}

	// --- Video Provider ---
	var provider video.Provider
	if cfg.YouTube.APIKey != "" {
		ytProvider, err := video.NewYouTubeProvider(context.Background(), cfg.YouTube.APIKey)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize YouTube provider: %v", err)
		}
		provider = ytProvider
	} else {
		log.Println("Video search disabled (no YouTube API key configured).")
	}
	backfiller := video.NewBackfiller(tables, provider)

	// --- Services ---
	log.Println("Initializing services...")
	limiter := service.NewLoginRateLimiter(cfg.RateLimit.LoginAttempts, cfg.RateLimit.LoginWindow)
	authService := service.NewAuthService(tables, limiter, cfg.JWT.Secret, cfg.JWT.Expiration)
	userService := service.NewUserService(tables)
	requestService := service.NewRequestService(tables)
	planService := service.NewPlanService(tables)
	workoutService := service.NewWorkoutService(tables)
	progressService := service.NewProgressService(tables)
	messageService := service.NewMessageService(tables)
	profileService := service.NewProfileService(tables)
	videoService := service.NewVideoService(tables, provider)
	seedService := service.NewSeedService(tables)

	// First-run admin provisioning, safe to repeat.
	if cfg.Seed.AdminMobile != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		result, err := seedService.Seed(ctx, cfg.Seed.AdminName, cfg.Seed.AdminMobile, cfg.Seed.AdminPassword)
		cancel()
		if err != nil {
			log.Printf("ERROR: Seed failed: %v", err)
		} else if result.AdminCreated {
			log.Printf("Seeded initial admin account %s.", result.AdminUserID)
		}
	}

	// --- HTTP ---
	router := gin.Default()

	authHandler := api.NewAuthHandler(authService, requestService)
	adminHandler := api.NewAdminHandler(userService, requestService, seedService)
	trainerHandler := api.NewTrainerHandler(planService, userService, progressService, messageService, profileService, videoService, backfiller)
	appHandler := api.NewAppHandler(planService, workoutService, progressService, messageService, profileService, userService, photoStorage)

	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authHandler, adminHandler, trainerHandler, appHandler)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}

// openStore selects the tabular store driver from config.
func openStore(cfg config.SheetsConfig) (sheets.Store, func(), error) {
	switch cfg.Driver {
	case "google":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		store, err := sheets.NewGoogleStore(ctx, cfg.SpreadsheetID, cfg.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	case "mongo":
		store, err := sheets.ConnectMongoStore(cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			log.Println("Disconnecting MongoDB...")
			if err := store.Close(); err != nil {
				log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
			}
		}
		return store, cleanup, nil
	case "memory":
		return sheets.NewMemoryStore(), nil, nil
	default:
		return nil, nil, errors.New("unknown sheets driver: " + cfg.Driver)
	}
}
