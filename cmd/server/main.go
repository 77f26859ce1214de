package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "librental-backend/internal/api/http"
	"librental-backend/internal/config"
	"librental-backend/internal/jobs"
	"librental-backend/internal/logger"
	"librental-backend/internal/repository/postgres"
	"librental-backend/internal/scheduler"
	"librental-backend/internal/security"
	"librental-backend/internal/service"
	"librental-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Library Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TokenLifetimeDays)

	// Initialize Cover Storage
	covers, err := storage.NewLocalCoverStorage(cfg.Storage.UploadDir)
	if err != nil {
		logger.Error("Failed to initialize cover storage", "error", err)
		log.Fatalf("Failed to initialize cover storage: %v", err)
	}
	logger.Info("Cover storage ready", "upload_dir", covers.Dir())

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	authSvc := service.NewAuthService(
		store.UserRepository,
		store.SessionRepository,
		tokenManager,
		time.Duration(cfg.Session.LifetimeHours)*time.Hour,
	)
	rentalSvc := service.NewRentalService(db, store.RentalRepository, store.BookRepository, emailSvc)
	catalogSvc := service.NewCatalogService(store.BookRepository)
	userSvc := service.NewUserService(store.UserRepository, store.BookRepository, store.RentalRepository)

	// Initialize HTTP surface
	middleware := httpapi.NewMiddleware(tokenManager, store.UserRepository, authSvc, cfg.Session.Secret)
	router := httpapi.NewRouter(httpapi.RouterDeps{
		Middleware: middleware,
		Auth:       httpapi.NewAuthHandler(authSvc, middleware),
		Rentals:    httpapi.NewRentalHandler(rentalSvc),
		Books:      httpapi.NewBookHandler(catalogSvc),
		Users:      httpapi.NewUserHandler(userSvc, catalogSvc),
		Admin:      httpapi.NewAdminHandler(catalogSvc, rentalSvc, userSvc, covers),
		Covers:     covers,
	})

	// Start scheduled jobs
	jobRunner := jobs.NewJobRunner(db, store, emailSvc, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
