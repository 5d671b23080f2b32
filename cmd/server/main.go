package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moodjournal/internal/config"
	"moodjournal/internal/database"
	"moodjournal/internal/handlers"
	"moodjournal/internal/logger"
	"moodjournal/internal/metrics"
	"moodjournal/internal/repository"
	"moodjournal/internal/service"

	"github.com/gorilla/mux"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Initialize(cfg.Logging)
	appLogger := logger.Default()

	appLogger.Info("Starting mood journal on port %d (env: %s)", cfg.Port, cfg.Environment)

	// Initialize database
	appLogger.Info("Initializing database: %s", cfg.DatabasePath)
	db, err := database.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		appLogger.Error("Failed to initialize database: %v", err)
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	appLogger.Info("Running database migrations")
	if err := database.Migrate(db); err != nil {
		appLogger.Error("Failed to run migrations: %v", err)
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if cfg.SeedCatalog {
		catalog, err := database.DefaultCatalog()
		if err != nil {
			log.Fatalf("Failed to load mood catalog: %v", err)
		}
		if err := database.Seed(db, catalog); err != nil {
			appLogger.Error("Failed to seed catalog: %v", err)
			log.Fatalf("Failed to seed catalog: %v", err)
		}
		appLogger.Info("Catalog seeded: %d moods, %d tags", len(catalog.Moods), len(catalog.Tags))
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	// Initialize repositories
	entryRepo := repository.NewEntryRepository(db, appLogger.With("entries"))
	moodRepo := repository.NewMoodRepository(db, appLogger.With("moods"))
	tagRepo := repository.NewTagRepository(db, appLogger.With("tags"))

	// Initialize services
	renderer := service.NewEntryRenderer(cfg.HighlightStyle)
	journalService := service.NewJournalService(entryRepo, moodRepo, tagRepo, renderer, appLogger.With("journal"))
	catalogService := service.NewCatalogService(moodRepo, tagRepo, appLogger.With("catalog"))
	analyticsService := service.NewAnalyticsService(entryRepo, moodRepo, tagRepo, cfg.TopTagsLimit, m, appLogger.With("analytics"))

	handler := handlers.NewHandler(analyticsService, journalService, catalogService, db, cfg, appLogger.With("http"))

	router := mux.NewRouter()
	router.Use(handlers.RequestID, handlers.Instrument(m, appLogger.With("access")))
	if m != nil {
		router.Handle("/metrics", m.Handler()).Methods("GET")
	}
	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("Serving on %s (%s)", server.Addr, cfg.BaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed to start: %v", err)
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Received shutdown signal, initiating graceful shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown: %v", err)
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("Server shutdown completed successfully")
}
