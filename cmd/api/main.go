// cmd/api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"nox/internal/config"
	"nox/internal/db"
	"nox/internal/db/migrations"
	"nox/internal/generator"
	"nox/internal/repository"
	"nox/internal/routes"
)

// @title Nox API
// @version 1.0
// @description Nightlife discovery backend: clubs, events, reviews, friendships and recurring event generation.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg := config.Load()

	// Create database if it doesn't exist
	if err := db.CreateDatabaseIfNotExists(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to ensure database exists: %v", err)
	}

	// Initialize database
	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run database migrations
	if err := migrations.RunMigrations(database.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize S3 (optional; poster uploads are disabled without it)
	s3cfg, err := config.NewS3Config()
	if err != nil {
		log.Printf("S3 not configured, poster uploads disabled: %v", err)
		s3cfg = nil
	}

	// Create router and setup routes
	router := routes.SetupRoutes(database.DB, cfg, s3cfg)

	// Schedule the recurring-event generation pass
	if cfg.GenerateCron != "" {
		gen := generator.New(repository.NewEventRepository(database.DB), cfg.Location())
		scheduler := cron.New(cron.WithLocation(cfg.Location()))
		if _, err := scheduler.AddFunc(cfg.GenerateCron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			report, err := gen.Generate(ctx, cfg.GenerateWeeksAhead, false)
			if err != nil {
				log.Printf("Scheduled generation failed: %v", err)
				return
			}
			log.Printf("Scheduled generation: %d templates processed, %d instances created",
				report.TemplatesProcessed, report.InstancesCreated)
			for _, w := range report.Warnings {
				log.Printf("Generation warning: %s", w)
			}
		}); err != nil {
			log.Fatalf("Failed to schedule generation (%q): %v", cfg.GenerateCron, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Create server
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give server 5 seconds to finish current requests
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
