package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/geoquest-app/geoquest/internal/api"
	"github.com/geoquest-app/geoquest/internal/catalog"
	"github.com/geoquest-app/geoquest/internal/config"
	"github.com/geoquest-app/geoquest/internal/db"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	database, err := db.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(context.Background()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Load the location catalog
	cat, err := catalog.Load()
	if err != nil {
		log.Fatalf("Failed to load location catalog: %v", err)
	}

	// Start API server
	apiServer := api.New(cfg, database, cat)
	go func() {
		if err := apiServer.Start(); err != nil {
			log.Fatalf("API server error: %v", err)
		}
	}()

	// Wait for signal to stop
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
}
