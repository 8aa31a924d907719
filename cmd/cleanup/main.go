// Standalone invocation of the unverified-account cleanup, for running the
// job from cron or a scheduler outside the API process. It shares the
// database configuration with the server and performs exactly one pass.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/synvoy/backend/internal/cleanup"
	"github.com/synvoy/backend/internal/config"
	"github.com/synvoy/backend/internal/database"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	n, err := cleanup.Run(ctx, db, time.Duration(cfg.RetentionHours)*time.Hour)
	if err != nil {
		log.Fatalf("cleanup: %v", err)
	}
	log.Printf("cleanup: deleted %d unverified account(s)", n)
}
