package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/synvoy/backend/internal/cleanup"
	"github.com/synvoy/backend/internal/config"
	"github.com/synvoy/backend/internal/database"
	"github.com/synvoy/backend/internal/email"
	"github.com/synvoy/backend/internal/handler"
	"github.com/synvoy/backend/internal/queue"
	"github.com/synvoy/backend/internal/repository"
	"github.com/synvoy/backend/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real environments set vars directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewVerificationTokenRepo(db)
	connections := repository.NewConnectionRepo(db)
	messages := repository.NewMessageRepo(db)
	trips := repository.NewTripRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	acctH := handler.NewAccountHandler(cfg, users, tokens)
	connH := handler.NewConnectionHandler(connections, users)
	msgH := handler.NewMessageHandler(messages, connections)
	tripH := handler.NewTripHandler(db, trips, connections)
	contactH := handler.NewContactHandler(cfg)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting disabled")
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, acctH, config.LoadRateLimitConfig(), rdb, cfg.JWTSecret)
	router.RegisterAPI(e, connH, msgH, tripH, cfg.JWTSecret)
	router.RegisterContact(e, contactH)

	// Background workers share the process lifetime.
	ctx := context.Background()
	retention := time.Duration(cfg.RetentionHours) * time.Hour
	go cleanup.Start(ctx, db, time.Hour, retention)
	go func() {
		sender := email.NewSender(cfg.Mail)
		if !sender.Enabled() {
			log.Println("mail sender not configured; outbound email will fail and be logged")
		}
		if err := queue.StartEmailConsumer(sender); err != nil {
			log.Printf("email-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
