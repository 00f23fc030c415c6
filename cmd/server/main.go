package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/recycle-connect/internal/config"
	"github.com/iliyamo/recycle-connect/internal/database"
	"github.com/iliyamo/recycle-connect/internal/handler"
	"github.com/iliyamo/recycle-connect/internal/middleware"
	"github.com/iliyamo/recycle-connect/internal/queue"
	"github.com/iliyamo/recycle-connect/internal/repository"
	"github.com/iliyamo/recycle-connect/internal/router"
	queue_publisher "github.com/iliyamo/recycle-connect/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional. Without it sessions fall back to process
	// memory and rate limiting / response caching are disabled.
	rdb := config.NewRedisClient()

	var sessions repository.SessionStore
	if rdb != nil {
		sessions = repository.NewRedisSessionStore(rdb)
	} else {
		log.Println("redis unavailable, using in-memory sessions")
		sessions = repository.NewMemorySessionStore()
	}

	users := repository.NewUserRepo(db)
	listings := repository.NewListingRepo(db)
	transactions := repository.NewTransactionRepo(db)

	authH := handler.NewAuthHandler(cfg, users, sessions)
	listingH := handler.NewListingHandler(listings, transactions)
	txH := handler.NewTransactionHandler(listings, transactions, queue_publisher.PublishTransactionCompleted)

	e := echo.New()
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAPI(e, authH, listingH, txH, users, sessions, rdb, config.LoadCacheConfig())

	// Background consumer for completed-transaction events. It runs
	// its own reconnect loop and never brings the server down.
	go func() {
		if err := queue.StartTransactionConsumer(); err != nil {
			log.Printf("transaction consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
