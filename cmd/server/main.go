package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/kelechi-obi/orgvault/internal/config"
	"github.com/kelechi-obi/orgvault/internal/database"
	"github.com/kelechi-obi/orgvault/internal/handler"
	"github.com/kelechi-obi/orgvault/internal/queue"
	"github.com/kelechi-obi/orgvault/internal/repository"
	"github.com/kelechi-obi/orgvault/internal/router"
)

func main() {
	// A missing .env is fine; real deployments configure the environment
	// directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	orgs := repository.NewOrganisationRepo(db)

	authH := handler.NewAuthHandler(cfg, users)
	userH := handler.NewUserHandler(cfg, users)
	orgH := handler.NewOrganisationHandler(cfg, orgs, users)

	// Redis is optional: a nil client disables the rate limiter.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting disabled")
	}

	// The audit consumer reconnects on its own and never returns in normal
	// operation.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, config.LoadRateLimitConfig(), rdb)
	router.RegisterAPI(e, cfg.JWTSecret, users, userH, orgH)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
