package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Salaheddine-dev01/factory/internal/config"
	"github.com/Salaheddine-dev01/factory/internal/database"
	"github.com/Salaheddine-dev01/factory/internal/handler"
	"github.com/Salaheddine-dev01/factory/internal/middleware"
	"github.com/Salaheddine-dev01/factory/internal/queue"
	"github.com/Salaheddine-dev01/factory/internal/repository"
	"github.com/Salaheddine-dev01/factory/internal/router"
	"github.com/Salaheddine-dev01/factory/internal/service"
)

func main() {
	// .env first, then real environment wins.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis is optional: nil disables the login limiter and list cache.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and caching disabled")
	}

	users := repository.NewUserRepo(db)
	interventions := repository.NewInterventionRepo(db)

	authH := handler.NewAuthHandler(cfg, users)
	ivH := handler.NewInterventionHandler(interventions)
	ivH.Events = service.AuditPublisher{}
	if rdb != nil {
		ivH.DropCache = middleware.InvalidateListCache(config.LoadCacheConfig(), rdb)
	}
	exportH := handler.NewExportHandler(interventions)

	// Audit consumer runs for the life of the process, reconnecting on
	// broker failures.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, rdb)
	router.RegisterInterventions(e, ivH, cfg.JWTSecret, rdb)
	router.RegisterExport(e, exportH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
