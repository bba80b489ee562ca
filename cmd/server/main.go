package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Renzzio/bulsu-gate-system/internal/config"
	"github.com/Renzzio/bulsu-gate-system/internal/database"
	"github.com/Renzzio/bulsu-gate-system/internal/handler"
	"github.com/Renzzio/bulsu-gate-system/internal/middleware"
	"github.com/Renzzio/bulsu-gate-system/internal/queue"
	"github.com/Renzzio/bulsu-gate-system/internal/repository"
	"github.com/Renzzio/bulsu-gate-system/internal/router"
	"github.com/Renzzio/bulsu-gate-system/internal/service"
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

	// Repositories over the shared pool.
	students := repository.NewStudentRepo(db)
	visitors := repository.NewVisitorRepo(db)
	gates := repository.NewGateRepo(db)
	schedules := repository.NewScheduleRepo(db)
	accessLogs := repository.NewAccessLogRepo(db)
	violations := repository.NewViolationRepo(db)

	// The authorization engine and its collaborators.
	matcher := service.NewScheduleMatcher(schedules, cfg.GraceBefore, cfg.GraceAfter)
	tracker := service.NewPassTracker(visitors)
	recorder := service.NewViolationRecorder(violations)
	engine := service.NewAuthorizer(students, gates, matcher, tracker, recorder, accessLogs)

	// Redis is optional: without it the token bucket is a pass-through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Background consumer mirroring scan events to logs/scan.log.
	go func() {
		if err := queue.StartScanConsumer(); err != nil {
			log.Printf("scan consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterGate(e,
		handler.NewScanHandler(engine),
		handler.NewViolationHandler(recorder, accessLogs, violations),
		handler.NewVisitorHandler(visitors, gates, cfg.VisitorMaxUses),
		handler.NewLogsHandler(accessLogs),
		cfg.JWTSecret,
		limiter,
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
