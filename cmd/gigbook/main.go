package main

import (
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/gigbookhq/gigbook/app/controllers"
	"github.com/gigbookhq/gigbook/app/repository"
	"github.com/gigbookhq/gigbook/internal/pkg/cache"
	"github.com/gigbookhq/gigbook/internal/pkg/database"
	"github.com/gigbookhq/gigbook/internal/pkg/env"
	"github.com/gigbookhq/gigbook/internal/pkg/finance"
	"github.com/gigbookhq/gigbook/internal/pkg/gcal"
	"github.com/gigbookhq/gigbook/internal/pkg/jobqueue"
	"github.com/gigbookhq/gigbook/internal/pkg/mail"
	"github.com/gigbookhq/gigbook/internal/pkg/receipts"
	"github.com/gigbookhq/gigbook/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	db := database.GetDB()
	repository.InitializeFactory(db)

	// Finance service: per-member split fallback size is configurable.
	bandSize := finance.DefaultBandSize
	if v, err := strconv.Atoi(env.GetEnv("BAND_SIZE", "")); err == nil && v > 0 {
		bandSize = v
	}
	financeService := finance.NewServiceFromDB(db, bandSize)
	if env.GetEnv("SMTP_HOST", "") != "" {
		financeService = financeService.WithNotifier(mail.PayoutNotifier{})
	}
	controllers.SetFinanceService(financeService)

	// Google Calendar sync cluster.
	calendarClient := gcal.NewClientFromEnv()
	connRepo := gcal.NewConnectionRepository(db)
	gigRepo := gcal.NewGigRepository(db)
	tokens := gcal.NewTokenManager(calendarClient, connRepo)
	calendarService := gcal.NewService(calendarClient, tokens, connRepo, gigRepo)
	controllers.SetCalendarService(calendarClient, calendarService, connRepo)

	// Background workers: async calendar pushes plus the periodic pull that
	// covers missed webhooks.
	queueManager := jobqueue.GetManager()
	queueManager.GetQueue().SetCalendarSyncer(calendarService)
	queueManager.Start()

	// Receipt storage is optional; expenses work without it.
	if cfg, err := receipts.LoadConfig(); err != nil {
		log.Printf("Receipt storage config invalid: %v", err)
	} else if cfg.IsEnabled() {
		uploader, err := receipts.NewUploader(cfg)
		if err != nil {
			log.Printf("Receipt storage unavailable: %v", err)
		} else {
			controllers.SetReceiptUploader(uploader)
		}
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // receipts cap at 20 MiB
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "admin"),
		},
	}), monitor.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}
