package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
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

	controllers.SetFinanceService(finance.NewServiceFromDB(db, finance.DefaultBandSize))

	calendarClient := gcal.NewClientFromEnv()
	connRepo := gcal.NewConnectionRepository(db)
	calendarService := gcal.NewService(calendarClient, gcal.NewTokenManager(calendarClient, connRepo), connRepo, gcal.NewGigRepository(db))
	controllers.SetCalendarService(calendarClient, calendarService, connRepo)

	queueManager := jobqueue.GetManager()
	queueManager.GetQueue().SetCalendarSyncer(calendarService)
	queueManager.Start()

	app := fiber.New()
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}
