package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	apiv1 "github.com/gigbookhq/gigbook/internal/api/v1"
	"github.com/gigbookhq/gigbook/internal/pkg/constants"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "gigbook api",
		})
	})

	// API v1 routes
	v1 := api.Group("/v1")
	apiv1.RegisterRoutes(v1)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
