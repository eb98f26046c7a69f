package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gigbookhq/gigbook/internal/pkg/statistics"
)

// HandleDashboardStats returns the cached headline numbers for the dashboard.
func HandleDashboardStats(c *fiber.Ctx) error {
	statistics.UpdateCacheIfNeeded()
	return c.JSON(statistics.GetDashboard())
}
