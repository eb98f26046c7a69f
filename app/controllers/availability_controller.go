package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/app/repository"
	"github.com/gigbookhq/gigbook/internal/pkg/usercontext"
)

type availabilityRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// HandleSetAvailability upserts the authenticated member's own response for
// a gig. Members cannot answer for each other.
func HandleSetAvailability(c *fiber.Ctx) error {
	gig, err := repository.GetGlobalFactory().GetGigRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}

	var req availabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}
	if !models.ValidAvailabilityStatus(req.Status) {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", "status must be yes, no, maybe or pending")
	}

	availability := &models.Availability{
		GigID:  gig.ID,
		UserID: usercontext.GetUserID(c),
		Status: req.Status,
		Notes:  req.Notes,
	}
	if err := repository.GetGlobalFactory().GetAvailabilityRepository().Upsert(availability); err != nil {
		return respondError(c, err)
	}
	return c.JSON(availability)
}

// HandleListAvailability lists all responses for a gig.
func HandleListAvailability(c *fiber.Ctx) error {
	gig, err := repository.GetGlobalFactory().GetGigRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}

	responses, err := repository.GetGlobalFactory().GetAvailabilityRepository().ListByGig(gig.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"availability": responses})
}

// HandleMyAvailability lists the authenticated member's responses.
func HandleMyAvailability(c *fiber.Ctx) error {
	responses, err := repository.GetGlobalFactory().GetAvailabilityRepository().ListByUser(usercontext.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"availability": responses})
}
