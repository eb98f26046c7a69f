package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gigbookhq/gigbook/app/repository"
	"github.com/gigbookhq/gigbook/internal/pkg/finance"
	"github.com/gigbookhq/gigbook/internal/pkg/usercontext"
)

// financeService is wired at startup.
var financeService *finance.Service

// SetFinanceService wires the finance service into the payout and finance
// endpoints.
func SetFinanceService(s *finance.Service) {
	financeService = s
}

// HandleGeneratePayouts (re)generates the payout split for a gig. Admin only.
func HandleGeneratePayouts(c *fiber.Ctx) error {
	result, err := financeService.GeneratePayouts(c.Context(), c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"breakdown": result.Breakdown,
		"payouts":   result.Payouts,
		"stale":     result.Stale,
	})
}

// HandleListPayoutsForGig lists the payout rows generated for a gig.
func HandleListPayoutsForGig(c *fiber.Ctx) error {
	gig, err := repository.GetGlobalFactory().GetGigRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}

	payouts, err := repository.GetGlobalFactory().GetPayoutRepository().ListByGig(gig.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"payouts": payouts})
}

// HandleListMyPayouts lists the authenticated member's payouts.
func HandleListMyPayouts(c *fiber.Ctx) error {
	payouts, err := repository.GetGlobalFactory().GetPayoutRepository().ListByUser(usercontext.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"payouts": payouts})
}

// HandleListPendingPayouts lists all unsettled payouts. Admin only.
func HandleListPendingPayouts(c *fiber.Ctx) error {
	payouts, err := repository.GetGlobalFactory().GetPayoutRepository().ListPending()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"payouts": payouts})
}

type payoutStatusRequest struct {
	Status   string `json:"status"`
	PaidDate string `json:"paid_date"` // YYYY-MM-DD, optional
}

// HandleUpdatePayoutStatus marks a payout paid or back to pending. Admin only.
func HandleUpdatePayoutStatus(c *fiber.Ctx) error {
	var req payoutStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}

	var paidDate *time.Time
	if req.PaidDate != "" {
		parsed, err := time.Parse("2006-01-02", req.PaidDate)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "validation_failed", "paid_date must be YYYY-MM-DD")
		}
		paidDate = &parsed
	}

	payout, err := financeService.UpdatePayoutStatus(c.Context(), c.Params("uuid"), req.Status, paidDate)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payout)
}
