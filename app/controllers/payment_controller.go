package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/app/repository"
	"github.com/gigbookhq/gigbook/internal/pkg/usercontext"
)

type paymentRequest struct {
	Amount          *decimal.Decimal `json:"amount"`
	PaymentDate     string           `json:"payment_date"` // YYYY-MM-DD
	PaymentMode     string           `json:"payment_mode"`
	ReferenceNumber string           `json:"reference_number"`
	TDSDeducted     *decimal.Decimal `json:"tds_deducted"`
	Notes           string           `json:"notes"`
}

// HandleCreatePayment records a payment received against a gig.
func HandleCreatePayment(c *fiber.Ctx) error {
	gig, err := repository.GetGlobalFactory().GetGigRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}

	var req paymentRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}
	if req.Amount == nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", "amount is required")
	}
	date, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", "payment_date must be YYYY-MM-DD")
	}

	payment := &models.Payment{
		GigID:           gig.ID,
		Amount:          *req.Amount,
		PaymentDate:     date,
		PaymentMode:     req.PaymentMode,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		RecordedBy:      usercontext.GetUserID(c),
	}
	if req.TDSDeducted != nil {
		payment.TDSDeducted = *req.TDSDeducted
	}
	if err := payment.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := repository.GetGlobalFactory().GetPaymentRepository().Create(payment); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// HandleListPaymentsForGig lists payments received against one gig.
func HandleListPaymentsForGig(c *fiber.Ctx) error {
	gig, err := repository.GetGlobalFactory().GetGigRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}

	payments, err := repository.GetGlobalFactory().GetPaymentRepository().ListByGig(gig.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"payments": payments})
}

// HandleListPayments lists all payments, newest first.
func HandleListPayments(c *fiber.Ctx) error {
	offset, limit := pagination(c)
	payments, err := repository.GetGlobalFactory().GetPaymentRepository().List(offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"payments": payments, "offset": offset, "limit": limit})
}

// HandleDeletePayment removes a payment record.
func HandleDeletePayment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	repo := repository.GetGlobalFactory().GetPaymentRepository()
	if _, err := repo.GetByID(id); err != nil {
		return respondError(c, err)
	}
	if err := repo.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "payment deleted"})
}
