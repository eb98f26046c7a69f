package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/app/repository"
	"github.com/gigbookhq/gigbook/internal/pkg/receipts"
	"github.com/gigbookhq/gigbook/internal/pkg/usercontext"
)

// receiptUploader is nil when receipt storage is disabled.
var receiptUploader *receipts.Uploader

// SetReceiptUploader wires the S3 receipt uploader into the expense
// endpoints at startup.
func SetReceiptUploader(u *receipts.Uploader) {
	receiptUploader = u
}

type expenseRequest struct {
	GigID       *uint            `json:"gig_id"`
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    string           `json:"category"`
	Date        string           `json:"date"` // YYYY-MM-DD
	PaidBy      *uint            `json:"paid_by"`
}

// HandleCreateExpense records a new expense.
func HandleCreateExpense(c *fiber.Ctx) error {
	var req expenseRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}
	if req.Amount == nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", "amount is required")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", "date must be YYYY-MM-DD")
	}

	expense := &models.Expense{
		GigID:       req.GigID,
		Description: req.Description,
		Amount:      *req.Amount,
		Category:    req.Category,
		Date:        date,
		PaidBy:      req.PaidBy,
		CreatedBy:   usercontext.GetUserID(c),
	}
	if err := expense.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := repository.GetGlobalFactory().GetExpenseRepository().Create(expense); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(expense)
}

// HandleListExpenses lists expenses, optionally filtered by gig or category.
func HandleListExpenses(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetExpenseRepository()

	if category := c.Query("category"); category != "" {
		expenses, err := repo.ListByCategory(category)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"expenses": expenses})
	}

	offset, limit := pagination(c)
	expenses, err := repo.List(offset, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"expenses": expenses, "offset": offset, "limit": limit})
}

// HandleUpdateExpense applies a partial update to an expense.
func HandleUpdateExpense(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	repo := repository.GetGlobalFactory().GetExpenseRepository()
	expense, err := repo.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}

	var req expenseRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}

	if req.GigID != nil {
		expense.GigID = req.GigID
	}
	if req.Description != "" {
		expense.Description = req.Description
	}
	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.Category != "" {
		expense.Category = req.Category
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "validation_failed", "date must be YYYY-MM-DD")
		}
		expense.Date = date
	}
	if req.PaidBy != nil {
		expense.PaidBy = req.PaidBy
	}

	if err := expense.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repo.Update(expense); err != nil {
		return respondError(c, err)
	}
	return c.JSON(expense)
}

// HandleDeleteExpense removes an expense and its stored receipt.
func HandleDeleteExpense(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	repo := repository.GetGlobalFactory().GetExpenseRepository()
	expense, err := repo.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}

	if expense.ReceiptURL != "" && receiptUploader != nil {
		if err := receiptUploader.Delete(c.Context(), expense.ReceiptURL); err != nil {
			log.Errorf("[Expenses] Deleting receipt for expense %d failed: %v", expense.ID, err)
		}
	}

	if err := repo.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "expense deleted"})
}

// HandleUploadReceipt attaches a receipt file to an expense.
func HandleUploadReceipt(c *fiber.Ctx) error {
	if receiptUploader == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "receipts_disabled", "receipt uploads are not enabled")
	}

	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	repo := repository.GetGlobalFactory().GetExpenseRepository()
	expense, err := repo.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "receipt file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := receiptUploader.Upload(c.Context(), file, contentType, fileHeader.Size)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "upload_failed", err.Error())
	}

	// Replace any previous receipt.
	if expense.ReceiptURL != "" {
		if err := receiptUploader.Delete(c.Context(), expense.ReceiptURL); err != nil {
			log.Errorf("[Expenses] Deleting old receipt for expense %d failed: %v", expense.ID, err)
		}
	}

	expense.ReceiptURL = url
	if err := repo.Update(expense); err != nil {
		return respondError(c, err)
	}
	return c.JSON(expense)
}
