package controllers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/gigbookhq/gigbook/internal/pkg/cache"
	"github.com/gigbookhq/gigbook/internal/pkg/finance"
)

const (
	financialSummaryCacheKey = "finance:summary"
	financialSummaryCacheTTL = 5 * time.Minute
)

// HandleGigFinancials returns the full financial breakdown for one gig.
func HandleGigFinancials(c *fiber.Ctx) error {
	gig, breakdown, err := financeService.GigFinancials(c.Context(), c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"gig":       gig,
		"breakdown": breakdown,
	})
}

// HandleFinancialSummary returns the band-wide income/expense rollup.
// The result is cached briefly since it scans every gig.
func HandleFinancialSummary(c *fiber.Ctx) error {
	if cached, err := cache.Get(financialSummaryCacheKey); err == nil && cached != "" {
		var summary finance.Summary
		if err := json.Unmarshal([]byte(cached), &summary); err == nil {
			return c.JSON(summary)
		}
	}

	summary, err := financeService.FinancialSummary(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	if payload, err := json.Marshal(summary); err == nil {
		if err := cache.Set(financialSummaryCacheKey, payload, financialSummaryCacheTTL); err != nil {
			log.Errorf("[Finance] Caching summary failed: %v", err)
		}
	}
	return c.JSON(summary)
}

// HandleExpensesByCategory returns expense totals rolled up by category.
func HandleExpensesByCategory(c *fiber.Ctx) error {
	totals, err := financeService.ExpensesByCategory(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"categories": totals})
}

// HandleGigLedger returns the per-gig financial ledger, newest first.
func HandleGigLedger(c *fiber.Ctx) error {
	rows, err := financeService.GigLedger(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ledger": rows})
}
