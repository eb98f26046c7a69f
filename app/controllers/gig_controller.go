package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/app/repository"
	"github.com/gigbookhq/gigbook/internal/pkg/jobqueue"
	"github.com/gigbookhq/gigbook/internal/pkg/usercontext"
)

type gigRequest struct {
	Title           string           `json:"title"`
	Venue           string           `json:"venue"`
	City            string           `json:"city"`
	Address         string           `json:"address"`
	Date            string           `json:"date"` // YYYY-MM-DD
	StartTime       string           `json:"start_time"`
	EndTime         string           `json:"end_time"`
	OrganizerName   string           `json:"organizer_name"`
	OrganizerPhone  string           `json:"organizer_phone"`
	OrganizerEmail  string           `json:"organizer_email"`
	Status          string           `json:"status"`
	QuotedAmount    *decimal.Decimal `json:"quoted_amount"`
	ConfirmedAmount *decimal.Decimal `json:"confirmed_amount"`
	TDSPercentage   *decimal.Decimal `json:"tds_percentage"`
	Notes           string           `json:"notes"`
}

// HandleCreateGig creates a new gig.
func HandleCreateGig(c *fiber.Ctx) error {
	var req gigRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", "date must be YYYY-MM-DD")
	}

	gig := &models.Gig{
		Title:           req.Title,
		Venue:           req.Venue,
		City:            req.City,
		Address:         req.Address,
		Date:            date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		OrganizerName:   req.OrganizerName,
		OrganizerPhone:  req.OrganizerPhone,
		OrganizerEmail:  req.OrganizerEmail,
		Status:          models.GigStatusLead,
		QuotedAmount:    req.QuotedAmount,
		ConfirmedAmount: req.ConfirmedAmount,
		TDSPercentage:   req.TDSPercentage,
		Notes:           req.Notes,
		CreatedBy:       usercontext.GetUserID(c),
	}
	if req.Status != "" {
		if !models.ValidGigStatus(req.Status) {
			return jsonError(c, fiber.StatusBadRequest, "validation_failed", "unknown gig status")
		}
		gig.Status = req.Status
	}
	if err := gig.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if negativeAmounts(req) {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", "amounts must not be negative")
	}

	if err := repository.GetGlobalFactory().GetGigRepository().Create(gig); err != nil {
		return respondError(c, err)
	}
	jobqueue.EnqueueCalendarPush(gig.UUID)
	return c.Status(fiber.StatusCreated).JSON(gig)
}

// HandleGetGig returns one gig by UUID.
func HandleGetGig(c *fiber.Ctx) error {
	gig, err := repository.GetGlobalFactory().GetGigRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(gig)
}

// HandleListGigs lists gigs with optional status filter and pagination.
func HandleListGigs(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetGigRepository()
	offset, limit := pagination(c)

	status := c.Query("status")
	var (
		gigs []models.Gig
		err  error
	)
	if status != "" {
		if !models.ValidGigStatus(status) {
			return jsonError(c, fiber.StatusBadRequest, "validation_failed", "unknown gig status")
		}
		gigs, err = repo.ListByStatus(status, offset, limit)
	} else {
		gigs, err = repo.List(offset, limit)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"gigs": gigs, "offset": offset, "limit": limit})
}

// HandleListUpcomingGigs lists future non-cancelled gigs.
func HandleListUpcomingGigs(c *fiber.Ctx) error {
	_, limit := pagination(c)
	gigs, err := repository.GetGlobalFactory().GetGigRepository().ListUpcoming(limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"gigs": gigs})
}

// HandleUpdateGig applies a partial update to a gig.
func HandleUpdateGig(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetGigRepository()
	gig, err := repo.GetByUUID(c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}

	var req gigRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}

	if req.Title != "" {
		gig.Title = req.Title
	}
	if req.Venue != "" {
		gig.Venue = req.Venue
	}
	if req.City != "" {
		gig.City = req.City
	}
	if req.Address != "" {
		gig.Address = req.Address
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "validation_failed", "date must be YYYY-MM-DD")
		}
		gig.Date = date
	}
	if req.StartTime != "" {
		gig.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		gig.EndTime = req.EndTime
	}
	if req.OrganizerName != "" {
		gig.OrganizerName = req.OrganizerName
	}
	if req.OrganizerPhone != "" {
		gig.OrganizerPhone = req.OrganizerPhone
	}
	if req.OrganizerEmail != "" {
		gig.OrganizerEmail = req.OrganizerEmail
	}
	if req.Status != "" {
		if !models.ValidGigStatus(req.Status) {
			return jsonError(c, fiber.StatusBadRequest, "validation_failed", "unknown gig status")
		}
		gig.Status = req.Status
	}
	if req.QuotedAmount != nil {
		gig.QuotedAmount = req.QuotedAmount
	}
	if req.ConfirmedAmount != nil {
		gig.ConfirmedAmount = req.ConfirmedAmount
	}
	if req.TDSPercentage != nil {
		gig.TDSPercentage = req.TDSPercentage
	}
	if req.Notes != "" {
		gig.Notes = req.Notes
	}

	if err := gig.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if negativeAmounts(req) {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", "amounts must not be negative")
	}

	if err := repo.Update(gig); err != nil {
		return respondError(c, err)
	}
	jobqueue.EnqueueCalendarPush(gig.UUID)
	return c.JSON(gig)
}

// HandleCancelGig soft-cancels a gig. The row and its calendar link stay.
func HandleCancelGig(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetGigRepository()
	gig, err := repo.GetByUUID(c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}

	if !gig.IsCancelled() {
		gig.Status = models.GigStatusCancelled
		if err := repo.Update(gig); err != nil {
			return respondError(c, err)
		}
		jobqueue.EnqueueCalendarPush(gig.UUID)
	}
	return c.JSON(gig)
}

func negativeAmounts(req gigRequest) bool {
	for _, d := range []*decimal.Decimal{req.QuotedAmount, req.ConfirmedAmount, req.TDSPercentage} {
		if d != nil && d.IsNegative() {
			return true
		}
	}
	return false
}
