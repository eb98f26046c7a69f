package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gigbookhq/gigbook/internal/pkg/apperr"
)

const defaultPageSize = 50

// jsonError writes the standard error envelope.
func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}

// respondError maps service/repository errors onto HTTP statuses. Sentinel
// errors from apperr take precedence; raw gorm not-found is treated like
// apperr.ErrNotFound so repositories can stay unwrapped.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return jsonError(c, fiber.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, apperr.ErrAuth):
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, apperr.ErrNotConnected):
		return jsonError(c, fiber.StatusConflict, "calendar_not_connected", "google calendar is not connected")
	case errors.Is(err, apperr.ErrSync):
		return jsonError(c, fiber.StatusBadGateway, "calendar_sync_failed", err.Error())
	default:
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "something went wrong")
	}
}

// pagination reads offset/limit query params with sane bounds.
func pagination(c *fiber.Ctx) (offset, limit int) {
	offset, _ = strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPageSize)))
	if limit <= 0 || limit > 200 {
		limit = defaultPageSize
	}
	return offset, limit
}

// paramID parses a numeric route parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Join(apperr.ErrValidation, errors.New("invalid "+name))
	}
	return uint(id), nil
}
