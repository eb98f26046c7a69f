package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/gigbookhq/gigbook/internal/pkg/apperr"
	"github.com/gigbookhq/gigbook/internal/pkg/env"
	"github.com/gigbookhq/gigbook/internal/pkg/security"
)

// HandleGoogleCalendarWebhook receives Google Calendar push notifications.
// Google retries aggressively on non-2xx, so this endpoint always answers
// 200; failures are logged and recovered by the next pull.
func HandleGoogleCalendarWebhook(c *fiber.Ctx) error {
	state := c.Get("X-Goog-Resource-State")
	channelID := c.Get("X-Goog-Channel-ID")

	if secret := env.GetEnv("CALENDAR_WEBHOOK_SECRET", ""); secret != "" {
		if _, err := security.VerifyChannelToken(c.Get("X-Goog-Channel-Token"), channelID, secret); err != nil {
			log.Warnf("[Webhook] Rejected notification on channel %s: %v", channelID, err)
			return c.SendStatus(fiber.StatusOK)
		}
	}

	switch state {
	case "sync":
		// Channel registration handshake, nothing to process.
		log.Infof("[Webhook] Calendar channel %s registered", channelID)
		return c.SendStatus(fiber.StatusOK)
	case "exists", "update":
		result, err := calendarService.ProcessWebhook(c.Context())
		if err != nil {
			log.Errorf("[Webhook] Calendar pull failed: %v", err)
			return c.SendStatus(fiber.StatusOK)
		}
		if result.HasFailures() {
			for _, item := range result.Failed {
				log.Errorf("[Webhook] Event %s failed: %v", item.ID, item.Err)
			}
		}
		log.Infof("[Webhook] Calendar pull: %d events, %d created, %d updated, %d skipped, %d failed",
			result.Total, result.Created, result.Updated, result.Skipped, len(result.Failed))
		return c.SendStatus(fiber.StatusOK)
	default:
		log.Warnf("[Webhook] Unknown resource state %q from channel %s", state, channelID)
		return c.SendStatus(fiber.StatusOK)
	}
}

func batchResponse(result *apperr.BatchResult) fiber.Map {
	failed := make([]fiber.Map, 0, len(result.Failed))
	for _, item := range result.Failed {
		failed = append(failed, fiber.Map{
			"id":    item.ID,
			"error": item.Err.Error(),
		})
	}
	return fiber.Map{
		"total":   result.Total,
		"created": result.Created,
		"updated": result.Updated,
		"skipped": result.Skipped,
		"failed":  failed,
	}
}
