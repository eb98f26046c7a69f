package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/gigbookhq/gigbook/internal/pkg/cache"
	"github.com/gigbookhq/gigbook/internal/pkg/env"
	"github.com/gigbookhq/gigbook/internal/pkg/gcal"
	"github.com/gigbookhq/gigbook/internal/pkg/usercontext"
)

var (
	calendarClient  *gcal.Client
	calendarService *gcal.Service
	calendarConns   gcal.ConnectionRepository
)

// SetCalendarService wires the calendar client and sync service into the
// admin calendar endpoints.
func SetCalendarService(client *gcal.Client, service *gcal.Service, conns gcal.ConnectionRepository) {
	calendarClient = client
	calendarService = service
	calendarConns = conns
}

const oauthStateTTL = 10 * time.Minute

func oauthStateKey(state string) string {
	return "gcal:oauth_state:" + state
}

// HandleCalendarConnect starts the admin calendar OAuth flow.
func HandleCalendarConnect(c *fiber.Ctx) error {
	state := uuid.New().String()
	if err := cache.Set(oauthStateKey(state), "1", oauthStateTTL); err != nil {
		return respondError(c, err)
	}

	authURL, err := calendarClient.AuthorizeURLWithState(state)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", err.Error())
	}
	return c.JSON(fiber.Map{"authorize_url": authURL})
}

// HandleCalendarCallback finishes the calendar OAuth flow, storing tokens
// as the band-wide connection.
func HandleCalendarCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "missing state")
	}
	if _, err := cache.Get(oauthStateKey(state)); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "unknown or expired state")
	}
	if err := cache.Delete(oauthStateKey(state)); err != nil {
		log.Errorf("[Calendar] Clearing oauth state failed: %v", err)
	}

	code := c.Query("code")
	if code == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "missing code")
	}

	conn, err := calendarService.EstablishConnection(c.Context(), code, usercontext.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	// Register the push channel right away when a public webhook URL is
	// configured; local setups stay on manual pulls.
	if webhookURL := calendarWebhookURL(); webhookURL != "" {
		if _, err := calendarService.WatchCalendar(c.Context(), webhookURL); err != nil {
			log.Errorf("[Calendar] Registering push channel failed: %v", err)
		}
	}

	return c.JSON(fiber.Map{
		"message":     "google calendar connected",
		"calendar_id": conn.CalendarID,
	})
}

// HandleCalendarStatus reports whether a calendar is connected.
func HandleCalendarStatus(c *fiber.Ctx) error {
	conn, err := calendarConns.Get()
	if err != nil {
		return c.JSON(fiber.Map{"connected": false})
	}
	return c.JSON(fiber.Map{
		"connected":          true,
		"calendar_id":        conn.CalendarID,
		"connected_by":       conn.ConnectedBy,
		"channel_active":     conn.ChannelID != "",
		"channel_expires_at": conn.ChannelExpiresAt,
	})
}

// HandleCalendarDisconnect removes the calendar connection.
func HandleCalendarDisconnect(c *fiber.Ctx) error {
	if err := calendarService.Disconnect(c.Context()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "google calendar disconnected"})
}

// HandleCalendarSyncGig pushes one gig out to the calendar.
func HandleCalendarSyncGig(c *fiber.Ctx) error {
	gig, err := calendarService.SyncGigToCalendar(c.Context(), c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":                  "gig synced to calendar",
		"google_calendar_event_id": gig.GoogleCalendarEventID,
	})
}

// HandleCalendarPull runs a full bounded pull from the calendar.
func HandleCalendarPull(c *fiber.Ctx) error {
	result, err := calendarService.PullCalendarToGigs(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(batchResponse(result))
}

// HandleCalendarWatch (re)registers the webhook push channel.
func HandleCalendarWatch(c *fiber.Ctx) error {
	webhookURL := calendarWebhookURL()
	if webhookURL == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "PUBLIC_DOMAIN is not configured")
	}

	conn, err := calendarService.WatchCalendar(c.Context(), webhookURL)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":            "push channel registered",
		"channel_expires_at": conn.ChannelExpiresAt,
	})
}

func calendarWebhookURL() string {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	if base == "" || strings.HasPrefix(base, "http://localhost") {
		return ""
	}
	return base + "/webhooks/google-calendar"
}
