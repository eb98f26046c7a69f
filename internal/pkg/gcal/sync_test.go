package gcal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/internal/pkg/apperr"
)

type syncFixture struct {
	service *Service
	conns   *fakeConns
	gigs    *fakeGigs
	server  *httptest.Server
}

func newSyncFixture(t *testing.T, handler http.HandlerFunc) *syncFixture {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	conns := &fakeConns{conn: &models.CalendarConnection{
		ID:             1,
		CalendarID:     "primary",
		AccessToken:    "tok",
		TokenExpiresAt: time.Now().Add(time.Hour),
	}}
	gigs := &fakeGigs{}

	service := NewService(testClient(server), &staticTokens{token: "tok"}, conns, gigs)
	return &syncFixture{service: service, conns: conns, gigs: gigs, server: server}
}

func eventID(s string) *string { return &s }

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestSyncGigToCalendarCreatesAndLinks(t *testing.T) {
	var received Event
	fx := newSyncFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(Event{ID: "evt-77"})
	})

	fx.gigs.Create(&models.Gig{
		UUID:            "gig-uuid-1",
		Title:           "College fest",
		Venue:           "IISc Open Air",
		City:            "Bengaluru",
		Date:            time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Status:          models.GigStatusConfirmed,
		ConfirmedAmount: decimalPtr(120000),
	})

	gig, err := fx.service.SyncGigToCalendar(context.Background(), "gig-uuid-1")
	require.NoError(t, err)
	require.NotNil(t, gig.GoogleCalendarEventID)
	assert.Equal(t, "evt-77", *gig.GoogleCalendarEventID)

	assert.Equal(t, "College fest", received.Summary)
	assert.Equal(t, "IISc Open Air, Bengaluru", received.Location)
	assert.Equal(t, "10", received.ColorID)
	assert.Contains(t, received.Description, "Amount: 120000.00")
	assert.Contains(t, received.Description, "Status: Confirmed")
	assert.Equal(t, "2026-09-12T09:00:00", received.Start.DateTime)
	assert.Equal(t, "2026-09-12T23:00:00", received.End.DateTime)
}

func TestSyncGigToCalendarUpdatesLinkedEvent(t *testing.T) {
	fx := newSyncFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/calendar/v3/calendars/primary/events/evt-5", r.URL.Path)
		json.NewEncoder(w).Encode(Event{ID: "evt-5"})
	})

	fx.gigs.Create(&models.Gig{
		UUID:                  "gig-uuid-2",
		Title:                 "Wedding reception",
		Venue:                 "Leela Palace",
		City:                  "Bengaluru",
		Date:                  time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC),
		Status:                models.GigStatusLead,
		GoogleCalendarEventID: eventID("evt-5"),
	})

	_, err := fx.service.SyncGigToCalendar(context.Background(), "gig-uuid-2")
	require.NoError(t, err)
}

func TestSyncGigToCalendarRequiresConnection(t *testing.T) {
	fx := newSyncFixture(t, func(w http.ResponseWriter, r *http.Request) {})
	fx.conns.conn = nil

	_, err := fx.service.SyncGigToCalendar(context.Background(), "whatever")
	assert.ErrorIs(t, err, apperr.ErrNotConnected)
}

func TestPullCreatesGigFromUnlinkedEvent(t *testing.T) {
	fx := newSyncFixture(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(EventList{
			Items: []Event{{
				ID:       "evt-new",
				Summary:  "Pub gig",
				Location: "Toit, Bengaluru",
				Description: "Organizer: Anjali\nPhone: 9000000000\nAmount: ₹45,000\n" +
					"\nStatus: Quoted",
				Start: &EventDateTime{DateTime: "2026-09-20T20:00:00+05:30"},
				End:   &EventDateTime{DateTime: "2026-09-20T23:30:00+05:30"},
			}},
			NextSyncToken: "cursor-9",
		})
	})

	result, err := fx.service.PullCalendarToGigs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.False(t, result.HasFailures())

	gig, err := fx.gigs.GetByCalendarEventID("evt-new")
	require.NoError(t, err)
	assert.Equal(t, "Pub gig", gig.Title)
	assert.Equal(t, "Toit", gig.Venue)
	assert.Equal(t, "Bengaluru", gig.City)
	assert.Equal(t, models.GigStatusQuoted, gig.Status)
	assert.Equal(t, "20:00:00", gig.StartTime)
	require.NotNil(t, gig.QuotedAmount)
	assert.True(t, decimal.NewFromInt(45000).Equal(*gig.QuotedAmount))

	// Cursor is re-armed for incremental webhooks.
	assert.Equal(t, "cursor-9", fx.conns.conn.SyncToken)
}

func TestPullSkipsEventsWithoutSummaryOrStart(t *testing.T) {
	fx := newSyncFixture(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(EventList{Items: []Event{
			{ID: "evt-a", Start: &EventDateTime{Date: "2026-09-20"}},
			{ID: "evt-b", Summary: "No start"},
		}})
	})

	result, err := fx.service.PullCalendarToGigs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Skipped)
	assert.Empty(t, fx.gigs.gigs)
}

func TestPullEchoBufferSkipsOwnWrite(t *testing.T) {
	updatedAt := time.Now()
	fx := newSyncFixture(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(EventList{Items: []Event{{
			ID:      "evt-echo",
			Summary: "Renamed on calendar",
			Updated: updatedAt.Add(3 * time.Second).Format(time.RFC3339),
			Start:   &EventDateTime{DateTime: "2026-09-20T20:00:00+05:30"},
			End:     &EventDateTime{DateTime: "2026-09-20T23:00:00+05:30"},
		}}})
	})

	fx.gigs.Create(&models.Gig{
		Title:                 "Original title",
		Date:                  time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
		Status:                models.GigStatusConfirmed,
		GoogleCalendarEventID: eventID("evt-echo"),
		UpdatedAt:             updatedAt,
	})

	result, err := fx.service.PullCalendarToGigs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)

	gig, _ := fx.gigs.GetByCalendarEventID("evt-echo")
	assert.Equal(t, "Original title", gig.Title)
}

func TestPullAppliesRealEdit(t *testing.T) {
	updatedAt := time.Now().Add(-time.Hour)
	fx := newSyncFixture(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(EventList{Items: []Event{{
			ID:          "evt-edit",
			Summary:     "Renamed on calendar",
			Location:    "Fandom, Bengaluru",
			Description: "Amount: 60000\n\nStatus: Confirmed",
			Updated:     time.Now().Format(time.RFC3339),
			Start:       &EventDateTime{DateTime: "2026-09-21T19:00:00+05:30"},
			End:         &EventDateTime{DateTime: "2026-09-21T22:00:00+05:30"},
		}}})
	})

	fx.gigs.Create(&models.Gig{
		Title:                 "Original title",
		Date:                  time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
		Status:                models.GigStatusQuoted,
		GoogleCalendarEventID: eventID("evt-edit"),
		UpdatedAt:             updatedAt,
	})

	result, err := fx.service.PullCalendarToGigs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	gig, _ := fx.gigs.GetByCalendarEventID("evt-edit")
	assert.Equal(t, "Renamed on calendar", gig.Title)
	assert.Equal(t, models.GigStatusConfirmed, gig.Status)
	assert.Equal(t, "2026-09-21", gig.Date.Format("2006-01-02"))
	// Amount lands on the confirmed side once the status says confirmed.
	require.NotNil(t, gig.ConfirmedAmount)
	assert.True(t, decimal.NewFromInt(60000).Equal(*gig.ConfirmedAmount))
}

func TestPullCancelledEventSoftCancelsGig(t *testing.T) {
	fx := newSyncFixture(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(EventList{Items: []Event{{ID: "evt-gone", Status: "cancelled"}}})
	})

	fx.gigs.Create(&models.Gig{
		Title:                 "Cancelled show",
		Status:                models.GigStatusConfirmed,
		GoogleCalendarEventID: eventID("evt-gone"),
	})

	result, err := fx.service.PullCalendarToGigs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	gig, _ := fx.gigs.GetByCalendarEventID("evt-gone")
	assert.Equal(t, models.GigStatusCancelled, gig.Status)
	// The row survives; sync never hard-deletes.
	assert.Len(t, fx.gigs.gigs, 1)
}

func TestPullToleratesPerEventFailures(t *testing.T) {
	fx := newSyncFixture(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(EventList{Items: []Event{
			{
				ID:      "evt-bad-date",
				Summary: "Broken",
				Start:   &EventDateTime{DateTime: "not-a-date"},
			},
			{
				ID:      "evt-good",
				Summary: "Fine",
				Start:   &EventDateTime{DateTime: "2026-09-25T20:00:00+05:30"},
				End:     &EventDateTime{DateTime: "2026-09-25T23:00:00+05:30"},
			},
		}})
	})

	result, err := fx.service.PullCalendarToGigs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	require.True(t, result.HasFailures())
	assert.Equal(t, "evt-bad-date", result.Failed[0].ID)
	assert.ErrorIs(t, result.Failed[0].Err, apperr.ErrValidation)
}

func TestWebhookIncrementalThenStaleCursor(t *testing.T) {
	calls := 0
	fx := newSyncFixture(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("syncToken") == "stale" {
			w.WriteHeader(http.StatusGone)
			w.Write([]byte(`{"error":{"code":410,"message":"Sync token is no longer valid."}}`))
			return
		}
		// Full-scan fallback.
		assert.NotEmpty(t, r.URL.Query().Get("timeMin"))
		json.NewEncoder(w).Encode(EventList{NextSyncToken: "fresh"})
	})
	fx.conns.conn.SyncToken = "stale"

	result, err := fx.service.ProcessWebhook(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, "fresh", fx.conns.conn.SyncToken)
}

func TestWebhookUsesStoredCursor(t *testing.T) {
	fx := newSyncFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cursor-1", r.URL.Query().Get("syncToken"))
		json.NewEncoder(w).Encode(EventList{NextSyncToken: "cursor-2"})
	})
	fx.conns.conn.SyncToken = "cursor-1"

	_, err := fx.service.ProcessWebhook(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cursor-2", fx.conns.conn.SyncToken)
}

func TestPullPaginates(t *testing.T) {
	page := 0
	fx := newSyncFixture(t, func(w http.ResponseWriter, r *http.Request) {
		page++
		if page == 1 {
			assert.Empty(t, r.URL.Query().Get("pageToken"))
			json.NewEncoder(w).Encode(EventList{
				Items: []Event{{
					ID:      "evt-p1",
					Summary: "First page gig",
					Start:   &EventDateTime{DateTime: "2026-09-10T20:00:00+05:30"},
					End:     &EventDateTime{DateTime: "2026-09-10T23:00:00+05:30"},
				}},
				NextPageToken: "page-2",
			})
			return
		}
		assert.Equal(t, "page-2", r.URL.Query().Get("pageToken"))
		json.NewEncoder(w).Encode(EventList{
			Items: []Event{{
				ID:      "evt-p2",
				Summary: "Second page gig",
				Start:   &EventDateTime{DateTime: "2026-09-11T20:00:00+05:30"},
				End:     &EventDateTime{DateTime: "2026-09-11T23:00:00+05:30"},
			}},
			NextSyncToken: "final-cursor",
		})
	})

	result, err := fx.service.PullCalendarToGigs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, "final-cursor", fx.conns.conn.SyncToken)
}
