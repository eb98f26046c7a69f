package gcal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigbookhq/gigbook/internal/pkg/apperr"
)

func testClient(server *httptest.Server) *Client {
	return &Client{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "https://gigbook.test/admin/calendar/callback",
		AuthorizeURL: server.URL + "/auth",
		TokenURL:     server.URL + "/token",
		APIBaseURL:   server.URL + "/calendar/v3",
		HTTPClient:   server.Client(),
	}
}

func TestAuthorizeURLWithState(t *testing.T) {
	c := &Client{
		ClientID:     "client-id",
		RedirectURI:  "https://gigbook.test/admin/calendar/callback",
		AuthorizeURL: defaultGoogleAuthorizeURL,
	}

	raw, err := c.AuthorizeURLWithState("state-123")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Contains(t, q.Get("scope"), "calendar.events")
}

func TestExchangeCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.FormValue("grant_type"))
		assert.Equal(t, "the-code", r.FormValue("code"))

		json.NewEncoder(w).Encode(TokenResponse{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			ExpiresIn:    3599,
			TokenType:    "Bearer",
		})
	}))
	defer server.Close()

	tok, err := testClient(server).ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "access-1", tok.AccessToken)
	assert.Equal(t, "refresh-1", tok.RefreshToken)
}

func TestExchangeCodeRequiresRefreshToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(TokenResponse{AccessToken: "access-1", ExpiresIn: 3599})
	}))
	defer server.Close()

	_, err := testClient(server).ExchangeCode(context.Background(), "the-code")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh_token")
}

func TestListEventsSyncTokenExpired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "stale-token", r.URL.Query().Get("syncToken"))
		w.WriteHeader(http.StatusGone)
		w.Write([]byte(`{"error":{"code":410,"message":"Sync token is no longer valid.","errors":[{"reason":"fullSyncRequired"}]}}`))
	}))
	defer server.Close()

	_, err := testClient(server).ListEvents(context.Background(), "tok", "primary", ListOptions{SyncToken: "stale-token"})
	assert.ErrorIs(t, err, ErrSyncTokenExpired)
}

func TestListEventsWindowQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, q.Get("timeMin"))
		assert.NotEmpty(t, q.Get("timeMax"))
		assert.Equal(t, "true", q.Get("singleEvents"))
		assert.Empty(t, q.Get("syncToken"))

		json.NewEncoder(w).Encode(EventList{
			Items:         []Event{{ID: "evt-1", Summary: "Club night"}},
			NextSyncToken: "cursor-1",
		})
	}))
	defer server.Close()

	now := time.Now()
	list, err := testClient(server).ListEvents(context.Background(), "tok", "primary", ListOptions{
		TimeMin: now.Add(-24 * time.Hour),
		TimeMax: now.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "cursor-1", list.NextSyncToken)
}

func TestInsertAndUpdateEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			assert.Equal(t, "/calendar/v3/calendars/primary/events", r.URL.Path)
			json.NewEncoder(w).Encode(Event{ID: "evt-new"})
		case r.Method == http.MethodPut:
			assert.Equal(t, "/calendar/v3/calendars/primary/events/evt-new", r.URL.Path)
			json.NewEncoder(w).Encode(Event{ID: "evt-new"})
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	c := testClient(server)
	created, err := c.InsertEvent(context.Background(), "tok", "primary", &Event{Summary: "Club night"})
	require.NoError(t, err)
	assert.Equal(t, "evt-new", created.ID)

	_, err = c.UpdateEvent(context.Background(), "tok", "primary", "evt-new", &Event{Summary: "Club night"})
	require.NoError(t, err)
}

func TestCalendarErrorCarriesSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"Rate Limit Exceeded"}}`))
	}))
	defer server.Close()

	_, err := testClient(server).InsertEvent(context.Background(), "tok", "primary", &Event{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrSync)
	assert.Contains(t, err.Error(), "Rate Limit Exceeded")
}
