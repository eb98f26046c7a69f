package gcal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/internal/pkg/apperr"
)

func TestAccessTokenReturnsStoredTokenWhileValid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no refresh expected for a valid token")
	}))
	defer server.Close()

	conns := &fakeConns{}
	mgr := NewTokenManager(testClient(server), conns)

	conn := &models.CalendarConnection{
		AccessToken:    "still-good",
		RefreshToken:   "refresh-1",
		TokenExpiresAt: time.Now().Add(time.Hour),
	}

	token, err := mgr.AccessToken(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, "still-good", token)
	assert.Zero(t, conns.saves)
}

func TestAccessTokenRefreshesAndPersists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.FormValue("grant_type"))
		assert.Equal(t, "refresh-1", r.FormValue("refresh_token"))
		json.NewEncoder(w).Encode(TokenResponse{AccessToken: "fresh", ExpiresIn: 3600})
	}))
	defer server.Close()

	conns := &fakeConns{}
	mgr := NewTokenManager(testClient(server), conns)

	conn := &models.CalendarConnection{
		AccessToken:    "expired",
		RefreshToken:   "refresh-1",
		TokenExpiresAt: time.Now().Add(-time.Minute),
	}

	token, err := mgr.AccessToken(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
	assert.Equal(t, "fresh", conn.AccessToken)
	// The refresh grant never rotates the refresh token.
	assert.Equal(t, "refresh-1", conn.RefreshToken)
	assert.True(t, conn.TokenExpiresAt.After(time.Now().Add(30*time.Minute)))
	assert.Equal(t, 1, conns.saves)
}

func TestAccessTokenRefreshesWithinSkewWindow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(TokenResponse{AccessToken: "fresh", ExpiresIn: 3600})
	}))
	defer server.Close()

	conns := &fakeConns{}
	mgr := NewTokenManager(testClient(server), conns)

	// Expires in 30s, inside the skew window, so it refreshes early.
	conn := &models.CalendarConnection{
		AccessToken:    "about-to-expire",
		RefreshToken:   "refresh-1",
		TokenExpiresAt: time.Now().Add(30 * time.Second),
	}

	token, err := mgr.AccessToken(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
}

func TestAccessTokenFailedRefreshIsAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	mgr := NewTokenManager(testClient(server), &fakeConns{})

	conn := &models.CalendarConnection{
		AccessToken:    "expired",
		RefreshToken:   "revoked",
		TokenExpiresAt: time.Now().Add(-time.Minute),
	}

	_, err := mgr.AccessToken(context.Background(), conn)
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestAccessTokenWithoutRefreshToken(t *testing.T) {
	mgr := NewTokenManager(&Client{}, &fakeConns{})

	conn := &models.CalendarConnection{
		AccessToken:    "expired",
		TokenExpiresAt: time.Now().Add(-time.Minute),
	}

	_, err := mgr.AccessToken(context.Background(), conn)
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestAccessTokenNilConnection(t *testing.T) {
	mgr := NewTokenManager(&Client{}, &fakeConns{})
	_, err := mgr.AccessToken(context.Background(), nil)
	assert.ErrorIs(t, err, apperr.ErrNotConnected)
}
