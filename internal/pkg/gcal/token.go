package gcal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/internal/pkg/apperr"
)

// TokenSource hands out a usable access token for a calendar connection,
// refreshing behind the scenes when the stored one has expired.
type TokenSource interface {
	AccessToken(ctx context.Context, conn *models.CalendarConnection) (string, error)
}

// tokenExpirySkew refreshes slightly early so a token never expires
// mid-request.
const tokenExpirySkew = 2 * time.Minute

// TokenManager refreshes expired access tokens and persists the result on
// the connection row. The refresh token is never rotated by the refresh
// grant, so it is left untouched.
type TokenManager struct {
	client *Client
	conns  ConnectionRepository
	now    func() time.Time
}

func NewTokenManager(client *Client, conns ConnectionRepository) *TokenManager {
	return &TokenManager{
		client: client,
		conns:  conns,
		now:    time.Now,
	}
}

func (m *TokenManager) AccessToken(ctx context.Context, conn *models.CalendarConnection) (string, error) {
	if conn == nil {
		return "", apperr.ErrNotConnected
	}
	if !conn.TokenExpired(m.now().Add(tokenExpirySkew)) {
		return conn.AccessToken, nil
	}

	if conn.RefreshToken == "" {
		return "", fmt.Errorf("connection %d has no refresh token: %w", conn.ID, apperr.ErrAuth)
	}

	tok, err := m.client.RefreshAccessToken(ctx, conn.RefreshToken)
	if err != nil {
		return "", errors.Join(apperr.ErrAuth, err)
	}

	conn.AccessToken = tok.AccessToken
	conn.TokenExpiresAt = m.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	if err := m.conns.Save(conn); err != nil {
		return "", err
	}
	return conn.AccessToken, nil
}
