package gcal

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/internal/pkg/apperr"
	"github.com/gigbookhq/gigbook/internal/pkg/env"
	"github.com/gigbookhq/gigbook/internal/pkg/security"
)

// Google expires events watch channels after about a month; the channel
// token must outlive the channel.
const channelTokenTTL = 35 * 24 * time.Hour

// EstablishConnection finishes the OAuth callback: it exchanges the code
// and stores the resulting tokens as the band-wide connection. An existing
// connection is replaced in place so its sync cursor and channel survive a
// re-consent.
func (s *Service) EstablishConnection(ctx context.Context, code string, connectedBy uint) (*models.CalendarConnection, error) {
	tok, err := s.client.ExchangeCode(ctx, code)
	if err != nil {
		return nil, errors.Join(apperr.ErrAuth, err)
	}

	conn, err := s.conns.Get()
	if errors.Is(err, apperr.ErrNotConnected) {
		conn = &models.CalendarConnection{CalendarID: "primary"}
	} else if err != nil {
		return nil, err
	}

	conn.AccessToken = tok.AccessToken
	conn.RefreshToken = tok.RefreshToken
	conn.TokenExpiresAt = s.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	conn.ConnectedBy = connectedBy

	if err := s.conns.Save(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// WatchCalendar registers a push channel pointed at webhookURL and records
// it on the connection. Any previous channel is stopped first.
func (s *Service) WatchCalendar(ctx context.Context, webhookURL string) (*models.CalendarConnection, error) {
	conn, err := s.conns.Get()
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.AccessToken(ctx, conn)
	if err != nil {
		return nil, err
	}

	if conn.ChannelID != "" {
		s.stopChannel(ctx, token, conn)
	}

	channel := &Channel{
		ID:      uuid.New().String(),
		Type:    "web_hook",
		Address: webhookURL,
	}
	if secret := env.GetEnv("CALENDAR_WEBHOOK_SECRET", ""); secret != "" {
		channelToken, err := security.GenerateChannelToken(channel.ID, channelTokenTTL, secret)
		if err != nil {
			return nil, errors.Join(apperr.ErrSync, err)
		}
		channel.Token = channelToken
	}

	registered, err := s.client.WatchEvents(ctx, token, conn.CalendarID, channel)
	if err != nil {
		return nil, err
	}

	conn.ChannelID = registered.ID
	conn.ResourceID = registered.ResourceID
	if registered.Expiration > 0 {
		expires := time.UnixMilli(registered.Expiration)
		conn.ChannelExpiresAt = &expires
	} else {
		conn.ChannelExpiresAt = nil
	}

	if err := s.conns.Save(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Disconnect stops the push channel and removes the stored connection.
// Channel teardown is best effort; a dead channel on the provider side must
// not keep the tokens around.
func (s *Service) Disconnect(ctx context.Context) error {
	conn, err := s.conns.Get()
	if err != nil {
		return err
	}

	if conn.ChannelID != "" {
		if token, tokenErr := s.tokens.AccessToken(ctx, conn); tokenErr == nil {
			s.stopChannel(ctx, token, conn)
		}
	}

	return s.conns.Delete(conn)
}

func (s *Service) stopChannel(ctx context.Context, token string, conn *models.CalendarConnection) {
	err := s.client.StopChannel(ctx, token, &Channel{
		ID:         conn.ChannelID,
		ResourceID: conn.ResourceID,
	})
	if err != nil {
		log.Printf("stopping calendar channel %s failed: %v", conn.ChannelID, err)
	}
}
