package gcal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gigbookhq/gigbook/internal/pkg/apperr"
	"github.com/gigbookhq/gigbook/internal/pkg/env"
)

const (
	defaultGoogleAuthorizeURL = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultGoogleTokenURL     = "https://oauth2.googleapis.com/token"
	defaultCalendarAPIBaseURL = "https://www.googleapis.com/calendar/v3"
)

// calendarScopes is what the band calendar connection asks for.
var calendarScopes = []string{
	"https://www.googleapis.com/auth/calendar.events",
	"https://www.googleapis.com/auth/calendar.readonly",
}

// ErrSyncTokenExpired marks the provider's code-410 response to a stale
// incremental sync token; callers clear the cursor and fall back to a full
// bounded scan.
var ErrSyncTokenExpired = errors.New("sync token expired")

// Client talks to the Google OAuth and Calendar v3 REST endpoints.
type Client struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	AuthorizeURL string
	TokenURL     string
	APIBaseURL   string

	HTTPClient *http.Client
}

func NewClientFromEnv() *Client {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	redirectURI := strings.TrimSpace(env.GetEnv("GOOGLE_CALENDAR_REDIRECT_URI", ""))
	if redirectURI == "" && base != "" {
		redirectURI = base + "/admin/calendar/callback"
	}

	return &Client{
		ClientID:     strings.TrimSpace(env.GetEnv("GOOGLE_KEY", "")),
		ClientSecret: strings.TrimSpace(env.GetEnv("GOOGLE_SECRET", "")),
		RedirectURI:  redirectURI,
		AuthorizeURL: strings.TrimSpace(env.GetEnv("GOOGLE_AUTHORIZE_URL", defaultGoogleAuthorizeURL)),
		TokenURL:     strings.TrimSpace(env.GetEnv("GOOGLE_TOKEN_URL", defaultGoogleTokenURL)),
		APIBaseURL:   strings.TrimSpace(env.GetEnv("GOOGLE_CALENDAR_API_BASE_URL", defaultCalendarAPIBaseURL)),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// AuthorizeURLWithState builds the offline-access consent URL for the
// calendar connect flow.
func (c *Client) AuthorizeURLWithState(state string) (string, error) {
	if strings.TrimSpace(c.ClientID) == "" {
		return "", errors.New("GOOGLE_KEY is not configured")
	}
	if strings.TrimSpace(c.RedirectURI) == "" {
		return "", errors.New("GOOGLE_CALENDAR_REDIRECT_URI is not configured")
	}
	u, err := url.Parse(c.AuthorizeURL)
	if err != nil {
		return "", fmt.Errorf("invalid GOOGLE_AUTHORIZE_URL: %w", err)
	}
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", c.ClientID)
	q.Set("redirect_uri", c.RedirectURI)
	q.Set("scope", strings.Join(calendarScopes, " "))
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	q.Set("state", state)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ExchangeCode trades an authorization code for access and refresh tokens.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	if strings.TrimSpace(c.ClientID) == "" || strings.TrimSpace(c.ClientSecret) == "" {
		return nil, errors.New("GOOGLE_KEY/GOOGLE_SECRET are not configured")
	}
	if strings.TrimSpace(code) == "" {
		return nil, errors.New("oauth code is required")
	}

	form := url.Values{}
	form.Set("code", strings.TrimSpace(code))
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)
	form.Set("redirect_uri", c.RedirectURI)

	out, err := c.tokenRequest(ctx, form)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.RefreshToken) == "" {
		return nil, errors.New("token exchange returned no refresh_token; re-consent required")
	}
	return out, nil
}

// RefreshAccessToken trades a refresh token for a fresh access token. The
// refresh token itself is not rotated by this grant.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, errors.New("refresh token is required")
	}

	form := url.Values{}
	form.Set("refresh_token", strings.TrimSpace(refreshToken))
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)

	return c.tokenRequest(ctx, form)
}

func (c *Client) tokenRequest(ctx context.Context, form url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("google token request failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out TokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return nil, errors.New("google token request returned empty access_token")
	}
	return &out, nil
}

// InsertEvent creates a new event on the calendar.
func (c *Client) InsertEvent(ctx context.Context, accessToken, calendarID string, event *Event) (*Event, error) {
	path := fmt.Sprintf("/calendars/%s/events", url.PathEscape(calendarID))
	return c.eventRequest(ctx, http.MethodPost, path, accessToken, event)
}

// UpdateEvent fully replaces an existing event.
func (c *Client) UpdateEvent(ctx context.Context, accessToken, calendarID, eventID string, event *Event) (*Event, error) {
	path := fmt.Sprintf("/calendars/%s/events/%s", url.PathEscape(calendarID), url.PathEscape(eventID))
	return c.eventRequest(ctx, http.MethodPut, path, accessToken, event)
}

// ListOptions filters a list-events call. SyncToken and the time window are
// mutually exclusive; the provider rejects a request carrying both.
type ListOptions struct {
	TimeMin   time.Time
	TimeMax   time.Time
	SyncToken string
	PageToken string
}

// ListEvents fetches one page of events. A stale sync token surfaces as
// ErrSyncTokenExpired.
func (c *Client) ListEvents(ctx context.Context, accessToken, calendarID string, opts ListOptions) (*EventList, error) {
	u, err := url.Parse(strings.TrimRight(c.APIBaseURL, "/") + fmt.Sprintf("/calendars/%s/events", url.PathEscape(calendarID)))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	if opts.SyncToken != "" {
		q.Set("syncToken", opts.SyncToken)
	} else {
		if !opts.TimeMin.IsZero() {
			q.Set("timeMin", opts.TimeMin.Format(time.RFC3339))
		}
		if !opts.TimeMax.IsZero() {
			q.Set("timeMax", opts.TimeMax.Format(time.RFC3339))
		}
		q.Set("singleEvents", "true")
	}
	if opts.PageToken != "" {
		q.Set("pageToken", opts.PageToken)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusGone {
			return nil, ErrSyncTokenExpired
		}
		return nil, calendarError(resp.StatusCode, body)
	}

	var out EventList
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WatchEvents registers a webhook push channel for the calendar.
func (c *Client) WatchEvents(ctx context.Context, accessToken, calendarID string, channel *Channel) (*Channel, error) {
	path := fmt.Sprintf("/calendars/%s/events/watch", url.PathEscape(calendarID))
	payload, err := json.Marshal(channel)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.APIBaseURL, "/")+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, calendarError(resp.StatusCode, body)
	}

	var out Channel
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StopChannel tears down a webhook push channel. Best effort on disconnect.
func (c *Client) StopChannel(ctx context.Context, accessToken string, channel *Channel) error {
	payload, err := json.Marshal(channel)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.APIBaseURL, "/")+"/channels/stop", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return calendarError(resp.StatusCode, body)
	}
	return nil
}

func (c *Client) eventRequest(ctx context.Context, method, path, accessToken string, event *Event) (*Event, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.APIBaseURL, "/")+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, calendarError(resp.StatusCode, body)
	}

	var out Event
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID) == "" {
		return nil, errors.New("calendar response missing event id")
	}
	return &out, nil
}

func calendarError(status int, body []byte) error {
	var envelope apiError
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return fmt.Errorf("calendar API error: status=%d message=%s: %w", status, envelope.Error.Message, apperr.ErrSync)
	}
	return fmt.Errorf("calendar API error: status=%d body=%s: %w", status, string(body), apperr.ErrSync)
}
