package models

import "time"

// CalendarConnection is the single band-wide Google Calendar credential.
// It is created by the OAuth callback, rotated on token refresh and removed
// entirely on disconnect. The refresh token itself is never rotated here.
type CalendarConnection struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	CalendarID       string     `gorm:"type:varchar(200);not null;default:'primary'" json:"calendar_id"`
	AccessToken      string     `gorm:"type:text" json:"-"`
	RefreshToken     string     `gorm:"type:text" json:"-"`
	TokenExpiresAt   time.Time  `gorm:"type:timestamp;not null" json:"token_expires_at"`
	SyncToken        string     `gorm:"type:varchar(500)" json:"-"`
	ChannelID        string     `gorm:"type:varchar(100)" json:"-"`
	ResourceID       string     `gorm:"type:varchar(100)" json:"-"`
	ChannelExpiresAt *time.Time `gorm:"type:timestamp;default:null" json:"-"`
	ConnectedBy      uint       `gorm:"index" json:"connected_by"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TokenExpired reports whether the access token needs a refresh before use.
func (c *CalendarConnection) TokenExpired(now time.Time) bool {
	return !c.TokenExpiresAt.After(now)
}
