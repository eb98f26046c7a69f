package models

import (
	"time"
)

const (
	AvailabilityYes     = "yes"
	AvailabilityNo      = "no"
	AvailabilityMaybe   = "maybe"
	AvailabilityPending = "pending"
)

// Availability is one member's response for one gig, upserted by the
// responding member only. Members answering "yes" form the payout set.
type Availability struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GigID     uint      `gorm:"not null;index:ux_availability_gig_user,unique,priority:1" json:"gig_id"`
	UserID    uint      `gorm:"not null;index:ux_availability_gig_user,unique,priority:2" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status    string    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ValidAvailabilityStatus reports whether s is a known response value.
func ValidAvailabilityStatus(s string) bool {
	switch s {
	case AvailabilityYes, AvailabilityNo, AvailabilityMaybe, AvailabilityPending:
		return true
	}
	return false
}
