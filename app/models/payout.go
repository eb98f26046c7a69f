package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PayoutStatusPending = "pending"
	PayoutStatusPaid    = "paid"
)

// Payout is the band's computed obligation to one member for one gig.
// At most one row exists per (gig, member); regeneration updates the amount
// but never touches status or paid_date of an already paid row.
type Payout struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UUID      string          `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	GigID     uint            `gorm:"not null;index:ux_payouts_gig_user,unique,priority:1" json:"gig_id"`
	Gig       *Gig            `gorm:"foreignKey:GigID" json:"gig,omitempty"`
	UserID    uint            `gorm:"not null;index:ux_payouts_gig_user,unique,priority:2" json:"user_id"`
	User      *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status    string          `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaidDate  *time.Time      `gorm:"type:date;default:null" json:"paid_date"`
	Notes     string          `gorm:"type:text" json:"notes"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns a public UUID if none was set.
func (p *Payout) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.New().String()
	}
	return nil
}

// IsPaid reports whether the payout has been settled.
func (p *Payout) IsPaid() bool {
	return p.Status == PayoutStatusPaid
}

// ValidPayoutStatus reports whether s is a known payout status.
func ValidPayoutStatus(s string) bool {
	return s == PayoutStatusPending || s == PayoutStatusPaid
}
