package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense is a cost item, optionally attributed to a single gig.
type Expense struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	GigID       *uint            `gorm:"index;default:null" json:"gig_id"`
	Gig         *Gig             `gorm:"foreignKey:GigID" json:"gig,omitempty"`
	Description string           `gorm:"type:varchar(255);not null" json:"description" validate:"required,max=255"`
	Amount      decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"amount"`
	Category    string           `gorm:"type:varchar(100);not null;index" json:"category" validate:"required,max=100"`
	Date        time.Time        `gorm:"type:date;not null;index" json:"date"`
	PaidBy      *uint            `gorm:"index;default:null" json:"paid_by"`
	ReceiptURL  string           `gorm:"type:varchar(500)" json:"receipt_url" validate:"omitempty,max=500"`
	CreatedBy   uint             `gorm:"index" json:"created_by"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (e *Expense) Validate() error {
	v := validator.New()

	if err := v.Struct(e); err != nil {
		return err
	}
	if e.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}
