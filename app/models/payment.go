package models

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrNegativeAmount rejects negative currency values on expenses/payments.
var ErrNegativeAmount = errors.New("amount must not be negative")

// Payment is an amount received against a gig.
type Payment struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	GigID           uint            `gorm:"not null;index" json:"gig_id"`
	Gig             *Gig            `gorm:"foreignKey:GigID" json:"gig,omitempty"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentDate     time.Time       `gorm:"type:date;not null;index" json:"payment_date"`
	PaymentMode     string          `gorm:"type:varchar(100)" json:"payment_mode" validate:"max=100"`
	ReferenceNumber string          `gorm:"type:varchar(100)" json:"reference_number" validate:"max=100"`
	TDSDeducted     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"tds_deducted"`
	Notes           string          `gorm:"type:text" json:"notes"`
	RecordedBy      uint            `gorm:"index" json:"recorded_by"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (p *Payment) Validate() error {
	v := validator.New()

	if err := v.Struct(p); err != nil {
		return err
	}
	if p.Amount.IsNegative() || p.TDSDeducted.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}
