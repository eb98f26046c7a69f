package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Gig lifecycle statuses. Cancelled is reachable from any state; the
// calendar sync never hard-deletes a gig, it only sets cancelled.
const (
	GigStatusLead      = "lead"
	GigStatusQuoted    = "quoted"
	GigStatusConfirmed = "confirmed"
	GigStatusCompleted = "completed"
	GigStatusPaid      = "paid"
	GigStatusCancelled = "cancelled"
)

// DefaultTDSPercent applies when a gig has no stored TDS percentage.
var DefaultTDSPercent = decimal.NewFromInt(10)

// Gig is a booking. At most one gig may reference a given Google Calendar
// event id; the link is set once and never re-pointed.
type Gig struct {
	ID                    uint             `gorm:"primaryKey" json:"id"`
	UUID                  string           `gorm:"type:varchar(36);uniqueIndex" json:"uuid"`
	Title                 string           `gorm:"type:varchar(200);not null" json:"title" validate:"required,min=1,max=200"`
	Venue                 string           `gorm:"type:varchar(200);not null" json:"venue" validate:"required,max=200"`
	City                  string           `gorm:"type:varchar(100);not null" json:"city" validate:"required,max=100"`
	Address               string           `gorm:"type:text" json:"address"`
	Date                  time.Time        `gorm:"type:date;not null;index" json:"date"`
	StartTime             string           `gorm:"type:varchar(8);default:null" json:"start_time" validate:"omitempty,len=8"`
	EndTime               string           `gorm:"type:varchar(8);default:null" json:"end_time" validate:"omitempty,len=8"`
	OrganizerName         string           `gorm:"type:varchar(150)" json:"organizer_name" validate:"max=150"`
	OrganizerPhone        string           `gorm:"type:varchar(20)" json:"organizer_phone" validate:"max=20"`
	OrganizerEmail        string           `gorm:"type:varchar(200)" json:"organizer_email" validate:"omitempty,email"`
	Status                string           `gorm:"type:varchar(20);default:'lead';index" json:"status" validate:"oneof=lead quoted confirmed completed paid cancelled"`
	QuotedAmount          *decimal.Decimal `gorm:"type:decimal(12,2);default:null" json:"quoted_amount"`
	ConfirmedAmount       *decimal.Decimal `gorm:"type:decimal(12,2);default:null" json:"confirmed_amount"`
	TDSPercentage         *decimal.Decimal `gorm:"type:decimal(5,2);default:null" json:"tds_percentage"`
	Notes                 string           `gorm:"type:text" json:"notes"`
	GoogleCalendarEventID *string          `gorm:"type:varchar(191);uniqueIndex;default:null" json:"google_calendar_event_id"`
	CreatedBy             uint             `gorm:"index" json:"created_by"`
	CreatedAt             time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt             gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (g *Gig) Validate() error {
	v := validator.New()

	return v.Struct(g)
}

// BeforeCreate assigns a public UUID if none was set.
func (g *Gig) BeforeCreate(tx *gorm.DB) error {
	if g.UUID == "" {
		g.UUID = uuid.New().String()
	}
	return nil
}

// GrossAmount returns the amount financial calculations run on: the
// confirmed amount when set, otherwise the quoted amount, otherwise zero.
func (g *Gig) GrossAmount() decimal.Decimal {
	if g.ConfirmedAmount != nil && !g.ConfirmedAmount.IsZero() {
		return *g.ConfirmedAmount
	}
	if g.QuotedAmount != nil {
		return *g.QuotedAmount
	}
	return decimal.Zero
}

// TDSPercent returns the stored TDS percentage or the default of 10.
func (g *Gig) TDSPercent() decimal.Decimal {
	if g.TDSPercentage != nil {
		return *g.TDSPercentage
	}
	return DefaultTDSPercent
}

// IsCancelled reports whether the gig has been cancelled.
func (g *Gig) IsCancelled() bool {
	return g.Status == GigStatusCancelled
}

// CountsAsIncome reports whether the gig qualifies for ledger rollups.
func (g *Gig) CountsAsIncome() bool {
	switch g.Status {
	case GigStatusConfirmed, GigStatusCompleted, GigStatusPaid:
		return true
	}
	return false
}

// CalendarColorID maps the gig status to the Google Calendar event color
// used by the outbound sync.
func (g *Gig) CalendarColorID() string {
	switch g.Status {
	case GigStatusConfirmed:
		return "10"
	case GigStatusLead:
		return "5"
	default:
		return "8"
	}
}

// ValidGigStatus reports whether s is one of the known lifecycle statuses.
func ValidGigStatus(s string) bool {
	switch s {
	case GigStatusLead, GigStatusQuoted, GigStatusConfirmed,
		GigStatusCompleted, GigStatusPaid, GigStatusCancelled:
		return true
	}
	return false
}
