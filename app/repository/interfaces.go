package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/gigbookhq/gigbook/app/models"
)

// UserRepository defines the interface for band member database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	ListActive() ([]models.User, error)
	Count() (int64, error)
}

// GigRepository defines the interface for gig-related database operations
type GigRepository interface {
	Create(gig *models.Gig) error
	GetByID(id uint) (*models.Gig, error)
	GetByUUID(uuid string) (*models.Gig, error)
	GetByCalendarEventID(eventID string) (*models.Gig, error)
	Update(gig *models.Gig) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Gig, error)
	ListByStatus(status string, offset, limit int) ([]models.Gig, error)
	ListBetween(from, to time.Time) ([]models.Gig, error)
	ListUpcoming(limit int) ([]models.Gig, error)
	Count() (int64, error)
	CountByStatus(status string) (int64, error)
}

// ExpenseRepository defines the interface for expense-related operations
type ExpenseRepository interface {
	Create(expense *models.Expense) error
	GetByID(id uint) (*models.Expense, error)
	Update(expense *models.Expense) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Expense, error)
	ListByGig(gigID uint) ([]models.Expense, error)
	ListByCategory(category string) ([]models.Expense, error)
}

// PaymentRepository defines the interface for payment-related operations
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id uint) (*models.Payment, error)
	Update(payment *models.Payment) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Payment, error)
	ListByGig(gigID uint) ([]models.Payment, error)
}

// PayoutRepository defines the read-side interface for payouts. Payout
// generation and status changes go through the finance service instead.
type PayoutRepository interface {
	GetByUUID(uuid string) (*models.Payout, error)
	ListByGig(gigID uint) ([]models.Payout, error)
	ListByUser(userID uint) ([]models.Payout, error)
	ListPending() ([]models.Payout, error)
}

// AvailabilityRepository defines the interface for availability responses
type AvailabilityRepository interface {
	Upsert(availability *models.Availability) error
	GetByGigAndUser(gigID, userID uint) (*models.Availability, error)
	ListByGig(gigID uint) ([]models.Availability, error)
	ListByUser(userID uint) ([]models.Availability, error)
	Delete(gigID, userID uint) error
}

// SongRepository defines the interface for the song catalog and setlists
type SongRepository interface {
	Create(song *models.Song) error
	GetByID(id uint) (*models.Song, error)
	Update(song *models.Song) error
	Delete(id uint) error
	List() ([]models.Song, error)
	Search(query string) ([]models.Song, error)

	SetSetlist(gigID uint, songIDs []uint) error
	GetSetlist(gigID uint) ([]models.SetlistEntry, error)
	ClearSetlist(gigID uint) error
}

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Gig          GigRepository
	Expense      ExpenseRepository
	Payment      PaymentRepository
	Payout       PayoutRepository
	Availability AvailabilityRepository
	Song         SongRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Gig:          NewGigRepository(db),
		Expense:      NewExpenseRepository(db),
		Payment:      NewPaymentRepository(db),
		Payout:       NewPayoutRepository(db),
		Availability: NewAvailabilityRepository(db),
		Song:         NewSongRepository(db),
	}
}
