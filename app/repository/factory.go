package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetGigRepository returns the gig repository instance
func (f *Factory) GetGigRepository() GigRepository {
	return f.GetRepositories().Gig
}

// GetExpenseRepository returns the expense repository instance
func (f *Factory) GetExpenseRepository() ExpenseRepository {
	return f.GetRepositories().Expense
}

// GetPaymentRepository returns the payment repository instance
func (f *Factory) GetPaymentRepository() PaymentRepository {
	return f.GetRepositories().Payment
}

// GetPayoutRepository returns the payout repository instance
func (f *Factory) GetPayoutRepository() PayoutRepository {
	return f.GetRepositories().Payout
}

// GetAvailabilityRepository returns the availability repository instance
func (f *Factory) GetAvailabilityRepository() AvailabilityRepository {
	return f.GetRepositories().Availability
}

// GetSongRepository returns the song repository instance
func (f *Factory) GetSongRepository() SongRepository {
	return f.GetRepositories().Song
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
