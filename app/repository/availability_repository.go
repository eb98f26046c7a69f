package repository

import (
	"github.com/gigbookhq/gigbook/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// availabilityRepository implements the AvailabilityRepository interface
type availabilityRepository struct {
	db *gorm.DB
}

// NewAvailabilityRepository creates a new availability repository instance
func NewAvailabilityRepository(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

// Upsert creates or replaces one member's response for one gig
func (r *availabilityRepository) Upsert(availability *models.Availability) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "gig_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "notes", "updated_at"}),
	}).Create(availability).Error
}

// GetByGigAndUser retrieves one member's response for one gig
func (r *availabilityRepository) GetByGigAndUser(gigID, userID uint) (*models.Availability, error) {
	var availability models.Availability
	err := r.db.Where("gig_id = ? AND user_id = ?", gigID, userID).First(&availability).Error
	if err != nil {
		return nil, err
	}
	return &availability, nil
}

// ListByGig retrieves all responses for a gig
func (r *availabilityRepository) ListByGig(gigID uint) ([]models.Availability, error) {
	var responses []models.Availability
	err := r.db.Preload("User").Where("gig_id = ?", gigID).Order("user_id ASC").Find(&responses).Error
	return responses, err
}

// ListByUser retrieves one member's responses across all gigs
func (r *availabilityRepository) ListByUser(userID uint) ([]models.Availability, error) {
	var responses []models.Availability
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&responses).Error
	return responses, err
}

// Delete removes one member's response for one gig
func (r *availabilityRepository) Delete(gigID, userID uint) error {
	return r.db.Where("gig_id = ? AND user_id = ?", gigID, userID).Delete(&models.Availability{}).Error
}
