package repository

import (
	"time"

	"github.com/gigbookhq/gigbook/app/models"
	"gorm.io/gorm"
)

// gigRepository implements the GigRepository interface
type gigRepository struct {
	db *gorm.DB
}

// NewGigRepository creates a new gig repository instance
func NewGigRepository(db *gorm.DB) GigRepository {
	return &gigRepository{db: db}
}

// Create creates a new gig in the database
func (r *gigRepository) Create(gig *models.Gig) error {
	return r.db.Create(gig).Error
}

// GetByID retrieves a gig by its ID
func (r *gigRepository) GetByID(id uint) (*models.Gig, error) {
	var gig models.Gig
	err := r.db.First(&gig, id).Error
	if err != nil {
		return nil, err
	}
	return &gig, nil
}

// GetByUUID retrieves a gig by its public UUID
func (r *gigRepository) GetByUUID(uuid string) (*models.Gig, error) {
	var gig models.Gig
	err := r.db.Where("uuid = ?", uuid).First(&gig).Error
	if err != nil {
		return nil, err
	}
	return &gig, nil
}

// GetByCalendarEventID retrieves the gig linked to a calendar event
func (r *gigRepository) GetByCalendarEventID(eventID string) (*models.Gig, error) {
	var gig models.Gig
	err := r.db.Where("google_calendar_event_id = ?", eventID).First(&gig).Error
	if err != nil {
		return nil, err
	}
	return &gig, nil
}

// Update updates an existing gig in the database
func (r *gigRepository) Update(gig *models.Gig) error {
	return r.db.Save(gig).Error
}

// Delete soft deletes a gig by its ID
func (r *gigRepository) Delete(id uint) error {
	return r.db.Delete(&models.Gig{}, id).Error
}

// List retrieves a paginated list of gigs, newest date first
func (r *gigRepository) List(offset, limit int) ([]models.Gig, error) {
	var gigs []models.Gig
	err := r.db.Offset(offset).Limit(limit).Order("date DESC").Find(&gigs).Error
	return gigs, err
}

// ListByStatus retrieves gigs filtered by status
func (r *gigRepository) ListByStatus(status string, offset, limit int) ([]models.Gig, error) {
	var gigs []models.Gig
	err := r.db.Where("status = ?", status).Offset(offset).Limit(limit).Order("date DESC").Find(&gigs).Error
	return gigs, err
}

// ListBetween retrieves gigs with a date inside [from, to]
func (r *gigRepository) ListBetween(from, to time.Time) ([]models.Gig, error) {
	var gigs []models.Gig
	err := r.db.Where("date BETWEEN ? AND ?", from, to).Order("date ASC").Find(&gigs).Error
	return gigs, err
}

// ListUpcoming retrieves future non-cancelled gigs ordered soonest first
func (r *gigRepository) ListUpcoming(limit int) ([]models.Gig, error) {
	var gigs []models.Gig
	err := r.db.
		Where("date >= ? AND status <> ?", time.Now().Format("2006-01-02"), models.GigStatusCancelled).
		Order("date ASC").Limit(limit).Find(&gigs).Error
	return gigs, err
}

// Count returns the total number of gigs
func (r *gigRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Gig{}).Count(&count).Error
	return count, err
}

// CountByStatus returns the number of gigs with the given status
func (r *gigRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Gig{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
