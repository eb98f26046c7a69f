package repository

import (
	"github.com/gigbookhq/gigbook/app/models"
	"gorm.io/gorm"
)

// payoutRepository implements the read-side PayoutRepository interface.
// Writes go through the finance service so paid rows are never clobbered.
type payoutRepository struct {
	db *gorm.DB
}

// NewPayoutRepository creates a new payout repository instance
func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &payoutRepository{db: db}
}

// GetByUUID retrieves a payout by its public UUID
func (r *payoutRepository) GetByUUID(uuid string) (*models.Payout, error) {
	var payout models.Payout
	err := r.db.Preload("User").Where("uuid = ?", uuid).First(&payout).Error
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

// ListByGig retrieves all payouts generated for a gig
func (r *payoutRepository) ListByGig(gigID uint) ([]models.Payout, error) {
	var payouts []models.Payout
	err := r.db.Preload("User").Where("gig_id = ?", gigID).Order("user_id ASC").Find(&payouts).Error
	return payouts, err
}

// ListByUser retrieves all payouts owed to one member
func (r *payoutRepository) ListByUser(userID uint) ([]models.Payout, error) {
	var payouts []models.Payout
	err := r.db.Preload("Gig").Where("user_id = ?", userID).Order("created_at DESC").Find(&payouts).Error
	return payouts, err
}

// ListPending retrieves every unsettled payout across all gigs
func (r *payoutRepository) ListPending() ([]models.Payout, error) {
	var payouts []models.Payout
	err := r.db.Preload("User").Preload("Gig").
		Where("status = ?", models.PayoutStatusPending).
		Order("created_at ASC").Find(&payouts).Error
	return payouts, err
}
