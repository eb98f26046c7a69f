package repository

import (
	"github.com/gigbookhq/gigbook/app/models"
	"gorm.io/gorm"
)

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment in the database
func (r *paymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// GetByID retrieves a payment by its ID
func (r *paymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Update updates an existing payment in the database
func (r *paymentRepository) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

// Delete soft deletes a payment by its ID
func (r *paymentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Payment{}, id).Error
}

// List retrieves a paginated list of payments, newest first
func (r *paymentRepository) List(offset, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Offset(offset).Limit(limit).Order("payment_date DESC").Find(&payments).Error
	return payments, err
}

// ListByGig retrieves all payments received against a gig
func (r *paymentRepository) ListByGig(gigID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("gig_id = ?", gigID).Order("payment_date DESC").Find(&payments).Error
	return payments, err
}
