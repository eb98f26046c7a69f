package repository

import (
	"github.com/gigbookhq/gigbook/app/models"
	"gorm.io/gorm"
)

// expenseRepository implements the ExpenseRepository interface
type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository instance
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

// Create creates a new expense in the database
func (r *expenseRepository) Create(expense *models.Expense) error {
	return r.db.Create(expense).Error
}

// GetByID retrieves an expense by its ID
func (r *expenseRepository) GetByID(id uint) (*models.Expense, error) {
	var expense models.Expense
	err := r.db.First(&expense, id).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// Update updates an existing expense in the database
func (r *expenseRepository) Update(expense *models.Expense) error {
	return r.db.Save(expense).Error
}

// Delete soft deletes an expense by its ID
func (r *expenseRepository) Delete(id uint) error {
	return r.db.Delete(&models.Expense{}, id).Error
}

// List retrieves a paginated list of expenses, newest first
func (r *expenseRepository) List(offset, limit int) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.Offset(offset).Limit(limit).Order("date DESC").Find(&expenses).Error
	return expenses, err
}

// ListByGig retrieves all expenses attributed to a gig
func (r *expenseRepository) ListByGig(gigID uint) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.Where("gig_id = ?", gigID).Order("date DESC").Find(&expenses).Error
	return expenses, err
}

// ListByCategory retrieves all expenses in a category
func (r *expenseRepository) ListByCategory(category string) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.Where("category = ?", category).Order("date DESC").Find(&expenses).Error
	return expenses, err
}
