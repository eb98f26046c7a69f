package finance

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/internal/pkg/apperr"
)

// Repository provides the DB operations used by the finance services.
type Repository interface {
	GetGigByUUID(uuid string) (*models.Gig, error)
	ListGigsByStatuses(statuses []string) ([]models.Gig, error)
	ListExpensesByGig(gigID uint) ([]models.Expense, error)
	ListAllExpenses() ([]models.Expense, error)
	ListPaymentsByGig(gigID uint) ([]models.Payment, error)
	ListAllPayments() ([]models.Payment, error)
	ListConfirmedMemberIDs(gigID uint) ([]uint, error)
	ListActiveMemberIDs() ([]uint, error)
	ListPayoutsByGig(gigID uint) ([]models.Payout, error)
	GetPayoutByUUID(uuid string) (*models.Payout, error)
	UpsertPayout(payout *models.Payout) error
	SavePayout(payout *models.Payout) error
	GetUserByID(id uint) (*models.User, error)

	// Transaction runs fn against a repository bound to one DB
	// transaction; any error rolls the whole unit back.
	Transaction(fn func(Repository) error) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a finance repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetGigByUUID(uuid string) (*models.Gig, error) {
	var gig models.Gig
	err := r.db.Where("uuid = ?", uuid).First(&gig).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("gig %s: %w", uuid, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading gig: %w", errors.Join(apperr.ErrStorage, err))
	}
	return &gig, nil
}

func (r *gormRepository) ListGigsByStatuses(statuses []string) ([]models.Gig, error) {
	var gigs []models.Gig
	err := r.db.Where("status IN ?", statuses).
		Order("date DESC").Find(&gigs).Error
	if err != nil {
		return nil, fmt.Errorf("listing gigs: %w", errors.Join(apperr.ErrStorage, err))
	}
	return gigs, nil
}

func (r *gormRepository) ListExpensesByGig(gigID uint) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.Where("gig_id = ?", gigID).Find(&expenses).Error
	return expenses, wrapStorage(err, "listing gig expenses")
}

func (r *gormRepository) ListAllExpenses() ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.Find(&expenses).Error
	return expenses, wrapStorage(err, "listing expenses")
}

func (r *gormRepository) ListPaymentsByGig(gigID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("gig_id = ?", gigID).Find(&payments).Error
	return payments, wrapStorage(err, "listing gig payments")
}

func (r *gormRepository) ListAllPayments() ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Find(&payments).Error
	return payments, wrapStorage(err, "listing payments")
}

func (r *gormRepository) ListConfirmedMemberIDs(gigID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Availability{}).
		Where("gig_id = ? AND status = ?", gigID, models.AvailabilityYes).
		Pluck("user_id", &ids).Error
	return ids, wrapStorage(err, "listing confirmed members")
}

func (r *gormRepository) ListActiveMemberIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.User{}).
		Where("status = ?", models.STATUS_ACTIVE).
		Pluck("id", &ids).Error
	return ids, wrapStorage(err, "listing active members")
}

func (r *gormRepository) ListPayoutsByGig(gigID uint) ([]models.Payout, error) {
	var payouts []models.Payout
	err := r.db.Where("gig_id = ?", gigID).Order("user_id").Find(&payouts).Error
	return payouts, wrapStorage(err, "listing payouts")
}

func (r *gormRepository) GetPayoutByUUID(uuid string) (*models.Payout, error) {
	var payout models.Payout
	err := r.db.Where("uuid = ?", uuid).First(&payout).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("payout %s: %w", uuid, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading payout: %w", errors.Join(apperr.ErrStorage, err))
	}
	return &payout, nil
}

// UpsertPayout writes the computed amount for (gig, member) while leaving
// status and paid_date of an existing row untouched.
func (r *gormRepository) UpsertPayout(payout *models.Payout) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "gig_id"},
			{Name: "user_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"amount",
			"updated_at",
		}),
	}).Create(payout).Error
	if err != nil {
		return fmt.Errorf("upserting payout: %w", errors.Join(apperr.ErrStorage, err))
	}

	// Re-read so the caller sees the stored status/paid_date.
	return wrapStorage(
		r.db.Where("gig_id = ? AND user_id = ?", payout.GigID, payout.UserID).First(payout).Error,
		"reloading payout",
	)
}

func (r *gormRepository) SavePayout(payout *models.Payout) error {
	return wrapStorage(r.db.Save(payout).Error, "saving payout")
}

func (r *gormRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", errors.Join(apperr.ErrStorage, err))
	}
	return &user, nil
}

func (r *gormRepository) Transaction(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func wrapStorage(err error, what string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", what, errors.Join(apperr.ErrStorage, err))
}

func expenseAmounts(expenses []models.Expense) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, e.Amount)
	}
	return out
}

func paymentAmounts(payments []models.Payment) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(payments))
	for _, p := range payments {
		out = append(out, p.Amount)
	}
	return out
}
