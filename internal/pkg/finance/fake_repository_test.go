package finance

import (
	"fmt"
	"time"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/internal/pkg/apperr"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	gigs         map[string]*models.Gig
	expenses     map[uint][]models.Expense
	payments     map[uint][]models.Payment
	confirmed    map[uint][]uint
	activeUsers  []uint
	users        map[uint]*models.User
	payouts      map[string]*models.Payout // key gigID/userID
	nextPayoutID uint

	failUpsertAfter int // >0: fail the nth upsert
	upserts         int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		gigs:      map[string]*models.Gig{},
		expenses:  map[uint][]models.Expense{},
		payments:  map[uint][]models.Payment{},
		confirmed: map[uint][]uint{},
		users:     map[uint]*models.User{},
		payouts:   map[string]*models.Payout{},
	}
}

func payoutKey(gigID, userID uint) string { return fmt.Sprintf("%d/%d", gigID, userID) }

func (f *fakeRepository) GetGigByUUID(uuid string) (*models.Gig, error) {
	g, ok := f.gigs[uuid]
	if !ok {
		return nil, fmt.Errorf("gig %s: %w", uuid, apperr.ErrNotFound)
	}
	copy := *g
	return &copy, nil
}

func (f *fakeRepository) ListGigsByStatuses(statuses []string) ([]models.Gig, error) {
	var out []models.Gig
	for _, g := range f.gigs {
		for _, s := range statuses {
			if g.Status == s {
				out = append(out, *g)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRepository) ListExpensesByGig(gigID uint) ([]models.Expense, error) {
	return f.expenses[gigID], nil
}

func (f *fakeRepository) ListAllExpenses() ([]models.Expense, error) {
	var out []models.Expense
	for _, list := range f.expenses {
		out = append(out, list...)
	}
	return out, nil
}

func (f *fakeRepository) ListPaymentsByGig(gigID uint) ([]models.Payment, error) {
	return f.payments[gigID], nil
}

func (f *fakeRepository) ListAllPayments() ([]models.Payment, error) {
	var out []models.Payment
	for _, list := range f.payments {
		out = append(out, list...)
	}
	return out, nil
}

func (f *fakeRepository) ListConfirmedMemberIDs(gigID uint) ([]uint, error) {
	return f.confirmed[gigID], nil
}

func (f *fakeRepository) ListActiveMemberIDs() ([]uint, error) {
	return f.activeUsers, nil
}

func (f *fakeRepository) ListPayoutsByGig(gigID uint) ([]models.Payout, error) {
	var out []models.Payout
	for _, p := range f.payouts {
		if p.GigID == gigID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRepository) GetPayoutByUUID(uuid string) (*models.Payout, error) {
	for _, p := range f.payouts {
		if p.UUID == uuid {
			copy := *p
			return &copy, nil
		}
	}
	return nil, fmt.Errorf("payout %s: %w", uuid, apperr.ErrNotFound)
}

func (f *fakeRepository) UpsertPayout(payout *models.Payout) error {
	f.upserts++
	if f.failUpsertAfter > 0 && f.upserts >= f.failUpsertAfter {
		return fmt.Errorf("forced failure: %w", apperr.ErrStorage)
	}

	key := payoutKey(payout.GigID, payout.UserID)
	if existing, ok := f.payouts[key]; ok {
		existing.Amount = payout.Amount
		existing.UpdatedAt = time.Now()
		*payout = *existing
		return nil
	}

	f.nextPayoutID++
	payout.ID = f.nextPayoutID
	payout.UUID = fmt.Sprintf("payout-%d", f.nextPayoutID)
	stored := *payout
	f.payouts[key] = &stored
	return nil
}

func (f *fakeRepository) SavePayout(payout *models.Payout) error {
	key := payoutKey(payout.GigID, payout.UserID)
	stored := *payout
	f.payouts[key] = &stored
	return nil
}

func (f *fakeRepository) GetUserByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}
	return u, nil
}

func (f *fakeRepository) Transaction(fn func(Repository) error) error {
	return fn(f)
}
