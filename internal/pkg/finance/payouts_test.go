package finance

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/internal/pkg/apperr"
)

func seedGig(repo *fakeRepository) *models.Gig {
	confirmed := d(100000)
	gig := &models.Gig{
		ID:              1,
		UUID:            "gig-1",
		Title:           "Club night",
		Date:            time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Status:          models.GigStatusConfirmed,
		ConfirmedAmount: &confirmed,
	}
	repo.gigs[gig.UUID] = gig
	repo.expenses[gig.ID] = []models.Expense{{GigID: &gig.ID, Amount: d(15000), Category: "travel"}}
	repo.payments[gig.ID] = []models.Payment{{GigID: gig.ID, Amount: d(50000)}}
	repo.confirmed[gig.ID] = []uint{11, 12, 13, 14, 15}
	return gig
}

func TestGeneratePayouts(t *testing.T) {
	repo := newFakeRepository()
	seedGig(repo)
	svc := NewService(repo, 0)

	result, err := svc.GeneratePayouts(context.Background(), "gig-1")
	require.NoError(t, err)

	assert.True(t, result.Breakdown.NetAmount.Equal(d(75000)))
	assert.Len(t, result.Payouts, 5)
	for _, p := range result.Payouts {
		assert.True(t, p.Amount.Equal(d(15000)), "amount = %s", p.Amount)
		assert.Equal(t, models.PayoutStatusPending, p.Status)
	}
	assert.Empty(t, result.Stale)
}

func TestGeneratePayoutsIdempotent(t *testing.T) {
	repo := newFakeRepository()
	seedGig(repo)
	svc := NewService(repo, 0)

	first, err := svc.GeneratePayouts(context.Background(), "gig-1")
	require.NoError(t, err)
	second, err := svc.GeneratePayouts(context.Background(), "gig-1")
	require.NoError(t, err)

	require.Len(t, second.Payouts, len(first.Payouts))
	for i := range first.Payouts {
		assert.True(t, first.Payouts[i].Amount.Equal(second.Payouts[i].Amount))
	}
}

func TestGeneratePayoutsPreservesPaid(t *testing.T) {
	repo := newFakeRepository()
	seedGig(repo)
	svc := NewService(repo, 0)

	_, err := svc.GeneratePayouts(context.Background(), "gig-1")
	require.NoError(t, err)

	// Mark member 11's payout paid.
	paid, err := repo.GetPayoutByUUID("payout-1")
	require.NoError(t, err)
	when := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	paid.Status = models.PayoutStatusPaid
	paid.PaidDate = &when
	require.NoError(t, repo.SavePayout(paid))

	// Change the money and regenerate twice.
	repo.expenses[1] = nil
	for i := 0; i < 2; i++ {
		_, err = svc.GeneratePayouts(context.Background(), "gig-1")
		require.NoError(t, err)
	}

	after, err := repo.GetPayoutByUUID("payout-1")
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusPaid, after.Status)
	require.NotNil(t, after.PaidDate)
	assert.True(t, after.PaidDate.Equal(when))
	// Amount follows the fresh computation: (100000-10000)/5.
	assert.True(t, after.Amount.Equal(d(18000)), "amount = %s", after.Amount)
}

func TestGeneratePayoutsFallbackMembers(t *testing.T) {
	repo := newFakeRepository()
	gig := seedGig(repo)
	repo.confirmed[gig.ID] = nil
	repo.activeUsers = []uint{11, 12, 13, 14, 15, 16, 17}
	svc := NewService(repo, 7)

	result, err := svc.GeneratePayouts(context.Background(), "gig-1")
	require.NoError(t, err)

	assert.Len(t, result.Payouts, 7)
	assert.Equal(t, 7, result.Breakdown.MemberCount)
}

func TestGeneratePayoutsFallbackSplitsAcrossActualLineup(t *testing.T) {
	repo := newFakeRepository()
	gig := seedGig(repo)
	repo.confirmed[gig.ID] = nil
	// Nine actives against a fallback size of seven: the share must come
	// from the nine rows actually written, not the fallback size.
	repo.activeUsers = []uint{11, 12, 13, 14, 15, 16, 17, 18, 19}
	svc := NewService(repo, 7)

	result, err := svc.GeneratePayouts(context.Background(), "gig-1")
	require.NoError(t, err)

	require.Len(t, result.Payouts, 9)
	assert.Equal(t, 9, result.Breakdown.MemberCount)
	share := decimal.RequireFromString("8333.33") // (100000-15000)/9
	for _, p := range result.Payouts {
		assert.True(t, p.Amount.Equal(share), "amount = %s", p.Amount)
	}
}

func TestGeneratePayoutsKeepsStaleRows(t *testing.T) {
	repo := newFakeRepository()
	gig := seedGig(repo)
	svc := NewService(repo, 0)

	_, err := svc.GeneratePayouts(context.Background(), "gig-1")
	require.NoError(t, err)

	// Member 15 drops out; their existing row must survive untouched.
	repo.confirmed[gig.ID] = []uint{11, 12, 13, 14}
	result, err := svc.GeneratePayouts(context.Background(), "gig-1")
	require.NoError(t, err)

	assert.Len(t, result.Payouts, 4)
	require.Len(t, result.Stale, 1)
	assert.Equal(t, uint(15), result.Stale[0].UserID)
}

func TestGeneratePayoutsGigNotFound(t *testing.T) {
	svc := NewService(newFakeRepository(), 0)

	_, err := svc.GeneratePayouts(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGeneratePayoutsStorageFailure(t *testing.T) {
	repo := newFakeRepository()
	seedGig(repo)
	repo.failUpsertAfter = 3
	svc := NewService(repo, 0)

	_, err := svc.GeneratePayouts(context.Background(), "gig-1")
	assert.ErrorIs(t, err, apperr.ErrStorage)
}

func TestUpdatePayoutStatus(t *testing.T) {
	repo := newFakeRepository()
	seedGig(repo)
	svc := NewService(repo, 0)
	_, err := svc.GeneratePayouts(context.Background(), "gig-1")
	require.NoError(t, err)

	// pending → paid defaults paid_date to now.
	p, err := svc.UpdatePayoutStatus(context.Background(), "payout-1", models.PayoutStatusPaid, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusPaid, p.Status)
	require.NotNil(t, p.PaidDate)
	assert.WithinDuration(t, time.Now(), *p.PaidDate, time.Minute)

	// paid → pending clears it.
	p, err = svc.UpdatePayoutStatus(context.Background(), "payout-1", models.PayoutStatusPending, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusPending, p.Status)
	assert.Nil(t, p.PaidDate)
}

func TestUpdatePayoutStatusExplicitDate(t *testing.T) {
	repo := newFakeRepository()
	seedGig(repo)
	svc := NewService(repo, 0)
	_, err := svc.GeneratePayouts(context.Background(), "gig-1")
	require.NoError(t, err)

	when := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	p, err := svc.UpdatePayoutStatus(context.Background(), "payout-2", models.PayoutStatusPaid, &when)
	require.NoError(t, err)
	require.NotNil(t, p.PaidDate)
	assert.True(t, p.PaidDate.Equal(when))
}

func TestUpdatePayoutStatusRepeatedPaidKeepsDate(t *testing.T) {
	repo := newFakeRepository()
	seedGig(repo)
	svc := NewService(repo, 0)
	_, err := svc.GeneratePayouts(context.Background(), "gig-1")
	require.NoError(t, err)

	when := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.UpdatePayoutStatus(context.Background(), "payout-1", models.PayoutStatusPaid, &when)
	require.NoError(t, err)

	// A retried paid request must not restamp the settlement date.
	p, err := svc.UpdatePayoutStatus(context.Background(), "payout-1", models.PayoutStatusPaid, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusPaid, p.Status)
	require.NotNil(t, p.PaidDate)
	assert.True(t, p.PaidDate.Equal(when))

	stored, err := repo.GetPayoutByUUID("payout-1")
	require.NoError(t, err)
	require.NotNil(t, stored.PaidDate)
	assert.True(t, stored.PaidDate.Equal(when))
}

func TestUpdatePayoutStatusInvalid(t *testing.T) {
	repo := newFakeRepository()
	seedGig(repo)
	svc := NewService(repo, 0)

	_, err := svc.UpdatePayoutStatus(context.Background(), "payout-1", "settled", nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.UpdatePayoutStatus(context.Background(), "missing", models.PayoutStatusPaid, nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
