package finance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigbookhq/gigbook/app/models"
)

func seedLedger(repo *fakeRepository) {
	confirmed := d(100000)
	quoted := d(200000)

	g1 := &models.Gig{
		ID: 1, UUID: "gig-1", Title: "Club night", Status: models.GigStatusPaid,
		Date:            time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		ConfirmedAmount: &confirmed,
	}
	g2 := &models.Gig{
		ID: 2, UUID: "gig-2", Title: "Wedding", Status: models.GigStatusConfirmed,
		Date:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		QuotedAmount: &quoted,
	}
	// Leads never reach the ledger.
	g3 := &models.Gig{
		ID: 3, UUID: "gig-3", Title: "Maybe fest", Status: models.GigStatusLead,
		Date:         time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		QuotedAmount: &quoted,
	}
	repo.gigs["gig-1"] = g1
	repo.gigs["gig-2"] = g2
	repo.gigs["gig-3"] = g3

	gid1, gid2 := uint(1), uint(2)
	repo.expenses[1] = []models.Expense{
		{GigID: &gid1, Amount: d(15000), Category: "travel"},
		{GigID: &gid1, Amount: d(5000), Category: "gear"},
	}
	repo.expenses[2] = []models.Expense{
		{GigID: &gid2, Amount: d(10000), Category: "travel"},
	}
	repo.payments[1] = []models.Payment{{GigID: 1, Amount: d(100000)}}
	repo.payments[2] = []models.Payment{{GigID: 2, Amount: d(50000)}}
	repo.confirmed[1] = []uint{11, 12, 13, 14, 15}
}

func TestFinancialSummary(t *testing.T) {
	repo := newFakeRepository()
	seedLedger(repo)
	svc := NewService(repo, 7)

	got, err := svc.FinancialSummary(context.Background())
	require.NoError(t, err)

	// Income 100000 + 200000; TDS 10% of each; expenses 30000.
	assert.True(t, got.TotalIncome.Equal(d(300000)), "income = %s", got.TotalIncome)
	assert.True(t, got.TotalTDS.Equal(d(30000)), "tds = %s", got.TotalTDS)
	assert.True(t, got.TotalExpenses.Equal(d(30000)), "expenses = %s", got.TotalExpenses)
	assert.True(t, got.NetEarnings.Equal(d(240000)), "net = %s", got.NetEarnings)
	assert.True(t, got.PendingPayments.Equal(d(150000)), "pending = %s", got.PendingPayments)
	assert.Equal(t, 7, got.MemberCount)
}

func TestExpensesByCategory(t *testing.T) {
	repo := newFakeRepository()
	seedLedger(repo)
	svc := NewService(repo, 7)

	got, err := svc.ExpensesByCategory(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "travel", got[0].Category)
	assert.True(t, got[0].Amount.Equal(d(25000)))
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, "gear", got[1].Category)
	assert.Equal(t, 1, got[1].Count)
}

func TestGigLedger(t *testing.T) {
	repo := newFakeRepository()
	seedLedger(repo)
	svc := NewService(repo, 7)

	rows, err := svc.GigLedger(context.Background())
	require.NoError(t, err)

	require.Len(t, rows, 2)
	// Sorted by date descending.
	assert.Equal(t, "gig-2", rows[0].GigUUID)
	assert.Equal(t, "gig-1", rows[1].GigUUID)

	// gig-1: 100000 gross, 20000 expenses, 10000 TDS, 5 members.
	b := rows[1].Breakdown
	assert.True(t, b.NetAmount.Equal(d(70000)), "net = %s", b.NetAmount)
	assert.True(t, b.PerMemberShare.Equal(d(14000)), "share = %s", b.PerMemberShare)
	assert.True(t, b.BalanceDue.IsZero(), "balance = %s", b.BalanceDue)
	assert.Equal(t, 5, b.MemberCount)

	// gig-2 has no availability yet: fallback band size applies.
	assert.Equal(t, 7, rows[0].Breakdown.MemberCount)
}
