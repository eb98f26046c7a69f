package finance

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/gigbookhq/gigbook/app/models"
)

// incomeStatuses are the gig statuses that count toward the ledger.
var incomeStatuses = []string{
	models.GigStatusConfirmed,
	models.GigStatusCompleted,
	models.GigStatusPaid,
}

// Summary is the band-wide financial rollup across all qualifying gigs.
type Summary struct {
	TotalIncome     decimal.Decimal `json:"total_income"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	TotalTDS        decimal.Decimal `json:"total_tds"`
	NetEarnings     decimal.Decimal `json:"net_earnings"`
	TotalPayments   decimal.Decimal `json:"total_payments"`
	PendingPayments decimal.Decimal `json:"pending_payments"`
	MemberCount     int             `json:"member_count"`
	PerMemberShare  decimal.Decimal `json:"per_member_share"`
}

// CategoryTotal is one row of the expense-by-category rollup.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
}

// LedgerRow is the full per-gig financial picture for reporting.
type LedgerRow struct {
	GigUUID   string    `json:"gig_uuid"`
	GigTitle  string    `json:"gig_title"`
	GigDate   string    `json:"gig_date"`
	GigStatus string    `json:"gig_status"`
	Breakdown Breakdown `json:"breakdown"`
}

// FinancialSummary rolls up income, expenses, TDS and pending balance
// across all confirmed/completed/paid gigs. Derived data, reflects the
// store at time of read.
func (s *Service) FinancialSummary(ctx context.Context) (*Summary, error) {
	_ = ctx
	gigs, err := s.repo.ListGigsByStatuses(incomeStatuses)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repo.ListAllExpenses()
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListAllPayments()
	if err != nil {
		return nil, err
	}

	totalIncome := decimal.Zero
	totalTDS := decimal.Zero
	for _, g := range gigs {
		gross := g.GrossAmount()
		totalIncome = totalIncome.Add(gross)
		totalTDS = totalTDS.Add(gross.Mul(g.TDSPercent()).Div(hundred).Round(2))
	}

	totalExpenses := sum(expenseAmounts(expenses))
	totalPayments := sum(paymentAmounts(payments))
	netEarnings := totalIncome.Sub(totalExpenses).Sub(totalTDS)

	return &Summary{
		TotalIncome:     totalIncome,
		TotalExpenses:   totalExpenses,
		TotalTDS:        totalTDS,
		NetEarnings:     netEarnings,
		TotalPayments:   totalPayments,
		PendingPayments: totalIncome.Sub(totalPayments),
		MemberCount:     s.fallbackMembers,
		PerMemberShare:  netEarnings.DivRound(decimal.NewFromInt(int64(s.fallbackMembers)), 2),
	}, nil
}

// ExpensesByCategory groups all expenses by category, summed and counted,
// sorted descending by sum.
func (s *Service) ExpensesByCategory(ctx context.Context) ([]CategoryTotal, error) {
	_ = ctx
	expenses, err := s.repo.ListAllExpenses()
	if err != nil {
		return nil, err
	}

	byCategory := map[string]*CategoryTotal{}
	order := []string{}
	for _, e := range expenses {
		t, ok := byCategory[e.Category]
		if !ok {
			t = &CategoryTotal{Category: e.Category, Amount: decimal.Zero}
			byCategory[e.Category] = t
			order = append(order, e.Category)
		}
		t.Amount = t.Amount.Add(e.Amount)
		t.Count++
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, c := range order {
		out = append(out, *byCategory[c])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out, nil
}

// GigLedger produces one row per qualifying gig with the full breakdown,
// sorted by date descending.
func (s *Service) GigLedger(ctx context.Context) ([]LedgerRow, error) {
	_ = ctx
	gigs, err := s.repo.ListGigsByStatuses(incomeStatuses)
	if err != nil {
		return nil, err
	}

	rows := make([]LedgerRow, 0, len(gigs))
	for _, g := range gigs {
		expenses, err := s.repo.ListExpensesByGig(g.ID)
		if err != nil {
			return nil, err
		}
		payments, err := s.repo.ListPaymentsByGig(g.ID)
		if err != nil {
			return nil, err
		}
		members, err := s.repo.ListConfirmedMemberIDs(g.ID)
		if err != nil {
			return nil, err
		}

		rows = append(rows, LedgerRow{
			GigUUID:   g.UUID,
			GigTitle:  g.Title,
			GigDate:   g.Date.Format("2006-01-02"),
			GigStatus: g.Status,
			Breakdown: Calculate(CalcInput{
				GrossAmount:     g.GrossAmount(),
				TDSPercent:      g.TDSPercent(),
				Expenses:        expenseAmounts(expenses),
				Payments:        paymentAmounts(payments),
				MemberCount:     len(members),
				FallbackMembers: s.fallbackMembers,
			}),
		})
	}

	// ListGigsByStatuses already orders by date; keep it stable here in
	// case a repository implementation does not.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].GigDate > rows[j].GigDate
	})
	return rows, nil
}
