package finance

import "github.com/shopspring/decimal"

// DefaultBandSize substitutes for the member count when no member has
// confirmed availability, so a share can still be shown and division by
// zero never occurs.
const DefaultBandSize = 7

var hundred = decimal.NewFromInt(100)

// CalcInput is everything the calculator needs for one gig. GrossAmount is
// the confirmed amount when present, else the quoted amount, else zero
// (models.Gig.GrossAmount already applies that rule).
type CalcInput struct {
	GrossAmount decimal.Decimal
	TDSPercent  decimal.Decimal
	Expenses    []decimal.Decimal
	Payments    []decimal.Decimal
	MemberCount int
	// FallbackMembers replaces MemberCount when it is not positive.
	// Zero means DefaultBandSize.
	FallbackMembers int
}

// Breakdown is the full financial picture of a gig. NetAmount may be
// negative; a loss-making gig is a valid, displayable state.
type Breakdown struct {
	GrossAmount    decimal.Decimal `json:"gross_amount"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	TotalTDS       decimal.Decimal `json:"total_tds"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	TotalPayments  decimal.Decimal `json:"total_payments"`
	BalanceDue     decimal.Decimal `json:"balance_due"`
	PerMemberShare decimal.Decimal `json:"per_member_share"`
	MemberCount    int             `json:"member_count"`
}

// Calculate turns a gig's money inputs into a Breakdown. Pure, no I/O,
// never fails for numeric input.
func Calculate(in CalcInput) Breakdown {
	members := in.MemberCount
	if members <= 0 {
		members = in.FallbackMembers
		if members <= 0 {
			members = DefaultBandSize
		}
	}

	totalExpenses := sum(in.Expenses)
	totalPayments := sum(in.Payments)
	totalTDS := in.GrossAmount.Mul(in.TDSPercent).Div(hundred).Round(2)
	netAmount := in.GrossAmount.Sub(totalExpenses).Sub(totalTDS)

	return Breakdown{
		GrossAmount:    in.GrossAmount,
		TotalExpenses:  totalExpenses,
		TotalTDS:       totalTDS,
		NetAmount:      netAmount,
		TotalPayments:  totalPayments,
		BalanceDue:     in.GrossAmount.Sub(totalPayments),
		PerMemberShare: netAmount.DivRound(decimal.NewFromInt(int64(members)), 2),
		MemberCount:    members,
	}
}

func sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
