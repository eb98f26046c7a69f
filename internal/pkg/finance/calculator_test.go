package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCalculateConfirmedGig(t *testing.T) {
	// 100000 gross, 10% TDS, 15000 expenses, 50000 received, 5 members.
	got := Calculate(CalcInput{
		GrossAmount: d(100000),
		TDSPercent:  d(10),
		Expenses:    []decimal.Decimal{d(15000)},
		Payments:    []decimal.Decimal{d(50000)},
		MemberCount: 5,
	})

	assert.True(t, got.TotalTDS.Equal(d(10000)), "total_tds = %s", got.TotalTDS)
	assert.True(t, got.NetAmount.Equal(d(75000)), "net_amount = %s", got.NetAmount)
	assert.True(t, got.PerMemberShare.Equal(d(15000)), "per_member_share = %s", got.PerMemberShare)
	assert.True(t, got.BalanceDue.Equal(d(50000)), "balance_due = %s", got.BalanceDue)
	assert.Equal(t, 5, got.MemberCount)
}

func TestCalculateQuotedFallback(t *testing.T) {
	// No confirmed amount: the caller passes the quote as gross, and a
	// nil TDS percentage resolves to the default 10%.
	got := Calculate(CalcInput{
		GrossAmount: d(200000),
		TDSPercent:  d(10),
		MemberCount: 4,
	})

	assert.True(t, got.TotalTDS.Equal(d(20000)), "total_tds = %s", got.TotalTDS)
	assert.True(t, got.NetAmount.Equal(d(180000)), "net_amount = %s", got.NetAmount)
}

func TestCalculateNegativeNet(t *testing.T) {
	// Expenses plus TDS exceed gross: a valid loss-making state.
	got := Calculate(CalcInput{
		GrossAmount: d(10000),
		TDSPercent:  d(10),
		Expenses:    []decimal.Decimal{d(12000)},
		MemberCount: 5,
	})

	assert.True(t, got.NetAmount.Equal(d(-3000)), "net_amount = %s", got.NetAmount)
	assert.True(t, got.PerMemberShare.Equal(d(-600)), "per_member_share = %s", got.PerMemberShare)
}

func TestCalculateMemberFallback(t *testing.T) {
	tests := []struct {
		name        string
		memberCount int
		fallback    int
		want        int
	}{
		{name: "zero members uses default band size", memberCount: 0, want: DefaultBandSize},
		{name: "negative members uses default band size", memberCount: -3, want: DefaultBandSize},
		{name: "configured fallback wins", memberCount: 0, fallback: 5, want: 5},
		{name: "positive count untouched", memberCount: 3, fallback: 5, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(CalcInput{
				GrossAmount:     d(70000),
				TDSPercent:      d(0),
				MemberCount:     tt.memberCount,
				FallbackMembers: tt.fallback,
			})
			assert.Equal(t, tt.want, got.MemberCount)
			assert.False(t, got.PerMemberShare.IsZero())
		})
	}
}

func TestCalculateRounding(t *testing.T) {
	// 100 / 3 members: the share must carry exactly two decimals.
	got := Calculate(CalcInput{
		GrossAmount: d(100),
		TDSPercent:  d(0),
		MemberCount: 3,
	})
	assert.Equal(t, "33.33", got.PerMemberShare.StringFixed(2))

	// 12.5% TDS on 999 rounds to two decimals too.
	pct := decimal.NewFromFloat(12.5)
	got = Calculate(CalcInput{GrossAmount: d(999), TDSPercent: pct, MemberCount: 1})
	assert.Equal(t, "124.88", got.TotalTDS.StringFixed(2))
}
