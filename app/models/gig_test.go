package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestGigGrossAmount(t *testing.T) {
	g := Gig{}
	assert.True(t, g.GrossAmount().IsZero())

	g.QuotedAmount = dec(200000)
	assert.True(t, g.GrossAmount().Equal(decimal.NewFromInt(200000)))

	g.ConfirmedAmount = dec(100000)
	assert.True(t, g.GrossAmount().Equal(decimal.NewFromInt(100000)))

	// A zero confirmed amount falls back to the quote.
	zero := decimal.Zero
	g.ConfirmedAmount = &zero
	assert.True(t, g.GrossAmount().Equal(decimal.NewFromInt(200000)))
}

func TestGigTDSPercent(t *testing.T) {
	g := Gig{}
	assert.True(t, g.TDSPercent().Equal(decimal.NewFromInt(10)))

	g.TDSPercentage = dec(2)
	assert.True(t, g.TDSPercent().Equal(decimal.NewFromInt(2)))
}

func TestGigCalendarColorID(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{status: GigStatusConfirmed, want: "10"},
		{status: GigStatusLead, want: "5"},
		{status: GigStatusCompleted, want: "8"},
		{status: GigStatusCancelled, want: "8"},
	}

	for _, tt := range tests {
		g := Gig{Status: tt.status}
		if got := g.CalendarColorID(); got != tt.want {
			t.Fatalf("CalendarColorID(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestGigCountsAsIncome(t *testing.T) {
	for _, s := range []string{GigStatusConfirmed, GigStatusCompleted, GigStatusPaid} {
		g := Gig{Status: s}
		assert.True(t, g.CountsAsIncome(), s)
	}
	for _, s := range []string{GigStatusLead, GigStatusQuoted, GigStatusCancelled} {
		g := Gig{Status: s}
		assert.False(t, g.CountsAsIncome(), s)
	}
}

func TestValidGigStatus(t *testing.T) {
	assert.True(t, ValidGigStatus("confirmed"))
	assert.False(t, ValidGigStatus("booked"))
	assert.False(t, ValidGigStatus(""))
}

func TestValidPayoutStatus(t *testing.T) {
	assert.True(t, ValidPayoutStatus(PayoutStatusPending))
	assert.True(t, ValidPayoutStatus(PayoutStatusPaid))
	assert.False(t, ValidPayoutStatus("settled"))
}
