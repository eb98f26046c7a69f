package finance

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/internal/pkg/apperr"
)

// Notifier delivers payout notifications to members. Delivery failures are
// logged, never propagated.
type Notifier interface {
	NotifyPayout(to string, subject string, body string) error
}

// Service provides payout generation and the financial rollups.
type Service struct {
	repo     Repository
	notifier Notifier
	// fallbackMembers substitutes when a gig has no confirmed members.
	fallbackMembers int
}

// NewService creates a finance service from an injected repository.
func NewService(repo Repository, fallbackMembers int) *Service {
	if fallbackMembers <= 0 {
		fallbackMembers = DefaultBandSize
	}
	return &Service{repo: repo, fallbackMembers: fallbackMembers}
}

// NewServiceFromDB creates a finance service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, fallbackMembers int) *Service {
	return NewService(NewRepository(db), fallbackMembers)
}

// WithNotifier attaches a payout notifier.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// GenerationResult is what GeneratePayouts returns: the payout rows for the
// gig after regeneration, plus the rows that belong to members no longer in
// the confirmed set (kept, never auto-deleted).
type GenerationResult struct {
	Breakdown Breakdown       `json:"breakdown"`
	Payouts   []models.Payout `json:"payouts"`
	Stale     []models.Payout `json:"stale,omitempty"`
}

// GigFinancials recomputes the Breakdown for one gig without writing
// anything.
func (s *Service) GigFinancials(ctx context.Context, gigUUID string) (*models.Gig, Breakdown, error) {
	_ = ctx
	gig, err := s.repo.GetGigByUUID(gigUUID)
	if err != nil {
		return nil, Breakdown{}, err
	}

	members, err := s.repo.ListConfirmedMemberIDs(gig.ID)
	if err != nil {
		return nil, Breakdown{}, err
	}

	breakdown, err := s.breakdownFor(gig, len(members))
	if err != nil {
		return nil, Breakdown{}, err
	}
	return gig, breakdown, nil
}

// breakdownFor computes the Breakdown for a gig given the member count the
// caller wants the net split across.
func (s *Service) breakdownFor(gig *models.Gig, memberCount int) (Breakdown, error) {
	expenses, err := s.repo.ListExpensesByGig(gig.ID)
	if err != nil {
		return Breakdown{}, err
	}
	payments, err := s.repo.ListPaymentsByGig(gig.ID)
	if err != nil {
		return Breakdown{}, err
	}

	return Calculate(CalcInput{
		GrossAmount:     gig.GrossAmount(),
		TDSPercent:      gig.TDSPercent(),
		Expenses:        expenseAmounts(expenses),
		Payments:        paymentAmounts(payments),
		MemberCount:     memberCount,
		FallbackMembers: s.fallbackMembers,
	}), nil
}

// GeneratePayouts recomputes the per-member share for a gig and upserts one
// payout row per confirmed member. Existing rows keep their status and
// paid_date; the whole regeneration is one transaction. Callers should
// serialize concurrent generations for the same gig.
func (s *Service) GeneratePayouts(ctx context.Context, gigUUID string) (*GenerationResult, error) {
	_ = ctx
	gig, err := s.repo.GetGigByUUID(gigUUID)
	if err != nil {
		return nil, err
	}

	targets, err := s.repo.ListConfirmedMemberIDs(gig.ID)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		// Nobody confirmed yet: fall back to the whole active lineup.
		targets, err = s.repo.ListActiveMemberIDs()
		if err != nil {
			return nil, err
		}
		if len(targets) == 0 {
			return nil, fmt.Errorf("no members to pay out: %w", apperr.ErrValidation)
		}
	}

	// The share is always derived from the members actually being paid, so
	// the schedule sums to the net amount on the fallback path too.
	breakdown, err := s.breakdownFor(gig, len(targets))
	if err != nil {
		return nil, err
	}

	targetSet := make(map[uint]struct{}, len(targets))
	for _, id := range targets {
		targetSet[id] = struct{}{}
	}

	err = s.repo.Transaction(func(tx Repository) error {
		for _, userID := range targets {
			payout := &models.Payout{
				GigID:  gig.ID,
				UserID: userID,
				Amount: breakdown.PerMemberShare,
				Status: models.PayoutStatusPending,
			}
			if err := tx.UpsertPayout(payout); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	all, err := s.repo.ListPayoutsByGig(gig.ID)
	if err != nil {
		return nil, err
	}

	result := &GenerationResult{Breakdown: breakdown}
	for _, p := range all {
		if _, ok := targetSet[p.UserID]; ok {
			result.Payouts = append(result.Payouts, p)
		} else {
			result.Stale = append(result.Stale, p)
		}
	}

	s.notifyGenerated(gig, result.Payouts)

	return result, nil
}

// UpdatePayoutStatus transitions a payout between pending and paid. The
// pending→paid transition stamps paid_date (today when absent); paid→pending
// clears it. A same-status request is a no-op so a retried call cannot
// rewrite the settlement date. Any other status is a validation error.
func (s *Service) UpdatePayoutStatus(ctx context.Context, payoutUUID string, status string, paidDate *time.Time) (*models.Payout, error) {
	_ = ctx
	if !models.ValidPayoutStatus(status) {
		return nil, fmt.Errorf("invalid payout status %q: %w", status, apperr.ErrValidation)
	}

	payout, err := s.repo.GetPayoutByUUID(payoutUUID)
	if err != nil {
		return nil, err
	}
	if payout.Status == status {
		return payout, nil
	}

	switch status {
	case models.PayoutStatusPaid:
		when := time.Now()
		if paidDate != nil {
			when = *paidDate
		}
		payout.Status = models.PayoutStatusPaid
		payout.PaidDate = &when
	case models.PayoutStatusPending:
		payout.Status = models.PayoutStatusPending
		payout.PaidDate = nil
	}

	if err := s.repo.SavePayout(payout); err != nil {
		return nil, err
	}
	return payout, nil
}

func (s *Service) notifyGenerated(gig *models.Gig, payouts []models.Payout) {
	if s.notifier == nil {
		return
	}
	for _, p := range payouts {
		user, err := s.repo.GetUserByID(p.UserID)
		if err != nil || user.Email == "" {
			continue
		}
		subject := fmt.Sprintf("Payout for %s", gig.Title)
		body := fmt.Sprintf("Your share for <b>%s</b> (%s) is %s.",
			gig.Title, gig.Date.Format("2006-01-02"), p.Amount.StringFixed(2))
		if err := s.notifier.NotifyPayout(user.Email, subject, body); err != nil {
			log.Printf("payout notification to %s failed: %v", user.Email, err)
		}
	}
}
