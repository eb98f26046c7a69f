// Package apperr defines the sentinel errors shared across services so
// controllers can map failures onto HTTP statuses with errors.Is.
package apperr

import "errors"

var (
	// ErrValidation marks malformed caller input, e.g. an invalid payout
	// status transition.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing referenced entity (gig, payout, ...).
	ErrNotFound = errors.New("not found")

	// ErrAuth marks an authentication/authorization failure, including a
	// failed provider token refresh.
	ErrAuth = errors.New("not authorized")

	// ErrStorage marks a persistence layer failure.
	ErrStorage = errors.New("storage failure")

	// ErrSync marks a rejected calendar provider request.
	ErrSync = errors.New("calendar sync failed")

	// ErrNotConnected marks a calendar operation attempted without a
	// stored connection.
	ErrNotConnected = errors.New("google calendar not connected")
)

// ItemError records a single failed item inside a partially failing batch.
type ItemError struct {
	ID  string
	Err error
}

// BatchResult summarizes a partial-failure-tolerant batch run. The batch as
// a whole reports success; failed items are listed per id.
type BatchResult struct {
	Total   int
	Created int
	Updated int
	Skipped int
	Failed  []ItemError
}

// HasFailures reports whether any item in the batch failed.
func (r *BatchResult) HasFailures() bool {
	return len(r.Failed) > 0
}

// Fail records an item failure without aborting the batch.
func (r *BatchResult) Fail(id string, err error) {
	r.Failed = append(r.Failed, ItemError{ID: id, Err: err})
}
