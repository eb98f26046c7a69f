package jobqueue

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/gigbookhq/gigbook/internal/pkg/apperr"
)

// processCalendarPushJob syncs a single gig out to Google Calendar.
func (q *Queue) processCalendarPushJob(ctx context.Context, job *Job) error {
	syncer := q.calendarSyncer()
	if syncer == nil {
		return fmt.Errorf("calendar syncer not configured")
	}

	payload, err := ParseCalendarPushPayload(job.Payload)
	if err != nil {
		return err
	}

	gig, err := syncer.SyncGigToCalendar(ctx, payload.GigUUID)
	if err != nil {
		// A gig deleted between enqueue and processing is not worth retrying,
		// and neither is pushing while no calendar is connected.
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrNotConnected) {
			log.Warnf("[JobQueue] Calendar push for gig %s skipped: %v", payload.GigUUID, err)
			return nil
		}
		return fmt.Errorf("calendar push for gig %s: %w", payload.GigUUID, err)
	}

	eventID := ""
	if gig.GoogleCalendarEventID != nil {
		eventID = *gig.GoogleCalendarEventID
	}
	log.Infof("[JobQueue] Calendar push completed for gig %s (event %s)", gig.UUID, eventID)
	return nil
}

// processCalendarPullJob runs a windowed pull from Google Calendar into the
// gig table. Per-event failures are tolerated by the sync service; only a
// failure of the pull itself makes the job fail.
func (q *Queue) processCalendarPullJob(ctx context.Context, job *Job) error {
	syncer := q.calendarSyncer()
	if syncer == nil {
		return fmt.Errorf("calendar syncer not configured")
	}

	result, err := syncer.PullCalendarToGigs(ctx)
	if err != nil {
		if errors.Is(err, apperr.ErrNotConnected) {
			log.Warn("[JobQueue] Calendar pull skipped: no calendar connected")
			return nil
		}
		return fmt.Errorf("calendar pull: %w", err)
	}

	if result.HasFailures() {
		log.Warnf("[JobQueue] Calendar pull finished with %d failed events (total %d)", len(result.Failed), result.Total)
	} else {
		log.Infof("[JobQueue] Calendar pull finished: %d events, %d created, %d updated, %d skipped",
			result.Total, result.Created, result.Updated, result.Skipped)
	}
	return nil
}
