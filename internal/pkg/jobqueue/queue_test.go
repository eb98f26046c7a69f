package jobqueue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/internal/pkg/apperr"
)

type recordingSyncer struct {
	mu       sync.Mutex
	pushed   []string
	pulls    int
	pushErr  error
	pullErr  error
	pushDone chan struct{}
	pullDone chan struct{}
}

func newRecordingSyncer() *recordingSyncer {
	return &recordingSyncer{
		pushDone: make(chan struct{}, 16),
		pullDone: make(chan struct{}, 16),
	}
}

func (r *recordingSyncer) SyncGigToCalendar(ctx context.Context, gigUUID string) (*models.Gig, error) {
	r.mu.Lock()
	r.pushed = append(r.pushed, gigUUID)
	err := r.pushErr
	r.mu.Unlock()
	r.pushDone <- struct{}{}
	if err != nil {
		return nil, err
	}
	return &models.Gig{UUID: gigUUID}, nil
}

func (r *recordingSyncer) PullCalendarToGigs(ctx context.Context) (*apperr.BatchResult, error) {
	r.mu.Lock()
	r.pulls++
	err := r.pullErr
	r.mu.Unlock()
	r.pullDone <- struct{}{}
	if err != nil {
		return nil, err
	}
	return &apperr.BatchResult{Total: 3, Created: 1, Updated: 2}, nil
}

func (r *recordingSyncer) pushedUUIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.pushed...)
}

func waitForSignal(t *testing.T, ch chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for job to be processed")
	}
}

func startTestQueue(t *testing.T, syncer CalendarSyncer) *Queue {
	t.Helper()

	host, port, password := resolveTestRedis(t)
	configureTestCache(host, port, password)
	resetJobQueueRedis(t)

	q := NewQueue(1)
	q.SetCalendarSyncer(syncer)
	q.Start()
	t.Cleanup(func() {
		q.Stop()
		resetJobQueueRedis(t)
	})
	return q
}

func TestEnqueueAndGetJob(t *testing.T) {
	q := startTestQueue(t, newRecordingSyncer())

	job, err := q.EnqueueJob(JobTypeCalendarPush, map[string]interface{}{"gig_uuid": "gig-123"})
	require.NoError(t, err)
	require.NotEmpty(t, job.ID)
	assert.Equal(t, JobTypeCalendarPush, job.Type)
	assert.Equal(t, DefaultMaxRetries, job.MaxRetries)
}

func TestCalendarPushJobProcessed(t *testing.T) {
	syncer := newRecordingSyncer()
	q := startTestQueue(t, syncer)

	_, err := q.EnqueueJob(JobTypeCalendarPush, map[string]interface{}{"gig_uuid": "gig-abc"})
	require.NoError(t, err)

	waitForSignal(t, syncer.pushDone)
	assert.Equal(t, []string{"gig-abc"}, syncer.pushedUUIDs())
}

func TestCalendarPullJobProcessed(t *testing.T) {
	syncer := newRecordingSyncer()
	q := startTestQueue(t, syncer)

	_, err := q.EnqueueJob(JobTypeCalendarPull, nil)
	require.NoError(t, err)

	waitForSignal(t, syncer.pullDone)

	syncer.mu.Lock()
	pulls := syncer.pulls
	syncer.mu.Unlock()
	assert.Equal(t, 1, pulls)
}

func TestCalendarPushSkipsDeletedGig(t *testing.T) {
	syncer := newRecordingSyncer()
	syncer.pushErr = apperr.ErrNotFound
	q := startTestQueue(t, syncer)

	job, err := q.EnqueueJob(JobTypeCalendarPush, map[string]interface{}{"gig_uuid": "gone"})
	require.NoError(t, err)

	waitForSignal(t, syncer.pushDone)

	// A vanished gig completes the job instead of burning retries, and
	// completed jobs are removed from Redis.
	assert.Eventually(t, func() bool {
		_, err := q.GetJob(context.Background(), job.ID)
		return err != nil
	}, 5*time.Second, 50*time.Millisecond)
}

func TestCalendarPushRetriesOnSyncError(t *testing.T) {
	syncer := newRecordingSyncer()
	syncer.pushErr = apperr.ErrSync
	q := startTestQueue(t, syncer)

	job, err := q.EnqueueJob(JobTypeCalendarPush, map[string]interface{}{"gig_uuid": "flaky"})
	require.NoError(t, err)

	waitForSignal(t, syncer.pushDone)

	assert.Eventually(t, func() bool {
		stored, err := q.GetJob(context.Background(), job.ID)
		if err != nil {
			return false
		}
		return stored.Status == JobStatusRetrying && stored.RetryCount == 1
	}, 5*time.Second, 50*time.Millisecond)
}

func TestCalendarPushRejectsMissingPayload(t *testing.T) {
	syncer := newRecordingSyncer()
	q := startTestQueue(t, syncer)

	job, err := q.EnqueueJob(JobTypeCalendarPush, map[string]interface{}{})
	require.NoError(t, err)

	// The payload never parses, so the syncer is never called and the job
	// cycles through retries without a push.
	assert.Eventually(t, func() bool {
		stored, err := q.GetJob(context.Background(), job.ID)
		if err != nil {
			return false
		}
		return stored.Status == JobStatusFailed || stored.Status == JobStatusRetrying
	}, 5*time.Second, 50*time.Millisecond)
	assert.Empty(t, syncer.pushedUUIDs())
}
