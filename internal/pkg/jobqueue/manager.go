package jobqueue

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/gigbookhq/gigbook/internal/pkg/env"
)

// Manager manages the global job queue and background tasks
type Manager struct {
	queue      *Queue
	pullTicker *time.Ticker
	stopCh     chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	running    bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global job queue manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		workerCount := 2
		if v, err := strconv.Atoi(env.GetEnv("JOB_QUEUE_WORKERS", "")); err == nil && v > 0 {
			workerCount = v
		}

		globalManager = &Manager{
			queue:  NewQueue(workerCount),
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the job queue and background tasks
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue and background tasks")

	m.queue.Start()

	// Periodic calendar pull is the fallback for missed or expired webhook
	// channels. Disabled when the interval is 0.
	pullMinutes := 30
	if v, err := strconv.Atoi(env.GetEnv("CALENDAR_PULL_INTERVAL_MINUTES", "")); err == nil && v >= 0 {
		pullMinutes = v
	}
	if pullMinutes > 0 {
		m.pullTicker = time.NewTicker(time.Duration(pullMinutes) * time.Minute)
		m.wg.Add(1)
		go m.calendarPullWorker(pullMinutes)
	}

	log.Info("[JobQueue Manager] Started successfully")
}

// Stop stops the job queue and background tasks
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping job queue and background tasks...")

	if m.pullTicker != nil {
		m.pullTicker.Stop()
	}

	close(m.stopCh)
	m.stopCh = nil
	m.running = false

	m.wg.Wait()
	m.queue.Stop()

	log.Info("[JobQueue Manager] Stopped successfully")
}

// calendarPullWorker periodically enqueues a calendar pull job
func (m *Manager) calendarPullWorker(intervalMinutes int) {
	defer m.wg.Done()
	log.Infof("[JobQueue Manager] Started calendar pull worker (interval: %d minutes)", intervalMinutes)

	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Calendar pull worker stopping")
			return
		case <-m.pullTicker.C:
			if _, err := m.queue.EnqueueJob(JobTypeCalendarPull, nil); err != nil {
				log.Errorf("[JobQueue Manager] Error enqueuing calendar pull: %v", err)
			}
		}
	}
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// EnqueueCalendarPush enqueues an outbound sync for a single gig. Best effort:
// failures are logged, never surfaced to the request that triggered them.
func EnqueueCalendarPush(gigUUID string) {
	m := GetManager()
	if !m.IsRunning() {
		return
	}
	payload := map[string]interface{}{"gig_uuid": gigUUID}
	if _, err := m.queue.EnqueueJob(JobTypeCalendarPush, payload); err != nil {
		log.Errorf("[JobQueue] Failed to enqueue calendar push for gig %s: %v", gigUUID, err)
	}
}
