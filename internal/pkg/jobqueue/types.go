package jobqueue

import (
	"encoding/json"
	"fmt"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeCalendarPush JobType = "calendar_push"
	JobTypeCalendarPull JobType = "calendar_pull"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// CalendarPushJobPayload contains the payload for outbound calendar sync jobs
type CalendarPushJobPayload struct {
	GigUUID string `json:"gig_uuid"`
}

// ParseCalendarPushPayload extracts a typed payload from a generic job payload
func ParseCalendarPushPayload(payload map[string]interface{}) (*CalendarPushJobPayload, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	var p CalendarPushJobPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal calendar push payload: %w", err)
	}
	if p.GigUUID == "" {
		return nil, fmt.Errorf("calendar push payload missing gig_uuid")
	}
	return &p, nil
}

// MarkAsProcessing marks the job as currently being processed
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.ProcessedAt = &now
	j.UpdatedAt = now
}

// MarkAsCompleted marks the job as successfully completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.CompletedAt = &now
	j.UpdatedAt = now
	j.ErrorMsg = ""
}

// MarkAsFailed marks the job as failed with an error message
func (j *Job) MarkAsFailed(errMsg string) {
	j.Status = JobStatusFailed
	j.ErrorMsg = errMsg
	j.UpdatedAt = time.Now()
}

// MarkAsRetrying increments the retry counter and marks the job for retry
func (j *Job) MarkAsRetrying() {
	j.RetryCount++
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}

// IsRetryable reports whether the job may be retried
func (j *Job) IsRetryable() bool {
	return j.RetryCount < j.MaxRetries
}
