package export

import (
	"github.com/commerceqb/gateway/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeJob = "ExportJob"

// Event type constants
const (
	EventTypeJobQueued   = "ExportJobQueued"
	EventTypeJobResolved = "ExportJobResolved"
)

// JobQueuedEvent is published when a new job enters the export queue
type JobQueuedEvent struct {
	shared.BaseDomainEvent
	JobID       uuid.UUID `json:"job_id"`
	JobType     JobType   `json:"job_type"`
	SubjectKind string    `json:"subject_kind"`
	SubjectID   uuid.UUID `json:"subject_id"`
}

// NewJobQueuedEvent creates a new JobQueuedEvent
func NewJobQueuedEvent(job *Job) *JobQueuedEvent {
	return &JobQueuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobQueued, AggregateTypeJob, job.ID),
		JobID:           job.ID,
		JobType:         job.Type,
		SubjectKind:     job.Subject.Kind,
		SubjectID:       job.Subject.ID,
	}
}

// JobResolvedEvent is published when the gateway resolves a job to DONE or FAILED
type JobResolvedEvent struct {
	shared.BaseDomainEvent
	JobID   uuid.UUID `json:"job_id"`
	JobType JobType   `json:"job_type"`
	Status  Status    `json:"status"`
}

// NewJobResolvedEvent creates a new JobResolvedEvent
func NewJobResolvedEvent(job *Job) *JobResolvedEvent {
	return &JobResolvedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJobResolved, AggregateTypeJob, job.ID),
		JobID:           job.ID,
		JobType:         job.Type,
		Status:          job.Status,
	}
}
