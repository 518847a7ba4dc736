package export

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JobRepository is the durable priority queue and status ledger over export jobs
type JobRepository interface {
	// Create inserts a new job into the queue
	Create(ctx context.Context, job *Job) error

	// FindByID loads one job
	FindByID(ctx context.Context, id uuid.UUID) (*Job, error)

	// Exists reports whether any job references the subject, optionally
	// restricted to the given job types
	Exists(ctx context.Context, subject SubjectRef, types ...JobType) (bool, error)

	// NextByPriority scans the priority order in sequence and returns the
	// oldest PENDING job of the first type that has one. An empty order falls
	// back to the oldest pending job of any type. Returns nil when the queue
	// is drained. The scan and claim are serialized per call.
	NextByPriority(ctx context.Context, order PriorityOrder) (*Job, error)

	// MostRecentExport returns the job with the maximum non-null exported_at,
	// or nil when no job has been exported yet. Correct only under the
	// one-job-in-flight processing model.
	MostRecentExport(ctx context.Context) (*Job, error)

	// CountByStatus returns the number of jobs in the given status
	CountByStatus(ctx context.Context, status Status) (int64, error)

	// UpdateStatus persists a status transition
	UpdateStatus(ctx context.Context, job *Job, status Status) error

	// MarkExported stamps the export-attempt timestamp
	MarkExported(ctx context.Context, job *Job, ts time.Time) error

	// Delete removes a job from the queue
	Delete(ctx context.Context, job *Job) error

	// List returns jobs filtered by optional status, newest first
	List(ctx context.Context, status *Status, limit, offset int) ([]Job, int64, error)
}
