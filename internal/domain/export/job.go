package export

import (
	"time"

	"github.com/commerceqb/gateway/internal/domain/shared"
	"github.com/google/uuid"
)

// JobType identifies the kind of QuickBooks request a job produces
type JobType string

const (
	JobTypeAddCustomer            JobType = "add_customer"
	JobTypeAddInventoryProduct    JobType = "add_inventory_product"
	JobTypeAddNonInventoryProduct JobType = "add_non_inventory_product"
	JobTypeAddInvoice             JobType = "add_invoice"
	JobTypeModInvoice             JobType = "mod_invoice"
	JobTypeAddSalesReceipt        JobType = "add_sales_receipt"
	JobTypeAddPayment             JobType = "add_payment"
)

// AllJobTypes lists every exportable job type
var AllJobTypes = []JobType{
	JobTypeAddCustomer,
	JobTypeAddInventoryProduct,
	JobTypeAddNonInventoryProduct,
	JobTypeAddInvoice,
	JobTypeModInvoice,
	JobTypeAddSalesReceipt,
	JobTypeAddPayment,
}

// IsValidJobType reports whether t is a member of the exportable enumeration
func IsValidJobType(t JobType) bool {
	for _, jt := range AllJobTypes {
		if jt == t {
			return true
		}
	}
	return false
}

// Status represents the export status of a job
type Status string

const (
	StatusPending Status = "PENDING"
	StatusDone    Status = "DONE"
	StatusFailed  Status = "FAILED"
)

// IsValidStatus reports whether s is one of the three permitted status codes
func IsValidStatus(s Status) bool {
	return s == StatusPending || s == StatusDone || s == StatusFailed
}

// SubjectRef identifies the business object a job exports.
// It is read-only after job creation.
type SubjectRef struct {
	Kind string    `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

// Subject kinds referenced by export jobs
const (
	SubjectKindCustomer = "customer"
	SubjectKindProduct  = "product_variation"
	SubjectKindOrder    = "order"
	SubjectKindPayment  = "payment"
)

// Job is one unit of export work tied to a business object and a job type.
// It is the aggregate root of the export queue.
type Job struct {
	shared.BaseAggregateRoot
	Type       JobType
	Status     Status
	Subject    SubjectRef
	ExportedAt *time.Time
}

// NewJob creates a pending export job for the given subject
func NewJob(jobType JobType, subject SubjectRef) (*Job, error) {
	if !IsValidJobType(jobType) {
		return nil, shared.NewDomainError("INVALID_JOB_TYPE", "Unknown export job type: "+string(jobType))
	}
	if subject.Kind == "" || subject.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Export job requires a subject reference")
	}

	job := &Job{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              jobType,
		Status:            StatusPending,
		Subject:           subject,
	}

	job.AddDomainEvent(NewJobQueuedEvent(job))

	return job, nil
}

// SetStatus transitions the job to the given status.
// Unrecognized codes are rejected outright.
func (j *Job) SetStatus(status Status) error {
	if !IsValidStatus(status) {
		return shared.NewDomainError("INVALID_STATUS", "Unknown export status: "+string(status))
	}
	j.Status = status
	j.UpdatedAt = time.Now()
	return nil
}

// MarkExported stamps the time of the most recent export attempt
func (j *Job) MarkExported(ts time.Time) {
	j.ExportedAt = &ts
	j.UpdatedAt = time.Now()
}

// Resolve finalizes the job after a completed round trip.
// A resolved job never transitions back to PENDING.
func (j *Job) Resolve(status Status) error {
	if status != StatusDone && status != StatusFailed {
		return shared.NewDomainError("INVALID_STATUS", "A job resolves to DONE or FAILED only")
	}
	if err := j.SetStatus(status); err != nil {
		return err
	}
	j.AddDomainEvent(NewJobResolvedEvent(j))
	return nil
}

// IsPending reports whether the job is still waiting for export
func (j *Job) IsPending() bool {
	return j.Status == StatusPending
}
