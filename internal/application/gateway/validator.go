package gateway

import (
	"context"

	"github.com/commerceqb/gateway/internal/domain/commerce"
	"github.com/commerceqb/gateway/internal/domain/export"
)

// ValidateFunc decides whether a claimed job is still fit for export.
// Returning false deletes the job; the error channel is for storage failures.
type ValidateFunc func(ctx context.Context, job *export.Job) (bool, error)

// ValidatorRegistry admits jobs into dispatch. Types with no registered
// predicate are always valid.
type ValidatorRegistry struct {
	validators map[export.JobType]ValidateFunc
}

// NewValidatorRegistry creates an empty registry
func NewValidatorRegistry() *ValidatorRegistry {
	return &ValidatorRegistry{validators: make(map[export.JobType]ValidateFunc)}
}

// Register installs the predicate for a job type, replacing any previous one
func (r *ValidatorRegistry) Register(jobType export.JobType, fn ValidateFunc) {
	r.validators[jobType] = fn
}

// Validate runs the type's predicate, if any
func (r *ValidatorRegistry) Validate(ctx context.Context, job *export.Job) (bool, error) {
	fn, ok := r.validators[job.Type]
	if !ok {
		return true, nil
	}
	return fn(ctx, job)
}

// DefaultValidators builds the registry for the business-critical types.
// Orders must still exist, carry lines and not be canceled; modification
// requires the QuickBooks references a prior add produced; payments must
// still exist and be captured.
func DefaultValidators(
	customers commerce.CustomerRepository,
	variations commerce.ProductVariationRepository,
	orders commerce.OrderRepository,
	payments commerce.PaymentRepository,
) *ValidatorRegistry {
	r := NewValidatorRegistry()

	r.Register(export.JobTypeAddCustomer, func(ctx context.Context, job *export.Job) (bool, error) {
		customer, err := customers.FindByID(ctx, job.Subject.ID)
		if err != nil {
			return false, nil
		}
		return customer.FirstName != "" || customer.LastName != "", nil
	})

	productCheck := func(ctx context.Context, job *export.Job) (bool, error) {
		variation, err := variations.FindByID(ctx, job.Subject.ID)
		if err != nil {
			return false, nil
		}
		return variation.SKU != "" && !variation.IsExported(), nil
	}
	r.Register(export.JobTypeAddInventoryProduct, productCheck)
	r.Register(export.JobTypeAddNonInventoryProduct, productCheck)

	r.Register(export.JobTypeAddInvoice, func(ctx context.Context, job *export.Job) (bool, error) {
		order, err := orders.FindByID(ctx, job.Subject.ID)
		if err != nil {
			return false, nil
		}
		return orderExportable(order) && !order.IsExported(), nil
	})

	r.Register(export.JobTypeModInvoice, func(ctx context.Context, job *export.Job) (bool, error) {
		order, err := orders.FindByID(ctx, job.Subject.ID)
		if err != nil {
			return false, nil
		}
		return orderExportable(order) && order.IsModifiable(), nil
	})

	r.Register(export.JobTypeAddSalesReceipt, func(ctx context.Context, job *export.Job) (bool, error) {
		order, err := orders.FindByID(ctx, job.Subject.ID)
		if err != nil {
			return false, nil
		}
		return orderExportable(order), nil
	})

	r.Register(export.JobTypeAddPayment, func(ctx context.Context, job *export.Job) (bool, error) {
		payment, err := payments.FindByID(ctx, job.Subject.ID)
		if err != nil {
			return false, nil
		}
		return payment.State == commerce.PaymentStateCaptured && !payment.IsExported(), nil
	})

	return r
}

func orderExportable(order *commerce.Order) bool {
	return len(order.Items) > 0 && order.State != commerce.OrderStateCanceled
}
