package gateway

import (
	"context"
	"fmt"

	"github.com/commerceqb/gateway/internal/domain/commerce"
	"github.com/commerceqb/gateway/internal/domain/export"
	"github.com/commerceqb/gateway/internal/infrastructure/qbxml"
)

// Attacher writes the identifiers QuickBooks assigned back onto the
// business object a resolved job exported
type Attacher struct {
	customers  commerce.CustomerRepository
	variations commerce.ProductVariationRepository
	orders     commerce.OrderRepository
	payments   commerce.PaymentRepository
}

// NewAttacher creates a new Attacher
func NewAttacher(
	customers commerce.CustomerRepository,
	variations commerce.ProductVariationRepository,
	orders commerce.OrderRepository,
	payments commerce.PaymentRepository,
) *Attacher {
	return &Attacher{
		customers:  customers,
		variations: variations,
		orders:     orders,
		payments:   payments,
	}
}

// Attach dispatches to the job type's identifier-attachment step.
// Empty reference maps are a no-op.
func (a *Attacher) Attach(ctx context.Context, job *export.Job, refs map[string]string) error {
	if len(refs) == 0 {
		return nil
	}

	switch job.Type {
	case export.JobTypeAddCustomer:
		return a.attachCustomer(ctx, job, refs)
	case export.JobTypeAddInventoryProduct, export.JobTypeAddNonInventoryProduct:
		return a.attachVariation(ctx, job, refs)
	case export.JobTypeAddInvoice, export.JobTypeModInvoice, export.JobTypeAddSalesReceipt:
		return a.attachOrder(ctx, job, refs)
	case export.JobTypeAddPayment:
		return a.attachPayment(ctx, job, refs)
	default:
		return fmt.Errorf("no identifier attacher for job type %s", job.Type)
	}
}

func (a *Attacher) attachCustomer(ctx context.Context, job *export.Job, refs map[string]string) error {
	listID := refs[qbxml.RefListID]
	if listID == "" {
		return nil
	}

	customer, err := a.customers.FindByID(ctx, job.Subject.ID)
	if err != nil {
		return err
	}
	if err := customer.AttachQuickBooksID(listID); err != nil {
		return err
	}
	return a.customers.Update(ctx, customer)
}

func (a *Attacher) attachVariation(ctx context.Context, job *export.Job, refs map[string]string) error {
	listID := refs[qbxml.RefListID]
	if listID == "" {
		return nil
	}

	variation, err := a.variations.FindByID(ctx, job.Subject.ID)
	if err != nil {
		return err
	}
	if err := variation.AttachQuickBooksID(listID); err != nil {
		return err
	}
	return a.variations.Update(ctx, variation)
}

func (a *Attacher) attachOrder(ctx context.Context, job *export.Job, refs map[string]string) error {
	txnID := refs[qbxml.RefTxnID]
	if txnID == "" {
		return nil
	}

	order, err := a.orders.FindByID(ctx, job.Subject.ID)
	if err != nil {
		return err
	}
	if err := order.AttachQuickBooksRefs(txnID, refs[qbxml.RefEditSequence]); err != nil {
		return err
	}
	return a.orders.Update(ctx, order)
}

func (a *Attacher) attachPayment(ctx context.Context, job *export.Job, refs map[string]string) error {
	txnID := refs[qbxml.RefTxnID]
	if txnID == "" {
		return nil
	}

	payment, err := a.payments.FindByID(ctx, job.Subject.ID)
	if err != nil {
		return err
	}
	if err := payment.AttachQuickBooksID(txnID); err != nil {
		return err
	}
	return a.payments.Update(ctx, payment)
}
