package export

import (
	"context"
	"fmt"

	"github.com/commerceqb/gateway/internal/domain/commerce"
	"github.com/commerceqb/gateway/internal/domain/export"
	"github.com/commerceqb/gateway/internal/domain/shared"
	"github.com/commerceqb/gateway/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EnqueueService listens for commerce events and feeds the export queue.
// An order completion cascades into customer and product exports before the
// invoice itself so QuickBooks receives referenced records first.
type EnqueueService struct {
	jobs       export.JobRepository
	customers  commerce.CustomerRepository
	variations commerce.ProductVariationRepository
	orders     commerce.OrderRepository
	cfg        config.QuickBooksConfig
	logger     *zap.Logger
}

// NewEnqueueService creates a new EnqueueService
func NewEnqueueService(
	jobs export.JobRepository,
	customers commerce.CustomerRepository,
	variations commerce.ProductVariationRepository,
	orders commerce.OrderRepository,
	cfg config.QuickBooksConfig,
	logger *zap.Logger,
) *EnqueueService {
	return &EnqueueService{
		jobs:       jobs,
		customers:  customers,
		variations: variations,
		orders:     orders,
		cfg:        cfg,
		logger:     logger,
	}
}

// EventTypes returns the commerce events the service reacts to
func (s *EnqueueService) EventTypes() []string {
	return []string{
		commerce.EventTypeOrderTransitioned,
		commerce.EventTypePaymentCaptured,
		commerce.EventTypeProductUpserted,
	}
}

// Handle dispatches one commerce event
func (s *EnqueueService) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *commerce.OrderTransitionedEvent:
		return s.onOrderTransitioned(ctx, e)
	case *commerce.PaymentCapturedEvent:
		return s.onPaymentCaptured(ctx, e)
	case *commerce.ProductUpsertedEvent:
		return s.onProductUpserted(ctx, e)
	default:
		return fmt.Errorf("unexpected event type %s", event.EventType())
	}
}

func (s *EnqueueService) onOrderTransitioned(ctx context.Context, event *commerce.OrderTransitionedEvent) error {
	// Canceled orders never export.
	if event.ToState == commerce.OrderStateCanceled {
		return nil
	}

	order, err := s.orders.FindByID(ctx, event.OrderID)
	if err != nil {
		return err
	}

	exportType := export.JobTypeAddInvoice
	if order.IsModifiable() {
		exportType = export.JobTypeModInvoice
	}

	if !s.cfg.ExportableEnabled(string(exportType)) {
		return nil
	}

	// An incomplete invoice must not go out; modifications may re-export
	// from any non-canceled state.
	if exportType == export.JobTypeAddInvoice && event.ToState != commerce.OrderStateCompleted {
		return nil
	}

	if err := s.enqueueCustomer(ctx, order.CustomerID); err != nil {
		return err
	}

	for _, item := range order.Items {
		if err := s.enqueueProduct(ctx, item.VariationID); err != nil {
			return err
		}
	}

	subject := export.SubjectRef{Kind: export.SubjectKindOrder, ID: order.ID}
	if err := s.enqueue(ctx, exportType, subject); err != nil {
		return err
	}

	s.logger.Info("invoice export queued",
		zap.String("order_id", order.ID.String()),
		zap.String("job_type", string(exportType)),
	)
	return nil
}

func (s *EnqueueService) onPaymentCaptured(ctx context.Context, event *commerce.PaymentCapturedEvent) error {
	if s.cfg.ExportableEnabled(string(export.JobTypeAddSalesReceipt)) {
		subject := export.SubjectRef{Kind: export.SubjectKindOrder, ID: event.OrderID}
		if err := s.enqueue(ctx, export.JobTypeAddSalesReceipt, subject); err != nil {
			return err
		}
		s.logger.Info("sales receipt export queued", zap.String("order_id", event.OrderID.String()))
	}

	if s.cfg.ExportableEnabled(string(export.JobTypeAddPayment)) {
		subject := export.SubjectRef{Kind: export.SubjectKindPayment, ID: event.PaymentID}
		if err := s.enqueue(ctx, export.JobTypeAddPayment, subject); err != nil {
			return err
		}
		s.logger.Info("payment export queued", zap.String("payment_id", event.PaymentID.String()))
	}

	return nil
}

func (s *EnqueueService) onProductUpserted(ctx context.Context, event *commerce.ProductUpsertedEvent) error {
	return s.enqueueProduct(ctx, event.VariationID)
}

// enqueueCustomer queues a customer export unless the customer is already in
// QuickBooks or already queued
func (s *EnqueueService) enqueueCustomer(ctx context.Context, customerID uuid.UUID) error {
	if !s.cfg.ExportableEnabled(string(export.JobTypeAddCustomer)) {
		return nil
	}

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return err
	}
	if customer.IsExported() {
		return nil
	}

	subject := export.SubjectRef{Kind: export.SubjectKindCustomer, ID: customer.ID}
	queued, err := s.jobs.Exists(ctx, subject, export.JobTypeAddCustomer)
	if err != nil {
		return err
	}
	if queued {
		return nil
	}

	if err := s.enqueue(ctx, export.JobTypeAddCustomer, subject); err != nil {
		return err
	}
	s.logger.Info("customer export queued", zap.String("customer_id", customer.ID.String()))
	return nil
}

// enqueueProduct queues a product export for variations that carry a SKU,
// have no QuickBooks reference yet and are not already queued
func (s *EnqueueService) enqueueProduct(ctx context.Context, variationID uuid.UUID) error {
	variation, err := s.variations.FindByID(ctx, variationID)
	if err != nil {
		return err
	}

	jobType := export.JobTypeAddInventoryProduct
	if !variation.TracksInventory {
		jobType = export.JobTypeAddNonInventoryProduct
	}

	if !s.cfg.ExportableEnabled(string(jobType)) {
		return nil
	}
	if variation.SKU == "" || variation.IsExported() {
		return nil
	}

	subject := export.SubjectRef{Kind: export.SubjectKindProduct, ID: variation.ID}
	queued, err := s.jobs.Exists(ctx, subject,
		export.JobTypeAddInventoryProduct, export.JobTypeAddNonInventoryProduct)
	if err != nil {
		return err
	}
	if queued {
		return nil
	}

	if err := s.enqueue(ctx, jobType, subject); err != nil {
		return err
	}
	s.logger.Info("product export queued",
		zap.String("variation_id", variation.ID.String()),
		zap.String("sku", variation.SKU),
	)
	return nil
}

func (s *EnqueueService) enqueue(ctx context.Context, jobType export.JobType, subject export.SubjectRef) error {
	job, err := export.NewJob(jobType, subject)
	if err != nil {
		return err
	}
	return s.jobs.Create(ctx, job)
}
