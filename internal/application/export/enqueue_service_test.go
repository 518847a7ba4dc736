package export

import (
	"context"
	"testing"
	"time"

	"github.com/commerceqb/gateway/internal/domain/commerce"
	"github.com/commerceqb/gateway/internal/domain/export"
	"github.com/commerceqb/gateway/internal/domain/shared"
	"github.com/commerceqb/gateway/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockJobRepository is a mock implementation of export.JobRepository
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Create(ctx context.Context, job *export.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*export.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Job), args.Error(1)
}

func (m *MockJobRepository) Exists(ctx context.Context, subject export.SubjectRef, types ...export.JobType) (bool, error) {
	args := m.Called(ctx, subject, types)
	return args.Bool(0), args.Error(1)
}

func (m *MockJobRepository) NextByPriority(ctx context.Context, order export.PriorityOrder) (*export.Job, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Job), args.Error(1)
}

func (m *MockJobRepository) MostRecentExport(ctx context.Context) (*export.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Job), args.Error(1)
}

func (m *MockJobRepository) CountByStatus(ctx context.Context, status export.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobRepository) UpdateStatus(ctx context.Context, job *export.Job, status export.Status) error {
	args := m.Called(ctx, job, status)
	return args.Error(0)
}

func (m *MockJobRepository) MarkExported(ctx context.Context, job *export.Job, ts time.Time) error {
	args := m.Called(ctx, job, ts)
	return args.Error(0)
}

func (m *MockJobRepository) Delete(ctx context.Context, job *export.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) List(ctx context.Context, status *export.Status, limit, offset int) ([]export.Job, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]export.Job), args.Get(1).(int64), args.Error(2)
}

// MockCustomerRepository is a mock implementation of commerce.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *commerce.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *commerce.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// MockProductVariationRepository is a mock implementation of commerce.ProductVariationRepository
type MockProductVariationRepository struct {
	mock.Mock
}

func (m *MockProductVariationRepository) Create(ctx context.Context, variation *commerce.ProductVariation) error {
	args := m.Called(ctx, variation)
	return args.Error(0)
}

func (m *MockProductVariationRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.ProductVariation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.ProductVariation), args.Error(1)
}

func (m *MockProductVariationRepository) Update(ctx context.Context, variation *commerce.ProductVariation) error {
	args := m.Called(ctx, variation)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of commerce.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *commerce.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *commerce.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

type enqueueMocks struct {
	jobs       *MockJobRepository
	customers  *MockCustomerRepository
	variations *MockProductVariationRepository
	orders     *MockOrderRepository
}

func newTestEnqueueService(t *testing.T, cfg config.QuickBooksConfig) (*EnqueueService, *enqueueMocks) {
	t.Helper()
	m := &enqueueMocks{
		jobs:       new(MockJobRepository),
		customers:  new(MockCustomerRepository),
		variations: new(MockProductVariationRepository),
		orders:     new(MockOrderRepository),
	}
	svc := NewEnqueueService(m.jobs, m.customers, m.variations, m.orders, cfg, zap.NewNop())
	return svc, m
}

// enqueuedTypes returns the job types passed to Create, in call order
func enqueuedTypes(m *MockJobRepository) []export.JobType {
	var types []export.JobType
	for _, call := range m.Calls {
		if call.Method == "Create" {
			types = append(types, call.Arguments.Get(1).(*export.Job).Type)
		}
	}
	return types
}

func newTestVariation(t *testing.T) *commerce.ProductVariation {
	t.Helper()
	variation, err := commerce.NewProductVariation("SKU-100", "Widget", decimal.NewFromFloat(9.99))
	require.NoError(t, err)
	return variation
}

func completedOrderEvent(t *testing.T, m *enqueueMocks) (*commerce.OrderTransitionedEvent, *commerce.Order, *commerce.Customer, *commerce.ProductVariation) {
	t.Helper()

	customer, err := commerce.NewCustomer("Ada", "Lovelace", "ada@example.com")
	require.NoError(t, err)
	variation := newTestVariation(t)

	order, err := commerce.NewOrder("ORD-1001", customer.ID)
	require.NoError(t, err)
	require.NoError(t, order.AddItem(variation, 2))

	event := commerce.NewOrderTransitionedEvent(order, commerce.OrderStateFulfilled, commerce.OrderStateCompleted)

	m.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	m.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	m.variations.On("FindByID", mock.Anything, variation.ID).Return(variation, nil)

	return event, order, customer, variation
}

func TestEnqueueService_EventTypes(t *testing.T) {
	svc, _ := newTestEnqueueService(t, config.QuickBooksConfig{})
	assert.ElementsMatch(t, []string{
		commerce.EventTypeOrderTransitioned,
		commerce.EventTypePaymentCaptured,
		commerce.EventTypeProductUpserted,
	}, svc.EventTypes())
}

func TestEnqueueService_OrderTransitioned(t *testing.T) {
	ctx := context.Background()

	t.Run("completed order cascades customer, product, invoice", func(t *testing.T) {
		svc, m := newTestEnqueueService(t, config.QuickBooksConfig{})
		event, _, _, _ := completedOrderEvent(t, m)

		m.jobs.On("Exists", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
		m.jobs.On("Create", mock.Anything, mock.AnythingOfType("*export.Job")).Return(nil)

		require.NoError(t, svc.Handle(ctx, event))

		assert.Equal(t, []export.JobType{
			export.JobTypeAddCustomer,
			export.JobTypeAddInventoryProduct,
			export.JobTypeAddInvoice,
		}, enqueuedTypes(m.jobs))
	})

	t.Run("order already in QuickBooks re-exports as a modification", func(t *testing.T) {
		svc, m := newTestEnqueueService(t, config.QuickBooksConfig{})
		event, order, _, _ := completedOrderEvent(t, m)
		require.NoError(t, order.AttachQuickBooksRefs("5D3-1718", "1718801898"))

		m.jobs.On("Exists", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
		m.jobs.On("Create", mock.Anything, mock.AnythingOfType("*export.Job")).Return(nil)

		require.NoError(t, svc.Handle(ctx, event))

		types := enqueuedTypes(m.jobs)
		assert.Contains(t, types, export.JobTypeModInvoice)
		assert.NotContains(t, types, export.JobTypeAddInvoice)
	})

	t.Run("canceled orders never enqueue", func(t *testing.T) {
		svc, m := newTestEnqueueService(t, config.QuickBooksConfig{})

		order, err := commerce.NewOrder("ORD-1002", uuid.New())
		require.NoError(t, err)
		event := commerce.NewOrderTransitionedEvent(order, commerce.OrderStatePlaced, commerce.OrderStateCanceled)

		require.NoError(t, svc.Handle(ctx, event))
		m.jobs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("incomplete orders do not export a new invoice", func(t *testing.T) {
		svc, m := newTestEnqueueService(t, config.QuickBooksConfig{})
		event, _, _, _ := completedOrderEvent(t, m)
		event.ToState = commerce.OrderStateValidated

		require.NoError(t, svc.Handle(ctx, event))
		m.jobs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("disabled invoice export is a no-op", func(t *testing.T) {
		cfg := config.QuickBooksConfig{Exportables: map[string]bool{"add_invoice": false}}
		svc, m := newTestEnqueueService(t, cfg)
		event, _, _, _ := completedOrderEvent(t, m)

		require.NoError(t, svc.Handle(ctx, event))
		m.jobs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("already exported customer and queued product are skipped", func(t *testing.T) {
		svc, m := newTestEnqueueService(t, config.QuickBooksConfig{})
		event, _, customer, variation := completedOrderEvent(t, m)
		require.NoError(t, customer.AttachQuickBooksID("80000001-1622"))

		productSubject := export.SubjectRef{Kind: export.SubjectKindProduct, ID: variation.ID}
		m.jobs.On("Exists", mock.Anything, productSubject, mock.Anything).Return(true, nil)
		m.jobs.On("Create", mock.Anything, mock.AnythingOfType("*export.Job")).Return(nil)

		require.NoError(t, svc.Handle(ctx, event))

		assert.Equal(t, []export.JobType{export.JobTypeAddInvoice}, enqueuedTypes(m.jobs))
	})
}

func TestEnqueueService_PaymentCaptured(t *testing.T) {
	ctx := context.Background()

	newEvent := func(t *testing.T) *commerce.PaymentCapturedEvent {
		t.Helper()
		payment, err := commerce.NewPayment(uuid.New(), decimal.NewFromFloat(49.5), "credit_card")
		require.NoError(t, err)
		return commerce.NewPaymentCapturedEvent(payment)
	}

	t.Run("queues a sales receipt and a payment", func(t *testing.T) {
		svc, m := newTestEnqueueService(t, config.QuickBooksConfig{})
		m.jobs.On("Create", mock.Anything, mock.AnythingOfType("*export.Job")).Return(nil)

		require.NoError(t, svc.Handle(ctx, newEvent(t)))

		assert.Equal(t, []export.JobType{
			export.JobTypeAddSalesReceipt,
			export.JobTypeAddPayment,
		}, enqueuedTypes(m.jobs))
	})

	t.Run("honors the per-type toggles", func(t *testing.T) {
		cfg := config.QuickBooksConfig{Exportables: map[string]bool{"add_payment": false}}
		svc, m := newTestEnqueueService(t, cfg)
		m.jobs.On("Create", mock.Anything, mock.AnythingOfType("*export.Job")).Return(nil)

		require.NoError(t, svc.Handle(ctx, newEvent(t)))

		assert.Equal(t, []export.JobType{export.JobTypeAddSalesReceipt}, enqueuedTypes(m.jobs))
	})
}

func TestEnqueueService_ProductUpserted(t *testing.T) {
	ctx := context.Background()

	t.Run("inventory-tracked variation queues an inventory product", func(t *testing.T) {
		svc, m := newTestEnqueueService(t, config.QuickBooksConfig{})
		variation := newTestVariation(t)

		m.variations.On("FindByID", mock.Anything, variation.ID).Return(variation, nil)
		m.jobs.On("Exists", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
		m.jobs.On("Create", mock.Anything, mock.AnythingOfType("*export.Job")).Return(nil)

		require.NoError(t, svc.Handle(ctx, commerce.NewProductUpsertedEvent(variation)))

		assert.Equal(t, []export.JobType{export.JobTypeAddInventoryProduct}, enqueuedTypes(m.jobs))
	})

	t.Run("untracked variation queues a non-inventory product", func(t *testing.T) {
		svc, m := newTestEnqueueService(t, config.QuickBooksConfig{})
		variation := newTestVariation(t)
		variation.TracksInventory = false

		m.variations.On("FindByID", mock.Anything, variation.ID).Return(variation, nil)
		m.jobs.On("Exists", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
		m.jobs.On("Create", mock.Anything, mock.AnythingOfType("*export.Job")).Return(nil)

		require.NoError(t, svc.Handle(ctx, commerce.NewProductUpsertedEvent(variation)))

		assert.Equal(t, []export.JobType{export.JobTypeAddNonInventoryProduct}, enqueuedTypes(m.jobs))
	})

	t.Run("variation without a SKU is skipped", func(t *testing.T) {
		svc, m := newTestEnqueueService(t, config.QuickBooksConfig{})
		variation := newTestVariation(t)
		variation.SKU = ""

		m.variations.On("FindByID", mock.Anything, variation.ID).Return(variation, nil)

		require.NoError(t, svc.Handle(ctx, commerce.NewProductUpsertedEvent(variation)))
		m.jobs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("already exported variation is skipped", func(t *testing.T) {
		svc, m := newTestEnqueueService(t, config.QuickBooksConfig{})
		variation := newTestVariation(t)
		require.NoError(t, variation.AttachQuickBooksID("80000002-1622"))

		m.variations.On("FindByID", mock.Anything, variation.ID).Return(variation, nil)

		require.NoError(t, svc.Handle(ctx, commerce.NewProductUpsertedEvent(variation)))
		m.jobs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestEnqueueService_UnexpectedEvent(t *testing.T) {
	svc, _ := newTestEnqueueService(t, config.QuickBooksConfig{})

	event := shared.NewBaseDomainEvent("SomethingElse", "Other", uuid.New())
	err := svc.Handle(context.Background(), &event)
	assert.Error(t, err)
}
