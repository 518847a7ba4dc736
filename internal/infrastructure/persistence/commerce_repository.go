package persistence

import (
	"context"
	"errors"

	"github.com/commerceqb/gateway/internal/domain/commerce"
	"github.com/commerceqb/gateway/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The commerce entities carry their own GORM tags, so the repositories
// persist them directly without a separate model layer.

// GormCustomerRepository implements commerce.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) Create(ctx context.Context, customer *commerce.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Customer, error) {
	var customer commerce.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &customer, nil
}

func (r *GormCustomerRepository) Update(ctx context.Context, customer *commerce.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// GormProductVariationRepository implements commerce.ProductVariationRepository using GORM
type GormProductVariationRepository struct {
	db *gorm.DB
}

// NewGormProductVariationRepository creates a new GormProductVariationRepository
func NewGormProductVariationRepository(db *gorm.DB) *GormProductVariationRepository {
	return &GormProductVariationRepository{db: db}
}

func (r *GormProductVariationRepository) Create(ctx context.Context, variation *commerce.ProductVariation) error {
	return r.db.WithContext(ctx).Create(variation).Error
}

func (r *GormProductVariationRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.ProductVariation, error) {
	var variation commerce.ProductVariation
	if err := r.db.WithContext(ctx).First(&variation, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &variation, nil
}

func (r *GormProductVariationRepository) Update(ctx context.Context, variation *commerce.ProductVariation) error {
	return r.db.WithContext(ctx).Save(variation).Error
}

// GormOrderRepository implements commerce.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, order *commerce.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Order, error) {
	var order commerce.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &order, nil
}

func (r *GormOrderRepository) Update(ctx context.Context, order *commerce.Order) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
}

// GormPaymentRepository implements commerce.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) Create(ctx context.Context, payment *commerce.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Payment, error) {
	var payment commerce.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &payment, nil
}

func (r *GormPaymentRepository) Update(ctx context.Context, payment *commerce.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// GormUserRepository implements commerce.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *commerce.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.User, error) {
	var user commerce.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*commerce.User, error) {
	var user commerce.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *GormUserRepository) Update(ctx context.Context, user *commerce.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

var (
	_ commerce.CustomerRepository         = (*GormCustomerRepository)(nil)
	_ commerce.ProductVariationRepository = (*GormProductVariationRepository)(nil)
	_ commerce.OrderRepository            = (*GormOrderRepository)(nil)
	_ commerce.PaymentRepository          = (*GormPaymentRepository)(nil)
	_ commerce.UserRepository             = (*GormUserRepository)(nil)
)
