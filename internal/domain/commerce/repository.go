package commerce

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository persists customers
type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	Update(ctx context.Context, customer *Customer) error
}

// ProductVariationRepository persists product variations
type ProductVariationRepository interface {
	Create(ctx context.Context, variation *ProductVariation) error
	FindByID(ctx context.Context, id uuid.UUID) (*ProductVariation, error)
	Update(ctx context.Context, variation *ProductVariation) error
}

// OrderRepository persists orders with their line items
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	Update(ctx context.Context, order *Order) error
}

// PaymentRepository persists payments
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	Update(ctx context.Context, payment *Payment) error
}

// UserRepository persists web-connector principals
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, user *User) error
}
