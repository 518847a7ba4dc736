package commerce

import (
	"strings"
	"time"

	"github.com/commerceqb/gateway/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderState represents the order's position in its fulfillment workflow
type OrderState string

const (
	OrderStateDraft     OrderState = "draft"
	OrderStatePlaced    OrderState = "placed"
	OrderStateValidated OrderState = "validated"
	OrderStateFulfilled OrderState = "fulfilled"
	OrderStateCompleted OrderState = "completed"
	OrderStateCanceled  OrderState = "canceled"
)

// Order is a sales order that exports to QuickBooks as an invoice. An order
// that already carries both a QuickBooksID and an EditSequence re-exports as
// an invoice modification instead of a new invoice.
type Order struct {
	shared.BaseAggregateRoot
	Number                 string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	State                  OrderState      `gorm:"type:varchar(20);not null;default:'draft'"`
	Items                  []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal               decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxTotal               decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Total                  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PlacedAt               *time.Time
	QuickBooksID           string `gorm:"type:varchar(50);index"`
	QuickBooksEditSequence string `gorm:"type:varchar(50)"`
}

// OrderItem is one line of an order
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariationID uuid.UUID       `gorm:"type:uuid;not null"`
	SKU         string          `gorm:"type:varchar(100);not null"`
	Title       string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrder creates a draft order for a customer
func NewOrder(number string, customerID uuid.UUID) (*Order, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Order requires a number")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Order requires a customer")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		CustomerID:        customerID,
		State:             OrderStateDraft,
		Subtotal:          decimal.Zero,
		TaxTotal:          decimal.Zero,
		Total:             decimal.Zero,
	}, nil
}

// AddItem appends a line and recalculates totals
func (o *Order) AddItem(variation *ProductVariation, quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	o.Items = append(o.Items, OrderItem{
		ID:          uuid.New(),
		OrderID:     o.ID,
		VariationID: variation.ID,
		SKU:         variation.SKU,
		Title:       variation.Title,
		Quantity:    quantity,
		UnitPrice:   variation.Price,
	})
	o.recalculate()
	return nil
}

func (o *Order) recalculate() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	o.Subtotal = subtotal
	o.Total = subtotal.Add(o.TaxTotal)
	o.UpdatedAt = time.Now()
}

// TransitionTo moves the order to a new workflow state and publishes the
// matching domain event so the export queue can react
func (o *Order) TransitionTo(state OrderState) error {
	switch state {
	case OrderStateDraft, OrderStatePlaced, OrderStateValidated,
		OrderStateFulfilled, OrderStateCompleted, OrderStateCanceled:
	default:
		return shared.NewDomainError("INVALID_STATE", "Unknown order state: "+string(state))
	}

	from := o.State
	o.State = state
	o.UpdatedAt = time.Now()
	if state == OrderStatePlaced && o.PlacedAt == nil {
		now := time.Now()
		o.PlacedAt = &now
	}
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderTransitionedEvent(o, from, state))
	return nil
}

// IsExported reports whether the order already carries a QuickBooks reference
func (o *Order) IsExported() bool {
	return o.QuickBooksID != ""
}

// IsModifiable reports whether a re-export must go out as an invoice
// modification rather than a new invoice
func (o *Order) IsModifiable() bool {
	return o.QuickBooksID != "" && o.QuickBooksEditSequence != ""
}

// AttachQuickBooksRefs writes the TxnID and EditSequence returned by the
// accounting side after an invoice add or mod
func (o *Order) AttachQuickBooksRefs(txnID, editSequence string) error {
	if txnID == "" {
		return shared.NewDomainError("INVALID_REFERENCE", "QuickBooks TxnID cannot be empty")
	}
	o.QuickBooksID = txnID
	if editSequence != "" {
		o.QuickBooksEditSequence = editSequence
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}
