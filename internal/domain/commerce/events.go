package commerce

import (
	"github.com/commerceqb/gateway/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeOrder   = "Order"
	AggregateTypePayment = "Payment"
	AggregateTypeProduct = "ProductVariation"
)

// Event type constants
const (
	EventTypeOrderTransitioned = "OrderTransitioned"
	EventTypePaymentCaptured   = "PaymentCaptured"
	EventTypeProductUpserted   = "ProductVariationUpserted"
)

// OrderTransitionedEvent is published when an order moves between workflow states
type OrderTransitionedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID  `json:"order_id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	FromState  OrderState `json:"from_state"`
	ToState    OrderState `json:"to_state"`
}

// NewOrderTransitionedEvent creates a new OrderTransitionedEvent
func NewOrderTransitionedEvent(order *Order, from, to OrderState) *OrderTransitionedEvent {
	return &OrderTransitionedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderTransitioned, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		CustomerID:      order.CustomerID,
		FromState:       from,
		ToState:         to,
	}
}

// PaymentCapturedEvent is published when a payment is captured
type PaymentCapturedEvent struct {
	shared.BaseDomainEvent
	PaymentID uuid.UUID `json:"payment_id"`
	OrderID   uuid.UUID `json:"order_id"`
}

// NewPaymentCapturedEvent creates a new PaymentCapturedEvent
func NewPaymentCapturedEvent(payment *Payment) *PaymentCapturedEvent {
	return &PaymentCapturedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCaptured, AggregateTypePayment, payment.ID),
		PaymentID:       payment.ID,
		OrderID:         payment.OrderID,
	}
}

// ProductUpsertedEvent is published when a variation is created or updated
type ProductUpsertedEvent struct {
	shared.BaseDomainEvent
	VariationID uuid.UUID `json:"variation_id"`
	SKU         string    `json:"sku"`
}

// NewProductUpsertedEvent creates a new ProductUpsertedEvent
func NewProductUpsertedEvent(p *ProductVariation) *ProductUpsertedEvent {
	return &ProductUpsertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpserted, AggregateTypeProduct, p.ID),
		VariationID:     p.ID,
		SKU:             p.SKU,
	}
}
