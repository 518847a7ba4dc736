package commerce

import (
	"time"

	"github.com/commerceqb/gateway/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentState represents the payment's workflow position
type PaymentState string

const (
	PaymentStateAuthorized PaymentState = "authorized"
	PaymentStateCaptured   PaymentState = "captured"
	PaymentStateRefunded   PaymentState = "refunded"
	PaymentStateVoided     PaymentState = "voided"
)

// Payment is a captured payment against an order. It exports to QuickBooks
// as a ReceivePayment transaction.
type Payment struct {
	shared.BaseAggregateRoot
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method       string          `gorm:"type:varchar(50);not null"`
	ReferenceNum string          `gorm:"type:varchar(50)"`
	State        PaymentState    `gorm:"type:varchar(20);not null;default:'authorized'"`
	CapturedAt   *time.Time
	QuickBooksID string `gorm:"type:varchar(50);index"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates an authorized payment against an order
func NewPayment(orderID uuid.UUID, amount decimal.Decimal, method string) (*Payment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Payment requires an order")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if method == "" {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment requires a method")
	}

	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		Amount:            amount,
		Method:            method,
		State:             PaymentStateAuthorized,
	}, nil
}

// Capture marks the payment captured and publishes the capture event
func (p *Payment) Capture() error {
	if p.State != PaymentStateAuthorized {
		return shared.ErrInvalidState
	}
	now := time.Now()
	p.State = PaymentStateCaptured
	p.CapturedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentCapturedEvent(p))
	return nil
}

// IsExported reports whether the payment already carries a QuickBooks reference
func (p *Payment) IsExported() bool {
	return p.QuickBooksID != ""
}

// AttachQuickBooksID writes the TxnID returned by the accounting side
func (p *Payment) AttachQuickBooksID(txnID string) error {
	if txnID == "" {
		return shared.NewDomainError("INVALID_REFERENCE", "QuickBooks TxnID cannot be empty")
	}
	p.QuickBooksID = txnID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}
