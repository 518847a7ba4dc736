package commerce

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVariation(t *testing.T, sku string, price float64) *ProductVariation {
	t.Helper()
	v, err := NewProductVariation(sku, "Variation "+sku, decimal.NewFromFloat(price))
	require.NoError(t, err)
	return v
}

func TestOrder_AddItem(t *testing.T) {
	order, err := NewOrder("ORD-1001", uuid.New())
	require.NoError(t, err)

	require.NoError(t, order.AddItem(newTestVariation(t, "SKU-A", 10.50), 2))
	require.NoError(t, order.AddItem(newTestVariation(t, "SKU-B", 5), 1))

	assert.Len(t, order.Items, 2)
	assert.True(t, order.Subtotal.Equal(decimal.NewFromFloat(26)), "subtotal was %s", order.Subtotal)
	assert.True(t, order.Total.Equal(decimal.NewFromFloat(26)))

	assert.Error(t, order.AddItem(newTestVariation(t, "SKU-C", 1), 0))
}

func TestOrder_TransitionTo(t *testing.T) {
	t.Run("publishes transition event", func(t *testing.T) {
		order, err := NewOrder("ORD-1002", uuid.New())
		require.NoError(t, err)

		require.NoError(t, order.TransitionTo(OrderStatePlaced))
		require.NoError(t, order.TransitionTo(OrderStateCompleted))

		events := order.GetDomainEvents()
		require.Len(t, events, 2)

		last, ok := events[1].(*OrderTransitionedEvent)
		require.True(t, ok)
		assert.Equal(t, OrderStatePlaced, last.FromState)
		assert.Equal(t, OrderStateCompleted, last.ToState)
		assert.NotNil(t, order.PlacedAt)
	})

	t.Run("rejects unknown state", func(t *testing.T) {
		order, err := NewOrder("ORD-1003", uuid.New())
		require.NoError(t, err)
		assert.Error(t, order.TransitionTo(OrderState("shipped?")))
	})
}

func TestOrder_IsModifiable(t *testing.T) {
	order, err := NewOrder("ORD-1004", uuid.New())
	require.NoError(t, err)

	assert.False(t, order.IsModifiable())

	require.NoError(t, order.AttachQuickBooksRefs("TXN-1", ""))
	assert.False(t, order.IsModifiable(), "TxnID without EditSequence is not modifiable")

	require.NoError(t, order.AttachQuickBooksRefs("TXN-1", "ES-9"))
	assert.True(t, order.IsModifiable())
}

func TestPayment_Capture(t *testing.T) {
	payment, err := NewPayment(uuid.New(), decimal.NewFromInt(42), "credit_card")
	require.NoError(t, err)

	require.NoError(t, payment.Capture())
	assert.Equal(t, PaymentStateCaptured, payment.State)
	assert.NotNil(t, payment.CapturedAt)

	events := payment.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypePaymentCaptured, events[0].EventType())

	assert.Error(t, payment.Capture(), "double capture is rejected")
}

func TestUser_VerifyPassword(t *testing.T) {
	user, err := NewUser("webconnector", "correct horse battery")
	require.NoError(t, err)

	assert.True(t, user.VerifyPassword("correct horse battery"))
	assert.False(t, user.VerifyPassword("wrong"))
	assert.NotContains(t, user.PasswordHash, "correct horse battery")

	_, err = NewUser("u", "short")
	assert.Error(t, err)
}
