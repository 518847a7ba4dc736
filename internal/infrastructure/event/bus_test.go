package event

import (
	"context"
	"errors"
	"testing"

	"github.com/commerceqb/gateway/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     bool
	panics   bool
}

func (h *recordingHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.received = append(h.received, ev)
	if h.fail {
		return errors.New("handler failure")
	}
	return nil
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func newEvent(eventType string) shared.DomainEvent {
	ev := shared.NewBaseDomainEvent(eventType, "Test", uuid.New())
	return &ev
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	t.Run("routes by event type", func(t *testing.T) {
		a := &recordingHandler{types: []string{"TypeA"}}
		b := &recordingHandler{types: []string{"TypeB"}}
		bus.Subscribe(a)
		bus.Subscribe(b)

		require.NoError(t, bus.Publish(context.Background(), newEvent("TypeA")))

		assert.Len(t, a.received, 1)
		assert.Empty(t, b.received)
	})

	t.Run("failing handler does not block others", func(t *testing.T) {
		failing := &recordingHandler{types: []string{"TypeC"}, fail: true}
		ok := &recordingHandler{types: []string{"TypeC"}}
		bus.Subscribe(failing)
		bus.Subscribe(ok)

		require.NoError(t, bus.Publish(context.Background(), newEvent("TypeC")))

		assert.Len(t, ok.received, 1)
	})

	t.Run("panicking handler is contained", func(t *testing.T) {
		panicking := &recordingHandler{types: []string{"TypeD"}, panics: true}
		ok := &recordingHandler{types: []string{"TypeD"}}
		bus.Subscribe(panicking)
		bus.Subscribe(ok)

		require.NotPanics(t, func() {
			_ = bus.Publish(context.Background(), newEvent("TypeD"))
		})
		assert.Len(t, ok.received, 1)
	})
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"TypeE"}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newEvent("TypeE")))
	assert.Empty(t, h.received)
}
