package event_bus

import (
	"errors"
	"sync"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAugurEventBusImpl(t *testing.T) {
	t.Run("Delivers published events to subscribers", func(t *testing.T) {
		bus := NewAugurEventBus[TraceFlushedEvent, TraceFlushedEvent](EventBus.New(), zap.NewNop())
		var mu sync.Mutex
		var received []TraceFlushedEvent
		err := bus.Subscribe(TraceFlushedTopic, func(input TraceFlushedEvent) error {
			mu.Lock()
			defer mu.Unlock()
			received = append(received, input)
			return nil
		}, true)
		require.NoError(t, err)

		err = bus.Publish(TraceFlushedTopic, TraceFlushedEvent{TraceIDs: []string{"t1", "t2"}})
		require.NoError(t, err)
		bus.WaitAsync()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []TraceFlushedEvent{{TraceIDs: []string{"t1", "t2"}}}, received)
	})

	t.Run("Keeps running when a handler fails", func(t *testing.T) {
		bus := NewAugurEventBus[TraceFlushedEvent, TraceFlushedEvent](EventBus.New(), zap.NewNop())
		calls := 0
		err := bus.Subscribe(TraceFlushedTopic, func(input TraceFlushedEvent) error {
			calls++
			return errors.New("handler failed")
		}, true)
		require.NoError(t, err)

		require.NoError(t, bus.Publish(TraceFlushedTopic, TraceFlushedEvent{}))
		bus.WaitAsync()
		require.NoError(t, bus.Publish(TraceFlushedTopic, TraceFlushedEvent{}))
		bus.WaitAsync()
		assert.Equal(t, 2, calls)
	})
}
