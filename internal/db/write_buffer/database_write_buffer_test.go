package write_buffer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Avi18971911/tracegraph/internal/db/elasticsearch/client"
	"github.com/Avi18971911/tracegraph/internal/event_bus"
	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testDoc struct {
	TraceID string `json:"trace_id"`
	Name    string `json:"name"`
}

type fakeAugurClient struct {
	mu        sync.Mutex
	documents []client.DocumentMap
	indices   []string
	err       error
}

func (f *fakeAugurClient) BulkIndex(
	ctx context.Context,
	metaInfo []client.MetaMap,
	documentInfo []client.DocumentMap,
	index *string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.documents = append(f.documents, documentInfo...)
	f.indices = append(f.indices, *index)
	return nil
}

func (f *fakeAugurClient) Search(
	ctx context.Context,
	query string,
	indices []string,
	queryResultSize *int,
) ([]map[string]interface{}, error) {
	return nil, nil
}

func (f *fakeAugurClient) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.documents)
}

func newTestBuffer(
	ac client.AugurClient,
	queueSize int,
) (*DatabaseWriteBufferImpl[testDoc], event_bus.AugurEventBus[event_bus.TraceFlushedEvent, event_bus.TraceFlushedEvent]) {
	bus := event_bus.NewAugurEventBus[event_bus.TraceFlushedEvent, event_bus.TraceFlushedEvent](
		EventBus.New(),
		zap.NewNop(),
	)
	buffer := NewDatabaseWriteBufferImpl[testDoc](
		ac,
		"span_index",
		queueSize,
		func(d testDoc) string { return d.TraceID },
		bus,
		zap.NewNop(),
	)
	return buffer, bus
}

func TestDatabaseWriteBufferImpl_Flush(t *testing.T) {
	t.Run("Indexes queued documents and publishes their traces", func(t *testing.T) {
		ac := &fakeAugurClient{}
		buffer, bus := newTestBuffer(ac, 10)
		var published []event_bus.TraceFlushedEvent
		require.NoError(t, bus.Subscribe(event_bus.TraceFlushedTopic, func(e event_bus.TraceFlushedEvent) error {
			published = append(published, e)
			return nil
		}, true))

		buffer.WriteToBuffer([]testDoc{{TraceID: "t1", Name: "a"}, {TraceID: "t2", Name: "b"}, {TraceID: "t1", Name: "c"}})
		require.NoError(t, buffer.Flush(context.Background()))
		bus.WaitAsync()

		assert.Equal(t, 3, ac.count())
		assert.Equal(t, []string{"span_index"}, ac.indices)
		assert.Equal(t, []event_bus.TraceFlushedEvent{{TraceIDs: []string{"t1", "t2"}}}, published)
	})

	t.Run("Does nothing when the queue is empty", func(t *testing.T) {
		ac := &fakeAugurClient{}
		buffer, _ := newTestBuffer(ac, 10)
		require.NoError(t, buffer.Flush(context.Background()))
		assert.Equal(t, 0, ac.count())
		assert.Empty(t, ac.indices)
	})

	t.Run("Returns error if bulk indexing fails", func(t *testing.T) {
		ac := &fakeAugurClient{err: errors.New("cluster unavailable")}
		buffer, _ := newTestBuffer(ac, 10)
		buffer.WriteToBuffer([]testDoc{{TraceID: "t1"}})
		err := buffer.Flush(context.Background())
		assert.Error(t, err)
	})
}

func TestDatabaseWriteBufferImpl_WriteToBuffer(t *testing.T) {
	t.Run("Flushes in the background once the queue is full", func(t *testing.T) {
		ac := &fakeAugurClient{}
		buffer, _ := newTestBuffer(ac, 2)
		buffer.WriteToBuffer([]testDoc{{TraceID: "t1"}, {TraceID: "t1"}})
		assert.Equal(t, 0, ac.count())
		buffer.WriteToBuffer([]testDoc{{TraceID: "t1"}})
		assert.Eventually(t, func() bool { return ac.count() == 3 }, time.Second, 10*time.Millisecond)
	})
}
