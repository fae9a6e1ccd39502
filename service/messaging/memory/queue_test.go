package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/stride/service/messaging"
)

type payload struct {
	TaskID int
	Kind   string
}

func TestQueue(t *testing.T) {
	ctx := context.Background()
	queue := NewQueue[payload](DefaultConfig())

	require.NoError(t, queue.Publish(ctx, &payload{TaskID: 1, Kind: "ready"}))
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, message.ID())
	assert.Equal(t, payload{TaskID: 1, Kind: "ready"}, *message.T())
	assert.Equal(t, 0, queue.Size())

	require.NoError(t, message.Ack())
	assert.Error(t, message.Ack())
}

func TestQueue_DropWhenFull(t *testing.T) {
	ctx := context.Background()
	queue := NewQueue[payload](Config{Buffer: 1, DropWhenFull: true})
	require.NoError(t, queue.Publish(ctx, &payload{TaskID: 1}))
	err := queue.Publish(ctx, &payload{TaskID: 2})
	assert.ErrorIs(t, err, messaging.ErrQueueFull)
	assert.Equal(t, 1, queue.Dropped())
}

func TestQueue_Blocking(t *testing.T) {
	queue := NewQueue[payload](Config{Buffer: 1})
	require.NoError(t, queue.Publish(context.Background(), &payload{TaskID: 1}))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := queue.Publish(ctx, &payload{TaskID: 2})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestQueue_Nack(t *testing.T) {
	ctx := context.Background()
	queue := NewQueue[payload](Config{Buffer: 4, MaxRetries: 1})
	require.NoError(t, queue.Publish(ctx, &payload{TaskID: 7}))

	first, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NoError(t, first.Nack(errors.New("handler failed")))
	require.Equal(t, 1, queue.Size(), "requeued once")

	second, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID(), second.ID())
	require.NoError(t, second.Nack(errors.New("handler failed")))
	assert.Equal(t, 0, queue.Size(), "retries exhausted")
}

func TestQueue_ConsumeCancelled(t *testing.T) {
	queue := NewQueue[payload](DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := queue.Consume(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
