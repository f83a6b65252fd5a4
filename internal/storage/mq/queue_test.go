package mq_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/warehouse/internal/config"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/mq"
	"github.com/tuanvumaihuynh/warehouse/pkg/correlationid"
)

func newQueue(size uint32, drain time.Duration) *mq.ChannelQueue {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return mq.NewChannelQueue(config.Event{QueueSize: size, DrainTimeout: drain}, logger)
}

func TestChannelQueue(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject duplicate handler", func(t *testing.T) {
		q := newQueue(1, time.Second)
		noop := func(context.Context, string, []byte) error { return nil }

		require.NoError(t, q.RegisterHandler("a", noop))
		assert.Error(t, q.RegisterHandler("a", noop))
	})

	t.Run("Should drop without blocking when full", func(t *testing.T) {
		q := newQueue(2, time.Second)

		require.NoError(t, q.Produce(ctx, mq.ProduceMsg{Topic: "a"}))
		require.NoError(t, q.Produce(ctx, mq.ProduceMsg{Topic: "a"}))

		done := make(chan error, 1)
		go func() { done <- q.Produce(ctx, mq.ProduceMsg{Topic: "a"}) }()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, mq.ErrQueueFull)
		case <-time.After(time.Second):
			t.Fatal("produce blocked on a full queue")
		}
		assert.Equal(t, 2, q.Len())
	})

	t.Run("Should deliver with correlation id and drain on cleanup", func(t *testing.T) {
		q := newQueue(16, 5*time.Second)

		var (
			mu       sync.Mutex
			payloads []string
			ids      []string
		)
		require.NoError(t, q.RegisterHandler("a", func(ctx context.Context, _ string, payload []byte) error {
			mu.Lock()
			defer mu.Unlock()
			payloads = append(payloads, string(payload))
			id, _ := correlationid.FromContext(ctx)
			ids = append(ids, id)
			return nil
		}))

		msgCtx := correlationid.NewContext(ctx, "corr-1")
		for _, p := range []string{"1", "2", "3"} {
			require.NoError(t, q.Produce(msgCtx, mq.ProduceMsg{Topic: "a", Payload: []byte(p)}))
		}

		cleanup, err := q.Run(ctx)
		require.NoError(t, err)
		cleanup()

		assert.Equal(t, []string{"1", "2", "3"}, payloads)
		assert.Equal(t, []string{"corr-1", "corr-1", "corr-1"}, ids)

		assert.ErrorIs(t, q.Produce(ctx, mq.ProduceMsg{Topic: "a"}), mq.ErrQueueClosed)
	})

	t.Run("Should survive handler errors and panics", func(t *testing.T) {
		q := newQueue(16, 5*time.Second)

		var (
			mu      sync.Mutex
			handled []string
		)
		require.NoError(t, q.RegisterHandler("a", func(_ context.Context, _ string, payload []byte) error {
			mu.Lock()
			handled = append(handled, string(payload))
			mu.Unlock()

			switch string(payload) {
			case "panic":
				panic("boom")
			case "error":
				return errors.New("failed")
			}
			return nil
		}))

		for _, p := range []string{"panic", "error", "ok"} {
			require.NoError(t, q.Produce(ctx, mq.ProduceMsg{Topic: "a", Payload: []byte(p)}))
		}
		require.NoError(t, q.Produce(ctx, mq.ProduceMsg{Topic: "unknown"}))

		cleanup, err := q.Run(ctx)
		require.NoError(t, err)
		cleanup()

		assert.Equal(t, []string{"panic", "error", "ok"}, handled)
	})

	t.Run("Should stop waiting after drain timeout", func(t *testing.T) {
		q := newQueue(4, 50*time.Millisecond)

		release := make(chan struct{})
		require.NoError(t, q.RegisterHandler("a", func(ctx context.Context, _ string, _ []byte) error {
			select {
			case <-ctx.Done():
			case <-release:
			}
			return nil
		}))
		defer close(release)

		require.NoError(t, q.Produce(ctx, mq.ProduceMsg{Topic: "a"}))
		require.NoError(t, q.Produce(ctx, mq.ProduceMsg{Topic: "a"}))

		cleanup, err := q.Run(ctx)
		require.NoError(t, err)

		start := time.Now()
		cleanup()
		assert.Less(t, time.Since(start), 2*time.Second)
	})
}
