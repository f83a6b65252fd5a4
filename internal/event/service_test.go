package event_test

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
	"github.com/tuanvumaihuynh/warehouse/internal/event"
	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/mq"
)

type fakeRecorder struct {
	mu     sync.Mutex
	events []model.AuditEvent
	err    error
}

func (r *fakeRecorder) Record(_ context.Context, ev model.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func TestService_Run(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	ev := model.AuditEvent{
		ActorID:    7,
		Action:     model.AuditActionCreate,
		EntityKind: model.EntityKindItem,
		EntityID:   1,
		Details:    "User 7 created a ITEM with ID 1 at 2025-01-01T00:00:00Z",
	}

	t.Run("Should deliver published audit events to the recorder", func(t *testing.T) {
		queue := mq.NewChannelQueue(config.Event{QueueSize: 8, DrainTimeout: time.Second}, logger)
		recorder := &fakeRecorder{}

		svc := event.New(logger, queue, recorder)
		cleanup, err := svc.Run(ctx)
		require.NoError(t, err)

		event.NewPublisher(logger, queue).PublishAudit(ctx, ev)
		cleanup()

		assert.Equal(t, []model.AuditEvent{ev}, recorder.events)
	})

	t.Run("Should not fail publisher when recorder fails", func(t *testing.T) {
		queue := mq.NewChannelQueue(config.Event{QueueSize: 8, DrainTimeout: time.Second}, logger)
		recorder := &fakeRecorder{err: errors.New("db down")}

		cleanup, err := event.New(logger, queue, recorder).Run(ctx)
		require.NoError(t, err)

		publisher := event.NewPublisher(logger, queue)
		publisher.PublishAudit(ctx, ev)
		publisher.PublishAudit(ctx, ev)
		cleanup()

		assert.Len(t, recorder.events, 2)
	})

	t.Run("Should not block publisher when queue is full", func(t *testing.T) {
		queue := mq.NewChannelQueue(config.Event{QueueSize: 1, DrainTimeout: time.Second}, logger)
		publisher := event.NewPublisher(logger, queue)

		publisher.PublishAudit(ctx, ev)
		publisher.PublishAudit(ctx, ev)

		assert.Equal(t, 1, queue.Len())
	})
}
