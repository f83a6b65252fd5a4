package mq

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/warehouse/pkg/propagation"
)

type HandlerFunc func(ctx context.Context, topic string, payload []byte) error

type CleanupFunc func()

type Consumer interface {
	RegisterHandler(topic string, handler HandlerFunc) error
	Run(ctx context.Context) (CleanupFunc, error)
}

func (q *ChannelQueue) RegisterHandler(topic string, handler HandlerFunc) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.handlers[topic]; exists {
		return fmt.Errorf("handler for topic %s already registered", topic)
	}

	q.handlers[topic] = handler
	return nil
}

// Run starts the worker. The returned cleanup stops accepting messages and
// waits for the queued ones to be handled, up to the drain timeout.
func (q *ChannelQueue) Run(ctx context.Context) (CleanupFunc, error) {
	// Handlers keep running while draining after ctx is cancelled.
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	stoppedChan := make(chan struct{})
	go func() {
		defer close(stoppedChan)
		q.run(ctx)
	}()

	cleanup := func() {
		q.mu.Lock()
		if !q.closed {
			q.closed = true
			close(q.stopChan)
		}
		q.mu.Unlock()

		select {
		case <-stoppedChan:
		case <-time.After(q.drainTimeout):
			q.log.WarnContext(ctx, "drain timeout exceeded", slog.Int("remaining", q.Len()))
			cancel()
			<-stoppedChan
		}
		cancel()
	}

	return cleanup, nil
}

func (q *ChannelQueue) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.stopChan:
			q.drain(ctx)
			return
		case msg := <-q.msgs:
			q.handle(ctx, msg)
		}
	}
}

func (q *ChannelQueue) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-q.msgs:
			q.handle(ctx, msg)
		default:
			return
		}
	}
}

func (q *ChannelQueue) handle(ctx context.Context, msg message) {
	ctx = propagation.ExtractContextFromHeaders(ctx, msg.headers)
	ctx, span := tracer.Start(ctx, "ChannelQueue.Consume",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("topic", msg.topic),
		),
	)
	defer span.End()

	defer func() {
		if rvr := recover(); rvr != nil {
			span.RecordError(fmt.Errorf("panic: %v", rvr))
			span.SetStatus(codes.Error, "panic in handler")
			messagesHandledTotal.WithLabelValues(msg.topic, "panic").Inc()

			q.log.ErrorContext(ctx, "panic in message handler",
				slog.String("topic", msg.topic),
				slog.Any("recover", rvr),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	q.mu.RLock()
	fn, exists := q.handlers[msg.topic]
	q.mu.RUnlock()

	if !exists {
		messagesHandledTotal.WithLabelValues(msg.topic, "unhandled").Inc()
		q.log.WarnContext(ctx, "no handler registered for topic",
			slog.String("topic", msg.topic),
		)
		return
	}

	if err := fn(ctx, msg.topic, msg.payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "handler failed")
		messagesHandledTotal.WithLabelValues(msg.topic, "error").Inc()

		q.log.ErrorContext(ctx, "error handling message",
			slog.String("topic", msg.topic),
			slog.Any("error", err),
		)
		return
	}

	messagesHandledTotal.WithLabelValues(msg.topic, "ok").Inc()
}
