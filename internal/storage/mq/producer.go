package mq

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/warehouse/pkg/propagation"
)

type ProduceMsg struct {
	Topic string
	// Headers defaults to the trace context and correlation ID of ctx.
	Headers map[string]string
	Payload []byte
}

type Producer interface {
	// Produce enqueues msg without blocking. It returns ErrQueueFull or
	// ErrQueueClosed when the message is dropped.
	Produce(ctx context.Context, msg ProduceMsg) error
}

func (q *ChannelQueue) Produce(ctx context.Context, msg ProduceMsg) error {
	ctx, span := tracer.Start(ctx, "ChannelQueue.Produce",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("topic", msg.Topic),
		),
	)
	defer span.End()

	headers := msg.Headers
	if headers == nil {
		headers = propagation.BuildHeaders(ctx)
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.drop(ctx, span, msg.Topic, ErrQueueClosed)
		return ErrQueueClosed
	}

	select {
	case q.msgs <- message{topic: msg.Topic, headers: headers, payload: msg.Payload}:
		messagesProducedTotal.WithLabelValues(msg.Topic).Inc()
		span.SetStatus(codes.Ok, "")
		return nil
	default:
		q.drop(ctx, span, msg.Topic, ErrQueueFull)
		return ErrQueueFull
	}
}

func (q *ChannelQueue) drop(ctx context.Context, span trace.Span, topic string, reason error) {
	messagesDroppedTotal.WithLabelValues(topic, reason.Error()).Inc()
	span.RecordError(reason)
	span.SetStatus(codes.Error, "message dropped")

	q.log.WarnContext(ctx, "message dropped",
		slog.String("topic", topic),
		slog.String("reason", reason.Error()),
	)
}
