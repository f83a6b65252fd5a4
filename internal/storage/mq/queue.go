package mq

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tuanvumaihuynh/warehouse/internal/config"
)

var (
	ErrQueueFull   = errors.New("queue full")
	ErrQueueClosed = errors.New("queue closed")
)

var (
	messagesProducedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warehouse_events_published_total",
		Help: "Number of events accepted by the in-process queue.",
	}, []string{"topic"})

	messagesDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warehouse_events_dropped_total",
		Help: "Number of events dropped because the queue was full or closed.",
	}, []string{"topic", "reason"})

	messagesHandledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warehouse_events_handled_total",
		Help: "Number of events handed to a handler, by result.",
	}, []string{"topic", "result"})
)

type message struct {
	topic   string
	headers map[string]string
	payload []byte
}

var (
	_ Producer = (*ChannelQueue)(nil)
	_ Consumer = (*ChannelQueue)(nil)
)

// ChannelQueue is an in-process message queue backed by a bounded channel
// and drained by a single worker goroutine. Producing never blocks.
type ChannelQueue struct {
	log          *slog.Logger
	msgs         chan message
	drainTimeout time.Duration

	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	closed   bool
	stopChan chan struct{}
}

func NewChannelQueue(cfg config.Event, logger *slog.Logger) *ChannelQueue {
	size := int(cfg.QueueSize)
	if size <= 0 {
		size = 1
	}

	return &ChannelQueue{
		log:          logger.With(slog.String("service", "mq")),
		msgs:         make(chan message, size),
		drainTimeout: cfg.DrainTimeout,
		handlers:     make(map[string]HandlerFunc),
		stopChan:     make(chan struct{}),
	}
}

// Len returns the number of queued messages.
func (q *ChannelQueue) Len() int {
	return len(q.msgs)
}
