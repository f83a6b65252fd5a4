package config

import "time"

type Event struct {
	QueueSize    uint32        `env:"EVENT_QUEUE_SIZE" envDefault:"1024"`
	DrainTimeout time.Duration `env:"EVENT_DRAIN_TIMEOUT" envDefault:"5s"`
}
