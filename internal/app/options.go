package app

import (
	"time"

	"ent-bot/internal/metrics"
	"go.uber.org/zap"
)

type options struct {
	log     *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures the ambient dependencies shared by the services.
type Option func(*options)

func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithClock is used by tests for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
