package app

import (
	"log/slog"
	"time"

	"rations/internal/metrics"
)

// DefaultSessionTTL is how long a session stays valid after login.
const DefaultSessionTTL = 24 * time.Hour

// Option configures an application service.
type Option func(o *options)

type options struct {
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
	sessionTTL time.Duration
}

// WithLogger sets the logger for business events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the Prometheus metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithClock overrides the time source. Tests use it to pin timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithSessionTTL sets the session lifetime used by AuthService.
func WithSessionTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.sessionTTL = ttl
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
		sessionTTL: DefaultSessionTTL,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
