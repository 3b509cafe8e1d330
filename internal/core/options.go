package core

import (
	"log/slog"
)

// Option applies configuration to a Resolver via the functional options pattern.
type Option func(*Resolver)

// WithLogger configures the Resolver with a logger. Operations log at Debug.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics configures the Resolver with prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}
