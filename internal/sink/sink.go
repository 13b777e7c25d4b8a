// Package sink holds the destinations points are written to.
package sink

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pingprobe/internal/metrics"
	"pingprobe/internal/models"
)

// ErrClosed is returned by writes to a sink that has been closed
var ErrClosed = errors.New("sink closed")

// Multi writes every point to all of its sinks. A failing sink does not
// stop the point from reaching the others; the failures are joined.
type Multi struct {
	sinks []models.Sink

	mu     sync.Mutex
	closed bool
}

// NewMulti creates a Multi over the given sinks
func NewMulti(sinks ...models.Sink) *Multi {
	return &Multi{sinks: sinks}
}

// Name implements models.Sink
func (m *Multi) Name() string { return "multi" }

// Write implements models.Sink
func (m *Multi) Write(ctx context.Context, p models.Point) error {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return ErrClosed
	}

	var errs []error
	for _, s := range m.sinks {
		if err := s.Write(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink
func (m *Multi) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true

	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Instrumented records write counts, failures and latency for a sink.
type Instrumented struct {
	models.Sink
	metrics *metrics.Collector
}

// Instrument wraps s so every write is observed by c
func Instrument(s models.Sink, c *metrics.Collector) *Instrumented {
	return &Instrumented{Sink: s, metrics: c}
}

// Write implements models.Sink
func (i *Instrumented) Write(ctx context.Context, p models.Point) error {
	start := time.Now()
	err := i.Sink.Write(ctx, p)
	i.metrics.ObserveWrite(i.Name(), time.Since(start), err)
	return err
}
