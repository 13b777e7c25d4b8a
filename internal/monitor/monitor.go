// Package monitor runs the probe-and-publish loop.
//
// The loop has a single state: it waits for the next tick, probes the
// target, turns the outcome into a point, hands the point to the sink and
// sleeps. Probe and sink failures are contained within the tick that
// produced them, so the loop always reaches its sleep.
package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"pingprobe/internal/metrics"
	"pingprobe/internal/models"
)

// Config is the fixed per-process configuration of the loop
type Config struct {
	Target   models.Target
	Probe    models.ProbeConfig
	Interval time.Duration
}

// Monitor coordinates probing and publishing
type Monitor struct {
	config  Config
	prober  models.Prober
	sink    models.Sink
	log     logrus.FieldLogger
	metrics *metrics.Collector

	maintainer       Maintainer
	maintenanceEvery time.Duration
	lastMaintenance  time.Time

	now      func() time.Time
	lastTick atomic.Int64 // unix nanoseconds
}

// Option configures optional Monitor collaborators
type Option func(*Monitor)

// WithMetrics records tick outcomes in c
func WithMetrics(c *metrics.Collector) Option {
	return func(m *Monitor) { m.metrics = c }
}

// WithMaintenance runs mt between ticks at most once per every
func WithMaintenance(mt Maintainer, every time.Duration) Option {
	return func(m *Monitor) {
		m.maintainer = mt
		m.maintenanceEvery = every
	}
}

// New creates a new Monitor. The prober and sink are constructed once by
// the caller and reused for every tick.
func New(cfg Config, prober models.Prober, sink models.Sink, log logrus.FieldLogger, opts ...Option) *Monitor {
	m := &Monitor{
		config: cfg,
		prober: prober,
		sink:   sink,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run ticks immediately and then once per interval until ctx is cancelled.
// Nothing that happens inside a tick makes Run return.
func (m *Monitor) Run(ctx context.Context) {
	m.log.WithFields(logrus.Fields{
		"target":   m.config.Target,
		"interval": m.config.Interval,
		"count":    m.config.Probe.Count,
		"size":     m.config.Probe.Size,
		"timeout":  m.config.Probe.Timeout,
	}).Info("probe loop started")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("probe loop stopped")
			return
		case <-timer.C:
		}

		m.Tick(ctx)
		m.maintain(ctx)

		timer.Reset(m.config.Interval)
	}
}

// LastTick returns when the last tick completed, or the zero time before the first one
func (m *Monitor) LastTick() time.Time {
	ns := m.lastTick.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}
