// Package metrics exposes the agent's own health as Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"pingprobe/internal/models"
)

const namespace = "pingprobe"

// Collector groups the agent's self metrics. A nil *Collector is valid and records nothing.
type Collector struct {
	ticks         prometheus.Counter
	probeFailures prometheus.Counter
	lastTick      prometheus.Gauge
	rtt           *prometheus.GaugeVec
	packetLoss    *prometheus.GaugeVec
	sinkWrites    *prometheus.CounterVec
	sinkFailures  *prometheus.CounterVec
	sinkLatency   *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Number of completed probe ticks",
		}),
		probeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probe_failures_total",
			Help:      "Number of ticks whose probe produced no sample",
		}),
		lastTick: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_tick_timestamp_seconds",
			Help:      "Unix time of the last completed tick",
		}),
		rtt: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rtt_ms",
			Help:      "Average round-trip time of the last probe in milliseconds",
		}, []string{"target"}),
		packetLoss: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "packet_loss_pct",
			Help:      "Packet loss of the last probe in percent",
		}, []string{"target"}),
		sinkWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_writes_total",
			Help:      "Number of point writes attempted per sink",
		}, []string{"sink"}),
		sinkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_write_failures_total",
			Help:      "Number of failed point writes per sink",
		}, []string{"sink"}),
		sinkLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sink_write_duration_seconds",
			Help:      "Duration of point writes per sink",
			Buckets:   prometheus.DefBuckets,
		}, []string{"sink"}),
	}

	reg.MustRegister(
		c.ticks,
		c.probeFailures,
		c.lastTick,
		c.rtt,
		c.packetLoss,
		c.sinkWrites,
		c.sinkFailures,
		c.sinkLatency,
	)
	return c
}

// ObserveTick records a completed tick
func (c *Collector) ObserveTick(at time.Time) {
	if c == nil {
		return
	}
	c.ticks.Inc()
	c.lastTick.Set(float64(at.UnixNano()) / 1e9)
}

// ObserveSample records the latest sample for its target
func (c *Collector) ObserveSample(s models.Sample) {
	if c == nil {
		return
	}
	c.rtt.WithLabelValues(string(s.Target)).Set(s.RTTAvgMs)
	c.packetLoss.WithLabelValues(string(s.Target)).Set(s.PacketLossPct)
}

// ObserveProbeFailure records a tick without a sample
func (c *Collector) ObserveProbeFailure() {
	if c == nil {
		return
	}
	c.probeFailures.Inc()
}

// ObserveWrite records one sink write and its outcome
func (c *Collector) ObserveWrite(sink string, took time.Duration, err error) {
	if c == nil {
		return
	}
	c.sinkWrites.WithLabelValues(sink).Inc()
	c.sinkLatency.WithLabelValues(sink).Observe(took.Seconds())
	if err != nil {
		c.sinkFailures.WithLabelValues(sink).Inc()
	}
}
