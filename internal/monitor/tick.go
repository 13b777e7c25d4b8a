package monitor

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"pingprobe/internal/models"
)

// TickResult reports what a single tick did
type TickResult struct {
	Point    models.Point
	Sample   *models.Sample       // set when the probe succeeded
	ProbeErr *models.ProbeFailure // set when the probe failed
	SinkErr  error                // set when the point could not be written
}

// Tick probes once, builds the point and writes it. It never panics and
// never returns an error; failures are reported in the result and logged.
func (m *Monitor) Tick(ctx context.Context) TickResult {
	var res TickResult

	sample, failure := m.probe(ctx)
	now := m.now()

	if failure != nil {
		res.ProbeErr = failure
		res.Point = models.NewErrorPoint(failure, now)
		m.metrics.ObserveProbeFailure()
		m.log.WithFields(logrus.Fields{
			"target": m.config.Target,
			"error":  failure.Message,
		}).Warn("probe failed")
	} else {
		res.Sample = &sample
		res.Point = models.NewPingPoint(sample, now)
		m.metrics.ObserveSample(sample)
		m.log.WithFields(logrus.Fields{
			"target":          sample.Target,
			"rtt_ms":          sample.RTTAvgMs,
			"packet_loss_pct": sample.PacketLossPct,
		}).Debug("probe finished")
	}

	res.SinkErr = m.publish(ctx, res.Point)
	if res.SinkErr != nil {
		entry := m.log.WithFields(logrus.Fields{
			"measurement": res.Point.Measurement,
			"error":       res.SinkErr,
		})
		if failure != nil {
			// no further channel exists for a lost error report
			entry.Debug("discarding failed error point write")
		} else {
			entry.Warn("point write failed")
		}
	}

	m.lastTick.Store(now.UnixNano())
	m.metrics.ObserveTick(now)

	return res
}

// probe calls the prober, converting errors and panics into a ProbeFailure
func (m *Monitor) probe(ctx context.Context) (sample models.Sample, failure *models.ProbeFailure) {
	defer func() {
		if r := recover(); r != nil {
			sample = models.Sample{}
			failure = &models.ProbeFailure{Message: fmt.Sprintf("probe panicked: %v", r)}
		}
	}()

	sample, err := m.prober.Probe(ctx, m.config.Target, m.config.Probe)
	if err != nil {
		return models.Sample{}, models.AsProbeFailure(err)
	}
	return sample, nil
}

// publish writes p to the sink, converting panics into errors
func (m *Monitor) publish(ctx context.Context, p models.Point) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink %s panicked: %v", m.sink.Name(), r)
		}
	}()

	return m.sink.Write(ctx, p)
}
