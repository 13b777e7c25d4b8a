package monitor

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Maintainer performs periodic housekeeping such as archive retention
type Maintainer interface {
	Maintain(ctx context.Context) (int64, error)
}

// maintain runs maintenance when it is due. It runs on the loop goroutine
// between ticks, so it never overlaps with a probe.
func (m *Monitor) maintain(ctx context.Context) {
	if m.maintainer == nil {
		return
	}
	now := m.now()
	if !m.lastMaintenance.IsZero() && now.Sub(m.lastMaintenance) < m.maintenanceEvery {
		return
	}
	m.lastMaintenance = now

	m.log.Debug("running maintenance tasks")
	removed, err := m.maintainer.Maintain(ctx)
	if err != nil {
		m.log.WithError(err).Warn("maintenance failed")
		return
	}
	if removed > 0 {
		m.log.WithFields(logrus.Fields{"removed": removed}).Info("pruned archived points")
	}
}
