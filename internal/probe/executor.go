// Package probe turns raw echo statistics into normalized samples.
package probe

import (
	"context"
	"errors"
	"fmt"

	"pingprobe/internal/models"
)

// Mechanism sends the echo requests for one probe run.
type Mechanism interface {
	Ping(ctx context.Context, target models.Target, cfg models.ProbeConfig) (models.RawResult, error)
}

// Executor runs exactly one mechanism call per probe and reduces its result.
// It keeps no state between calls.
type Executor struct {
	mech Mechanism
}

// NewExecutor creates an Executor backed by the given mechanism
func NewExecutor(mech Mechanism) *Executor {
	return &Executor{mech: mech}
}

// Probe implements models.Prober. A non-nil error is always a *models.ProbeFailure.
func (e *Executor) Probe(ctx context.Context, target models.Target, cfg models.ProbeConfig) (models.Sample, error) {
	if err := validate(target, cfg); err != nil {
		return models.Sample{}, &models.ProbeFailure{Message: err.Error(), Err: err}
	}

	raw, err := e.mech.Ping(ctx, target, cfg)
	if err != nil {
		return models.Sample{}, models.AsProbeFailure(err)
	}

	return Reduce(target, raw)
}

// Reduce normalizes a raw result into a Sample.
// A missing average RTT becomes 0 ms; a run with no packets sent is a failure.
func Reduce(target models.Target, raw models.RawResult) (models.Sample, error) {
	if raw.PacketsSent <= 0 {
		return models.Sample{}, &models.ProbeFailure{
			Message: fmt.Sprintf("%v: %s", models.ErrNoPacketsSent, target),
			Err:     models.ErrNoPacketsSent,
		}
	}

	rtt := 0.0
	if raw.RTTAvgMs != nil {
		rtt = *raw.RTTAvgMs
	}

	return models.Sample{
		Target:        target,
		RTTAvgMs:      rtt,
		PacketLossPct: PacketLoss(raw.SuccessCount, raw.PacketsSent),
	}, nil
}

// PacketLoss returns the loss percentage for a run, clamped to [0, 100].
// sent must be positive.
func PacketLoss(success, sent int) float64 {
	if success < 0 {
		success = 0
	}
	if success > sent {
		success = sent
	}
	return (1 - float64(success)/float64(sent)) * 100
}

func validate(target models.Target, cfg models.ProbeConfig) error {
	switch {
	case target == "":
		return errors.New("probe target is empty")
	case cfg.Size <= 0:
		return fmt.Errorf("invalid packet size %d", cfg.Size)
	case cfg.Count <= 0:
		return fmt.Errorf("invalid echo count %d", cfg.Count)
	case cfg.Timeout <= 0:
		return fmt.Errorf("invalid echo timeout %v", cfg.Timeout)
	}
	return nil
}
