package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pingprobe/internal/models"
)

type fakeMechanism struct {
	raw   models.RawResult
	err   error
	calls int
}

func (f *fakeMechanism) Ping(ctx context.Context, target models.Target, cfg models.ProbeConfig) (models.RawResult, error) {
	f.calls++
	return f.raw, f.err
}

func rtt(v float64) *float64 { return &v }

func TestExecutorProbe(t *testing.T) {
	tests := []struct {
		name     string
		target   models.Target
		raw      models.RawResult
		wantRTT  float64
		wantLoss float64
	}{
		{
			name:     "all echoes answered",
			target:   "1.1.1.1",
			raw:      models.RawResult{RTTAvgMs: rtt(12.5), SuccessCount: 4, PacketsSent: 4},
			wantRTT:  12.5,
			wantLoss: 0,
		},
		{
			name:     "no echo answered",
			target:   "192.0.2.1",
			raw:      models.RawResult{RTTAvgMs: nil, SuccessCount: 0, PacketsSent: 4},
			wantRTT:  0,
			wantLoss: 100,
		},
		{
			name:     "partial loss",
			target:   "example.com",
			raw:      models.RawResult{RTTAvgMs: rtt(30.25), SuccessCount: 3, PacketsSent: 4},
			wantRTT:  30.25,
			wantLoss: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mech := &fakeMechanism{raw: tt.raw}
			sample, err := NewExecutor(mech).Probe(context.Background(), tt.target, models.DefaultProbeConfig())
			require.NoError(t, err)

			assert.Equal(t, 1, mech.calls)
			assert.Equal(t, tt.target, sample.Target)
			assert.Equal(t, tt.wantRTT, sample.RTTAvgMs)
			assert.InDelta(t, tt.wantLoss, sample.PacketLossPct, 1e-9)
		})
	}
}

func TestExecutorNoPacketsSent(t *testing.T) {
	mech := &fakeMechanism{raw: models.RawResult{SuccessCount: 0, PacketsSent: 0}}

	_, err := NewExecutor(mech).Probe(context.Background(), "1.1.1.1", models.DefaultProbeConfig())
	require.Error(t, err)

	var pf *models.ProbeFailure
	require.ErrorAs(t, err, &pf)
	assert.ErrorIs(t, err, models.ErrNoPacketsSent)
}

func TestExecutorMechanismError(t *testing.T) {
	mech := &fakeMechanism{err: errors.New("host unreachable")}

	_, err := NewExecutor(mech).Probe(context.Background(), "1.1.1.1", models.DefaultProbeConfig())

	var pf *models.ProbeFailure
	require.ErrorAs(t, err, &pf)
	assert.Equal(t, "host unreachable", pf.Message)
	assert.Equal(t, 1, mech.calls, "executor must not retry")
}

func TestExecutorRejectsInvalidInput(t *testing.T) {
	valid := models.DefaultProbeConfig()

	tests := []struct {
		name   string
		target models.Target
		cfg    models.ProbeConfig
	}{
		{name: "empty target", target: "", cfg: valid},
		{name: "zero size", target: "1.1.1.1", cfg: models.ProbeConfig{Size: 0, Count: 4, Timeout: time.Second}},
		{name: "zero count", target: "1.1.1.1", cfg: models.ProbeConfig{Size: 40, Count: 0, Timeout: time.Second}},
		{name: "negative timeout", target: "1.1.1.1", cfg: models.ProbeConfig{Size: 40, Count: 4, Timeout: -time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mech := &fakeMechanism{}
			_, err := NewExecutor(mech).Probe(context.Background(), tt.target, tt.cfg)

			var pf *models.ProbeFailure
			require.ErrorAs(t, err, &pf)
			assert.Zero(t, mech.calls)
		})
	}
}

func TestPacketLossBounds(t *testing.T) {
	for sent := 1; sent <= 16; sent++ {
		for success := 0; success <= sent; success++ {
			loss := PacketLoss(success, sent)
			assert.GreaterOrEqual(t, loss, 0.0, "success=%d sent=%d", success, sent)
			assert.LessOrEqual(t, loss, 100.0, "success=%d sent=%d", success, sent)
		}
	}

	assert.Equal(t, 0.0, PacketLoss(5, 4), "more replies than requests is clamped")
	assert.Equal(t, 100.0, PacketLoss(-1, 4))
}
