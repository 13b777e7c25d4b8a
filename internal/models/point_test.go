package models

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPingPoint(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := NewPingPoint(Sample{Target: "1.1.1.1", RTTAvgMs: 12.5, PacketLossPct: 0}, ts)

	assert.Equal(t, MeasurementPing, p.Measurement)
	assert.Equal(t, map[string]string{TagTarget: "1.1.1.1"}, p.Tags)
	assert.Equal(t, ts, p.Time)

	rtt, ok := p.FloatField(FieldRTT)
	require.True(t, ok)
	assert.Equal(t, 12.5, rtt)

	loss, ok := p.FloatField(FieldPacketLoss)
	require.True(t, ok)
	assert.Equal(t, 0.0, loss)
}

func TestNewPingPointKeepsZeroRTT(t *testing.T) {
	p := NewPingPoint(Sample{Target: "10.0.0.1", PacketLossPct: 100}, time.Now())

	rtt, ok := p.FloatField(FieldRTT)
	require.True(t, ok, "rtt_ms must be present even when no echo succeeded")
	assert.Equal(t, 0.0, rtt)
}

func TestNewErrorPoint(t *testing.T) {
	p := NewErrorPoint(&ProbeFailure{Message: "host unreachable"}, time.Now())

	assert.Equal(t, MeasurementError, p.Measurement)
	assert.Empty(t, p.Tags)
	assert.Equal(t, int64(1), p.Fields[FieldError])

	msg, ok := p.StringField(FieldMessage)
	require.True(t, ok)
	assert.Equal(t, "host unreachable", msg)
}

func TestAsProbeFailure(t *testing.T) {
	assert.Nil(t, AsProbeFailure(nil))

	cause := errors.New("lookup nowhere.invalid: no such host")
	pf := AsProbeFailure(cause)
	assert.Equal(t, cause.Error(), pf.Message)
	assert.ErrorIs(t, pf, cause)

	original := &ProbeFailure{Message: "no packets", Err: ErrNoPacketsSent}
	wrapped := fmt.Errorf("tick: %w", original)
	assert.Same(t, original, AsProbeFailure(wrapped))
	assert.ErrorIs(t, AsProbeFailure(wrapped), ErrNoPacketsSent)
}

func TestFindOutages(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	at := func(i int) time.Time { return base.Add(time.Duration(i) * 30 * time.Second) }

	ok := func(i int) Record {
		return Record{Timestamp: at(i), Measurement: MeasurementPing, Target: "1.1.1.1", RTT: 10}
	}
	lost := func(i int) Record {
		return Record{Timestamp: at(i), Measurement: MeasurementPing, Target: "1.1.1.1", PacketLoss: 100}
	}
	failed := func(i int) Record {
		return Record{Timestamp: at(i), Measurement: MeasurementError, ErrorMessage: "unreachable"}
	}

	tests := []struct {
		name    string
		records []Record
		minRun  int
		want    []int // failed checks per outage
	}{
		{name: "no failures", records: []Record{ok(0), ok(1), ok(2)}, minRun: 3, want: nil},
		{name: "short run ignored", records: []Record{ok(0), lost(1), lost(2), ok(3)}, minRun: 3, want: nil},
		{name: "mixed failure kinds", records: []Record{ok(0), lost(1), failed(2), lost(3), ok(4)}, minRun: 3, want: []int{3}},
		{name: "trailing run", records: []Record{ok(0), failed(1), failed(2), failed(3), failed(4)}, minRun: 3, want: []int{4}},
		{name: "two runs", records: []Record{lost(0), lost(1), ok(2), lost(3), lost(4)}, minRun: 2, want: []int{2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outages := FindOutages(tt.records, tt.minRun)
			var got []int
			for _, o := range outages {
				got = append(got, o.FailedChecks)
				assert.False(t, o.EndTime.Before(o.StartTime))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
