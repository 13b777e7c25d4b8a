package models

import (
	"errors"
)

// ErrNoPacketsSent is reported when a probe run made no echo attempts,
// so packet loss cannot be computed.
var ErrNoPacketsSent = errors.New("probe sent no packets")

// RawResult is what a probe mechanism reports for one run.
type RawResult struct {
	RTTAvgMs     *float64 // nil when no echo succeeded
	SuccessCount int
	PacketsSent  int
}

// Sample is the normalized result of a successful probe run.
type Sample struct {
	Target        Target  `json:"target"`
	RTTAvgMs      float64 `json:"rtt_avg_ms"`
	PacketLossPct float64 `json:"packet_loss_pct"`
}

// ProbeFailure describes a probe run that produced no sample.
type ProbeFailure struct {
	Message string
	Err     error
}

func (f *ProbeFailure) Error() string { return f.Message }

func (f *ProbeFailure) Unwrap() error { return f.Err }

// AsProbeFailure returns err as a *ProbeFailure, wrapping it if needed.
func AsProbeFailure(err error) *ProbeFailure {
	if err == nil {
		return nil
	}
	var pf *ProbeFailure
	if errors.As(err, &pf) {
		return pf
	}
	return &ProbeFailure{Message: err.Error(), Err: err}
}
