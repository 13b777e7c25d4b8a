package models

import (
	"context"
	"time"
)

// Target is the host name or IP address being probed.
type Target string

// ProbeConfig holds the parameters of a single probe run
type ProbeConfig struct {
	Size    int           // echo payload size in bytes
	Count   int           // echo requests per probe
	Timeout time.Duration // per echo
}

// DefaultProbeConfig returns the probe parameters used when nothing is configured
func DefaultProbeConfig() ProbeConfig {
	return ProbeConfig{
		Size:    40,
		Count:   4,
		Timeout: 2 * time.Second,
	}
}

// Prober runs one probe against a target
type Prober interface {
	Probe(ctx context.Context, target Target, cfg ProbeConfig) (Sample, error)
}

// Sink accepts points for persistence
type Sink interface {
	Name() string
	Write(ctx context.Context, p Point) error
	Close() error
}
