package models

import "time"

// Record is an archived point as read back from the local archive
type Record struct {
	Timestamp    time.Time `json:"timestamp"`
	Measurement  string    `json:"measurement"`
	Target       string    `json:"target,omitempty"`
	RTT          float64   `json:"rtt_ms"`          // milliseconds
	PacketLoss   float64   `json:"packet_loss_pct"` // percentage
	ErrorMessage string    `json:"error_message,omitempty"`
}

// Failed reports whether the record marks an unreachable tick
func (r Record) Failed() bool {
	return r.Measurement == MeasurementError || r.PacketLoss >= 100
}

// Stats represents aggregated statistics for a target
type Stats struct {
	Target     string  `json:"target"`
	Samples    int     `json:"samples"`
	Reachable  int     `json:"reachable_samples"`
	AvgRTT     float64 `json:"avg_rtt"`
	MaxRTT     float64 `json:"max_rtt"`
	MinRTT     float64 `json:"min_rtt"`
	PacketLoss float64 `json:"packet_loss"`
}

// Outage represents a run of consecutive failed ticks
type Outage struct {
	Target       string    `json:"target,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	FailedChecks int       `json:"failed_checks"`
	Duration     string    `json:"duration"`
}

// FindOutages groups consecutive failed records into outages.
// Records must be in chronological order; runs shorter than minRun are ignored.
func FindOutages(records []Record, minRun int) []Outage {
	var outages []Outage
	var run []Record

	flush := func() {
		if len(run) >= minRun && len(run) > 0 {
			start, end := run[0].Timestamp, run[len(run)-1].Timestamp
			outages = append(outages, Outage{
				Target:       run[0].Target,
				StartTime:    start,
				EndTime:      end,
				FailedChecks: len(run),
				Duration:     end.Sub(start).String(),
			})
		}
		run = run[:0]
	}

	for _, r := range records {
		if r.Failed() {
			run = append(run, r)
			continue
		}
		flush()
	}
	flush()

	return outages
}
