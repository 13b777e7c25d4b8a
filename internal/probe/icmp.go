package probe

import (
	"context"
	"fmt"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"pingprobe/internal/models"
)

// ICMP sends echo requests with pro-bing.
type ICMP struct {
	// Privileged selects raw ICMP sockets instead of unprivileged UDP ping
	Privileged bool
}

// NewICMP creates an ICMP mechanism
func NewICMP(privileged bool) *ICMP {
	return &ICMP{Privileged: privileged}
}

// Ping runs cfg.Count echoes against target. The whole run is bounded by
// Count * Timeout, which gives every echo its own timeout budget.
func (i *ICMP) Ping(ctx context.Context, target models.Target, cfg models.ProbeConfig) (models.RawResult, error) {
	pinger, err := probing.NewPinger(string(target))
	if err != nil {
		return models.RawResult{}, err
	}

	pinger.Count = cfg.Count
	pinger.Size = cfg.Size
	pinger.Timeout = time.Duration(cfg.Count) * cfg.Timeout
	pinger.SetPrivileged(i.Privileged)

	if err := pinger.RunWithContext(ctx); err != nil {
		return models.RawResult{}, fmt.Errorf("ping %s: %w", target, err)
	}

	return fromStatistics(pinger.Statistics()), nil
}

func fromStatistics(stats *probing.Statistics) models.RawResult {
	raw := models.RawResult{
		SuccessCount: stats.PacketsRecv,
		PacketsSent:  stats.PacketsSent,
	}
	if stats.PacketsRecv > 0 {
		avg := float64(stats.AvgRtt) / float64(time.Millisecond)
		raw.RTTAvgMs = &avg
	}
	return raw
}
