package probe

import (
	"context"
	"os"
	"testing"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pingprobe/internal/models"
)

func TestFromStatistics(t *testing.T) {
	tests := []struct {
		name    string
		stats   probing.Statistics
		wantRTT *float64
		sent    int
		recv    int
	}{
		{
			name:    "replies received",
			stats:   probing.Statistics{PacketsSent: 4, PacketsRecv: 4, AvgRtt: 12500 * time.Microsecond},
			wantRTT: rtt(12.5),
			sent:    4,
			recv:    4,
		},
		{
			name:  "no replies leaves rtt unset",
			stats: probing.Statistics{PacketsSent: 4, PacketsRecv: 0},
			sent:  4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := fromStatistics(&tt.stats)
			assert.Equal(t, tt.sent, raw.PacketsSent)
			assert.Equal(t, tt.recv, raw.SuccessCount)
			if tt.wantRTT == nil {
				assert.Nil(t, raw.RTTAvgMs)
				return
			}
			require.NotNil(t, raw.RTTAvgMs)
			assert.InDelta(t, *tt.wantRTT, *raw.RTTAvgMs, 1e-9)
		})
	}
}

func TestICMPLoopback(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping ICMP integration test in short mode")
	}
	if os.Getenv("PINGPROBE_ICMP_TESTS") == "" {
		t.Skip("set PINGPROBE_ICMP_TESTS=1 to run ICMP socket tests")
	}

	cfg := models.ProbeConfig{Size: 40, Count: 2, Timeout: time.Second}
	raw, err := NewICMP(false).Ping(context.Background(), "127.0.0.1", cfg)
	if err != nil {
		t.Skipf("ICMP sockets unavailable: %v", err)
	}

	assert.Equal(t, 2, raw.PacketsSent)
	assert.Equal(t, 2, raw.SuccessCount)
	require.NotNil(t, raw.RTTAvgMs)
}

func TestICMPResolveFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping DNS-dependent test in short mode")
	}

	_, err := NewICMP(false).Ping(context.Background(), "invalid.host.that.does.not.exist.", models.DefaultProbeConfig())
	assert.Error(t, err)
}
