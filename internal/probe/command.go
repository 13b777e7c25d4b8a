package probe

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"pingprobe/internal/models"
)

// Command runs the system ping binary and parses its summary.
// It is the fallback for hosts where ICMP sockets are not available.
type Command struct {
	path string
}

// NewCommand creates a Command mechanism using the ping binary on PATH
func NewCommand() *Command {
	return &Command{path: "ping"}
}

var (
	summaryPatterns = []*regexp.Regexp{
		// Linux / macOS: "4 packets transmitted, 3 received" or "3 packets received"
		regexp.MustCompile(`(\d+) packets transmitted, (\d+) (?:packets )?received`),
		// Windows: "Packets: Sent = 4, Received = 3"
		regexp.MustCompile(`Sent = (\d+), Received = (\d+)`),
	}
	avgPatterns = []*regexp.Regexp{
		// Linux: "rtt min/avg/max/mdev = 11.2/12.5/13.1/0.5 ms"
		// macOS: "round-trip min/avg/max/stddev = 44.347/44.347/44.347/0.000 ms"
		regexp.MustCompile(`(?:rtt|round-trip) min/avg/max(?:/\w+)? = [0-9.]+/([0-9.]+)/`),
		// Windows: "Minimum = 14ms, Maximum = 16ms, Average = 15ms"
		regexp.MustCompile(`Average = ([0-9.]+)ms`),
	}
)

// Ping executes the platform ping command. A non-zero exit status is not an
// error as long as the output carries a packet summary, since ping exits
// non-zero when no reply was received.
func (c *Command) Ping(ctx context.Context, target models.Target, cfg models.ProbeConfig) (models.RawResult, error) {
	budget := time.Duration(cfg.Count)*cfg.Timeout + time.Second
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.path, commandArgs(runtime.GOOS, target, cfg)...)
	output, err := cmd.CombinedOutput()

	raw, ok := parseSummary(string(output))
	if ok {
		return raw, nil
	}
	if err != nil {
		msg := strings.TrimSpace(string(output))
		if msg == "" {
			msg = err.Error()
		}
		return models.RawResult{}, fmt.Errorf("ping %s: %s", target, msg)
	}
	return models.RawResult{}, fmt.Errorf("ping %s: no summary in output", target)
}

func commandArgs(goos string, target models.Target, cfg models.ProbeConfig) []string {
	count := strconv.Itoa(cfg.Count)
	size := strconv.Itoa(cfg.Size)

	switch goos {
	case "windows":
		return []string{"-n", count, "-l", size, "-w", strconv.FormatInt(cfg.Timeout.Milliseconds(), 10), string(target)}
	case "darwin":
		// macOS -W takes milliseconds
		return []string{"-c", count, "-s", size, "-W", strconv.FormatInt(cfg.Timeout.Milliseconds(), 10), string(target)}
	default:
		return []string{"-c", count, "-s", size, "-W", strconv.Itoa(int(cfg.Timeout.Seconds())), string(target)}
	}
}

// parseSummary extracts sent/received counts and the average RTT from ping output
func parseSummary(output string) (models.RawResult, bool) {
	var raw models.RawResult
	found := false

	for _, re := range summaryPatterns {
		m := re.FindStringSubmatch(output)
		if len(m) < 3 {
			continue
		}
		sent, errSent := strconv.Atoi(m[1])
		recv, errRecv := strconv.Atoi(m[2])
		if errSent != nil || errRecv != nil {
			continue
		}
		raw.PacketsSent, raw.SuccessCount = sent, recv
		found = true
		break
	}
	if !found {
		return models.RawResult{}, false
	}

	if raw.SuccessCount > 0 {
		for _, re := range avgPatterns {
			m := re.FindStringSubmatch(output)
			if len(m) < 2 {
				continue
			}
			if avg, err := strconv.ParseFloat(m[1], 64); err == nil {
				raw.RTTAvgMs = &avg
				break
			}
		}
	}

	return raw, true
}
